// Package engines tracks the external automation engines that feed the
// dashboard. The engines run as n8n workflows outside this backend; we poll
// their status webhooks on an interval and fan the last-known snapshot out
// to the API, so a dashboard page load never blocks on a slow webhook.
package engines

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/quantumreach/outreach-server/internal/config"
	"github.com/quantumreach/outreach-server/internal/domain"
	"github.com/quantumreach/outreach-server/internal/pkg/httpretry"
	"github.com/quantumreach/outreach-server/internal/pkg/logger"
)

// ErrUnknownEngine is returned when triggering an engine no endpoint is
// configured for.
var ErrUnknownEngine = errors.New("unknown engine")

// statusPayload is the body the engine status webhooks return.
type statusPayload struct {
	State   string `json:"state"`
	Message string `json:"message"`
}

// Monitor polls engine status webhooks in the background and serves the
// latest snapshot from memory.
type Monitor struct {
	cfg    config.EnginesConfig
	client httpretry.HTTPDoer

	mu     sync.RWMutex
	latest map[string]domain.EngineStatus

	stop chan struct{}
	done chan struct{}
}

// NewMonitor creates an engine monitor. If client is nil a retrying client
// with the configured per-request timeout is used.
func NewMonitor(cfg config.EnginesConfig, client httpretry.HTTPDoer) *Monitor {
	if client == nil {
		client = httpretry.NewRetryClient(&http.Client{Timeout: cfg.Timeout()}, 2)
	}
	return &Monitor{
		cfg:    cfg,
		client: client,
		latest: make(map[string]domain.EngineStatus),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start launches the background poll loop. It polls once immediately so the
// first dashboard load after boot has data, then on the configured interval.
func (m *Monitor) Start() {
	go func() {
		defer close(m.done)
		m.pollAll(context.Background())

		ticker := time.NewTicker(m.cfg.PollInterval())
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.pollAll(context.Background())
			case <-m.stop:
				return
			}
		}
	}()
}

// Stop halts the poll loop and waits for it to exit.
func (m *Monitor) Stop() {
	close(m.stop)
	<-m.done
}

// Latest returns the last-known status of every configured engine, sorted
// by name. Engines that have never been polled report as unknown.
func (m *Monitor) Latest() []domain.EngineStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.EngineStatus, 0, len(m.cfg.Endpoints))
	for _, ep := range m.cfg.Endpoints {
		if st, ok := m.latest[ep.Name]; ok {
			out = append(out, st)
			continue
		}
		out = append(out, domain.EngineStatus{Name: ep.Name, State: "unknown"})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Refresh polls every endpoint once, synchronously. Used by the manual
// refresh action in the admin console.
func (m *Monitor) Refresh(ctx context.Context) []domain.EngineStatus {
	m.pollAll(ctx)
	return m.Latest()
}

// Trigger fires an engine's trigger webhook.
func (m *Monitor) Trigger(ctx context.Context, name string) error {
	ep, ok := m.endpoint(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEngine, name)
	}
	if ep.TriggerURL == "" {
		return fmt.Errorf("engine %s has no trigger webhook", name)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.TriggerURL, nil)
	if err != nil {
		return fmt.Errorf("build trigger request: %w", err)
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("trigger engine %s: %w", name, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("trigger engine %s: status %d", name, resp.StatusCode)
	}
	logger.Info("engine triggered", "engine", name)
	return nil
}

func (m *Monitor) endpoint(name string) (config.EngineEndpoint, bool) {
	for _, ep := range m.cfg.Endpoints {
		if ep.Name == name {
			return ep, true
		}
	}
	return config.EngineEndpoint{}, false
}

func (m *Monitor) pollAll(ctx context.Context) {
	for _, ep := range m.cfg.Endpoints {
		st := m.poll(ctx, ep)
		m.mu.Lock()
		m.latest[ep.Name] = st
		m.mu.Unlock()
	}
}

func (m *Monitor) poll(ctx context.Context, ep config.EngineEndpoint) domain.EngineStatus {
	st := domain.EngineStatus{Name: ep.Name, LastChecked: time.Now().UTC()}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ep.StatusURL, nil)
	if err != nil {
		st.State = "error"
		st.Message = err.Error()
		return st
	}
	resp, err := m.client.Do(req)
	if err != nil {
		logger.Warn("engine status poll failed", "engine", ep.Name, "error", err.Error())
		st.State = "error"
		st.Message = err.Error()
		return st
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		st.State = "error"
		st.Message = fmt.Sprintf("status webhook returned %d", resp.StatusCode)
		return st
	}

	var payload statusPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		st.State = "error"
		st.Message = fmt.Sprintf("decode status payload: %v", err)
		return st
	}

	st.Reachable = true
	st.State = payload.State
	st.Message = payload.Message
	if st.State == "" {
		st.State = "idle"
	}
	return st
}

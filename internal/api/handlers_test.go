package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantumreach/outreach-server/internal/admin"
	"github.com/quantumreach/outreach-server/internal/cache"
	"github.com/quantumreach/outreach-server/internal/config"
	"github.com/quantumreach/outreach-server/internal/domain"
	"github.com/quantumreach/outreach-server/internal/roi"
	"github.com/quantumreach/outreach-server/internal/wizard"
)

var testNow = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

func n64(v int64) *int64 { return &v }

func metricRow(campaign string, daysAgo int, sent, opened, replied, bounced int64) domain.MetricRow {
	return domain.MetricRow{
		CampaignID:    campaign,
		Date:          testNow.AddDate(0, 0, -daysAgo),
		EmailsSent:    n64(sent),
		EmailsOpened:  n64(opened),
		EmailsReplied: n64(replied),
		EmailsBounced: n64(bounced),
	}
}

type fakeMetrics struct {
	rows []domain.MetricRow
	err  error
}

func (f *fakeMetrics) RowsSince(ctx context.Context, orgID string, since time.Time) ([]domain.MetricRow, error) {
	return f.rows, f.err
}

func (f *fakeMetrics) RowsSinceAllOrgs(ctx context.Context, since time.Time) ([]domain.MetricRow, error) {
	return f.rows, f.err
}

type fakeRefs struct {
	refs []domain.CampaignRef
}

func (f *fakeRefs) Refs(ctx context.Context, orgID string) ([]domain.CampaignRef, error) {
	return f.refs, nil
}

type fakeOrgs struct {
	orgs  []domain.Organization
	perms map[string]*admin.StoredPermissions
	roles map[string]string

	mu    sync.Mutex
	saved map[string]*admin.StoredPermissions
}

func (f *fakeOrgs) List(ctx context.Context) ([]domain.Organization, error) {
	return f.orgs, nil
}

func (f *fakeOrgs) Get(ctx context.Context, id string) (*domain.Organization, error) {
	for i := range f.orgs {
		if f.orgs[i].ID == id {
			return &f.orgs[i], nil
		}
	}
	return nil, nil
}

func (f *fakeOrgs) GetPermissions(ctx context.Context, userID string) (*admin.StoredPermissions, string, error) {
	return f.perms[userID], f.roles[userID], nil
}

func (f *fakeOrgs) SavePermissions(ctx context.Context, userID string, sp *admin.StoredPermissions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saved == nil {
		f.saved = make(map[string]*admin.StoredPermissions)
	}
	f.saved[userID] = sp
	return nil
}

type memDraftStore struct {
	mu     sync.Mutex
	drafts map[string]*domain.CampaignDraft
}

func (s *memDraftStore) GetDraft(ctx context.Context, orgID, id string) (*domain.CampaignDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[id]
	if !ok || d.OrganizationID != orgID {
		return nil, wizard.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *memDraftStore) SaveDraft(ctx context.Context, d *domain.CampaignDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drafts == nil {
		s.drafts = make(map[string]*domain.CampaignDraft)
	}
	cp := *d
	s.drafts[d.ID] = &cp
	return nil
}

func defaultROITable() config.ROIConfig {
	return config.ROIConfig{
		CurrentMeetingRate:   0.20,
		CurrentCloseRate:     0.15,
		ProjectedReplyRate:   3.5,
		ProjectedMeetingRate: 0.30,
		ProjectedCloseRate:   0.20,
		MonthlyInvestment:    2497,
		RampMonths:           1,
	}
}

type testEnv struct {
	server  *httptest.Server
	metrics *fakeMetrics
	orgs    *fakeOrgs
}

func setupServer(t *testing.T, metrics *fakeMetrics, refs *fakeRefs, orgs *fakeOrgs) *testEnv {
	t.Helper()
	h := NewHandlers(
		metrics,
		refs,
		orgs,
		cache.New(nil, 0),
		roi.NewProjector(defaultROITable()),
		wizard.NewService(&memDraftStore{}),
		nil,
		nil,
		nil,
		nil,
	)
	h.now = func() time.Time { return testNow }

	srv := httptest.NewServer(SetupRoutes(h, nil))
	t.Cleanup(srv.Close)
	return &testEnv{server: srv, metrics: metrics, orgs: orgs}
}

func doJSON(t *testing.T, method, url string, body any, dst any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Organization-ID", "org-1")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	if dst != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
	}
	return resp
}

func TestGetOverview_RatesAndWeekOverWeek(t *testing.T) {
	env := setupServer(t,
		&fakeMetrics{rows: []domain.MetricRow{
			metricRow("camp-a", 2, 200, 60, 6, 10),
			metricRow("camp-a", 9, 100, 20, 2, 5),
		}},
		&fakeRefs{}, &fakeOrgs{})

	var resp OverviewResponse
	doJSON(t, http.MethodGet, env.server.URL+"/api/analytics/overview", nil, &resp)

	assert.Equal(t, domain.AggregatedTotals{Sent: 300, Opened: 80, Replied: 8, Bounced: 15}, resp.Totals)
	assert.InDelta(t, 26.667, resp.Rates.OpenRate, 0.01)
	assert.Equal(t, int64(200), resp.WeekOverWeek.ThisWeekSent)
	assert.Equal(t, int64(100), resp.WeekOverWeek.LastWeekSent)
	assert.Equal(t, 100.0, resp.WeekOverWeek.ChangePercent)
	assert.Equal(t, 30, resp.Days)
}

func TestGetOverview_MissingOrg(t *testing.T) {
	env := setupServer(t, &fakeMetrics{}, &fakeRefs{}, &fakeOrgs{})

	resp, err := http.Get(env.server.URL + "/api/analytics/overview")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetTrend_SevenPoints(t *testing.T) {
	env := setupServer(t,
		&fakeMetrics{rows: []domain.MetricRow{
			metricRow("camp-a", 0, 300, 70, 9, 5),
			metricRow("camp-a", 3, 120, 40, 2, 1),
		}},
		&fakeRefs{}, &fakeOrgs{})

	var resp TrendResponse
	r := doJSON(t, http.MethodGet, env.server.URL+"/api/analytics/trend", nil, &resp)

	assert.Equal(t, http.StatusOK, r.StatusCode)
	require.Len(t, resp.Series, 7)
	assert.Equal(t, "2026-08-25", resp.Series[0].Date)
	assert.Equal(t, "2026-08-31", resp.Series[6].Date)
	assert.Equal(t, int64(300), resp.Series[6].Sent)
	assert.Equal(t, int64(120), resp.Series[3].Sent)
	assert.Equal(t, int64(0), resp.Series[1].Sent)
}

func TestGetTopCampaigns(t *testing.T) {
	env := setupServer(t,
		&fakeMetrics{rows: []domain.MetricRow{
			metricRow("camp-a", 1, 100, 30, 5, 1),
			metricRow("camp-b", 1, 400, 40, 4, 2),
		}},
		&fakeRefs{refs: []domain.CampaignRef{
			{ID: "camp-a", Name: "Founders", OrganizationID: "org-1", OrganizationName: "Acme Capital"},
			{ID: "camp-b", Name: "CTOs", OrganizationID: "org-1", OrganizationName: "Acme Capital"},
		}},
		&fakeOrgs{})

	var resp TopCampaignsResponse
	doJSON(t, http.MethodGet, env.server.URL+"/api/analytics/top-campaigns?limit=1", nil, &resp)

	assert.Equal(t, "replies", resp.By)
	require.Len(t, resp.Campaigns, 1)
	assert.Equal(t, "camp-a", resp.Campaigns[0].ID)
	assert.Equal(t, 5.0, resp.Campaigns[0].ReplyRate)

	doJSON(t, http.MethodGet, env.server.URL+"/api/analytics/top-campaigns?limit=1&by=sent", nil, &resp)
	assert.Equal(t, "sent", resp.By)
	require.Len(t, resp.Campaigns, 1)
	assert.Equal(t, "camp-b", resp.Campaigns[0].ID)
}

func TestProjectROI(t *testing.T) {
	env := setupServer(t, &fakeMetrics{}, &fakeRefs{}, &fakeOrgs{})

	var resp domain.ROIProjection
	r := doJSON(t, http.MethodPost, env.server.URL+"/api/roi/project", ROIRequest{
		MonthlyVolume:    5000,
		CurrentReplyRate: 1,
		AvgDealSize:      10000,
		SalesCycleWeeks:  8,
	}, &resp)

	assert.Equal(t, http.StatusOK, r.StatusCode)
	assert.Equal(t, int64(2), resp.Current.Deals)
	assert.Equal(t, int64(11), resp.Projected.Deals)
	assert.Equal(t, 90000.0, resp.Impact.AdditionalMonthlyRevenue)
	assert.Equal(t, 3504.0, resp.Impact.ROIPercent)
	assert.Equal(t, 3, resp.Impact.MonthsToFirstDeal)
}

func TestProjectROI_NegativeInput(t *testing.T) {
	env := setupServer(t, &fakeMetrics{}, &fakeRefs{}, &fakeOrgs{})

	r := doJSON(t, http.MethodPost, env.server.URL+"/api/roi/project", ROIRequest{
		MonthlyVolume: -1,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, r.StatusCode)
}

func TestGetClientPerformance(t *testing.T) {
	env := setupServer(t,
		&fakeMetrics{rows: []domain.MetricRow{
			metricRow("camp-a", 1, 100, 30, 5, 1),
			metricRow("camp-c", 1, 900, 90, 9, 9),
		}},
		&fakeRefs{refs: []domain.CampaignRef{
			{ID: "camp-a", Name: "Founders", OrganizationID: "org-1", OrganizationName: "Acme Capital"},
			{ID: "camp-c", Name: "SaaS", OrganizationID: "org-2", OrganizationName: "Northwind"},
		}},
		&fakeOrgs{})

	var resp ClientPerformanceResponse
	doJSON(t, http.MethodGet, env.server.URL+"/api/admin/client-performance", nil, &resp)

	require.Len(t, resp.Organizations, 2)
	assert.Equal(t, "org-2", resp.Organizations[0].ID)
	assert.Equal(t, "Northwind", resp.Organizations[0].Name)
	assert.Equal(t, int64(900), resp.Organizations[0].Sent)
}

func TestPermissions_GetAndUpdate(t *testing.T) {
	f := false
	env := setupServer(t, &fakeMetrics{}, &fakeRefs{}, &fakeOrgs{
		roles: map[string]string{"user-1": "client"},
		perms: map[string]*admin.StoredPermissions{},
	})

	var resp PermissionsResponse
	doJSON(t, http.MethodGet, env.server.URL+"/api/admin/permissions/user-1", nil, &resp)
	assert.Equal(t, "client", resp.Role)
	assert.True(t, resp.Effective.ManageCampaigns)
	assert.False(t, resp.Effective.ManageBilling)

	doJSON(t, http.MethodPut, env.server.URL+"/api/admin/permissions/user-1",
		admin.StoredPermissions{ViewAnalytics: &f}, &resp)
	assert.True(t, resp.Effective.ManageCampaigns, "unset override keeps role default")
	assert.False(t, resp.Effective.ViewAnalytics, "stored override wins")

	env.orgs.mu.Lock()
	defer env.orgs.mu.Unlock()
	require.Contains(t, env.orgs.saved, "user-1")
}

func TestPermissions_UnknownUser(t *testing.T) {
	env := setupServer(t, &fakeMetrics{}, &fakeRefs{}, &fakeOrgs{})

	r := doJSON(t, http.MethodGet, env.server.URL+"/api/admin/permissions/nobody", nil, nil)
	assert.Equal(t, http.StatusNotFound, r.StatusCode)
}

func TestGetOrganizations(t *testing.T) {
	env := setupServer(t, &fakeMetrics{}, &fakeRefs{}, &fakeOrgs{
		orgs: []domain.Organization{
			{ID: "org-1", Name: "Acme Capital"},
			{ID: "org-2", Name: "Northwind"},
		},
	})

	var list []domain.Organization
	doJSON(t, http.MethodGet, env.server.URL+"/api/admin/organizations", nil, &list)
	require.Len(t, list, 2)

	var org domain.Organization
	doJSON(t, http.MethodGet, env.server.URL+"/api/admin/organizations/org-2", nil, &org)
	assert.Equal(t, "Northwind", org.Name)

	r := doJSON(t, http.MethodGet, env.server.URL+"/api/admin/organizations/org-9", nil, nil)
	assert.Equal(t, http.StatusNotFound, r.StatusCode)
}

func TestEngines_Disabled(t *testing.T) {
	env := setupServer(t, &fakeMetrics{}, &fakeRefs{}, &fakeOrgs{})

	var resp map[string]any
	doJSON(t, http.MethodGet, env.server.URL+"/api/engines", nil, &resp)
	assert.Equal(t, false, resp["enabled"])

	r := doJSON(t, http.MethodPost, env.server.URL+"/api/engines/email/trigger", nil, nil)
	assert.Equal(t, http.StatusBadRequest, r.StatusCode)
}

func TestWizardFlow_OverHTTP(t *testing.T) {
	env := setupServer(t, &fakeMetrics{}, &fakeRefs{}, &fakeOrgs{})
	base := env.server.URL + "/api/campaigns/drafts"

	var draft domain.CampaignDraft
	r := doJSON(t, http.MethodPost, base, nil, &draft)
	require.Equal(t, http.StatusCreated, r.StatusCode)
	assert.Equal(t, domain.StepDetails, draft.Step)

	// Advancing before the details form is filled is a conflict.
	r = doJSON(t, http.MethodPost, fmt.Sprintf("%s/%s/advance", base, draft.ID), nil, nil)
	assert.Equal(t, http.StatusConflict, r.StatusCode)

	doJSON(t, http.MethodPut, fmt.Sprintf("%s/%s/details", base, draft.ID), wizard.DetailsUpdate{
		Name: "Q4 Push", Industry: "fintech", Role: "CTO", ValueProp: "cut infra spend",
	}, &draft)

	doJSON(t, http.MethodPost, fmt.Sprintf("%s/%s/advance", base, draft.ID), nil, &draft)
	assert.Equal(t, domain.StepLeads, draft.Step)

	doJSON(t, http.MethodPut, fmt.Sprintf("%s/%s/leads", base, draft.ID),
		map[string]int{"lead_count": 250}, &draft)
	doJSON(t, http.MethodPost, fmt.Sprintf("%s/%s/advance", base, draft.ID), nil, &draft)
	assert.Equal(t, domain.StepGenerating, draft.Step)

	doJSON(t, http.MethodPost, fmt.Sprintf("%s/%s/generated", base, draft.ID), nil, &draft)
	doJSON(t, http.MethodPost, fmt.Sprintf("%s/%s/advance", base, draft.ID), nil, &draft)
	assert.Equal(t, domain.StepReview, draft.Step)

	doJSON(t, http.MethodPost, fmt.Sprintf("%s/%s/back", base, draft.ID), nil, &draft)
	assert.Equal(t, domain.StepGenerating, draft.Step)
	assert.Equal(t, 250, draft.LeadCount, "stepping back keeps data")
}

func TestWizard_DraftNotFound(t *testing.T) {
	env := setupServer(t, &fakeMetrics{}, &fakeRefs{}, &fakeOrgs{})

	r := doJSON(t, http.MethodGet, env.server.URL+"/api/campaigns/drafts/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, r.StatusCode)
}

func TestHealthCheck_NoDeps(t *testing.T) {
	env := setupServer(t, &fakeMetrics{}, &fakeRefs{}, &fakeOrgs{})

	var resp HealthStatus
	r := doJSON(t, http.MethodGet, env.server.URL+"/health", nil, &resp)
	assert.Equal(t, http.StatusOK, r.StatusCode)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "not_configured", resp.Checks["database"].Status)
	assert.Equal(t, "not_configured", resp.Checks["redis"].Status)
}

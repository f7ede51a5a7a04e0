package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/quantumreach/outreach-server/internal/cache"
	"github.com/quantumreach/outreach-server/internal/domain"
	"github.com/quantumreach/outreach-server/internal/pkg/httputil"
	"github.com/quantumreach/outreach-server/internal/reporting"
)

// OverviewResponse is the client dashboard's headline payload.
type OverviewResponse struct {
	Totals       domain.AggregatedTotals `json:"totals"`
	Rates        domain.RateSet          `json:"rates"`
	WeekOverWeek domain.WeekComparison   `json:"week_over_week"`
	Days         int                     `json:"days"`
}

// TrendResponse is the last-7-day daily series.
type TrendResponse struct {
	Series []domain.TrendPoint `json:"series"`
}

// TopCampaignsResponse ranks the org's campaigns.
type TopCampaignsResponse struct {
	By        string               `json:"by"`
	Campaigns []domain.RankedGroup `json:"campaigns"`
}

func queryInt(r *http.Request, name string, def, max int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 1 {
		return def
	}
	if v > max {
		return max
	}
	return v
}

// GetOverview returns totals, rates, and week-over-week movement for the
// requesting org's recent activity.
func (h *Handlers) GetOverview(w http.ResponseWriter, r *http.Request) {
	orgID := orgIDFromRequest(r, h.authManager)
	if orgID == "" {
		httputil.BadRequest(w, "organization not specified")
		return
	}
	days := queryInt(r, "days", 30, 365)
	now := h.now()

	var resp OverviewResponse
	err := h.cache.GetOrCompute(r.Context(), cache.Key("overview", orgID, strconv.Itoa(days)), &resp,
		func(ctx context.Context) (any, error) {
			since := now.AddDate(0, 0, -days)
			rows, err := h.metrics.RowsSince(ctx, orgID, since)
			if err != nil {
				return nil, err
			}
			totals := reporting.Totals(rows)
			return OverviewResponse{
				Totals:       totals,
				Rates:        reporting.Rates(totals),
				WeekOverWeek: reporting.WeekOverWeek(rows, now),
				Days:         days,
			}, nil
		})
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, resp)
}

// GetTrend returns the fixed 7-day daily series, zero-filled and oldest
// first.
func (h *Handlers) GetTrend(w http.ResponseWriter, r *http.Request) {
	orgID := orgIDFromRequest(r, h.authManager)
	if orgID == "" {
		httputil.BadRequest(w, "organization not specified")
		return
	}
	now := h.now()

	var resp TrendResponse
	err := h.cache.GetOrCompute(r.Context(), cache.Key("trend", orgID), &resp,
		func(ctx context.Context) (any, error) {
			rows, err := h.metrics.RowsSince(ctx, orgID, now.AddDate(0, 0, -7))
			if err != nil {
				return nil, err
			}
			return TrendResponse{Series: reporting.DailySeries(rows, now)}, nil
		})
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, resp)
}

// GetTopCampaigns ranks the org's campaigns over the last 30 days. by=sent
// switches from the default reply-rate ranking to raw volume.
func (h *Handlers) GetTopCampaigns(w http.ResponseWriter, r *http.Request) {
	orgID := orgIDFromRequest(r, h.authManager)
	if orgID == "" {
		httputil.BadRequest(w, "organization not specified")
		return
	}
	limit := queryInt(r, "limit", 5, 50)
	by := r.URL.Query().Get("by")
	if by != "sent" {
		by = "replies"
	}

	since := h.now().AddDate(0, 0, -30)
	rows, err := h.metrics.RowsSince(r.Context(), orgID, since)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	refs, err := h.refs.Refs(r.Context(), orgID)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}

	groups := reporting.GroupByCampaign(rows, refs)
	var ranked []domain.RankedGroup
	if by == "sent" {
		ranked = reporting.TopBySent(groups, limit)
	} else {
		ranked = reporting.TopByReplyRate(groups, limit)
	}
	if ranked == nil {
		ranked = []domain.RankedGroup{}
	}
	httputil.OK(w, TopCampaignsResponse{By: by, Campaigns: ranked})
}

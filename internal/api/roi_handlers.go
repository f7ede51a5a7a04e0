package api

import (
	"net/http"

	"github.com/quantumreach/outreach-server/internal/domain"
	"github.com/quantumreach/outreach-server/internal/pkg/httputil"
)

// ROIRequest carries the calculator's slider inputs.
type ROIRequest struct {
	MonthlyVolume    int64   `json:"monthly_volume"`
	CurrentReplyRate float64 `json:"current_reply_rate"`
	AvgDealSize      float64 `json:"avg_deal_size"`
	SalesCycleWeeks  int     `json:"sales_cycle_weeks"`
}

// ProjectROI runs the conversion-funnel projection for the calculator page.
func (h *Handlers) ProjectROI(w http.ResponseWriter, r *http.Request) {
	var req ROIRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if req.MonthlyVolume < 0 || req.CurrentReplyRate < 0 || req.AvgDealSize < 0 || req.SalesCycleWeeks < 0 {
		httputil.BadRequest(w, "inputs must be non-negative")
		return
	}

	projection := h.projector.Project(domain.ROIInputs{
		MonthlyVolume:    req.MonthlyVolume,
		CurrentReplyRate: req.CurrentReplyRate,
		AvgDealSize:      req.AvgDealSize,
		SalesCycleWeeks:  req.SalesCycleWeeks,
	})
	httputil.OK(w, projection)
}

// Package roi implements the marketing site's what-if ROI calculator: it
// compares a prospect's stated outbound performance against the product's
// claimed target performance using a configured conversion-funnel table.
package roi

import (
	"math"

	"github.com/quantumreach/outreach-server/internal/config"
	"github.com/quantumreach/outreach-server/internal/domain"
)

// Projector computes ROI projections from slider inputs. It is a pure
// function of its inputs and the assumption table: no persistence, no
// debouncing, recomputed on every call.
type Projector struct {
	cfg config.ROIConfig
}

// NewProjector creates a projector with the given assumption table.
func NewProjector(cfg config.ROIConfig) *Projector {
	return &Projector{cfg: cfg}
}

// Project applies the conversion funnel to the prospect's inputs.
//
// The current and projected funnels intentionally use different meeting and
// close rates (the projected side models the product's claimed uplift); the
// table lives in config so product can tune either side.
func (p *Projector) Project(in domain.ROIInputs) domain.ROIProjection {
	current := p.funnel(in.MonthlyVolume, in.CurrentReplyRate, p.cfg.CurrentMeetingRate, p.cfg.CurrentCloseRate, in.AvgDealSize)
	projected := p.funnel(in.MonthlyVolume, p.cfg.ProjectedReplyRate, p.cfg.ProjectedMeetingRate, p.cfg.ProjectedCloseRate, in.AvgDealSize)

	additionalMonthly := projected.Revenue - current.Revenue
	additionalAnnual := additionalMonthly * 12

	annualInvestment := p.cfg.MonthlyInvestment * 12
	roiPercent := 0.0
	if annualInvestment > 0 {
		roiPercent = math.Round((additionalAnnual - annualInvestment) / annualInvestment * 100)
	}

	return domain.ROIProjection{
		Current:   current,
		Projected: projected,
		Impact: domain.ROIImpact{
			AdditionalMonthlyRevenue: additionalMonthly,
			AdditionalAnnualRevenue:  additionalAnnual,
			ROIPercent:               roiPercent,
			MonthsToFirstDeal:        p.monthsToFirstDeal(in.SalesCycleWeeks),
		},
	}
}

// funnel walks one side of the comparison: volume → replies → meetings →
// deals → revenue, rounding at each stage because the dashboard renders
// whole people and whole deals.
func (p *Projector) funnel(volume int64, replyRatePct, meetingRate, closeRate, dealSize float64) domain.FunnelOutcome {
	replies := roundI(float64(volume) * replyRatePct / 100)
	meetings := roundI(float64(replies) * meetingRate)
	deals := roundI(float64(meetings) * closeRate)
	return domain.FunnelOutcome{
		Replies:  replies,
		Meetings: meetings,
		Deals:    deals,
		Revenue:  float64(deals) * dealSize,
	}
}

// monthsToFirstDeal converts the sales cycle to months, plus ramp time.
func (p *Projector) monthsToFirstDeal(weeks int) int {
	return int(math.Ceil(float64(weeks)/4)) + p.cfg.RampMonths
}

func roundI(v float64) int64 { return int64(math.Round(v)) }

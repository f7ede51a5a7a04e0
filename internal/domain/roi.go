package domain

// ROIInputs are the four slider values a prospect supplies to the ROI
// calculator. Never persisted.
type ROIInputs struct {
	MonthlyVolume    int64   `json:"monthly_volume"`
	CurrentReplyRate float64 `json:"current_reply_rate"` // percent, e.g. 1.0
	AvgDealSize      float64 `json:"avg_deal_size"`
	SalesCycleWeeks  int     `json:"sales_cycle_weeks"`
}

// FunnelOutcome is one side of the ROI comparison: the conversion funnel
// applied to a reply rate.
type FunnelOutcome struct {
	Replies  int64   `json:"replies"`
	Meetings int64   `json:"meetings"`
	Deals    int64   `json:"deals"`
	Revenue  float64 `json:"revenue"`
}

// ROIImpact is the projected uplift from switching to the product.
type ROIImpact struct {
	AdditionalMonthlyRevenue float64 `json:"additional_monthly_revenue"`
	AdditionalAnnualRevenue  float64 `json:"additional_annual_revenue"`
	ROIPercent               float64 `json:"roi"`
	MonthsToFirstDeal        int     `json:"months_to_first_deal"`
}

// ROIProjection compares the prospect's stated current performance against
// the product's claimed target performance. Purely derived from ROIInputs
// plus the configured conversion assumptions.
type ROIProjection struct {
	Current   FunnelOutcome `json:"current"`
	Projected FunnelOutcome `json:"projected"`
	Impact    ROIImpact     `json:"impact"`
}

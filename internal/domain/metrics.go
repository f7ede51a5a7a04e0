package domain

import "time"

// MetricRow is one day's email-send statistics for one campaign, as returned
// by the relational store. At most one row exists per (campaign, day); the
// schema enforces that, not the aggregator. Count fields are pointers because
// the store may hold NULL for days where a counter was never written — the
// reporting pipeline coerces those to zero.
type MetricRow struct {
	CampaignID    string     `json:"campaign_id" db:"campaign_id"`
	Date          time.Time  `json:"date" db:"metric_date"` // calendar day, no time component
	EmailsSent    *int64     `json:"emails_sent" db:"emails_sent"`
	EmailsOpened  *int64     `json:"emails_opened" db:"emails_opened"`
	EmailsReplied *int64     `json:"emails_replied" db:"emails_replied"`
	EmailsBounced *int64     `json:"emails_bounced" db:"emails_bounced"`
}

// Day returns the row's date as an ISO calendar-day string ("2006-01-02").
// Daily series bucketing matches on this string, not on time ranges.
func (r MetricRow) Day() string { return r.Date.Format("2006-01-02") }

// CampaignRef resolves a campaign id to a human name and its tenant.
// It is a static lookup joined against MetricRow.CampaignID.
type CampaignRef struct {
	ID               string `json:"id" db:"id"`
	Name             string `json:"name" db:"name"`
	OrganizationID   string `json:"organization_id" db:"organization_id"`
	OrganizationName string `json:"organization_name" db:"organization_name"`
}

// AggregatedTotals holds summed counts for an arbitrary set of metric rows.
// Derived and ephemeral: recomputed on every request, never persisted.
type AggregatedTotals struct {
	Sent    int64 `json:"sent"`
	Opened  int64 `json:"opened"`
	Replied int64 `json:"replied"`
	Bounced int64 `json:"bounced"`
}

// RateSet holds the derived percentage rates for a set of totals.
// Each value is in [0,100]; a zero denominator always yields exactly 0,
// never NaN or Inf.
type RateSet struct {
	OpenRate           float64 `json:"open_rate"`
	ReplyRate          float64 `json:"reply_rate"`
	DeliverabilityRate float64 `json:"deliverability_rate"`
}

// RankedGroup is the aggregated totals and rates for one campaign or one
// organization, used for leaderboard-style views.
type RankedGroup struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Sent      int64   `json:"sent"`
	Opened    int64   `json:"opened"`
	Replied   int64   `json:"replied"`
	OpenRate  float64 `json:"open_rate"`
	ReplyRate float64 `json:"reply_rate"`
}

// TrendPoint is one calendar day's sums in the fixed-length daily series.
type TrendPoint struct {
	Date    string `json:"date"` // "2006-01-02"
	Sent    int64  `json:"sent"`
	Opened  int64  `json:"opened"`
	Replied int64  `json:"replied"`
}

// WeekComparison is the week-over-week send volume split.
// ChangePercent follows the dashboard convention: a jump from zero to any
// positive volume reports a flat +100%, zero to zero reports 0.
type WeekComparison struct {
	ThisWeekSent  int64   `json:"this_week_sent"`
	LastWeekSent  int64   `json:"last_week_sent"`
	ChangePercent float64 `json:"change_percent"`
}

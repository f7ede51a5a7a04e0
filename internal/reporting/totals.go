package reporting

import (
	"math"

	"github.com/quantumreach/outreach-server/internal/domain"
)

// count dereferences a nullable counter, treating NULL as zero.
func count(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}

// Totals sums each counter across the given rows. Row order never affects
// the result, and an empty input yields all-zero totals.
func Totals(rows []domain.MetricRow) domain.AggregatedTotals {
	var t domain.AggregatedTotals
	for _, r := range rows {
		t.Sent += count(r.EmailsSent)
		t.Opened += count(r.EmailsOpened)
		t.Replied += count(r.EmailsReplied)
		t.Bounced += count(r.EmailsBounced)
	}
	return t
}

// Rate returns numerator/denominator as a percentage. A zero denominator
// yields exactly 0 — this understates rates for campaigns with zero sends,
// which the dashboard accepts in exchange for never rendering NaN.
func Rate(numerator, denominator int64) float64 {
	if denominator <= 0 {
		return 0
	}
	return float64(numerator) / float64(denominator) * 100
}

// Rates derives the full rate set from aggregated totals.
func Rates(t domain.AggregatedTotals) domain.RateSet {
	return domain.RateSet{
		OpenRate:           Rate(t.Opened, t.Sent),
		ReplyRate:          Rate(t.Replied, t.Sent),
		DeliverabilityRate: Rate(t.Sent-t.Bounced, t.Sent),
	}
}

// round2 rounds to two decimal places for display.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

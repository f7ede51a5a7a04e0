package reporting

import (
	"time"

	"github.com/quantumreach/outreach-server/internal/domain"
)

// WeekOverWeek splits rows into this-week and last-week send buckets relative
// to now and reports the percent change. A jump from zero to any positive
// volume is reported as a flat +100% and zero-to-zero as 0%, so the headline
// card never shows NaN or Infinity.
func WeekOverWeek(rows []domain.MetricRow, now time.Time) domain.WeekComparison {
	weekAgo := now.AddDate(0, 0, -7)
	twoWeeksAgo := now.AddDate(0, 0, -14)

	var cmp domain.WeekComparison
	for _, r := range rows {
		switch {
		case !r.Date.Before(weekAgo):
			cmp.ThisWeekSent += count(r.EmailsSent)
		case !r.Date.Before(twoWeeksAgo):
			cmp.LastWeekSent += count(r.EmailsSent)
		}
	}

	switch {
	case cmp.LastWeekSent > 0:
		cmp.ChangePercent = round2(float64(cmp.ThisWeekSent-cmp.LastWeekSent) / float64(cmp.LastWeekSent) * 100)
	case cmp.ThisWeekSent > 0:
		cmp.ChangePercent = 100
	default:
		cmp.ChangePercent = 0
	}
	return cmp
}

// DailySeries produces the last-7-calendar-days chart series: exactly seven
// entries, one per day from six days ago through today, oldest first. Rows
// are matched on the ISO calendar-day string, and days with no rows report
// all zeros — the series length never varies with data sparsity.
func DailySeries(rows []domain.MetricRow, now time.Time) []domain.TrendPoint {
	series := make([]domain.TrendPoint, 0, 7)

	byDay := make(map[string]*domain.TrendPoint, 7)
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format("2006-01-02")
		series = append(series, domain.TrendPoint{Date: day})
		byDay[day] = &series[len(series)-1]
	}

	for _, r := range rows {
		p, ok := byDay[r.Day()]
		if !ok {
			continue // outside the window
		}
		p.Sent += count(r.EmailsSent)
		p.Opened += count(r.EmailsOpened)
		p.Replied += count(r.EmailsReplied)
	}

	return series
}

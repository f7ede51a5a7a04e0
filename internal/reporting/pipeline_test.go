package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/quantumreach/outreach-server/internal/domain"
)

// Feeds a fixed two-campaign, seven-day fixture through the whole pipeline —
// totals, rates, grouping, ranking — and asserts against hand-computed
// expectations.
func TestPipeline_TwoCampaignsSevenDays(t *testing.T) {
	end := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)

	// Campaign A: 100 sent/day, 30 opened, 5 replied, 1 bounced.
	// Campaign B: 200 sent/day, 40 opened, 4 replied, 4 bounced.
	var rows []domain.MetricRow
	for i := 0; i < 7; i++ {
		day := end.AddDate(0, 0, -i)
		rows = append(rows,
			row("A", day, 100, 30, 5, 1),
			row("B", day, 200, 40, 4, 4),
		)
	}
	require.Len(t, rows, 14)

	totals := Totals(rows)
	assert.Equal(t, domain.AggregatedTotals{Sent: 2100, Opened: 490, Replied: 63, Bounced: 35}, totals)

	rates := Rates(totals)
	assert.InDelta(t, 23.333, rates.OpenRate, 0.001)
	assert.InDelta(t, 3.0, rates.ReplyRate, 0.001)
	assert.InDelta(t, 98.333, rates.DeliverabilityRate, 0.001)

	series := DailySeries(rows, end)
	require.Len(t, series, 7)
	for _, p := range series {
		assert.Equal(t, int64(300), p.Sent)
		assert.Equal(t, int64(70), p.Opened)
		assert.Equal(t, int64(9), p.Replied)
	}

	groups := GroupByCampaign(rows, refs)
	require.Len(t, groups, 2)

	top := TopByReplyRate(groups, 1)
	require.Len(t, top, 1)
	// A replies at 5%, B at 2% — A wins despite B's volume.
	assert.Equal(t, "A", top[0].ID)
	assert.Equal(t, int64(700), top[0].Sent)
	assert.Equal(t, 5.0, top[0].ReplyRate)
	assert.Equal(t, 30.0, top[0].OpenRate)

	byVolume := TopBySent(groups, 2)
	assert.Equal(t, "B", byVolume[0].ID)
	assert.Equal(t, int64(1400), byVolume[0].Sent)
}

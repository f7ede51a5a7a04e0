package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/quantumreach/outreach-server/internal/domain"
)

var (
	day1 = time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	day2 = time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)

	refs = []domain.CampaignRef{
		{ID: "A", Name: "Fintech Outreach", OrganizationID: "org-1", OrganizationName: "Acme Capital"},
		{ID: "B", Name: "SaaS Founders", OrganizationID: "org-1", OrganizationName: "Acme Capital"},
		{ID: "C", Name: "Logistics Push", OrganizationID: "org-2", OrganizationName: "Northwind"},
	}
)

func TestGroupByCampaign_SumsAndDropsOrphans(t *testing.T) {
	rows := []domain.MetricRow{
		row("A", day1, 100, 30, 3, 1),
		row("A", day2, 50, 10, 2, 0),
		row("Z", day1, 999, 999, 999, 0), // no matching ref: dropped, not an error
	}

	groups := GroupByCampaign(rows, refs)
	require.Len(t, groups, 1)

	a := groups[0]
	assert.Equal(t, "A", a.ID)
	assert.Equal(t, "Fintech Outreach", a.Name)
	assert.Equal(t, int64(150), a.Sent)
	assert.Equal(t, int64(40), a.Opened)
	assert.Equal(t, int64(5), a.Replied)
	assert.InDelta(t, 26.67, a.OpenRate, 0.001)
	assert.InDelta(t, 3.33, a.ReplyRate, 0.001)
}

func TestGroupByCampaign_OrderIndependentAggregates(t *testing.T) {
	rows := []domain.MetricRow{
		row("A", day1, 100, 30, 3, 1),
		row("B", day1, 200, 80, 10, 2),
		row("A", day2, 50, 10, 2, 0),
		row("B", day2, 100, 20, 5, 1),
	}
	reversed := []domain.MetricRow{rows[3], rows[2], rows[1], rows[0]}

	a := GroupByCampaign(rows, refs)
	b := GroupByCampaign(reversed, refs)

	require.Len(t, a, 2)
	require.Len(t, b, 2)

	// Output order follows first-seen order, so compare by id.
	byID := func(gs []domain.RankedGroup) map[string]domain.RankedGroup {
		m := make(map[string]domain.RankedGroup)
		for _, g := range gs {
			m[g.ID] = g
		}
		return m
	}
	assert.Equal(t, byID(a), byID(b))
}

func TestGroupByOrganization_JoinsThroughRefs(t *testing.T) {
	rows := []domain.MetricRow{
		row("A", day1, 100, 30, 3, 1),
		row("B", day1, 200, 80, 10, 2), // same org as A
		row("C", day1, 50, 5, 1, 0),
		row("Z", day1, 500, 0, 0, 0), // orphan
	}

	groups := GroupByOrganization(rows, refs)
	require.Len(t, groups, 2)

	assert.Equal(t, "org-1", groups[0].ID)
	assert.Equal(t, "Acme Capital", groups[0].Name)
	assert.Equal(t, int64(300), groups[0].Sent)
	assert.Equal(t, int64(13), groups[0].Replied)

	assert.Equal(t, "org-2", groups[1].ID)
	assert.Equal(t, int64(50), groups[1].Sent)
}

func TestTopByReplyRate_StableOnTies(t *testing.T) {
	groups := []domain.RankedGroup{
		{ID: "a", ReplyRate: 2.0},
		{ID: "b", ReplyRate: 5.0},
		{ID: "c", ReplyRate: 5.0},
		{ID: "d", ReplyRate: 5.0},
		{ID: "e", ReplyRate: 1.0},
	}

	top := TopByReplyRate(groups, 3)
	require.Len(t, top, 3)
	assert.Equal(t, []string{"b", "c", "d"}, []string{top[0].ID, top[1].ID, top[2].ID},
		"tied groups keep their original relative order")
}

func TestTopByReplyRate_DoesNotMutateInput(t *testing.T) {
	groups := []domain.RankedGroup{
		{ID: "a", ReplyRate: 1.0},
		{ID: "b", ReplyRate: 9.0},
	}

	_ = TopByReplyRate(groups, 1)
	assert.Equal(t, "a", groups[0].ID)
}

func TestTopBySent_FewerGroupsThanLimit(t *testing.T) {
	groups := []domain.RankedGroup{
		{ID: "a", Sent: 10},
		{ID: "b", Sent: 30},
	}

	top := TopBySent(groups, 10)
	require.Len(t, top, 2)
	assert.Equal(t, "b", top[0].ID)
}

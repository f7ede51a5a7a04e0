package reporting

import (
	"sort"

	"github.com/quantumreach/outreach-server/internal/domain"
)

// accumulator is a running per-group sum keyed by group id.
type accumulator struct {
	id      string
	name    string
	sent    int64
	opened  int64
	replied int64
}

// GroupByCampaign aggregates rows into one RankedGroup per distinct campaign,
// resolving names through refs. Rows whose campaign id has no matching ref
// are dropped silently — orphaned rows from deleted campaigns are stale data,
// not an error. Output order is first-seen order of the campaign in rows, so
// identical inputs in any row order produce identical aggregates.
func GroupByCampaign(rows []domain.MetricRow, refs []domain.CampaignRef) []domain.RankedGroup {
	names := make(map[string]string, len(refs))
	for _, ref := range refs {
		names[ref.ID] = ref.Name
	}
	return group(rows, func(r domain.MetricRow) (string, string, bool) {
		name, ok := names[r.CampaignID]
		return r.CampaignID, name, ok
	})
}

// GroupByOrganization aggregates rows into one RankedGroup per tenant,
// joining each row's campaign to its organization through refs. Orphaned
// rows are dropped the same way as in GroupByCampaign.
func GroupByOrganization(rows []domain.MetricRow, refs []domain.CampaignRef) []domain.RankedGroup {
	orgs := make(map[string]domain.CampaignRef, len(refs))
	for _, ref := range refs {
		orgs[ref.ID] = ref
	}
	return group(rows, func(r domain.MetricRow) (string, string, bool) {
		ref, ok := orgs[r.CampaignID]
		return ref.OrganizationID, ref.OrganizationName, ok
	})
}

func group(rows []domain.MetricRow, key func(domain.MetricRow) (id, name string, ok bool)) []domain.RankedGroup {
	accs := make(map[string]*accumulator)
	var order []string

	for _, r := range rows {
		id, name, ok := key(r)
		if !ok {
			continue
		}
		acc, seen := accs[id]
		if !seen {
			acc = &accumulator{id: id, name: name}
			accs[id] = acc
			order = append(order, id)
		}
		acc.sent += count(r.EmailsSent)
		acc.opened += count(r.EmailsOpened)
		acc.replied += count(r.EmailsReplied)
	}

	groups := make([]domain.RankedGroup, 0, len(order))
	for _, id := range order {
		acc := accs[id]
		groups = append(groups, domain.RankedGroup{
			ID:        acc.id,
			Name:      acc.name,
			Sent:      acc.sent,
			Opened:    acc.opened,
			Replied:   acc.replied,
			OpenRate:  round2(Rate(acc.opened, acc.sent)),
			ReplyRate: round2(Rate(acc.replied, acc.sent)),
		})
	}
	return groups
}

// TopByReplyRate returns the top n groups by reply rate, descending. The sort
// is stable: tied groups keep their original relative order. Fewer than n
// groups returns all of them.
func TopByReplyRate(groups []domain.RankedGroup, n int) []domain.RankedGroup {
	return top(groups, n, func(a, b domain.RankedGroup) bool { return a.ReplyRate > b.ReplyRate })
}

// TopBySent returns the top n groups by send volume, descending, with the
// same stability guarantee as TopByReplyRate.
func TopBySent(groups []domain.RankedGroup, n int) []domain.RankedGroup {
	return top(groups, n, func(a, b domain.RankedGroup) bool { return a.Sent > b.Sent })
}

func top(groups []domain.RankedGroup, n int, less func(a, b domain.RankedGroup) bool) []domain.RankedGroup {
	out := make([]domain.RankedGroup, len(groups))
	copy(out, groups)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// Package admin models the admin console's per-user permission grants.
package admin

// Permissions is the effective set of admin-console grants for one user.
// Fields are explicit and named — a permission either exists here or it
// doesn't, there is no open-ended map to typo a key into.
type Permissions struct {
	ManageCampaigns bool `json:"manage_campaigns"`
	ViewAnalytics   bool `json:"view_analytics"`
	ManageLeads     bool `json:"manage_leads"`
	ManageBilling   bool `json:"manage_billing"`
	ManageUsers     bool `json:"manage_users"`
}

// StoredPermissions is a partial override persisted per user. Nil fields mean
// "no override stored" and fall back to the role default on merge.
type StoredPermissions struct {
	ManageCampaigns *bool `json:"manage_campaigns,omitempty"`
	ViewAnalytics   *bool `json:"view_analytics,omitempty"`
	ManageLeads     *bool `json:"manage_leads,omitempty"`
	ManageBilling   *bool `json:"manage_billing,omitempty"`
	ManageUsers     *bool `json:"manage_users,omitempty"`
}

// DefaultsForRole returns the baseline grants for a role. Unknown roles get
// the most restrictive set.
func DefaultsForRole(role string) Permissions {
	switch role {
	case "admin":
		return Permissions{
			ManageCampaigns: true,
			ViewAnalytics:   true,
			ManageLeads:     true,
			ManageBilling:   true,
			ManageUsers:     true,
		}
	case "client":
		return Permissions{
			ManageCampaigns: true,
			ViewAnalytics:   true,
			ManageLeads:     true,
		}
	default:
		return Permissions{}
	}
}

// Merge applies stored overrides on top of defaults: a stored value wins,
// a missing one falls back to the default.
func Merge(defaults Permissions, stored StoredPermissions) Permissions {
	out := defaults
	if stored.ManageCampaigns != nil {
		out.ManageCampaigns = *stored.ManageCampaigns
	}
	if stored.ViewAnalytics != nil {
		out.ViewAnalytics = *stored.ViewAnalytics
	}
	if stored.ManageLeads != nil {
		out.ManageLeads = *stored.ManageLeads
	}
	if stored.ManageBilling != nil {
		out.ManageBilling = *stored.ManageBilling
	}
	if stored.ManageUsers != nil {
		out.ManageUsers = *stored.ManageUsers
	}
	return out
}

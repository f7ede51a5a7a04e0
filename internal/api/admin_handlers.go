package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quantumreach/outreach-server/internal/admin"
	"github.com/quantumreach/outreach-server/internal/domain"
	"github.com/quantumreach/outreach-server/internal/pkg/httputil"
	"github.com/quantumreach/outreach-server/internal/reporting"
)

// ClientPerformanceResponse ranks organizations by send volume for the
// admin console.
type ClientPerformanceResponse struct {
	Organizations []domain.RankedGroup `json:"organizations"`
}

// PermissionsResponse pairs the effective grants with the raw overrides so
// the admin UI can show which toggles are explicit.
type PermissionsResponse struct {
	UserID    string                  `json:"user_id"`
	Role      string                  `json:"role"`
	Effective admin.Permissions       `json:"effective"`
	Overrides admin.StoredPermissions `json:"overrides"`
}

// GetClientPerformance aggregates every tenant's last-30-day volume.
func (h *Handlers) GetClientPerformance(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10, 100)
	since := h.now().AddDate(0, 0, -30)

	rows, err := h.metrics.RowsSinceAllOrgs(r.Context(), since)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	refs, err := h.refs.Refs(r.Context(), "")
	if err != nil {
		httputil.InternalError(w, err)
		return
	}

	groups := reporting.TopBySent(reporting.GroupByOrganization(rows, refs), limit)
	if groups == nil {
		groups = []domain.RankedGroup{}
	}
	httputil.OK(w, ClientPerformanceResponse{Organizations: groups})
}

// GetOrganizations lists every tenant.
func (h *Handlers) GetOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.orgs.List(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if orgs == nil {
		orgs = []domain.Organization{}
	}
	httputil.OK(w, orgs)
}

// GetOrganization fetches one tenant by ID.
func (h *Handlers) GetOrganization(w http.ResponseWriter, r *http.Request) {
	org, err := h.orgs.Get(r.Context(), chi.URLParam(r, "orgID"))
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if org == nil {
		httputil.NotFound(w, "organization not found")
		return
	}
	httputil.OK(w, org)
}

// GetPermissions returns a user's effective grants: role defaults merged
// with any stored overrides.
func (h *Handlers) GetPermissions(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	stored, role, err := h.orgs.GetPermissions(r.Context(), userID)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if stored == nil && role == "" {
		httputil.NotFound(w, "user not found")
		return
	}
	overrides := admin.StoredPermissions{}
	if stored != nil {
		overrides = *stored
	}
	httputil.OK(w, PermissionsResponse{
		UserID:    userID,
		Role:      role,
		Effective: admin.Merge(admin.DefaultsForRole(role), overrides),
		Overrides: overrides,
	})
}

// UpdatePermissions stores per-user overrides. Absent fields clear back to
// the role default.
func (h *Handlers) UpdatePermissions(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var overrides admin.StoredPermissions
	if !httputil.Decode(w, r, &overrides) {
		return
	}

	_, role, err := h.orgs.GetPermissions(r.Context(), userID)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if role == "" {
		httputil.NotFound(w, "user not found")
		return
	}

	if err := h.orgs.SavePermissions(r.Context(), userID, &overrides); err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, PermissionsResponse{
		UserID:    userID,
		Role:      role,
		Effective: admin.Merge(admin.DefaultsForRole(role), overrides),
		Overrides: overrides,
	})
}

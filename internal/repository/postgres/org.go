package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/quantumreach/outreach-server/internal/admin"
	"github.com/quantumreach/outreach-server/internal/domain"
)

// OrgRepo reads organizations and per-user permission overrides.
type OrgRepo struct{ db *sql.DB }

func NewOrgRepo(db *sql.DB) *OrgRepo { return &OrgRepo{db: db} }

// List returns all organizations ordered by name.
func (r *OrgRepo) List(ctx context.Context) ([]domain.Organization, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, COALESCE(domain, ''), created_at FROM organizations ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("query organizations: %w", err)
	}
	defer rows.Close()

	var out []domain.Organization
	for rows.Next() {
		var o domain.Organization
		if err := rows.Scan(&o.ID, &o.Name, &o.Domain, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate organizations: %w", err)
	}
	return out, nil
}

// Get returns one organization by ID.
func (r *OrgRepo) Get(ctx context.Context, id string) (*domain.Organization, error) {
	var o domain.Organization
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, COALESCE(domain, ''), created_at FROM organizations WHERE id = $1
	`, id).Scan(&o.ID, &o.Name, &o.Domain, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get organization: %w", err)
	}
	return &o, nil
}

// ResolveUser maps a verified login email to an account. An email with no
// account yet gets the default client role and no organization; the admin
// assigns one later.
func (r *OrgRepo) ResolveUser(ctx context.Context, email string) (userID, orgID, role string, err error) {
	err = r.db.QueryRowContext(ctx, `
		SELECT id, COALESCE(organization_id, ''), role FROM users WHERE email = $1
	`, email).Scan(&userID, &orgID, &role)
	if err == sql.ErrNoRows {
		return "", "", "client", nil
	}
	if err != nil {
		return "", "", "", fmt.Errorf("resolve user: %w", err)
	}
	return userID, orgID, role, nil
}

// GetPermissions returns the stored per-user overrides. Columns are nullable;
// a NULL means "no override, use the role default".
func (r *OrgRepo) GetPermissions(ctx context.Context, userID string) (*admin.StoredPermissions, string, error) {
	var (
		sp   admin.StoredPermissions
		role string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT u.role, p.manage_campaigns, p.view_analytics, p.manage_leads,
		       p.manage_billing, p.manage_users
		FROM users u
		LEFT JOIN user_permissions p ON p.user_id = u.id
		WHERE u.id = $1
	`, userID).Scan(&role, &sp.ManageCampaigns, &sp.ViewAnalytics, &sp.ManageLeads,
		&sp.ManageBilling, &sp.ManageUsers)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("get permissions: %w", err)
	}
	return &sp, role, nil
}

// SavePermissions upserts the per-user overrides.
func (r *OrgRepo) SavePermissions(ctx context.Context, userID string, sp *admin.StoredPermissions) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_permissions
			(user_id, manage_campaigns, view_analytics, manage_leads, manage_billing, manage_users)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			manage_campaigns = EXCLUDED.manage_campaigns,
			view_analytics = EXCLUDED.view_analytics,
			manage_leads = EXCLUDED.manage_leads,
			manage_billing = EXCLUDED.manage_billing,
			manage_users = EXCLUDED.manage_users
	`, userID, sp.ManageCampaigns, sp.ViewAnalytics, sp.ManageLeads, sp.ManageBilling, sp.ManageUsers)
	if err != nil {
		return fmt.Errorf("save permissions: %w", err)
	}
	return nil
}

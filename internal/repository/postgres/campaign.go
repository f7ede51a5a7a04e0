package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/quantumreach/outreach-server/internal/domain"
	"github.com/quantumreach/outreach-server/internal/wizard"
)

// CampaignRepo resolves campaign references and persists builder drafts.
// It implements wizard.Store.
type CampaignRepo struct{ db *sql.DB }

// NewCampaignRepo creates a Postgres-backed campaign repository.
func NewCampaignRepo(db *sql.DB) *CampaignRepo { return &CampaignRepo{db: db} }

// Refs returns the campaign→organization lookup for one tenant. An empty
// orgID returns refs across all tenants (admin console).
func (r *CampaignRepo) Refs(ctx context.Context, orgID string) ([]domain.CampaignRef, error) {
	q := `
		SELECT c.id, c.name, o.id, o.name
		FROM campaigns c
		JOIN organizations o ON o.id = c.organization_id`
	args := []interface{}{}
	if orgID != "" {
		q += ` WHERE o.id = $1`
		args = append(args, orgID)
	}
	q += ` ORDER BY c.created_at`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query campaign refs: %w", err)
	}
	defer rows.Close()

	var out []domain.CampaignRef
	for rows.Next() {
		var ref domain.CampaignRef
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.OrganizationID, &ref.OrganizationName); err != nil {
			return nil, fmt.Errorf("scan campaign ref: %w", err)
		}
		out = append(out, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate campaign refs: %w", err)
	}
	return out, nil
}

// GetDraft fetches a builder draft scoped to the org.
func (r *CampaignRepo) GetDraft(ctx context.Context, orgID, id string) (*domain.CampaignDraft, error) {
	d := &domain.CampaignDraft{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, organization_id, step, COALESCE(name,''), COALESCE(industry,''),
		       COALESCE(target_role,''), COALESCE(value_prop,''), lead_count,
		       sequence_generated, created_at, updated_at
		FROM campaign_drafts
		WHERE id = $1 AND organization_id = $2
	`, id, orgID).Scan(
		&d.ID, &d.OrganizationID, &d.Step, &d.Name, &d.Industry,
		&d.Role, &d.ValueProp, &d.LeadCount,
		&d.SequenceGenerated, &d.CreatedAt, &d.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, wizard.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", err)
	}
	return d, nil
}

// SaveDraft upserts a builder draft.
func (r *CampaignRepo) SaveDraft(ctx context.Context, d *domain.CampaignDraft) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO campaign_drafts
			(id, organization_id, step, name, industry, target_role, value_prop,
			 lead_count, sequence_generated, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			step = EXCLUDED.step,
			name = EXCLUDED.name,
			industry = EXCLUDED.industry,
			target_role = EXCLUDED.target_role,
			value_prop = EXCLUDED.value_prop,
			lead_count = EXCLUDED.lead_count,
			sequence_generated = EXCLUDED.sequence_generated,
			updated_at = EXCLUDED.updated_at
	`, d.ID, d.OrganizationID, d.Step, d.Name, d.Industry, d.Role, d.ValueProp,
		d.LeadCount, d.SequenceGenerated, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

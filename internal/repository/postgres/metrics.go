// Package postgres implements the repositories against PostgreSQL.
//
// The dashboard is read-mostly: metric rows are written by the external
// automation workflows, and this layer only reads them back for aggregation.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/quantumreach/outreach-server/internal/domain"
)

// MetricsRepo reads per-campaign per-day metric rows.
type MetricsRepo struct{ db *sql.DB }

// NewMetricsRepo creates a Postgres-backed metrics repository.
func NewMetricsRepo(db *sql.DB) *MetricsRepo { return &MetricsRepo{db: db} }

const metricColumns = `m.campaign_id, m.metric_date, m.emails_sent, m.emails_opened, m.emails_replied, m.emails_bounced`

// RowsSince returns metric rows for one organization on or after the given
// day. Counter columns may be NULL; they are scanned as-is and coerced by
// the reporting layer.
func (r *MetricsRepo) RowsSince(ctx context.Context, orgID string, since time.Time) ([]domain.MetricRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+metricColumns+`
		FROM campaign_daily_metrics m
		JOIN campaigns c ON c.id = m.campaign_id
		WHERE c.organization_id = $1 AND m.metric_date >= $2
		ORDER BY m.metric_date
	`, orgID, since)
	if err != nil {
		return nil, fmt.Errorf("query metric rows: %w", err)
	}
	defer rows.Close()
	return scanMetricRows(rows)
}

// RowsSinceAllOrgs returns metric rows across every tenant on or after the
// given day. Admin console only.
func (r *MetricsRepo) RowsSinceAllOrgs(ctx context.Context, since time.Time) ([]domain.MetricRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+metricColumns+`
		FROM campaign_daily_metrics m
		WHERE m.metric_date >= $1
		ORDER BY m.metric_date
	`, since)
	if err != nil {
		return nil, fmt.Errorf("query metric rows: %w", err)
	}
	defer rows.Close()
	return scanMetricRows(rows)
}

func scanMetricRows(rows *sql.Rows) ([]domain.MetricRow, error) {
	var out []domain.MetricRow
	for rows.Next() {
		var m domain.MetricRow
		if err := rows.Scan(
			&m.CampaignID, &m.Date,
			&m.EmailsSent, &m.EmailsOpened, &m.EmailsReplied, &m.EmailsBounced,
		); err != nil {
			return nil, fmt.Errorf("scan metric row: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate metric rows: %w", err)
	}
	return out, nil
}

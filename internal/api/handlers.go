package api

import (
	"context"
	"database/sql"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quantumreach/outreach-server/internal/admin"
	"github.com/quantumreach/outreach-server/internal/auth"
	"github.com/quantumreach/outreach-server/internal/cache"
	"github.com/quantumreach/outreach-server/internal/domain"
	"github.com/quantumreach/outreach-server/internal/engines"
	"github.com/quantumreach/outreach-server/internal/roi"
	"github.com/quantumreach/outreach-server/internal/wizard"
)

// MetricsSource reads per-campaign per-day metric rows.
type MetricsSource interface {
	RowsSince(ctx context.Context, orgID string, since time.Time) ([]domain.MetricRow, error)
	RowsSinceAllOrgs(ctx context.Context, since time.Time) ([]domain.MetricRow, error)
}

// RefSource resolves campaign→organization references. An empty orgID means
// all tenants.
type RefSource interface {
	Refs(ctx context.Context, orgID string) ([]domain.CampaignRef, error)
}

// OrgSource reads organizations and permission overrides.
type OrgSource interface {
	List(ctx context.Context) ([]domain.Organization, error)
	Get(ctx context.Context, id string) (*domain.Organization, error)
	GetPermissions(ctx context.Context, userID string) (*admin.StoredPermissions, string, error)
	SavePermissions(ctx context.Context, userID string, sp *admin.StoredPermissions) error
}

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	metrics     MetricsSource
	refs        RefSource
	orgs        OrgSource
	cache       *cache.Cache
	projector   *roi.Projector
	wizard      *wizard.Service
	engines     *engines.Monitor
	authManager *auth.Manager

	// health probes; either may be nil
	db  *sql.DB
	rdb *redis.Client

	// now is replaceable in tests
	now func() time.Time
}

// NewHandlers creates the handler set. engines and rdb may be nil when the
// corresponding integration is disabled.
func NewHandlers(
	metrics MetricsSource,
	refs RefSource,
	orgs OrgSource,
	c *cache.Cache,
	projector *roi.Projector,
	wizardSvc *wizard.Service,
	monitor *engines.Monitor,
	authManager *auth.Manager,
	db *sql.DB,
	rdb *redis.Client,
) *Handlers {
	return &Handlers{
		metrics:     metrics,
		refs:        refs,
		orgs:        orgs,
		cache:       c,
		projector:   projector,
		wizard:      wizardSvc,
		engines:     monitor,
		authManager: authManager,
		db:          db,
		rdb:         rdb,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

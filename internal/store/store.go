// Package store persists canonical companies, per-tenant qualification
// settings and registry enrichment records. Postgres is the production
// backend; SQLite serves local runs and CI.
package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rotisserie/eris"

	"github.com/sells-group/qualify-cli/internal/config"
	"github.com/sells-group/qualify-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies it.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// Store defines the persistence interface for the qualification pipeline.
type Store interface {
	// Companies
	UpsertCompany(ctx context.Context, company *model.NormalizedCompany) error
	GetCompanyByTaxID(ctx context.Context, tenantID, taxID string) (*model.NormalizedCompany, error)

	// Settings
	GetQualificationSettings(ctx context.Context, tenantID string) (*model.QualificationSettings, error)
	SaveQualificationSettings(ctx context.Context, settings *model.QualificationSettings) error

	// Registry enrichment side table
	UpsertEnrichment(ctx context.Context, stockItemID, taxID string, quality model.DataQuality, rec *model.RegistryRecord) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// New opens the store the configuration names.
func New(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL, nil)
	case "sqlite", "":
		return NewSQLite(cfg.SQLitePath)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}

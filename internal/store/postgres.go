package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/qualify-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS companies (
	id          TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	tenant_id   TEXT NOT NULL,
	tax_id      TEXT NOT NULL,
	icp_score   INTEGER NOT NULL DEFAULT 0,
	temperature TEXT,
	grade       TEXT,
	status      TEXT NOT NULL DEFAULT 'pending',
	data        JSONB NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (tenant_id, tax_id)
);

CREATE INDEX IF NOT EXISTS idx_companies_tenant ON companies(tenant_id);
CREATE INDEX IF NOT EXISTS idx_companies_temperature ON companies(tenant_id, temperature);
CREATE INDEX IF NOT EXISTS idx_companies_status ON companies(tenant_id, status);

CREATE TABLE IF NOT EXISTS qualification_settings (
	tenant_id  TEXT PRIMARY KEY,
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS registry_enrichment (
	id            TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	stock_item_id TEXT,
	tax_id        TEXT NOT NULL UNIQUE,
	quality       TEXT NOT NULL,
	data          JSONB NOT NULL,
	fetched_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_registry_enrichment_stock_item ON registry_enrichment(stock_item_id);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) UpsertCompany(ctx context.Context, company *model.NormalizedCompany) error {
	if company.ID == "" {
		company.ID = uuid.New().String()
	}
	data, err := json.Marshal(company)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal company")
	}

	var grade *string
	if company.Grade != nil {
		g := string(*company.Grade)
		grade = &g
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO companies (id, tenant_id, tax_id, icp_score, temperature, grade, status, data, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (tenant_id, tax_id) DO UPDATE SET
		   icp_score = EXCLUDED.icp_score,
		   temperature = EXCLUDED.temperature,
		   grade = EXCLUDED.grade,
		   status = EXCLUDED.status,
		   data = EXCLUDED.data,
		   updated_at = EXCLUDED.updated_at`,
		company.ID, company.TenantID, company.TaxID, company.ICPScore,
		string(company.Temperature), grade, company.Status, data, time.Now().UTC(),
	)
	if err != nil {
		return wrapPgErr(err, "postgres: upsert company")
	}
	return nil
}

func (s *PostgresStore) GetCompanyByTaxID(ctx context.Context, tenantID, taxID string) (*model.NormalizedCompany, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM companies WHERE tenant_id = $1 AND tax_id = $2`,
		tenantID, taxID,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapPgErr(err, "postgres: get company")
	}

	var company model.NormalizedCompany
	if err := json.Unmarshal(data, &company); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal company")
	}
	return &company, nil
}

func (s *PostgresStore) GetQualificationSettings(ctx context.Context, tenantID string) (*model.QualificationSettings, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM qualification_settings WHERE tenant_id = $1`,
		tenantID,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapPgErr(err, "postgres: get settings")
	}

	var settings model.QualificationSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal settings")
	}
	return &settings, nil
}

func (s *PostgresStore) SaveQualificationSettings(ctx context.Context, settings *model.QualificationSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal settings")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO qualification_settings (tenant_id, data, updated_at) VALUES ($1, $2, $3)
		 ON CONFLICT (tenant_id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		settings.TenantID, data, time.Now().UTC(),
	)
	if err != nil {
		return wrapPgErr(err, "postgres: save settings")
	}
	return nil
}

func (s *PostgresStore) UpsertEnrichment(ctx context.Context, stockItemID, taxID string, quality model.DataQuality, rec *model.RegistryRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal enrichment")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO registry_enrichment (id, stock_item_id, tax_id, quality, data, fetched_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (tax_id) DO UPDATE SET
		   stock_item_id = EXCLUDED.stock_item_id,
		   quality = EXCLUDED.quality,
		   data = EXCLUDED.data,
		   fetched_at = EXCLUDED.fetched_at`,
		uuid.New().String(), stockItemID, taxID, string(quality), data, time.Now().UTC(),
	)
	if err != nil {
		return wrapPgErr(err, "postgres: upsert enrichment")
	}
	return nil
}

// wrapPgErr tags undefined-table failures with ErrPersistenceUnavailable so
// callers that log-and-continue can recognize them.
func wrapPgErr(err error, msg string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "42P01" {
		return eris.Wrap(model.ErrPersistenceUnavailable, msg+": "+pgErr.Message)
	}
	return eris.Wrap(err, msg)
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/qualify-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS companies (
	id          TEXT PRIMARY KEY,
	tenant_id   TEXT NOT NULL,
	tax_id      TEXT NOT NULL,
	icp_score   INTEGER NOT NULL DEFAULT 0,
	temperature TEXT,
	grade       TEXT,
	status      TEXT NOT NULL DEFAULT 'pending',
	data        TEXT NOT NULL,
	updated_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE (tenant_id, tax_id)
);

CREATE INDEX IF NOT EXISTS idx_companies_tenant ON companies(tenant_id);
CREATE INDEX IF NOT EXISTS idx_companies_temperature ON companies(tenant_id, temperature);

CREATE TABLE IF NOT EXISTS qualification_settings (
	tenant_id  TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS registry_enrichment (
	id            TEXT PRIMARY KEY,
	stock_item_id TEXT,
	tax_id        TEXT NOT NULL UNIQUE,
	quality       TEXT NOT NULL,
	data          TEXT NOT NULL,
	fetched_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertCompany(ctx context.Context, company *model.NormalizedCompany) error {
	if company.ID == "" {
		company.ID = uuid.New().String()
	}
	data, err := json.Marshal(company)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal company")
	}

	var grade *string
	if company.Grade != nil {
		g := string(*company.Grade)
		grade = &g
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO companies (id, tenant_id, tax_id, icp_score, temperature, grade, status, data, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (tenant_id, tax_id) DO UPDATE SET
		   icp_score = excluded.icp_score,
		   temperature = excluded.temperature,
		   grade = excluded.grade,
		   status = excluded.status,
		   data = excluded.data,
		   updated_at = excluded.updated_at`,
		company.ID, company.TenantID, company.TaxID, company.ICPScore,
		string(company.Temperature), grade, company.Status, string(data), time.Now().UTC(),
	)
	if err != nil {
		return wrapSQLiteErr(err, "sqlite: upsert company")
	}
	return nil
}

func (s *SQLiteStore) GetCompanyByTaxID(ctx context.Context, tenantID, taxID string) (*model.NormalizedCompany, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM companies WHERE tenant_id = ? AND tax_id = ?`,
		tenantID, taxID,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapSQLiteErr(err, "sqlite: get company")
	}

	var company model.NormalizedCompany
	if err := json.Unmarshal([]byte(data), &company); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal company")
	}
	return &company, nil
}

func (s *SQLiteStore) GetQualificationSettings(ctx context.Context, tenantID string) (*model.QualificationSettings, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM qualification_settings WHERE tenant_id = ?`,
		tenantID,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapSQLiteErr(err, "sqlite: get settings")
	}

	var settings model.QualificationSettings
	if err := json.Unmarshal([]byte(data), &settings); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal settings")
	}
	return &settings, nil
}

func (s *SQLiteStore) SaveQualificationSettings(ctx context.Context, settings *model.QualificationSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal settings")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO qualification_settings (tenant_id, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (tenant_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		settings.TenantID, string(data), time.Now().UTC(),
	)
	if err != nil {
		return wrapSQLiteErr(err, "sqlite: save settings")
	}
	return nil
}

func (s *SQLiteStore) UpsertEnrichment(ctx context.Context, stockItemID, taxID string, quality model.DataQuality, rec *model.RegistryRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal enrichment")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO registry_enrichment (id, stock_item_id, tax_id, quality, data, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (tax_id) DO UPDATE SET
		   stock_item_id = excluded.stock_item_id,
		   quality = excluded.quality,
		   data = excluded.data,
		   fetched_at = excluded.fetched_at`,
		uuid.New().String(), stockItemID, taxID, string(quality), string(data), time.Now().UTC(),
	)
	if err != nil {
		return wrapSQLiteErr(err, "sqlite: upsert enrichment")
	}
	return nil
}

func wrapSQLiteErr(err error, msg string) error {
	if strings.Contains(err.Error(), "no such table") {
		return eris.Wrap(model.ErrPersistenceUnavailable, msg+": "+err.Error())
	}
	return eris.Wrap(err, msg)
}

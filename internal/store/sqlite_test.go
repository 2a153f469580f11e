package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/qualify-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func testCompany(tenantID, taxID string) *model.NormalizedCompany {
	return &model.NormalizedCompany{
		TenantID:  tenantID,
		TaxID:     taxID,
		LegalName: "ACME Industria Ltda",
		StateCode: "SP",
		City:      "Sao Paulo",
		ICPScore:  55,
		Status:    model.StatusPending,
		RawData:   map[string]any{"razao_social": "ACME Industria Ltda"},
	}
}

func TestSQLite_UpsertCompany_AssignsID(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	c := testCompany("t1", "11222333000181")
	require.NoError(t, st.UpsertCompany(ctx, c))
	assert.NotEmpty(t, c.ID)

	got, err := st.GetCompanyByTaxID(ctx, "t1", "11222333000181")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, "ACME Industria Ltda", got.LegalName)
	assert.Equal(t, 55, got.ICPScore)
}

func TestSQLite_UpsertCompany_UpdatesInPlace(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	c := testCompany("t1", "11222333000181")
	require.NoError(t, st.UpsertCompany(ctx, c))

	c.ICPScore = 90
	c.Temperature = model.TemperatureHot
	require.NoError(t, st.UpsertCompany(ctx, c))

	got, err := st.GetCompanyByTaxID(ctx, "t1", "11222333000181")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 90, got.ICPScore)
	assert.Equal(t, model.TemperatureHot, got.Temperature)
}

func TestSQLite_GetCompanyByTaxID_Missing(t *testing.T) {
	st := newTestSQLiteStore(t)

	got, err := st.GetCompanyByTaxID(context.Background(), "t1", "00000000000000")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLite_CompaniesAreTenantScoped(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, st.UpsertCompany(ctx, testCompany("t1", "11222333000181")))

	got, err := st.GetCompanyByTaxID(ctx, "t2", "11222333000181")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLite_QualificationSettings_RoundTrip(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	missing, err := st.GetQualificationSettings(ctx, "t1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	settings := model.DefaultSettings("t1")
	settings.Thresholds.SetHotMin(90)
	require.NoError(t, st.SaveQualificationSettings(ctx, &settings))

	got, err := st.GetQualificationSettings(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 90, got.Thresholds.HotMin)
	assert.Equal(t, model.DefaultWeights(), got.Weights)
}

func TestSQLite_UpsertEnrichment_ReplacesByTaxID(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	rec := &model.RegistryRecord{TaxID: "11222333000181", LegalName: "ACME", PrincipalSource: "brasilapi"}
	require.NoError(t, st.UpsertEnrichment(ctx, "stock-1", rec.TaxID, model.DataQualityPoor, rec))

	rec.TradeName = "ACME"
	require.NoError(t, st.UpsertEnrichment(ctx, "stock-1", rec.TaxID, model.DataQualityPartial, rec))
}

func TestSQLite_MissingTableIsPersistenceUnavailable(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "bare.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck

	// No Migrate call: every table is missing.
	rec := &model.RegistryRecord{TaxID: "11222333000181"}
	err = st.UpsertEnrichment(context.Background(), "stock-1", rec.TaxID, model.DataQualityPoor, rec)
	require.Error(t, err)
	assert.True(t, eris.Is(err, model.ErrPersistenceUnavailable))
}

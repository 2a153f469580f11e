package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/qualify-cli/internal/model"
	"github.com/sells-group/qualify-cli/internal/registry"
)

// memStore is an in-memory Store for pipeline tests.
type memStore struct {
	companies   map[string]*model.NormalizedCompany
	settings    map[string]*model.QualificationSettings
	enrichments int
	upsertErr   error
}

func newMemStore() *memStore {
	return &memStore{
		companies: map[string]*model.NormalizedCompany{},
		settings:  map[string]*model.QualificationSettings{},
	}
}

func (m *memStore) UpsertCompany(_ context.Context, c *model.NormalizedCompany) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	if c.ID == "" {
		c.ID = "generated-" + c.TaxID
	}
	clone := *c
	m.companies[c.TenantID+"/"+c.TaxID] = &clone
	return nil
}

func (m *memStore) GetCompanyByTaxID(_ context.Context, tenantID, taxID string) (*model.NormalizedCompany, error) {
	c, ok := m.companies[tenantID+"/"+taxID]
	if !ok {
		return nil, nil
	}
	clone := *c
	return &clone, nil
}

func (m *memStore) GetQualificationSettings(_ context.Context, tenantID string) (*model.QualificationSettings, error) {
	return m.settings[tenantID], nil
}

func (m *memStore) SaveQualificationSettings(_ context.Context, s *model.QualificationSettings) error {
	m.settings[s.TenantID] = s
	return nil
}

func (m *memStore) UpsertEnrichment(_ context.Context, _, _ string, _ model.DataQuality, _ *model.RegistryRecord) error {
	m.enrichments++
	return nil
}

func (m *memStore) Migrate(_ context.Context) error { return nil }
func (m *memStore) Close() error                    { return nil }

type stubSource struct {
	rec *model.RegistryRecord
	err error
}

func (s *stubSource) Name() string { return "brasilapi" }
func (s *stubSource) Fetch(_ context.Context, _ string) (*model.RegistryRecord, error) {
	return s.rec, s.err
}

const validCNPJ = "11222333000181"

func rawImport() model.SourceRecord {
	return model.SourceRecord{
		Shape: model.ShapeRawImport,
		RawImport: &model.RawImportRecord{
			TaxID:     validCNPJ,
			LegalName: "ACME Industria Ltda",
			State:     "SP",
			City:      "Sao Paulo",
			SizeClass: "EPP",
			Sector:    "Serviços",
			CNAE:      "6201501",
			TenantID:  "t1",
			RawData:   map[string]any{"capital_social": float64(2_000_000)},
		},
	}
}

func tunedSettings() *model.QualificationSettings {
	s := model.DefaultSettings("t1")
	s.ICP = model.ICPCriteria{
		TenantID:            "t1",
		TargetActivityCodes: []string{"62"},
		CapitalMin:          1_000_000,
		TargetSizeClasses:   []string{"EPP"},
		TargetStates:        []string{"SP"},
		TargetSectors:       []string{"Serviços"},
	}
	return &s
}

func TestQualifyScoresClassifiesAndPersists(t *testing.T) {
	st := newMemStore()
	st.settings["t1"] = tunedSettings()
	r := NewRunner(st, nil, nil)

	out, err := r.Qualify(context.Background(), rawImport(), Options{})
	require.NoError(t, err)

	// activity 30 + capital 15 + size 20 + location 15 + sector 10 = 90.
	assert.Equal(t, 90, out.Score.FitScore)
	assert.Equal(t, model.TemperatureHot, out.Classification.Temperature)
	assert.Equal(t, model.GradeA, out.Classification.Grade)
	assert.Equal(t, model.DispatchManualReview, out.Classification.Dispatch)
	require.NotNil(t, out.Company.FitScore)
	assert.Equal(t, 90, *out.Company.FitScore)
	require.NotNil(t, out.Company.Grade)
	assert.Equal(t, model.GradeA, *out.Company.Grade)

	saved, err := st.GetCompanyByTaxID(context.Background(), "t1", validCNPJ)
	require.NoError(t, err)
	require.NotNil(t, saved)
	require.NotNil(t, saved.FitScore)
	assert.Equal(t, 90, *saved.FitScore)
}

func TestQualifyKeepsPriorCoarseScore(t *testing.T) {
	st := newMemStore()
	st.settings["t1"] = tunedSettings()
	r := NewRunner(st, nil, nil)

	src := rawImport()
	src.RawImport.RawData["icp_score"] = float64(64)

	out, err := r.Qualify(context.Background(), src, Options{})
	require.NoError(t, err)

	// The engine writes the fit score; the coarse icp score from the source
	// record survives the pass.
	assert.Equal(t, 64, out.Company.ICPScore)
	require.NotNil(t, out.Company.FitScore)
	assert.Equal(t, 90, *out.Company.FitScore)
}

func TestQualifyWithoutStoreUsesDefaults(t *testing.T) {
	r := NewRunner(nil, nil, nil)

	out, err := r.Qualify(context.Background(), rawImport(), Options{})
	require.NoError(t, err)
	// Default ICP is empty, so nothing matches.
	assert.Equal(t, 0, out.Score.FitScore)
	assert.Equal(t, model.TemperatureCold, out.Classification.Temperature)
	assert.Equal(t, model.GradeD, out.Classification.Grade)
}

func TestQualifyEnrichmentFillsEmptyFields(t *testing.T) {
	st := newMemStore()
	st.settings["t1"] = tunedSettings()

	src := rawImport()
	src.RawImport.SizeClass = ""
	src.RawImport.CNAE = ""
	src.RawImport.Sector = ""

	reg := registry.NewService(&stubSource{rec: &model.RegistryRecord{
		TaxID:              validCNPJ,
		LegalName:          "ACME Industria Ltda",
		SizeClass:          "EPP",
		RegistrationStatus: "ATIVA",
		Capital:            2_000_000,
		PrimaryActivity:    model.RegistryActivity{Code: "6201501"},
	}}, nil, time.Second)
	r := NewRunner(st, reg, nil)

	out, err := r.Qualify(context.Background(), src, Options{Enrich: true})
	require.NoError(t, err)
	require.NotNil(t, out.Enrichment)
	assert.Equal(t, "EPP", out.Company.SizeClass)
	assert.Equal(t, "6201501", out.Company.PrimaryActivityCode)
	assert.Equal(t, string(model.SectorServices), out.Company.SectorLabel)
	require.NotNil(t, out.Company.RegistryStatus)
	assert.Equal(t, "ATIVA", *out.Company.RegistryStatus)
	assert.Equal(t, 1, st.enrichments)
	// activity 30 + capital 15 + size 20 + location 15 + registration 10;
	// the registry sector taxonomy does not match the tenant's pt-BR label.
	assert.Equal(t, 90, out.Score.FitScore)
}

func TestQualifyEnrichmentFailureDegradesToWarning(t *testing.T) {
	st := newMemStore()
	st.settings["t1"] = tunedSettings()
	reg := registry.NewService(&stubSource{err: eris.New("503")}, nil, time.Second)
	r := NewRunner(st, reg, nil)

	out, err := r.Qualify(context.Background(), rawImport(), Options{Enrich: true})
	require.NoError(t, err)
	assert.Nil(t, out.Enrichment)
	assert.NotEmpty(t, out.Warnings)
	assert.Equal(t, 90, out.Score.FitScore)
}

func TestQualifyUpsertFailureDegradesToWarning(t *testing.T) {
	st := newMemStore()
	st.settings["t1"] = tunedSettings()
	st.upsertErr = eris.Wrap(model.ErrPersistenceUnavailable, "table missing")
	r := NewRunner(st, nil, nil)

	out, err := r.Qualify(context.Background(), rawImport(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 90, out.Score.FitScore)
	assert.NotEmpty(t, out.Warnings)
}

func TestQualifyMergesRawDataWithExistingRecord(t *testing.T) {
	st := newMemStore()
	st.settings["t1"] = tunedSettings()
	r := NewRunner(st, nil, nil)
	ctx := context.Background()

	first := rawImport()
	first.RawImport.RawData["origem"] = "upload-1"
	_, err := r.Qualify(ctx, first, Options{})
	require.NoError(t, err)

	firstSaved, err := st.GetCompanyByTaxID(ctx, "t1", validCNPJ)
	require.NoError(t, err)
	require.NotNil(t, firstSaved)

	second := rawImport()
	second.RawImport.RawData = map[string]any{"capital_social": float64(3_000_000)}
	out, err := r.Qualify(ctx, second, Options{})
	require.NoError(t, err)

	// Same stable id, later write wins per key, old keys survive.
	assert.Equal(t, firstSaved.ID, out.Company.ID)
	assert.Equal(t, float64(3_000_000), out.Company.RawData["capital_social"])
	assert.Equal(t, "upload-1", out.Company.RawData["origem"])
}

func TestQualifyProductFitAttachesScore(t *testing.T) {
	st := newMemStore()
	st.settings["t1"] = tunedSettings()
	r := NewRunner(st, nil, stubScorer{score: 70})

	out, err := r.Qualify(context.Background(), rawImport(), Options{
		ProductFit: true,
		Catalog:    []model.Product{{ID: "p1", Name: "ERP", Active: true}},
	})
	require.NoError(t, err)
	require.NotNil(t, out.ProductFit)
	assert.Equal(t, 70, out.ProductFit.FitScore)
	// The fit score column keeps the engine output; the product-fit reading
	// lands in the analysis payload.
	require.NotNil(t, out.Company.FitScore)
	assert.Equal(t, 90, *out.Company.FitScore)
	assert.Equal(t, 70, out.Company.RawAnalysis["product_fit_score"])
	assert.Equal(t, "high", out.Company.RawAnalysis["product_fit_level"])
}

func TestQualifyEnrichRejectsInvalidIdentifier(t *testing.T) {
	st := newMemStore()
	st.settings["t1"] = tunedSettings()
	reg := registry.NewService(&stubSource{rec: &model.RegistryRecord{}}, nil, time.Second)
	r := NewRunner(st, reg, nil)

	src := rawImport()
	src.RawImport.TaxID = "1122233300018" // 13 digits

	_, err := r.Qualify(context.Background(), src, Options{Enrich: true})
	require.Error(t, err)
	assert.True(t, eris.Is(err, model.ErrInvalidIdentifier))

	// Without enrichment the same record still scores.
	out, err := r.Qualify(context.Background(), src, Options{})
	require.NoError(t, err)
	assert.Equal(t, model.TemperatureHot, out.Classification.Temperature)
}

type stubScorer struct{ score int }

func (s stubScorer) ScoreFit(_ context.Context, _ *model.NormalizedCompany, _ []model.Product) (*model.ProductFitResult, error) {
	return &model.ProductFitResult{
		FitScore:     s.score,
		FitLevel:     model.FitLevelForScore(s.score),
		ScoringModel: model.ScoringModelBasic,
		Confidence:   "low",
	}, nil
}

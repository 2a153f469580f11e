package registry

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/qualify-cli/internal/model"
)

// mockSource counts calls and serves a canned record or error, optionally
// after a delay.
type mockSource struct {
	name  string
	rec   *model.RegistryRecord
	err   error
	delay time.Duration
	calls atomic.Int32
}

func (m *mockSource) Name() string { return m.name }

func (m *mockSource) Fetch(ctx context.Context, cnpj string) (*model.RegistryRecord, error) {
	m.calls.Add(1)
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.rec, nil
}

const validCNPJ = "11222333000181"

func fullRecord(source string) *model.RegistryRecord {
	return &model.RegistryRecord{
		TaxID:              validCNPJ,
		LegalName:          "ACME Industria Ltda",
		TradeName:          "ACME",
		LegalNature:        "206-2 - Sociedade Empresaria Limitada",
		SizeClass:          "EPP",
		Capital:            1500000,
		Street:             "Rua das Flores",
		Number:             "100",
		District:           "Centro",
		City:               "Sao Paulo",
		State:              "SP",
		ZipCode:            "01000-000",
		Email:              "contato@acme.com.br",
		Phone:              "1133334444",
		RegistrationStatus: "ATIVA",
		PrimaryActivity:    model.RegistryActivity{Code: "6201501", Text: "Desenvolvimento de software"},
		Partners:           []model.RegistryPartner{{Name: "Maria Silva", Role: "Socio-Administrador"}},
		PrincipalSource:    source,
	}
}

func TestLookupRejectsInvalidIDBeforeAnyCall(t *testing.T) {
	primary := &mockSource{name: "brasilapi"}
	secondary := &mockSource{name: "receitaws"}
	svc := NewService(primary, secondary, time.Second)

	_, err := svc.Lookup(context.Background(), "1122233300018") // 13 digits
	require.Error(t, err)
	assert.True(t, eris.Is(err, model.ErrInvalidIdentifier))
	assert.Equal(t, int32(0), primary.calls.Load())
	assert.Equal(t, int32(0), secondary.calls.Load())
}

func TestLookupRejectsBadCheckDigits(t *testing.T) {
	svc := NewService(&mockSource{name: "brasilapi"}, nil, time.Second)
	_, err := svc.Lookup(context.Background(), "11222333000182")
	require.Error(t, err)
	assert.True(t, eris.Is(err, model.ErrInvalidIdentifier))
}

func TestLookupAcceptsFormattedID(t *testing.T) {
	primary := &mockSource{name: "brasilapi", rec: fullRecord("brasilapi")}
	svc := NewService(primary, nil, time.Second)

	rec, err := svc.Lookup(context.Background(), "11.222.333/0001-81")
	require.NoError(t, err)
	assert.Equal(t, validCNPJ, rec.TaxID)
}

func TestLookupSecondaryTimeoutDoesNotBlockPrimary(t *testing.T) {
	primary := &mockSource{name: "brasilapi", rec: fullRecord("brasilapi")}
	secondary := &mockSource{name: "receitaws", rec: fullRecord("receitaws"), delay: 500 * time.Millisecond}
	svc := NewService(primary, secondary, 50*time.Millisecond)

	rec, err := svc.Lookup(context.Background(), validCNPJ)
	require.NoError(t, err)
	// Merged record equals primary data; no secondary fields filled.
	assert.Equal(t, "brasilapi", rec.PrincipalSource)
	assert.Equal(t, "ACME Industria Ltda", rec.LegalName)
}

func TestLookupPrimaryFailureFallsBackToSecondary(t *testing.T) {
	primary := &mockSource{name: "brasilapi", err: eris.New("503 unavailable")}
	secondary := &mockSource{name: "receitaws", rec: fullRecord("receitaws")}
	svc := NewService(primary, secondary, time.Second)

	rec, err := svc.Lookup(context.Background(), validCNPJ)
	require.NoError(t, err)
	assert.Equal(t, "receitaws", rec.PrincipalSource)
}

func TestLookupBothSourcesFailed(t *testing.T) {
	primary := &mockSource{name: "brasilapi", err: eris.New("down")}
	secondary := &mockSource{name: "receitaws", err: eris.New("down too")}
	svc := NewService(primary, secondary, time.Second)

	_, err := svc.Lookup(context.Background(), validCNPJ)
	require.Error(t, err)
	assert.True(t, eris.Is(err, model.ErrNoRegistryData))
}

func TestMergeSecondaryFillsOnlyEmptyFields(t *testing.T) {
	primary := &model.RegistryRecord{
		TaxID:           validCNPJ,
		LegalName:       "ACME Industria Ltda",
		City:            "Sao Paulo",
		State:           "SP",
		PrincipalSource: "brasilapi",
	}
	secondary := fullRecord("receitaws")
	secondary.LegalName = "ACME LTDA (STALE)"
	secondary.City = "Campinas"

	got := mergeRecords(primary, secondary)
	assert.Equal(t, "ACME Industria Ltda", got.LegalName)
	assert.Equal(t, "Sao Paulo", got.City)
	// Empty primary fields come from the secondary.
	assert.Equal(t, "contato@acme.com.br", got.Email)
	assert.Equal(t, "EPP", got.SizeClass)
	assert.Len(t, got.Partners, 1)
	assert.Equal(t, "brasilapi", got.PrincipalSource)
}

func TestMergeProvenanceFollowsLegalName(t *testing.T) {
	primary := &model.RegistryRecord{TaxID: validCNPJ, PrincipalSource: "brasilapi"}
	secondary := fullRecord("receitaws")

	got := mergeRecords(primary, secondary)
	assert.Equal(t, "receitaws", got.PrincipalSource)
}

type mockEnrichmentStore struct {
	err   error
	calls int
}

func (m *mockEnrichmentStore) UpsertEnrichment(ctx context.Context, stockItemID, taxID string, quality model.DataQuality, rec *model.RegistryRecord) error {
	m.calls++
	return m.err
}

func TestLookupAndPersistSwallowsStoreErrors(t *testing.T) {
	primary := &mockSource{name: "brasilapi", rec: fullRecord("brasilapi")}
	svc := NewService(primary, nil, time.Second)
	store := &mockEnrichmentStore{err: eris.Wrap(model.ErrPersistenceUnavailable, "table missing")}

	rec, quality, err := svc.LookupAndPersist(context.Background(), store, "stock-1", validCNPJ)
	require.NoError(t, err)
	assert.NotNil(t, rec)
	assert.Equal(t, model.DataQualityComplete, quality)
	assert.Equal(t, 1, store.calls)
}

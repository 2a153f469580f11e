package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/qualify-cli/internal/pipeline"
	"github.com/sells-group/qualify-cli/internal/productfit"
	"github.com/sells-group/qualify-cli/internal/registry"
	"github.com/sells-group/qualify-cli/pkg/brasilapi"
)

func testEnv() *pipelineEnv {
	reg := registry.NewService(
		registry.NewBrasilAPISource(brasilapi.NewClient(brasilapi.WithBaseURL("http://127.0.0.1:1"))),
		nil,
		100*time.Millisecond,
	)
	scorer := productfit.BasicScorer{}
	return &pipelineEnv{
		Registry: reg,
		Scorer:   scorer,
		Runner:   pipeline.NewRunner(nil, reg, scorer),
	}
}

func TestHandleQualifyScoresWithoutPersistence(t *testing.T) {
	env := testEnv()

	body := `{"source":{"shape":"raw_import","raw_import":{"tax_id":"11222333000181","legal_name":"ACME","tenant_id":"t1"}}}`
	req := httptest.NewRequest(http.MethodPost, "/qualify", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handleQualify(env)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"temperature":"cold"`)
	assert.Contains(t, rec.Body.String(), `"tax_id":"11222333000181"`)
}

func TestHandleQualifyRejectsBadBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/qualify", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	handleQualify(testEnv())(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleQualifyInvalidIDWithEnrich(t *testing.T) {
	body := `{"source":{"shape":"raw_import","raw_import":{"tax_id":"123","tenant_id":"t1"}},"enrich":true}`
	req := httptest.NewRequest(http.MethodPost, "/qualify", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handleQualify(testEnv())(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandleRegistryLookupInvalidID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/registry/lookup", strings.NewReader(`{"tax_id":"123"}`))
	rec := httptest.NewRecorder()

	handleRegistryLookup(testEnv())(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandleRegistryLookupMissingID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/registry/lookup", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	handleRegistryLookup(testEnv())(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleProductFitNoCatalog(t *testing.T) {
	body := `{"company":{"tax_id":"11222333000181"},"catalog":[]}`
	req := httptest.NewRequest(http.MethodPost, "/product-fit", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handleProductFit(testEnv())(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"fit_score":0`)
	assert.Contains(t, rec.Body.String(), "no active products")
}

package brasilapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompany(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cnpj/v1/11222333000181", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"cnpj": "11222333000181",
			"razao_social": "ACME INDUSTRIA LTDA",
			"nome_fantasia": "ACME",
			"porte": "EPP",
			"capital_social": 1500000,
			"municipio": "SAO PAULO",
			"uf": "SP",
			"descricao_situacao_cadastral": "ATIVA",
			"cnae_fiscal": 6201501,
			"cnae_fiscal_descricao": "Desenvolvimento de software",
			"qsa": [{"nome_socio": "MARIA SILVA", "qualificacao_socio": "Socio-Administrador"}]
		}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	resp, err := c.Company(context.Background(), "11222333000181")
	require.NoError(t, err)
	assert.Equal(t, "ACME INDUSTRIA LTDA", resp.RazaoSocial)
	assert.Equal(t, "EPP", resp.Porte)
	assert.Equal(t, float64(1500000), resp.CapitalSocial)
	assert.Equal(t, int64(6201501), resp.CNAEFiscal)
	assert.Equal(t, "ATIVA", resp.SituacaoCadastral)
	require.Len(t, resp.QSA, 1)
	assert.Equal(t, "MARIA SILVA", resp.QSA[0].NomeSocio)
}

func TestCompanyNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"CNPJ não encontrado"}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.Company(context.Background(), "00000000000000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestCompanyBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.Company(context.Background(), "11222333000181")
	assert.Error(t, err)
}

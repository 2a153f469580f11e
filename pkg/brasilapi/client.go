// Package brasilapi is a client for the BrasilAPI CNPJ endpoint, the
// pipeline's primary company-registry source.
package brasilapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://brasilapi.com.br/api"

// Client looks up company registrations by CNPJ.
type Client interface {
	Company(ctx context.Context, cnpj string) (*CompanyResponse, error)
}

// CompanyResponse is the response body of GET /cnpj/v1/{cnpj}.
type CompanyResponse struct {
	CNPJ                 string              `json:"cnpj"`
	RazaoSocial          string              `json:"razao_social"`
	NomeFantasia         string              `json:"nome_fantasia"`
	NaturezaJuridica     string              `json:"natureza_juridica"`
	Porte                string              `json:"porte"`
	CapitalSocial        float64             `json:"capital_social"`
	Logradouro           string              `json:"logradouro"`
	Numero               string              `json:"numero"`
	Complemento          string              `json:"complemento"`
	Bairro               string              `json:"bairro"`
	Municipio            string              `json:"municipio"`
	UF                   string              `json:"uf"`
	CEP                  string              `json:"cep"`
	Email                string              `json:"email"`
	DDDTelefone1         string              `json:"ddd_telefone_1"`
	SituacaoCadastral    string              `json:"descricao_situacao_cadastral"`
	DataInicioAtividade  string              `json:"data_inicio_atividade"`
	CNAEFiscal           int64               `json:"cnae_fiscal"`
	CNAEFiscalDescricao  string              `json:"cnae_fiscal_descricao"`
	CNAEsSecundarios     []SecondaryActivity `json:"cnaes_secundarios"`
	QSA                  []Partner           `json:"qsa"`
}

// SecondaryActivity is one secondary CNAE entry.
type SecondaryActivity struct {
	Codigo    int64  `json:"codigo"`
	Descricao string `json:"descricao"`
}

// Partner is one entry of the company's partner list.
type Partner struct {
	NomeSocio         string `json:"nome_socio"`
	QualificacaoSocio string `json:"qualificacao_socio"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit caps outbound requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a BrasilAPI client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(3, 1),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Company(ctx context.Context, cnpj string) (*CompanyResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "brasilapi: rate limiter")
		}
	}

	url := fmt.Sprintf("%s/cnpj/v1/%s", c.baseURL, cnpj)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "brasilapi: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "brasilapi: send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "brasilapi: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("brasilapi: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var result CompanyResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "brasilapi: unmarshal response")
	}

	return &result, nil
}

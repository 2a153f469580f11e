// Package receitaws is a client for the ReceitaWS CNPJ endpoint, used as the
// pipeline's secondary company-registry source.
package receitaws

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

const defaultBaseURL = "https://receitaws.com.br/v1"

// Client looks up company registrations by CNPJ.
type Client interface {
	Company(ctx context.Context, cnpj string) (*CompanyResponse, error)
}

// CompanyResponse is the response body of GET /cnpj/{cnpj}. The API signals
// lookup errors in-band via Status "ERROR".
type CompanyResponse struct {
	Status               string     `json:"status"`
	Message              string     `json:"message"`
	CNPJ                 string     `json:"cnpj"`
	Nome                 string     `json:"nome"`
	Fantasia             string     `json:"fantasia"`
	NaturezaJuridica     string     `json:"natureza_juridica"`
	Porte                string     `json:"porte"`
	CapitalSocial        string     `json:"capital_social"`
	Logradouro           string     `json:"logradouro"`
	Numero               string     `json:"numero"`
	Complemento          string     `json:"complemento"`
	Bairro               string     `json:"bairro"`
	Municipio            string     `json:"municipio"`
	UF                   string     `json:"uf"`
	CEP                  string     `json:"cep"`
	Email                string     `json:"email"`
	Telefone             string     `json:"telefone"`
	Situacao             string     `json:"situacao"`
	Abertura             string     `json:"abertura"`
	AtividadePrincipal   []Activity `json:"atividade_principal"`
	AtividadesSecundaria []Activity `json:"atividades_secundarias"`
	QSA                  []Partner  `json:"qsa"`
}

// Activity is one CNAE entry ("code" is formatted like "62.01-5-01").
type Activity struct {
	Code string `json:"code"`
	Text string `json:"text"`
}

// Partner is one entry of the company's partner list.
type Partner struct {
	Nome string `json:"nome"`
	Qual string `json:"qual"`
}

// OK reports whether the lookup succeeded; the API returns 200 with an
// in-band error status for unknown or blocked CNPJs.
func (r *CompanyResponse) OK() bool {
	return r.Status != "ERROR"
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

// WithRateLimit caps outbound requests per second. The free tier allows
// three requests per minute, so the default is deliberately conservative.
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

// NewClient creates a ReceitaWS client.
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
		limiter: rate.NewLimiter(rate.Limit(0.5), 1),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Company(ctx context.Context, cnpj string) (*CompanyResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "receitaws: rate limiter")
		}
	}

	url := fmt.Sprintf("%s/cnpj/%s", c.baseURL, cnpj)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "receitaws: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "receitaws: send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "receitaws: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("receitaws: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var result CompanyResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "receitaws: unmarshal response")
	}

	if !result.OK() {
		return nil, eris.Errorf("receitaws: lookup failed: %s", result.Message)
	}

	return &result, nil
}

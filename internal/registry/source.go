package registry

import (
	"context"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/qualify-cli/internal/model"
	"github.com/sells-group/qualify-cli/pkg/brasilapi"
	"github.com/sells-group/qualify-cli/pkg/receitaws"
)

// Source is one external registry lookup service. Implementations return a
// best-effort superset of the registry record fields; any field may be
// empty.
type Source interface {
	Name() string
	Fetch(ctx context.Context, cnpj string) (*model.RegistryRecord, error)
}

// BrasilAPISource adapts the BrasilAPI client to the Source interface.
type BrasilAPISource struct {
	client brasilapi.Client
}

// NewBrasilAPISource wraps a BrasilAPI client.
func NewBrasilAPISource(client brasilapi.Client) *BrasilAPISource {
	return &BrasilAPISource{client: client}
}

// Name implements Source.
func (s *BrasilAPISource) Name() string { return "brasilapi" }

// Fetch implements Source.
func (s *BrasilAPISource) Fetch(ctx context.Context, cnpj string) (*model.RegistryRecord, error) {
	resp, err := s.client.Company(ctx, cnpj)
	if err != nil {
		return nil, eris.Wrap(err, "registry: brasilapi fetch")
	}

	rec := &model.RegistryRecord{
		TaxID:              cnpj,
		LegalName:          resp.RazaoSocial,
		TradeName:          resp.NomeFantasia,
		LegalNature:        resp.NaturezaJuridica,
		SizeClass:          resp.Porte,
		Capital:            resp.CapitalSocial,
		Street:             resp.Logradouro,
		Number:             resp.Numero,
		Complement:         resp.Complemento,
		District:           resp.Bairro,
		City:               resp.Municipio,
		State:              resp.UF,
		ZipCode:            resp.CEP,
		Email:              resp.Email,
		Phone:              resp.DDDTelefone1,
		RegistrationStatus: resp.SituacaoCadastral,
		OpenedAt:           resp.DataInicioAtividade,
		PrincipalSource:    s.Name(),
	}
	if resp.CNAEFiscal > 0 {
		rec.PrimaryActivity = model.RegistryActivity{
			Code: strconv.FormatInt(resp.CNAEFiscal, 10),
			Text: resp.CNAEFiscalDescricao,
		}
	}
	for _, sec := range resp.CNAEsSecundarios {
		if sec.Codigo <= 0 {
			continue
		}
		rec.SecondaryActivity = append(rec.SecondaryActivity, model.RegistryActivity{
			Code: strconv.FormatInt(sec.Codigo, 10),
			Text: sec.Descricao,
		})
	}
	for _, p := range resp.QSA {
		rec.Partners = append(rec.Partners, model.RegistryPartner{
			Name: p.NomeSocio,
			Role: p.QualificacaoSocio,
		})
	}
	return rec, nil
}

// ReceitaWSSource adapts the ReceitaWS client to the Source interface.
type ReceitaWSSource struct {
	client receitaws.Client
}

// NewReceitaWSSource wraps a ReceitaWS client.
func NewReceitaWSSource(client receitaws.Client) *ReceitaWSSource {
	return &ReceitaWSSource{client: client}
}

// Name implements Source.
func (s *ReceitaWSSource) Name() string { return "receitaws" }

// Fetch implements Source.
func (s *ReceitaWSSource) Fetch(ctx context.Context, cnpj string) (*model.RegistryRecord, error) {
	resp, err := s.client.Company(ctx, cnpj)
	if err != nil {
		return nil, eris.Wrap(err, "registry: receitaws fetch")
	}

	rec := &model.RegistryRecord{
		TaxID:              cnpj,
		LegalName:          resp.Nome,
		TradeName:          resp.Fantasia,
		LegalNature:        resp.NaturezaJuridica,
		SizeClass:          resp.Porte,
		Capital:            parseCapital(resp.CapitalSocial),
		Street:             resp.Logradouro,
		Number:             resp.Numero,
		Complement:         resp.Complemento,
		District:           resp.Bairro,
		City:               resp.Municipio,
		State:              resp.UF,
		ZipCode:            resp.CEP,
		Email:              resp.Email,
		Phone:              resp.Telefone,
		RegistrationStatus: resp.Situacao,
		OpenedAt:           resp.Abertura,
		PrincipalSource:    s.Name(),
	}
	if len(resp.AtividadePrincipal) > 0 {
		rec.PrimaryActivity = model.RegistryActivity{
			Code: resp.AtividadePrincipal[0].Code,
			Text: resp.AtividadePrincipal[0].Text,
		}
	}
	for _, a := range resp.AtividadesSecundaria {
		if a.Code == "" {
			continue
		}
		rec.SecondaryActivity = append(rec.SecondaryActivity, model.RegistryActivity{
			Code: a.Code,
			Text: a.Text,
		})
	}
	for _, p := range resp.QSA {
		rec.Partners = append(rec.Partners, model.RegistryPartner{
			Name: p.Nome,
			Role: p.Qual,
		})
	}
	return rec, nil
}

// parseCapital handles ReceitaWS's stringly capital ("1000.00").
func parseCapital(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0
	}
	return v
}

// Package normalize maps any of the four known source record shapes into the
// canonical NormalizedCompany. It is a pure function of its input: no
// network, no storage, no clocks, no generated ids.
package normalize

import (
	"strconv"
	"strings"

	"github.com/sells-group/qualify-cli/internal/model"
)

type candSource int

const (
	fromColumn candSource = iota
	fromRawData
	fromRawAnalysis
	fromDefault
)

// cand is one candidate in a field's priority-ordered lookup list.
type cand struct {
	src candSource
	key string
	def any
}

func col(key string) cand  { return cand{src: fromColumn, key: key} }
func raw(key string) cand  { return cand{src: fromRawData, key: key} }
func rawA(key string) cand { return cand{src: fromRawAnalysis, key: key} }
func def(v any) cand       { return cand{src: fromDefault, def: v} }

// view is the generic projection of a source record: its typed columns keyed
// by name, plus its raw payload blobs.
type view struct {
	columns     map[string]any
	rawData     map[string]any
	rawAnalysis map[string]any
}

// priorityTable lists, per canonical output field, the candidate source
// fields in the order they are tried. The ordering is a contract: later
// pipeline stages assume "most specific wins", so dedicated columns always
// precede raw-payload variants.
type priorityTable struct {
	id, companyID, taxID, legalName, tradeName     []cand
	stateCode, city                                []cand
	sizeClass, sectorLabel, nicheLabel, cnae       []cand
	website, websiteFound, email, phone, linkedIn  []cand
	icpScore, purchaseIntentScore                  []cand
	fitScore, websiteFitScore, productsMatch       []cand
	purchaseIntentType, status, temperature, grade []cand
	registryStatus, sourceName, origin             []cand
	icpID, tenantID                                []cand
}

// Normalize canonicalizes one source record. Missing optional fields yield
// zero values, never errors: the normalizer is lossy-tolerant by design.
func Normalize(src model.SourceRecord) model.NormalizedCompany {
	v, table := project(src)

	out := model.NormalizedCompany{
		ID:                   v.str(table.id),
		CompanyID:            v.strPtr(table.companyID),
		TaxID:                v.str(table.taxID),
		LegalName:            v.str(table.legalName),
		TradeName:            v.str(table.tradeName),
		StateCode:            v.str(table.stateCode),
		City:                 v.str(table.city),
		SizeClass:            v.str(table.sizeClass),
		SectorLabel:          v.str(table.sectorLabel),
		NicheLabel:           v.str(table.nicheLabel),
		PrimaryActivityCode:  v.str(table.cnae),
		Website:              v.str(table.website),
		WebsiteFound:         v.str(table.websiteFound),
		Email:                v.str(table.email),
		Phone:                v.str(table.phone),
		LinkedInURL:          v.str(table.linkedIn),
		ICPScore:             v.intVal(table.icpScore),
		FitScore:             v.intPtr(table.fitScore),
		WebsiteFitScore:      v.intPtr(table.websiteFitScore),
		PurchaseIntentScore:  v.intVal(table.purchaseIntentScore),
		PurchaseIntentType:   model.PurchaseIntentType(v.str(table.purchaseIntentType)),
		WebsiteProductsMatch: v.strPtr(table.productsMatch),
		Status:               v.str(table.status),
		Temperature:          model.Temperature(v.str(table.temperature)),
		RegistryStatus:       v.strPtr(table.registryStatus),
		SourceName:           v.str(table.sourceName),
		Origin:               v.str(table.origin),
		ICPID:                v.str(table.icpID),
		TenantID:             v.str(table.tenantID),
	}

	if g := v.str(table.grade); g != "" {
		grade := model.Grade(g)
		out.Grade = &grade
	}

	out.RawData, out.RawAnalysis = mergePayloads(src)
	return out
}

// project builds the generic view and the per-shape priority table.
func project(src model.SourceRecord) (view, priorityTable) {
	switch src.Shape {
	case model.ShapePriorAnalysis:
		return projectPriorAnalysis(src.PriorAnalysis)
	case model.ShapeProspect:
		return projectProspect(src.Prospect)
	case model.ShapeCanonical:
		return projectCanonical(src.Canonical)
	default:
		return projectRawImport(src.RawImport)
	}
}

func projectRawImport(r *model.RawImportRecord) (view, priorityTable) {
	if r == nil {
		r = &model.RawImportRecord{}
	}
	v := view{
		columns: map[string]any{
			"id": r.ID, "tax_id": r.TaxID, "legal_name": r.LegalName,
			"trade_name": r.TradeName, "state": r.State, "city": r.City,
			"size_class": r.SizeClass, "sector": r.Sector, "niche": r.Niche,
			"cnae": r.CNAE, "website": r.Website, "email": r.Email,
			"phone": r.Phone, "source_name": r.SourceName,
			"icp_id": r.ICPID, "tenant_id": r.TenantID,
		},
		rawData: r.RawData,
	}
	t := priorityTable{
		id:                  []cand{col("id")},
		taxID:               []cand{col("tax_id"), raw("cnpj"), raw("tax_id"), def("")},
		legalName:           []cand{col("legal_name"), raw("razao_social"), raw("nome"), raw("name")},
		tradeName:           []cand{col("trade_name"), raw("nome_fantasia"), raw("fantasia")},
		stateCode:           []cand{col("state"), raw("uf"), raw("estado")},
		city:                []cand{col("city"), raw("municipio"), raw("cidade")},
		sizeClass:           []cand{col("size_class"), raw("porte")},
		sectorLabel:         []cand{col("sector"), raw("setor"), raw("segmento")},
		nicheLabel:          []cand{col("niche"), raw("nicho")},
		cnae:                []cand{col("cnae"), raw("cnae_fiscal"), raw("cnae")},
		website:             []cand{col("website"), raw("site"), raw("website")},
		websiteFound:        []cand{raw("website_found"), raw("site_encontrado")},
		email:               []cand{col("email"), raw("email")},
		phone:               []cand{col("phone"), raw("telefone"), raw("phone")},
		linkedIn:            []cand{raw("linkedin_url"), raw("linkedin")},
		icpScore:            []cand{raw("icp_score")},
		fitScore:            []cand{raw("fit_score")},
		websiteFitScore:     []cand{raw("website_fit_score")},
		purchaseIntentScore: []cand{raw("purchase_intent_score")},
		purchaseIntentType:  []cand{raw("purchase_intent_type"), def(string(model.PurchaseIntentPotential))},
		productsMatch:       []cand{raw("website_products_match")},
		status:              []cand{raw("status"), def(model.StatusPending)},
		registryStatus:      []cand{raw("situacao_cadastral"), raw("situacao")},
		sourceName:          []cand{col("source_name"), raw("origem"), def("import")},
		origin:              []cand{def("bulk_import")},
		icpID:               []cand{col("icp_id"), raw("icp_id")},
		tenantID:            []cand{col("tenant_id"), raw("tenant_id")},
	}
	return v, t
}

func projectPriorAnalysis(r *model.PriorAnalysisRecord) (view, priorityTable) {
	if r == nil {
		r = &model.PriorAnalysisRecord{}
	}
	v := view{
		columns: map[string]any{
			"id": r.ID, "company_id": r.CompanyID, "tax_id": r.TaxID,
			"legal_name": r.LegalName, "trade_name": r.TradeName,
			"state": r.State, "city": r.City, "size_class": r.SizeClass,
			"sector": r.Sector, "niche": r.Niche, "cnae": r.CNAE,
			"website": r.Website, "website_found": r.WebsiteFound,
			"email": r.Email, "phone": r.Phone, "linkedin_url": r.LinkedInURL,
			"icp_score": r.ICPScore, "fit_score": r.FitScore,
			"website_fit_score":      r.WebsiteFitScore,
			"purchase_intent_score":  r.PurchaseIntentScore,
			"purchase_intent_type":   string(r.PurchaseIntentType),
			"website_products_match": r.WebsiteProductsMatch,
			"status":                 r.Status, "temperature": string(r.Temperature),
			"grade": gradeStr(r.Grade), "registry_status": r.RegistryStatus,
			"source_name": r.SourceName, "origin": r.Origin,
			"icp_id": r.ICPID, "tenant_id": r.TenantID,
		},
		rawData:     r.RawData,
		rawAnalysis: r.AIAnalysis,
	}
	// Score-like fields list the dedicated column first so a later
	// enrichment pass is never masked by stale raw data.
	t := priorityTable{
		id:                  []cand{col("id")},
		companyID:           []cand{col("company_id")},
		taxID:               []cand{col("tax_id"), raw("cnpj"), def("")},
		legalName:           []cand{col("legal_name"), raw("razao_social"), rawA("razao_social")},
		tradeName:           []cand{col("trade_name"), raw("nome_fantasia"), raw("fantasia")},
		stateCode:           []cand{col("state"), raw("uf"), raw("estado")},
		city:                []cand{col("city"), raw("municipio"), raw("cidade")},
		sizeClass:           []cand{col("size_class"), raw("porte")},
		sectorLabel:         []cand{col("sector"), rawA("setor"), raw("setor")},
		nicheLabel:          []cand{col("niche"), rawA("nicho"), raw("nicho")},
		cnae:                []cand{col("cnae"), raw("cnae_fiscal"), raw("cnae")},
		website:             []cand{col("website"), raw("site")},
		websiteFound:        []cand{col("website_found"), rawA("website_found")},
		email:               []cand{col("email"), raw("email")},
		phone:               []cand{col("phone"), raw("telefone")},
		linkedIn:            []cand{col("linkedin_url"), rawA("linkedin_url"), raw("linkedin")},
		icpScore:            []cand{col("icp_score"), raw("icp_score")},
		fitScore:            []cand{col("fit_score"), rawA("fit_score"), raw("fit_score")},
		websiteFitScore:     []cand{col("website_fit_score"), rawA("website_fit_score")},
		purchaseIntentScore: []cand{col("purchase_intent_score"), rawA("purchase_intent_score")},
		purchaseIntentType:  []cand{col("purchase_intent_type"), rawA("purchase_intent_type"), def(string(model.PurchaseIntentPotential))},
		productsMatch:       []cand{col("website_products_match"), rawA("website_products_match")},
		status:              []cand{col("status"), def(model.StatusPending)},
		temperature:         []cand{col("temperature"), rawA("temperature")},
		grade:               []cand{col("grade"), rawA("grade")},
		registryStatus:      []cand{col("registry_status"), raw("situacao_cadastral"), raw("situacao")},
		sourceName:          []cand{col("source_name"), def("analysis")},
		origin:              []cand{col("origin"), def("prior_analysis")},
		icpID:               []cand{col("icp_id")},
		tenantID:            []cand{col("tenant_id")},
	}
	return v, t
}

func projectProspect(r *model.ProspectRecord) (view, priorityTable) {
	if r == nil {
		r = &model.ProspectRecord{}
	}
	v := view{
		columns: map[string]any{
			"id": r.ID, "tax_id": r.TaxID, "legal_name": r.LegalName,
			"trade_name": r.TradeName, "state": r.State, "city": r.City,
			"size_class": r.SizeClass, "sector": r.Sector, "niche": r.Niche,
			"cnae": r.CNAE, "website": r.Website, "email": r.Email,
			"phone": r.Phone, "icp_score": r.ICPScore, "fit_score": r.FitScore,
			"status": r.Status, "registry_status": r.RegistryStatus,
			"job_id": r.JobID, "icp_id": r.ICPID, "tenant_id": r.TenantID,
		},
		rawData: r.RawData,
	}
	t := priorityTable{
		id:                  []cand{col("id")},
		taxID:               []cand{col("tax_id"), raw("cnpj"), def("")},
		legalName:           []cand{col("legal_name"), raw("razao_social"), raw("nome")},
		tradeName:           []cand{col("trade_name"), raw("nome_fantasia"), raw("fantasia")},
		stateCode:           []cand{col("state"), raw("uf")},
		city:                []cand{col("city"), raw("municipio")},
		sizeClass:           []cand{col("size_class"), raw("porte")},
		sectorLabel:         []cand{col("sector"), raw("setor")},
		nicheLabel:          []cand{col("niche"), raw("nicho")},
		cnae:                []cand{col("cnae"), raw("cnae_fiscal")},
		website:             []cand{col("website"), raw("site")},
		websiteFound:        []cand{raw("website_found")},
		email:               []cand{col("email"), raw("email")},
		phone:               []cand{col("phone"), raw("telefone")},
		linkedIn:            []cand{raw("linkedin_url"), raw("linkedin")},
		icpScore:            []cand{col("icp_score")},
		fitScore:            []cand{col("fit_score"), raw("fit_score")},
		websiteFitScore:     []cand{raw("website_fit_score")},
		purchaseIntentScore: []cand{raw("purchase_intent_score")},
		purchaseIntentType:  []cand{raw("purchase_intent_type"), def(string(model.PurchaseIntentPotential))},
		productsMatch:       []cand{raw("website_products_match")},
		status:              []cand{col("status"), def(model.StatusPending)},
		registryStatus:      []cand{col("registry_status"), raw("situacao_cadastral")},
		sourceName:          []cand{raw("source_name"), def("prospecting")},
		origin:              []cand{def("qualification_job")},
		icpID:               []cand{col("icp_id")},
		tenantID:            []cand{col("tenant_id")},
	}
	return v, t
}

func projectCanonical(r *model.NormalizedCompany) (view, priorityTable) {
	if r == nil {
		r = &model.NormalizedCompany{}
	}
	v := view{
		columns: map[string]any{
			"id": r.ID, "company_id": r.CompanyID, "tax_id": r.TaxID,
			"legal_name": r.LegalName, "trade_name": r.TradeName,
			"state": r.StateCode, "city": r.City, "size_class": r.SizeClass,
			"sector": r.SectorLabel, "niche": r.NicheLabel,
			"cnae": r.PrimaryActivityCode, "website": r.Website,
			"website_found": r.WebsiteFound, "email": r.Email,
			"phone": r.Phone, "linkedin_url": r.LinkedInURL,
			"icp_score": r.ICPScore, "fit_score": r.FitScore,
			"website_fit_score":      r.WebsiteFitScore,
			"purchase_intent_score":  r.PurchaseIntentScore,
			"purchase_intent_type":   string(r.PurchaseIntentType),
			"website_products_match": r.WebsiteProductsMatch,
			"status":                 r.Status, "temperature": string(r.Temperature),
			"grade": gradeStr(r.Grade), "registry_status": r.RegistryStatus,
			"source_name": r.SourceName, "origin": r.Origin,
			"icp_id": r.ICPID, "tenant_id": r.TenantID,
		},
		rawData:     r.RawData,
		rawAnalysis: r.RawAnalysis,
	}
	t := priorityTable{
		id:                  []cand{col("id")},
		companyID:           []cand{col("company_id")},
		taxID:               []cand{col("tax_id"), def("")},
		legalName:           []cand{col("legal_name"), raw("razao_social")},
		tradeName:           []cand{col("trade_name"), raw("nome_fantasia")},
		stateCode:           []cand{col("state"), raw("uf")},
		city:                []cand{col("city"), raw("municipio")},
		sizeClass:           []cand{col("size_class"), raw("porte")},
		sectorLabel:         []cand{col("sector"), raw("setor")},
		nicheLabel:          []cand{col("niche"), raw("nicho")},
		cnae:                []cand{col("cnae"), raw("cnae_fiscal")},
		website:             []cand{col("website"), raw("site")},
		websiteFound:        []cand{col("website_found")},
		email:               []cand{col("email"), raw("email")},
		phone:               []cand{col("phone"), raw("telefone")},
		linkedIn:            []cand{col("linkedin_url")},
		icpScore:            []cand{col("icp_score")},
		fitScore:            []cand{col("fit_score"), rawA("fit_score")},
		websiteFitScore:     []cand{col("website_fit_score"), rawA("website_fit_score")},
		purchaseIntentScore: []cand{col("purchase_intent_score")},
		purchaseIntentType:  []cand{col("purchase_intent_type"), def(string(model.PurchaseIntentPotential))},
		productsMatch:       []cand{col("website_products_match"), rawA("website_products_match")},
		status:              []cand{col("status"), def(model.StatusPending)},
		temperature:         []cand{col("temperature")},
		grade:               []cand{col("grade")},
		registryStatus:      []cand{col("registry_status"), raw("situacao_cadastral")},
		sourceName:          []cand{col("source_name")},
		origin:              []cand{col("origin"), def("canonical")},
		icpID:               []cand{col("icp_id")},
		tenantID:            []cand{col("tenant_id")},
	}
	return v, t
}

// mergePayloads builds the output rawData/rawAnalysis. When a shape carries
// two independent blobs the AI-analysis blob wins on key collisions.
func mergePayloads(src model.SourceRecord) (map[string]any, map[string]any) {
	switch src.Shape {
	case model.ShapePriorAnalysis:
		if src.PriorAnalysis == nil {
			return nil, nil
		}
		return MergeRaw(src.PriorAnalysis.RawData, src.PriorAnalysis.AIAnalysis), CloneRaw(src.PriorAnalysis.AIAnalysis)
	case model.ShapeProspect:
		if src.Prospect == nil {
			return nil, nil
		}
		return CloneRaw(src.Prospect.RawData), nil
	case model.ShapeCanonical:
		if src.Canonical == nil {
			return nil, nil
		}
		return CloneRaw(src.Canonical.RawData), CloneRaw(src.Canonical.RawAnalysis)
	default:
		if src.RawImport == nil {
			return nil, nil
		}
		return CloneRaw(src.RawImport.RawData), nil
	}
}

// --- candidate resolution ---

func (v view) lookup(c cand) (any, bool) {
	switch c.src {
	case fromColumn:
		val, ok := v.columns[c.key]
		return val, ok
	case fromRawData:
		val, ok := v.rawData[c.key]
		return val, ok
	case fromRawAnalysis:
		val, ok := v.rawAnalysis[c.key]
		return val, ok
	default:
		return c.def, true
	}
}

// str resolves the first candidate yielding a non-empty string.
func (v view) str(cands []cand) string {
	for _, c := range cands {
		val, ok := v.lookup(c)
		if !ok || val == nil {
			continue
		}
		if s := toString(val); s != "" {
			return s
		}
	}
	return ""
}

// strPtr resolves to a *string, nil when no candidate yields a value.
func (v view) strPtr(cands []cand) *string {
	if s := v.str(cands); s != "" {
		return &s
	}
	return nil
}

// intVal resolves the first candidate carrying a numeric value.
func (v view) intVal(cands []cand) int {
	if p := v.intPtr(cands); p != nil {
		return *p
	}
	return 0
}

// intPtr resolves to a *int, nil when no candidate yields a number.
func (v view) intPtr(cands []cand) *int {
	for _, c := range cands {
		val, ok := v.lookup(c)
		if !ok || val == nil {
			continue
		}
		if n, ok := toInt(val); ok {
			out := n
			return &out
		}
	}
	return nil
}

func toString(val any) string {
	switch s := val.(type) {
	case string:
		return strings.TrimSpace(s)
	case *string:
		if s == nil {
			return ""
		}
		return strings.TrimSpace(*s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	default:
		return ""
	}
}

func toInt(val any) (int, bool) {
	switch n := val.(type) {
	case int:
		return n, true
	case *int:
		if n == nil {
			return 0, false
		}
		return *n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case float32:
		return int(n), true
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func gradeStr(g *model.Grade) string {
	if g == nil {
		return ""
	}
	return string(*g)
}

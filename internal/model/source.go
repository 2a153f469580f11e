package model

// SourceShape identifies which of the four known source record shapes a
// SourceRecord carries. The normalizer dispatches on it.
type SourceShape string

const (
	ShapeRawImport     SourceShape = "raw_import"
	ShapePriorAnalysis SourceShape = "prior_analysis"
	ShapeProspect      SourceShape = "qualification_prospect"
	ShapeCanonical     SourceShape = "canonical"
)

// SourceRecord is a tagged variant over the four source shapes. Exactly one
// of the payload pointers matching Shape is expected to be set; the
// normalizer treats a missing payload as an empty record, never an error.
type SourceRecord struct {
	Shape         SourceShape          `json:"shape"`
	RawImport     *RawImportRecord     `json:"raw_import,omitempty"`
	PriorAnalysis *PriorAnalysisRecord `json:"prior_analysis,omitempty"`
	Prospect      *ProspectRecord      `json:"prospect,omitempty"`
	Canonical     *NormalizedCompany   `json:"canonical,omitempty"`
}

// RawImportRecord is a row from a bulk file upload. Column names mirror the
// upload template; anything the template does not cover rides in RawData.
type RawImportRecord struct {
	ID         string         `json:"id"`
	TaxID      string         `json:"tax_id"`
	LegalName  string         `json:"legal_name"`
	TradeName  string         `json:"trade_name"`
	State      string         `json:"state"`
	City       string         `json:"city"`
	SizeClass  string         `json:"size_class"`
	Sector     string         `json:"sector"`
	Niche      string         `json:"niche"`
	CNAE       string         `json:"cnae"`
	Website    string         `json:"website"`
	Email      string         `json:"email"`
	Phone      string         `json:"phone"`
	SourceName string         `json:"source_name"`
	ICPID      string         `json:"icp_id"`
	TenantID   string         `json:"tenant_id"`
	RawData    map[string]any `json:"raw_data,omitempty"`
}

// PriorAnalysisRecord is the output of an earlier analysis pass. It is the
// most enriched shape: dedicated score columns plus two independent raw
// blobs (registry/enrichment data and the AI analysis).
type PriorAnalysisRecord struct {
	ID                   string             `json:"id"`
	CompanyID            *string            `json:"company_id,omitempty"`
	TaxID                string             `json:"tax_id"`
	LegalName            string             `json:"legal_name"`
	TradeName            string             `json:"trade_name"`
	State                string             `json:"state"`
	City                 string             `json:"city"`
	SizeClass            string             `json:"size_class"`
	Sector               string             `json:"sector"`
	Niche                string             `json:"niche"`
	CNAE                 string             `json:"cnae"`
	Website              string             `json:"website"`
	WebsiteFound         string             `json:"website_found"`
	Email                string             `json:"email"`
	Phone                string             `json:"phone"`
	LinkedInURL          string             `json:"linkedin_url"`
	ICPScore             int                `json:"icp_score"`
	FitScore             *int               `json:"fit_score,omitempty"`
	WebsiteFitScore      *int               `json:"website_fit_score,omitempty"`
	PurchaseIntentScore  int                `json:"purchase_intent_score"`
	PurchaseIntentType   PurchaseIntentType `json:"purchase_intent_type"`
	WebsiteProductsMatch *string            `json:"website_products_match,omitempty"`
	Status               string             `json:"status"`
	Temperature          Temperature        `json:"temperature,omitempty"`
	Grade                *Grade             `json:"grade,omitempty"`
	RegistryStatus       *string            `json:"registry_status,omitempty"`
	SourceName           string             `json:"source_name"`
	Origin               string             `json:"origin"`
	ICPID                string             `json:"icp_id"`
	TenantID             string             `json:"tenant_id"`
	RawData              map[string]any     `json:"raw_data,omitempty"`
	AIAnalysis           map[string]any     `json:"ai_analysis,omitempty"`
}

// ProspectRecord is a prospect produced by a qualification/prospecting job.
type ProspectRecord struct {
	ID             string         `json:"id"`
	JobID          string         `json:"job_id"`
	TaxID          string         `json:"tax_id"`
	LegalName      string         `json:"legal_name"`
	TradeName      string         `json:"trade_name"`
	State          string         `json:"state"`
	City           string         `json:"city"`
	SizeClass      string         `json:"size_class"`
	Sector         string         `json:"sector"`
	Niche          string         `json:"niche"`
	CNAE           string         `json:"cnae"`
	Website        string         `json:"website"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone"`
	ICPScore       int            `json:"icp_score"`
	FitScore       *int           `json:"fit_score,omitempty"`
	Status         string         `json:"status"`
	RegistryStatus *string        `json:"registry_status,omitempty"`
	ICPID          string         `json:"icp_id"`
	TenantID       string         `json:"tenant_id"`
	RawData        map[string]any `json:"raw_data,omitempty"`
}

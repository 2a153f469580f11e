package model

// Temperature classifies a lead by fit score against tenant thresholds.
type Temperature string

const (
	TemperatureHot  Temperature = "hot"
	TemperatureWarm Temperature = "warm"
	TemperatureCold Temperature = "cold"
)

// Grade is the fixed-band letter rating, independent of tenant thresholds.
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
	GradeD     Grade = "D"
)

// PurchaseIntentType distinguishes inferred intent from observed intent.
type PurchaseIntentType string

const (
	PurchaseIntentPotential PurchaseIntentType = "potential"
	PurchaseIntentReal      PurchaseIntentType = "real"
)

// DispatchAction is the advisory outcome the classifier produces for an
// external actor to execute. The pipeline never approves or discards anything
// itself.
type DispatchAction string

const (
	DispatchAutoApprove  DispatchAction = "auto_approve"
	DispatchManualReview DispatchAction = "manual_review"
	DispatchAutoDiscard  DispatchAction = "auto_discard"
)

// StatusPending is the default pipeline status for freshly normalized records.
const StatusPending = "pending"

// NormalizedCompany is the canonical company representation every pipeline
// stage operates on. Records are created on first ingestion and merged in
// place on every later normalization pass for the same tax id; the pipeline
// never deletes them.
type NormalizedCompany struct {
	ID        string  `json:"id"`
	CompanyID *string `json:"company_id,omitempty"`
	TaxID     string  `json:"tax_id"`
	LegalName string  `json:"legal_name"`
	TradeName string  `json:"trade_name"`

	StateCode string `json:"state_code"`
	City      string `json:"city"`

	SizeClass           string `json:"size_class"`
	SectorLabel         string `json:"sector_label"`
	NicheLabel          string `json:"niche_label"`
	PrimaryActivityCode string `json:"primary_activity_code"`

	Website      string `json:"website"`
	WebsiteFound string `json:"website_found"` // enrichment-discovered, distinct from user-provided
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	LinkedInURL  string `json:"linkedin_url"`

	ICPScore             int                `json:"icp_score"`
	FitScore             *int               `json:"fit_score,omitempty"`
	WebsiteFitScore      *int               `json:"website_fit_score,omitempty"`
	PurchaseIntentScore  int                `json:"purchase_intent_score"`
	PurchaseIntentType   PurchaseIntentType `json:"purchase_intent_type"`
	WebsiteProductsMatch *string            `json:"website_products_match,omitempty"`

	Status         string      `json:"status"`
	Temperature    Temperature `json:"temperature,omitempty"`
	Grade          *Grade      `json:"grade,omitempty"`
	RegistryStatus *string     `json:"registry_status,omitempty"`

	SourceName string `json:"source_name"`
	Origin     string `json:"origin"`
	ICPID      string `json:"icp_id"`
	TenantID   string `json:"tenant_id"`

	// RawData and RawAnalysis retain every field from the original source
	// record plus enrichment additions, merged (never replaced) across
	// normalization passes.
	RawData     map[string]any `json:"raw_data,omitempty"`
	RawAnalysis map[string]any `json:"raw_analysis,omitempty"`
}

package model

// FitLevel is the banded reading of a product-fit score. Bands are fixed at
// 70/40 regardless of which scoring path produced the score.
type FitLevel string

const (
	FitHigh   FitLevel = "high"
	FitMedium FitLevel = "medium"
	FitLow    FitLevel = "low"
)

// FitLevelForScore maps a 0-100 score onto the fixed 70/40 bands.
func FitLevelForScore(score int) FitLevel {
	switch {
	case score >= 70:
		return FitHigh
	case score >= 40:
		return FitMedium
	default:
		return FitLow
	}
}

// Product is one entry in a tenant's product catalog.
type Product struct {
	ID                  string   `json:"id" yaml:"id"`
	Name                string   `json:"name" yaml:"name"`
	Description         string   `json:"description" yaml:"description"`
	TargetActivityCodes []string `json:"target_activity_codes" yaml:"target_activity_codes"`
	TargetSectors       []string `json:"target_sectors" yaml:"target_sectors"`
	TargetSizeClasses   []string `json:"target_size_classes" yaml:"target_size_classes"`
	Differentiators     []string `json:"differentiators" yaml:"differentiators"`
	UseCases            []string `json:"use_cases" yaml:"use_cases"`
	PainsSolved         []string `json:"pains_solved" yaml:"pains_solved"`
	Active              bool     `json:"active" yaml:"active"`
}

// Scoring model tags surfaced on ProductFitResult so downstream consumers can
// discount confidence without the operation appearing to have failed.
const (
	ScoringModelAI    = "ai"
	ScoringModelBasic = "basic"
)

// ProductRecommendation is the per-product slice of a ProductFitResult.
type ProductRecommendation struct {
	ProductID      string   `json:"product_id"`
	ProductName    string   `json:"product_name"`
	FitScore       int      `json:"fit_score"`
	Recommendation FitLevel `json:"recommendation"`
	Justification  string   `json:"justification"`
	Strengths      []string `json:"strengths,omitempty"`
	Weaknesses     []string `json:"weaknesses,omitempty"`
}

// ProductFitResult pairs a tenant's catalog against one prospect.
type ProductFitResult struct {
	FitScore        int                     `json:"fit_score"`
	FitLevel        FitLevel                `json:"fit_level"`
	Justification   string                  `json:"justification"`
	Recommendations []ProductRecommendation `json:"products_recommendation"`
	ScoringModel    string                  `json:"scoring_model"`
	Confidence      string                  `json:"confidence"` // low|medium|high
}

// Package productfit pairs a tenant's product catalog against a normalized
// prospect. The AI-backed scorer is the primary path; it wraps the
// deterministic scorer as its own fallback so callers never branch on model
// availability.
package productfit

import (
	"context"

	"github.com/sells-group/qualify-cli/internal/model"
)

// Scorer produces an overall and per-product fit reading for one prospect.
type Scorer interface {
	ScoreFit(ctx context.Context, company *model.NormalizedCompany, catalog []model.Product) (*model.ProductFitResult, error)
}

func activeProducts(catalog []model.Product) []model.Product {
	out := make([]model.Product, 0, len(catalog))
	for _, p := range catalog {
		if p.Active {
			out = append(out, p)
		}
	}
	return out
}

// noCatalogResult is the distinct zero-product outcome. It is a usable
// result, not a failure: callers render it like any other score.
func noCatalogResult() *model.ProductFitResult {
	return &model.ProductFitResult{
		FitScore:        0,
		FitLevel:        model.FitLow,
		Justification:   "no active products in the tenant catalog",
		Recommendations: []model.ProductRecommendation{},
		ScoringModel:    model.ScoringModelBasic,
		Confidence:      "low",
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

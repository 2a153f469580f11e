package productfit

import (
	"context"
	"fmt"
	"strings"

	"github.com/sells-group/qualify-cli/internal/model"
	"github.com/sells-group/qualify-cli/internal/strutil"
)

// BasicScorer is the deterministic rubric. Per product: 40 points for an
// activity-code match, 30 for sector, 20 for size class, 10 for having any
// documented use-case or pain-point list. Overall score is the average
// across active products. It tolerates missing fields everywhere and never
// returns an error for sparse input.
type BasicScorer struct{}

func (BasicScorer) ScoreFit(_ context.Context, company *model.NormalizedCompany, catalog []model.Product) (*model.ProductFitResult, error) {
	active := activeProducts(catalog)
	if len(active) == 0 {
		return noCatalogResult(), nil
	}
	if company == nil {
		company = &model.NormalizedCompany{}
	}

	recs := make([]model.ProductRecommendation, 0, len(active))
	total := 0
	for _, p := range active {
		score, strengths, weaknesses := scoreProduct(company, p)
		total += score
		recs = append(recs, model.ProductRecommendation{
			ProductID:      p.ID,
			ProductName:    p.Name,
			FitScore:       score,
			Recommendation: model.FitLevelForScore(score),
			Justification:  fmt.Sprintf("rubric score %d/100 for %s", score, p.Name),
			Strengths:      strengths,
			Weaknesses:     weaknesses,
		})
	}

	overall := total / len(active)
	return &model.ProductFitResult{
		FitScore:        overall,
		FitLevel:        model.FitLevelForScore(overall),
		Justification:   basicJustification(overall, len(active)),
		Recommendations: recs,
		ScoringModel:    model.ScoringModelBasic,
		Confidence:      "low",
	}, nil
}

func scoreProduct(company *model.NormalizedCompany, p model.Product) (int, []string, []string) {
	score := 0
	var strengths, weaknesses []string

	if strutil.MatchActivityCode(company.PrimaryActivityCode, p.TargetActivityCodes) {
		score += 40
		strengths = append(strengths, "primary activity matches the product's target codes")
	} else {
		weaknesses = append(weaknesses, "primary activity outside the product's target codes")
	}
	if strutil.ContainsFolded(p.TargetSectors, company.SectorLabel) {
		score += 30
		strengths = append(strengths, "sector matches")
	} else {
		weaknesses = append(weaknesses, "sector does not match")
	}
	if strutil.ContainsFolded(p.TargetSizeClasses, company.SizeClass) {
		score += 20
		strengths = append(strengths, "size class matches")
	} else {
		weaknesses = append(weaknesses, "size class does not match")
	}
	if len(p.UseCases) > 0 || len(p.PainsSolved) > 0 {
		score += 10
		strengths = append(strengths, "product documents use cases or pains solved")
	}

	return score, strengths, weaknesses
}

func basicJustification(overall, products int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "basic analysis across %d product(s): overall fit %d/100", products, overall)
	return b.String()
}

// Package qualify holds the weighted qualification engine and the
// temperature/grade classifier. Both are synchronous, CPU-only and safe to
// call concurrently for independent companies.
package qualify

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/qualify-cli/internal/model"
	"github.com/sells-group/qualify-cli/internal/strutil"
)

// SubScores breaks the fit score down per criterion. Each sub-score is
// either zero or the criterion's configured weight.
type SubScores struct {
	ActivityCode       int `json:"activity_code"`
	CapitalRange       int `json:"capital_range"`
	SizeClass          int `json:"size_class"`
	Location           int `json:"location"`
	RegistrationStatus int `json:"registration_status"`
	SectorNiche        int `json:"sector_niche"`
}

// Result is the engine's output for one company.
type Result struct {
	FitScore  int       `json:"fit_score"`
	SubScores SubScores `json:"sub_scores"`
	// MaxScore is the sum of configured weights, the ceiling FitScore can
	// reach. Typically, but not necessarily, 100.
	MaxScore int `json:"max_score"`
}

// Score applies the tenant's weights to a normalized company. Deterministic:
// fixed inputs always produce the same score. The engine accepts any weight
// configuration; warning about unbalanced sums is the configuration
// surface's job, not the engine's.
func Score(company *model.NormalizedCompany, icp model.ICPCriteria, weights model.QualificationWeights) Result {
	sub := SubScores{}

	if strutil.MatchActivityCode(company.PrimaryActivityCode, icp.TargetActivityCodes) {
		sub.ActivityCode = weights.ActivityCode
	}
	if matchCapital(company.RawData, icp.CapitalMin, icp.CapitalMax) {
		sub.CapitalRange = weights.CapitalRange
	}
	if strutil.ContainsFolded(icp.TargetSizeClasses, company.SizeClass) {
		sub.SizeClass = weights.SizeClass
	}
	if matchLocation(company.StateCode, company.City, icp.TargetStates, icp.TargetCities) {
		sub.Location = weights.Location
	}
	if matchRegistrationStatus(company.RegistryStatus) {
		sub.RegistrationStatus = weights.RegistrationStatus
	}
	if strutil.ContainsFolded(icp.TargetSectors, company.SectorLabel) || strutil.ContainsFolded(icp.TargetNiches, company.NicheLabel) {
		sub.SectorNiche = weights.SectorNiche
	}

	score := sub.ActivityCode + sub.CapitalRange + sub.SizeClass + sub.Location + sub.RegistrationStatus + sub.SectorNiche

	zap.L().Debug("qualify: scored company",
		zap.String("tax_id", company.TaxID),
		zap.Int("fit_score", score),
		zap.Int("max_score", weights.Sum()),
	)

	return Result{FitScore: score, SubScores: sub, MaxScore: weights.Sum()}
}

// matchCapital reads the share capital from the raw payload. Unknown capital
// never matches: the criterion rewards confirmed fit, not missing data.
func matchCapital(rawData map[string]any, min, max float64) bool {
	if min == 0 && max == 0 {
		return false
	}
	capital, ok := capitalFrom(rawData)
	if !ok {
		return false
	}
	if capital < min {
		return false
	}
	if max > 0 && capital > max {
		return false
	}
	return true
}

func capitalFrom(rawData map[string]any) (float64, bool) {
	for _, key := range []string{"capital_social", "share_capital", "capital"} {
		val, ok := rawData[key]
		if !ok || val == nil {
			continue
		}
		switch n := val.(type) {
		case float64:
			return n, true
		case int:
			return float64(n), true
		case string:
			parsed, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(n), ",", "."), 64)
			if err == nil {
				return parsed, true
			}
		}
	}
	return 0, false
}

func matchLocation(state, city string, targetStates, targetCities []string) bool {
	for _, ts := range targetStates {
		if state != "" && strings.EqualFold(state, ts) {
			return true
		}
	}
	return strutil.ContainsFolded(targetCities, city)
}

var activeStatuses = []string{"ativa", "active", "02"}

func matchRegistrationStatus(status *string) bool {
	if status == nil {
		return false
	}
	return strutil.ContainsFolded(activeStatuses, *status)
}

package registry

import "github.com/sells-group/qualify-cli/internal/model"

// QualityScore grades a merged registry record on an 8-factor point rubric
// (max 10): legal name and full address are worth 2 each, the remaining six
// factors 1 each. COMPLETE at 8+, PARTIAL at 5+, POOR below.
func QualityScore(rec *model.RegistryRecord) (model.DataQuality, int) {
	points := 0
	if rec.LegalName != "" {
		points += 2
	}
	if rec.TradeName != "" {
		points++
	}
	if rec.Street != "" && rec.City != "" && rec.State != "" {
		points += 2
	}
	if rec.PrimaryActivity.Code != "" {
		points++
	}
	if rec.Email != "" {
		points++
	}
	if rec.Phone != "" {
		points++
	}
	if len(rec.Partners) > 0 {
		points++
	}
	if rec.Website != "" {
		points++
	}

	switch {
	case points >= 8:
		return model.DataQualityComplete, points
	case points >= 5:
		return model.DataQualityPartial, points
	default:
		return model.DataQualityPoor, points
	}
}

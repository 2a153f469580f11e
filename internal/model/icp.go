package model

import "fmt"

// ICPCriteria is a tenant's declarative target-customer profile. All sets are
// optional; an empty set means the corresponding criterion cannot match and
// contributes zero (the tenant is expected to zero its weight too).
type ICPCriteria struct {
	ID                  string   `json:"id" yaml:"id"`
	TenantID            string   `json:"tenant_id" yaml:"tenant_id"`
	TargetActivityCodes []string `json:"target_activity_codes" yaml:"target_activity_codes"`
	CapitalMin          float64  `json:"capital_min" yaml:"capital_min"`
	CapitalMax          float64  `json:"capital_max" yaml:"capital_max"` // 0 = no upper bound
	TargetSizeClasses   []string `json:"target_size_classes" yaml:"target_size_classes"`
	TargetStates        []string `json:"target_states" yaml:"target_states"`
	TargetCities        []string `json:"target_cities" yaml:"target_cities"`
	TargetSectors       []string `json:"target_sectors" yaml:"target_sectors"`
	TargetNiches        []string `json:"target_niches" yaml:"target_niches"`
}

const (
	// WeightMax is the per-criterion ceiling; WeightStep the configuration
	// granularity.
	WeightMax  = 50
	WeightStep = 5
)

// QualificationWeights holds the per-tenant weight of each qualification
// criterion. Each weight lives in [0, WeightMax] in steps of WeightStep.
// The sum should be 100 but the engine accepts any configuration; Validate
// only warns.
type QualificationWeights struct {
	ActivityCode       int `json:"activity_code" yaml:"activity_code"`
	CapitalRange       int `json:"capital_range" yaml:"capital_range"`
	SizeClass          int `json:"size_class" yaml:"size_class"`
	Location           int `json:"location" yaml:"location"`
	RegistrationStatus int `json:"registration_status" yaml:"registration_status"`
	SectorNiche        int `json:"sector_niche" yaml:"sector_niche"`
}

// DefaultWeights is the out-of-the-box balanced configuration (sum 100).
func DefaultWeights() QualificationWeights {
	return QualificationWeights{
		ActivityCode:       30,
		CapitalRange:       15,
		SizeClass:          20,
		Location:           15,
		RegistrationStatus: 10,
		SectorNiche:        10,
	}
}

// Sum returns the total of all six weights.
func (w QualificationWeights) Sum() int {
	return w.ActivityCode + w.CapitalRange + w.SizeClass + w.Location + w.RegistrationStatus + w.SectorNiche
}

// Clamp snaps every weight into [0, WeightMax] and onto the WeightStep grid.
// Applied on the write path only; the engine scores whatever it is given.
func (w *QualificationWeights) Clamp() {
	for _, p := range []*int{&w.ActivityCode, &w.CapitalRange, &w.SizeClass, &w.Location, &w.RegistrationStatus, &w.SectorNiche} {
		v := *p
		if v < 0 {
			v = 0
		}
		if v > WeightMax {
			v = WeightMax
		}
		// Round to the nearest step.
		v = (v + WeightStep/2) / WeightStep * WeightStep
		if v > WeightMax {
			v = WeightMax
		}
		*p = v
	}
}

// Validate returns advisory warnings. A deviating sum never blocks saving;
// a sum above 100 warns harder than one below because it silently inflates
// every score.
func (w QualificationWeights) Validate() []string {
	var warnings []string
	sum := w.Sum()
	switch {
	case sum > 100:
		warnings = append(warnings, fmt.Sprintf("weights sum to %d (>100): scores will exceed the 0-100 scale, review the configuration", sum))
	case sum < 100:
		warnings = append(warnings, fmt.Sprintf("weights sum to %d (<100): the maximum reachable fit score is %d", sum, sum))
	}
	return warnings
}

// MinThresholdGap is the minimum distance kept between hotMin and warmMin.
const MinThresholdGap = 10

// QualificationThresholds holds the tenant's temperature cut lines and the
// two dispatch toggles.
type QualificationThresholds struct {
	HotMin          int  `json:"hot_min" yaml:"hot_min"`
	WarmMin         int  `json:"warm_min" yaml:"warm_min"`
	AutoApproveHot  bool `json:"auto_approve_hot" yaml:"auto_approve_hot"`
	AutoDiscardCold bool `json:"auto_discard_cold" yaml:"auto_discard_cold"`
}

// DefaultThresholds returns the stock 80/50 configuration.
func DefaultThresholds() QualificationThresholds {
	return QualificationThresholds{HotMin: 80, WarmMin: 50}
}

// SetHotMin writes hotMin and pulls warmMin down if the gap would shrink
// below MinThresholdGap. The field being written always wins.
func (t *QualificationThresholds) SetHotMin(v int) {
	t.HotMin = clampScore(v)
	if t.WarmMin > t.HotMin-MinThresholdGap {
		t.WarmMin = t.HotMin - MinThresholdGap
		if t.WarmMin < 0 {
			t.WarmMin = 0
			t.HotMin = MinThresholdGap
		}
	}
}

// SetWarmMin writes warmMin and pushes hotMin up if needed.
func (t *QualificationThresholds) SetWarmMin(v int) {
	t.WarmMin = clampScore(v)
	if t.HotMin < t.WarmMin+MinThresholdGap {
		t.HotMin = t.WarmMin + MinThresholdGap
		if t.HotMin > 100 {
			t.HotMin = 100
			t.WarmMin = 100 - MinThresholdGap
		}
	}
}

// Normalize repairs a threshold pair loaded from storage or config so the
// gap invariant holds, favoring hotMin.
func (t *QualificationThresholds) Normalize() {
	t.HotMin = clampScore(t.HotMin)
	t.WarmMin = clampScore(t.WarmMin)
	if t.HotMin < MinThresholdGap {
		t.HotMin = MinThresholdGap
	}
	if t.WarmMin > t.HotMin-MinThresholdGap {
		t.WarmMin = t.HotMin - MinThresholdGap
	}
}

// QualificationSettings bundles everything the scoring path needs for one
// tenant: the target profile, the criterion weights and the temperature
// thresholds.
type QualificationSettings struct {
	TenantID   string                  `json:"tenant_id" yaml:"tenant_id"`
	ICP        ICPCriteria             `json:"icp" yaml:"icp"`
	Weights    QualificationWeights    `json:"weights" yaml:"weights"`
	Thresholds QualificationThresholds `json:"thresholds" yaml:"thresholds"`
}

// DefaultSettings returns the stock configuration for a tenant that never
// saved one.
func DefaultSettings(tenantID string) QualificationSettings {
	return QualificationSettings{
		TenantID:   tenantID,
		Weights:    DefaultWeights(),
		Thresholds: DefaultThresholds(),
	}
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

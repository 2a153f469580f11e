package qualify

import "github.com/sells-group/qualify-cli/internal/model"

// Classification is the stateless reading of a fit score against tenant
// thresholds. It is recomputed fresh on every evaluation; nothing here is
// driven by time or stored state.
type Classification struct {
	Temperature model.Temperature    `json:"temperature"`
	Grade       model.Grade          `json:"grade"`
	Dispatch    model.DispatchAction `json:"dispatch"`
}

// Classify maps a fit score to temperature, grade and the advisory dispatch
// decision. Lower band bounds are inclusive: a score of exactly hotMin is
// HOT, exactly warmMin is WARM.
func Classify(score int, th model.QualificationThresholds) Classification {
	c := Classification{Grade: GradeFor(score)}

	switch {
	case score >= th.HotMin:
		c.Temperature = model.TemperatureHot
	case score >= th.WarmMin:
		c.Temperature = model.TemperatureWarm
	default:
		c.Temperature = model.TemperatureCold
	}

	// The dispatch decision is advisory output; executing approval or
	// discard belongs to an external collaborator.
	switch {
	case c.Temperature == model.TemperatureHot && th.AutoApproveHot:
		c.Dispatch = model.DispatchAutoApprove
	case c.Temperature == model.TemperatureCold && th.AutoDiscardCold:
		c.Dispatch = model.DispatchAutoDiscard
	default:
		c.Dispatch = model.DispatchManualReview
	}

	return c
}

// GradeFor maps a score onto the fixed grade bands used for catalog/stock
// reporting. Independent of tenant thresholds.
func GradeFor(score int) model.Grade {
	switch {
	case score >= 95:
		return model.GradeAPlus
	case score >= 85:
		return model.GradeA
	case score >= 70:
		return model.GradeB
	case score >= 60:
		return model.GradeC
	default:
		return model.GradeD
	}
}

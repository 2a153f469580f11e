package registry

import (
	"strconv"
	"strings"

	"github.com/sells-group/qualify-cli/internal/model"
)

// ClassifySector maps the first two digits of a CNAE activity code to a
// coarse sector category. Returns "" for empty or non-numeric codes.
func ClassifySector(code string) model.SectorCategory {
	digits := strings.TrimSpace(code)
	var b strings.Builder
	for _, r := range digits {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits = b.String()
	if len(digits) < 2 {
		return ""
	}

	division, err := strconv.Atoi(digits[:2])
	if err != nil {
		return ""
	}

	switch {
	case division >= 1 && division <= 3:
		return model.SectorAgro
	case division >= 10 && division <= 33:
		return model.SectorManufacturing
	case division >= 45 && division <= 47:
		return model.SectorTrade
	case division >= 49 && division <= 66, division >= 68:
		return model.SectorServices
	default:
		return model.SectorOther
	}
}

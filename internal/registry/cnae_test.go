package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/qualify-cli/internal/model"
)

func TestClassifySector(t *testing.T) {
	tests := []struct {
		name string
		code string
		want model.SectorCategory
	}{
		{"agro lower bound", "0111301", model.SectorAgro},
		{"agro upper bound", "0311601", model.SectorAgro},
		{"fishing is other", "0500301", model.SectorOther},
		{"manufacturing lower", "1011201", model.SectorManufacturing},
		{"manufacturing upper", "3314701", model.SectorManufacturing},
		{"utilities are other", "3511500", model.SectorOther},
		{"trade lower", "4511101", model.SectorTrade},
		{"trade upper", "4789099", model.SectorTrade},
		{"construction is other", "4120400", model.SectorOther},
		{"transport services", "4911600", model.SectorServices},
		{"finance services", "6619302", model.SectorServices},
		{"division 67 unassigned", "6700000", model.SectorOther},
		{"real estate services", "6810201", model.SectorServices},
		{"it services formatted", "62.01-5-01", model.SectorServices},
		{"high division services", "9999999", model.SectorServices},
		{"empty code", "", ""},
		{"single digit", "6", ""},
		{"non numeric", "xx", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifySector(tt.code))
		})
	}
}

func TestQualityScore(t *testing.T) {
	full := fullRecord("brasilapi")
	full.Website = "https://acme.com.br"
	quality, points := QualityScore(full)
	assert.Equal(t, model.DataQualityComplete, quality)
	assert.Equal(t, 10, points)

	partial := &model.RegistryRecord{
		LegalName: "ACME Ltda",
		Street:    "Rua A", City: "Sao Paulo", State: "SP",
		PrimaryActivity: model.RegistryActivity{Code: "6201501"},
	}
	quality, points = QualityScore(partial)
	assert.Equal(t, model.DataQualityPartial, quality)
	assert.Equal(t, 5, points)

	poor := &model.RegistryRecord{LegalName: "ACME Ltda"}
	quality, points = QualityScore(poor)
	assert.Equal(t, model.DataQualityPoor, quality)
	assert.Equal(t, 2, points)
}

func TestNormalizeCNPJ(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"plain digits", "11222333000181", "11222333000181", false},
		{"formatted", "11.222.333/0001-81", "11222333000181", false},
		{"too short", "1122233300018", "", true},
		{"too long", "112223330001811", "", true},
		{"bad check digit", "11222333000180", "", true},
		{"all same digit", "11111111111111", "", true},
		{"letters", "1122233300018a", "", true},
		{"empty", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeCNPJ(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

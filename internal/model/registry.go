package model

// DataQuality grades how complete a merged registry record is.
type DataQuality string

const (
	DataQualityComplete DataQuality = "COMPLETE"
	DataQualityPartial  DataQuality = "PARTIAL"
	DataQualityPoor     DataQuality = "POOR"
)

// SectorCategory is the coarse classification derived from the first two
// digits of the primary CNAE activity code.
type SectorCategory string

const (
	SectorAgro          SectorCategory = "AGRO"
	SectorManufacturing SectorCategory = "MANUFACTURING"
	SectorTrade         SectorCategory = "TRADE"
	SectorServices      SectorCategory = "SERVICES"
	SectorOther         SectorCategory = "OTHER"
)

// RegistryActivity is one CNAE activity entry.
type RegistryActivity struct {
	Code string `json:"code"`
	Text string `json:"text"`
}

// RegistryPartner is one entry of the partner list (qsa).
type RegistryPartner struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// RegistryRecord is the merged view of the external registry lookups for one
// tax id. PrincipalSource names the source that supplied the record's
// principal fields (keyed on legal name).
type RegistryRecord struct {
	TaxID              string             `json:"tax_id"`
	LegalName          string             `json:"legal_name"`
	TradeName          string             `json:"trade_name"`
	LegalNature        string             `json:"legal_nature"`
	SizeClass          string             `json:"size_class"`
	Capital            float64            `json:"capital"`
	Street             string             `json:"street"`
	Number             string             `json:"number"`
	Complement         string             `json:"complement"`
	District           string             `json:"district"`
	City               string             `json:"city"`
	State              string             `json:"state"`
	ZipCode            string             `json:"zip_code"`
	Email              string             `json:"email"`
	Phone              string             `json:"phone"`
	Website            string             `json:"website"`
	RegistrationStatus string             `json:"registration_status"`
	OpenedAt           string             `json:"opened_at"`
	PrimaryActivity    RegistryActivity   `json:"primary_activity"`
	SecondaryActivity  []RegistryActivity `json:"secondary_activities,omitempty"`
	Partners           []RegistryPartner  `json:"partners,omitempty"`
	PrincipalSource    string             `json:"principal_source"`
}

// Package importer reads bulk company uploads (XLSX or CSV) into raw import
// records. Header names are matched leniently: case, accents and the usual
// pt-BR/en synonyms all resolve to the same column.
package importer

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/qualify-cli/internal/model"
	"github.com/sells-group/qualify-cli/internal/strutil"
)

// column identifiers after header normalization.
const (
	colTaxID     = "tax_id"
	colLegalName = "legal_name"
	colTradeName = "trade_name"
	colState     = "state"
	colCity      = "city"
	colSizeClass = "size_class"
	colSector    = "sector"
	colNiche     = "niche"
	colCNAE      = "cnae"
	colWebsite   = "website"
	colEmail     = "email"
	colPhone     = "phone"
)

// headerAliases maps folded header names to canonical columns.
var headerAliases = map[string]string{
	"cnpj":          colTaxID,
	"tax_id":        colTaxID,
	"taxid":         colTaxID,
	"razao_social":  colLegalName,
	"legal_name":    colLegalName,
	"nome_fantasia": colTradeName,
	"trade_name":    colTradeName,
	"uf":            colState,
	"estado":        colState,
	"state":         colState,
	"municipio":     colCity,
	"cidade":        colCity,
	"city":          colCity,
	"porte":         colSizeClass,
	"size_class":    colSizeClass,
	"setor":         colSector,
	"sector":        colSector,
	"nicho":         colNiche,
	"niche":         colNiche,
	"cnae":          colCNAE,
	"cnae_fiscal":   colCNAE,
	"website":       colWebsite,
	"site":          colWebsite,
	"email":         colEmail,
	"e-mail":        colEmail,
	"telefone":      colPhone,
	"phone":         colPhone,
}

// ReadFile parses an upload into raw import records. The format is picked by
// extension; every record carries the tenant and source-file name.
func ReadFile(path, tenantID string) ([]model.RawImportRecord, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err = readXLSX(path)
	case ".csv":
		rows, err = readCSV(path)
	default:
		return nil, eris.Errorf("importer: unsupported file type %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := mapHeader(rows[0])
	records := make([]model.RawImportRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if emptyRow(row) {
			continue
		}
		rec := buildRecord(header, row)
		rec.TenantID = tenantID
		rec.SourceName = filepath.Base(path)
		records = append(records, rec)
	}
	return records, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "importer: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("importer: xlsx has no sheets")
	}

	var rows [][]string
	for _, row := range f.Sheets[0].Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "importer: open csv")
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "importer: read csv")
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// mapHeader resolves each header cell to a canonical column name, keeping
// the original (folded) name for cells with no alias so their values land in
// RawData.
func mapHeader(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		folded := strings.ReplaceAll(strutil.Fold(c), " ", "_")
		if canonical, ok := headerAliases[folded]; ok {
			out[i] = canonical
			continue
		}
		out[i] = folded
	}
	return out
}

func buildRecord(header []string, row []string) model.RawImportRecord {
	rec := model.RawImportRecord{RawData: map[string]any{}}
	for i, col := range header {
		if i >= len(row) {
			break
		}
		val := strings.TrimSpace(row[i])
		if val == "" {
			continue
		}
		switch col {
		case colTaxID:
			rec.TaxID = val
		case colLegalName:
			rec.LegalName = val
		case colTradeName:
			rec.TradeName = val
		case colState:
			rec.State = val
		case colCity:
			rec.City = val
		case colSizeClass:
			rec.SizeClass = val
		case colSector:
			rec.Sector = val
		case colNiche:
			rec.Niche = val
		case colCNAE:
			rec.CNAE = val
		case colWebsite:
			rec.Website = val
		case colEmail:
			rec.Email = val
		case colPhone:
			rec.Phone = val
		default:
			rec.RawData[col] = val
		}
	}
	return rec
}

func emptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

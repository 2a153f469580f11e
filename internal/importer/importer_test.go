package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "upload.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadFileCSVWithBrazilianHeaders(t *testing.T) {
	path := writeCSV(t, "CNPJ,Razão Social,Nome Fantasia,UF,Município,Porte,CNAE\n"+
		"11.222.333/0001-81,ACME Industria Ltda,ACME,SP,São Paulo,EPP,6201-5/01\n")

	recs, err := ReadFile(path, "t1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "11.222.333/0001-81", recs[0].TaxID)
	assert.Equal(t, "ACME Industria Ltda", recs[0].LegalName)
	assert.Equal(t, "ACME", recs[0].TradeName)
	assert.Equal(t, "SP", recs[0].State)
	assert.Equal(t, "São Paulo", recs[0].City)
	assert.Equal(t, "EPP", recs[0].SizeClass)
	assert.Equal(t, "6201-5/01", recs[0].CNAE)
	assert.Equal(t, "t1", recs[0].TenantID)
	assert.Equal(t, "upload.csv", recs[0].SourceName)
}

func TestReadFileUnknownColumnsLandInRawData(t *testing.T) {
	path := writeCSV(t, "cnpj,razao_social,Faturamento Anual\n"+
		"11222333000181,ACME Ltda,5000000\n")

	recs, err := ReadFile(path, "t1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "5000000", recs[0].RawData["faturamento_anual"])
}

func TestReadFileSkipsEmptyRows(t *testing.T) {
	path := writeCSV(t, "cnpj,razao_social\n11222333000181,ACME Ltda\n,\n")

	recs, err := ReadFile(path, "t1")
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestReadFileRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upload.pdf")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := ReadFile(path, "t1")
	assert.Error(t, err)
}

func TestReadFileXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upload.xlsx")

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Empresas")
	require.NoError(t, err)
	for _, vals := range [][]string{
		{"CNPJ", "Razão Social", "Setor"},
		{"11222333000181", "ACME Ltda", "Serviços"},
	} {
		row := sheet.AddRow()
		for _, v := range vals {
			row.AddCell().SetString(v)
		}
	}
	require.NoError(t, f.Save(path))

	recs, err := ReadFile(path, "t1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "11222333000181", recs[0].TaxID)
	assert.Equal(t, "ACME Ltda", recs[0].LegalName)
	assert.Equal(t, "Serviços", recs[0].Sector)
}

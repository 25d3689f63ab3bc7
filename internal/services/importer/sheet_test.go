package importer

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"mall-site-backend/internal/services/batch"
)

func workbook(t *testing.T, rows ...[]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := r
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	// A second sheet that must be ignored.
	_, err := f.NewSheet("Ignored")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Ignored", "A1", "name"))
	require.NoError(t, f.SetCellValue("Ignored", "A2", "Ghost"))

	buf := &bytes.Buffer{}
	_, err = f.WriteTo(buf)
	require.NoError(t, err)
	return buf
}

func TestParseSheetLocalizedHeaders(t *testing.T) {
	buf := workbook(t,
		[]interface{}{"Mağaza Adı", "Kategori", "Kat", "Telefon", "Açıklama", "Logo URL"},
		[]interface{}{"Zara", "Giyim", "1. Kat", "0212 111 11 11", "Moda", "https://x/zara.png"},
		[]interface{}{"", "Giyim"},
		[]interface{}{"  Mavi  ", "Giyim"},
	)
	rows, err := ParseSheet(buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, ImportRow{
		Line: 2, Name: "Zara", Category: "Giyim", Floor: "1. Kat", Phone: "0212 111 11 11",
		Description: "Moda", LogoURL: "https://x/zara.png", Status: batch.Pending(),
	}, rows[0])
	assert.Equal(t, "Mavi", rows[1].Name)
	assert.Equal(t, 4, rows[1].Line)
}

func TestParseSheetEnglishHeadersAndPreference(t *testing.T) {
	buf := workbook(t,
		[]interface{}{"name", "Mağaza Adı", "category", "floor"},
		[]interface{}{"English Name", "Yerel Ad", "Food", "B1"},
		[]interface{}{"Only English", "", "Tech"},
		[]interface{}{"", "", "Nothing"},
	)
	rows, err := ParseSheet(buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Yerel Ad", rows[0].Name)
	assert.Equal(t, "Food", rows[0].Category)
	assert.Equal(t, "B1", rows[0].Floor)
	assert.Equal(t, "Only English", rows[1].Name)
	assert.Equal(t, "", rows[1].Floor)
}

func TestParseSheetCountsOnlyNamedRows(t *testing.T) {
	grid := [][]string{
		{"name"},
		{"a"}, {""}, {"b"}, {"   "}, {}, {"c"},
	}
	assert.Len(t, rowsFromGrid(grid), 3)
	assert.Empty(t, rowsFromGrid(nil))
}

func TestParseSheetRejectsNonWorkbook(t *testing.T) {
	_, err := ParseSheet(bytes.NewBufferString("name,category\nZara,Giyim\n"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestCheckFileName(t *testing.T) {
	assert.NoError(t, CheckFileName("stores.XLSX"))
	assert.NoError(t, CheckFileName("stores.xls"))
	assert.ErrorIs(t, CheckFileName("stores.csv"), ErrUnsupportedFormat)
}

func TestParseFileReadsLegacyWorkbook(t *testing.T) {
	f, err := os.Open(filepath.Join("testdata", "stores.xls"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := ParseFile("Mağazalar.XLS", f)
	require.NoError(t, err)
	require.Len(t, rows, 2, "the empty third line and the second sheet are ignored")

	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "Zara", rows[0].Name)
	assert.Equal(t, "Giyim", rows[0].Category)
	assert.Equal(t, "Zemin Kat", rows[0].Floor)
	assert.Equal(t, 4, rows[1].Line)
	assert.Equal(t, "Mavi", rows[1].Name)
	assert.Equal(t, "1. Kat", rows[1].Floor)
	assert.Equal(t, batch.StatePending, rows[1].Status.State)
}

func TestParseFileRoutesByExtension(t *testing.T) {
	rows, err := ParseFile("stores.xlsx", workbook(t, []interface{}{"name"}, []interface{}{"Zara"}))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	_, err = ParseFile("stores.xls", workbook(t, []interface{}{"name"}, []interface{}{"Zara"}))
	assert.ErrorIs(t, err, ErrUnsupportedFormat, "an OOXML body is not a BIFF workbook")

	_, err = ParseFile("stores.csv", bytes.NewBufferString("name\nZara\n"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestTemplateParsesToExampleRow(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteTemplate(buf))

	rows, err := ParseSheet(buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Örnek Mağaza", rows[0].Name)
	assert.Equal(t, "Giyim", rows[0].Category)
}

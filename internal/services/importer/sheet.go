package importer

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"mall-site-backend/internal/services/batch"
)

var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format, upload an .xlsx or .xls file")

// column lists the accepted headers of one field: localized first, then English.
type column struct {
	localized string
	english   string
}

var (
	colName        = column{"Mağaza Adı", "name"}
	colCategory    = column{"Kategori", "category"}
	colFloor       = column{"Kat", "floor"}
	colPhone       = column{"Telefon", "phone"}
	colDescription = column{"Açıklama", "description"}
	colLogoURL     = column{"Logo URL", "logo_url"}

	templateColumns = []column{colName, colCategory, colFloor, colPhone, colDescription, colLogoURL}
)

// CheckFileName rejects anything but .xlsx/.xlsm/.xls before the bytes are read.
func CheckFileName(name string) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xls":
		return nil
	default:
		return ErrUnsupportedFormat
	}
}

// ParseFile picks the reader by extension: legacy BIFF workbooks for .xls, OOXML otherwise.
func ParseFile(name string, r io.Reader) ([]ImportRow, error) {
	if err := CheckFileName(name); err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(name), ".xls") {
		return ParseLegacySheet(r)
	}
	return ParseSheet(r)
}

// ParseSheet reads the first worksheet. The header row maps columns to fields; rows whose name
// is empty are dropped.
func ParseSheet(r io.Reader) ([]ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	grid, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rowsFromGrid(grid), nil
}

func rowsFromGrid(grid [][]string) []ImportRow {
	if len(grid) == 0 {
		return []ImportRow{}
	}
	headers := make(map[string]int, len(grid[0]))
	for i, h := range grid[0] {
		h = strings.TrimSpace(h)
		if _, dup := headers[h]; h != "" && !dup {
			headers[h] = i
		}
	}

	rows := make([]ImportRow, 0, len(grid)-1)
	for n, cells := range grid[1:] {
		get := func(c column) string {
			if v := cell(cells, headers, c.localized); v != "" {
				return v
			}
			return cell(cells, headers, c.english)
		}
		name := get(colName)
		if name == "" {
			continue
		}
		rows = append(rows, ImportRow{
			Line:        n + 2, // 1-based, after the header
			Name:        name,
			Category:    get(colCategory),
			Floor:       get(colFloor),
			Phone:       get(colPhone),
			Description: get(colDescription),
			LogoURL:     get(colLogoURL),
			Status:      batch.Pending(),
		})
	}
	return rows
}

func cell(cells []string, headers map[string]int, header string) string {
	i, ok := headers[header]
	if !ok || i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}

// WriteTemplate writes the downloadable import template: localized headers plus one example row.
func WriteTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Mağazalar"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	header := make([]interface{}, 0, len(templateColumns))
	for _, c := range templateColumns {
		header = append(header, c.localized)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	example := []interface{}{"Örnek Mağaza", "Giyim", "Zemin Kat", "0212 000 00 00", "Kısa mağaza açıklaması", "https://example.com/logo.png"}
	if err := f.SetSheetRow(sheet, "A2", &example); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", "F", 24); err != nil {
		return err
	}
	_, err := f.WriteTo(w)
	return err
}

package importer

import (
	"bytes"
	"fmt"
	"io"

	"github.com/extrame/xls"
)

// ParseLegacySheet reads the first worksheet of a BIFF (.xls) workbook and maps it like
// ParseSheet does.
func ParseLegacySheet(r io.Reader) (rows []ImportRow, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}

	// The BIFF reader indexes into record data without bounds checks.
	defer func() {
		if p := recover(); p != nil {
			rows, err = nil, fmt.Errorf("%w: malformed workbook", ErrUnsupportedFormat)
		}
	}()

	if err := checkCompoundFile(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	if wb == nil {
		return nil, fmt.Errorf("%w: no workbook stream", ErrUnsupportedFormat)
	}
	first := wb.GetSheet(0)
	if first == nil {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	// MaxRow is the last row index; zero means at most a header, so nothing to import.
	if first.MaxRow == 0 {
		return []ImportRow{}, nil
	}
	// ReadAllCells walks sheets in order; capping it at the first sheet's height keeps it there.
	return rowsFromGrid(wb.ReadAllCells(int(first.MaxRow) + 1)), nil
}

package importer

import (
	"fmt"

	"mall-site-backend/internal/services/batch"
)

// ImportRow is one spreadsheet row mapped to store fields.
type ImportRow struct {
	Line        int          `json:"line"`
	Name        string       `json:"name"`
	Category    string       `json:"category"`
	Floor       string       `json:"floor"`
	Phone       string       `json:"phone"`
	Description string       `json:"description"`
	LogoURL     string       `json:"logo_url"`
	Status      batch.Status `json:"status"`

	// Filled by Preview for display only; Commit recomputes both.
	Slug       string `json:"slug,omitempty"`
	CategoryID *uint  `json:"category_id,omitempty"`
}

// SkipRow takes a pending row out of the next commit.
func SkipRow(rows []ImportRow, index int) ([]ImportRow, error) {
	if index < 0 || index >= len(rows) {
		return rows, fmt.Errorf("row %d out of range", index)
	}
	next, err := rows[index].Status.Advance(batch.Skipped())
	if err != nil {
		return rows, err
	}
	rows[index].Status = next
	return rows, nil
}

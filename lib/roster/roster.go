// Package roster reads the externally maintained student roster
// spreadsheet. The pipeline only consumes it, never writes it.
package roster

import (
	"fmt"

	"github.com/VigyanShaala-Tech/graphy-assignment-scraper/lib/tabular"

	"github.com/xuri/excelize/v2"
)

// Column names the reconciler joins on. The spreadsheet may carry
// more columns; extras are kept but ignored downstream.
const (
	ColumnEmail       = "Email"
	ColumnStudentName = "Name of the Student"
	ColumnCollegeName = "Name of the college"
)

// Read loads the first sheet of an xlsx roster into a table. The first
// row is the header; short rows pad with empty strings so blank
// trailing cells stay comparable in joins.
func Read(path string) (*tabular.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("roster %s has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("roster %s sheet %q is empty", path, sheets[0])
	}

	out := tabular.New(rows[0]...)
	for _, row := range rows[1:] {
		out.Append(row)
	}
	return out, nil
}

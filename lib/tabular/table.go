// Package tabular is a small string-typed table layer backing the CSV
// artifacts the pipeline produces and the joins the reconciler runs.
// Cells are always strings; blank cells stay blank instead of turning
// into a null sentinel, which matters for the equality joins.
package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"slices"
)

type Table struct {
	Columns []string
	Rows    [][]string
}

func New(columns ...string) *Table {
	return &Table{Columns: columns}
}

// Append adds a row, padding or truncating it to the column count.
func (t *Table) Append(row []string) {
	fixed := make([]string, len(t.Columns))
	copy(fixed, row)
	t.Rows = append(t.Rows, fixed)
}

func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of the first column with the given
// name, or -1.
func (t *Table) ColumnIndex(name string) int {
	return slices.Index(t.Columns, name)
}

// Cell returns the value at (row, column name), or "" when the column
// does not exist.
func (t *Table) Cell(row int, name string) string {
	idx := t.ColumnIndex(name)
	if idx < 0 || idx >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][idx]
}

// Rename renames every column called old to new.
func (t *Table) Rename(old, new string) {
	for i, c := range t.Columns {
		if c == old {
			t.Columns[i] = new
		}
	}
}

// Select projects the table down to the named columns, in order,
// silently skipping names the table does not have.
func (t *Table) Select(names ...string) *Table {
	var keep []int
	var columns []string
	for _, name := range names {
		idx := t.ColumnIndex(name)
		if idx < 0 {
			continue
		}
		keep = append(keep, idx)
		columns = append(columns, name)
	}

	out := New(columns...)
	for _, row := range t.Rows {
		projected := make([]string, len(keep))
		for i, idx := range keep {
			projected[i] = row[idx]
		}
		out.Rows = append(out.Rows, projected)
	}
	return out
}

// AddConstant appends a column holding the same value in every row.
func (t *Table) AddConstant(name, value string) {
	t.Columns = append(t.Columns, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], value)
	}
}

// LeftJoin joins on the named key column, projecting only the listed
// right-side columns onto the result. Every left row is kept: rows
// with no match get empty cells, rows matching several right rows fan
// out into one output row per match.
func (t *Table) LeftJoin(right *Table, key string, project ...string) (*Table, error) {
	leftKey := t.ColumnIndex(key)
	if leftKey < 0 {
		return nil, fmt.Errorf("left table has no column %q", key)
	}
	rightKey := right.ColumnIndex(key)
	if rightKey < 0 {
		return nil, fmt.Errorf("right table has no column %q", key)
	}

	matches := map[string][][]string{}
	for _, row := range right.Rows {
		k := row[rightKey]
		matches[k] = append(matches[k], row)
	}

	out := New(append(slices.Clone(t.Columns), project...)...)
	empty := make([]string, len(project))
	for _, row := range t.Rows {
		group, ok := matches[row[leftKey]]
		if !ok {
			out.Rows = append(out.Rows, append(slices.Clone(row), empty...))
			continue
		}
		for _, match := range group {
			joined := slices.Clone(row)
			for _, name := range project {
				idx := right.ColumnIndex(name)
				if idx < 0 {
					joined = append(joined, "")
					continue
				}
				joined = append(joined, match[idx])
			}
			out.Rows = append(out.Rows, joined)
		}
	}
	return out, nil
}

// CollapseDuplicateColumns drops all but the first occurrence of each
// column name. The sink rejects payloads with repeated keys, so this
// runs right before upload.
func (t *Table) CollapseDuplicateColumns() *Table {
	seen := map[string]bool{}
	var keep []int
	var columns []string
	for i, c := range t.Columns {
		if seen[c] {
			continue
		}
		seen[c] = true
		keep = append(keep, i)
		columns = append(columns, c)
	}

	out := New(columns...)
	for _, row := range t.Rows {
		collapsed := make([]string, len(keep))
		for i, idx := range keep {
			collapsed[i] = row[idx]
		}
		out.Rows = append(out.Rows, collapsed)
	}
	return out
}

// Records renders each row as a column-keyed map, the shape the upload
// sink serializes.
func (t *Table) Records() []map[string]string {
	records := make([]map[string]string, len(t.Rows))
	for i, row := range t.Rows {
		record := make(map[string]string, len(t.Columns))
		for j, c := range t.Columns {
			record[c] = row[j]
		}
		records[i] = record
	}
	return records
}

// ReadCSV loads a table from a CSV file, first record as header. Blank
// cells load as empty strings.
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv %s has no header", path)
	}

	out := New(records[0]...)
	for _, record := range records[1:] {
		out.Append(record)
	}
	return out, nil
}

// WriteCSV writes the table to path, header first.
func (t *Table) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	err = w.Write(t.Columns)
	if err != nil {
		return err
	}
	err = w.WriteAll(t.Rows)
	if err != nil {
		return err
	}
	return f.Close()
}

package tabular

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLeftJoinKeepsAllLeftRows(t *testing.T) {
	scrape := New("assignment_id", "Email")
	scrape.Append([]string{"42", "foo@x.com"})
	scrape.Append([]string{"43", "bar@x.com"})

	metadata := New("assignment_id", "title")
	metadata.Append([]string{"43", "Week 3 Essay"})

	joined, err := scrape.LeftJoin(metadata, "assignment_id", "title")
	if err != nil {
		t.Fatal(err)
	}

	require.Equal(t, scrape.Len(), joined.Len())
	// assignment 42 has no metadata row: empty name, not an error
	require.Equal(t, "", joined.Cell(0, "title"))
	require.Equal(t, "Week 3 Essay", joined.Cell(1, "title"))
}

func TestLeftJoinFansOutOnDuplicateKeys(t *testing.T) {
	left := New("Email", "status")
	left.Append([]string{"dup@x.com", "reviewed"})

	right := New("Email", "Name of the college")
	right.Append([]string{"dup@x.com", "College A"})
	right.Append([]string{"dup@x.com", "College B"})

	joined, err := left.LeftJoin(right, "Email", "Name of the college")
	if err != nil {
		t.Fatal(err)
	}

	require.Equal(t, 2, joined.Len())
	require.Equal(t, "College A", joined.Cell(0, "Name of the college"))
	require.Equal(t, "College B", joined.Cell(1, "Name of the college"))
}

func TestLeftJoinMissingKeyColumn(t *testing.T) {
	left := New("a")
	right := New("b")
	_, err := left.LeftJoin(right, "b")
	require.Error(t, err)
	_, err = left.LeftJoin(right, "a")
	require.Error(t, err)
}

func TestSelectDropsAbsentColumnsSilently(t *testing.T) {
	table := New("id", "Email")
	table.Append([]string{"1", "foo@x.com"})

	out := table.Select("id", "college_name", "Email")
	require.Equal(t, []string{"id", "Email"}, out.Columns)
	require.Equal(t, 1, out.Len())
}

func TestRenameRenamesAllOccurrences(t *testing.T) {
	table := New("_id", "title", "_id")
	table.Rename("_id", "assignment_id")
	require.Equal(t, []string{"assignment_id", "title", "assignment_id"}, table.Columns)
}

func TestCollapseDuplicateColumnsKeepsFirst(t *testing.T) {
	table := New("id", "name", "id")
	table.Append([]string{"1", "x", "9"})

	out := table.CollapseDuplicateColumns()
	require.Equal(t, []string{"id", "name"}, out.Columns)
	require.Equal(t, "1", out.Cell(0, "id"))
}

func TestCSVRoundTripPreservesEmptyCells(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	table := New("Email", "marks")
	table.Append([]string{"foo@x.com", ""})
	table.Append([]string{"", "7"})

	err := table.WriteCSV(path)
	if err != nil {
		t.Fatal(err)
	}

	loaded, err := ReadCSV(path)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, table.Columns, loaded.Columns)
	require.Equal(t, table.Rows, loaded.Rows)
}

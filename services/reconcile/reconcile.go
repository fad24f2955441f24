// Package reconcile joins the latest scrape artifact with assignment
// metadata and the student roster, writes the merged CSV, and shapes
// the result for upload.
package reconcile

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/VigyanShaala-Tech/graphy-assignment-scraper/lib/roster"
	"github.com/VigyanShaala-Tech/graphy-assignment-scraper/lib/tabular"
)

// ErrNoInput means no scrape artifact exists to merge; the scraper has
// to run first.
var ErrNoInput = errors.New("no scrape artifacts found")

// the sink table's column set. anything else is dropped before upload.
var uploadColumns = []string{
	"id",
	"assignment_id",
	"student_email",
	"student_name",
	"college_name",
	"submission_status",
	"feedback_comments",
	"submitted_at",
	"assignment_name",
}

type Options struct {
	// directory holding the scrape and metadata artifacts
	OutputDir string
	// path to the roster spreadsheet
	RosterPath string
	// where to write the merged CSV; defaults to
	// <OutputDir>/merged_assignment_submissions.csv
	MergedPath string
}

// LatestFile returns the most recently modified file matching the
// glob, or "" when nothing matches.
func LatestFile(pattern string) (string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", err
	}

	latest := ""
	var latestMod int64
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			return "", err
		}
		if latest == "" || info.ModTime().UnixNano() > latestMod {
			latest = match
			latestMod = info.ModTime().UnixNano()
		}
	}
	return latest, nil
}

// Merge builds the reconciled table: latest scrape CSV left-joined
// with assignment metadata (by assignment id) and the roster (by
// email). The merged table is persisted as a CSV artifact of its own,
// then renamed and projected down to the upload schema. Enrichment is
// best effort: unmatched keys produce empty cells, never an error.
func Merge(opts Options) (*tabular.Table, error) {
	scrapePath, err := LatestFile(filepath.Join(opts.OutputDir, "multiple_assignments_*.csv"))
	if err != nil {
		return nil, err
	}
	if scrapePath == "" {
		return nil, fmt.Errorf("%w: run the scraper first", ErrNoInput)
	}
	metadataPath, err := LatestFile(filepath.Join(opts.OutputDir, "all_assignments_metadata_*.csv"))
	if err != nil {
		return nil, err
	}

	slog.Info("merging", "scrape", scrapePath, "metadata", metadataPath, "roster", opts.RosterPath)

	scrape, err := tabular.ReadCSV(scrapePath)
	if err != nil {
		return nil, err
	}

	if metadataPath != "" {
		metadata, err := tabular.ReadCSV(metadataPath)
		if err != nil {
			return nil, err
		}
		metadata.Rename("_id", "assignment_id")
		scrape, err = scrape.LeftJoin(metadata, "assignment_id", "title")
		if err != nil {
			return nil, err
		}
		scrape.Rename("title", "assignment_name")
		slog.Info("assignments mapped", "total", metadata.Len())
	} else {
		slog.Warn("no metadata artifact found, assignment names will be unknown")
		scrape.AddConstant("assignment_name", "Unknown")
	}

	students, err := roster.Read(opts.RosterPath)
	if err != nil {
		return nil, err
	}
	merged, err := scrape.LeftJoin(
		students,
		roster.ColumnEmail,
		roster.ColumnStudentName,
		roster.ColumnCollegeName,
	)
	if err != nil {
		return nil, err
	}

	mergedPath := opts.MergedPath
	if mergedPath == "" {
		mergedPath = filepath.Join(opts.OutputDir, "merged_assignment_submissions.csv")
	}
	err = merged.WriteCSV(mergedPath)
	if err != nil {
		return nil, err
	}
	slog.Info("merged artifact saved", "out", mergedPath, "rows", merged.Len())

	merged.Rename("Email", "student_email")
	merged.Rename(roster.ColumnStudentName, "student_name")
	merged.Rename(roster.ColumnCollegeName, "college_name")

	return merged.CollapseDuplicateColumns().Select(uploadColumns...), nil
}

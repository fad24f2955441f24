// Package export drives the scrape side of the pipeline: it pulls
// submissions and assignment metadata through an authenticated graphy
// client and writes timestamped CSV artifacts.
package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/VigyanShaala-Tech/graphy-assignment-scraper/lib/scrapers/graphy"
)

const timestampLayout = "20060102_150405"

var submissionHeader = []string{
	"assignment_id", "id", "student_id", "Email", "student_name",
	"course_id", "mentor_id", "cohort_code",
	"submission_status", "marks", "feedback_comments",
	"submitted_at", "file_name", "assignment_file",
}

var metadataHeader = []string{
	"_id", "title", "courseId", "courseTitle", "courseAssetType",
	"createdAt", "updatedAt",
	"createdById", "createdByName", "createdByEmail",
	"reviewed", "rejected", "underReview",
}

// Exporter owns one scrape run: a logged-in client, the artifact
// directory and the run timestamp stamped into every filename.
type Exporter struct {
	client    *graphy.Client
	outputDir string
	timestamp string
}

func NewExporter(client *graphy.Client, outputDir string) (*Exporter, error) {
	err := os.MkdirAll(outputDir, 0o755)
	if err != nil {
		return nil, err
	}
	return &Exporter{
		client:    client,
		outputDir: outputDir,
		timestamp: time.Now().Format(timestampLayout),
	}, nil
}

// scrapeInto drives pagination for one assignment, flattening and
// appending rows page by page. The writer is flushed after every page
// so a crash mid-run leaves a valid, truncated CSV behind; a write
// failure stops the drain instead of fetching pages it cannot keep.
func (e *Exporter) scrapeInto(ctx context.Context, w *csv.Writer, assignmentId string) error {
	var writeErr error
	e.client.Submissions(ctx, assignmentId, func(items []graphy.SubmissionItem) bool {
		for _, item := range items {
			for _, row := range graphy.Flatten(item, assignmentId) {
				if err := w.Write(row.Record()); err != nil {
					writeErr = err
					return false
				}
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			writeErr = err
			return false
		}
		return true
	})
	return writeErr
}

// ScrapeOne exports every submission of a single assignment to
// assignment_{id}_{timestamp}.csv and returns the artifact path.
func (e *Exporter) ScrapeOne(ctx context.Context, assignmentId string) (string, error) {
	path := filepath.Join(e.outputDir, fmt.Sprintf("assignment_%s_%s.csv", assignmentId, e.timestamp))
	slog.InfoContext(ctx, "scraping submissions", "assignment", assignmentId, "out", path)

	err := e.writeSubmissions(ctx, path, []string{assignmentId})
	if err != nil {
		return "", err
	}
	return path, nil
}

// ScrapeMany exports the submissions of several assignments into one
// multiple_assignments_{timestamp}.csv artifact.
func (e *Exporter) ScrapeMany(ctx context.Context, assignmentIds []string) (string, error) {
	path := filepath.Join(e.outputDir, fmt.Sprintf("multiple_assignments_%s.csv", e.timestamp))
	slog.InfoContext(ctx, "scraping submissions", "assignments", len(assignmentIds), "out", path)

	err := e.writeSubmissions(ctx, path, assignmentIds)
	if err != nil {
		return "", err
	}
	return path, nil
}

func (e *Exporter) writeSubmissions(ctx context.Context, path string, assignmentIds []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	err = w.Write(submissionHeader)
	if err != nil {
		return err
	}

	for _, id := range assignmentIds {
		err = e.scrapeInto(ctx, w, id)
		if err != nil {
			return err
		}
		slog.InfoContext(ctx, "finished assignment", "assignment", id)
	}
	return f.Close()
}

// ExportMetadata drains the course assets endpoint and writes one
// metadata CSV row per assignment, plus the raw payload as JSON for
// debugging. Only the first course an assignment belongs to is kept.
func (e *Exporter) ExportMetadata(ctx context.Context) (string, error) {
	assets := e.client.FetchAllAssignments(ctx)

	rawPath := filepath.Join(e.outputDir, fmt.Sprintf("all_assignments_metadata_%s.json", e.timestamp))
	raw, err := json.MarshalIndent(assets, "", "  ")
	if err == nil {
		err = os.WriteFile(rawPath, raw, 0o644)
	}
	if err != nil {
		slog.WarnContext(ctx, "write raw metadata json", "err", err)
	}

	path := filepath.Join(e.outputDir, fmt.Sprintf("all_assignments_metadata_%s.csv", e.timestamp))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	err = w.Write(metadataHeader)
	if err != nil {
		return "", err
	}
	for _, asset := range assets {
		courseId, courseTitle := asset.FirstCourse()
		err = w.Write([]string{
			asset.Id,
			asset.Resource.Title,
			courseId,
			courseTitle,
			asset.Resource.AssetType,
			asset.CreatedDate.String(),
			asset.ModifiedDate.String(),
			asset.CreatedBy.Id,
			asset.CreatedBy.Name,
			asset.CreatedBy.Email,
			orZero(asset.ReviewCount.Reviewed),
			orZero(asset.ReviewCount.Rejected),
			orZero(asset.ReviewCount.UnderReview),
		})
		if err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	slog.InfoContext(ctx, "assignment metadata saved", "out", path, "count", len(assets))
	return path, f.Close()
}

// review tallies default to 0, not blank, matching the export schema.
func orZero(s graphy.Scalar) string {
	if s == "" {
		return "0"
	}
	return string(s)
}

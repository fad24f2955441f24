package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/VigyanShaala-Tech/graphy-assignment-scraper/lib/scrapers/graphy"
	"github.com/VigyanShaala-Tech/graphy-assignment-scraper/lib/tabular"
	"github.com/VigyanShaala-Tech/graphy-assignment-scraper/lib/telemetry"

	"github.com/stretchr/testify/require"
)

// two full pages of submissions per assignment, then an empty one.
// every item carries two attempts.
func newFakeTenant(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /s/assignments/{id}/submissions", func(w http.ResponseWriter, r *http.Request) {
		start, err := strconv.Atoi(r.URL.Query().Get("start"))
		if err != nil {
			t.Error(err)
		}
		items := []graphy.SubmissionItem{}
		if start < 2*graphy.SubmissionPageSize {
			for i := 0; i < graphy.SubmissionPageSize; i++ {
				items = append(items, graphy.SubmissionItem{
					Id:   fmt.Sprintf("%s-s%d", r.PathValue("id"), start+i),
					User: graphy.User{Email: "vigyanshaalainternational1617-foo@x.com"},
					Attempts: []graphy.SubmissionAttempt{
						{Status: "rejected", AdminId: "m1"},
						{Status: "underreview", AdminId: "m2"},
					},
				})
			}
		}
		err = json.NewEncoder(w).Encode(map[string]any{"data": items})
		if err != nil {
			t.Error(err)
		}
	})
	mux.HandleFunc("GET /s/courseassets", func(w http.ResponseWriter, r *http.Request) {
		start, _ := strconv.Atoi(r.URL.Query().Get("start"))
		assets := []map[string]any{}
		if start == 0 {
			assets = append(assets, map[string]any{
				"_id": "A1",
				"spayee:resource": map[string]any{
					"spayee:title":           "Week 1 Reflection",
					"spayee:courseAssetType": "assignment",
				},
				"courses": []map[string]any{
					{"_id": "c1", "spayee:resource": map[string]any{"spayee:title": "Kalpana"}},
					{"_id": "c2", "spayee:resource": map[string]any{"spayee:title": "Ignored"}},
				},
				"createdBy":   map[string]any{"_id": "adm", "fname": "Admin", "email": "a@x.com"},
				"reviewCount": map[string]any{"reviewed": 4, "rejected": 1},
			})
		}
		err := json.NewEncoder(w).Encode(map[string]any{"data": assets})
		if err != nil {
			t.Error(err)
		}
	})
	return httptest.NewServer(mux)
}

func TestScrapeManyWritesOneRowPerAttempt(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:services/export")
	defer cleanup()

	server := newFakeTenant(t)
	defer server.Close()

	client, err := graphy.NewClient(graphy.ClientOptions{BaseUrl: server.URL})
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	exporter, err := NewExporter(client, dir)
	if err != nil {
		t.Fatal(err)
	}

	path, err := exporter.ScrapeMany(context.Background(), []string{"A1", "A2"})
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, filepath.Join(dir, "multiple_assignments_"+exporter.timestamp+".csv"), path)

	table, err := tabular.ReadCSV(path)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, submissionHeader, table.Columns)
	// 2 assignments x 2 pages x page size items x 2 attempts
	require.Equal(t, 2*2*graphy.SubmissionPageSize*2, table.Len())

	require.Equal(t, "A1", table.Cell(0, "assignment_id"))
	require.Equal(t, "foo@x.com", table.Cell(0, "Email"))
	require.Equal(t, "m2", table.Cell(0, "mentor_id"))
	require.Equal(t, "", table.Cell(0, "cohort_code"))
}

type brokenWriter struct{}

func (brokenWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestScrapeStopsFetchingAfterWriteFailure(t *testing.T) {
	requests := 0
	mux := http.NewServeMux()
	mux.HandleFunc("GET /s/assignments/{id}/submissions", func(w http.ResponseWriter, r *http.Request) {
		requests++
		items := make([]graphy.SubmissionItem, graphy.SubmissionPageSize)
		for i := range items {
			items[i] = graphy.SubmissionItem{
				Id:       fmt.Sprintf("s%d", i),
				Attempts: []graphy.SubmissionAttempt{{Status: "underreview"}},
			}
		}
		err := json.NewEncoder(w).Encode(map[string]any{"data": items})
		if err != nil {
			t.Error(err)
		}
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := graphy.NewClient(graphy.ClientOptions{BaseUrl: server.URL})
	if err != nil {
		t.Fatal(err)
	}

	exporter, err := NewExporter(client, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	err = exporter.scrapeInto(context.Background(), csv.NewWriter(brokenWriter{}), "A1")
	require.ErrorContains(t, err, "disk full")
	// the first page already failed to land on disk, so no further
	// pages are requested
	require.Equal(t, 1, requests)
}

func TestScrapeOneArtifactName(t *testing.T) {
	server := newFakeTenant(t)
	defer server.Close()

	client, err := graphy.NewClient(graphy.ClientOptions{BaseUrl: server.URL})
	if err != nil {
		t.Fatal(err)
	}

	exporter, err := NewExporter(client, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	path, err := exporter.ScrapeOne(context.Background(), "A7")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "assignment_A7_"+exporter.timestamp+".csv", filepath.Base(path))
}

func TestExportMetadata(t *testing.T) {
	server := newFakeTenant(t)
	defer server.Close()

	client, err := graphy.NewClient(graphy.ClientOptions{BaseUrl: server.URL})
	if err != nil {
		t.Fatal(err)
	}

	exporter, err := NewExporter(client, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	path, err := exporter.ExportMetadata(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	table, err := tabular.ReadCSV(path)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, metadataHeader, table.Columns)
	require.Equal(t, 1, table.Len())
	require.Equal(t, "Week 1 Reflection", table.Cell(0, "title"))
	// only the first nested course is exported
	require.Equal(t, "c1", table.Cell(0, "courseId"))
	require.Equal(t, "Kalpana", table.Cell(0, "courseTitle"))
	require.Equal(t, "4", table.Cell(0, "reviewed"))
	// missing tallies default to zero
	require.Equal(t, "0", table.Cell(0, "underReview"))
}

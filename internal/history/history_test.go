package history

import (
	"context"
	"testing"
	"time"

	"github.com/hasu-dev/linkscan/internal/model"
)

// sampleReport creates a report with two sources and three link records.
func sampleReport() *model.Report {
	report := model.NewReport()
	report.Elapsed = 1500 * time.Millisecond
	report.AddSource(model.SourceResult{
		Source: "http://one.test",
		Links: []model.LinkRecord{
			{URL: "http://a.test", Status: 200},
			{URL: "http://b.test", Status: model.StatusUnreachable},
		},
	})
	report.AddSource(model.SourceResult{
		Source: "http://two.test",
		Links: []model.LinkRecord{
			{URL: "http://a.test", Status: 200},
		},
	})
	return report
}

// TestOpen tests database creation behavior.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database with default options", func(t *testing.T) {
		t.Parallel()

		db, err := Open(t.TempDir(), DefaultOptions())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer db.Close()
	})

	t.Run("read-only open fails without database", func(t *testing.T) {
		t.Parallel()

		if _, err := Open(t.TempDir(), ReadOnlyOptions()); err == nil {
			t.Error("expected error opening missing database read-only")
		}
	})
}

// TestSaveReport tests saving and listing scan runs.
func TestSaveReport(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()

	db, err := Open(dir, DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	scanID, err := db.SaveReport(ctx, sampleReport())
	if err != nil {
		t.Fatalf("failed to save report: %v", err)
	}
	if scanID <= 0 {
		t.Errorf("expected positive scan id, got %d", scanID)
	}

	t.Run("recent scans lists the run with counts", func(t *testing.T) {
		scans, err := db.RecentScans(ctx, 10)
		if err != nil {
			t.Fatalf("failed to list scans: %v", err)
		}
		if len(scans) != 1 {
			t.Fatalf("expected 1 scan, got %d", len(scans))
		}

		s := scans[0]
		if s.Sources != 2 {
			t.Errorf("expected 2 sources, got %d", s.Sources)
		}
		if s.Links != 3 {
			t.Errorf("expected 3 links, got %d", s.Links)
		}
		if s.Unreachable != 1 {
			t.Errorf("expected 1 unreachable link, got %d", s.Unreachable)
		}
		if s.Elapsed != 1500*time.Millisecond {
			t.Errorf("expected elapsed 1.5s, got %v", s.Elapsed)
		}
	})

	t.Run("link history returns records newest first", func(t *testing.T) {
		records, err := db.LinkHistory(ctx, "http://a.test", 10)
		if err != nil {
			t.Fatalf("failed to query link history: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("expected 2 records for http://a.test, got %d", len(records))
		}
		for _, rec := range records {
			if rec.Status != 200 {
				t.Errorf("expected status 200, got %d", rec.Status)
			}
		}
	})

	t.Run("limit bounds recent scans", func(t *testing.T) {
		if _, err := db.SaveReport(ctx, sampleReport()); err != nil {
			t.Fatalf("failed to save second report: %v", err)
		}

		scans, err := db.RecentScans(ctx, 1)
		if err != nil {
			t.Fatalf("failed to list scans: %v", err)
		}
		if len(scans) != 1 {
			t.Errorf("expected limit to cap results at 1, got %d", len(scans))
		}
	})
}

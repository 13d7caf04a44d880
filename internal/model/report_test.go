package model

import "testing"

// TestLinkRecordReachable tests the sentinel status handling.
func TestLinkRecordReachable(t *testing.T) {
	t.Parallel()

	t.Run("real status is reachable", func(t *testing.T) {
		t.Parallel()

		rec := LinkRecord{URL: "http://example.test", Status: 200}
		if !rec.Reachable() {
			t.Error("expected status 200 to be reachable")
		}
	})

	t.Run("redirect status is reachable", func(t *testing.T) {
		t.Parallel()

		rec := LinkRecord{URL: "http://example.test", Status: 301}
		if !rec.Reachable() {
			t.Error("expected status 301 to be reachable")
		}
	})

	t.Run("sentinel status is unreachable", func(t *testing.T) {
		t.Parallel()

		rec := LinkRecord{URL: "http://example.test", Status: StatusUnreachable}
		if rec.Reachable() {
			t.Error("expected sentinel status to be unreachable")
		}
	})
}

// TestReportCounters tests the aggregate counting helpers.
func TestReportCounters(t *testing.T) {
	t.Parallel()

	report := NewReport()
	report.AddSource(SourceResult{
		Source: "http://one.test",
		Links: []LinkRecord{
			{URL: "http://a.test", Status: 200},
			{URL: "http://b.test", Status: StatusUnreachable},
			{URL: "http://a.test", Status: 200}, // duplicates are preserved
		},
	})
	report.AddSource(SourceResult{
		Source:      "http://two.test",
		Links:       []LinkRecord{},
		FetchFailed: true,
		FetchError:  "connection refused",
	})

	if got := report.TotalLinks(); got != 3 {
		t.Errorf("expected 3 total links, got %d", got)
	}
	if got := report.UnreachableLinks(); got != 1 {
		t.Errorf("expected 1 unreachable link, got %d", got)
	}
	if got := report.FailedSources(); got != 1 {
		t.Errorf("expected 1 failed source, got %d", got)
	}

	if report.ScannedAt.IsZero() {
		t.Error("expected ScannedAt to be set by NewReport")
	}
}

// TestReportSourceOrder verifies that sources keep input order.
func TestReportSourceOrder(t *testing.T) {
	t.Parallel()

	report := NewReport()
	urls := []string{"http://c.test", "http://a.test", "http://b.test"}
	for _, u := range urls {
		report.AddSource(SourceResult{Source: u, Links: []LinkRecord{}})
	}

	for i, u := range urls {
		if report.Sources[i].Source != u {
			t.Errorf("expected source %d to be %q, got %q", i, u, report.Sources[i].Source)
		}
	}
}

package model

import "time"

// SourceResult holds the outcome of scanning one source page.
//
// Design decision: a failed source fetch is recorded with an explicit
// FetchFailed marker rather than only an empty link list. An empty list
// alone cannot distinguish "page had no outbound links" from "page could
// not be fetched", and downstream consumers (JSON output, history) want
// that distinction even though the markdown table renders both the same.
type SourceResult struct {
	// Source is the source page URL as given by the caller.
	Source string `json:"source"`

	// Links are the discovered link records in document order.
	// Duplicates are preserved. Empty when the page had no qualifying
	// links or when the fetch failed.
	Links []LinkRecord `json:"links"`

	// FetchFailed is true when the source page itself could not be
	// fetched or parsed. The failure never aborts a run.
	FetchFailed bool `json:"fetch_failed,omitempty"`

	// FetchError is the failure detail when FetchFailed is set.
	FetchError string `json:"fetch_error,omitempty"`
}

// Report is the aggregate result of one scan run. Sources appear in the
// order they were given, which makes report rendering deterministic.
type Report struct {
	// ScannedAt is the time the scan started.
	ScannedAt time.Time `json:"scanned_at"`

	// Elapsed is the total wall-clock duration of the scan.
	Elapsed time.Duration `json:"elapsed"`

	// Sources holds one result per source URL, in input order.
	Sources []SourceResult `json:"sources"`
}

// NewReport creates an empty Report stamped with the current time.
func NewReport() *Report {
	return &Report{
		ScannedAt: time.Now(),
		Sources:   make([]SourceResult, 0),
	}
}

// AddSource appends a source result, preserving input order.
func (r *Report) AddSource(result SourceResult) {
	r.Sources = append(r.Sources, result)
}

// TotalLinks returns the number of link records across all sources.
func (r *Report) TotalLinks() int {
	var n int
	for _, src := range r.Sources {
		n += len(src.Links)
	}
	return n
}

// UnreachableLinks returns the number of link records whose probe could
// not be completed.
func (r *Report) UnreachableLinks() int {
	var n int
	for _, src := range r.Sources {
		for _, link := range src.Links {
			if !link.Reachable() {
				n++
			}
		}
	}
	return n
}

// FailedSources returns the number of source pages that could not be
// fetched.
func (r *Report) FailedSources() int {
	var n int
	for _, src := range r.Sources {
		if src.FetchFailed {
			n++
		}
	}
	return n
}

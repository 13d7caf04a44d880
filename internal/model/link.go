package model

// StatusUnreachable is the sentinel status recorded when a request could
// not be completed at all: connection refused, DNS failure, timeout, or a
// malformed response. Real HTTP status codes are always positive, so zero
// is unambiguous in reports.
const StatusUnreachable = 0

// LinkRecord is one outbound link discovered on a source page together
// with the HTTP status its probe returned.
//
// Design decision: the target URL is stored exactly as it appeared in the
// href attribute. We do not normalize schemes, resolve relative paths, or
// deduplicate, because the report should reflect what the page actually
// contains.
type LinkRecord struct {
	// URL is the link target as written in the page.
	URL string `json:"url"`

	// Status is the HTTP status code reported by the target server, or
	// StatusUnreachable if the request could not be completed. Redirect
	// codes are reported literally; redirects are never followed.
	Status int `json:"status"`
}

// Reachable reports whether the probe completed with a real HTTP status.
func (r LinkRecord) Reachable() bool {
	return r.Status != StatusUnreachable
}

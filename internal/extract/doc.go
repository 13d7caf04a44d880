// Package extract fetches source pages, parses their HTML for anchor
// targets, and probes each discovered absolute http(s) link. Results are
// aggregated per source page in input order; failures are recorded, never
// raised.
package extract

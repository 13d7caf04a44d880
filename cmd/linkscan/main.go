// Package main provides the entry point for the linkscan CLI.
//
// linkscan fetches seed web pages, extracts their outbound hyperlinks,
// probes each link's HTTP status, and writes a markdown table report.
//
// Usage:
//
//	linkscan scan [urls...] [output]
//	linkscan history
//
// See --help for all available options.
package main

// main is the entry point for linkscan.
func main() {
	Execute()
}

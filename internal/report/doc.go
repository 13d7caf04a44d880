// Package report renders scan results in various output formats.
//
// Supported formats:
//   - Markdown: the pipe-delimited link table (default file output)
//   - JSON: machine-readable output for tool integration
package report

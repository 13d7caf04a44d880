// Package log provides logging with automatic sanitization of sensitive
// request attributes, built on the standard slog package.
//
// Site configurations may carry cookies and authorization headers for
// scanning pages behind authentication. Verbose scan logging records
// request details, so the handler masks those values before they reach
// the output, even in debug mode.
package log

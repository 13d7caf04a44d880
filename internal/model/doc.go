// Package model defines the data structures shared across the linkscan
// pipeline: link records, per-source results, and the aggregate report.
package model

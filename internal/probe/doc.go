// Package probe performs single-shot HTTP status checks against link
// targets. A probe never fails: transport-level errors collapse into the
// sentinel status zero so a scan always runs to completion.
package probe

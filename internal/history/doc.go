// Package history provides SQLite-backed storage of past scan runs so
// link status can be compared across invocations.
package history

// Package session caches the most recent comparison result of each session.
//
// A session is identified by an opaque id, usually sent by HTTP clients in the
// X-Session-ID header. Only the latest result is kept: saving a new result
// replaces the previous one.
//
// # Backends
//
//   - MemoryStore: process-local map, lost on restart.
//   - DatabaseStore: gorm table session_results, one row per result table, so a
//     reopened session shows its previous results after a restart.
//
// Use New to pick a backend from Config.
package session

// Package store provides SQLite-backed durable storage for normalization runs.
//
// The store is an append-only log with one table, runs. Each row records a
// single normalization of one source file: the program identity, its
// canonical digest, issue counts, and the issues themselves.
//
// # Ordering
//
// Runs are ordered by seq, an autoincrement logical clock, never by wall
// time. Queries end with ORDER BY seq ASC so listings are stable across
// reopen.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Digests are computed by ir.Digest; issues are stored as canonical JSON.
package store

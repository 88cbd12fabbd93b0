// Package store provides a SQLite-backed cache of rendered formulas.
//
// Entries are keyed by (formula ID, catalog fingerprint). The formula ID is
// the content hash of the canonical tree and the fingerprint is the content
// hash of the catalog that rendered it, so a changed catalog never serves
// stale output. Purge drops entries rendered under other fingerprints.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Ordering uses the seq column (insertion counter), never wall time.
package store

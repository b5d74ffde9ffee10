// Package archive provides SQLite-backed durable storage for encoded
// stencil instantiations.
//
// Revisions are content-addressed: the hex SHA-256 digest of the stored
// bytes is the lookup key, and archiving the same bytes twice returns
// the revision that already owns the digest. Stored bytes come back bit
// for bit, so a retrieved revision decodes exactly like the file that
// was put in.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
//
// All listing queries order by created_at and then by id with binary
// collation, so results are stable across runs.
package archive

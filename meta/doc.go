// Package meta holds the per-compilation-unit symbol table: access-ID
// allocation, name and literal tables, field classification sets, the
// field-versioning table, stencil description statements and global-variable
// values.
//
// One StencilMetaInfo belongs to exactly one instantiation; ID namespaces of
// distinct units are disjoint and tables are never shared across units. All
// operations are single-threaded; the owning pipeline stage serializes
// access. Symbol names are NFC-normalized at the table boundary so that
// equal-looking names from different front-ends land on the same entry.
package meta

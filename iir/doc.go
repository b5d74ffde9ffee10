// Package iir is the lowered internal representation a stencil compilation
// unit is optimized and code-generated from: per-statement access maps with
// spatial extents, the DoMethod → Stage → MultiStage → Stencil → IR
// containment tree, and the StencilInstantiation bundle pairing one IR root
// with its symbol table.
//
// Construction is purely additive; nodes are appended and receive fresh IDs
// from the owning instantiation's per-kind allocators. Validate re-checks
// the domain invariants after the fact, so a caller may decode and inspect a
// damaged unit instead of failing fast. One instantiation has exactly one
// logical owner at a time; nothing in this package locks.
package iir

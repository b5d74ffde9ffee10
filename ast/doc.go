// Package ast holds the high-level intermediate representation of a stencil
// program: the statement/expression tree produced by a DSL front-end, plus
// the source locations, typed values, vertical intervals and per-stencil
// containers that travel with it.
//
// The package contains type definitions and pure functions only. All other
// packages in this module import ast; ast imports nothing from the module.
// This keeps the tree the foundational layer with no circular dependencies.
//
// Node ownership is exclusive: every statement and expression has exactly one
// parent, the tree is acyclic, and traversal follows declared child order.
// The Stmt and Expr interfaces are sealed: the set of variants is closed,
// and code switching over them treats an unknown variant as a programming
// error, not a runtime condition.
//
// Source locations are diagnostic only. Equal and Fingerprint ignore them;
// EqualWithLocations compares them when a caller explicitly asks.
package ast

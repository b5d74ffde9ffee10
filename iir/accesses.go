package iir

import (
	"sort"
	"strconv"
	"strings"

	"github.com/seistools/stratum/ast"
	"github.com/seistools/stratum/meta"
)

// AccessID identifies a symbolic storage location; it is allocated by the
// unit's metadata tables.
type AccessID = meta.AccessID

// Accesses records which storage locations one statement writes and reads,
// and with what spatial extents. Within each map an ID appears at most once;
// adding an ID again unions the extents, so accumulation is total and
// order-independent.
type Accesses struct {
	Writes map[AccessID]Extents
	Reads  map[AccessID]Extents
}

// NewAccesses returns an empty access record.
func NewAccesses() *Accesses {
	return &Accesses{
		Writes: map[AccessID]Extents{},
		Reads:  map[AccessID]Extents{},
	}
}

// AddWrite records a write of id with the given extents, unioning with any
// extents already recorded for id.
func (a *Accesses) AddWrite(id AccessID, e Extents) {
	if prev, ok := a.Writes[id]; ok {
		e = prev.Union(e)
	}
	a.Writes[id] = e
}

// AddRead records a read of id with the given extents, unioning with any
// extents already recorded for id.
func (a *Accesses) AddRead(id AccessID, e Extents) {
	if prev, ok := a.Reads[id]; ok {
		e = prev.Union(e)
	}
	a.Reads[id] = e
}

// WriteExtents returns the recorded write extents for id.
func (a *Accesses) WriteExtents(id AccessID) (Extents, bool) {
	e, ok := a.Writes[id]
	return e, ok
}

// ReadExtents returns the recorded read extents for id.
func (a *Accesses) ReadExtents(id AccessID) (Extents, bool) {
	e, ok := a.Reads[id]
	return e, ok
}

// IsEmpty reports whether nothing was recorded.
func (a *Accesses) IsEmpty() bool {
	return len(a.Writes) == 0 && len(a.Reads) == 0
}

// WriteIDs returns the written IDs, ascending. Sorted views keep encoding
// and dumps deterministic.
func (a *Accesses) WriteIDs() []AccessID {
	return sortedAccessIDs(a.Writes)
}

// ReadIDs returns the read IDs, ascending.
func (a *Accesses) ReadIDs() []AccessID {
	return sortedAccessIDs(a.Reads)
}

// String renders "writes{1:[(0,0),(0,0),(0,0)]} reads{...}" with IDs
// ascending.
func (a *Accesses) String() string {
	var sb strings.Builder
	sb.WriteString("writes{")
	for i, id := range a.WriteIDs() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(formatAccess(id, a.Writes[id]))
	}
	sb.WriteString("} reads{")
	for i, id := range a.ReadIDs() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(formatAccess(id, a.Reads[id]))
	}
	sb.WriteByte('}')
	return sb.String()
}

func formatAccess(id AccessID, e Extents) string {
	return strconv.FormatInt(int64(id), 10) + ":" + e.String()
}

// MergeAccesses returns a new record holding the union of both inputs,
// per-ID and per-dimension. Either input may be nil; the inputs are never
// mutated. MergeAccesses is commutative and associative.
func MergeAccesses(a, b *Accesses) *Accesses {
	out := NewAccesses()
	for _, in := range []*Accesses{a, b} {
		if in == nil {
			continue
		}
		for id, e := range in.Writes {
			out.AddWrite(id, e)
		}
		for id, e := range in.Reads {
			out.AddRead(id, e)
		}
	}
	return out
}

// SubsetOf reports whether every access of inner is covered by outer: same
// map, same ID, extents within outer's. A nil record is a subset of
// anything.
func SubsetOf(inner, outer *Accesses) bool {
	if inner == nil {
		return true
	}
	if outer == nil {
		return inner.IsEmpty()
	}
	for id, e := range inner.Writes {
		oe, ok := outer.Writes[id]
		if !ok || !e.IsSubsetOf(oe) {
			return false
		}
	}
	for id, e := range inner.Reads {
		oe, ok := outer.Reads[id]
		if !ok || !e.IsSubsetOf(oe) {
			return false
		}
	}
	return true
}

// Overlaps reports whether the two records conflict: some ID is written on
// one side and accessed on the other with extents sharing a position. Two
// read-only usages never overlap.
func Overlaps(a, b *Accesses) bool {
	if a == nil || b == nil {
		return false
	}
	return writesAgainst(a, b) || writesAgainst(b, a)
}

func writesAgainst(w, other *Accesses) bool {
	for id, e := range w.Writes {
		if oe, ok := other.Writes[id]; ok && e.Overlaps(oe) {
			return true
		}
		if oe, ok := other.Reads[id]; ok && e.Overlaps(oe) {
			return true
		}
	}
	return false
}

func sortedAccessIDs(m map[AccessID]Extents) []AccessID {
	out := make([]AccessID, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// StmtAccessPair is a leaf of the IR tree: one statement paired with the
// accesses attributable to the statement itself (caller side) and, once the
// inliner has run, to its inlined callees (callee side, nil until then).
// The pair exclusively owns its statement tree.
type StmtAccessPair struct {
	Stmt           ast.Stmt
	CallerAccesses *Accesses
	CalleeAccesses *Accesses
}

// NewStmtAccessPair pairs a statement with empty caller accesses.
func NewStmtAccessPair(stmt ast.Stmt) *StmtAccessPair {
	return &StmtAccessPair{Stmt: stmt, CallerAccesses: NewAccesses()}
}

package iir

import (
	"strings"

	"github.com/seistools/stratum/ast"
)

// LoopOrder is a multistage's vertical iteration order. The numeric codes
// are part of the wire contract: Forward=0, Backward=1, Parallel=3. Code 2
// is reserved and never valid; the codec rejects it on decode. Parallel
// asserts no vertical ordering dependency exists between k-levels.
type LoopOrder int32

const (
	LoopOrderForward  LoopOrder = 0
	LoopOrderBackward LoopOrder = 1
	LoopOrderParallel LoopOrder = 3
)

// Valid reports whether the code is one of the known orders.
func (o LoopOrder) Valid() bool {
	switch o {
	case LoopOrderForward, LoopOrderBackward, LoopOrderParallel:
		return true
	default:
		return false
	}
}

// String renders "forward", "backward" or "parallel".
func (o LoopOrder) String() string {
	switch o {
	case LoopOrderForward:
		return "forward"
	case LoopOrderBackward:
		return "backward"
	case LoopOrderParallel:
		return "parallel"
	default:
		return "loop-order(?)"
	}
}

// Attributes is the pragma-derived flag set of one stencil.
type Attributes uint32

const (
	AttrMergeStages Attributes = 1 << iota
	AttrMergeDoMethods
	AttrMergeTemporaries
	AttrNoCodegen
	AttrUseKCaches
)

var attributeNames = []struct {
	flag Attributes
	name string
}{
	{AttrMergeStages, "merge_stages"},
	{AttrMergeDoMethods, "merge_do_methods"},
	{AttrMergeTemporaries, "merge_temporaries"},
	{AttrNoCodegen, "no_codegen"},
	{AttrUseKCaches, "use_k_caches"},
}

// ParseAttribute maps a pragma name to its flag.
func ParseAttribute(name string) (Attributes, bool) {
	for _, a := range attributeNames {
		if a.name == name {
			return a.flag, true
		}
	}
	return 0, false
}

// Has reports whether every bit of flag is set.
func (a Attributes) Has(flag Attributes) bool {
	return a&flag == flag
}

// Set returns a with flag set.
func (a Attributes) Set(flag Attributes) Attributes {
	return a | flag
}

// Clear returns a with flag cleared.
func (a Attributes) Clear(flag Attributes) Attributes {
	return a &^ flag
}

// String renders the set flags in declaration order, "|"-joined, or "none".
func (a Attributes) String() string {
	var parts []string
	for _, attr := range attributeNames {
		if a.Has(attr.flag) {
			parts = append(parts, attr.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// DoMethod is an ordered sequence of statement/access pairs executed over
// one vertical sub-range.
type DoMethod struct {
	ID       int64
	Interval ast.Interval
	Pairs    []*StmtAccessPair
}

// AppendPair appends a pair, keeping sequence order.
func (d *DoMethod) AppendPair(p *StmtAccessPair) {
	d.Pairs = append(d.Pairs, p)
}

// Stage is an ordered sequence of do-methods. The container guarantees
// sequence order only; interval compatibility between sibling do-methods is
// the optimizer's concern.
type Stage struct {
	ID        int64
	DoMethods []*DoMethod
}

// AppendDoMethod appends a do-method, keeping sequence order.
func (s *Stage) AppendDoMethod(d *DoMethod) {
	s.DoMethods = append(s.DoMethods, d)
}

// MultiStage is an ordered sequence of stages under one vertical loop order.
// The order is supplied by the lowering stage from source annotations and is
// authoritative; this layer inspects it but never computes it.
type MultiStage struct {
	ID        int64
	LoopOrder LoopOrder
	Stages    []*Stage
}

// AppendStage appends a stage, keeping sequence order.
func (m *MultiStage) AppendStage(s *Stage) {
	m.Stages = append(m.Stages, s)
}

// Stencil is an ordered sequence of multistages plus the stencil's pragma
// attributes. One user-visible stencil may lower into several IR stencils.
type Stencil struct {
	ID          int64
	Attributes  Attributes
	MultiStages []*MultiStage
}

// AppendMultiStage appends a multistage, keeping sequence order.
func (s *Stencil) AppendMultiStage(m *MultiStage) {
	s.MultiStages = append(s.MultiStages, m)
}

// IR is the root of the lowered tree: the stencils of one compilation unit.
type IR struct {
	Stencils []*Stencil
}

// AppendStencil appends a stencil.
func (r *IR) AppendStencil(s *Stencil) {
	r.Stencils = append(r.Stencils, s)
}

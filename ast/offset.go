package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// NumDimensions is the number of spatial dimensions (i, j, k).
const NumDimensions = 3

// DimensionName returns "i", "j" or "k" for dimension 0, 1 or 2.
func DimensionName(dim int) string {
	switch dim {
	case 0:
		return "i"
	case 1:
		return "j"
	case 2:
		return "k"
	default:
		return fmt.Sprintf("dim%d", dim)
	}
}

// Offsets is a per-dimension index displacement relative to the nominal
// evaluation position of a statement, in (i, j, k) order.
type Offsets [NumDimensions]int

// Add returns the component-wise sum of two offset triples.
func (o Offsets) Add(other Offsets) Offsets {
	for d := 0; d < NumDimensions; d++ {
		o[d] += other[d]
	}
	return o
}

// IsZero reports whether all components are zero.
func (o Offsets) IsZero() bool {
	return o == Offsets{}
}

// String renders "[i+1,j,k-2]"-style offsets.
func (o Offsets) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for d := 0; d < NumDimensions; d++ {
		if d > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(DimensionName(d))
		if o[d] > 0 {
			sb.WriteByte('+')
			sb.WriteString(strconv.Itoa(o[d]))
		} else if o[d] < 0 {
			sb.WriteString(strconv.Itoa(o[d]))
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

// NoArgument marks an argument-map slot that performs no substitution.
const NoArgument = -1

// OffsetSpec is a sealed union describing how a field access displaces its
// evaluation position. A StaticOffset is fully resolved; a DeferredOffset is
// the unresolved template form used inside stencil-function bodies, where
// part of the displacement refers to the enclosing function's directional
// parameters and only becomes concrete when the function is instantiated.
type OffsetSpec interface {
	isOffsetSpec()
}

// StaticOffset is a fully resolved displacement.
type StaticOffset struct {
	Offsets Offsets
}

func (StaticOffset) isOffsetSpec() {}

// String renders the underlying offsets.
func (s StaticOffset) String() string {
	return s.Offsets.String()
}

// DeferredOffset is the unresolved two-phase form of a displacement.
// Offsets holds the static component. For every dimension d with
// ArgumentMap[d] != NoArgument, the displacement additionally depends on the
// enclosing stencil-function parameter with that index: once the parameter
// is bound to a concrete direction, the bound offset plus ArgumentOffset[d]
// (negated when NegateOffset is set) is added along the bound dimension.
type DeferredOffset struct {
	Offsets        Offsets
	ArgumentMap    [NumDimensions]int
	ArgumentOffset [NumDimensions]int
	NegateOffset   bool
}

func (DeferredOffset) isOffsetSpec() {}

// NewDeferredOffset returns a DeferredOffset with the given static component
// and every argument-map slot set to NoArgument. The zero value of
// DeferredOffset maps every dimension to parameter 0 and is almost never
// what a caller wants.
func NewDeferredOffset(static Offsets) DeferredOffset {
	return DeferredOffset{
		Offsets:     static,
		ArgumentMap: [NumDimensions]int{NoArgument, NoArgument, NoArgument},
	}
}

// IsResolvable reports whether no slot performs substitution, i.e. the
// deferred form is equivalent to its static component.
func (d DeferredOffset) IsResolvable() bool {
	for _, p := range d.ArgumentMap {
		if p != NoArgument {
			return false
		}
	}
	return true
}

// String renders the static part plus the pending substitutions, e.g.
// "[i+1,j,k]{j<-arg0+1}".
func (d DeferredOffset) String() string {
	var sb strings.Builder
	sb.WriteString(d.Offsets.String())
	pending := false
	for dim, p := range d.ArgumentMap {
		if p == NoArgument {
			continue
		}
		if !pending {
			sb.WriteByte('{')
			pending = true
		} else {
			sb.WriteByte(',')
		}
		sb.WriteString(DimensionName(dim))
		sb.WriteString("<-arg")
		sb.WriteString(strconv.Itoa(p))
		switch off := d.ArgumentOffset[dim]; {
		case off > 0:
			sb.WriteByte('+')
			sb.WriteString(strconv.Itoa(off))
		case off < 0:
			sb.WriteString(strconv.Itoa(off))
		}
	}
	if pending {
		sb.WriteByte('}')
	}
	if d.NegateOffset {
		sb.WriteString("(negated)")
	}
	return sb.String()
}

// ArgumentBinding is the concrete direction a stencil-function parameter was
// instantiated with: a spatial dimension plus an integer offset along it.
type ArgumentBinding struct {
	Dimension int
	Offset    int
}

// Resolve substitutes concrete argument bindings into the deferred form and
// returns the resulting static displacement. Bindings are indexed by the
// enclosing function's parameter position. Resolve is a pure function; it is
// invoked by the inlining collaborator and never mutates the receiver.
func (d DeferredOffset) Resolve(bindings []ArgumentBinding) (StaticOffset, error) {
	out := d.Offsets
	for dim := 0; dim < NumDimensions; dim++ {
		p := d.ArgumentMap[dim]
		if p == NoArgument {
			continue
		}
		if p < 0 || p >= len(bindings) {
			return StaticOffset{}, fmt.Errorf("resolve offset: argument index %d out of range (have %d bindings)", p, len(bindings))
		}
		b := bindings[p]
		if b.Dimension < 0 || b.Dimension >= NumDimensions {
			return StaticOffset{}, fmt.Errorf("resolve offset: binding %d names dimension %d", p, b.Dimension)
		}
		contribution := b.Offset + d.ArgumentOffset[dim]
		if d.NegateOffset {
			contribution = -contribution
		}
		out[b.Dimension] += contribution
	}
	return StaticOffset{Offsets: out}, nil
}

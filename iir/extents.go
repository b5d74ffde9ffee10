package iir

import (
	"fmt"
	"strings"

	"github.com/seistools/stratum/ast"
)

// Extent is how far an access reaches along one dimension relative to the
// statement's nominal position: Minus levels towards lower indices, Plus
// levels towards higher ones. A single access at offset o has extent (o, o);
// unions widen from there. The type does not constrain the signs.
type Extent struct {
	Minus int
	Plus  int
}

// Union returns the smallest extent covering both inputs. Union is total,
// commutative and associative over all integer inputs.
func (e Extent) Union(other Extent) Extent {
	return Extent{Minus: min(e.Minus, other.Minus), Plus: max(e.Plus, other.Plus)}
}

// Add composes two extents, as when an access inside an inlined callee is
// displaced by the caller's own extent.
func (e Extent) Add(other Extent) Extent {
	return Extent{Minus: e.Minus + other.Minus, Plus: e.Plus + other.Plus}
}

// IsPointwise reports whether the extent reaches nowhere: (0, 0).
func (e Extent) IsPointwise() bool {
	return e.Minus == 0 && e.Plus == 0
}

// IsSubsetOf reports whether e lies entirely within other.
func (e Extent) IsSubsetOf(other Extent) bool {
	return other.Minus <= e.Minus && e.Plus <= other.Plus
}

// Overlaps reports whether the two ranges share at least one position.
func (e Extent) Overlaps(other Extent) bool {
	return e.Minus <= other.Plus && other.Minus <= e.Plus
}

// String renders "(-1,2)".
func (e Extent) String() string {
	return fmt.Sprintf("(%d,%d)", e.Minus, e.Plus)
}

// Extents is one extent per spatial dimension, in (i, j, k) order.
type Extents [ast.NumDimensions]Extent

// PointwiseExtents is the extent of an access touching only the nominal
// position.
func PointwiseExtents() Extents {
	return Extents{}
}

// ExtentsFromOffsets is the extent of a single access at the given static
// offsets.
func ExtentsFromOffsets(o ast.Offsets) Extents {
	var out Extents
	for d := 0; d < ast.NumDimensions; d++ {
		out[d] = Extent{Minus: o[d], Plus: o[d]}
	}
	return out
}

// Union returns the per-dimension union.
func (e Extents) Union(other Extents) Extents {
	var out Extents
	for d := 0; d < ast.NumDimensions; d++ {
		out[d] = e[d].Union(other[d])
	}
	return out
}

// Add returns the per-dimension composition.
func (e Extents) Add(other Extents) Extents {
	var out Extents
	for d := 0; d < ast.NumDimensions; d++ {
		out[d] = e[d].Add(other[d])
	}
	return out
}

// IsPointwise reports whether every dimension is pointwise.
func (e Extents) IsPointwise() bool {
	return e == Extents{}
}

// IsSubsetOf reports whether every dimension of e lies within other.
func (e Extents) IsSubsetOf(other Extents) bool {
	for d := 0; d < ast.NumDimensions; d++ {
		if !e[d].IsSubsetOf(other[d]) {
			return false
		}
	}
	return true
}

// Overlaps reports whether the extents share a position in every dimension.
func (e Extents) Overlaps(other Extents) bool {
	for d := 0; d < ast.NumDimensions; d++ {
		if !e[d].Overlaps(other[d]) {
			return false
		}
	}
	return true
}

// String renders "[(-1,1),(0,0),(0,2)]".
func (e Extents) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for d := 0; d < ast.NumDimensions; d++ {
		if d > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(e[d].String())
	}
	sb.WriteByte(']')
	return sb.String()
}

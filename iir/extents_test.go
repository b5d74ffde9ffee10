package iir

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seistools/stratum/ast"
)

func TestExtentUnion(t *testing.T) {
	a := Extent{Minus: -1, Plus: 0}
	b := Extent{Minus: 0, Plus: 2}

	assert.Equal(t, Extent{Minus: -1, Plus: 2}, a.Union(b))

	// Commutative and associative over all inputs.
	c := Extent{Minus: -3, Plus: 1}
	assert.Equal(t, a.Union(b), b.Union(a))
	assert.Equal(t, a.Union(b).Union(c), a.Union(b.Union(c)))

	// Idempotent.
	assert.Equal(t, a, a.Union(a))
}

func TestExtentQueries(t *testing.T) {
	assert.True(t, Extent{}.IsPointwise())
	assert.False(t, Extent{Plus: 1}.IsPointwise())

	assert.True(t, Extent{Minus: -1, Plus: 1}.IsSubsetOf(Extent{Minus: -2, Plus: 1}))
	assert.False(t, Extent{Minus: -3, Plus: 0}.IsSubsetOf(Extent{Minus: -2, Plus: 1}))

	assert.True(t, Extent{Minus: -1, Plus: 0}.Overlaps(Extent{Minus: 0, Plus: 2}))
	assert.False(t, Extent{Minus: -2, Plus: -1}.Overlaps(Extent{Minus: 1, Plus: 2}))

	assert.Equal(t, Extent{Minus: -1, Plus: 3}, Extent{Minus: -1, Plus: 1}.Add(Extent{Minus: 0, Plus: 2}))
}

func TestExtentsFromOffsets(t *testing.T) {
	e := ExtentsFromOffsets(ast.Offsets{1, 0, -2})
	assert.Equal(t, Extents{{1, 1}, {0, 0}, {-2, -2}}, e)
	assert.False(t, e.IsPointwise())
	assert.True(t, PointwiseExtents().IsPointwise())
}

func TestExtentsOperations(t *testing.T) {
	a := ExtentsFromOffsets(ast.Offsets{1, 0, 0})
	b := ExtentsFromOffsets(ast.Offsets{-1, 0, 2})

	union := a.Union(b)
	assert.Equal(t, Extents{{-1, 1}, {0, 0}, {0, 2}}, union)
	assert.Equal(t, union, b.Union(a))

	assert.True(t, a.IsSubsetOf(union))
	assert.True(t, b.IsSubsetOf(union))
	assert.False(t, union.IsSubsetOf(a))

	// Overlap requires a shared position in every dimension.
	assert.True(t, a.Overlaps(union))
	assert.False(t, a.Overlaps(b)) // i ranges (1,1) and (-1,-1) are disjoint

	assert.Equal(t, Extents{{0, 1}, {0, 0}, {0, 2}}, a.Add(b.Union(PointwiseExtents())))
}

func TestExtentsString(t *testing.T) {
	assert.Equal(t, "[(0,0),(0,0),(0,0)]", PointwiseExtents().String())
	assert.Equal(t, "[(-1,1),(0,0),(0,2)]", Extents{{-1, 1}, {0, 0}, {0, 2}}.String())
	assert.Equal(t, "(-1,2)", Extent{Minus: -1, Plus: 2}.String())
}

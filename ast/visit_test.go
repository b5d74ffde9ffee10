package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInspectPreOrder(t *testing.T) {
	var got []string
	Inspect(sampleRegion(1), func(n Node) bool {
		switch n := n.(type) {
		case *VerticalRegionDeclStmt:
			got = append(got, "region")
		case *BlockStmt:
			got = append(got, "block")
		case *ExprStmt:
			got = append(got, "expr-stmt")
		case *AssignmentExpr:
			got = append(got, "assign")
		case *BinaryOperator:
			got = append(got, "binary")
		case *VarAccessExpr:
			got = append(got, "var:"+n.Name)
		case *FieldAccessExpr:
			got = append(got, "field:"+n.Name)
		default:
			got = append(got, "?")
		}
		return true
	})

	want := []string{
		"region", "block", "expr-stmt", "assign",
		"field:u", "binary", "var:coeff", "field:lap",
	}
	assert.Equal(t, want, got)
}

func TestInspectPrune(t *testing.T) {
	count := 0
	Inspect(sampleRegion(1), func(n Node) bool {
		count++
		_, isBinary := n.(*BinaryOperator)
		return !isBinary
	})

	// The binary operator's two children are skipped.
	assert.Equal(t, 6, count)
}

func TestInspectNil(t *testing.T) {
	assert.NotPanics(t, func() {
		Inspect(nil, func(Node) bool { return true })
	})
}

type bogusNode struct{}

func (bogusNode) Location() SourceLocation { return UnknownLocation() }

func TestVisitRejectsForeignNode(t *testing.T) {
	assert.Panics(t, func() {
		Visit(bogusNode{}, func(Node) {})
	})
}

package ast

import "fmt"

// Visit invokes visitor for every non-nil direct child of the supplied node,
// in declared child order. The switch is exhaustive over the sealed node
// sets; an unknown implementation is a programming error and panics.
func Visit(node Node, visitor func(Node)) {
	switch n := node.(type) {
	case *BlockStmt:
		for _, s := range n.Statements {
			visitor(s)
		}

	case *ExprStmt:
		if n.Expr != nil {
			visitor(n.Expr)
		}

	case *ReturnStmt:
		if n.Expr != nil {
			visitor(n.Expr)
		}

	case *VarDeclStmt:
		for _, e := range n.Init {
			visitor(e)
		}

	case *StencilCallDeclStmt:
		if n.Call != nil {
			visitor(n.Call)
		}

	case *StencilCall:

	case *VerticalRegionDeclStmt:
		if n.Body != nil {
			visitor(n.Body)
		}

	case *BoundaryConditionDeclStmt:

	case *IfStmt:
		visitor(n.Cond)
		visitor(n.Then)
		if n.Else != nil {
			visitor(n.Else)
		}

	case *UnaryOperator:
		visitor(n.Operand)

	case *BinaryOperator:
		visitor(n.Left)
		visitor(n.Right)

	case *AssignmentExpr:
		visitor(n.Left)
		visitor(n.Right)

	case *TernaryOperator:
		visitor(n.Cond)
		visitor(n.Then)
		visitor(n.Else)

	case *FunCallExpr:
		for _, a := range n.Args {
			visitor(a)
		}

	case *StencilFunCallExpr:
		for _, a := range n.Args {
			visitor(a)
		}

	case *StencilFunArgExpr:

	case *VarAccessExpr:
		if n.Index != nil {
			visitor(n.Index)
		}

	case *FieldAccessExpr:

	case *LiteralAccessExpr:

	default:
		panic(fmt.Errorf("unsupported ast node type %T", n))
	}
}

// Inspect traverses the tree rooted at node in pre-order, calling f for each
// node. If f returns false for a node, its children are skipped.
func Inspect(node Node, f func(Node) bool) {
	if node == nil {
		return
	}
	if !f(node) {
		return
	}
	Visit(node, func(child Node) {
		Inspect(child, f)
	})
}

package ast

import "fmt"

// Equal reports structural equality of two trees, ignoring source locations.
// Location-insensitive comparison is the convention throughout the module;
// use EqualWithLocations when positions matter.
func Equal(a, b Node) bool {
	return equalNode(a, b, false)
}

// EqualWithLocations reports structural equality including source locations.
func EqualWithLocations(a, b Node) bool {
	return equalNode(a, b, true)
}

func equalNode(a, b Node, withLoc bool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if withLoc && a.Location() != b.Location() {
		return false
	}

	switch an := a.(type) {
	case *BlockStmt:
		bn, ok := b.(*BlockStmt)
		return ok && equalStmts(an.Statements, bn.Statements, withLoc)

	case *ExprStmt:
		bn, ok := b.(*ExprStmt)
		return ok && equalNode(an.Expr, bn.Expr, withLoc)

	case *ReturnStmt:
		bn, ok := b.(*ReturnStmt)
		return ok && equalNode(an.Expr, bn.Expr, withLoc)

	case *VarDeclStmt:
		bn, ok := b.(*VarDeclStmt)
		return ok &&
			an.Name == bn.Name &&
			an.Kind == bn.Kind &&
			an.Dimension == bn.Dimension &&
			an.Op == bn.Op &&
			equalExprs(an.Init, bn.Init, withLoc)

	case *StencilCall:
		bn, ok := b.(*StencilCall)
		return ok && an.Callee == bn.Callee && equalStrings(an.Args, bn.Args)

	case *StencilCallDeclStmt:
		bn, ok := b.(*StencilCallDeclStmt)
		if !ok {
			return false
		}
		if an.Call == nil || bn.Call == nil {
			return an.Call == nil && bn.Call == nil
		}
		return equalNode(an.Call, bn.Call, withLoc)

	case *VerticalRegionDeclStmt:
		bn, ok := b.(*VerticalRegionDeclStmt)
		return ok &&
			an.Interval == bn.Interval &&
			an.Order == bn.Order &&
			equalNode(an.Body, bn.Body, withLoc)

	case *BoundaryConditionDeclStmt:
		bn, ok := b.(*BoundaryConditionDeclStmt)
		return ok && an.Functor == bn.Functor && equalStrings(an.Fields, bn.Fields)

	case *IfStmt:
		bn, ok := b.(*IfStmt)
		return ok &&
			equalNode(an.Cond, bn.Cond, withLoc) &&
			equalNode(an.Then, bn.Then, withLoc) &&
			equalNode(an.Else, bn.Else, withLoc)

	case *UnaryOperator:
		bn, ok := b.(*UnaryOperator)
		return ok && an.Op == bn.Op && equalNode(an.Operand, bn.Operand, withLoc)

	case *BinaryOperator:
		bn, ok := b.(*BinaryOperator)
		return ok &&
			an.Op == bn.Op &&
			equalNode(an.Left, bn.Left, withLoc) &&
			equalNode(an.Right, bn.Right, withLoc)

	case *AssignmentExpr:
		bn, ok := b.(*AssignmentExpr)
		return ok &&
			an.Op == bn.Op &&
			equalNode(an.Left, bn.Left, withLoc) &&
			equalNode(an.Right, bn.Right, withLoc)

	case *TernaryOperator:
		bn, ok := b.(*TernaryOperator)
		return ok &&
			equalNode(an.Cond, bn.Cond, withLoc) &&
			equalNode(an.Then, bn.Then, withLoc) &&
			equalNode(an.Else, bn.Else, withLoc)

	case *FunCallExpr:
		bn, ok := b.(*FunCallExpr)
		return ok && an.Callee == bn.Callee && equalExprs(an.Args, bn.Args, withLoc)

	case *StencilFunCallExpr:
		bn, ok := b.(*StencilFunCallExpr)
		return ok && an.Callee == bn.Callee && equalExprs(an.Args, bn.Args, withLoc)

	case *StencilFunArgExpr:
		bn, ok := b.(*StencilFunArgExpr)
		return ok &&
			an.Dimension == bn.Dimension &&
			an.Offset == bn.Offset &&
			an.ArgumentIndex == bn.ArgumentIndex

	case *VarAccessExpr:
		bn, ok := b.(*VarAccessExpr)
		return ok &&
			an.Name == bn.Name &&
			an.External == bn.External &&
			equalNode(an.Index, bn.Index, withLoc)

	case *FieldAccessExpr:
		bn, ok := b.(*FieldAccessExpr)
		return ok && an.Name == bn.Name && an.Offset == bn.Offset

	case *LiteralAccessExpr:
		bn, ok := b.(*LiteralAccessExpr)
		return ok && an.Value == bn.Value && an.Kind == bn.Kind

	default:
		panic(fmt.Errorf("unsupported ast node type %T", a))
	}
}

func equalStmts(a, b []Stmt, withLoc bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalNode(a[i], b[i], withLoc) {
			return false
		}
	}
	return true
}

func equalExprs(a, b []Expr, withLoc bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalNode(a[i], b[i], withLoc) {
			return false
		}
	}
	return true
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

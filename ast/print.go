package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Sprint renders a node as a single deterministic line for dumps and
// diagnostics. The rendering is stable across runs but not meant to be
// parsed back; canonical bytes for hashing come from Fingerprint.
func Sprint(node Node) string {
	var sb strings.Builder
	sprintNode(&sb, node)
	return sb.String()
}

func sprintNode(sb *strings.Builder, node Node) {
	switch n := node.(type) {
	case nil:
		sb.WriteString("<nil>")

	case *BlockStmt:
		if len(n.Statements) == 0 {
			sb.WriteString("{}")
			return
		}
		sb.WriteString("{ ")
		for i, s := range n.Statements {
			if i > 0 {
				sb.WriteString("; ")
			}
			sprintNode(sb, s)
		}
		sb.WriteString(" }")

	case *ExprStmt:
		sprintNode(sb, n.Expr)

	case *ReturnStmt:
		sb.WriteString("return ")
		sprintNode(sb, n.Expr)

	case *VarDeclStmt:
		sb.WriteString(n.Kind.String())
		sb.WriteByte(' ')
		sb.WriteString(n.Name)
		if n.Dimension > 0 {
			sb.WriteByte('[')
			sb.WriteString(strconv.Itoa(n.Dimension))
			sb.WriteByte(']')
		}
		if len(n.Init) > 0 {
			sb.WriteByte(' ')
			if n.Op != "" {
				sb.WriteString(n.Op)
			} else {
				sb.WriteByte('=')
			}
			sb.WriteByte(' ')
			for i, e := range n.Init {
				if i > 0 {
					sb.WriteString(", ")
				}
				sprintNode(sb, e)
			}
		}

	case *StencilCall:
		sb.WriteString(n.Callee)
		sb.WriteByte('(')
		sb.WriteString(strings.Join(n.Args, ","))
		sb.WriteByte(')')

	case *StencilCallDeclStmt:
		sb.WriteString("call ")
		sprintNode(sb, n.Call)

	case *VerticalRegionDeclStmt:
		sb.WriteString("vertical-region ")
		sb.WriteString(n.Interval.String())
		sb.WriteByte(' ')
		sb.WriteString(n.Order.String())
		sb.WriteByte(' ')
		sprintNode(sb, n.Body)

	case *BoundaryConditionDeclStmt:
		sb.WriteString("boundary-condition ")
		sb.WriteString(n.Functor)
		sb.WriteByte('(')
		sb.WriteString(strings.Join(n.Fields, ","))
		sb.WriteByte(')')

	case *IfStmt:
		sb.WriteString("if (")
		sprintNode(sb, n.Cond)
		sb.WriteString(") ")
		sprintNode(sb, n.Then)
		if n.Else != nil {
			sb.WriteString(" else ")
			sprintNode(sb, n.Else)
		}

	case *UnaryOperator:
		sb.WriteByte('(')
		sb.WriteString(n.Op)
		sprintNode(sb, n.Operand)
		sb.WriteByte(')')

	case *BinaryOperator:
		sb.WriteByte('(')
		sprintNode(sb, n.Left)
		sb.WriteByte(' ')
		sb.WriteString(n.Op)
		sb.WriteByte(' ')
		sprintNode(sb, n.Right)
		sb.WriteByte(')')

	case *AssignmentExpr:
		sprintNode(sb, n.Left)
		sb.WriteByte(' ')
		sb.WriteString(n.Op)
		sb.WriteByte(' ')
		sprintNode(sb, n.Right)

	case *TernaryOperator:
		sb.WriteByte('(')
		sprintNode(sb, n.Cond)
		sb.WriteString(" ? ")
		sprintNode(sb, n.Then)
		sb.WriteString(" : ")
		sprintNode(sb, n.Else)
		sb.WriteByte(')')

	case *FunCallExpr:
		sprintCall(sb, n.Callee, n.Args)

	case *StencilFunCallExpr:
		sprintCall(sb, n.Callee, n.Args)

	case *StencilFunArgExpr:
		if n.ArgumentIndex != NoArgument {
			fmt.Fprintf(sb, "arg(%d)", n.ArgumentIndex)
			if n.Offset != 0 {
				fmt.Fprintf(sb, "%+d", n.Offset)
			}
			return
		}
		sb.WriteString(DimensionName(n.Dimension))
		if n.Offset != 0 {
			fmt.Fprintf(sb, "%+d", n.Offset)
		}

	case *VarAccessExpr:
		if n.External {
			sb.WriteString("::")
		}
		sb.WriteString(n.Name)
		if n.Index != nil {
			sb.WriteByte('[')
			sprintNode(sb, n.Index)
			sb.WriteByte(']')
		}

	case *FieldAccessExpr:
		sb.WriteString(n.Name)
		switch off := n.Offset.(type) {
		case nil:
			sb.WriteString("[?]")
		case StaticOffset:
			sb.WriteString(off.String())
		case DeferredOffset:
			sb.WriteString(off.String())
		}

	case *LiteralAccessExpr:
		sb.WriteString(n.Value)

	default:
		panic(fmt.Errorf("unsupported ast node type %T", n))
	}
}

func sprintCall(sb *strings.Builder, callee string, args []Expr) {
	sb.WriteString(callee)
	sb.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sprintNode(sb, a)
	}
	sb.WriteByte(')')
}

package ast

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
)

// Domain prefix for tree fingerprints. The version suffix allows the
// canonical form to migrate without colliding with old digests.
const fingerprintDomain = "stratum/ast/v1"

// Fingerprint returns a hex SHA-256 digest of the node's canonical form.
// The canonical form covers every semantic field (node kind, names,
// operators, offsets, value kinds) and excludes source locations, so two
// trees compare equal under Equal exactly when their fingerprints match.
func Fingerprint(node Node) string {
	var buf bytes.Buffer
	canonicalNode(&buf, node)

	h := sha256.New()
	h.Write([]byte(fingerprintDomain))
	h.Write([]byte{0x00})
	h.Write(buf.Bytes())
	return hex.EncodeToString(h.Sum(nil))
}

// canonicalNode writes an unambiguous s-expression for the node. Strings are
// length-prefixed so that name boundaries cannot alias; child order follows
// declared order.
func canonicalNode(buf *bytes.Buffer, node Node) {
	switch n := node.(type) {
	case nil:
		buf.WriteString("_")

	case *BlockStmt:
		open(buf, "block")
		for _, s := range n.Statements {
			canonicalNode(buf, s)
		}
		closeTag(buf)

	case *ExprStmt:
		open(buf, "expr-stmt")
		canonicalNode(buf, n.Expr)
		closeTag(buf)

	case *ReturnStmt:
		open(buf, "return")
		canonicalNode(buf, n.Expr)
		closeTag(buf)

	case *VarDeclStmt:
		open(buf, "var-decl")
		str(buf, n.Name)
		num(buf, int64(n.Kind))
		num(buf, int64(n.Dimension))
		str(buf, n.Op)
		for _, e := range n.Init {
			canonicalNode(buf, e)
		}
		closeTag(buf)

	case *StencilCall:
		open(buf, "stencil-call")
		str(buf, n.Callee)
		for _, a := range n.Args {
			str(buf, a)
		}
		closeTag(buf)

	case *StencilCallDeclStmt:
		open(buf, "stencil-call-decl")
		if n.Call != nil {
			canonicalNode(buf, n.Call)
		}
		closeTag(buf)

	case *VerticalRegionDeclStmt:
		open(buf, "vertical-region")
		canonicalBound(buf, n.Interval.Lower)
		canonicalBound(buf, n.Interval.Upper)
		num(buf, int64(n.Order))
		canonicalNode(buf, n.Body)
		closeTag(buf)

	case *BoundaryConditionDeclStmt:
		open(buf, "boundary-condition")
		str(buf, n.Functor)
		for _, f := range n.Fields {
			str(buf, f)
		}
		closeTag(buf)

	case *IfStmt:
		open(buf, "if")
		canonicalNode(buf, n.Cond)
		canonicalNode(buf, n.Then)
		canonicalNode(buf, n.Else)
		closeTag(buf)

	case *UnaryOperator:
		open(buf, "unary")
		str(buf, n.Op)
		canonicalNode(buf, n.Operand)
		closeTag(buf)

	case *BinaryOperator:
		open(buf, "binary")
		str(buf, n.Op)
		canonicalNode(buf, n.Left)
		canonicalNode(buf, n.Right)
		closeTag(buf)

	case *AssignmentExpr:
		open(buf, "assign")
		str(buf, n.Op)
		canonicalNode(buf, n.Left)
		canonicalNode(buf, n.Right)
		closeTag(buf)

	case *TernaryOperator:
		open(buf, "ternary")
		canonicalNode(buf, n.Cond)
		canonicalNode(buf, n.Then)
		canonicalNode(buf, n.Else)
		closeTag(buf)

	case *FunCallExpr:
		open(buf, "fun-call")
		str(buf, n.Callee)
		for _, a := range n.Args {
			canonicalNode(buf, a)
		}
		closeTag(buf)

	case *StencilFunCallExpr:
		open(buf, "stencil-fun-call")
		str(buf, n.Callee)
		for _, a := range n.Args {
			canonicalNode(buf, a)
		}
		closeTag(buf)

	case *StencilFunArgExpr:
		open(buf, "stencil-fun-arg")
		num(buf, int64(n.Dimension))
		num(buf, int64(n.Offset))
		num(buf, int64(n.ArgumentIndex))
		closeTag(buf)

	case *VarAccessExpr:
		open(buf, "var-access")
		str(buf, n.Name)
		boolean(buf, n.External)
		canonicalNode(buf, n.Index)
		closeTag(buf)

	case *FieldAccessExpr:
		open(buf, "field-access")
		str(buf, n.Name)
		canonicalOffset(buf, n.Offset)
		closeTag(buf)

	case *LiteralAccessExpr:
		open(buf, "literal")
		str(buf, n.Value)
		num(buf, int64(n.Kind))
		closeTag(buf)

	default:
		panic(fmt.Errorf("unsupported ast node type %T", n))
	}
}

func canonicalOffset(buf *bytes.Buffer, spec OffsetSpec) {
	switch o := spec.(type) {
	case nil:
		buf.WriteString("_")
	case StaticOffset:
		open(buf, "static")
		for _, v := range o.Offsets {
			num(buf, int64(v))
		}
		closeTag(buf)
	case DeferredOffset:
		open(buf, "deferred")
		for _, v := range o.Offsets {
			num(buf, int64(v))
		}
		for _, v := range o.ArgumentMap {
			num(buf, int64(v))
		}
		for _, v := range o.ArgumentOffset {
			num(buf, int64(v))
		}
		boolean(buf, o.NegateOffset)
		closeTag(buf)
	default:
		panic(fmt.Errorf("unsupported offset spec type %T", spec))
	}
}

func canonicalBound(buf *bytes.Buffer, b IntervalBound) {
	switch lv := b.Level.(type) {
	case nil:
		buf.WriteString("_")
	case SymbolicLevel:
		open(buf, "sym")
		num(buf, int64(lv))
		num(buf, int64(b.Offset))
		closeTag(buf)
	case ConcreteLevel:
		open(buf, "lvl")
		num(buf, int64(lv))
		num(buf, int64(b.Offset))
		closeTag(buf)
	default:
		panic(fmt.Errorf("unsupported interval level type %T", b.Level))
	}
}

func open(buf *bytes.Buffer, tag string) {
	buf.WriteByte('(')
	buf.WriteString(tag)
}

func closeTag(buf *bytes.Buffer) {
	buf.WriteByte(')')
}

func str(buf *bytes.Buffer, s string) {
	buf.WriteByte(' ')
	buf.WriteString(strconv.Itoa(len(s)))
	buf.WriteByte(':')
	buf.WriteString(s)
}

func num(buf *bytes.Buffer, v int64) {
	buf.WriteByte(' ')
	buf.WriteString(strconv.FormatInt(v, 10))
}

func boolean(buf *bytes.Buffer, v bool) {
	if v {
		buf.WriteString(" t")
	} else {
		buf.WriteString(" f")
	}
}

package ast

// UnaryOperator applies a prefix operator ("+", "-", "!") to an operand.
type UnaryOperator struct {
	Loc     SourceLocation
	Op      string
	Operand Expr
}

func (*UnaryOperator) isExpr() {}

// Location implements Node.
func (e *UnaryOperator) Location() SourceLocation { return e.Loc }

// BinaryOperator applies an infix operator to two operands.
type BinaryOperator struct {
	Loc   SourceLocation
	Op    string
	Left  Expr
	Right Expr
}

func (*BinaryOperator) isExpr() {}

// Location implements Node.
func (e *BinaryOperator) Location() SourceLocation { return e.Loc }

// AssignmentExpr stores Right into the storage location named by Left.
// Op is "=" or a compound form such as "+=".
type AssignmentExpr struct {
	Loc   SourceLocation
	Op    string
	Left  Expr
	Right Expr
}

func (*AssignmentExpr) isExpr() {}

// Location implements Node.
func (e *AssignmentExpr) Location() SourceLocation { return e.Loc }

// TernaryOperator is the conditional expression "cond ? then : else".
type TernaryOperator struct {
	Loc  SourceLocation
	Cond Expr
	Then Expr
	Else Expr
}

func (*TernaryOperator) isExpr() {}

// Location implements Node.
func (e *TernaryOperator) Location() SourceLocation { return e.Loc }

// FunCallExpr calls a plain (non-stencil) function, e.g. a math builtin.
type FunCallExpr struct {
	Loc    SourceLocation
	Callee string
	Args   []Expr
}

func (*FunCallExpr) isExpr() {}

// Location implements Node.
func (e *FunCallExpr) Location() SourceLocation { return e.Loc }

// StencilFunCallExpr calls a stencil function. Its arguments are field
// accesses, nested stencil-function calls, or StencilFunArgExpr direction
// and offset arguments.
type StencilFunCallExpr struct {
	Loc    SourceLocation
	Callee string
	Args   []Expr
}

func (*StencilFunCallExpr) isExpr() {}

// Location implements Node.
func (e *StencilFunCallExpr) Location() SourceLocation { return e.Loc }

// StencilFunArgExpr is a directional argument in a stencil-function call:
// either a spatial dimension, a (dimension, offset) displacement, or a
// reference to one of the enclosing function's own parameters when the
// argument is only resolvable at instantiation time. Unused slots hold
// NoArgument (for ArgumentIndex) or -1 (for Dimension).
type StencilFunArgExpr struct {
	Loc           SourceLocation
	Dimension     int
	Offset        int
	ArgumentIndex int
}

func (*StencilFunArgExpr) isExpr() {}

// Location implements Node.
func (e *StencilFunArgExpr) Location() SourceLocation { return e.Loc }

// VarAccessExpr reads or writes a variable. External marks a global
// variable access; otherwise the name binds to a local declaration. Index
// is non-nil for element accesses of array locals.
type VarAccessExpr struct {
	Loc      SourceLocation
	Name     string
	External bool
	Index    Expr
}

func (*VarAccessExpr) isExpr() {}

// Location implements Node.
func (e *VarAccessExpr) Location() SourceLocation { return e.Loc }

// FieldAccessExpr reads or writes a field at a displacement from the
// nominal evaluation position. The displacement is an OffsetSpec: static,
// or deferred until stencil-function instantiation.
type FieldAccessExpr struct {
	Loc    SourceLocation
	Name   string
	Offset OffsetSpec
}

func (*FieldAccessExpr) isExpr() {}

// Location implements Node.
func (e *FieldAccessExpr) Location() SourceLocation { return e.Loc }

// FieldAt builds a field access with a static offset.
func FieldAt(name string, offsets Offsets) *FieldAccessExpr {
	return &FieldAccessExpr{Loc: UnknownLocation(), Name: name, Offset: StaticOffset{Offsets: offsets}}
}

// StaticOffsets returns the access's offsets when the displacement is
// static, and ok=false for the deferred form.
func (e *FieldAccessExpr) StaticOffsets() (Offsets, bool) {
	if s, ok := e.Offset.(StaticOffset); ok {
		return s.Offsets, true
	}
	return Offsets{}, false
}

// LiteralAccessExpr reads a literal constant. The value is kept in source
// form; Kind declares its type.
type LiteralAccessExpr struct {
	Loc   SourceLocation
	Value string
	Kind  ValueKind
}

func (*LiteralAccessExpr) isExpr() {}

// Location implements Node.
func (e *LiteralAccessExpr) Location() SourceLocation { return e.Loc }

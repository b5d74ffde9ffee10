package ast

// Node is implemented by every statement and expression. The node sets are
// sealed: only the types in this package implement Stmt and Expr, and code
// that switches over them may treat an unmatched variant as a bug.
type Node interface {
	// Location returns the diagnostic source position of the node.
	Location() SourceLocation
}

// Stmt is the sealed interface over all statement variants.
type Stmt interface {
	Node
	isStmt()
}

// Expr is the sealed interface over all expression variants.
type Expr interface {
	Node
	isExpr()
}

// BlockStmt is a linear sequence of statements, most often the contents of a
// {} pair. A block exclusively owns its children.
type BlockStmt struct {
	Loc        SourceLocation
	Statements []Stmt
}

func (*BlockStmt) isStmt() {}

// Location implements Node.
func (s *BlockStmt) Location() SourceLocation { return s.Loc }

// NewBlockStmt builds a block from the given statements, in order.
func NewBlockStmt(stmts ...Stmt) *BlockStmt {
	return &BlockStmt{Loc: UnknownLocation(), Statements: stmts}
}

// ExprStmt evaluates an expression for its effect, e.g. an assignment.
type ExprStmt struct {
	Loc  SourceLocation
	Expr Expr
}

func (*ExprStmt) isStmt() {}

// Location implements Node.
func (s *ExprStmt) Location() SourceLocation { return s.Loc }

// ReturnStmt returns a value from a stencil-function body.
type ReturnStmt struct {
	Loc  SourceLocation
	Expr Expr
}

func (*ReturnStmt) isStmt() {}

// Location implements Node.
func (s *ReturnStmt) Location() SourceLocation { return s.Loc }

// VarDeclStmt declares a local variable, optionally with initializer
// expressions. Dimension is the array dimension (0 for scalars) and Op the
// declaration operator (usually "=").
type VarDeclStmt struct {
	Loc       SourceLocation
	Name      string
	Kind      ValueKind
	Dimension int
	Op        string
	Init      []Expr
}

func (*VarDeclStmt) isStmt() {}

// Location implements Node.
func (s *VarDeclStmt) Location() SourceLocation { return s.Loc }

// StencilCall is one frame of stencil-program control flow: a call of a
// named stencil with the field names passed as arguments. It appears both as
// the payload of StencilCallDeclStmt and as the call-stack annotation on
// metadata description statements.
type StencilCall struct {
	Loc    SourceLocation
	Callee string
	Args   []string
}

// Location returns the diagnostic source position of the call.
func (c *StencilCall) Location() SourceLocation { return c.Loc }

// StencilCallDeclStmt calls another stencil from the stencil description.
type StencilCallDeclStmt struct {
	Loc  SourceLocation
	Call *StencilCall
}

func (*StencilCallDeclStmt) isStmt() {}

// Location implements Node.
func (s *StencilCallDeclStmt) Location() SourceLocation { return s.Loc }

// VerticalRegionDeclStmt declares a vertical region: a body of statements
// executed over a vertical interval in a declared iteration order. Vertical
// regions are the unit the lowering stage turns into internal-IR stages.
type VerticalRegionDeclStmt struct {
	Loc      SourceLocation
	Interval Interval
	Order    LoopOrder
	Body     *BlockStmt
}

func (*VerticalRegionDeclStmt) isStmt() {}

// Location implements Node.
func (s *VerticalRegionDeclStmt) Location() SourceLocation { return s.Loc }

// LoopOrder is the source-declared vertical iteration order of a vertical
// region. The numeric codes are part of the wire contract.
type LoopOrder int32

const (
	LoopOrderForward  LoopOrder = 0
	LoopOrderBackward LoopOrder = 1
)

// String renders "forward" or "backward".
func (o LoopOrder) String() string {
	switch o {
	case LoopOrderForward:
		return "forward"
	case LoopOrderBackward:
		return "backward"
	default:
		return "loop-order(?)"
	}
}

// BoundaryConditionDeclStmt applies a named boundary-condition functor to a
// list of fields.
type BoundaryConditionDeclStmt struct {
	Loc     SourceLocation
	Functor string
	Fields  []string
}

func (*BoundaryConditionDeclStmt) isStmt() {}

// Location implements Node.
func (s *BoundaryConditionDeclStmt) Location() SourceLocation { return s.Loc }

// IfStmt branches the stencil description on a compile-time condition.
// Else may be nil.
type IfStmt struct {
	Loc  SourceLocation
	Cond Expr
	Then Stmt
	Else Stmt
}

func (*IfStmt) isStmt() {}

// Location implements Node.
func (s *IfStmt) Location() SourceLocation { return s.Loc }

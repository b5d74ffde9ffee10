package ast

// Program is the per-compilation-unit bundle a DSL front-end hands to the
// lowering stage: the stencils and stencil functions of one source file plus
// the unit's global variable declarations. Programs are built entirely by
// the front-end collaborator; this module never parses source text.
type Program struct {
	Filename  string
	Stencils  []*Stencil
	Functions []*StencilFunction
	Globals   map[string]GlobalValue
}

// NewProgram builds an empty program for the given source file.
func NewProgram(filename string) *Program {
	return &Program{
		Filename: filename,
		Globals:  map[string]GlobalValue{},
	}
}

// Stencil is one user-written stencil: its name, pragma attributes, declared
// fields and body as written. The body's top level mixes vertical regions
// with description statements (stencil calls, boundary conditions, ifs).
type Stencil struct {
	Name       string
	Loc        SourceLocation
	Attributes []string
	Fields     []FieldDecl
	Body       *BlockStmt
}

// FieldDecl declares one stencil field: the dimensions it legally spans and
// whether it is a temporary private to the stencil.
type FieldDecl struct {
	Name        string
	IsTemporary bool
	Dimensions  [NumDimensions]bool
}

// AllDimensions is the (i, j, k) mask of a full three-dimensional field.
var AllDimensions = [NumDimensions]bool{true, true, true}

// StencilFunction is one user-written stencil function. Its body is kept in
// template form: field accesses inside it may carry deferred offsets that
// the inlining collaborator resolves against concrete call arguments. The
// function may specialize per vertical interval.
type StencilFunction struct {
	Name      string
	Loc       SourceLocation
	Args      []FunctionArg
	Intervals []Interval
	Body      *BlockStmt
}

// FunctionArg is a sealed union over the parameter kinds a stencil function
// declares: a field, a direction, or a fixed offset.
type FunctionArg interface {
	// ArgName returns the declared parameter name.
	ArgName() string
	isFunctionArg()
}

// FieldArg declares a field parameter.
type FieldArg struct {
	Name string
}

func (FieldArg) isFunctionArg() {}

// ArgName implements FunctionArg.
func (a FieldArg) ArgName() string { return a.Name }

// DirectionArg declares a direction parameter bound to a spatial dimension
// at instantiation time.
type DirectionArg struct {
	Name      string
	Dimension int
}

func (DirectionArg) isFunctionArg() {}

// ArgName implements FunctionArg.
func (a DirectionArg) ArgName() string { return a.Name }

// OffsetArg declares an offset parameter: a direction plus a fixed
// displacement along it.
type OffsetArg struct {
	Name      string
	Dimension int
	Offset    int
}

func (OffsetArg) isFunctionArg() {}

// ArgName implements FunctionArg.
func (a OffsetArg) ArgName() string { return a.Name }

package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seistools/stratum/ast"
	"github.com/seistools/stratum/iir"
	"github.com/seistools/stratum/meta"
)

// accessMeta registers the symbols the access tests reference: fields u
// and out, temporary lap, global eps.
func accessMeta(t *testing.T) *meta.StencilMetaInfo {
	t.Helper()
	m := meta.New("probe", "probe.st", ast.Locate(1, 1))
	for _, name := range []string{"u", "out"} {
		_, err := m.AddField(name, ast.AllDimensions)
		require.NoError(t, err)
	}
	_, err := m.AddTemporary("lap", ast.AllDimensions)
	require.NoError(t, err)
	_, err = m.AddGlobalVariable("eps", ast.NewGlobalValue(ast.KindFloat))
	require.NoError(t, err)
	return m
}

func computeOn(t *testing.T, m *meta.StencilMetaInfo, s ast.Stmt) *iir.Accesses {
	t.Helper()
	acc := iir.NewAccesses()
	require.NoError(t, computeAccesses(m, s, acc))
	return acc
}

func TestComputeAccessesCompoundAssignment(t *testing.T) {
	m := accessMeta(t)
	acc := computeOn(t, m, &ast.ExprStmt{Expr: &ast.AssignmentExpr{
		Op:    "+=",
		Left:  ast.FieldAt("u", ast.Offsets{}),
		Right: ast.FieldAt("lap", ast.Offsets{0, 1, 0}),
	}})

	assert.Equal(t, []iir.AccessID{1}, acc.WriteIDs())
	// The compound target reads its previous value too.
	assert.Equal(t, []iir.AccessID{1, 3}, acc.ReadIDs())
	assert.True(t, acc.Reads[1].IsPointwise())
	assert.Equal(t, iir.Extents{{}, {Minus: 1, Plus: 1}, {}}, acc.Reads[3])
}

func TestComputeAccessesLiteralsGetFreshIDs(t *testing.T) {
	m := accessMeta(t)
	acc := computeOn(t, m, &ast.ExprStmt{Expr: &ast.AssignmentExpr{
		Op:   "=",
		Left: ast.FieldAt("u", ast.Offsets{}),
		Right: &ast.BinaryOperator{
			Op:    "+",
			Left:  &ast.LiteralAccessExpr{Value: "0.5", Kind: ast.KindFloat},
			Right: &ast.LiteralAccessExpr{Value: "0.5", Kind: ast.KindFloat},
		},
	}})

	// Same literal text, two occurrences, two distinct negative IDs.
	assert.Equal(t, []iir.AccessID{-2, -1}, acc.ReadIDs())
	assert.True(t, acc.Reads[-1].IsPointwise())
	assert.True(t, acc.Reads[-2].IsPointwise())
}

func TestComputeAccessesVarDecl(t *testing.T) {
	m := accessMeta(t)
	decl := &ast.VarDeclStmt{
		Name: "alpha",
		Kind: ast.KindFloat,
		Init: []ast.Expr{&ast.VarAccessExpr{Name: "eps", External: true}},
	}
	acc := computeOn(t, m, decl)

	alpha, err := m.AccessIDOf("alpha")
	require.NoError(t, err)
	eps, err := m.AccessIDOf("eps")
	require.NoError(t, err)
	assert.Equal(t, []iir.AccessID{alpha}, acc.WriteIDs())
	assert.Equal(t, []iir.AccessID{eps}, acc.ReadIDs())

	// A later statement reads the declared variable by name.
	later := computeOn(t, m, &ast.ExprStmt{Expr: &ast.AssignmentExpr{
		Op:    "=",
		Left:  ast.FieldAt("out", ast.Offsets{}),
		Right: &ast.VarAccessExpr{Name: "alpha"},
	}})
	assert.Equal(t, []iir.AccessID{alpha}, later.ReadIDs())
}

func TestComputeAccessesVarDeclWithoutInit(t *testing.T) {
	m := accessMeta(t)
	acc := computeOn(t, m, &ast.VarDeclStmt{Name: "beta", Kind: ast.KindInteger})
	assert.True(t, acc.IsEmpty())
	assert.True(t, m.HasName("beta"))
}

func TestComputeAccessesConditional(t *testing.T) {
	m := accessMeta(t)
	acc := computeOn(t, m, &ast.IfStmt{
		Cond: &ast.VarAccessExpr{Name: "eps", External: true},
		Then: ast.NewBlockStmt(&ast.ExprStmt{Expr: &ast.AssignmentExpr{
			Op:    "=",
			Left:  ast.FieldAt("u", ast.Offsets{}),
			Right: ast.FieldAt("lap", ast.Offsets{1, 0, 0}),
		}}),
		Else: ast.NewBlockStmt(&ast.ExprStmt{Expr: &ast.AssignmentExpr{
			Op:    "=",
			Left:  ast.FieldAt("u", ast.Offsets{}),
			Right: ast.FieldAt("lap", ast.Offsets{-1, 0, 0}),
		}}),
	})

	assert.Equal(t, []iir.AccessID{1}, acc.WriteIDs())
	// Both branches' lap reads union in the i dimension.
	assert.Equal(t, iir.Extents{{Minus: -1, Plus: 1}, {}, {}}, acc.Reads[3])
}

func TestComputeAccessesFunctionArguments(t *testing.T) {
	m := accessMeta(t)
	acc := computeOn(t, m, &ast.ExprStmt{Expr: &ast.AssignmentExpr{
		Op:   "=",
		Left: ast.FieldAt("out", ast.Offsets{}),
		Right: &ast.StencilFunCallExpr{
			Callee: "avg",
			Args: []ast.Expr{
				&ast.StencilFunArgExpr{Dimension: 0, ArgumentIndex: ast.NoArgument},
				ast.FieldAt("u", ast.Offsets{0, 0, 1}),
			},
		},
	}})

	// The direction placeholder reads nothing; the field argument does.
	assert.Equal(t, []iir.AccessID{1}, acc.ReadIDs())
	assert.Equal(t, iir.Extents{{}, {}, {Minus: 1, Plus: 1}}, acc.Reads[1])
}

func TestComputeAccessesIndexedVariable(t *testing.T) {
	m := accessMeta(t)
	_, err := m.AddLocalVariable("mask")
	require.NoError(t, err)

	acc := computeOn(t, m, &ast.ExprStmt{Expr: &ast.AssignmentExpr{
		Op:   "=",
		Left: ast.FieldAt("u", ast.Offsets{}),
		Right: &ast.VarAccessExpr{
			Name:  "mask",
			Index: &ast.LiteralAccessExpr{Value: "0", Kind: ast.KindInteger},
		},
	}})

	mask, err := m.AccessIDOf("mask")
	require.NoError(t, err)
	assert.Contains(t, acc.ReadIDs(), mask)
	// The index literal is an access of its own.
	assert.Contains(t, acc.ReadIDs(), iir.AccessID(-1))
}

func TestComputeAccessesErrors(t *testing.T) {
	deferred := &ast.FieldAccessExpr{Name: "u", Offset: ast.NewDeferredOffset(ast.Offsets{})}

	tests := []struct {
		name string
		stmt ast.Stmt
		want string
	}{
		{
			name: "unknown_variable",
			stmt: &ast.ExprStmt{Expr: &ast.VarAccessExpr{Name: "missing"}},
			want: "missing",
		},
		{
			name: "deferred_offset",
			stmt: &ast.ExprStmt{Expr: deferred},
			want: "offset not resolved",
		},
		{
			name: "return_inside_region",
			stmt: &ast.ReturnStmt{Expr: &ast.LiteralAccessExpr{Value: "1", Kind: ast.KindInteger}},
			want: "outside a stencil function",
		},
		{
			name: "nested_region",
			stmt: &ast.VerticalRegionDeclStmt{
				Interval: ast.FullDomain(),
				Order:    ast.LoopOrderForward,
				Body:     ast.NewBlockStmt(),
			},
			want: "nested",
		},
		{
			name: "call_declaration_inside_region",
			stmt: &ast.StencilCallDeclStmt{Call: &ast.StencilCall{Callee: "other"}},
			want: "not allowed inside a vertical region",
		},
		{
			name: "literal_assignment_target",
			stmt: &ast.ExprStmt{Expr: &ast.AssignmentExpr{
				Op:    "=",
				Left:  &ast.LiteralAccessExpr{Value: "1", Kind: ast.KindInteger},
				Right: ast.FieldAt("u", ast.Offsets{}),
			}},
			want: "assignment target",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := accessMeta(t)
			err := computeAccesses(m, tt.stmt, iir.NewAccesses())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestComputeAccessesUnknownVariableIsLookupError(t *testing.T) {
	m := accessMeta(t)
	err := computeAccesses(m, &ast.ExprStmt{Expr: &ast.VarAccessExpr{Name: "missing"}}, iir.NewAccesses())
	require.Error(t, err)
	assert.True(t, meta.IsLookupError(err))
}

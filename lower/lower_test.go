package lower

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seistools/stratum/ast"
	"github.com/seistools/stratum/iir"
)

// diffusionProgram builds a two-region stencil with a call, a boundary
// condition and two globals, covering every top-level statement kind the
// lowering accepts.
func diffusionProgram() *ast.Program {
	prog := ast.NewProgram("diffusion.st")
	prog.Globals["eps"] = ast.NewGlobalValue(ast.KindFloat)
	prog.Globals["dt"] = ast.GlobalValue{Kind: ast.KindFloat, Value: ast.FloatValue(0.5)}

	prog.Stencils = append(prog.Stencils, &ast.Stencil{
		Name:       "diffuse",
		Loc:        ast.Locate(4, 1),
		Attributes: []string{"merge_temporaries"},
		Fields: []ast.FieldDecl{
			{Name: "u", Dimensions: ast.AllDimensions},
			{Name: "out", Dimensions: ast.AllDimensions},
			{Name: "lap", IsTemporary: true, Dimensions: ast.AllDimensions},
		},
		Body: ast.NewBlockStmt(
			&ast.VerticalRegionDeclStmt{
				Loc:      ast.Locate(6, 3),
				Interval: ast.FullDomain(),
				Order:    ast.LoopOrderForward,
				Body: ast.NewBlockStmt(
					&ast.ExprStmt{Expr: &ast.AssignmentExpr{
						Op:   "=",
						Left: ast.FieldAt("lap", ast.Offsets{}),
						Right: &ast.BinaryOperator{
							Op:    "-",
							Left:  ast.FieldAt("u", ast.Offsets{1, 0, 0}),
							Right: ast.FieldAt("u", ast.Offsets{-1, 0, 0}),
						},
					}},
				),
			},
			&ast.VerticalRegionDeclStmt{
				Loc:      ast.Locate(9, 3),
				Interval: ast.NewInterval(ast.StartBound(1), ast.EndBound(0)),
				Order:    ast.LoopOrderBackward,
				Body: ast.NewBlockStmt(
					&ast.ExprStmt{Expr: &ast.AssignmentExpr{
						Op:   "=",
						Left: ast.FieldAt("out", ast.Offsets{}),
						Right: &ast.BinaryOperator{
							Op:    "*",
							Left:  &ast.VarAccessExpr{Name: "eps", External: true},
							Right: ast.FieldAt("lap", ast.Offsets{}),
						},
					}},
				),
			},
			&ast.StencilCallDeclStmt{
				Loc:  ast.Locate(12, 3),
				Call: &ast.StencilCall{Loc: ast.Locate(12, 3), Callee: "halo", Args: []string{"u"}},
			},
			&ast.BoundaryConditionDeclStmt{Loc: ast.Locate(13, 3), Functor: "zero_flux", Fields: []string{"out"}},
		),
	})
	return prog
}

func TestLowerDiffusion(t *testing.T) {
	insts, err := Lower(context.Background(), diffusionProgram())
	require.NoError(t, err)
	require.Len(t, insts, 1)
	inst := insts[0]

	require.Empty(t, inst.Validate())

	m := inst.Meta
	assert.Equal(t, "diffuse", m.UnitName)
	assert.Equal(t, "diffusion.st", m.FileName)
	assert.Equal(t, ast.Locate(4, 1), m.Loc)

	// Fields in declaration order, then globals in name order.
	u, err := m.AccessIDOf("u")
	require.NoError(t, err)
	out, err := m.AccessIDOf("out")
	require.NoError(t, err)
	lap, err := m.AccessIDOf("lap")
	require.NoError(t, err)
	dt, err := m.AccessIDOf("dt")
	require.NoError(t, err)
	eps, err := m.AccessIDOf("eps")
	require.NoError(t, err)
	assert.Equal(t, iir.AccessID(1), u)
	assert.Equal(t, iir.AccessID(2), out)
	assert.Equal(t, iir.AccessID(3), lap)
	assert.Equal(t, iir.AccessID(4), dt)
	assert.Equal(t, iir.AccessID(5), eps)
	assert.True(t, m.IsAPIField(u))
	assert.True(t, m.IsTemporaryField(lap))
	assert.True(t, m.IsGlobalVariable(eps))
	assert.Equal(t, ast.GlobalValue{Kind: ast.KindFloat, Value: ast.FloatValue(0.5)}, m.Globals["dt"])
	assert.False(t, m.Globals["eps"].IsSet())

	require.Len(t, inst.IR.Stencils, 1)
	st := inst.IR.Stencils[0]
	assert.Equal(t, int64(1), st.ID)
	assert.True(t, st.Attributes.Has(iir.AttrMergeTemporaries))
	require.Len(t, st.MultiStages, 2)

	ms1, ms2 := st.MultiStages[0], st.MultiStages[1]
	assert.Equal(t, iir.LoopOrderForward, ms1.LoopOrder)
	assert.Equal(t, iir.LoopOrderBackward, ms2.LoopOrder)
	require.Len(t, ms1.Stages, 1)
	require.Len(t, ms1.Stages[0].DoMethods, 1)

	dm1 := ms1.Stages[0].DoMethods[0]
	assert.Equal(t, ast.FullDomain(), dm1.Interval)
	require.Len(t, dm1.Pairs, 1)
	acc1 := dm1.Pairs[0].CallerAccesses
	assert.Equal(t, []iir.AccessID{lap}, acc1.WriteIDs())
	assert.Equal(t, []iir.AccessID{u}, acc1.ReadIDs())
	// The two u reads at i+1 and i-1 union into one extent.
	assert.Equal(t, iir.Extents{{Minus: -1, Plus: 1}, {}, {}}, acc1.Reads[u])
	assert.Nil(t, dm1.Pairs[0].CalleeAccesses)

	dm2 := ms2.Stages[0].DoMethods[0]
	assert.Equal(t, ast.NewInterval(ast.StartBound(1), ast.EndBound(0)), dm2.Interval)
	require.Len(t, dm2.Pairs, 1)
	acc2 := dm2.Pairs[0].CallerAccesses
	assert.Equal(t, []iir.AccessID{out}, acc2.WriteIDs())
	assert.Equal(t, []iir.AccessID{lap, eps}, acc2.ReadIDs())
	assert.True(t, acc2.Reads[eps].IsPointwise())

	// The call and the boundary condition are recorded descriptively.
	require.Len(t, m.DescStatements, 2)
	call, ok := m.DescStatements[0].Stmt.(*ast.StencilCallDeclStmt)
	require.True(t, ok)
	assert.Equal(t, "halo", call.Call.Callee)
	assert.Nil(t, m.DescStatements[0].CallStack)
	_, ok = m.DescStatements[1].Stmt.(*ast.BoundaryConditionDeclStmt)
	require.True(t, ok)

	// Allocators stay ahead of the issued IDs.
	assert.Equal(t, int64(2), inst.NextStencilID)
	assert.Equal(t, int64(3), inst.NextMultiStageID)
	assert.Equal(t, int64(3), inst.NextStageID)
	assert.Equal(t, int64(3), inst.NextDoMethodID)
}

func TestLowerIndependentNamespaces(t *testing.T) {
	prog := ast.NewProgram("pair.st")
	for _, name := range []string{"first", "second"} {
		prog.Stencils = append(prog.Stencils, &ast.Stencil{
			Name:   name,
			Fields: []ast.FieldDecl{{Name: "u", Dimensions: ast.AllDimensions}},
			Body:   ast.NewBlockStmt(),
		})
	}

	insts, err := Lower(context.Background(), prog)
	require.NoError(t, err)
	require.Len(t, insts, 2)
	for _, inst := range insts {
		id, err := inst.Meta.AccessIDOf("u")
		require.NoError(t, err)
		assert.Equal(t, iir.AccessID(1), id)
		require.Empty(t, inst.Validate())
	}
}

func TestLowerEmptyBody(t *testing.T) {
	prog := ast.NewProgram("empty.st")
	prog.Stencils = append(prog.Stencils, &ast.Stencil{Name: "noop"})

	insts, err := Lower(context.Background(), prog)
	require.NoError(t, err)
	require.Len(t, insts, 1)
	assert.Empty(t, insts[0].IR.Stencils[0].MultiStages)
	require.Empty(t, insts[0].Validate())
}

func TestLowerConditionalRegionStaysDescriptive(t *testing.T) {
	// A top-level conditional may guard vertical regions; whether they run
	// is settled by the later instantiation pass, so the whole statement is
	// recorded descriptively and produces no IR.
	prog := ast.NewProgram("cond.st")
	prog.Globals["enabled"] = ast.GlobalValue{Kind: ast.KindBoolean, Value: ast.BoolValue(true)}
	prog.Stencils = append(prog.Stencils, &ast.Stencil{
		Name: "guarded",
		Body: ast.NewBlockStmt(
			&ast.IfStmt{
				Cond: &ast.VarAccessExpr{Name: "enabled", External: true},
				Then: ast.NewBlockStmt(&ast.VerticalRegionDeclStmt{
					Interval: ast.FullDomain(),
					Order:    ast.LoopOrderForward,
					Body:     ast.NewBlockStmt(),
				}),
			},
		),
	})

	insts, err := Lower(context.Background(), prog)
	require.NoError(t, err)
	inst := insts[0]
	assert.Empty(t, inst.IR.Stencils[0].MultiStages)
	require.Len(t, inst.Meta.DescStatements, 1)
	require.Empty(t, inst.Validate())
}

func TestLowerErrors(t *testing.T) {
	tests := []struct {
		name    string
		stencil *ast.Stencil
		want    string
	}{
		{
			name: "unknown_attribute",
			stencil: &ast.Stencil{
				Name:       "bad",
				Attributes: []string{"vectorize_harder"},
			},
			want: "unknown stencil attribute",
		},
		{
			name: "duplicate_field",
			stencil: &ast.Stencil{
				Name: "bad",
				Fields: []ast.FieldDecl{
					{Name: "u", Dimensions: ast.AllDimensions},
					{Name: "u", Dimensions: ast.AllDimensions},
				},
			},
			want: "already registered",
		},
		{
			name: "return_at_top_level",
			stencil: &ast.Stencil{
				Name: "bad",
				Body: ast.NewBlockStmt(&ast.ReturnStmt{Expr: &ast.LiteralAccessExpr{Value: "1", Kind: ast.KindInteger}}),
			},
			want: "not allowed at stencil top level",
		},
		{
			name: "inverted_region_interval",
			stencil: &ast.Stencil{
				Name: "bad",
				Body: ast.NewBlockStmt(&ast.VerticalRegionDeclStmt{
					Interval: ast.NewInterval(ast.EndBound(0), ast.StartBound(0)),
					Order:    ast.LoopOrderForward,
					Body:     ast.NewBlockStmt(),
				}),
			},
			want: "interval",
		},
		{
			name: "unknown_field_in_region",
			stencil: &ast.Stencil{
				Name: "bad",
				Body: ast.NewBlockStmt(&ast.VerticalRegionDeclStmt{
					Interval: ast.FullDomain(),
					Order:    ast.LoopOrderForward,
					Body: ast.NewBlockStmt(&ast.ExprStmt{Expr: &ast.AssignmentExpr{
						Op:    "=",
						Left:  ast.FieldAt("ghost", ast.Offsets{}),
						Right: &ast.LiteralAccessExpr{Value: "0", Kind: ast.KindInteger},
					}}),
				}),
			},
			want: "ghost",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := ast.NewProgram("bad.st")
			prog.Stencils = append(prog.Stencils, tt.stencil)

			_, err := Lower(context.Background(), prog)
			require.Error(t, err)
			assert.True(t, IsLowerError(err))
			assert.Contains(t, err.Error(), `stencil "bad"`)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLowerNilProgram(t *testing.T) {
	_, err := Lower(context.Background(), nil)
	require.Error(t, err)
	assert.False(t, IsLowerError(err))
}

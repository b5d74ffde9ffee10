// Package irtest builds the shared test fixtures: deterministic, well-formed
// stencil instantiations exercising every construct the codec and validator
// care about (set and unset globals, literals, versioned fields, parallel
// and backward multistages, call stacks).
package irtest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seistools/stratum/ast"
	"github.com/seistools/stratum/iir"
)

// Instantiation builds the canonical fixture unit "double_smooth".
//
// Symbols: u=1 (api), out=2 (api), lap=3 (temporary), eps=4 (global float,
// unset), dt=5 (global float, explicitly 0), u_1=6 (version of u),
// literal "4.0"=-1.
//
// IR: one stencil (merge_temporaries) with a parallel multistage computing
// lap over the full domain and a backward multistage computing out and u_1
// over {2, end-1}.
func Instantiation(t *testing.T) *iir.StencilInstantiation {
	t.Helper()

	inst := iir.NewStencilInstantiation("double_smooth", "double_smooth.st", ast.Locate(3, 1))
	m := inst.Meta

	u, err := m.AddField("u", ast.AllDimensions)
	require.NoError(t, err)
	out, err := m.AddField("out", ast.AllDimensions)
	require.NoError(t, err)
	lap, err := m.AddTemporary("lap", ast.AllDimensions)
	require.NoError(t, err)
	eps, err := m.AddGlobalVariable("eps", ast.NewGlobalValue(ast.KindFloat))
	require.NoError(t, err)
	dtValue, err := ast.NewGlobalValue(ast.KindFloat).WithValue(ast.FloatValue(0))
	require.NoError(t, err)
	_, err = m.AddGlobalVariable("dt", dtValue)
	require.NoError(t, err)
	lit := m.AddLiteral("4.0")
	u1, err := inst.CreateVersion(u)
	require.NoError(t, err)

	call := &ast.StencilCall{Loc: ast.Locate(12, 5), Callee: "smooth", Args: []string{"u", "out"}}
	m.AddDescStatement(&ast.StencilCallDeclStmt{Loc: ast.Locate(12, 5), Call: call}, nil)
	m.AddDescStatement(
		&ast.BoundaryConditionDeclStmt{Loc: ast.Locate(13, 5), Functor: "zero_gradient", Fields: []string{"out"}},
		[]*ast.StencilCall{call},
	)

	st := &iir.Stencil{ID: inst.NewStencilID(), Attributes: iir.Attributes(0).Set(iir.AttrMergeTemporaries)}
	inst.IR.AppendStencil(st)

	ms1 := &iir.MultiStage{ID: inst.NewMultiStageID(), LoopOrder: iir.LoopOrderParallel}
	st.AppendMultiStage(ms1)
	stage1 := &iir.Stage{ID: inst.NewStageID()}
	ms1.AppendStage(stage1)
	dm1 := &iir.DoMethod{ID: inst.NewDoMethodID(), Interval: ast.FullDomain()}
	stage1.AppendDoMethod(dm1)

	lapAssign := iir.NewStmtAccessPair(&ast.ExprStmt{Expr: &ast.AssignmentExpr{
		Op:   "=",
		Left: ast.FieldAt("lap", ast.Offsets{}),
		Right: &ast.BinaryOperator{
			Op:    "*",
			Left:  &ast.LiteralAccessExpr{Value: "4.0", Kind: ast.KindFloat},
			Right: ast.FieldAt("u", ast.Offsets{1, 0, 0}),
		},
	}})
	lapAssign.CallerAccesses.AddWrite(lap, iir.PointwiseExtents())
	lapAssign.CallerAccesses.AddRead(lit, iir.PointwiseExtents())
	lapAssign.CallerAccesses.AddRead(u, iir.ExtentsFromOffsets(ast.Offsets{1, 0, 0}))
	dm1.AppendPair(lapAssign)

	ms2 := &iir.MultiStage{ID: inst.NewMultiStageID(), LoopOrder: iir.LoopOrderBackward}
	st.AppendMultiStage(ms2)
	stage2 := &iir.Stage{ID: inst.NewStageID()}
	ms2.AppendStage(stage2)
	dm2 := &iir.DoMethod{
		ID:       inst.NewDoMethodID(),
		Interval: ast.NewInterval(ast.LevelBound(2, 0), ast.EndBound(-1)),
	}
	stage2.AppendDoMethod(dm2)

	outAssign := iir.NewStmtAccessPair(&ast.ExprStmt{Expr: &ast.AssignmentExpr{
		Op:   "=",
		Left: ast.FieldAt("out", ast.Offsets{}),
		Right: &ast.BinaryOperator{
			Op:    "*",
			Left:  &ast.VarAccessExpr{Name: "eps", External: true},
			Right: ast.FieldAt("lap", ast.Offsets{0, 0, -1}),
		},
	}})
	outAssign.CallerAccesses.AddWrite(out, iir.PointwiseExtents())
	outAssign.CallerAccesses.AddRead(eps, iir.PointwiseExtents())
	outAssign.CallerAccesses.AddRead(lap, iir.ExtentsFromOffsets(ast.Offsets{0, 0, -1}))
	dm2.AppendPair(outAssign)

	renameAssign := iir.NewStmtAccessPair(&ast.ExprStmt{Expr: &ast.AssignmentExpr{
		Op:    "=",
		Left:  ast.FieldAt("u_1", ast.Offsets{}),
		Right: ast.FieldAt("u", ast.Offsets{}),
	}})
	renameAssign.CallerAccesses.AddWrite(u1, iir.PointwiseExtents())
	renameAssign.CallerAccesses.AddRead(u, iir.PointwiseExtents())
	dm2.AppendPair(renameAssign)

	return inst
}

// RequireValid fails the test if the instantiation reports any invariant
// violations.
func RequireValid(t *testing.T, inst *iir.StencilInstantiation) {
	t.Helper()
	violations := inst.Validate()
	require.Empty(t, violations, "unexpected invariant violations: %v", violations)
}

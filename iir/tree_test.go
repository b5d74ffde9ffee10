package iir

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seistools/stratum/ast"
)

func TestLoopOrderCodes(t *testing.T) {
	// Wire codes are contractual: Forward=0, Backward=1, Parallel=3.
	assert.Equal(t, int32(0), int32(LoopOrderForward))
	assert.Equal(t, int32(1), int32(LoopOrderBackward))
	assert.Equal(t, int32(3), int32(LoopOrderParallel))

	assert.True(t, LoopOrderForward.Valid())
	assert.True(t, LoopOrderBackward.Valid())
	assert.True(t, LoopOrderParallel.Valid())

	// Code 2 is reserved and never valid.
	assert.False(t, LoopOrder(2).Valid())
	assert.False(t, LoopOrder(4).Valid())

	assert.Equal(t, "forward", LoopOrderForward.String())
	assert.Equal(t, "backward", LoopOrderBackward.String())
	assert.Equal(t, "parallel", LoopOrderParallel.String())
	assert.Equal(t, "loop-order(?)", LoopOrder(2).String())
}

func TestAttributes(t *testing.T) {
	var a Attributes
	assert.Equal(t, "none", a.String())

	a = a.Set(AttrMergeStages).Set(AttrUseKCaches)
	assert.True(t, a.Has(AttrMergeStages))
	assert.True(t, a.Has(AttrUseKCaches))
	assert.False(t, a.Has(AttrNoCodegen))
	assert.False(t, a.Has(AttrMergeStages|AttrNoCodegen))
	assert.Equal(t, "merge_stages|use_k_caches", a.String())

	a = a.Clear(AttrMergeStages)
	assert.False(t, a.Has(AttrMergeStages))
	assert.Equal(t, "use_k_caches", a.String())

	flag, ok := ParseAttribute("merge_do_methods")
	assert.True(t, ok)
	assert.Equal(t, AttrMergeDoMethods, flag)

	_, ok = ParseAttribute("fuse_everything")
	assert.False(t, ok)
}

func TestTreeAppendHelpers(t *testing.T) {
	inst := NewStencilInstantiation("s", "s.st", ast.UnknownLocation())

	st := &Stencil{ID: inst.NewStencilID()}
	inst.IR.AppendStencil(st)
	ms := &MultiStage{ID: inst.NewMultiStageID(), LoopOrder: LoopOrderForward}
	st.AppendMultiStage(ms)
	stage := &Stage{ID: inst.NewStageID()}
	ms.AppendStage(stage)
	dm := &DoMethod{ID: inst.NewDoMethodID(), Interval: ast.FullDomain()}
	stage.AppendDoMethod(dm)
	dm.AppendPair(NewStmtAccessPair(&ast.ExprStmt{Expr: ast.FieldAt("u", ast.Offsets{})}))

	assert.Len(t, inst.IR.Stencils, 1)
	assert.Len(t, st.MultiStages, 1)
	assert.Len(t, ms.Stages, 1)
	assert.Len(t, stage.DoMethods, 1)
	assert.Len(t, dm.Pairs, 1)
}

func TestIDAllocators(t *testing.T) {
	inst := NewStencilInstantiation("s", "s.st", ast.UnknownLocation())

	// Per-kind counters are independent and strictly increasing.
	assert.Equal(t, int64(1), inst.NewStencilID())
	assert.Equal(t, int64(2), inst.NewStencilID())
	assert.Equal(t, int64(1), inst.NewMultiStageID())
	assert.Equal(t, int64(1), inst.NewStageID())
	assert.Equal(t, int64(2), inst.NewStageID())
	assert.Equal(t, int64(1), inst.NewDoMethodID())

	assert.Equal(t, int64(3), inst.NextStencilID)
	assert.Equal(t, int64(2), inst.NextMultiStageID)
	assert.Equal(t, int64(3), inst.NextStageID)
	assert.Equal(t, int64(2), inst.NextDoMethodID)
}

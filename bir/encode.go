package bir

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/seistools/stratum/ast"
	"github.com/seistools/stratum/iir"
	"github.com/seistools/stratum/meta"
)

// Scalar struct fields are always written, zero or not, so a round trip
// reproduces the in-memory unit exactly. Only optional sub-messages
// (nil pointers, nil union interfaces, empty packed sets) are omitted.

func appendField(b []byte, num protowire.Number, body []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, body)
}

func appendVarintField(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendZigZagField(b []byte, num protowire.Number, v int64) []byte {
	return appendVarintField(b, num, protowire.EncodeZigZag(v))
}

func appendBoolField(b []byte, num protowire.Number, v bool) []byte {
	var u uint64
	if v {
		u = 1
	}
	return appendVarintField(b, num, u)
}

func appendStringField(b []byte, num protowire.Number, s string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendFloatField(b []byte, num protowire.Number, v float64) []byte {
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

// appendTripleField writes a per-dimension triple as one packed zigzag
// field.
func appendTripleField(b []byte, num protowire.Number, t [ast.NumDimensions]int) []byte {
	var packed []byte
	for _, v := range t {
		packed = protowire.AppendVarint(packed, protowire.EncodeZigZag(int64(v)))
	}
	return appendField(b, num, packed)
}

// appendIDSetField writes an ID set as one packed zigzag field, omitted
// when empty. The caller passes the IDs pre-sorted.
func appendIDSetField(b []byte, num protowire.Number, ids []meta.AccessID) []byte {
	if len(ids) == 0 {
		return b
	}
	var packed []byte
	for _, id := range ids {
		packed = protowire.AppendVarint(packed, protowire.EncodeZigZag(int64(id)))
	}
	return appendField(b, num, packed)
}

func encodeInstantiation(inst *iir.StencilInstantiation) ([]byte, error) {
	var out []byte
	if inst.Meta != nil {
		body, err := encodeMeta(inst.Meta)
		if err != nil {
			return nil, err
		}
		out = appendField(out, tagInstMeta, body)
	}
	if inst.IR != nil {
		body, err := encodeIR(inst.IR)
		if err != nil {
			return nil, err
		}
		out = appendField(out, tagInstIR, body)
	}
	out = appendVarintField(out, tagInstNextStencilID, uint64(inst.NextStencilID))
	out = appendVarintField(out, tagInstNextMultiStageID, uint64(inst.NextMultiStageID))
	out = appendVarintField(out, tagInstNextStageID, uint64(inst.NextStageID))
	out = appendVarintField(out, tagInstNextDoMethodID, uint64(inst.NextDoMethodID))
	return out, nil
}

func encodeMeta(m *meta.StencilMetaInfo) ([]byte, error) {
	var out []byte
	out = appendStringField(out, tagMetaUnitName, m.UnitName)
	out = appendStringField(out, tagMetaFileName, m.FileName)
	out = appendField(out, tagMetaLoc, encodeLocation(m.Loc))
	for _, id := range m.SortedNamedIDs() {
		out = appendField(out, tagMetaName, encodeNameEntry(id, m.AccessIDToName[id]))
	}
	for _, id := range m.SortedLiteralIDs() {
		out = appendField(out, tagMetaLiteral, encodeNameEntry(id, m.LiteralIDToName[id]))
	}
	out = appendIDSetField(out, tagMetaAPIFields, m.SortedAPIFieldIDs())
	out = appendIDSetField(out, tagMetaTemporaries, m.SortedTemporaryFieldIDs())
	out = appendIDSetField(out, tagMetaGlobalIDs, m.SortedGlobalVariableIDs())
	if m.Versions != nil {
		for _, original := range m.Versions.Originals() {
			ids := m.Versions.VersionsByOriginal[original]
			if len(ids) == 0 {
				continue
			}
			out = appendField(out, tagMetaVersionGroup, encodeVersionGroup(original, ids))
		}
	}
	for i, desc := range m.DescStatements {
		body, err := encodeDescStatement(desc)
		if err != nil {
			return nil, fmt.Errorf("description statement %d: %w", i, err)
		}
		out = appendField(out, tagMetaDescStatement, body)
	}
	for _, name := range m.SortedFieldDimensionNames() {
		out = appendField(out, tagMetaFieldDims, encodeFieldDims(name, m.FieldDimensions[name]))
	}
	for _, name := range m.SortedGlobalNames() {
		body, err := encodeGlobalEntry(name, m.Globals[name])
		if err != nil {
			return nil, fmt.Errorf("global %q: %w", name, err)
		}
		out = appendField(out, tagMetaGlobal, body)
	}
	out = appendVarintField(out, tagMetaNextAccessID, uint64(m.NextAccessID))
	out = appendZigZagField(out, tagMetaNextLiteralID, int64(m.NextLiteralID))
	return out, nil
}

func encodeLocation(loc ast.SourceLocation) []byte {
	var out []byte
	out = appendZigZagField(out, tagLocLine, int64(loc.Line))
	out = appendZigZagField(out, tagLocColumn, int64(loc.Column))
	return out
}

func encodeNameEntry(id meta.AccessID, name string) []byte {
	var out []byte
	out = appendZigZagField(out, tagNameEntryID, int64(id))
	out = appendStringField(out, tagNameEntryName, name)
	return out
}

func encodeVersionGroup(original meta.AccessID, ids []meta.AccessID) []byte {
	var out []byte
	out = appendZigZagField(out, tagVersionOriginal, int64(original))
	var packed []byte
	for _, id := range ids {
		packed = protowire.AppendVarint(packed, protowire.EncodeZigZag(int64(id)))
	}
	return appendField(out, tagVersionIDs, packed)
}

func encodeDescStatement(desc *meta.DescStatement) ([]byte, error) {
	if desc == nil {
		return nil, unencodable("description statement", "nil entry")
	}
	var out []byte
	if desc.Stmt != nil {
		body, err := encodeStmt(desc.Stmt)
		if err != nil {
			return nil, err
		}
		out = appendField(out, tagDescStmt, body)
	}
	for i, frame := range desc.CallStack {
		if frame == nil {
			return nil, unencodable("description statement", "nil call-stack frame %d", i)
		}
		out = appendField(out, tagDescStack, encodeStencilCall(frame))
	}
	return out, nil
}

func encodeFieldDims(name string, dims [ast.NumDimensions]bool) []byte {
	var mask uint64
	for d, spans := range dims {
		if spans {
			mask |= 1 << d
		}
	}
	var out []byte
	out = appendStringField(out, tagFieldDimsName, name)
	out = appendVarintField(out, tagFieldDimsMask, mask)
	return out
}

func encodeGlobalEntry(name string, gv ast.GlobalValue) ([]byte, error) {
	body, err := encodeGlobalValue(gv)
	if err != nil {
		return nil, err
	}
	var out []byte
	out = appendStringField(out, tagGlobalName, name)
	return appendField(out, tagGlobalValue, body), nil
}

func encodeGlobalValue(gv ast.GlobalValue) ([]byte, error) {
	var out []byte
	out = appendVarintField(out, tagGlobalValueKind, uint64(int64(gv.Kind)))
	if gv.Value != nil {
		body, err := encodeValue(gv.Value)
		if err != nil {
			return nil, err
		}
		out = appendField(out, tagGlobalValueValue, body)
	}
	return out, nil
}

func encodeValue(v ast.Value) ([]byte, error) {
	switch val := v.(type) {
	case ast.BoolValue:
		return appendBoolField(nil, tagValueBool, bool(val)), nil
	case ast.IntValue:
		return appendZigZagField(nil, tagValueInt, int64(val)), nil
	case ast.FloatValue:
		return appendFloatField(nil, tagValueFloat, float64(val)), nil
	default:
		return nil, unencodable("value", "unsupported value type %T", v)
	}
}

func encodeIR(r *iir.IR) ([]byte, error) {
	var out []byte
	for i, st := range r.Stencils {
		if st == nil {
			return nil, unencodable("ir", "nil stencil at index %d", i)
		}
		body, err := encodeStencil(st)
		if err != nil {
			return nil, fmt.Errorf("stencil %d: %w", st.ID, err)
		}
		out = appendField(out, tagIRStencil, body)
	}
	return out, nil
}

func encodeStencil(st *iir.Stencil) ([]byte, error) {
	var out []byte
	out = appendVarintField(out, tagStencilID, uint64(st.ID))
	out = appendVarintField(out, tagStencilAttributes, uint64(st.Attributes))
	for i, ms := range st.MultiStages {
		if ms == nil {
			return nil, unencodable("stencil", "nil multistage at index %d", i)
		}
		body, err := encodeMultiStage(ms)
		if err != nil {
			return nil, fmt.Errorf("multistage %d: %w", ms.ID, err)
		}
		out = appendField(out, tagStencilMultiStage, body)
	}
	return out, nil
}

func encodeMultiStage(ms *iir.MultiStage) ([]byte, error) {
	if !ms.LoopOrder.Valid() {
		return nil, unencodable("multistage", "reserved or unknown loop order code %d", int32(ms.LoopOrder))
	}
	var out []byte
	out = appendVarintField(out, tagMultiStageID, uint64(ms.ID))
	out = appendVarintField(out, tagMultiStageLoopOrder, uint64(int64(ms.LoopOrder)))
	for i, stage := range ms.Stages {
		if stage == nil {
			return nil, unencodable("multistage", "nil stage at index %d", i)
		}
		body, err := encodeStage(stage)
		if err != nil {
			return nil, fmt.Errorf("stage %d: %w", stage.ID, err)
		}
		out = appendField(out, tagMultiStageStage, body)
	}
	return out, nil
}

func encodeStage(stage *iir.Stage) ([]byte, error) {
	var out []byte
	out = appendVarintField(out, tagStageID, uint64(stage.ID))
	for i, dm := range stage.DoMethods {
		if dm == nil {
			return nil, unencodable("stage", "nil do-method at index %d", i)
		}
		body, err := encodeDoMethod(dm)
		if err != nil {
			return nil, fmt.Errorf("do-method %d: %w", dm.ID, err)
		}
		out = appendField(out, tagStageDoMethod, body)
	}
	return out, nil
}

func encodeDoMethod(dm *iir.DoMethod) ([]byte, error) {
	var out []byte
	out = appendVarintField(out, tagDoMethodID, uint64(dm.ID))
	interval, err := encodeInterval(dm.Interval)
	if err != nil {
		return nil, err
	}
	out = appendField(out, tagDoMethodInterval, interval)
	for i, pair := range dm.Pairs {
		if pair == nil {
			return nil, unencodable("do-method", "nil pair at index %d", i)
		}
		body, err := encodePair(pair)
		if err != nil {
			return nil, fmt.Errorf("pair %d: %w", i, err)
		}
		out = appendField(out, tagDoMethodPair, body)
	}
	return out, nil
}

func encodeInterval(iv ast.Interval) ([]byte, error) {
	lower, err := encodeBound(iv.Lower)
	if err != nil {
		return nil, fmt.Errorf("lower bound: %w", err)
	}
	upper, err := encodeBound(iv.Upper)
	if err != nil {
		return nil, fmt.Errorf("upper bound: %w", err)
	}
	var out []byte
	out = appendField(out, tagIntervalLower, lower)
	return appendField(out, tagIntervalUpper, upper), nil
}

func encodeBound(b ast.IntervalBound) ([]byte, error) {
	var out []byte
	switch level := b.Level.(type) {
	case ast.SymbolicLevel:
		if level != ast.LevelStart && level != ast.LevelEnd {
			return nil, unencodable("interval bound", "unknown symbolic level code %d", int32(level))
		}
		out = appendVarintField(out, tagBoundSymbolic, uint64(int64(level)))
	case ast.ConcreteLevel:
		out = appendZigZagField(out, tagBoundConcrete, int64(level))
	case nil:
		return nil, unencodable("interval bound", "bound without a level")
	default:
		return nil, unencodable("interval bound", "unsupported level type %T", b.Level)
	}
	return appendZigZagField(out, tagBoundOffset, int64(b.Offset)), nil
}

func encodePair(pair *iir.StmtAccessPair) ([]byte, error) {
	var out []byte
	if pair.Stmt != nil {
		body, err := encodeStmt(pair.Stmt)
		if err != nil {
			return nil, err
		}
		out = appendField(out, tagPairStmt, body)
	}
	if pair.CallerAccesses != nil {
		out = appendField(out, tagPairCaller, encodeAccesses(pair.CallerAccesses))
	}
	if pair.CalleeAccesses != nil {
		out = appendField(out, tagPairCallee, encodeAccesses(pair.CalleeAccesses))
	}
	return out, nil
}

func encodeAccesses(a *iir.Accesses) []byte {
	var out []byte
	for _, id := range a.WriteIDs() {
		out = appendField(out, tagAccessWrite, encodeAccessEntry(id, a.Writes[id]))
	}
	for _, id := range a.ReadIDs() {
		out = appendField(out, tagAccessRead, encodeAccessEntry(id, a.Reads[id]))
	}
	return out
}

func encodeAccessEntry(id iir.AccessID, e iir.Extents) []byte {
	var out []byte
	out = appendZigZagField(out, tagAccessEntryID, int64(id))
	return appendField(out, tagAccessEntryExtents, encodeExtents(e))
}

func encodeExtents(e iir.Extents) []byte {
	var out []byte
	out = appendField(out, tagExtentsI, encodeExtent(e[0]))
	out = appendField(out, tagExtentsJ, encodeExtent(e[1]))
	return appendField(out, tagExtentsK, encodeExtent(e[2]))
}

func encodeExtent(e iir.Extent) []byte {
	var out []byte
	out = appendZigZagField(out, tagExtentMinus, int64(e.Minus))
	return appendZigZagField(out, tagExtentPlus, int64(e.Plus))
}

// encodeStmt wraps one statement in its union message. Callers omit the
// union field entirely for a nil statement.
func encodeStmt(s ast.Stmt) ([]byte, error) {
	var num protowire.Number
	var body []byte
	var err error
	switch n := s.(type) {
	case *ast.BlockStmt:
		num = tagStmtBlock
		body, err = encodeBlockStmt(n)
	case *ast.ExprStmt:
		num = tagStmtExpr
		body, err = encodeExprStmt(n)
	case *ast.ReturnStmt:
		num = tagStmtReturn
		body, err = encodeReturnStmt(n)
	case *ast.VarDeclStmt:
		num = tagStmtVarDecl
		body, err = encodeVarDeclStmt(n)
	case *ast.VerticalRegionDeclStmt:
		num = tagStmtVerticalRegion
		body, err = encodeRegionStmt(n)
	case *ast.StencilCallDeclStmt:
		num = tagStmtStencilCallDecl
		body, err = encodeCallDeclStmt(n)
	case *ast.BoundaryConditionDeclStmt:
		num = tagStmtBoundaryCondition
		body, err = encodeBoundaryStmt(n)
	case *ast.IfStmt:
		num = tagStmtIf
		body, err = encodeIfStmt(n)
	default:
		return nil, unencodable("statement", "unsupported statement type %T", s)
	}
	if err != nil {
		return nil, err
	}
	return appendField(nil, num, body), nil
}

func encodeBlockStmt(n *ast.BlockStmt) ([]byte, error) {
	out := appendField(nil, tagBlockLoc, encodeLocation(n.Loc))
	for i, child := range n.Statements {
		body, err := encodeStmt(child)
		if err != nil {
			return nil, fmt.Errorf("block statement %d: %w", i, err)
		}
		out = appendField(out, tagBlockStmt, body)
	}
	return out, nil
}

func encodeExprStmt(n *ast.ExprStmt) ([]byte, error) {
	out := appendField(nil, tagExprStmtLoc, encodeLocation(n.Loc))
	if n.Expr != nil {
		body, err := encodeExpr(n.Expr)
		if err != nil {
			return nil, err
		}
		out = appendField(out, tagExprStmtExpr, body)
	}
	return out, nil
}

func encodeReturnStmt(n *ast.ReturnStmt) ([]byte, error) {
	out := appendField(nil, tagReturnLoc, encodeLocation(n.Loc))
	if n.Expr != nil {
		body, err := encodeExpr(n.Expr)
		if err != nil {
			return nil, err
		}
		out = appendField(out, tagReturnExpr, body)
	}
	return out, nil
}

func encodeVarDeclStmt(n *ast.VarDeclStmt) ([]byte, error) {
	out := appendField(nil, tagVarDeclLoc, encodeLocation(n.Loc))
	out = appendStringField(out, tagVarDeclName, n.Name)
	out = appendVarintField(out, tagVarDeclKind, uint64(int64(n.Kind)))
	out = appendVarintField(out, tagVarDeclDimension, uint64(int64(n.Dimension)))
	out = appendStringField(out, tagVarDeclOp, n.Op)
	for i, init := range n.Init {
		body, err := encodeExpr(init)
		if err != nil {
			return nil, fmt.Errorf("initializer %d: %w", i, err)
		}
		out = appendField(out, tagVarDeclInit, body)
	}
	return out, nil
}

func encodeRegionStmt(n *ast.VerticalRegionDeclStmt) ([]byte, error) {
	if n.Order != ast.LoopOrderForward && n.Order != ast.LoopOrderBackward {
		return nil, unencodable("vertical region", "unknown loop order code %d", int32(n.Order))
	}
	out := appendField(nil, tagRegionLoc, encodeLocation(n.Loc))
	interval, err := encodeInterval(n.Interval)
	if err != nil {
		return nil, err
	}
	out = appendField(out, tagRegionInterval, interval)
	out = appendVarintField(out, tagRegionOrder, uint64(int64(n.Order)))
	if n.Body != nil {
		body, err := encodeBlockStmt(n.Body)
		if err != nil {
			return nil, err
		}
		out = appendField(out, tagRegionBody, body)
	}
	return out, nil
}

func encodeCallDeclStmt(n *ast.StencilCallDeclStmt) ([]byte, error) {
	out := appendField(nil, tagCallDeclLoc, encodeLocation(n.Loc))
	if n.Call != nil {
		out = appendField(out, tagCallDeclCall, encodeStencilCall(n.Call))
	}
	return out, nil
}

func encodeStencilCall(c *ast.StencilCall) []byte {
	out := appendField(nil, tagStencilCallLoc, encodeLocation(c.Loc))
	out = appendStringField(out, tagStencilCallCallee, c.Callee)
	for _, arg := range c.Args {
		out = appendStringField(out, tagStencilCallArg, arg)
	}
	return out
}

func encodeBoundaryStmt(n *ast.BoundaryConditionDeclStmt) ([]byte, error) {
	out := appendField(nil, tagBoundaryLoc, encodeLocation(n.Loc))
	out = appendStringField(out, tagBoundaryFunctor, n.Functor)
	for _, field := range n.Fields {
		out = appendStringField(out, tagBoundaryField, field)
	}
	return out, nil
}

func encodeIfStmt(n *ast.IfStmt) ([]byte, error) {
	out := appendField(nil, tagIfLoc, encodeLocation(n.Loc))
	if n.Cond != nil {
		body, err := encodeExpr(n.Cond)
		if err != nil {
			return nil, fmt.Errorf("condition: %w", err)
		}
		out = appendField(out, tagIfCond, body)
	}
	if n.Then != nil {
		body, err := encodeStmt(n.Then)
		if err != nil {
			return nil, fmt.Errorf("then branch: %w", err)
		}
		out = appendField(out, tagIfThen, body)
	}
	if n.Else != nil {
		body, err := encodeStmt(n.Else)
		if err != nil {
			return nil, fmt.Errorf("else branch: %w", err)
		}
		out = appendField(out, tagIfElse, body)
	}
	return out, nil
}

// encodeExpr wraps one expression in its union message. Callers omit
// the union field entirely for a nil expression.
func encodeExpr(e ast.Expr) ([]byte, error) {
	var num protowire.Number
	var body []byte
	var err error
	switch n := e.(type) {
	case *ast.UnaryOperator:
		num = tagExprUnary
		body, err = encodeUnary(n)
	case *ast.BinaryOperator:
		num = tagExprBinary
		body, err = encodeBinary(n)
	case *ast.AssignmentExpr:
		num = tagExprAssignment
		body, err = encodeAssignment(n)
	case *ast.TernaryOperator:
		num = tagExprTernary
		body, err = encodeTernary(n)
	case *ast.FunCallExpr:
		num = tagExprFunCall
		body, err = encodeFunCall(n)
	case *ast.StencilFunCallExpr:
		num = tagExprStencilFunCall
		body, err = encodeStencilFunCall(n)
	case *ast.StencilFunArgExpr:
		num = tagExprStencilFunArg
		body = encodeStencilFunArg(n)
	case *ast.VarAccessExpr:
		num = tagExprVarAccess
		body, err = encodeVarAccess(n)
	case *ast.FieldAccessExpr:
		num = tagExprFieldAccess
		body, err = encodeFieldAccess(n)
	case *ast.LiteralAccessExpr:
		num = tagExprLiteral
		body = encodeLiteralAccess(n)
	default:
		return nil, unencodable("expression", "unsupported expression type %T", e)
	}
	if err != nil {
		return nil, err
	}
	return appendField(nil, num, body), nil
}

func encodeUnary(n *ast.UnaryOperator) ([]byte, error) {
	out := appendField(nil, tagUnaryLoc, encodeLocation(n.Loc))
	out = appendStringField(out, tagUnaryOp, n.Op)
	if n.Operand != nil {
		body, err := encodeExpr(n.Operand)
		if err != nil {
			return nil, err
		}
		out = appendField(out, tagUnaryOperand, body)
	}
	return out, nil
}

func encodeBinary(n *ast.BinaryOperator) ([]byte, error) {
	out := appendField(nil, tagBinaryLoc, encodeLocation(n.Loc))
	out = appendStringField(out, tagBinaryOp, n.Op)
	if n.Left != nil {
		body, err := encodeExpr(n.Left)
		if err != nil {
			return nil, fmt.Errorf("left operand: %w", err)
		}
		out = appendField(out, tagBinaryLeft, body)
	}
	if n.Right != nil {
		body, err := encodeExpr(n.Right)
		if err != nil {
			return nil, fmt.Errorf("right operand: %w", err)
		}
		out = appendField(out, tagBinaryRight, body)
	}
	return out, nil
}

func encodeAssignment(n *ast.AssignmentExpr) ([]byte, error) {
	out := appendField(nil, tagAssignLoc, encodeLocation(n.Loc))
	out = appendStringField(out, tagAssignOp, n.Op)
	if n.Left != nil {
		body, err := encodeExpr(n.Left)
		if err != nil {
			return nil, fmt.Errorf("left side: %w", err)
		}
		out = appendField(out, tagAssignLeft, body)
	}
	if n.Right != nil {
		body, err := encodeExpr(n.Right)
		if err != nil {
			return nil, fmt.Errorf("right side: %w", err)
		}
		out = appendField(out, tagAssignRight, body)
	}
	return out, nil
}

func encodeTernary(n *ast.TernaryOperator) ([]byte, error) {
	out := appendField(nil, tagTernaryLoc, encodeLocation(n.Loc))
	if n.Cond != nil {
		body, err := encodeExpr(n.Cond)
		if err != nil {
			return nil, fmt.Errorf("condition: %w", err)
		}
		out = appendField(out, tagTernaryCond, body)
	}
	if n.Then != nil {
		body, err := encodeExpr(n.Then)
		if err != nil {
			return nil, fmt.Errorf("then branch: %w", err)
		}
		out = appendField(out, tagTernaryThen, body)
	}
	if n.Else != nil {
		body, err := encodeExpr(n.Else)
		if err != nil {
			return nil, fmt.Errorf("else branch: %w", err)
		}
		out = appendField(out, tagTernaryElse, body)
	}
	return out, nil
}

func encodeFunCall(n *ast.FunCallExpr) ([]byte, error) {
	out := appendField(nil, tagFunCallLoc, encodeLocation(n.Loc))
	out = appendStringField(out, tagFunCallCallee, n.Callee)
	for i, arg := range n.Args {
		body, err := encodeExpr(arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out = appendField(out, tagFunCallArg, body)
	}
	return out, nil
}

func encodeStencilFunCall(n *ast.StencilFunCallExpr) ([]byte, error) {
	out := appendField(nil, tagSFunCallLoc, encodeLocation(n.Loc))
	out = appendStringField(out, tagSFunCallCallee, n.Callee)
	for i, arg := range n.Args {
		body, err := encodeExpr(arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out = appendField(out, tagSFunCallArg, body)
	}
	return out, nil
}

func encodeStencilFunArg(n *ast.StencilFunArgExpr) []byte {
	out := appendField(nil, tagSFunArgLoc, encodeLocation(n.Loc))
	out = appendZigZagField(out, tagSFunArgDimension, int64(n.Dimension))
	out = appendZigZagField(out, tagSFunArgOffset, int64(n.Offset))
	return appendZigZagField(out, tagSFunArgArgumentIndex, int64(n.ArgumentIndex))
}

func encodeVarAccess(n *ast.VarAccessExpr) ([]byte, error) {
	out := appendField(nil, tagVarAccessLoc, encodeLocation(n.Loc))
	out = appendStringField(out, tagVarAccessName, n.Name)
	out = appendBoolField(out, tagVarAccessExternal, n.External)
	if n.Index != nil {
		body, err := encodeExpr(n.Index)
		if err != nil {
			return nil, fmt.Errorf("index: %w", err)
		}
		out = appendField(out, tagVarAccessIndex, body)
	}
	return out, nil
}

func encodeFieldAccess(n *ast.FieldAccessExpr) ([]byte, error) {
	out := appendField(nil, tagFieldAccessLoc, encodeLocation(n.Loc))
	out = appendStringField(out, tagFieldAccessName, n.Name)
	switch off := n.Offset.(type) {
	case ast.StaticOffset:
		out = appendField(out, tagFieldAccessStatic, appendTripleField(nil, tagStaticOffsets, off.Offsets))
	case ast.DeferredOffset:
		out = appendField(out, tagFieldAccessDeferred, encodeDeferredOffset(off))
	case nil:
		// No offset attached yet.
	default:
		return nil, unencodable("field access", "unsupported offset type %T", n.Offset)
	}
	return out, nil
}

func encodeDeferredOffset(off ast.DeferredOffset) []byte {
	out := appendTripleField(nil, tagDeferredOffsets, off.Offsets)
	out = appendTripleField(out, tagDeferredArgumentMap, off.ArgumentMap)
	out = appendTripleField(out, tagDeferredArgumentOffset, off.ArgumentOffset)
	return appendBoolField(out, tagDeferredNegate, off.NegateOffset)
}

func encodeLiteralAccess(n *ast.LiteralAccessExpr) []byte {
	out := appendField(nil, tagLiteralLoc, encodeLocation(n.Loc))
	out = appendStringField(out, tagLiteralValue, n.Value)
	return appendVarintField(out, tagLiteralKind, uint64(int64(n.Kind)))
}

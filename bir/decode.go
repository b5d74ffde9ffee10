package bir

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/seistools/stratum/ast"
	"github.com/seistools/stratum/iir"
	"github.com/seistools/stratum/meta"
)

// fields walks the tag/value stream of one message. The cursor carries
// the first structural error and goes inert afterwards, so decoders can
// fold over a message without checking every read. Unknown tags in
// plain messages are skipped; union messages reject them instead.
type fields struct {
	subject string
	buf     []byte
	num     protowire.Number
	typ     protowire.Type
	err     error
}

func messageFields(subject string, b []byte) *fields {
	return &fields{subject: subject, buf: b}
}

// next advances to the next field tag. It returns false at the end of
// the message or once an error is recorded.
func (f *fields) next() bool {
	if f.err != nil || len(f.buf) == 0 {
		return false
	}
	num, typ, n := protowire.ConsumeTag(f.buf)
	if n < 0 {
		f.err = malformed(f.subject, "invalid field tag: %v", protowire.ParseError(n))
		return false
	}
	f.buf = f.buf[n:]
	f.num, f.typ = num, typ
	return true
}

func (f *fields) fail(format string, args ...any) {
	if f.err == nil {
		f.err = malformed(f.subject, format, args...)
	}
}

func (f *fields) varint() uint64 {
	if f.err != nil {
		return 0
	}
	if f.typ != protowire.VarintType {
		f.fail("field %d: wire type %d, want varint", f.num, f.typ)
		return 0
	}
	v, n := protowire.ConsumeVarint(f.buf)
	if n < 0 {
		f.fail("field %d: %v", f.num, protowire.ParseError(n))
		return 0
	}
	f.buf = f.buf[n:]
	return v
}

func (f *fields) zigzag() int64 {
	return protowire.DecodeZigZag(f.varint())
}

func (f *fields) boolean() bool {
	return f.varint() != 0
}

// int32Varint reads a varint that must fit an int32-backed enum code.
func (f *fields) int32Varint() int32 {
	v := int64(f.varint())
	if f.err != nil {
		return 0
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		f.fail("field %d: value %d overflows int32", f.num, v)
		return 0
	}
	return int32(v)
}

func (f *fields) uint32Varint() uint32 {
	v := f.varint()
	if f.err != nil {
		return 0
	}
	if v > math.MaxUint32 {
		f.fail("field %d: value %d overflows uint32", f.num, v)
		return 0
	}
	return uint32(v)
}

func (f *fields) fixed64() uint64 {
	if f.err != nil {
		return 0
	}
	if f.typ != protowire.Fixed64Type {
		f.fail("field %d: wire type %d, want fixed64", f.num, f.typ)
		return 0
	}
	v, n := protowire.ConsumeFixed64(f.buf)
	if n < 0 {
		f.fail("field %d: %v", f.num, protowire.ParseError(n))
		return 0
	}
	f.buf = f.buf[n:]
	return v
}

func (f *fields) bytes() []byte {
	if f.err != nil {
		return nil
	}
	if f.typ != protowire.BytesType {
		f.fail("field %d: wire type %d, want bytes", f.num, f.typ)
		return nil
	}
	v, n := protowire.ConsumeBytes(f.buf)
	if n < 0 {
		f.fail("field %d: %v", f.num, protowire.ParseError(n))
		return nil
	}
	f.buf = f.buf[n:]
	return v
}

func (f *fields) text() string {
	return string(f.bytes())
}

func (f *fields) packedZigZag() []int64 {
	body := f.bytes()
	if f.err != nil {
		return nil
	}
	var out []int64
	for len(body) > 0 {
		v, n := protowire.ConsumeVarint(body)
		if n < 0 {
			f.fail("field %d: packed element: %v", f.num, protowire.ParseError(n))
			return nil
		}
		body = body[n:]
		out = append(out, protowire.DecodeZigZag(v))
	}
	return out
}

// triple reads a packed zigzag field that must hold exactly one value
// per dimension.
func (f *fields) triple() [ast.NumDimensions]int {
	vals := f.packedZigZag()
	var out [ast.NumDimensions]int
	if f.err != nil {
		return out
	}
	if len(vals) != ast.NumDimensions {
		f.fail("field %d: triple has %d elements, want %d", f.num, len(vals), ast.NumDimensions)
		return out
	}
	for d, v := range vals {
		out[d] = int(v)
	}
	return out
}

func (f *fields) skip() {
	if f.err != nil {
		return
	}
	n := protowire.ConsumeFieldValue(f.num, f.typ, f.buf)
	if n < 0 {
		f.fail("field %d: %v", f.num, protowire.ParseError(n))
		return
	}
	f.buf = f.buf[n:]
}

func decodeInstantiation(b []byte) (*iir.StencilInstantiation, error) {
	inst := &iir.StencilInstantiation{}
	f := messageFields("instantiation", b)
	for f.next() {
		switch f.num {
		case tagInstMeta:
			m, err := decodeMeta(f.bytes())
			if err != nil {
				return nil, err
			}
			inst.Meta = m
		case tagInstIR:
			r, err := decodeIR(f.bytes())
			if err != nil {
				return nil, err
			}
			inst.IR = r
		case tagInstNextStencilID:
			inst.NextStencilID = int64(f.varint())
		case tagInstNextMultiStageID:
			inst.NextMultiStageID = int64(f.varint())
		case tagInstNextStageID:
			inst.NextStageID = int64(f.varint())
		case tagInstNextDoMethodID:
			inst.NextDoMethodID = int64(f.varint())
		default:
			f.skip()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return inst, nil
}

func decodeMeta(b []byte) (*meta.StencilMetaInfo, error) {
	m := &meta.StencilMetaInfo{
		AccessIDToName:    map[meta.AccessID]string{},
		NameToAccessID:    map[string]meta.AccessID{},
		LiteralIDToName:   map[meta.AccessID]string{},
		APIFieldIDs:       map[meta.AccessID]struct{}{},
		TemporaryFieldIDs: map[meta.AccessID]struct{}{},
		GlobalVariableIDs: map[meta.AccessID]struct{}{},
		Versions:          meta.NewVariableVersions(),
		FieldDimensions:   map[string][ast.NumDimensions]bool{},
		Globals:           map[string]ast.GlobalValue{},
	}
	f := messageFields("metadata", b)
	for f.next() {
		switch f.num {
		case tagMetaUnitName:
			m.UnitName = f.text()
		case tagMetaFileName:
			m.FileName = f.text()
		case tagMetaLoc:
			loc, err := decodeLocation(f.bytes())
			if err != nil {
				return nil, err
			}
			m.Loc = loc
		case tagMetaName:
			id, name, err := decodeNameEntry(f.bytes())
			if err != nil {
				return nil, err
			}
			if _, dup := m.AccessIDToName[id]; dup {
				f.fail("duplicate name entry for access id %d", id)
				break
			}
			m.AccessIDToName[id] = name
			m.NameToAccessID[name] = id
		case tagMetaLiteral:
			id, name, err := decodeNameEntry(f.bytes())
			if err != nil {
				return nil, err
			}
			if _, dup := m.LiteralIDToName[id]; dup {
				f.fail("duplicate literal entry for access id %d", id)
				break
			}
			m.LiteralIDToName[id] = name
		case tagMetaAPIFields:
			decodeIDSet(f, m.APIFieldIDs, "api-field")
		case tagMetaTemporaries:
			decodeIDSet(f, m.TemporaryFieldIDs, "temporary-field")
		case tagMetaGlobalIDs:
			decodeIDSet(f, m.GlobalVariableIDs, "global-variable")
		case tagMetaVersionGroup:
			original, ids, err := decodeVersionGroup(f.bytes())
			if err != nil {
				return nil, err
			}
			if _, dup := m.Versions.VersionsByOriginal[original]; dup {
				f.fail("duplicate version group for original %d", original)
				break
			}
			for _, id := range ids {
				if _, dup := m.Versions.OriginalByVersion[id]; dup {
					f.fail("duplicate version id %d across groups", id)
					break
				}
				m.Versions.VersionsByOriginal[original] = append(m.Versions.VersionsByOriginal[original], id)
				m.Versions.OriginalByVersion[id] = original
			}
		case tagMetaDescStatement:
			desc, err := decodeDescStatement(f.bytes())
			if err != nil {
				return nil, err
			}
			m.DescStatements = append(m.DescStatements, desc)
		case tagMetaFieldDims:
			name, dims, err := decodeFieldDims(f.bytes())
			if err != nil {
				return nil, err
			}
			if _, dup := m.FieldDimensions[name]; dup {
				f.fail("duplicate field dimensions for %q", name)
				break
			}
			m.FieldDimensions[name] = dims
		case tagMetaGlobal:
			name, gv, err := decodeGlobalEntry(f.bytes())
			if err != nil {
				return nil, err
			}
			if _, dup := m.Globals[name]; dup {
				f.fail("duplicate global entry for %q", name)
				break
			}
			m.Globals[name] = gv
		case tagMetaNextAccessID:
			m.NextAccessID = meta.AccessID(f.varint())
		case tagMetaNextLiteralID:
			m.NextLiteralID = meta.AccessID(f.zigzag())
		default:
			f.skip()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return m, nil
}

// decodeIDSet folds one packed occurrence of a classification set into
// the map. A repeated ID anywhere in the set is a malformed stream; an
// ID shared between two different sets decodes fine and is left to the
// validator.
func decodeIDSet(f *fields, set map[meta.AccessID]struct{}, kind string) {
	for _, raw := range f.packedZigZag() {
		id := meta.AccessID(raw)
		if _, dup := set[id]; dup {
			f.fail("duplicate %s id %d", kind, id)
			return
		}
		set[id] = struct{}{}
	}
}

func decodeLocation(b []byte) (ast.SourceLocation, error) {
	var loc ast.SourceLocation
	f := messageFields("source location", b)
	for f.next() {
		switch f.num {
		case tagLocLine:
			loc.Line = int(f.zigzag())
		case tagLocColumn:
			loc.Column = int(f.zigzag())
		default:
			f.skip()
		}
	}
	return loc, f.err
}

func decodeNameEntry(b []byte) (meta.AccessID, string, error) {
	var id meta.AccessID
	var name string
	f := messageFields("name entry", b)
	for f.next() {
		switch f.num {
		case tagNameEntryID:
			id = meta.AccessID(f.zigzag())
		case tagNameEntryName:
			name = f.text()
		default:
			f.skip()
		}
	}
	return id, name, f.err
}

func decodeVersionGroup(b []byte) (meta.AccessID, []meta.AccessID, error) {
	var original meta.AccessID
	var ids []meta.AccessID
	f := messageFields("version group", b)
	for f.next() {
		switch f.num {
		case tagVersionOriginal:
			original = meta.AccessID(f.zigzag())
		case tagVersionIDs:
			for _, raw := range f.packedZigZag() {
				ids = append(ids, meta.AccessID(raw))
			}
		default:
			f.skip()
		}
	}
	return original, ids, f.err
}

func decodeDescStatement(b []byte) (*meta.DescStatement, error) {
	desc := &meta.DescStatement{}
	f := messageFields("description statement", b)
	for f.next() {
		switch f.num {
		case tagDescStmt:
			stmt, err := decodeStmt(f.bytes())
			if err != nil {
				return nil, err
			}
			desc.Stmt = stmt
		case tagDescStack:
			frame, err := decodeStencilCall(f.bytes())
			if err != nil {
				return nil, err
			}
			desc.CallStack = append(desc.CallStack, frame)
		default:
			f.skip()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return desc, nil
}

func decodeFieldDims(b []byte) (string, [ast.NumDimensions]bool, error) {
	var name string
	var dims [ast.NumDimensions]bool
	f := messageFields("field dimensions", b)
	for f.next() {
		switch f.num {
		case tagFieldDimsName:
			name = f.text()
		case tagFieldDimsMask:
			mask := f.varint()
			if f.err != nil {
				break
			}
			if mask >= 1<<ast.NumDimensions {
				f.fail("dimension mask %#x has bits beyond dimension %d", mask, ast.NumDimensions-1)
				break
			}
			for d := range dims {
				dims[d] = mask&(1<<d) != 0
			}
		default:
			f.skip()
		}
	}
	return name, dims, f.err
}

func decodeGlobalEntry(b []byte) (string, ast.GlobalValue, error) {
	var name string
	var gv ast.GlobalValue
	f := messageFields("global entry", b)
	for f.next() {
		switch f.num {
		case tagGlobalName:
			name = f.text()
		case tagGlobalValue:
			v, err := decodeGlobalValue(f.bytes())
			if err != nil {
				return "", ast.GlobalValue{}, err
			}
			gv = v
		default:
			f.skip()
		}
	}
	return name, gv, f.err
}

func decodeGlobalValue(b []byte) (ast.GlobalValue, error) {
	var gv ast.GlobalValue
	f := messageFields("global value", b)
	for f.next() {
		switch f.num {
		case tagGlobalValueKind:
			gv.Kind = ast.ValueKind(f.int32Varint())
		case tagGlobalValueValue:
			v, err := decodeValue(f.bytes())
			if err != nil {
				return ast.GlobalValue{}, err
			}
			gv.Value = v
		default:
			f.skip()
		}
	}
	return gv, f.err
}

func decodeValue(b []byte) (ast.Value, error) {
	var out ast.Value
	branches := 0
	f := messageFields("value", b)
	for f.next() {
		switch f.num {
		case tagValueBool:
			out = ast.BoolValue(f.boolean())
			branches++
		case tagValueInt:
			out = ast.IntValue(f.zigzag())
			branches++
		case tagValueFloat:
			out = ast.FloatValue(math.Float64frombits(f.fixed64()))
			branches++
		default:
			return nil, unknownVariant("value", "unknown branch tag %d", f.num)
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	if branches != 1 {
		return nil, unknownVariant("value", "%d branches set, want exactly one", branches)
	}
	return out, nil
}

func decodeIR(b []byte) (*iir.IR, error) {
	r := &iir.IR{}
	f := messageFields("ir", b)
	for f.next() {
		switch f.num {
		case tagIRStencil:
			st, err := decodeStencil(f.bytes())
			if err != nil {
				return nil, err
			}
			r.Stencils = append(r.Stencils, st)
		default:
			f.skip()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return r, nil
}

func decodeStencil(b []byte) (*iir.Stencil, error) {
	st := &iir.Stencil{}
	f := messageFields("stencil", b)
	for f.next() {
		switch f.num {
		case tagStencilID:
			st.ID = int64(f.varint())
		case tagStencilAttributes:
			st.Attributes = iir.Attributes(f.uint32Varint())
		case tagStencilMultiStage:
			ms, err := decodeMultiStage(f.bytes())
			if err != nil {
				return nil, err
			}
			st.MultiStages = append(st.MultiStages, ms)
		default:
			f.skip()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return st, nil
}

func decodeMultiStage(b []byte) (*iir.MultiStage, error) {
	ms := &iir.MultiStage{}
	f := messageFields("multistage", b)
	for f.next() {
		switch f.num {
		case tagMultiStageID:
			ms.ID = int64(f.varint())
		case tagMultiStageLoopOrder:
			code := iir.LoopOrder(f.int32Varint())
			if f.err == nil && !code.Valid() {
				f.fail("reserved or unknown loop order code %d", int32(code))
				break
			}
			ms.LoopOrder = code
		case tagMultiStageStage:
			stage, err := decodeStage(f.bytes())
			if err != nil {
				return nil, err
			}
			ms.Stages = append(ms.Stages, stage)
		default:
			f.skip()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return ms, nil
}

func decodeStage(b []byte) (*iir.Stage, error) {
	stage := &iir.Stage{}
	f := messageFields("stage", b)
	for f.next() {
		switch f.num {
		case tagStageID:
			stage.ID = int64(f.varint())
		case tagStageDoMethod:
			dm, err := decodeDoMethod(f.bytes())
			if err != nil {
				return nil, err
			}
			stage.DoMethods = append(stage.DoMethods, dm)
		default:
			f.skip()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return stage, nil
}

func decodeDoMethod(b []byte) (*iir.DoMethod, error) {
	dm := &iir.DoMethod{}
	f := messageFields("do-method", b)
	for f.next() {
		switch f.num {
		case tagDoMethodID:
			dm.ID = int64(f.varint())
		case tagDoMethodInterval:
			iv, err := decodeInterval(f.bytes())
			if err != nil {
				return nil, err
			}
			dm.Interval = iv
		case tagDoMethodPair:
			pair, err := decodePair(f.bytes())
			if err != nil {
				return nil, err
			}
			dm.Pairs = append(dm.Pairs, pair)
		default:
			f.skip()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return dm, nil
}

func decodeInterval(b []byte) (ast.Interval, error) {
	var iv ast.Interval
	f := messageFields("interval", b)
	for f.next() {
		switch f.num {
		case tagIntervalLower:
			bound, err := decodeBound(f.bytes())
			if err != nil {
				return ast.Interval{}, err
			}
			iv.Lower = bound
		case tagIntervalUpper:
			bound, err := decodeBound(f.bytes())
			if err != nil {
				return ast.Interval{}, err
			}
			iv.Upper = bound
		default:
			f.skip()
		}
	}
	return iv, f.err
}

// decodeBound reads an interval bound. The level is a union; the wire
// must name it exactly once. An absent bound message, by contrast,
// decodes to the level-less zero bound for the validator to flag.
func decodeBound(b []byte) (ast.IntervalBound, error) {
	var bound ast.IntervalBound
	levels := 0
	f := messageFields("interval bound", b)
	for f.next() {
		switch f.num {
		case tagBoundSymbolic:
			code := f.int32Varint()
			if f.err == nil && code != int32(ast.LevelStart) && code != int32(ast.LevelEnd) {
				f.fail("unknown symbolic level code %d", code)
				break
			}
			bound.Level = ast.SymbolicLevel(code)
			levels++
		case tagBoundConcrete:
			bound.Level = ast.ConcreteLevel(int(f.zigzag()))
			levels++
		case tagBoundOffset:
			bound.Offset = int(f.zigzag())
		default:
			f.skip()
		}
	}
	if f.err != nil {
		return ast.IntervalBound{}, f.err
	}
	if levels != 1 {
		return ast.IntervalBound{}, unknownVariant("interval bound", "%d level branches set, want exactly one", levels)
	}
	return bound, nil
}

func decodePair(b []byte) (*iir.StmtAccessPair, error) {
	pair := &iir.StmtAccessPair{}
	f := messageFields("statement access pair", b)
	for f.next() {
		switch f.num {
		case tagPairStmt:
			stmt, err := decodeStmt(f.bytes())
			if err != nil {
				return nil, err
			}
			pair.Stmt = stmt
		case tagPairCaller:
			a, err := decodeAccesses(f.bytes())
			if err != nil {
				return nil, err
			}
			pair.CallerAccesses = a
		case tagPairCallee:
			a, err := decodeAccesses(f.bytes())
			if err != nil {
				return nil, err
			}
			pair.CalleeAccesses = a
		default:
			f.skip()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return pair, nil
}

func decodeAccesses(b []byte) (*iir.Accesses, error) {
	a := iir.NewAccesses()
	f := messageFields("accesses", b)
	for f.next() {
		switch f.num {
		case tagAccessWrite:
			id, e, err := decodeAccessEntry(f.bytes())
			if err != nil {
				return nil, err
			}
			if _, dup := a.Writes[id]; dup {
				f.fail("duplicate write entry for access id %d", id)
				break
			}
			a.Writes[id] = e
		case tagAccessRead:
			id, e, err := decodeAccessEntry(f.bytes())
			if err != nil {
				return nil, err
			}
			if _, dup := a.Reads[id]; dup {
				f.fail("duplicate read entry for access id %d", id)
				break
			}
			a.Reads[id] = e
		default:
			f.skip()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return a, nil
}

func decodeAccessEntry(b []byte) (iir.AccessID, iir.Extents, error) {
	var id iir.AccessID
	var e iir.Extents
	f := messageFields("access entry", b)
	for f.next() {
		switch f.num {
		case tagAccessEntryID:
			id = iir.AccessID(f.zigzag())
		case tagAccessEntryExtents:
			ext, err := decodeExtents(f.bytes())
			if err != nil {
				return 0, iir.Extents{}, err
			}
			e = ext
		default:
			f.skip()
		}
	}
	return id, e, f.err
}

func decodeExtents(b []byte) (iir.Extents, error) {
	var e iir.Extents
	f := messageFields("extents", b)
	for f.next() {
		var d int
		switch f.num {
		case tagExtentsI:
			d = 0
		case tagExtentsJ:
			d = 1
		case tagExtentsK:
			d = 2
		default:
			f.skip()
			continue
		}
		ext, err := decodeExtent(f.bytes())
		if err != nil {
			return iir.Extents{}, err
		}
		e[d] = ext
	}
	return e, f.err
}

func decodeExtent(b []byte) (iir.Extent, error) {
	var e iir.Extent
	f := messageFields("extent", b)
	for f.next() {
		switch f.num {
		case tagExtentMinus:
			e.Minus = int(f.zigzag())
		case tagExtentPlus:
			e.Plus = int(f.zigzag())
		default:
			f.skip()
		}
	}
	return e, f.err
}

func decodeStmt(b []byte) (ast.Stmt, error) {
	var out ast.Stmt
	branches := 0
	f := messageFields("statement", b)
	for f.next() {
		var err error
		switch f.num {
		case tagStmtBlock:
			out, err = decodeBlockStmt(f.bytes())
		case tagStmtExpr:
			out, err = decodeExprStmt(f.bytes())
		case tagStmtReturn:
			out, err = decodeReturnStmt(f.bytes())
		case tagStmtVarDecl:
			out, err = decodeVarDeclStmt(f.bytes())
		case tagStmtVerticalRegion:
			out, err = decodeRegionStmt(f.bytes())
		case tagStmtStencilCallDecl:
			out, err = decodeCallDeclStmt(f.bytes())
		case tagStmtBoundaryCondition:
			out, err = decodeBoundaryStmt(f.bytes())
		case tagStmtIf:
			out, err = decodeIfStmt(f.bytes())
		default:
			return nil, unknownVariant("statement", "unknown branch tag %d", f.num)
		}
		if err != nil {
			return nil, err
		}
		branches++
	}
	if f.err != nil {
		return nil, f.err
	}
	if branches != 1 {
		return nil, unknownVariant("statement", "%d branches set, want exactly one", branches)
	}
	return out, nil
}

func decodeBlockStmt(b []byte) (*ast.BlockStmt, error) {
	n := &ast.BlockStmt{}
	f := messageFields("block", b)
	for f.next() {
		switch f.num {
		case tagBlockLoc:
			loc, err := decodeLocation(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Loc = loc
		case tagBlockStmt:
			child, err := decodeStmt(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Statements = append(n.Statements, child)
		default:
			f.skip()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return n, nil
}

func decodeExprStmt(b []byte) (*ast.ExprStmt, error) {
	n := &ast.ExprStmt{}
	f := messageFields("expression statement", b)
	for f.next() {
		switch f.num {
		case tagExprStmtLoc:
			loc, err := decodeLocation(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Loc = loc
		case tagExprStmtExpr:
			e, err := decodeExpr(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Expr = e
		default:
			f.skip()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return n, nil
}

func decodeReturnStmt(b []byte) (*ast.ReturnStmt, error) {
	n := &ast.ReturnStmt{}
	f := messageFields("return", b)
	for f.next() {
		switch f.num {
		case tagReturnLoc:
			loc, err := decodeLocation(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Loc = loc
		case tagReturnExpr:
			e, err := decodeExpr(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Expr = e
		default:
			f.skip()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return n, nil
}

func decodeVarDeclStmt(b []byte) (*ast.VarDeclStmt, error) {
	n := &ast.VarDeclStmt{}
	f := messageFields("variable declaration", b)
	for f.next() {
		switch f.num {
		case tagVarDeclLoc:
			loc, err := decodeLocation(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Loc = loc
		case tagVarDeclName:
			n.Name = f.text()
		case tagVarDeclKind:
			n.Kind = ast.ValueKind(f.int32Varint())
		case tagVarDeclDimension:
			n.Dimension = int(int64(f.varint()))
		case tagVarDeclOp:
			n.Op = f.text()
		case tagVarDeclInit:
			e, err := decodeExpr(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Init = append(n.Init, e)
		default:
			f.skip()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return n, nil
}

func decodeRegionStmt(b []byte) (*ast.VerticalRegionDeclStmt, error) {
	n := &ast.VerticalRegionDeclStmt{}
	f := messageFields("vertical region", b)
	for f.next() {
		switch f.num {
		case tagRegionLoc:
			loc, err := decodeLocation(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Loc = loc
		case tagRegionInterval:
			iv, err := decodeInterval(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Interval = iv
		case tagRegionOrder:
			code := ast.LoopOrder(f.int32Varint())
			if f.err == nil && code != ast.LoopOrderForward && code != ast.LoopOrderBackward {
				f.fail("unknown loop order code %d", int32(code))
				break
			}
			n.Order = code
		case tagRegionBody:
			body, err := decodeBlockStmt(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Body = body
		default:
			f.skip()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return n, nil
}

func decodeCallDeclStmt(b []byte) (*ast.StencilCallDeclStmt, error) {
	n := &ast.StencilCallDeclStmt{}
	f := messageFields("stencil call declaration", b)
	for f.next() {
		switch f.num {
		case tagCallDeclLoc:
			loc, err := decodeLocation(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Loc = loc
		case tagCallDeclCall:
			call, err := decodeStencilCall(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Call = call
		default:
			f.skip()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return n, nil
}

func decodeStencilCall(b []byte) (*ast.StencilCall, error) {
	c := &ast.StencilCall{}
	f := messageFields("stencil call", b)
	for f.next() {
		switch f.num {
		case tagStencilCallLoc:
			loc, err := decodeLocation(f.bytes())
			if err != nil {
				return nil, err
			}
			c.Loc = loc
		case tagStencilCallCallee:
			c.Callee = f.text()
		case tagStencilCallArg:
			c.Args = append(c.Args, f.text())
		default:
			f.skip()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return c, nil
}

func decodeBoundaryStmt(b []byte) (*ast.BoundaryConditionDeclStmt, error) {
	n := &ast.BoundaryConditionDeclStmt{}
	f := messageFields("boundary condition", b)
	for f.next() {
		switch f.num {
		case tagBoundaryLoc:
			loc, err := decodeLocation(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Loc = loc
		case tagBoundaryFunctor:
			n.Functor = f.text()
		case tagBoundaryField:
			n.Fields = append(n.Fields, f.text())
		default:
			f.skip()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return n, nil
}

func decodeIfStmt(b []byte) (*ast.IfStmt, error) {
	n := &ast.IfStmt{}
	f := messageFields("if", b)
	for f.next() {
		switch f.num {
		case tagIfLoc:
			loc, err := decodeLocation(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Loc = loc
		case tagIfCond:
			e, err := decodeExpr(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Cond = e
		case tagIfThen:
			s, err := decodeStmt(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Then = s
		case tagIfElse:
			s, err := decodeStmt(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Else = s
		default:
			f.skip()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return n, nil
}

func decodeExpr(b []byte) (ast.Expr, error) {
	var out ast.Expr
	branches := 0
	f := messageFields("expression", b)
	for f.next() {
		var err error
		switch f.num {
		case tagExprUnary:
			out, err = decodeUnary(f.bytes())
		case tagExprBinary:
			out, err = decodeBinary(f.bytes())
		case tagExprAssignment:
			out, err = decodeAssignment(f.bytes())
		case tagExprTernary:
			out, err = decodeTernary(f.bytes())
		case tagExprFunCall:
			out, err = decodeFunCall(f.bytes())
		case tagExprStencilFunCall:
			out, err = decodeStencilFunCall(f.bytes())
		case tagExprStencilFunArg:
			out, err = decodeStencilFunArg(f.bytes())
		case tagExprVarAccess:
			out, err = decodeVarAccess(f.bytes())
		case tagExprFieldAccess:
			out, err = decodeFieldAccess(f.bytes())
		case tagExprLiteral:
			out, err = decodeLiteralAccess(f.bytes())
		default:
			return nil, unknownVariant("expression", "unknown branch tag %d", f.num)
		}
		if err != nil {
			return nil, err
		}
		branches++
	}
	if f.err != nil {
		return nil, f.err
	}
	if branches != 1 {
		return nil, unknownVariant("expression", "%d branches set, want exactly one", branches)
	}
	return out, nil
}

func decodeUnary(b []byte) (*ast.UnaryOperator, error) {
	n := &ast.UnaryOperator{}
	f := messageFields("unary operator", b)
	for f.next() {
		switch f.num {
		case tagUnaryLoc:
			loc, err := decodeLocation(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Loc = loc
		case tagUnaryOp:
			n.Op = f.text()
		case tagUnaryOperand:
			e, err := decodeExpr(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Operand = e
		default:
			f.skip()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return n, nil
}

func decodeBinary(b []byte) (*ast.BinaryOperator, error) {
	n := &ast.BinaryOperator{}
	f := messageFields("binary operator", b)
	for f.next() {
		switch f.num {
		case tagBinaryLoc:
			loc, err := decodeLocation(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Loc = loc
		case tagBinaryOp:
			n.Op = f.text()
		case tagBinaryLeft:
			e, err := decodeExpr(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Left = e
		case tagBinaryRight:
			e, err := decodeExpr(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Right = e
		default:
			f.skip()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return n, nil
}

func decodeAssignment(b []byte) (*ast.AssignmentExpr, error) {
	n := &ast.AssignmentExpr{}
	f := messageFields("assignment", b)
	for f.next() {
		switch f.num {
		case tagAssignLoc:
			loc, err := decodeLocation(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Loc = loc
		case tagAssignOp:
			n.Op = f.text()
		case tagAssignLeft:
			e, err := decodeExpr(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Left = e
		case tagAssignRight:
			e, err := decodeExpr(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Right = e
		default:
			f.skip()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return n, nil
}

func decodeTernary(b []byte) (*ast.TernaryOperator, error) {
	n := &ast.TernaryOperator{}
	f := messageFields("ternary operator", b)
	for f.next() {
		switch f.num {
		case tagTernaryLoc:
			loc, err := decodeLocation(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Loc = loc
		case tagTernaryCond:
			e, err := decodeExpr(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Cond = e
		case tagTernaryThen:
			e, err := decodeExpr(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Then = e
		case tagTernaryElse:
			e, err := decodeExpr(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Else = e
		default:
			f.skip()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return n, nil
}

func decodeFunCall(b []byte) (*ast.FunCallExpr, error) {
	n := &ast.FunCallExpr{}
	f := messageFields("function call", b)
	for f.next() {
		switch f.num {
		case tagFunCallLoc:
			loc, err := decodeLocation(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Loc = loc
		case tagFunCallCallee:
			n.Callee = f.text()
		case tagFunCallArg:
			e, err := decodeExpr(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Args = append(n.Args, e)
		default:
			f.skip()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return n, nil
}

func decodeStencilFunCall(b []byte) (*ast.StencilFunCallExpr, error) {
	n := &ast.StencilFunCallExpr{}
	f := messageFields("stencil function call", b)
	for f.next() {
		switch f.num {
		case tagSFunCallLoc:
			loc, err := decodeLocation(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Loc = loc
		case tagSFunCallCallee:
			n.Callee = f.text()
		case tagSFunCallArg:
			e, err := decodeExpr(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Args = append(n.Args, e)
		default:
			f.skip()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return n, nil
}

func decodeStencilFunArg(b []byte) (*ast.StencilFunArgExpr, error) {
	n := &ast.StencilFunArgExpr{}
	f := messageFields("stencil function argument", b)
	for f.next() {
		switch f.num {
		case tagSFunArgLoc:
			loc, err := decodeLocation(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Loc = loc
		case tagSFunArgDimension:
			n.Dimension = int(f.zigzag())
		case tagSFunArgOffset:
			n.Offset = int(f.zigzag())
		case tagSFunArgArgumentIndex:
			n.ArgumentIndex = int(f.zigzag())
		default:
			f.skip()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return n, nil
}

func decodeVarAccess(b []byte) (*ast.VarAccessExpr, error) {
	n := &ast.VarAccessExpr{}
	f := messageFields("variable access", b)
	for f.next() {
		switch f.num {
		case tagVarAccessLoc:
			loc, err := decodeLocation(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Loc = loc
		case tagVarAccessName:
			n.Name = f.text()
		case tagVarAccessExternal:
			n.External = f.boolean()
		case tagVarAccessIndex:
			e, err := decodeExpr(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Index = e
		default:
			f.skip()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return n, nil
}

// decodeFieldAccess reads a field access. Its offset union may be
// absent entirely, meaning no displacement is attached yet.
func decodeFieldAccess(b []byte) (*ast.FieldAccessExpr, error) {
	n := &ast.FieldAccessExpr{}
	offsets := 0
	f := messageFields("field access", b)
	for f.next() {
		switch f.num {
		case tagFieldAccessLoc:
			loc, err := decodeLocation(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Loc = loc
		case tagFieldAccessName:
			n.Name = f.text()
		case tagFieldAccessStatic:
			off, err := decodeStaticOffset(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Offset = off
			offsets++
		case tagFieldAccessDeferred:
			off, err := decodeDeferredOffset(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Offset = off
			offsets++
		default:
			f.skip()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	if offsets > 1 {
		return nil, unknownVariant("field access", "%d offset branches set, want at most one", offsets)
	}
	return n, nil
}

func decodeStaticOffset(b []byte) (ast.StaticOffset, error) {
	var off ast.StaticOffset
	f := messageFields("static offset", b)
	for f.next() {
		switch f.num {
		case tagStaticOffsets:
			off.Offsets = ast.Offsets(f.triple())
		default:
			f.skip()
		}
	}
	return off, f.err
}

func decodeDeferredOffset(b []byte) (ast.DeferredOffset, error) {
	var off ast.DeferredOffset
	f := messageFields("deferred offset", b)
	for f.next() {
		switch f.num {
		case tagDeferredOffsets:
			off.Offsets = ast.Offsets(f.triple())
		case tagDeferredArgumentMap:
			off.ArgumentMap = f.triple()
		case tagDeferredArgumentOffset:
			off.ArgumentOffset = f.triple()
		case tagDeferredNegate:
			off.NegateOffset = f.boolean()
		default:
			f.skip()
		}
	}
	return off, f.err
}

func decodeLiteralAccess(b []byte) (*ast.LiteralAccessExpr, error) {
	n := &ast.LiteralAccessExpr{}
	f := messageFields("literal access", b)
	for f.next() {
		switch f.num {
		case tagLiteralLoc:
			loc, err := decodeLocation(f.bytes())
			if err != nil {
				return nil, err
			}
			n.Loc = loc
		case tagLiteralValue:
			n.Value = f.text()
		case tagLiteralKind:
			n.Kind = ast.ValueKind(f.int32Varint())
		default:
			f.skip()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return n, nil
}

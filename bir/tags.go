package bir

import "google.golang.org/protobuf/encoding/protowire"

// Every message field has its tag listed here and nowhere else. Tags are
// permanent: a new field takes a fresh tag, a removed field retires its
// tag forever. Enum codes ride on the types themselves (ast.ValueKind,
// ast.SymbolicLevel, ast.LoopOrder, iir.LoopOrder) and are equally frozen.

// StencilInstantiation.
const (
	tagInstMeta protowire.Number = iota + 1
	tagInstIR
	tagInstNextStencilID
	tagInstNextMultiStageID
	tagInstNextStageID
	tagInstNextDoMethodID
)

// StencilMetaInfo.
const (
	tagMetaUnitName protowire.Number = iota + 1
	tagMetaFileName
	tagMetaLoc
	tagMetaName          // repeated name entry, ascending ID
	tagMetaLiteral       // repeated name entry, ascending ID
	tagMetaAPIFields     // packed zigzag IDs, ascending
	tagMetaTemporaries   // packed zigzag IDs, ascending
	tagMetaGlobalIDs     // packed zigzag IDs, ascending
	tagMetaVersionGroup  // repeated, ascending original ID
	tagMetaDescStatement // repeated, sequence order
	tagMetaFieldDims     // repeated, ascending name
	tagMetaGlobal        // repeated, ascending name
	tagMetaNextAccessID
	tagMetaNextLiteralID // zigzag
)

// SourceLocation.
const (
	tagLocLine protowire.Number = iota + 1 // zigzag
	tagLocColumn                           // zigzag
)

// Name entry (named and literal tables).
const (
	tagNameEntryID protowire.Number = iota + 1 // zigzag
	tagNameEntryName
)

// Version group: one original with its versions in registration order.
const (
	tagVersionOriginal protowire.Number = iota + 1 // zigzag
	tagVersionIDs                                  // packed zigzag, registration order
)

// Description statement.
const (
	tagDescStmt protowire.Number = iota + 1
	tagDescStack // repeated stencil call
)

// Field dimensions entry.
const (
	tagFieldDimsName protowire.Number = iota + 1
	tagFieldDimsMask // varint, bit d = spans dimension d
)

// Global value entry.
const (
	tagGlobalName protowire.Number = iota + 1
	tagGlobalValue
)

// GlobalValue. The value union is absent for a declared-but-unset global.
const (
	tagGlobalValueKind protowire.Number = iota + 1
	tagGlobalValueValue
)

// Value union.
const (
	tagValueBool  protowire.Number = iota + 1 // varint
	tagValueInt                               // zigzag
	tagValueFloat                             // fixed64 bits
)

// IR root.
const (
	tagIRStencil protowire.Number = iota + 1
)

// Stencil.
const (
	tagStencilID protowire.Number = iota + 1
	tagStencilAttributes
	tagStencilMultiStage
)

// MultiStage.
const (
	tagMultiStageID protowire.Number = iota + 1
	tagMultiStageLoopOrder
	tagMultiStageStage
)

// Stage.
const (
	tagStageID protowire.Number = iota + 1
	tagStageDoMethod
)

// DoMethod.
const (
	tagDoMethodID protowire.Number = iota + 1
	tagDoMethodInterval
	tagDoMethodPair
)

// Interval.
const (
	tagIntervalLower protowire.Number = iota + 1
	tagIntervalUpper
)

// IntervalBound: the level is a union over symbolic/concrete; the offset
// is a plain field.
const (
	tagBoundSymbolic protowire.Number = iota + 1 // varint
	tagBoundConcrete                             // zigzag
	tagBoundOffset                               // zigzag
)

// StatementAccessPair.
const (
	tagPairStmt protowire.Number = iota + 1
	tagPairCaller
	tagPairCallee
)

// Accesses.
const (
	tagAccessWrite protowire.Number = iota + 1 // repeated access entry, ascending ID
	tagAccessRead                              // repeated access entry, ascending ID
)

// Access entry.
const (
	tagAccessEntryID protowire.Number = iota + 1 // zigzag
	tagAccessEntryExtents
)

// Extents / Extent.
const (
	tagExtentsI protowire.Number = iota + 1
	tagExtentsJ
	tagExtentsK
)

const (
	tagExtentMinus protowire.Number = iota + 1 // zigzag
	tagExtentPlus                              // zigzag
)

// Statement union.
const (
	tagStmtBlock protowire.Number = iota + 1
	tagStmtExpr
	tagStmtReturn
	tagStmtVarDecl
	tagStmtVerticalRegion
	tagStmtStencilCallDecl
	tagStmtBoundaryCondition
	tagStmtIf
)

// Expression union.
const (
	tagExprUnary protowire.Number = iota + 1
	tagExprBinary
	tagExprAssignment
	tagExprTernary
	tagExprFunCall
	tagExprStencilFunCall
	tagExprStencilFunArg
	tagExprVarAccess
	tagExprFieldAccess
	tagExprLiteral
)

// BlockStmt.
const (
	tagBlockLoc protowire.Number = iota + 1
	tagBlockStmt // repeated
)

// ExprStmt and ReturnStmt share a shape but not tags.
const (
	tagExprStmtLoc protowire.Number = iota + 1
	tagExprStmtExpr
)

const (
	tagReturnLoc protowire.Number = iota + 1
	tagReturnExpr
)

// VarDeclStmt.
const (
	tagVarDeclLoc protowire.Number = iota + 1
	tagVarDeclName
	tagVarDeclKind
	tagVarDeclDimension
	tagVarDeclOp
	tagVarDeclInit // repeated expression
)

// VerticalRegionDeclStmt.
const (
	tagRegionLoc protowire.Number = iota + 1
	tagRegionInterval
	tagRegionOrder
	tagRegionBody
)

// StencilCallDeclStmt.
const (
	tagCallDeclLoc protowire.Number = iota + 1
	tagCallDeclCall
)

// StencilCall.
const (
	tagStencilCallLoc protowire.Number = iota + 1
	tagStencilCallCallee
	tagStencilCallArg // repeated string
)

// BoundaryConditionDeclStmt.
const (
	tagBoundaryLoc protowire.Number = iota + 1
	tagBoundaryFunctor
	tagBoundaryField // repeated string
)

// IfStmt.
const (
	tagIfLoc protowire.Number = iota + 1
	tagIfCond
	tagIfThen
	tagIfElse
)

// UnaryOperator.
const (
	tagUnaryLoc protowire.Number = iota + 1
	tagUnaryOp
	tagUnaryOperand
)

// BinaryOperator.
const (
	tagBinaryLoc protowire.Number = iota + 1
	tagBinaryOp
	tagBinaryLeft
	tagBinaryRight
)

// AssignmentExpr.
const (
	tagAssignLoc protowire.Number = iota + 1
	tagAssignOp
	tagAssignLeft
	tagAssignRight
)

// TernaryOperator.
const (
	tagTernaryLoc protowire.Number = iota + 1
	tagTernaryCond
	tagTernaryThen
	tagTernaryElse
)

// FunCallExpr and StencilFunCallExpr share a shape but not tags.
const (
	tagFunCallLoc protowire.Number = iota + 1
	tagFunCallCallee
	tagFunCallArg // repeated expression
)

const (
	tagSFunCallLoc protowire.Number = iota + 1
	tagSFunCallCallee
	tagSFunCallArg // repeated expression
)

// StencilFunArgExpr.
const (
	tagSFunArgLoc protowire.Number = iota + 1
	tagSFunArgDimension     // zigzag
	tagSFunArgOffset        // zigzag
	tagSFunArgArgumentIndex // zigzag
)

// VarAccessExpr.
const (
	tagVarAccessLoc protowire.Number = iota + 1
	tagVarAccessName
	tagVarAccessExternal
	tagVarAccessIndex
)

// FieldAccessExpr: the offset is a union over static/deferred; both
// absent means the offset is not yet attached.
const (
	tagFieldAccessLoc protowire.Number = iota + 1
	tagFieldAccessName
	tagFieldAccessStatic
	tagFieldAccessDeferred
)

// StaticOffset.
const (
	tagStaticOffsets protowire.Number = iota + 1 // packed zigzag triple
)

// DeferredOffset.
const (
	tagDeferredOffsets protowire.Number = iota + 1 // packed zigzag triple
	tagDeferredArgumentMap                         // packed zigzag triple
	tagDeferredArgumentOffset                      // packed zigzag triple
	tagDeferredNegate
)

// LiteralAccessExpr.
const (
	tagLiteralLoc protowire.Number = iota + 1
	tagLiteralValue
	tagLiteralKind
)

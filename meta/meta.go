package meta

import (
	"fmt"
	"sort"

	"golang.org/x/text/unicode/norm"

	"github.com/seistools/stratum/ast"
)

// Normalize returns the NFC form of a symbol name. Every name entering or
// querying the tables passes through Normalize, so visually identical names
// from different front-ends resolve to the same entry.
func Normalize(name string) string {
	return norm.NFC.String(name)
}

// DescStatement is one top-level stencil description statement (a stencil
// call, boundary condition or compile-time if) annotated with the call stack
// of stencil-call frames that led to it. The stack is outermost-first and
// empty for statements written directly in the stencil description.
type DescStatement struct {
	Stmt      ast.Stmt
	CallStack []*ast.StencilCall
}

// StencilMetaInfo is the symbol table of one compilation unit. The maps are
// exported for the codec and validator; mutate them through the Add/Set
// methods, which keep the tables consistent. Bijectivity of the name tables
// and disjointness of the classification sets are re-checked by the
// instantiation validator rather than trusted.
type StencilMetaInfo struct {
	// UnitName is the stencil name of the unit.
	UnitName string

	// FileName is the source file the unit was built from.
	FileName string

	// Loc is the source position of the stencil declaration.
	Loc ast.SourceLocation

	// AccessIDToName maps every named (non-literal) ID to its name.
	// Bijective within the unit; NameToAccessID is the inverse.
	AccessIDToName map[AccessID]string
	NameToAccessID map[string]AccessID

	// LiteralIDToName maps literal IDs (negative) to the literal's source
	// rendering. Literals form a separate namespace from named IDs.
	LiteralIDToName map[AccessID]string

	// Classification sets: mutually exclusive partitions of the named-ID
	// set. Local variables carry no classification.
	APIFieldIDs       map[AccessID]struct{}
	TemporaryFieldIDs map[AccessID]struct{}
	GlobalVariableIDs map[AccessID]struct{}

	// Versions is the field-versioning table.
	Versions *VariableVersions

	// DescStatements is the ordered stencil description control flow.
	DescStatements []*DescStatement

	// FieldDimensions maps a field name to its user-declared legal
	// dimensionality.
	FieldDimensions map[string][ast.NumDimensions]bool

	// Globals maps a global-variable name to its declared kind and
	// optional compile-time value.
	Globals map[string]ast.GlobalValue

	// NextAccessID and NextLiteralID are the allocation counters. They
	// only ever move away from zero so that IDs are never reused within
	// the unit, and they are persisted so that decoded units keep
	// allocating fresh IDs.
	NextAccessID  AccessID
	NextLiteralID AccessID
}

// New returns an empty symbol table for one compilation unit.
func New(unitName, fileName string, loc ast.SourceLocation) *StencilMetaInfo {
	return &StencilMetaInfo{
		UnitName:          Normalize(unitName),
		FileName:          fileName,
		Loc:               loc,
		AccessIDToName:    map[AccessID]string{},
		NameToAccessID:    map[string]AccessID{},
		LiteralIDToName:   map[AccessID]string{},
		APIFieldIDs:       map[AccessID]struct{}{},
		TemporaryFieldIDs: map[AccessID]struct{}{},
		GlobalVariableIDs: map[AccessID]struct{}{},
		Versions:          NewVariableVersions(),
		FieldDimensions:   map[string][ast.NumDimensions]bool{},
		Globals:           map[string]ast.GlobalValue{},
		NextAccessID:      1,
		NextLiteralID:     -1,
	}
}

// registerName allocates a fresh positive ID for name. The name must not be
// registered yet.
func (m *StencilMetaInfo) registerName(name string) (AccessID, error) {
	name = Normalize(name)
	if name == "" {
		return 0, fmt.Errorf("metadata: empty symbol name")
	}
	if id, ok := m.NameToAccessID[name]; ok {
		return 0, fmt.Errorf("metadata: name %q already registered as access id %d", name, id)
	}
	id := m.NextAccessID
	m.NextAccessID++
	m.AccessIDToName[id] = name
	m.NameToAccessID[name] = id
	return id, nil
}

// AddField registers an API field with its declared dimensionality and
// returns its fresh access ID.
func (m *StencilMetaInfo) AddField(name string, dims [ast.NumDimensions]bool) (AccessID, error) {
	id, err := m.registerName(name)
	if err != nil {
		return 0, err
	}
	m.APIFieldIDs[id] = struct{}{}
	m.FieldDimensions[Normalize(name)] = dims
	return id, nil
}

// AddTemporary registers a temporary field with its declared dimensionality
// and returns its fresh access ID.
func (m *StencilMetaInfo) AddTemporary(name string, dims [ast.NumDimensions]bool) (AccessID, error) {
	id, err := m.registerName(name)
	if err != nil {
		return 0, err
	}
	m.TemporaryFieldIDs[id] = struct{}{}
	m.FieldDimensions[Normalize(name)] = dims
	return id, nil
}

// AddGlobalVariable registers a global variable with its declared kind and
// optional value, and returns its fresh access ID.
func (m *StencilMetaInfo) AddGlobalVariable(name string, value ast.GlobalValue) (AccessID, error) {
	id, err := m.registerName(name)
	if err != nil {
		return 0, err
	}
	m.GlobalVariableIDs[id] = struct{}{}
	m.Globals[Normalize(name)] = value
	return id, nil
}

// AddLocalVariable registers a local variable and returns its fresh access
// ID. Locals carry no classification.
func (m *StencilMetaInfo) AddLocalVariable(name string) (AccessID, error) {
	return m.registerName(name)
}

// AddLiteral registers one literal occurrence and returns its fresh negative
// access ID. Every occurrence gets its own ID, so equal literals in
// different statements stay distinguishable.
func (m *StencilMetaInfo) AddLiteral(value string) AccessID {
	id := m.NextLiteralID
	m.NextLiteralID--
	m.LiteralIDToName[id] = value
	return id
}

// AccessIDOf returns the ID registered for a name.
func (m *StencilMetaInfo) AccessIDOf(name string) (AccessID, error) {
	name = Normalize(name)
	id, ok := m.NameToAccessID[name]
	if !ok {
		return 0, &LookupError{Table: "name", Name: name}
	}
	return id, nil
}

// HasName reports whether a name is registered.
func (m *StencilMetaInfo) HasName(name string) bool {
	_, ok := m.NameToAccessID[Normalize(name)]
	return ok
}

// NameOf returns the name of an access ID. Negative IDs resolve against the
// literal table, positive IDs against the name table.
func (m *StencilMetaInfo) NameOf(id AccessID) (string, error) {
	if id < 0 {
		name, ok := m.LiteralIDToName[id]
		if !ok {
			return "", &LookupError{Table: "literal", ID: id}
		}
		return name, nil
	}
	name, ok := m.AccessIDToName[id]
	if !ok {
		return "", &LookupError{Table: "name", ID: id}
	}
	return name, nil
}

// IsAPIField reports whether id is classified as an API field.
func (m *StencilMetaInfo) IsAPIField(id AccessID) bool {
	_, ok := m.APIFieldIDs[id]
	return ok
}

// IsTemporaryField reports whether id is classified as a temporary field.
func (m *StencilMetaInfo) IsTemporaryField(id AccessID) bool {
	_, ok := m.TemporaryFieldIDs[id]
	return ok
}

// IsGlobalVariable reports whether id is classified as a global variable.
func (m *StencilMetaInfo) IsGlobalVariable(id AccessID) bool {
	_, ok := m.GlobalVariableIDs[id]
	return ok
}

// IsLiteral reports whether id names a literal occurrence.
func (m *StencilMetaInfo) IsLiteral(id AccessID) bool {
	_, ok := m.LiteralIDToName[id]
	return ok
}

// AddDescStatement appends one stencil description statement with its call
// stack.
func (m *StencilMetaInfo) AddDescStatement(stmt ast.Stmt, stack []*ast.StencilCall) {
	m.DescStatements = append(m.DescStatements, &DescStatement{Stmt: stmt, CallStack: stack})
}

// DimensionsOf returns the declared dimensionality of a field name.
func (m *StencilMetaInfo) DimensionsOf(name string) ([ast.NumDimensions]bool, error) {
	dims, ok := m.FieldDimensions[Normalize(name)]
	if !ok {
		return [ast.NumDimensions]bool{}, &LookupError{Table: "dimensions", Name: Normalize(name)}
	}
	return dims, nil
}

// Global returns the declared kind and optional value of a global variable.
func (m *StencilMetaInfo) Global(name string) (ast.GlobalValue, error) {
	gv, ok := m.Globals[Normalize(name)]
	if !ok {
		return ast.GlobalValue{}, &LookupError{Table: "global", Name: Normalize(name)}
	}
	return gv, nil
}

// SetGlobalValue stores a compile-time value for a declared global. The
// value's kind must match the declared kind.
func (m *StencilMetaInfo) SetGlobalValue(name string, value ast.Value) error {
	name = Normalize(name)
	gv, ok := m.Globals[name]
	if !ok {
		return &LookupError{Table: "global", Name: name}
	}
	updated, err := gv.WithValue(value)
	if err != nil {
		return fmt.Errorf("global %q: %w", name, err)
	}
	m.Globals[name] = updated
	return nil
}

// CreateVersion allocates the next version of an original field or local
// variable: a fresh access ID named "<base>_<n>", registered in the version
// table and classified like its original. Passing a version ID versions its
// original, keeping the table flat. Literals and global variables cannot be
// versioned.
func (m *StencilMetaInfo) CreateVersion(originalID AccessID) (AccessID, error) {
	if originalID < 0 {
		return 0, fmt.Errorf("metadata: cannot version literal access id %d", originalID)
	}
	if original, ok := m.Versions.OriginalOf(originalID); ok {
		originalID = original
	}
	if m.IsGlobalVariable(originalID) {
		return 0, fmt.Errorf("metadata: cannot version global variable access id %d", originalID)
	}
	base, err := m.NameOf(originalID)
	if err != nil {
		return 0, err
	}

	// First free "<base>_<n>", n starting at the next version ordinal.
	// A user-declared name may already occupy a slot.
	n := len(m.Versions.VersionsOf(originalID)) + 1
	name := fmt.Sprintf("%s_%d", base, n)
	for m.HasName(name) {
		n++
		name = fmt.Sprintf("%s_%d", base, n)
	}

	id, err := m.registerName(name)
	if err != nil {
		return 0, err
	}
	if err := m.Versions.Register(originalID, id); err != nil {
		return 0, err
	}
	switch {
	case m.IsAPIField(originalID):
		m.APIFieldIDs[id] = struct{}{}
	case m.IsTemporaryField(originalID):
		m.TemporaryFieldIDs[id] = struct{}{}
	}
	if dims, ok := m.FieldDimensions[base]; ok {
		m.FieldDimensions[name] = dims
	}
	return id, nil
}

// SortedNamedIDs returns every named (non-literal) ID, ascending.
func (m *StencilMetaInfo) SortedNamedIDs() []AccessID {
	return sortNameTableIDs(m.AccessIDToName)
}

// SortedLiteralIDs returns every literal ID, ascending (most negative
// first).
func (m *StencilMetaInfo) SortedLiteralIDs() []AccessID {
	return sortNameTableIDs(m.LiteralIDToName)
}

// SortedAPIFieldIDs returns the API-field classification set, ascending.
func (m *StencilMetaInfo) SortedAPIFieldIDs() []AccessID {
	return sortIDSet(m.APIFieldIDs)
}

// SortedTemporaryFieldIDs returns the temporary-field classification set,
// ascending.
func (m *StencilMetaInfo) SortedTemporaryFieldIDs() []AccessID {
	return sortIDSet(m.TemporaryFieldIDs)
}

// SortedGlobalVariableIDs returns the global-variable classification set,
// ascending.
func (m *StencilMetaInfo) SortedGlobalVariableIDs() []AccessID {
	return sortIDSet(m.GlobalVariableIDs)
}

// SortedGlobalNames returns the declared global-variable names, ascending.
func (m *StencilMetaInfo) SortedGlobalNames() []string {
	out := make([]string, 0, len(m.Globals))
	for name := range m.Globals {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// SortedFieldDimensionNames returns the field names with declared
// dimensionality, ascending.
func (m *StencilMetaInfo) SortedFieldDimensionNames() []string {
	out := make([]string, 0, len(m.FieldDimensions))
	for name := range m.FieldDimensions {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func sortNameTableIDs(table map[AccessID]string) []AccessID {
	out := make([]AccessID, 0, len(table))
	for id := range table {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortIDSet(set map[AccessID]struct{}) []AccessID {
	out := make([]AccessID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

package iir

import (
	"fmt"
	"sort"

	"github.com/seistools/stratum/ast"
)

// Validate re-checks every domain invariant of the instantiation and
// returns all findings instead of failing on the first. An empty result
// means the unit is well-formed. Decode deliberately never calls this, so a
// caller may decode a damaged unit and inspect it.
func (s *StencilInstantiation) Validate() []InvariantViolation {
	var v []InvariantViolation
	if s.Meta == nil {
		v = append(v, InvariantViolation{
			Code:    ErrIncomplete,
			Subject: "instantiation",
			Message: "no metadata tables",
		})
	}
	if s.IR == nil {
		v = append(v, InvariantViolation{
			Code:    ErrIncomplete,
			Subject: "instantiation",
			Message: "no IR root",
		})
	}
	if len(v) > 0 {
		return v
	}
	v = append(v, s.validateTree()...)
	v = append(v, s.validateNameTables()...)
	v = append(v, s.validateClassification()...)
	v = append(v, s.validateVersions()...)
	v = append(v, s.validateGlobals()...)
	v = append(v, s.validateOwnership()...)
	return v
}

// validateTree checks interval ordering, loop orders, per-kind ID uniqueness
// and allocator consistency across the IR tree.
func (s *StencilInstantiation) validateTree() []InvariantViolation {
	var v []InvariantViolation
	stencilIDs := map[int64]struct{}{}
	multiStageIDs := map[int64]struct{}{}
	stageIDs := map[int64]struct{}{}
	doMethodIDs := map[int64]struct{}{}

	checkID := func(kind string, id, next int64, seen map[int64]struct{}) {
		if _, dup := seen[id]; dup {
			v = append(v, InvariantViolation{
				Code:    ErrIDReuse,
				Subject: fmt.Sprintf("%s %d", kind, id),
				Message: fmt.Sprintf("%s ID used more than once", kind),
			})
		}
		seen[id] = struct{}{}
		if id >= next {
			v = append(v, InvariantViolation{
				Code:    ErrAllocator,
				Subject: fmt.Sprintf("%s %d", kind, id),
				Message: fmt.Sprintf("ID not below the next-%s counter %d", kind, next),
			})
		}
	}

	for _, st := range s.IR.Stencils {
		checkID("stencil", st.ID, s.NextStencilID, stencilIDs)
		for _, ms := range st.MultiStages {
			checkID("multistage", ms.ID, s.NextMultiStageID, multiStageIDs)
			if !ms.LoopOrder.Valid() {
				v = append(v, InvariantViolation{
					Code:    ErrLoopOrder,
					Subject: fmt.Sprintf("multistage %d", ms.ID),
					Message: fmt.Sprintf("unknown loop order code %d", int32(ms.LoopOrder)),
				})
			}
			for _, stage := range ms.Stages {
				checkID("stage", stage.ID, s.NextStageID, stageIDs)
				for _, dm := range stage.DoMethods {
					checkID("do-method", dm.ID, s.NextDoMethodID, doMethodIDs)
					if err := dm.Interval.Check(); err != nil {
						v = append(v, InvariantViolation{
							Code:    ErrIntervalOrder,
							Subject: fmt.Sprintf("do-method %d", dm.ID),
							Message: err.Error(),
						})
					}
				}
			}
		}
	}
	return v
}

// validateNameTables checks that the two name maps are mutual inverses, ID
// signs match their table, and the allocation counters are ahead of every
// issued ID.
func (s *StencilInstantiation) validateNameTables() []InvariantViolation {
	var v []InvariantViolation
	m := s.Meta

	for _, id := range m.SortedNamedIDs() {
		name := m.AccessIDToName[id]
		if id <= 0 {
			v = append(v, InvariantViolation{
				Code:    ErrNameTable,
				Subject: fmt.Sprintf("access id %d", id),
				Message: fmt.Sprintf("named ID for %q must be positive", name),
			})
		}
		if back, ok := m.NameToAccessID[name]; !ok || back != id {
			v = append(v, InvariantViolation{
				Code:    ErrNameTable,
				Subject: fmt.Sprintf("access id %d", id),
				Message: fmt.Sprintf("name %q does not map back to this ID", name),
			})
		}
		if id >= m.NextAccessID {
			v = append(v, InvariantViolation{
				Code:    ErrAllocator,
				Subject: fmt.Sprintf("access id %d", id),
				Message: fmt.Sprintf("ID not below the next-access-id counter %d", m.NextAccessID),
			})
		}
	}

	names := make([]string, 0, len(m.NameToAccessID))
	for name := range m.NameToAccessID {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		id := m.NameToAccessID[name]
		if forward, ok := m.AccessIDToName[id]; !ok || forward != name {
			v = append(v, InvariantViolation{
				Code:    ErrNameTable,
				Subject: fmt.Sprintf("name %q", name),
				Message: fmt.Sprintf("access id %d does not map back to this name", id),
			})
		}
	}

	for _, id := range m.SortedLiteralIDs() {
		if id >= 0 {
			v = append(v, InvariantViolation{
				Code:    ErrNameTable,
				Subject: fmt.Sprintf("access id %d", id),
				Message: "literal ID must be negative",
			})
		}
		if id <= m.NextLiteralID {
			v = append(v, InvariantViolation{
				Code:    ErrAllocator,
				Subject: fmt.Sprintf("access id %d", id),
				Message: fmt.Sprintf("ID not above the next-literal-id counter %d", m.NextLiteralID),
			})
		}
	}
	return v
}

// validateClassification checks that the classification sets partition only
// known named IDs and never overlap.
func (s *StencilInstantiation) validateClassification() []InvariantViolation {
	var v []InvariantViolation
	m := s.Meta

	sets := []struct {
		name string
		ids  []AccessID
	}{
		{"api-field", m.SortedAPIFieldIDs()},
		{"temporary-field", m.SortedTemporaryFieldIDs()},
		{"global-variable", m.SortedGlobalVariableIDs()},
	}
	owner := map[AccessID]string{}
	for _, set := range sets {
		for _, id := range set.ids {
			if _, known := m.AccessIDToName[id]; !known {
				v = append(v, InvariantViolation{
					Code:    ErrClassification,
					Subject: fmt.Sprintf("access id %d", id),
					Message: fmt.Sprintf("classified as %s but not in the name table", set.name),
				})
			}
			if prev, taken := owner[id]; taken {
				v = append(v, InvariantViolation{
					Code:    ErrClassification,
					Subject: fmt.Sprintf("access id %d", id),
					Message: fmt.Sprintf("classified as both %s and %s", prev, set.name),
				})
				continue
			}
			owner[id] = set.name
		}
	}
	return v
}

// validateVersions checks the versioning table against itself and the name
// table: mutual inverse maps, no chains, no duplicates, all IDs named.
func (s *StencilInstantiation) validateVersions() []InvariantViolation {
	var v []InvariantViolation
	m := s.Meta
	if m.Versions == nil {
		return []InvariantViolation{{
			Code:    ErrIncomplete,
			Subject: "versions",
			Message: "no versioning table",
		}}
	}
	vt := m.Versions

	for _, original := range vt.Originals() {
		if _, named := m.AccessIDToName[original]; !named {
			v = append(v, InvariantViolation{
				Code:    ErrVersionTable,
				Subject: fmt.Sprintf("access id %d", original),
				Message: "original ID not in the name table",
			})
		}
		if _, isVersion := vt.OriginalByVersion[original]; isVersion {
			v = append(v, InvariantViolation{
				Code:    ErrVersionTable,
				Subject: fmt.Sprintf("access id %d", original),
				Message: "original is itself registered as a version",
			})
		}
		seen := map[AccessID]struct{}{}
		for _, version := range vt.VersionsByOriginal[original] {
			if version == original {
				v = append(v, InvariantViolation{
					Code:    ErrVersionTable,
					Subject: fmt.Sprintf("access id %d", original),
					Message: "original listed as one of its own versions",
				})
			}
			if _, dup := seen[version]; dup {
				v = append(v, InvariantViolation{
					Code:    ErrVersionTable,
					Subject: fmt.Sprintf("access id %d", version),
					Message: fmt.Sprintf("listed twice under original %d", original),
				})
			}
			seen[version] = struct{}{}
			if back, ok := vt.OriginalByVersion[version]; !ok || back != original {
				v = append(v, InvariantViolation{
					Code:    ErrVersionTable,
					Subject: fmt.Sprintf("access id %d", version),
					Message: fmt.Sprintf("inverse lookup does not map back to original %d", original),
				})
			}
		}
	}

	for _, version := range vt.VersionIDs() {
		if _, named := m.AccessIDToName[version]; !named {
			v = append(v, InvariantViolation{
				Code:    ErrVersionTable,
				Subject: fmt.Sprintf("access id %d", version),
				Message: "version ID not in the name table",
			})
		}
		original := vt.OriginalByVersion[version]
		found := false
		for _, listed := range vt.VersionsByOriginal[original] {
			if listed == version {
				found = true
				break
			}
		}
		if !found {
			v = append(v, InvariantViolation{
				Code:    ErrVersionTable,
				Subject: fmt.Sprintf("access id %d", version),
				Message: fmt.Sprintf("not listed under its original %d", original),
			})
		}
	}
	return v
}

// validateGlobals cross-checks the global classification set, the name
// table and the value map, and the declared kind of every value.
func (s *StencilInstantiation) validateGlobals() []InvariantViolation {
	var v []InvariantViolation
	m := s.Meta

	for _, id := range m.SortedGlobalVariableIDs() {
		name, ok := m.AccessIDToName[id]
		if !ok {
			continue // reported by validateClassification
		}
		if _, declared := m.Globals[name]; !declared {
			v = append(v, InvariantViolation{
				Code:    ErrGlobals,
				Subject: fmt.Sprintf("access id %d", id),
				Message: fmt.Sprintf("global %q has no value entry", name),
			})
		}
	}

	for _, name := range m.SortedGlobalNames() {
		gv := m.Globals[name]
		switch gv.Kind {
		case ast.KindBoolean, ast.KindInteger, ast.KindFloat:
		default:
			v = append(v, InvariantViolation{
				Code:    ErrGlobals,
				Subject: fmt.Sprintf("global %q", name),
				Message: fmt.Sprintf("invalid declared kind %d", int32(gv.Kind)),
			})
		}
		if gv.IsSet() && gv.Value.Kind() != gv.Kind {
			v = append(v, InvariantViolation{
				Code:    ErrGlobals,
				Subject: fmt.Sprintf("global %q", name),
				Message: fmt.Sprintf("value kind %s contradicts declared kind %s", gv.Value.Kind(), gv.Kind),
			})
		}
		id, registered := m.NameToAccessID[name]
		if !registered {
			v = append(v, InvariantViolation{
				Code:    ErrGlobals,
				Subject: fmt.Sprintf("global %q", name),
				Message: "not registered in the name table",
			})
		} else if !m.IsGlobalVariable(id) {
			v = append(v, InvariantViolation{
				Code:    ErrGlobals,
				Subject: fmt.Sprintf("global %q", name),
				Message: fmt.Sprintf("access id %d not classified as a global variable", id),
			})
		}
	}
	return v
}

// validateOwnership checks exclusive statement ownership across the IR
// pairs and the description statements, and interval ordering of vertical
// regions inside description statements.
func (s *StencilInstantiation) validateOwnership() []InvariantViolation {
	var v []InvariantViolation
	seen := map[ast.Node]struct{}{}

	claim := func(subject string, stmt ast.Stmt) {
		if stmt == nil {
			v = append(v, InvariantViolation{
				Code:    ErrIncomplete,
				Subject: subject,
				Message: "no statement attached",
			})
			return
		}
		ast.Inspect(stmt, func(n ast.Node) bool {
			if _, dup := seen[n]; dup {
				v = append(v, InvariantViolation{
					Code:    ErrNodeShared,
					Subject: subject,
					Message: fmt.Sprintf("node %T owned by more than one place", n),
				})
				return false
			}
			seen[n] = struct{}{}
			if region, ok := n.(*ast.VerticalRegionDeclStmt); ok {
				if err := region.Interval.Check(); err != nil {
					v = append(v, InvariantViolation{
						Code:    ErrIntervalOrder,
						Subject: subject,
						Message: err.Error(),
					})
				}
			}
			return true
		})
	}

	for _, st := range s.IR.Stencils {
		for _, ms := range st.MultiStages {
			for _, stage := range ms.Stages {
				for _, dm := range stage.DoMethods {
					for i, pair := range dm.Pairs {
						claim(fmt.Sprintf("do-method %d pair %d", dm.ID, i), pair.Stmt)
					}
				}
			}
		}
	}
	for i, desc := range s.Meta.DescStatements {
		claim(fmt.Sprintf("description statement %d", i), desc.Stmt)
	}
	return v
}

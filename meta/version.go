package meta

import (
	"fmt"
	"sort"
)

// VariableVersions is the field-versioning table. Versioning implements
// SSA-like renaming: when reassigning a field would create a false
// dependency, the optimizer requests a fresh access ID for the "next
// version" of the original field. The table keeps, for every original, the
// ordered list of all versions ever created, plus the inverse lookup.
//
// The partition invariants: a version ID belongs to exactly one original, an
// original is never one of its own versions, and the version-ID set is
// disjoint from the original-ID set (no chains).
type VariableVersions struct {
	// VersionsByOriginal maps an original ID to all of its version IDs,
	// in creation order.
	VersionsByOriginal map[AccessID][]AccessID

	// OriginalByVersion is the inverse lookup.
	OriginalByVersion map[AccessID]AccessID
}

// NewVariableVersions returns an empty versioning table.
func NewVariableVersions() *VariableVersions {
	return &VariableVersions{
		VersionsByOriginal: map[AccessID][]AccessID{},
		OriginalByVersion:  map[AccessID]AccessID{},
	}
}

// Register records versionID as the next version of originalID. Registering
// the same pair twice is a no-op. Registering a version under a second
// original, an ID as its own version, or a registration that would chain
// versions (an original that is itself a version, or a version that already
// has versions of its own) returns an InvariantViolation.
func (v *VariableVersions) Register(originalID, versionID AccessID) error {
	if originalID == versionID {
		return InvariantViolation{
			Code:    ErrVersionSelf,
			Subject: fmt.Sprintf("access id %d", versionID),
			Message: "an original cannot be registered as its own version",
		}
	}
	if existing, ok := v.OriginalByVersion[versionID]; ok {
		if existing == originalID {
			return nil
		}
		return InvariantViolation{
			Code:    ErrVersionReparented,
			Subject: fmt.Sprintf("access id %d", versionID),
			Message: fmt.Sprintf("already a version of %d, cannot re-parent to %d", existing, originalID),
		}
	}
	if _, ok := v.OriginalByVersion[originalID]; ok {
		return InvariantViolation{
			Code:    ErrVersionChain,
			Subject: fmt.Sprintf("access id %d", originalID),
			Message: fmt.Sprintf("is itself a version, cannot own version %d", versionID),
		}
	}
	if len(v.VersionsByOriginal[versionID]) > 0 {
		return InvariantViolation{
			Code:    ErrVersionChain,
			Subject: fmt.Sprintf("access id %d", versionID),
			Message: fmt.Sprintf("owns versions of its own, cannot become a version of %d", originalID),
		}
	}
	v.VersionsByOriginal[originalID] = append(v.VersionsByOriginal[originalID], versionID)
	v.OriginalByVersion[versionID] = originalID
	return nil
}

// OriginalOf returns the original ID a version belongs to. For an ID that is
// not a version, ok is false.
func (v *VariableVersions) OriginalOf(id AccessID) (AccessID, bool) {
	original, ok := v.OriginalByVersion[id]
	return original, ok
}

// VersionsOf returns all versions of id, in creation order. The query works
// from either side: passing a version ID yields the versions of its
// original. The result is a copy; nil means id participates in no
// versioning.
func (v *VariableVersions) VersionsOf(id AccessID) []AccessID {
	if original, ok := v.OriginalByVersion[id]; ok {
		id = original
	}
	versions := v.VersionsByOriginal[id]
	if len(versions) == 0 {
		return nil
	}
	out := make([]AccessID, len(versions))
	copy(out, versions)
	return out
}

// IsVersioned reports whether id is a version of some original, i.e. a
// member of the global version-ID set.
func (v *VariableVersions) IsVersioned(id AccessID) bool {
	_, ok := v.OriginalByVersion[id]
	return ok
}

// Originals returns all original IDs that have at least one version, sorted.
func (v *VariableVersions) Originals() []AccessID {
	out := make([]AccessID, 0, len(v.VersionsByOriginal))
	for id := range v.VersionsByOriginal {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// VersionIDs returns the global version-ID set, sorted.
func (v *VariableVersions) VersionIDs() []AccessID {
	out := make([]AccessID, 0, len(v.OriginalByVersion))
	for id := range v.OriginalByVersion {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

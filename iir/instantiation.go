package iir

import (
	"github.com/seistools/stratum/ast"
	"github.com/seistools/stratum/meta"
)

// StencilInstantiation is the top-level unit the pipeline exchanges: one
// symbol table plus one IR root, built by the lowering stage from one AST
// stencil definition, mutated by the optimizer, consumed read-only by code
// generators and serialized at stage boundaries.
//
// Node IDs come from the per-kind counters below; each counter is monotonic
// and persisted so that a decoded unit keeps issuing fresh IDs.
type StencilInstantiation struct {
	Meta *meta.StencilMetaInfo
	IR   *IR

	NextStencilID    int64
	NextMultiStageID int64
	NextStageID      int64
	NextDoMethodID   int64
}

// NewStencilInstantiation returns an empty instantiation for one compilation
// unit.
func NewStencilInstantiation(unitName, fileName string, loc ast.SourceLocation) *StencilInstantiation {
	return &StencilInstantiation{
		Meta:             meta.New(unitName, fileName, loc),
		IR:               &IR{},
		NextStencilID:    1,
		NextMultiStageID: 1,
		NextStageID:      1,
		NextDoMethodID:   1,
	}
}

// NewStencilID issues the next stencil ID.
func (s *StencilInstantiation) NewStencilID() int64 {
	id := s.NextStencilID
	s.NextStencilID++
	return id
}

// NewMultiStageID issues the next multistage ID.
func (s *StencilInstantiation) NewMultiStageID() int64 {
	id := s.NextMultiStageID
	s.NextMultiStageID++
	return id
}

// NewStageID issues the next stage ID.
func (s *StencilInstantiation) NewStageID() int64 {
	id := s.NextStageID
	s.NextStageID++
	return id
}

// NewDoMethodID issues the next do-method ID.
func (s *StencilInstantiation) NewDoMethodID() int64 {
	id := s.NextDoMethodID
	s.NextDoMethodID++
	return id
}

// CreateVersion allocates the next SSA-like version of an original field or
// local variable; see the metadata table for the naming and classification
// rules.
func (s *StencilInstantiation) CreateVersion(originalID AccessID) (AccessID, error) {
	return s.Meta.CreateVersion(originalID)
}

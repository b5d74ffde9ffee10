// Package lower turns front-end syntax trees into stencil instantiations.
// Each stencil of a program becomes one StencilInstantiation with its own
// metadata tables: vertical regions lower to multistages, every other
// top-level statement is recorded descriptively, and the caller-side
// accesses of every region body statement are computed along the way.
// Callee accesses are attached later by the function inliner, never here.
package lower

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/seistools/stratum/ast"
	"github.com/seistools/stratum/iir"
	"github.com/seistools/stratum/meta"
)

// Lower builds one StencilInstantiation per stencil in the program.
// Instantiations are independent: disjoint access-ID namespaces, disjoint
// trees. The unit's globals are registered into every instantiation in
// name order, after the stencil's fields.
func Lower(ctx context.Context, prog *ast.Program) ([]*iir.StencilInstantiation, error) {
	if prog == nil {
		return nil, fmt.Errorf("lower: nil program")
	}
	out := make([]*iir.StencilInstantiation, 0, len(prog.Stencils))
	for _, st := range prog.Stencils {
		inst, err := lowerStencil(prog, st)
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	slog.Debug("lowered program", "file", prog.Filename, "stencils", len(out))
	return out, nil
}

func lowerStencil(prog *ast.Program, st *ast.Stencil) (*iir.StencilInstantiation, error) {
	inst := iir.NewStencilInstantiation(st.Name, prog.Filename, st.Loc)

	attrs, err := parseAttributes(st.Attributes)
	if err != nil {
		return nil, &LowerError{Stencil: st.Name, Loc: st.Loc, Err: err}
	}
	if err := registerSymbols(inst.Meta, prog, st); err != nil {
		return nil, &LowerError{Stencil: st.Name, Loc: st.Loc, Err: err}
	}

	root := &iir.Stencil{ID: inst.NewStencilID(), Attributes: attrs}
	inst.IR.AppendStencil(root)

	statements := 0
	if st.Body != nil {
		for _, s := range st.Body.Statements {
			n, err := lowerTopLevel(inst, root, s)
			if err != nil {
				return nil, &LowerError{Stencil: st.Name, Loc: st.Loc, Err: err}
			}
			statements += n
		}
	}

	slog.Debug("lowered stencil",
		"stencil", st.Name,
		"multistages", len(root.MultiStages),
		"statements", statements,
		"symbols", len(inst.Meta.AccessIDToName),
	)
	return inst, nil
}

// registerSymbols populates the instantiation's name tables: declared
// fields and temporaries first, then the unit's globals in name order so
// that assigned IDs are deterministic.
func registerSymbols(m *meta.StencilMetaInfo, prog *ast.Program, st *ast.Stencil) error {
	for _, f := range st.Fields {
		var err error
		if f.IsTemporary {
			_, err = m.AddTemporary(f.Name, f.Dimensions)
		} else {
			_, err = m.AddField(f.Name, f.Dimensions)
		}
		if err != nil {
			return err
		}
	}
	names := make([]string, 0, len(prog.Globals))
	for name := range prog.Globals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := m.AddGlobalVariable(name, prog.Globals[name]); err != nil {
			return err
		}
	}
	return nil
}

// lowerTopLevel dispatches one statement of the stencil body. Vertical
// regions become IR; calls, boundary conditions, conditionals and variable
// declarations are recorded as description statements (conditional region
// execution is resolved by the later instantiation pass, not here).
// Anything else at this level means the front-end contract was violated.
func lowerTopLevel(inst *iir.StencilInstantiation, root *iir.Stencil, s ast.Stmt) (int, error) {
	switch stmt := s.(type) {
	case *ast.VerticalRegionDeclStmt:
		return lowerRegion(inst, root, stmt)
	case *ast.StencilCallDeclStmt:
		inst.Meta.AddDescStatement(stmt, nil)
		return 1, nil
	case *ast.BoundaryConditionDeclStmt:
		inst.Meta.AddDescStatement(stmt, nil)
		return 1, nil
	case *ast.IfStmt:
		inst.Meta.AddDescStatement(stmt, nil)
		return 1, nil
	case *ast.VarDeclStmt:
		if _, err := inst.Meta.AddLocalVariable(stmt.Name); err != nil {
			return 0, err
		}
		inst.Meta.AddDescStatement(stmt, nil)
		return 1, nil
	default:
		return 0, fmt.Errorf("statement %T not allowed at stencil top level", s)
	}
}

// lowerRegion builds one multistage / stage / do-method chain for a
// vertical region. Every body statement becomes its own pair with freshly
// computed caller accesses.
func lowerRegion(inst *iir.StencilInstantiation, root *iir.Stencil, region *ast.VerticalRegionDeclStmt) (int, error) {
	if err := region.Interval.Check(); err != nil {
		return 0, fmt.Errorf("vertical region at %s: %w", region.Loc, err)
	}
	ms := &iir.MultiStage{ID: inst.NewMultiStageID(), LoopOrder: lowerLoopOrder(region.Order)}
	root.AppendMultiStage(ms)
	stage := &iir.Stage{ID: inst.NewStageID()}
	ms.AppendStage(stage)
	dm := &iir.DoMethod{ID: inst.NewDoMethodID(), Interval: region.Interval}
	stage.AppendDoMethod(dm)

	if region.Body == nil {
		return 0, nil
	}
	for _, s := range region.Body.Statements {
		pair := iir.NewStmtAccessPair(s)
		if err := computeAccesses(inst.Meta, s, pair.CallerAccesses); err != nil {
			return 0, fmt.Errorf("vertical region at %s: %w", region.Loc, err)
		}
		dm.AppendPair(pair)
	}
	return len(region.Body.Statements), nil
}

// lowerLoopOrder maps the source loop order onto the wire codes. Parallel
// never comes from source; the optimizer assigns it.
func lowerLoopOrder(o ast.LoopOrder) iir.LoopOrder {
	if o == ast.LoopOrderBackward {
		return iir.LoopOrderBackward
	}
	return iir.LoopOrderForward
}

func parseAttributes(names []string) (iir.Attributes, error) {
	var attrs iir.Attributes
	for _, name := range names {
		flag, ok := iir.ParseAttribute(name)
		if !ok {
			return 0, fmt.Errorf("unknown stencil attribute %q", name)
		}
		attrs = attrs.Set(flag)
	}
	return attrs, nil
}

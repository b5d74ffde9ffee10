package iir

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/seistools/stratum/ast"
)

// Dump writes a deterministic, human-readable rendering of the whole
// instantiation: equal instantiations produce byte-identical output, so the
// rendering is safe to diff and to pin in golden files. Dump tolerates
// damaged units (it renders what is there) and never validates.
func (s *StencilInstantiation) Dump(w io.Writer) error {
	p := &printer{w: w}
	m := s.Meta
	if m == nil {
		p.printf("stencil-instantiation <no metadata>\n")
	} else {
		p.printf("stencil-instantiation %q (file %s, declared %s)\n", m.UnitName, m.FileName, m.Loc)
		s.dumpMeta(p)
	}
	if s.IR != nil {
		s.dumpIR(p)
	}
	return p.err
}

func (s *StencilInstantiation) dumpMeta(p *printer) {
	m := s.Meta

	if names := m.SortedGlobalNames(); len(names) > 0 {
		p.printf("globals:\n")
		for _, name := range names {
			p.printf("  %s: %s\n", name, m.Globals[name])
		}
	}

	if ids := m.SortedNamedIDs(); len(ids) > 0 {
		p.printf("symbols:\n")
		for _, id := range ids {
			name := m.AccessIDToName[id]
			line := fmt.Sprintf("  [%d] %s %s", id, name, s.classification(id))
			if dims, ok := m.FieldDimensions[name]; ok {
				line += " " + dimensionsMask(dims)
			}
			p.printf("%s\n", line)
		}
	}

	if ids := m.SortedLiteralIDs(); len(ids) > 0 {
		p.printf("literals:\n")
		for _, id := range ids {
			p.printf("  [%d] %s\n", id, m.LiteralIDToName[id])
		}
	}

	if m.Versions != nil {
		if originals := m.Versions.Originals(); len(originals) > 0 {
			p.printf("versions:\n")
			for _, original := range originals {
				var parts []string
				for _, version := range m.Versions.VersionsByOriginal[original] {
					parts = append(parts, strconv.FormatInt(int64(version), 10))
				}
				p.printf("  %d -> [%s]\n", original, strings.Join(parts, ", "))
			}
		}
	}

	if len(m.DescStatements) > 0 {
		p.printf("description:\n")
		for i, desc := range m.DescStatements {
			line := fmt.Sprintf("  [%d] %s", i, ast.Sprint(desc.Stmt))
			if len(desc.CallStack) > 0 {
				var frames []string
				for _, call := range desc.CallStack {
					frames = append(frames, ast.Sprint(call))
				}
				line += " (stack: " + strings.Join(frames, " > ") + ")"
			}
			p.printf("%s\n", line)
		}
	}
}

func (s *StencilInstantiation) dumpIR(p *printer) {
	p.printf("ir:\n")
	for _, st := range s.IR.Stencils {
		p.printf("  stencil [%d] attributes %s\n", st.ID, st.Attributes)
		for _, ms := range st.MultiStages {
			p.printf("    multistage [%d] %s\n", ms.ID, ms.LoopOrder)
			for _, stage := range ms.Stages {
				p.printf("      stage [%d]\n", stage.ID)
				for _, dm := range stage.DoMethods {
					p.printf("        do-method [%d] %s\n", dm.ID, dm.Interval)
					for _, pair := range dm.Pairs {
						p.printf("          %s\n", ast.Sprint(pair.Stmt))
						if pair.CallerAccesses != nil {
							p.printf("            caller %s\n", pair.CallerAccesses)
						}
						if pair.CalleeAccesses != nil {
							p.printf("            callee %s\n", pair.CalleeAccesses)
						}
					}
				}
			}
		}
	}
}

func (s *StencilInstantiation) classification(id AccessID) string {
	switch {
	case s.Meta.IsAPIField(id):
		return "api"
	case s.Meta.IsTemporaryField(id):
		return "temporary"
	case s.Meta.IsGlobalVariable(id):
		return "global"
	default:
		return "local"
	}
}

func dimensionsMask(dims [ast.NumDimensions]bool) string {
	var parts []string
	for d := 0; d < ast.NumDimensions; d++ {
		if dims[d] {
			parts = append(parts, ast.DimensionName(d))
		}
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// printer folds write errors so dump code stays linear.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

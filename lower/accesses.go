package lower

import (
	"fmt"

	"github.com/seistools/stratum/ast"
	"github.com/seistools/stratum/iir"
	"github.com/seistools/stratum/meta"
)

// computeAccesses records the caller-side reads and writes of one region
// body statement. Assignment targets are writes (compound assignments also
// read their target); every other field or variable access is a read.
// Variable and global accesses are pointwise; field accesses contribute
// the extent of their static offsets. Every literal occurrence gets a
// fresh negative access ID.
func computeAccesses(m *meta.StencilMetaInfo, s ast.Stmt, acc *iir.Accesses) error {
	c := &accessComputer{meta: m, acc: acc}
	return c.stmt(s)
}

type accessComputer struct {
	meta *meta.StencilMetaInfo
	acc  *iir.Accesses
}

func (c *accessComputer) stmt(s ast.Stmt) error {
	switch stmt := s.(type) {
	case *ast.BlockStmt:
		for _, inner := range stmt.Statements {
			if err := c.stmt(inner); err != nil {
				return err
			}
		}
		return nil

	case *ast.ExprStmt:
		return c.expr(stmt.Expr, false)

	case *ast.VarDeclStmt:
		id, err := c.meta.AddLocalVariable(stmt.Name)
		if err != nil {
			return err
		}
		if len(stmt.Init) > 0 {
			c.acc.AddWrite(id, iir.PointwiseExtents())
		}
		for _, e := range stmt.Init {
			if err := c.expr(e, false); err != nil {
				return err
			}
		}
		return nil

	case *ast.IfStmt:
		if err := c.expr(stmt.Cond, false); err != nil {
			return err
		}
		if err := c.stmt(stmt.Then); err != nil {
			return err
		}
		if stmt.Else != nil {
			return c.stmt(stmt.Else)
		}
		return nil

	case *ast.ReturnStmt:
		return fmt.Errorf("return statement outside a stencil function")

	case *ast.VerticalRegionDeclStmt:
		return fmt.Errorf("vertical region nested inside a vertical region")

	default:
		return fmt.Errorf("statement %T not allowed inside a vertical region", s)
	}
}

func (c *accessComputer) expr(e ast.Expr, write bool) error {
	switch ex := e.(type) {
	case *ast.AssignmentExpr:
		switch ex.Left.(type) {
		case *ast.FieldAccessExpr, *ast.VarAccessExpr:
		default:
			return fmt.Errorf("assignment target must be a field or variable access, not %T", ex.Left)
		}
		if err := c.expr(ex.Left, true); err != nil {
			return err
		}
		if ex.Op != "=" {
			// A compound target reads its previous value.
			if err := c.expr(ex.Left, false); err != nil {
				return err
			}
		}
		return c.expr(ex.Right, false)

	case *ast.UnaryOperator:
		return c.expr(ex.Operand, false)

	case *ast.BinaryOperator:
		if err := c.expr(ex.Left, false); err != nil {
			return err
		}
		return c.expr(ex.Right, false)

	case *ast.TernaryOperator:
		if err := c.expr(ex.Cond, false); err != nil {
			return err
		}
		if err := c.expr(ex.Then, false); err != nil {
			return err
		}
		return c.expr(ex.Else, false)

	case *ast.FunCallExpr:
		return c.args(ex.Args)

	case *ast.StencilFunCallExpr:
		return c.args(ex.Args)

	case *ast.StencilFunArgExpr:
		// Direction or offset placeholder; reads no data.
		return nil

	case *ast.FieldAccessExpr:
		return c.field(ex, write)

	case *ast.VarAccessExpr:
		return c.variable(ex, write)

	case *ast.LiteralAccessExpr:
		c.acc.AddRead(c.meta.AddLiteral(ex.Value), iir.PointwiseExtents())
		return nil

	case nil:
		return fmt.Errorf("missing expression")

	default:
		return fmt.Errorf("unsupported expression %T", e)
	}
}

func (c *accessComputer) field(e *ast.FieldAccessExpr, write bool) error {
	offsets, ok := e.StaticOffsets()
	if !ok {
		return fmt.Errorf("field %q at %s: offset not resolved before lowering", e.Name, e.Loc)
	}
	id, err := c.meta.AccessIDOf(e.Name)
	if err != nil {
		return err
	}
	ext := iir.ExtentsFromOffsets(offsets)
	if write {
		c.acc.AddWrite(id, ext)
	} else {
		c.acc.AddRead(id, ext)
	}
	return nil
}

func (c *accessComputer) variable(e *ast.VarAccessExpr, write bool) error {
	if e.Index != nil {
		if err := c.expr(e.Index, false); err != nil {
			return err
		}
	}
	id, err := c.meta.AccessIDOf(e.Name)
	if err != nil {
		return err
	}
	if write {
		c.acc.AddWrite(id, iir.PointwiseExtents())
	} else {
		c.acc.AddRead(id, iir.PointwiseExtents())
	}
	return nil
}

func (c *accessComputer) args(args []ast.Expr) error {
	for _, a := range args {
		if err := c.expr(a, false); err != nil {
			return err
		}
	}
	return nil
}

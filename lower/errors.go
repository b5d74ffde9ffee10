package lower

import (
	"errors"
	"fmt"

	"github.com/seistools/stratum/ast"
)

// LowerError wraps a failure while lowering one stencil, carrying the
// stencil name and declaration site for diagnostics.
type LowerError struct {
	Stencil string
	Loc     ast.SourceLocation
	Err     error
}

func (e *LowerError) Error() string {
	if e.Loc.IsUnknown() {
		return fmt.Sprintf("lower stencil %q: %v", e.Stencil, e.Err)
	}
	return fmt.Sprintf("lower stencil %q at %s: %v", e.Stencil, e.Loc, e.Err)
}

func (e *LowerError) Unwrap() error { return e.Err }

// IsLowerError reports whether err is or wraps a LowerError.
func IsLowerError(err error) bool {
	var e *LowerError
	return errors.As(err, &e)
}

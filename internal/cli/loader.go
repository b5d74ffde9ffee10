package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/seistools/stratum/bir"
	"github.com/seistools/stratum/iir"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric   = "E001" // Generic/unknown error
	ErrCodeNotFound  = "E002" // Input file not found or unreadable
	ErrCodeMalformed = "E003" // Bytes failed structural decode
	ErrCodeInvalid   = "E004" // Decoded unit violates invariants
	ErrCodeOverride  = "E005" // Globals override rejected
	ErrCodeArchive   = "E006" // Archive operation failed
)

// LoadError describes a failure to load an encoded unit file.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadUnit reads and decodes one encoded instantiation file. The raw
// bytes ride along so callers can re-archive them untouched.
func LoadUnit(path string) (*iir.StencilInstantiation, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading %s: %v", path, err)}
	}

	unit, err := bir.Decode(data)
	if err != nil {
		return nil, nil, &LoadError{Code: ErrCodeMalformed, Message: fmt.Sprintf("decoding %s: %v", path, err)}
	}

	return unit, data, nil
}

// outputLoadError reports a load failure and converts it to a command
// error exit.
func outputLoadError(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
		return NewExitError(ExitCommandError, loadErr.Message)
	}
	_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return NewExitError(ExitCommandError, err.Error())
}

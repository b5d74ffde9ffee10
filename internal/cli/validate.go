package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seistools/stratum/iir"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid      bool        `json:"valid"`
	Violations []Violation `json:"violations,omitempty"`
}

// Violation is the JSON rendering of one invariant violation.
type Violation struct {
	Code    string `json:"code"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <unit-file>",
		Short: "Check an encoded unit against the IR invariants",
		Long: `Decode an encoded stencil instantiation and run the full invariant
suite: interval ordering, ID uniqueness, node ownership, name tables,
classification sets, versioning, allocators, and globals.

Exits 0 when the unit is valid, 1 when it decodes but violates
invariants, 2 when the file cannot be read or decoded.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	unit, data, err := LoadUnit(path)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	formatter.VerboseLog("decoded %s (%d bytes)", path, len(data))

	violations := unit.Validate()
	if len(violations) > 0 {
		return outputViolations(formatter, violations)
	}

	return outputValidateSuccess(formatter)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true})
	}

	fmt.Fprintln(formatter.Writer, "✓ unit valid")
	return nil
}

// outputViolations outputs the collected invariant violations.
func outputViolations(formatter *OutputFormatter, violations []iir.InvariantViolation) error {
	rendered := make([]Violation, 0, len(violations))
	for _, v := range violations {
		rendered = append(rendered, Violation{Code: v.Code, Subject: v.Subject, Message: v.Message})
	}

	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Violations: rendered},
			Error: &CLIError{
				Code:    ErrCodeInvalid,
				Message: rendered[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Invariant violations = exit code 1 (validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d violation(s)", len(rendered)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ unit invalid")
	fmt.Fprintln(formatter.Writer)

	for _, v := range rendered {
		if v.Subject != "" {
			fmt.Fprintf(formatter.Writer, "  %s %s: %s\n", v.Code, v.Subject, v.Message)
		} else {
			fmt.Fprintf(formatter.Writer, "  %s: %s\n", v.Code, v.Message)
		}
	}

	// Invariant violations = exit code 1 (validation failure)
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d violation(s)", len(rendered)))
}

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/seistools/stratum/ast"
	"github.com/seistools/stratum/bir"
	"github.com/seistools/stratum/iir"
	"github.com/seistools/stratum/meta"
)

// GlobalsResult is the JSON payload for a completed override run.
type GlobalsResult struct {
	Updated []string `json:"updated"`
	Output  string   `json:"output"`
}

// override is one parsed name/value pair from the set file.
type override struct {
	name  string
	value ast.Value
}

// NewGlobalsCommand creates the globals command.
func NewGlobalsCommand(rootOpts *RootOptions) *cobra.Command {
	var setFile string
	var output string

	cmd := &cobra.Command{
		Use:   "globals <unit-file>",
		Short: "Override global values in an encoded unit",
		Long: `Decode an encoded stencil instantiation, apply typed global-value
overrides from a YAML file, and re-encode the result.

The override file is a mapping from global names to scalar values. The
YAML scalar tag decides the value kind, and the kind must match the
global's declaration exactly: write 4.0 for a floating-point global,
not 4. Unknown names and kind mismatches abort the command.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGlobals(rootOpts, args[0], setFile, output, cmd)
		},
	}

	cmd.Flags().StringVar(&setFile, "set-file", "", "YAML file of global overrides (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default: rewrite the input file)")
	_ = cmd.MarkFlagRequired("set-file")

	return cmd
}

func runGlobals(opts *RootOptions, path, setFile, output string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	unit, _, err := LoadUnit(path)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	overrides, err := parseOverrides(setFile)
	if err != nil {
		_ = formatter.Error(ErrCodeOverride, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}
	formatter.VerboseLog("parsed %d override(s) from %s", len(overrides), setFile)

	updated, err := applyOverrides(unit, overrides)
	if err != nil {
		_ = formatter.Error(ErrCodeOverride, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}
	for _, name := range updated {
		formatter.VerboseLog("set %s = %s", name, unit.Meta.Globals[name])
	}

	data, err := bir.Encode(unit)
	if err != nil {
		return WrapExitError(ExitCommandError, "re-encoding unit", err)
	}

	if output == "" {
		output = path
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return WrapExitError(ExitCommandError, "writing output", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(GlobalsResult{Updated: updated, Output: output})
	}
	fmt.Fprintf(formatter.Writer, "set %d global(s), wrote %s\n", len(updated), output)
	return nil
}

// parseOverrides reads the YAML override mapping. Scalar tags pick the
// value kind, so 1, 1.0, and true stay distinct.
func parseOverrides(path string) ([]override, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading overrides: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing overrides: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, fmt.Errorf("overrides file %s is empty", path)
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("overrides must be a mapping of global names to scalars")
	}

	overrides := make([]override, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		v, err := scalarValue(val)
		if err != nil {
			return nil, fmt.Errorf("override %q: %w", key.Value, err)
		}
		overrides = append(overrides, override{name: key.Value, value: v})
	}

	return overrides, nil
}

// scalarValue converts one YAML scalar node to a typed value.
func scalarValue(node *yaml.Node) (ast.Value, error) {
	if node.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("value must be a scalar")
	}

	switch node.Tag {
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, err
		}
		return ast.BoolValue(b), nil
	case "!!int":
		var n int64
		if err := node.Decode(&n); err != nil {
			return nil, err
		}
		return ast.IntValue(n), nil
	case "!!float":
		var x float64
		if err := node.Decode(&x); err != nil {
			return nil, err
		}
		return ast.FloatValue(x), nil
	default:
		return nil, fmt.Errorf("unsupported YAML tag %s (want bool, int, or float)", node.Tag)
	}
}

// applyOverrides sets each override on the unit's global table. Names are
// normalized the same way the table normalizes declarations, and the
// returned list holds the normalized names in override-file order.
func applyOverrides(unit *iir.StencilInstantiation, overrides []override) ([]string, error) {
	if unit.Meta == nil {
		return nil, fmt.Errorf("unit has no metadata section")
	}

	updated := make([]string, 0, len(overrides))
	for _, o := range overrides {
		name := meta.Normalize(o.name)
		gv, ok := unit.Meta.Globals[name]
		if !ok {
			return nil, fmt.Errorf("unknown global %q", o.name)
		}
		set, err := gv.WithValue(o.value)
		if err != nil {
			return nil, fmt.Errorf("global %q: %w", o.name, err)
		}
		unit.Meta.Globals[name] = set
		updated = append(updated, name)
	}

	return updated, nil
}

package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/seistools/stratum/archive"
	"github.com/seistools/stratum/bir"
)

// ArchiveRevision is the JSON rendering of one archive revision.
type ArchiveRevision struct {
	ID          string `json:"id"`
	UnitName    string `json:"unit_name"`
	FileName    string `json:"file_name,omitempty"`
	WireVersion int    `json:"wire_version"`
	Digest      string `json:"digest"`
	CreatedAt   string `json:"created_at"`
}

// NewArchiveCommand creates the archive command group.
func NewArchiveCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Store and retrieve encoded units",
		Long: `Maintain a content-addressed archive of encoded stencil
instantiations in a SQLite database. Revisions are keyed by the SHA-256
digest of their bytes; archiving identical content twice is a no-op.`,
	}

	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the archive database (required)")
	_ = cmd.MarkPersistentFlagRequired("db")

	cmd.AddCommand(newArchivePutCommand(rootOpts, &dbPath))
	cmd.AddCommand(newArchiveGetCommand(rootOpts, &dbPath))
	cmd.AddCommand(newArchiveLsCommand(rootOpts, &dbPath))

	return cmd
}

func newArchivePutCommand(rootOpts *RootOptions, dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:           "put <unit-file>",
		Short:         "Archive an encoded unit",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArchivePut(rootOpts, *dbPath, args[0], cmd)
		},
	}
}

func runArchivePut(opts *RootOptions, dbPath, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		msg := fmt.Sprintf("reading %s: %v", path, err)
		_ = formatter.Error(ErrCodeNotFound, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	arc, err := openArchive(formatter, dbPath)
	if err != nil {
		return err
	}
	defer arc.Close()

	rev, err := arc.Put(cmd.Context(), data)
	if err != nil {
		code := ErrCodeArchive
		if bir.IsMalformedEncoding(err) || bir.IsUnknownVariant(err) {
			code = ErrCodeMalformed
		}
		_ = formatter.Error(code, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}
	formatter.VerboseLog("archived %s (%d bytes)", path, len(data))

	if formatter.Format == "json" {
		return formatter.Success(renderRevision(rev))
	}
	fmt.Fprintf(formatter.Writer, "%s  %s\n", rev.Digest, rev.UnitName)
	return nil
}

func newArchiveGetCommand(rootOpts *RootOptions, dbPath *string) *cobra.Command {
	var unitName string
	var output string

	cmd := &cobra.Command{
		Use:   "get [digest]",
		Short: "Retrieve an archived unit",
		Long: `Retrieve one revision, addressed either by content digest or, with
--unit, by unit name (the newest revision of that unit). With --output
the stored bytes are written back to a file; the revision summary goes
to stdout either way.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			var digest string
			if len(args) == 1 {
				digest = args[0]
			}
			return runArchiveGet(rootOpts, *dbPath, digest, unitName, output, cmd)
		},
	}

	cmd.Flags().StringVar(&unitName, "unit", "", "fetch the newest revision of this unit")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the stored bytes to this file")

	return cmd
}

func runArchiveGet(opts *RootOptions, dbPath, digest, unitName, output string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	if (digest == "") == (unitName == "") {
		msg := "provide exactly one of <digest> or --unit"
		_ = formatter.Error(ErrCodeGeneric, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	arc, err := openArchive(formatter, dbPath)
	if err != nil {
		return err
	}
	defer arc.Close()

	var rev archive.Revision
	if digest != "" {
		rev, err = arc.Get(cmd.Context(), digest)
	} else {
		rev, err = arc.Latest(cmd.Context(), unitName)
	}
	if err != nil {
		_ = formatter.Error(ErrCodeArchive, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}

	if output != "" {
		if err := os.WriteFile(output, rev.Data, 0o644); err != nil {
			return WrapExitError(ExitCommandError, "writing output", err)
		}
		formatter.VerboseLog("wrote %d bytes to %s", len(rev.Data), output)
	}

	if formatter.Format == "json" {
		return formatter.Success(renderRevision(rev))
	}
	fmt.Fprintf(formatter.Writer, "%s  %s  %s\n", rev.Digest, rev.UnitName, rev.CreatedAt.Format(time.RFC3339))
	return nil
}

func newArchiveLsCommand(rootOpts *RootOptions, dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:           "ls",
		Short:         "List archived revisions",
		Args:          cobra.NoArgs,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArchiveLs(rootOpts, *dbPath, cmd)
		},
	}
}

func runArchiveLs(opts *RootOptions, dbPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	arc, err := openArchive(formatter, dbPath)
	if err != nil {
		return err
	}
	defer arc.Close()

	revisions, err := arc.List(cmd.Context())
	if err != nil {
		_ = formatter.Error(ErrCodeArchive, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}

	if formatter.Format == "json" {
		rendered := make([]ArchiveRevision, 0, len(revisions))
		for _, rev := range revisions {
			rendered = append(rendered, renderRevision(rev))
		}
		return formatter.Success(rendered)
	}

	if len(revisions) == 0 {
		fmt.Fprintln(formatter.Writer, "archive is empty")
		return nil
	}
	for _, rev := range revisions {
		fmt.Fprintf(formatter.Writer, "%s  %s  %s\n", rev.Digest, rev.UnitName, rev.CreatedAt.Format(time.RFC3339))
	}
	return nil
}

// openArchive opens the archive database, reporting failures as command
// errors.
func openArchive(formatter *OutputFormatter, dbPath string) (*archive.Archive, error) {
	arc, err := archive.Open(dbPath)
	if err != nil {
		msg := fmt.Sprintf("opening archive %s: %v", dbPath, err)
		_ = formatter.Error(ErrCodeArchive, msg, nil)
		return nil, NewExitError(ExitCommandError, msg)
	}
	return arc, nil
}

// renderRevision maps an archive revision to its JSON shape.
func renderRevision(rev archive.Revision) ArchiveRevision {
	return ArchiveRevision{
		ID:          rev.ID,
		UnitName:    rev.UnitName,
		FileName:    rev.FileName,
		WireVersion: rev.WireVersion,
		Digest:      rev.Digest,
		CreatedAt:   rev.CreatedAt.Format(time.RFC3339Nano),
	}
}

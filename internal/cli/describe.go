package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/annotype/internal/canon"
	"github.com/roach88/annotype/internal/schema"
)

// NewDescribeCommand creates the describe command.
func NewDescribeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe <file>",
		Short: "List the descriptors a definition file resolves to",
		Long: `Resolve every named descriptor in a YAML or CUE definition file and print
its rendered form and content hash. Checks are not run.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDescribe(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runDescribe(opts *RootOptions, file string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	doc, err := schema.LoadFile(file)
	if err != nil {
		return reportLoadError(formatter, file, err)
	}

	report, err := schema.Describe(doc, opts.cacheOptions()...)
	if err != nil {
		return reportLoadError(formatter, file, err)
	}
	formatter.VerboseLog("Resolved %d descriptor(s) from %s", len(report.Descriptors), file)

	if formatter.Format == "json" {
		raw, err := canonicalJSON(report)
		if err != nil {
			return WrapExitError(ExitCommandError, "encoding report", err)
		}
		return formatter.Success(raw)
	}

	writeEntries(formatter.Writer, report)
	return nil
}

// writeEntries prints one aligned line per descriptor: name, rendering,
// and the first 12 hex digits of its hash.
func writeEntries(w io.Writer, report *schema.Report) {
	fmt.Fprintf(w, "%s: %d descriptor(s)\n", report.Name, len(report.Descriptors))

	nameWidth, valueWidth := 0, 0
	for _, e := range report.Descriptors {
		nameWidth = max(nameWidth, len(e.Name))
		valueWidth = max(valueWidth, len(e.Value))
	}
	for _, e := range report.Descriptors {
		hash := "-"
		if e.Hash != "" {
			hash = e.Hash[:12]
		}
		line := fmt.Sprintf("  %-*s  %-*s  %s", nameWidth, e.Name, valueWidth, e.Value, hash)
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

func canonicalJSON(report *schema.Report) (json.RawMessage, error) {
	data, err := canon.Marshal(report.Canonical())
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/annotype/internal/schema"
)

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Run the checks of a definition file",
		Long: `Resolve a YAML or CUE definition file and evaluate its membership,
subtype, combine, and apply checks in order.

Exits 1 if any check fails and 2 if the file cannot be read.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runCheck(opts *RootOptions, file string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	doc, err := schema.LoadFile(file)
	if err != nil {
		return reportLoadError(formatter, file, err)
	}

	report, err := schema.RunWithLogger(doc, opts.logger, opts.cacheOptions()...)
	if err != nil {
		return reportLoadError(formatter, file, err)
	}

	var failure error
	if !report.OK() {
		failure = NewExitError(ExitFailure,
			fmt.Sprintf("%d of %d check(s) failed", report.Failed(), len(report.Results)))
	}

	if formatter.Format == "json" {
		raw, err := canonicalJSON(report)
		if err != nil {
			return WrapExitError(ExitCommandError, "encoding report", err)
		}
		if failure != nil {
			if err := formatter.Failure(ErrCodeChecksFailed, failure.Error(), raw); err != nil {
				return WrapExitError(ExitCommandError, "writing report", err)
			}
			return failure
		}
		return formatter.Success(raw)
	}

	writeResults(formatter, report)
	return failure
}

func writeResults(f *OutputFormatter, report *schema.Report) {
	for _, res := range report.Results {
		if res.Passed {
			fmt.Fprintf(f.Writer, "%s %s\n", f.Pass(), res.Name)
			if res.Error != "" {
				f.VerboseLog("  %s: %s", res.Name, res.Error)
			}
			continue
		}
		fmt.Fprintf(f.Writer, "%s %s: expected %s, got %s\n", f.Fail(), res.Name, res.Expected, res.Actual)
		if res.Error != "" {
			fmt.Fprintf(f.Writer, "    %s\n", res.Error)
		}
	}
	fmt.Fprintln(f.Writer)
	fmt.Fprintf(f.Writer, "%s: %d passed, %d failed, %d total\n",
		report.Name, report.Passed(), report.Failed(), len(report.Results))
}

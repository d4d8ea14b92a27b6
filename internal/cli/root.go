package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/annotype/internal/annotype"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// logger is installed by the root pre-run; nil until then.
	logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the annotype CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "annotype",
		Short: "annotype - runtime Union and Tuple descriptors",
		Long: `Build and query Union and Tuple type descriptors from definition files.

Definition files are YAML or CUE documents that name descriptors by type
expression and list membership, subtype, and combination checks.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			opts.logger = newLogger(opts.Verbose, cmd.ErrOrStderr())
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewDescribeCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))

	return cmd
}

// newLogger returns a debug text logger on w when verbose, else a discarding one.
func newLogger(verbose bool, w io.Writer) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// cacheOptions returns construction options for one command: a fresh cache
// that logs through the command's logger.
func (o *RootOptions) cacheOptions() []annotype.Option {
	c := annotype.NewCache()
	if o.logger != nil {
		c.SetLogger(o.logger)
	}
	return []annotype.Option{annotype.WithCache(c)}
}

func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

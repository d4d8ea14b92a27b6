package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid       bool   `json:"valid"`
	Name        string `json:"name"`
	Descriptors int    `json:"descriptors"`
	Checks      int    `json:"checks"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a definition file without running its checks",
		Long: `Decode a YAML or CUE definition file, check its shape, and resolve every
named descriptor. Reports unknown names, definition cycles, and descriptors
that cannot be constructed.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, file string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	doc, reg, err := loadAndResolve(opts, formatter, file)
	if err != nil {
		return err
	}

	result := ValidationResult{
		Valid:       true,
		Name:        doc.Name,
		Descriptors: len(reg.Names()),
		Checks:      len(doc.Checks),
	}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "%s %s: %d descriptor(s), %d check(s)\n",
		formatter.Pass(), result.Name, result.Descriptors, result.Checks)
	return nil
}

package cli

import (
	"errors"
	"fmt"

	"github.com/roach88/annotype/internal/annotype"
	"github.com/roach88/annotype/internal/schema"
)

// Error codes reported by commands, in addition to the schema load codes.
const (
	ErrCodeGeneric      = "E000" // Generic/unknown error
	ErrCodeChecksFailed = "E201" // At least one check failed
)

// loadFailure describes a document that could not be loaded or resolved.
type loadFailure struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
	Cause   string `json:"cause,omitempty"`
}

// describeLoadError flattens err into a loadFailure and picks the exit code:
// unreadable or unsupported files are command errors, anything wrong inside
// the document is a failure.
func describeLoadError(err error) (loadFailure, int) {
	var le *schema.LoadError
	if !errors.As(err, &le) {
		return loadFailure{Code: ErrCodeGeneric, Message: err.Error()}, ExitCommandError
	}

	lf := loadFailure{Code: le.Code, Message: le.Message, Path: le.Path}
	if code := annotype.CodeOf(err); code != "" {
		lf.Cause = string(code)
	} else if le.Err != nil {
		lf.Cause = le.Err.Error()
	}

	switch le.Code {
	case schema.ErrCodeRead, schema.ErrCodeFormat:
		return lf, ExitCommandError
	default:
		return lf, ExitFailure
	}
}

// reportLoadError prints err through formatter and returns the ExitError
// the command should return.
func reportLoadError(formatter *OutputFormatter, file string, err error) error {
	lf, exit := describeLoadError(err)

	message := lf.Message
	if lf.Path != "" {
		message = lf.Path + ": " + message
	}
	var details any
	if lf.Cause != "" {
		details = lf
	}
	_ = formatter.Error(lf.Code, message, details)

	return WrapExitError(exit, fmt.Sprintf("%s: %s", file, lf.Code), err)
}

// loadAndResolve loads file and resolves its descriptors.
func loadAndResolve(opts *RootOptions, formatter *OutputFormatter, file string) (*schema.Document, *schema.Registry, error) {
	doc, err := schema.LoadFile(file)
	if err != nil {
		return nil, nil, reportLoadError(formatter, file, err)
	}
	formatter.VerboseLog("Loaded %s: %d descriptor(s), %d check(s)", file, len(doc.Descriptors), len(doc.Checks))

	reg, err := schema.Resolve(doc, opts.cacheOptions()...)
	if err != nil {
		return nil, nil, reportLoadError(formatter, file, err)
	}
	return doc, reg, nil
}

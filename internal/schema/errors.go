package schema

import "fmt"

// LoadError reports a document that could not be read, decoded, or resolved.
type LoadError struct {
	Code    string
	Message string

	// Path locates the failure inside the document, e.g. "descriptors.pair"
	// or "checks[2].member". Empty for whole-file failures.
	Path string

	// Err is the underlying cause, if any.
	Err error
}

func (e *LoadError) Error() string {
	msg := e.Code + ": " + e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", e.Path, msg)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Error codes.
const (
	ErrCodeRead    = "E001" // File read error
	ErrCodeFormat  = "E002" // Unsupported file extension
	ErrCodeParse   = "E003" // YAML/CUE decode error
	ErrCodeInvalid = "E004" // Document shape invalid

	ErrCodeUnknownName  = "E101" // Reference to an undefined name
	ErrCodeCycle        = "E102" // Definition references itself
	ErrCodeNameConflict = "E103" // Definition shadows a host type or bare
	ErrCodeConstruct    = "E104" // Descriptor construction failed
)

package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

// Document is a set of named descriptor definitions plus checks against them.
type Document struct {
	// Name identifies the document in reports.
	Name string `yaml:"name" json:"name"`

	// Description is free text.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Descriptors maps a name to a type expression.
	Descriptors map[string]any `yaml:"descriptors" json:"descriptors"`

	// Checks run in order against the resolved descriptors.
	Checks []Check `yaml:"checks" json:"checks"`
}

// Check is one expectation. Exactly one of Member, Subtype, Combine, or
// Apply is set.
type Check struct {
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	Member  *MemberCheck  `yaml:"member,omitempty" json:"member,omitempty"`
	Subtype *SubtypeCheck `yaml:"subtype,omitempty" json:"subtype,omitempty"`
	Combine *CombineCheck `yaml:"combine,omitempty" json:"combine,omitempty"`

	// Apply is a type expression that is only constructed.
	Apply any `yaml:"apply,omitempty" json:"apply,omitempty"`

	// Expect is the boolean answer of a member or subtype check.
	Expect *bool `yaml:"expect,omitempty" json:"expect,omitempty"`

	// ExpectError is the error code the check must fail with,
	// e.g. "INVALID_ARGUMENT".
	ExpectError string `yaml:"expect_error,omitempty" json:"expect_error,omitempty"`
}

// MemberCheck asks whether Value belongs to Descriptor.
type MemberCheck struct {
	Descriptor any `yaml:"descriptor" json:"descriptor"`
	Value      any `yaml:"value" json:"value"`
}

// SubtypeCheck asks whether Candidate is a subtype of Target.
type SubtypeCheck struct {
	Candidate any `yaml:"candidate" json:"candidate"`
	Target    any `yaml:"target" json:"target"`
}

// CombineCheck combines Left and Right and, when Equals is set, compares
// the result against it.
type CombineCheck struct {
	Left   any `yaml:"left" json:"left"`
	Right  any `yaml:"right" json:"right"`
	Equals any `yaml:"equals,omitempty" json:"equals,omitempty"`
}

// Check kinds, as reported.
const (
	CheckMember  = "member"
	CheckSubtype = "subtype"
	CheckCombine = "combine"
	CheckApply   = "apply"
)

// Kind returns which expectation c holds, or "" if none is set.
func (c *Check) Kind() string {
	switch {
	case c.Member != nil:
		return CheckMember
	case c.Subtype != nil:
		return CheckSubtype
	case c.Combine != nil:
		return CheckCombine
	case c.Apply != nil:
		return CheckApply
	}
	return ""
}

// LoadFile reads a document, choosing the decoder by extension.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeRead, Message: fmt.Sprintf("failed to read %s", path), Err: err}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".cue":
		return ParseCUE(data, path)
	default:
		return nil, &LoadError{
			Code:    ErrCodeFormat,
			Message: fmt.Sprintf("unsupported document extension %q (want .yaml, .yml, or .cue)", filepath.Ext(path)),
		}
	}
}

// ParseYAML decodes and validates a YAML document. Unknown fields are
// rejected so that typos surface as errors.
func ParseYAML(data []byte) (*Document, error) {
	var doc Document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &LoadError{Code: ErrCodeInvalid, Message: "document is empty"}
		}
		return nil, &LoadError{Code: ErrCodeParse, Message: "failed to parse YAML", Err: err}
	}
	if err := validateDocument(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ParseCUE compiles and validates a CUE document. filename is used only in
// error positions.
func ParseCUE(data []byte, filename string) (*Document, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: "failed to compile CUE", Err: firstCUEError(err)}
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: "CUE document is not concrete", Err: firstCUEError(err)}
	}

	raw, err := fromCUE(v)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: "failed to decode CUE", Err: err}
	}
	fields, ok := raw.(map[string]any)
	if !ok {
		return nil, &LoadError{Code: ErrCodeInvalid, Message: "document must be a struct"}
	}

	doc, err := documentFromMap(fields)
	if err != nil {
		return nil, err
	}
	if err := validateDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// documentFromMap builds a Document from generic CUE data, applying the
// same unknown-field rule as the YAML decoder.
func documentFromMap(fields map[string]any) (*Document, error) {
	fail := func(path, format string, args ...any) error {
		return &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf(format, args...), Path: path}
	}

	doc := &Document{}
	for key, val := range fields {
		switch key {
		case "name":
			s, ok := val.(string)
			if !ok {
				return nil, fail("name", "must be a string")
			}
			doc.Name = s
		case "description":
			s, ok := val.(string)
			if !ok {
				return nil, fail("description", "must be a string")
			}
			doc.Description = s
		case "descriptors":
			m, ok := val.(map[string]any)
			if !ok {
				return nil, fail("descriptors", "must be a struct")
			}
			doc.Descriptors = m
		case "checks":
			list, ok := val.([]any)
			if !ok {
				return nil, fail("checks", "must be a list")
			}
			for i, item := range list {
				path := fmt.Sprintf("checks[%d]", i)
				m, ok := item.(map[string]any)
				if !ok {
					return nil, fail(path, "must be a struct")
				}
				c, err := checkFromMap(path, m)
				if err != nil {
					return nil, err
				}
				doc.Checks = append(doc.Checks, c)
			}
		default:
			return nil, fail(key, "field %q not found in type schema.Document", key)
		}
	}
	return doc, nil
}

func checkFromMap(path string, m map[string]any) (Check, error) {
	fail := func(format string, args ...any) error {
		return &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf(format, args...), Path: path}
	}
	sub := func(key string, val any, allowed ...string) (map[string]any, error) {
		fm, ok := val.(map[string]any)
		if !ok {
			return nil, fail("%s must be a struct", key)
		}
		for k := range fm {
			if !slices.Contains(allowed, k) {
				return nil, fail("field %q not found in %s", k, key)
			}
		}
		return fm, nil
	}

	var c Check
	for key, val := range m {
		switch key {
		case "name":
			s, ok := val.(string)
			if !ok {
				return c, fail("name must be a string")
			}
			c.Name = s
		case CheckMember:
			fm, err := sub(key, val, "descriptor", "value")
			if err != nil {
				return c, err
			}
			c.Member = &MemberCheck{Descriptor: fm["descriptor"], Value: fm["value"]}
		case CheckSubtype:
			fm, err := sub(key, val, "candidate", "target")
			if err != nil {
				return c, err
			}
			c.Subtype = &SubtypeCheck{Candidate: fm["candidate"], Target: fm["target"]}
		case CheckCombine:
			fm, err := sub(key, val, "left", "right", "equals")
			if err != nil {
				return c, err
			}
			c.Combine = &CombineCheck{Left: fm["left"], Right: fm["right"], Equals: fm["equals"]}
		case CheckApply:
			c.Apply = val
		case "expect":
			b, ok := val.(bool)
			if !ok {
				return c, fail("expect must be a bool")
			}
			c.Expect = &b
		case "expect_error":
			s, ok := val.(string)
			if !ok {
				return c, fail("expect_error must be a string")
			}
			c.ExpectError = s
		default:
			return c, fail("field %q not found in type schema.Check", key)
		}
	}
	return c, nil
}

// fromCUE converts a concrete CUE value into the generic shape yaml.v3
// produces: map[string]any, []any, string, int, float64, bool, nil.
func fromCUE(v cue.Value) (any, error) {
	switch v.Kind() {
	case cue.StructKind:
		iter, err := v.Fields()
		if err != nil {
			return nil, err
		}
		m := make(map[string]any)
		for iter.Next() {
			elem, err := fromCUE(iter.Value())
			if err != nil {
				return nil, fmt.Errorf("%s: %w", iter.Label(), err)
			}
			m[iter.Label()] = elem
		}
		return m, nil
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, err
		}
		list := []any{}
		for i := 0; iter.Next(); i++ {
			elem, err := fromCUE(iter.Value())
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			list = append(list, elem)
		}
		return list, nil
	case cue.StringKind:
		return v.String()
	case cue.IntKind:
		n, err := v.Int64()
		return int(n), err
	case cue.FloatKind:
		return v.Float64()
	case cue.BoolKind:
		return v.Bool()
	case cue.NullKind:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported CUE kind %v", v.Kind())
	}
}

// firstCUEError keeps the first of possibly many CUE errors, which carries
// the most useful position.
func firstCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	return errs[0]
}

// validateDocument checks required fields and check shapes.
func validateDocument(doc *Document) error {
	if strings.TrimSpace(doc.Name) == "" {
		return &LoadError{Code: ErrCodeInvalid, Message: "name is required"}
	}

	for name := range doc.Descriptors {
		if strings.TrimSpace(name) == "" {
			return &LoadError{Code: ErrCodeInvalid, Message: "descriptor name is empty", Path: "descriptors"}
		}
	}

	for i := range doc.Checks {
		if err := validateCheck(i, &doc.Checks[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateCheck(index int, c *Check) error {
	path := fmt.Sprintf("checks[%d]", index)

	set := 0
	for _, present := range []bool{c.Member != nil, c.Subtype != nil, c.Combine != nil, c.Apply != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return &LoadError{
			Code:    ErrCodeInvalid,
			Message: "exactly one of member, subtype, combine, apply is required",
			Path:    path,
		}
	}

	switch c.Kind() {
	case CheckMember:
		if c.Member.Descriptor == nil {
			return &LoadError{Code: ErrCodeInvalid, Message: "member.descriptor is required", Path: path}
		}
		if c.Expect == nil && c.ExpectError == "" {
			return &LoadError{Code: ErrCodeInvalid, Message: "expect or expect_error is required for member", Path: path}
		}
	case CheckSubtype:
		if c.Subtype.Candidate == nil || c.Subtype.Target == nil {
			return &LoadError{Code: ErrCodeInvalid, Message: "subtype.candidate and subtype.target are required", Path: path}
		}
		if c.Expect == nil && c.ExpectError == "" {
			return &LoadError{Code: ErrCodeInvalid, Message: "expect or expect_error is required for subtype", Path: path}
		}
	case CheckCombine:
		if c.Combine.Left == nil || c.Combine.Right == nil {
			return &LoadError{Code: ErrCodeInvalid, Message: "combine.left and combine.right are required", Path: path}
		}
		if c.Expect != nil {
			return &LoadError{Code: ErrCodeInvalid, Message: "expect is not used by combine (use equals)", Path: path}
		}
	case CheckApply:
		if c.Expect != nil {
			return &LoadError{Code: ErrCodeInvalid, Message: "expect is not used by apply", Path: path}
		}
	}

	if c.Expect != nil && c.ExpectError != "" {
		return &LoadError{Code: ErrCodeInvalid, Message: "expect and expect_error are mutually exclusive", Path: path}
	}
	return nil
}

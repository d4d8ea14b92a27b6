package schema

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/roach88/annotype/internal/annotype"
	"github.com/roach88/annotype/internal/canon"
)

// Report is the outcome of running a document.
type Report struct {
	Name        string
	Descriptors []Entry
	Results     []Result
}

// Entry is one resolved definition.
type Entry struct {
	Name  string
	Value string

	// Hash is the descriptor hash, empty for host types and sentinels.
	Hash string
}

// Result is the outcome of one check.
type Result struct {
	Index    int
	Name     string
	Kind     string
	Passed   bool
	Expected string
	Actual   string

	// Error is the message of the error the check ran into, expected or not.
	Error string
}

// Passed returns the number of passing checks.
func (r *Report) Passed() int {
	n := 0
	for _, res := range r.Results {
		if res.Passed {
			n++
		}
	}
	return n
}

// Failed returns the number of failing checks.
func (r *Report) Failed() int {
	return len(r.Results) - r.Passed()
}

// OK reports whether every check passed.
func (r *Report) OK() bool {
	return r.Failed() == 0
}

// Canonical renders r for canonical JSON output and golden comparison.
func (r *Report) Canonical() canon.Object {
	entries := make(canon.Array, len(r.Descriptors))
	for i, e := range r.Descriptors {
		obj := canon.Object{
			"name":  canon.String(e.Name),
			"value": canon.String(e.Value),
		}
		if e.Hash != "" {
			obj["hash"] = canon.String(e.Hash)
		}
		entries[i] = obj
	}

	results := make(canon.Array, len(r.Results))
	for i, res := range r.Results {
		obj := canon.Object{
			"index":    canon.Int(res.Index),
			"name":     canon.String(res.Name),
			"kind":     canon.String(res.Kind),
			"passed":   canon.Bool(res.Passed),
			"expected": canon.String(res.Expected),
			"actual":   canon.String(res.Actual),
		}
		if res.Error != "" {
			obj["error"] = canon.String(res.Error)
		}
		results[i] = obj
	}

	return canon.Object{
		"name":        canon.String(r.Name),
		"descriptors": entries,
		"results":     results,
		"summary": canon.Object{
			"passed": canon.Int(r.Passed()),
			"failed": canon.Int(r.Failed()),
		},
	}
}

// Describe resolves doc and lists its definitions without running checks.
func Describe(doc *Document, opts ...annotype.Option) (*Report, error) {
	reg, err := Resolve(doc, withRunCache(opts)...)
	if err != nil {
		return nil, err
	}
	return &Report{Name: doc.Name, Descriptors: entries(reg)}, nil
}

// Run resolves doc and evaluates every check in order, logging each result
// through slog.Default. See RunWithLogger.
func Run(doc *Document, opts ...annotype.Option) (*Report, error) {
	return RunWithLogger(doc, slog.Default(), opts...)
}

// RunWithLogger is Run with an explicit logger; a nil logger discards.
//
// Each run uses a fresh descriptor cache unless opts supply one, so runs
// do not observe each other. A resolution failure aborts the run; a failing
// check is recorded in the report.
func RunWithLogger(doc *Document, logger *slog.Logger, opts ...annotype.Option) (*Report, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	opts = withRunCache(opts)
	reg, err := Resolve(doc, opts...)
	if err != nil {
		return nil, err
	}

	report := &Report{Name: doc.Name, Descriptors: entries(reg)}
	for i := range doc.Checks {
		res := evaluate(reg, i, &doc.Checks[i])
		logger.Debug("check evaluated",
			"document", doc.Name,
			"check", res.Name,
			"kind", res.Kind,
			"passed", res.Passed,
		)
		report.Results = append(report.Results, res)
	}
	return report, nil
}

// withRunCache prepends a fresh cache; a caller's WithCache overrides it.
func withRunCache(opts []annotype.Option) []annotype.Option {
	return append([]annotype.Option{annotype.WithCache(annotype.NewCache())}, opts...)
}

func entries(reg *Registry) []Entry {
	names := reg.Names()
	out := make([]Entry, 0, len(names))
	for _, name := range names {
		v, _ := reg.Lookup(name)
		e := Entry{Name: name, Value: annotype.NameOf(v)}
		if d, ok := v.(*annotype.Descriptor); ok {
			e.Hash = d.Hash()
		}
		out = append(out, e)
	}
	return out
}

func evaluate(reg *Registry, index int, c *Check) Result {
	res := Result{Index: index, Name: c.Name, Kind: c.Kind()}
	if res.Name == "" {
		res.Name = fmt.Sprintf("%s #%d", res.Kind, index+1)
	}
	path := fmt.Sprintf("checks[%d].%s", index, res.Kind)

	var (
		actual string
		err    error
	)
	switch res.Kind {
	case CheckMember:
		var ok bool
		ok, err = evalMember(reg, c.Member, path)
		actual = strconv.FormatBool(ok)
	case CheckSubtype:
		var ok bool
		ok, err = evalSubtype(reg, c.Subtype, path)
		actual = strconv.FormatBool(ok)
	case CheckCombine:
		return finishCombine(reg, res, c, path)
	case CheckApply:
		var v any
		v, err = reg.describeName(c.Apply, path)
		actual = annotype.NameOf(v)
	}

	switch {
	case c.ExpectError != "":
		res.Expected = c.ExpectError
	case c.Expect != nil:
		res.Expected = strconv.FormatBool(*c.Expect)
	default:
		res.Expected = "ok"
	}
	if err != nil {
		res.Error = err.Error()
		res.Actual = errorCode(err)
		res.Passed = c.ExpectError != "" && res.Actual == c.ExpectError
		return res
	}

	res.Actual = actual
	switch {
	case c.ExpectError != "":
		res.Passed = false
	case c.Expect != nil:
		res.Passed = actual == res.Expected
	default:
		res.Passed = true
	}
	return res
}

func finishCombine(reg *Registry, res Result, c *Check, path string) Result {
	got, err := evalCombine(reg, c.Combine, path)

	var want any
	if err == nil && c.Combine.Equals != nil {
		want, err = reg.describeName(c.Combine.Equals, path+".equals")
	}

	switch {
	case c.ExpectError != "":
		res.Expected = c.ExpectError
	case c.Combine.Equals != nil && err == nil:
		res.Expected = annotype.NameOf(want)
	default:
		res.Expected = "ok"
	}

	if err != nil {
		res.Error = err.Error()
		res.Actual = errorCode(err)
		res.Passed = c.ExpectError != "" && res.Actual == c.ExpectError
		return res
	}

	res.Actual = annotype.NameOf(got)
	switch {
	case c.ExpectError != "":
		res.Passed = false
	case c.Combine.Equals != nil:
		wd, ok := want.(*annotype.Descriptor)
		res.Passed = ok && annotype.Equal(got, wd)
	default:
		res.Passed = true
	}
	return res
}

func evalMember(reg *Registry, m *MemberCheck, path string) (bool, error) {
	target, err := descriptorExpr(reg, m.Descriptor, path+".descriptor")
	if err != nil {
		return false, err
	}
	return annotype.MembershipQuery(target, m.Value)
}

func evalSubtype(reg *Registry, s *SubtypeCheck, path string) (bool, error) {
	candidate, err := reg.describeName(s.Candidate, path+".candidate")
	if err != nil {
		return false, err
	}
	target, err := reg.describeName(s.Target, path+".target")
	if err != nil {
		return false, err
	}
	return annotype.SubtypeQuery(candidate, target)
}

func evalCombine(reg *Registry, c *CombineCheck, path string) (*annotype.Descriptor, error) {
	left, err := descriptorExpr(reg, c.Left, path+".left")
	if err != nil {
		return nil, err
	}
	right, err := descriptorExpr(reg, c.Right, path+".right")
	if err != nil {
		return nil, err
	}
	return annotype.Combine(left, right, reg.opts...)
}

// descriptorExpr resolves expr and requires a descriptor result.
func descriptorExpr(reg *Registry, expr any, path string) (*annotype.Descriptor, error) {
	v, err := reg.describeName(expr, path)
	if err != nil {
		return nil, err
	}
	d, ok := v.(*annotype.Descriptor)
	if !ok {
		return nil, &LoadError{
			Code:    ErrCodeInvalid,
			Message: fmt.Sprintf("%s is not a descriptor", annotype.NameOf(v)),
			Path:    path,
		}
	}
	return d, nil
}

// errorCode names err for comparison with expect_error: the annotype code
// when there is one, otherwise the load error code.
func errorCode(err error) string {
	if code := annotype.CodeOf(err); code != "" {
		return string(code)
	}
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	return "ERROR"
}

package schema

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/annotype/internal/canon"
)

// AssertGolden compares the canonical JSON of report against
// testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/schema -update
func AssertGolden(t *testing.T, name string, report *Report) error {
	t.Helper()

	data, err := canon.Marshal(report.Canonical())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}

// RunWithGolden runs doc and compares its report against the golden file
// named after the document.
func RunWithGolden(t *testing.T, doc *Document) (*Report, error) {
	t.Helper()

	report, err := Run(doc)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, doc.Name, report); err != nil {
		return nil, err
	}
	return report, nil
}

package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYAML(t *testing.T) {
	doc, err := ParseYAML([]byte(`
name: small
descriptors:
  number: {union: [int, float64]}
checks:
  - member: {descriptor: number, value: 3}
    expect: true
`))
	require.NoError(t, err)

	assert.Equal(t, "small", doc.Name)
	assert.Equal(t, map[string]any{"union": []any{"int", "float64"}}, doc.Descriptors["number"])
	require.Len(t, doc.Checks, 1)
	assert.Equal(t, CheckMember, doc.Checks[0].Kind())
	assert.Equal(t, 3, doc.Checks[0].Member.Value)
	require.NotNil(t, doc.Checks[0].Expect)
	assert.True(t, *doc.Checks[0].Expect)
}

func TestParseYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		code string
	}{
		{"empty", "", ErrCodeInvalid},
		{"malformed", "name: [", ErrCodeParse},
		{"unknown field", "name: x\ndescriptor: {}\n", ErrCodeParse},
		{"missing name", "descriptors: {a: int}\n", ErrCodeInvalid},
		{"no expectation kind", "name: x\nchecks:\n  - name: nothing\n", ErrCodeInvalid},
		{"two expectation kinds", "name: x\nchecks:\n  - apply: int\n    member: {descriptor: int, value: 1}\n", ErrCodeInvalid},
		{"member without expect", "name: x\nchecks:\n  - member: {descriptor: int, value: 1}\n", ErrCodeInvalid},
		{"subtype without target", "name: x\nchecks:\n  - subtype: {candidate: int}\n    expect: true\n", ErrCodeInvalid},
		{"combine with expect", "name: x\nchecks:\n  - combine: {left: a, right: b}\n    expect: true\n", ErrCodeInvalid},
		{"both expectations", "name: x\nchecks:\n  - subtype: {candidate: int, target: int}\n    expect: true\n    expect_error: X\n", ErrCodeInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.yaml))
			require.Error(t, err)

			var le *LoadError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, tt.code, le.Code, le.Error())
		})
	}
}

func TestCheckErrorPath(t *testing.T) {
	_, err := ParseYAML([]byte("name: x\nchecks:\n  - apply: int\n  - name: empty\n"))

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "checks[1]", le.Path)
	assert.Contains(t, le.Error(), "checks[1]: E004")
}

func TestParseCUE(t *testing.T) {
	doc, err := ParseCUE([]byte(`
name: "small"
descriptors: number: union: ["int", "float64"]
checks: [{
	member: {descriptor: "number", value: 2.5}
	expect: true
}, {
	apply: {union: [1]}
	expect_error: "INVALID_ARGUMENT"
}]
`), "small.cue")
	require.NoError(t, err)

	assert.Equal(t, "small", doc.Name)
	assert.Equal(t, map[string]any{"union": []any{"int", "float64"}}, doc.Descriptors["number"])
	require.Len(t, doc.Checks, 2)
	assert.Equal(t, 2.5, doc.Checks[0].Member.Value)
	assert.Equal(t, map[string]any{"union": []any{1}}, doc.Checks[1].Apply)
	assert.Equal(t, "INVALID_ARGUMENT", doc.Checks[1].ExpectError)
}

func TestParseCUEErrors(t *testing.T) {
	tests := []struct {
		name string
		cue  string
		code string
	}{
		{"syntax", `name: `, ErrCodeParse},
		{"not concrete", `name: string`, ErrCodeParse},
		{"unknown field", `name: "x", extra: 1`, ErrCodeParse},
		{"unknown check field", `name: "x", checks: [{apply: "int", expected: true}]`, ErrCodeParse},
		{"wrong expect type", `name: "x", checks: [{subtype: {candidate: "int", target: "int"}, expect: "yes"}]`, ErrCodeParse},
		{"missing name", `descriptors: {}`, ErrCodeInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCUE([]byte(tt.cue), "test.cue")
			require.Error(t, err)

			var le *LoadError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, tt.code, le.Code, le.Error())
		})
	}
}

func TestLoadFileFormats(t *testing.T) {
	yamlDoc, err := LoadFile(filepath.Join("testdata", "numbers.yaml"))
	require.NoError(t, err)
	cueDoc, err := LoadFile(filepath.Join("testdata", "numbers.cue"))
	require.NoError(t, err)

	assert.Equal(t, yamlDoc.Name, cueDoc.Name)
	assert.Equal(t, yamlDoc.Description, cueDoc.Description)
	assert.Equal(t, yamlDoc.Descriptors, cueDoc.Descriptors)
	assert.Equal(t, yamlDoc.Checks, cueDoc.Checks)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join("testdata", "missing.yaml"))
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeRead, le.Code)
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))
	_, err = LoadFile(path)
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeFormat, le.Code)
}

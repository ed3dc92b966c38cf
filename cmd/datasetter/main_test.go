package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lettersCSV = `letter,greek,number
A,alpha,1
A,beta,13
A,gamma,8
B,alpha,1
B,beta,31
C,gamma,9
C,alpha,2
D,beta,21
D,gamma,0
`

func writeLetters(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "letters.csv")
	require.NoError(t, os.WriteFile(path, []byte(lettersCSV), 0o600))
	return path
}

func run(t *testing.T, args ...string) (map[string]any, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		return nil, err
	}
	var body map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &body), out.String())
	return body, nil
}

func TestMetadataCmd(t *testing.T) {
	body, err := run(t, "metadata", "--file", writeLetters(t), "--facet", "letter,greek")
	require.NoError(t, err)

	assert.Equal(t, "letters", body["name"])
	assert.Equal(t, []any{"letter", "greek"}, body["facets"])
	assert.Equal(t, []any{
		map[string]any{"name": "letter", "type": "string", "description": ""},
		map[string]any{"name": "greek", "type": "string", "description": ""},
		map[string]any{"name": "number", "type": "integer", "description": ""},
	}, body["columns"])
}

func TestCountCmd(t *testing.T) {
	path := writeLetters(t)

	body, err := run(t, "count", "--file", path)
	require.NoError(t, err)
	assert.Equal(t, float64(9), body["count"])

	body, err = run(t, "count", "--file", path, "--filter", "letter=A", "--filter", "number=13")
	require.NoError(t, err)
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, map[string]any{"letter": "A", "number": float64(13)}, body["filters"])
}

func TestCountByCmd(t *testing.T) {
	path := writeLetters(t)

	body, err := run(t, "count-by", "greek", "--file", path, "--filter", "letter=A", "--rows", "2")
	require.NoError(t, err)
	assert.Equal(t, "greek", body["facet"])
	assert.Equal(t, float64(2), body["rows"])
	assert.Equal(t, []any{
		map[string]any{"value": "alpha", "count": float64(1)},
		map[string]any{"value": "beta", "count": float64(1)},
	}, body["data"])

	_, err = run(t, "count-by", "number", "--file", path, "--facet", "letter")
	require.Error(t, err)
	assert.Equal(t, "FacetUnavailableError: no facet number", err.Error())
}

func TestSampleCmd(t *testing.T) {
	body, err := run(t, "sample", "--file", writeLetters(t), "--filter", "greek=beta", "--skip", "2")
	require.NoError(t, err)
	assert.Equal(t, float64(3), body["count"])
	assert.Equal(t, float64(1), body["rows"])
	assert.Equal(t, []any{
		map[string]any{"letter": "D", "greek": "beta", "number": float64(21)},
	}, body["data"])
}

func TestQueryCmdFromConfig(t *testing.T) {
	path := writeLetters(t)
	cfgPath := filepath.Join(t.TempDir(), "datasetter.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
datasets:
  - uri: letters
    name: letters
    facets: [letter]
    source:
      file: `+path+`
`), 0o600))

	body, err := run(t, "--config", cfgPath, "count", "--dataset", "letters", "--filter", "letter=B")
	require.NoError(t, err)
	assert.Equal(t, float64(2), body["count"])

	_, err = run(t, "--config", cfgPath, "count", "--dataset", "nope")
	assert.Error(t, err)
}

func TestQueryCmdErrors(t *testing.T) {
	path := writeLetters(t)

	tests := []struct {
		name string
		args []string
	}{
		{"NoSource", []string{"count"}},
		{"BothSources", []string{"count", "--file", path, "--dataset", "x"}},
		{"BadFilter", []string{"count", "--file", path, "--filter", "letter"}},
		{"UntypedFilter", []string{"count", "--file", path, "--filter", "number=abc"}},
		{"MissingFile", []string{"count", "--file", filepath.Join(t.TempDir(), "nope.csv")}},
		{"CountByNeedsFacet", []string{"count-by", "--file", path}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

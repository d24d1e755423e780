package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSuite(t *testing.T) {
	suite := DefaultSuite()
	require.NoError(t, suite.Validate())
	assert.Equal(t, []string{"conv1d", "dense", "gru", "lstm"}, suite.Names())

	tests := []struct {
		key       string
		name      string
		threshold float64
	}{
		{"conv1d", "CONV1D", 1e-6},
		{"dense", "DENSE", 2e-8},
		{"gru", "GRU", 5e-6},
		{"lstm", "LSTM", 1e-6},
	}
	for _, tt := range tests {
		c := suite[tt.key]
		assert.Equal(t, tt.name, c.Name)
		assert.Equal(t, tt.threshold, c.Threshold)
	}
	assert.Equal(t, "models/conv.json", suite["conv1d"].ModelFile)
	assert.Equal(t, "test_data/gru_y_python.csv", suite["gru"].YDataFile)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadSuite(t *testing.T) {
	path := writeFile(t, t.TempDir(), "suite.yaml", `
tests:
  gru:
    name: GRU
    model: models/gru.json
    x_data: test_data/gru_x_python.csv
    y_data: test_data/gru_y_python.csv
    threshold: 5.0e-6
  tiny:
    model: tiny.json
    x_data: x.csv
    y_data: y.csv
    threshold: 0.001
`)

	suite, err := LoadSuite(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"gru", "tiny"}, suite.Names())
	assert.Equal(t, Config{
		Name:      "GRU",
		ModelFile: "models/gru.json",
		XDataFile: "test_data/gru_x_python.csv",
		YDataFile: "test_data/gru_y_python.csv",
		Threshold: 5e-6,
	}, suite["gru"])
	assert.Equal(t, "TINY", suite["tiny"].Name)
}

func TestLoadSuiteErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed", "tests: [1, 2"},
		{"empty", "tests: {}\n"},
		{"missing model", "tests:\n  a:\n    x_data: x.csv\n    y_data: y.csv\n"},
		{"missing data", "tests:\n  a:\n    model: m.json\n    x_data: x.csv\n"},
		{"negative threshold", "tests:\n  a:\n    model: m.json\n    x_data: x.csv\n    y_data: y.csv\n    threshold: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "suite.yaml", tt.content)
			_, err := LoadSuite(path)
			assert.ErrorIs(t, err, ErrInvalidSuite)
		})
	}

	_, err := LoadSuite(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

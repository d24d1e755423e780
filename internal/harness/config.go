package harness

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config describes one reference test.
type Config struct {
	Name      string  `yaml:"name"`
	ModelFile string  `yaml:"model"`
	XDataFile string  `yaml:"x_data"`
	YDataFile string  `yaml:"y_data"`
	Threshold float64 `yaml:"threshold"`
}

// Suite maps test names to their configuration.
type Suite map[string]Config

// Names returns the test names in sorted order.
func (s Suite) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Validate reports the first incomplete entry.
func (s Suite) Validate() error {
	for _, key := range s.Names() {
		c := s[key]
		switch {
		case c.ModelFile == "":
			return fmt.Errorf("%w: %s: missing model", ErrInvalidSuite, key)
		case c.XDataFile == "" || c.YDataFile == "":
			return fmt.Errorf("%w: %s: missing reference data", ErrInvalidSuite, key)
		case c.Threshold < 0:
			return fmt.Errorf("%w: %s: negative threshold %g", ErrInvalidSuite, key, c.Threshold)
		}
	}
	return nil
}

// DefaultSuite returns the built-in reference tests. Paths are relative to
// the runner's root directory.
func DefaultSuite() Suite {
	return Suite{
		"conv1d": {
			Name:      "CONV1D",
			ModelFile: "models/conv.json",
			XDataFile: "test_data/conv_x_python.csv",
			YDataFile: "test_data/conv_y_python.csv",
			Threshold: 1.0e-6,
		},
		"dense": {
			Name:      "DENSE",
			ModelFile: "models/dense.json",
			XDataFile: "test_data/dense_x_python.csv",
			YDataFile: "test_data/dense_y_python.csv",
			Threshold: 2.0e-8,
		},
		"gru": {
			Name:      "GRU",
			ModelFile: "models/gru.json",
			XDataFile: "test_data/gru_x_python.csv",
			YDataFile: "test_data/gru_y_python.csv",
			Threshold: 5.0e-6,
		},
		"lstm": {
			Name:      "LSTM",
			ModelFile: "models/lstm.json",
			XDataFile: "test_data/lstm_x_python.csv",
			YDataFile: "test_data/lstm_y_python.csv",
			Threshold: 1.0e-6,
		},
	}
}

type suiteFile struct {
	Tests Suite `yaml:"tests"`
}

// LoadSuite reads a suite from a YAML file of the form
//
//	tests:
//	  gru:
//	    name: GRU
//	    model: models/gru.json
//	    x_data: test_data/gru_x_python.csv
//	    y_data: test_data/gru_y_python.csv
//	    threshold: 5.0e-6
//
// An entry without a name takes its key, upper-cased.
func LoadSuite(path string) (Suite, error) {
	//nolint:gosec // G304: suite path is supplied by the caller.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite: %w", err)
	}

	var f suiteFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidSuite, path, err)
	}
	if len(f.Tests) == 0 {
		return nil, fmt.Errorf("%w: %s: no tests", ErrInvalidSuite, path)
	}
	for key, c := range f.Tests {
		if c.Name == "" {
			c.Name = strings.ToUpper(key)
			f.Tests[key] = c
		}
	}
	if err := f.Tests.Validate(); err != nil {
		return nil, err
	}
	return f.Tests, nil
}

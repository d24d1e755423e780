package harness

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/rtnn/internal/parallel"
)

// y = 2x + 0.5
const denseModel = `{
  "in_shape": [null, null, 1],
  "layers": [
    {"type": "dense", "activation": "", "shape": [null, null, 1],
     "weights": [[[2.0]], [0.5]]}
  ]
}`

// newFixture writes a dense model with matching and mismatching reference
// outputs and returns a runner rooted at the fixture directory.
func newFixture(t *testing.T) (*Runner, *test.Hook) {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "models/dense.json", denseModel)
	writeFile(t, dir, "data/x.csv", "0\n0.25\n0.5\n1\n-1\n")
	writeFile(t, dir, "data/y.csv", "0.5\n1\n1.5\n2.5\n-1.5\n")
	writeFile(t, dir, "data/y_bad.csv", "0.5\n1\n1.625\n2.5\n-1.5\n")
	writeFile(t, dir, "data/y_short.csv", "0.5\n")

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	r := NewRunner(dir, logger)
	r.Parallel = parallel.Config{Enabled: true, NumWorkers: 2}
	return r, hook
}

func fixtureSuite() Suite {
	return Suite{
		"pass":    {Name: "PASS", ModelFile: "models/dense.json", XDataFile: "data/x.csv", YDataFile: "data/y.csv", Threshold: 1e-9},
		"fail":    {Name: "FAIL", ModelFile: "models/dense.json", XDataFile: "data/x.csv", YDataFile: "data/y_bad.csv", Threshold: 1e-3},
		"loose":   {Name: "LOOSE", ModelFile: "models/dense.json", XDataFile: "data/x.csv", YDataFile: "data/y_bad.csv", Threshold: 0.2},
		"missing": {Name: "MISSING", ModelFile: "models/none.json", XDataFile: "data/x.csv", YDataFile: "data/y.csv", Threshold: 1},
		"short":   {Name: "SHORT", ModelFile: "models/dense.json", XDataFile: "data/x.csv", YDataFile: "data/y_short.csv", Threshold: 1},
	}
}

func TestRunOnePass(t *testing.T) {
	r, hook := newFixture(t)
	suite := fixtureSuite()

	res, err := RunOne[float64](context.Background(), r, "pass", suite["pass"])
	require.NoError(t, err)
	assert.True(t, res.Passed())
	assert.Equal(t, 5, res.Samples)
	assert.Zero(t, res.Errors)
	assert.Zero(t, res.MaxError)
	assert.Equal(t, "PASS", res.Name)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "SUCCESS", entry.Message)
	assert.Equal(t, "pass", entry.Data["test"])
}

func TestRunOneFail(t *testing.T) {
	r, hook := newFixture(t)

	res, err := RunOne[float32](context.Background(), r, "fail", fixtureSuite()["fail"])
	require.NoError(t, err)
	assert.False(t, res.Passed())
	assert.Equal(t, 1, res.Errors)
	assert.InDelta(t, 0.125, res.MaxError, 1e-6)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestRunOneThreshold(t *testing.T) {
	r, _ := newFixture(t)

	res, err := RunOne[float64](context.Background(), r, "loose", fixtureSuite()["loose"])
	require.NoError(t, err)
	assert.True(t, res.Passed())
	assert.InDelta(t, 0.125, res.MaxError, 1e-12)
}

func TestRunOneErrors(t *testing.T) {
	r, _ := newFixture(t)
	suite := fixtureSuite()

	_, err := RunOne[float64](context.Background(), r, "missing", suite["missing"])
	assert.Error(t, err)

	_, err = RunOne[float64](context.Background(), r, "short", suite["short"])
	assert.ErrorIs(t, err, ErrDataMismatch)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = RunOne[float64](ctx, r, "pass", suite["pass"])
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunAll(t *testing.T) {
	r, _ := newFixture(t)

	results, err := RunAll[float64](context.Background(), r, fixtureSuite())
	require.NoError(t, err)
	require.Len(t, results, 5)

	var keys []string
	passed := map[string]bool{}
	for _, res := range results {
		keys = append(keys, res.Key)
		passed[res.Key] = res.Passed()
	}
	assert.Equal(t, []string{"fail", "loose", "missing", "pass", "short"}, keys)
	assert.Equal(t, map[string]bool{
		"fail": false, "loose": true, "missing": false, "pass": true, "short": false,
	}, passed)

	assert.Error(t, results[2].Err)
	assert.ErrorIs(t, results[4].Err, ErrDataMismatch)
}

func TestRunAllCanceled(t *testing.T) {
	r, _ := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunAll[float64](ctx, r, fixtureSuite())
	assert.ErrorIs(t, err, context.Canceled)
}

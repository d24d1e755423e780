// Package harness checks model implementations against reference outputs.
//
// A Suite maps test names to a Config naming a JSON model, an input CSV and
// the expected output CSV produced by the training framework. The Runner
// loads each model, feeds the inputs one sample at a time and counts the
// outputs whose absolute error exceeds the test's threshold.
//
// CheckKernels and CheckModel are self-contained checks that need no data
// files: the first verifies the vmath kernels against scalar formulas, the
// second verifies Model clone and reset semantics.
package harness

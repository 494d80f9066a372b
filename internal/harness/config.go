// Package harness provides test harness infrastructure for validating dataset
// evaluation against fixture directories.
package harness

// ExpectedResult is the expected outcome for a single dataset.
type ExpectedResult struct {
	// Name is the dataset name.
	Name string `yaml:"name"`

	// Min is the expected formatted minimum.
	Min string `yaml:"min,omitempty"`

	// Error is a substring of the expected failure, if the dataset should fail.
	Error string `yaml:"error,omitempty"`
}

// TestCase represents a single fixture directory.
type TestCase struct {
	// Dir is the directory name under the testdata root.
	Dir string `yaml:"-"`

	// Concurrency is passed to the batch runner.
	Concurrency int `yaml:"concurrency"`

	// Expected lists the results in dataset order.
	Expected []ExpectedResult `yaml:"expected"`

	// ExpectedLoadError is a substring of the expected load failure.
	ExpectedLoadError string `yaml:"expected_load_error,omitempty"`

	// Skip disables the case.
	Skip   bool   `yaml:"skip,omitempty"`
	Reason string `yaml:"reason,omitempty"`
}

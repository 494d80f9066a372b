package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	yaml "gopkg.in/yaml.v3"

	"github.com/stretchr/testify/require"

	"github.com/715d/mincontainer/internal/batch"
	"github.com/715d/mincontainer/internal/dataset"
)

const (
	datasetsFile = "datasets.yaml"
	expectedFile = "expected.yaml"
)

// TestHarness manages test execution.
type TestHarness struct {
	// root is the root directory for test data
	root string
}

// TestResult represents the result of running a test case.
type TestResult struct {
	// TestCase is the test case that was run.
	TestCase *TestCase

	// Results is the raw output of the batch runner.
	Results []batch.Result

	// Success indicates if the test passed.
	Success bool

	// Skipped indicates if the test was skipped.
	Skipped bool

	// Message provides a summary of the result.
	Message string

	// Details lists individual mismatches.
	Details []string
}

// NewHarness creates a new test harness.
func NewHarness(root string) *TestHarness {
	return &TestHarness{root: root}
}

// LoadTestCase loads the expectations of a fixture directory.
func LoadTestCase(t *testing.T, dir, root string) *TestCase {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, expectedFile))
	require.NoError(t, err)

	tc := &TestCase{}
	require.NoError(t, yaml.Unmarshal(data, tc))

	tc.Dir, err = filepath.Rel(root, dir)
	require.NoError(t, err)
	return tc
}

// Run loads the datasets of tc, evaluates them and compares the outcome
// with the expectations.
func (h *TestHarness) Run(t *testing.T, tc *TestCase) *TestResult {
	t.Helper()
	if tc.Skip {
		return &TestResult{TestCase: tc, Skipped: true, Message: tc.Reason}
	}

	datasets, err := dataset.Load(filepath.Join(h.root, tc.Dir, datasetsFile))
	if tc.ExpectedLoadError != "" {
		return checkLoadError(tc, err)
	}
	require.NoError(t, err)

	results, err := batch.Runner{Concurrency: tc.Concurrency}.Run(t.Context(), datasets)
	require.NoError(t, err)

	res := &TestResult{TestCase: tc, Results: results}
	res.Details = compare(tc.Expected, results)
	res.Success = len(res.Details) == 0
	if res.Success {
		res.Message = fmt.Sprintf("All %d datasets matched", len(results))
	} else {
		res.Message = fmt.Sprintf("%d mismatches:\n  %s", len(res.Details), strings.Join(res.Details, "\n  "))
	}
	return res
}

func checkLoadError(tc *TestCase, err error) *TestResult {
	res := &TestResult{TestCase: tc}
	switch {
	case err == nil:
		res.Message = fmt.Sprintf("expected load error containing %q, got none", tc.ExpectedLoadError)
	case !strings.Contains(err.Error(), tc.ExpectedLoadError):
		res.Message = fmt.Sprintf("expected load error containing %q, got %v", tc.ExpectedLoadError, err)
	default:
		res.Success = true
		res.Message = fmt.Sprintf("Got expected error: %v", err)
	}
	return res
}

func compare(expected []ExpectedResult, actual []batch.Result) []string {
	var details []string
	if len(expected) != len(actual) {
		details = append(details, fmt.Sprintf("expected %d results, got %d", len(expected), len(actual)))
	}

	for i := range min(len(expected), len(actual)) {
		exp, got := expected[i], actual[i]
		if exp.Name != got.Name {
			details = append(details, fmt.Sprintf("result %d: expected dataset %q, got %q", i, exp.Name, got.Name))
			continue
		}

		if exp.Error != "" {
			switch {
			case got.Err == nil:
				details = append(details, fmt.Sprintf("%s: expected error containing %q, got min %q", exp.Name, exp.Error, got.Min))
			case !strings.Contains(got.Err.Error(), exp.Error):
				details = append(details, fmt.Sprintf("%s: expected error containing %q, got %v", exp.Name, exp.Error, got.Err))
			}
			continue
		}

		if got.Err != nil {
			details = append(details, fmt.Sprintf("%s: unexpected error: %v", exp.Name, got.Err))
		} else if got.Min != exp.Min {
			details = append(details, fmt.Sprintf("%s: expected min %q, got %q", exp.Name, exp.Min, got.Min))
		}
	}
	return details
}

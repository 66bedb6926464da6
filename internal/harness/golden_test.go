package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenarios runs every scenario under testdata/scenarios and compares
// its outcome with testdata/golden/<name>.golden.
func TestScenarios(t *testing.T) {
	files, err := FindScenarios("testdata/scenarios", "")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		scenario, err := LoadScenario(file)
		require.NoError(t, err, file)

		t.Run(scenario.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestAssertGolden(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/or_chain.yaml")
	require.NoError(t, err)
	result, err := Run(scenario)
	require.NoError(t, err)
	require.NoError(t, AssertGolden(t, "or_chain", result))
}

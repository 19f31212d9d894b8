package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_Format(t *testing.T) {
	r := NewResult()
	r.AddInvocationTrace("toggleDarkMode", nil, 1)
	r.AddCompletionTrace("toggleDarkMode", CaseSuccess, map[string]any{"darkMode": true}, 2)

	data, err := Snapshot("dark", r)
	require.NoError(t, err)

	want := `{
  "scenario_name": "dark",
  "trace": [
    {
      "action": "toggleDarkMode",
      "seq": 1,
      "type": "invocation"
    },
    {
      "action": "toggleDarkMode",
      "output_case": "Success",
      "result": {
        "darkMode": true
      },
      "seq": 2,
      "type": "completion"
    }
  ]
}
`
	assert.Equal(t, want, string(data))
}

func TestSnapshot_DoesNotEscapeHTML(t *testing.T) {
	r := NewResult()
	r.AddInvocationTrace("addProduct", map[string]any{"name": "<Lamp & Co>"}, 1)

	data, err := Snapshot("html", r)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<Lamp & Co>")
}

func TestGoldenPath(t *testing.T) {
	got := GoldenPath(filepath.Join("scenarios", "order_delivered.yaml"))
	assert.Equal(t, filepath.Join("scenarios", "golden", "order_delivered.golden"), got)
}

func TestWriteAndCompareGolden(t *testing.T) {
	scenario, err := LoadScenario("testdata/add_product.yaml")
	require.NoError(t, err)
	result, err := Run(scenario)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "golden", "add_product.golden")
	require.NoError(t, WriteGolden(path, scenario.Name, result))

	match, err := CompareGolden(path, scenario.Name, result)
	require.NoError(t, err)
	assert.True(t, match)

	match, err = CompareGolden(path, "renamed", result)
	require.NoError(t, err)
	assert.False(t, match)
}

func TestCompareGolden_Missing(t *testing.T) {
	_, err := CompareGolden(filepath.Join(t.TempDir(), "nope.golden"), "x", NewResult())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "failed to read golden file"))
}

func TestGoldenFileMatchesCheckedIn(t *testing.T) {
	scenario, err := LoadScenario("testdata/order_delivered.yaml")
	require.NoError(t, err)
	result, err := Run(scenario)
	require.NoError(t, err)

	match, err := CompareGolden(GoldenPath("testdata/order_delivered.yaml"), scenario.Name, result)
	require.NoError(t, err)
	assert.True(t, match)
}

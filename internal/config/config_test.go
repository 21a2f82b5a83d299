package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snputil.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, "format: db\nz0: 75\norder: oddeven\nno_plot: true\n")

	got, err := Load(path)
	require.NoError(t, err)

	want := Default()
	want.Format = "db"
	want.Z0 = 75
	want.Order = "oddeven"
	want.NoPlot = true
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Load mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	got, err := Load(writeFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), got)
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())
	got, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), got)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadRejects(t *testing.T) {
	tests := map[string]string{
		"unknown key":   "colour: blue\n",
		"bad format":    "format: xy\n",
		"bad order":     "order: diagonal\n",
		"bad unit":      "freq_unit: parsec\n",
		"negative z0":   "z0: -50\n",
		"pass too high": "pass_criterion: 101\n",
		"bad yaml":      "format: [\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, body))
			require.Error(t, err)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("SNPUTIL_FORMAT", "ma")
	t.Setenv("SNPUTIL_PASS_CRITERION", "90")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, "ma", cfg.Format)
	assert.InDelta(t, 90, cfg.PassCriterion, 0)

	t.Setenv("SNPUTIL_PASS_CRITERION", "high")
	assert.ErrorIs(t, cfg.ApplyEnv(), ErrInvalid)
}

package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/K0NGR3SS/fraudprobe/internal/models"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestParseTypes(t *testing.T) {
	types, err := parseTypes([]string{"typo", "add_prefix"})
	require.NoError(t, err)
	assert.Equal(t, []models.PerturbationType{models.PerturbTypo, models.PerturbAddPrefix}, types)

	_, err = parseTypes([]string{"paraphrase"})
	assert.Error(t, err)
}

func TestGenerateToStdout(t *testing.T) {
	chdirTemp(t)

	out, err := execute(t, "generate", "--count", "4", "--seed", "3", "--log-level", "error")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "text,label", lines[0])
}

func TestAttackEndToEnd(t *testing.T) {
	dir := chdirTemp(t)
	t.Setenv("FRAUDPROBE_STORE_PATH", filepath.Join(dir, "history.db"))

	dataPath := filepath.Join(dir, "data.csv")
	_, err := execute(t, "generate", "--count", "8", "--out", dataPath, "--log-level", "error")
	require.NoError(t, err)

	_, err = execute(t, "attack", "--data", dataPath, "--samples", "8", "--types", "typo,synonym", "--log-level", "error")
	require.NoError(t, err)

	report, err := os.ReadFile(filepath.Join(dir, "results", "optimized_results_8samples.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(report), "typo: success_rate=")
	assert.Contains(t, string(report), "synonym: success_rate=")

	dumps, err := filepath.Glob(filepath.Join(dir, "results", "adversarial_samples", "adversarial_*.tsv"))
	require.NoError(t, err)
	assert.Len(t, dumps, 1)

	_, err = execute(t, "history", "--log-level", "error")
	require.NoError(t, err)
}

func TestPerturbRequiresType(t *testing.T) {
	chdirTemp(t)

	_, err := execute(t, "perturb", "--label", "normal", "--log-level", "error", "你好")
	assert.Error(t, err)

	_, err = execute(t, "perturb", "--label", "maybe", "--type", "typo", "--log-level", "error", "你好")
	assert.Error(t, err)
}

func TestHistoryDisabled(t *testing.T) {
	chdirTemp(t)

	_, err := execute(t, "history", "--log-level", "error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history is disabled")
}

func TestAttackRejectsNonPositiveSamples(t *testing.T) {
	chdirTemp(t)

	for _, n := range []string{"-1", "0"} {
		_, err := execute(t, "attack", "--extended", "--samples="+n, "--log-level", "error")
		require.Error(t, err, n)
		assert.Contains(t, err.Error(), "--samples must be positive")
	}
}

package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/basedash/internal/auth"
	"github.com/verte-zerg/basedash/internal/config"
)

const sampleCSV = `Base,Checker,Card Number
1-US-AA,approved,4111
2-US-AA,not approved,4222
X,not in time,4333
`

// setup points every XDG directory at a temp dir and seeds the data folder.
func setup(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "state"))
	t.Setenv(auth.EnvPassword, "")

	dir := config.DefaultDataDir()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sample.csv"), []byte(sampleCSV), 0o644))
	return dir
}

func execute(args ...string) (string, error) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestStatsCommand(t *testing.T) {
	setup(t)
	out, err := execute("stats", "--file", "sample.csv")
	require.NoError(t, err)
	assert.Contains(t, out, "Overall")
	assert.Contains(t, out, "Total Records: 3")
	assert.Contains(t, out, "AA  Groups: 1-US-AA, 2-US-AA")
}

func TestStatsCommandStatusFilter(t *testing.T) {
	setup(t)
	out, err := execute("stats", "--file", "sample.csv", "--status", "approved")
	require.NoError(t, err)
	assert.Contains(t, out, "Overall (Approved)")
	assert.Contains(t, out, "Total Records: 1")

	_, err = execute("stats", "--file", "sample.csv", "--status", "pending")
	assert.ErrorContains(t, err, "--status")
}

func TestStatsCommandUnknownGroup(t *testing.T) {
	setup(t)
	_, err := execute("stats", "--file", "sample.csv", "--group", "zz")
	assert.ErrorContains(t, err, `unknown base "zz"`)
}

func TestBasesCommand(t *testing.T) {
	setup(t)
	out, err := execute("bases", "--file", "sample.csv", "--base", "1-us-aa")
	require.NoError(t, err)
	assert.Contains(t, out, "AA: 1-US-AA, 2-US-AA")
	assert.Contains(t, out, "X: X")
	assert.Contains(t, out, "Selected rows: 2 of 3")
}

func TestSearchAndCombineCommands(t *testing.T) {
	setup(t)
	out, err := execute("search", "--file", "sample.csv", "us-aa")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 2 result(s)")

	out, err = execute("combine", "--file", "sample.csv", "1-us", "x")
	require.NoError(t, err)
	assert.Contains(t, out, "Combined Results: 1-us + x")
	assert.Contains(t, out, "Found 2 result(s)")

	out, err = execute("combine", "--file", "sample.csv", "nope", "none")
	require.NoError(t, err)
	assert.Contains(t, out, "No records found for these base names")

	_, err = execute("search", "--file", "sample.csv", "")
	assert.ErrorContains(t, err, "please enter a search term")
}

func TestFilesCommand(t *testing.T) {
	dir := setup(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.xlsx"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o644))

	out, err := execute("files")
	require.NoError(t, err)
	assert.Equal(t, "b.xlsx\nsample.csv\n", out)
}

func TestConfigFileSetsDataDir(t *testing.T) {
	setup(t)
	other := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(other, "other.csv"), []byte(sampleCSV), 0o644))

	path := config.DefaultConfigPath()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("[dashboard]\ndata-dir = \""+filepath.ToSlash(other)+"\"\n"), 0o644))

	out, err := execute("files")
	require.NoError(t, err)
	assert.Equal(t, "other.csv\n", out)

	out, err = execute("files", "--data-dir", config.DefaultDataDir())
	require.NoError(t, err)
	assert.Equal(t, "sample.csv\n", out)
}

func TestValidationErrors(t *testing.T) {
	setup(t)
	_, err := execute("stats", "--file", "sample.csv", "--holder-name", "")
	assert.ErrorContains(t, err, "--holder-name must not be empty")

	_, err = execute("stats")
	assert.ErrorContains(t, err, "--file must not be empty")
}

func TestExportCommand(t *testing.T) {
	setup(t)
	out := filepath.Join(t.TempDir(), "out", "export.db")

	stdout, err := execute("export", "--file", "sample.csv", "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote 3 records, 3 base values and 2 groups")
	assert.FileExists(t, out)

	stdout, err = execute("export", "--file", "sample.csv", "--out", out, "--status", "approved")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote 1 records")

	_, err = execute("export", "--file", "sample.csv")
	assert.ErrorContains(t, err, "--out must not be empty")
}

func TestFillDryRun(t *testing.T) {
	setup(t)
	out, err := execute("fill", "--file", "sample.csv", "--row", "2", "--dry-run")
	require.NoError(t, err)
	assert.Equal(t, "card number: 4222\ncardholder:  Test User\n", out)

	out, err = execute("fill", "--file", "sample.csv", "--search", "x", "--dry-run", "--holder-name", "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, "card number: 4333\ncardholder:  Jane Doe\n", out)

	_, err = execute("fill", "--file", "sample.csv", "--row", "9", "--dry-run")
	assert.ErrorContains(t, err, "row out of range")
}

func TestFillRequiresBackend(t *testing.T) {
	setup(t)
	_, err := execute("fill", "--file", "sample.csv")
	assert.ErrorContains(t, err, "--url or --dry-run")
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	var cfg config.FileConfig
	md, err := toml.Decode(defaultConfigTemplate(), &cfg)
	require.NoError(t, err)
	assert.Empty(t, md.Undecoded())
	assert.Nil(t, cfg.Dashboard.DataDir)
}

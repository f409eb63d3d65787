package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	_, err := runFintrack(t, dir, "init")
	require.NoError(t, err)

	for _, d := range []string{"userdata", "logs", "import", filepath.Join("import", "processed")} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}
	assert.False(t, fileExists(filepath.Join(dir, ".git")), "git is opt-in")
}

func TestInit_Config(t *testing.T) {
	dir := t.TempDir()
	_, err := runFintrack(t, dir, "init", "--format", "text", "--hash-scheme", "bcrypt")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "fintrack.yaml"))
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "format: text")
	assert.Contains(t, contents, "hash_scheme: bcrypt")
}

func TestInit_RejectsBadFormat(t *testing.T) {
	dir := t.TempDir()
	_, err := runFintrack(t, dir, "init", "--format", "xml")
	require.Error(t, err)
	assert.False(t, fileExists(filepath.Join(dir, "fintrack.yaml")))
}

func TestInit_RefusesExisting(t *testing.T) {
	dir := t.TempDir()
	_, err := runFintrack(t, dir, "init")
	require.NoError(t, err)

	out, err := runFintrack(t, dir, "init")
	require.Error(t, err)
	assert.Contains(t, out, "already exists")
}

func TestInit_GitRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	_, err := runFintrack(t, dir, "init", "--git")
	require.NoError(t, err)
	require.True(t, fileExists(filepath.Join(dir, ".git")), ".git should exist")

	_, err = runFintrack(t, dir, "register", "--user", "anna", "--password", "pw1")
	require.NoError(t, err)
	_, err = runFintrack(t, dir, asAnna("add", "Expense", "Food", "12.50")...)
	require.NoError(t, err)

	log := exec.Command("git", "log", "--format=%s")
	log.Dir = dir
	out, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "init: fintrack data directory")
	assert.Contains(t, string(out), "register: anna")
	assert.Contains(t, string(out), "add: Expense/Food 12.50")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

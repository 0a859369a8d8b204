package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClearDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "npm", "react.json"), "{}")
	writeFile(t, filepath.Join(dir, "npm", "scoped", "types.json"), "{}")
	writeFile(t, filepath.Join(dir, "top.json"), "{}")

	n, err := clearDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "subdirectories are removed too")
	assert.DirExists(t, dir)
}

func TestClearDirMissing(t *testing.T) {
	n, err := clearDir(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCacheCommands(t *testing.T) {
	p := newProject(t)
	cacheDir := filepath.Join(p.dir, "cache")
	writeFile(t, p.config, fmt.Sprintf("[cache]\nbackend = \"file\"\ndir = '%s'\n", cacheDir))
	writeFile(t, filepath.Join(cacheDir, "entry"), "x")

	out, err := p.run(t, "cache", "path")
	require.NoError(t, err)
	assert.Equal(t, cacheDir+"\n", out)

	_, err = p.run(t, "cache", "clear")
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(cacheDir, "entry"))
}

func TestCachePathOtherBackends(t *testing.T) {
	p := newProject(t)

	out, err := p.run(t, "cache", "path")
	require.NoError(t, err)
	assert.Equal(t, "(none)\n", out)

	_, err = p.run(t, "cache", "clear")
	require.NoError(t, err)
}

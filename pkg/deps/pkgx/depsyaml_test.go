package pkgx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/home-lang/pantry-sub014/pkg/deps"
	perrors "github.com/home-lang/pantry-sub014/pkg/errors"
)

func TestParseMapping(t *testing.T) {
	m, err := ParseBytes([]byte(`
name: app
version: 0.1.0
global: true
dependencies:
  nodejs.org: ^20
  bun.sh: ""
  python.org:
    version: ~3.12
    global: false
devDependencies:
  jq.dev: 1.7
catalog:
  react: ^18.2.0
`))
	require.NoError(t, err)
	require.Equal(t, "app", m.Name)
	require.Equal(t, "0.1.0", m.Version)
	require.Equal(t, []deps.Dependency{
		{Name: "nodejs.org", Range: "^20", Kind: deps.Prod, Global: true},
		{Name: "bun.sh", Range: "*", Kind: deps.Prod, Global: true},
		{Name: "python.org", Range: "~3.12", Kind: deps.Prod, Global: false},
		{Name: "jq.dev", Range: "1.7", Kind: deps.Dev, Global: true},
	}, m.Dependencies)

	cat, ok := m.Raw["catalog"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "^18.2.0", cat["react"])
}

func TestParseList(t *testing.T) {
	m, err := ParseBytes([]byte(`
dependencies:
  - bun.sh@1
  - "@types/node@^20"
  - curl.se
  - name: python.org
    version: ~3.12
    global: true
`))
	require.NoError(t, err)
	require.Equal(t, []deps.Dependency{
		{Name: "bun.sh", Range: "1", Kind: deps.Prod},
		{Name: "@types/node", Range: "^20", Kind: deps.Prod},
		{Name: "curl.se", Range: "*", Kind: deps.Prod},
		{Name: "python.org", Range: "~3.12", Kind: deps.Prod, Global: true},
	}, m.Dependencies)
}

func TestParseInlineScalar(t *testing.T) {
	m, err := ParseBytes([]byte("dependencies: nodejs.org@20 npmjs.com\n"))
	require.NoError(t, err)
	require.Len(t, m.Dependencies, 2)
	require.Equal(t, "20", m.Dependencies[0].Range)
	require.Equal(t, "*", m.Dependencies[1].Range)
}

func TestParseEmptyAndInvalid(t *testing.T) {
	m, err := ParseBytes(nil)
	require.NoError(t, err)
	require.Empty(t, m.Dependencies)
	require.NotNil(t, m.Raw)

	_, err = ParseBytes([]byte("- just\n- a list\n"))
	require.Error(t, err)

	_, err = ParseBytes([]byte("dependencies:\n  - {version: 1}\n"))
	require.ErrorContains(t, err, "missing package name")
}

func TestDepsYAMLParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pkgx.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dependencies:\n  zlib.net: ^1.3\n"), 0o644))

	m, err := deps.LoadManifest(path, DepsYAML{})
	require.NoError(t, err)
	require.Equal(t, "deps.yaml", m.Type)
	require.Len(t, m.Dependencies, 1)

	_, err = DepsYAML{}.Parse(filepath.Join(dir, "deps.yaml"))
	require.True(t, perrors.Is(err, perrors.ErrCodeFileNotFound))

	require.NoError(t, os.WriteFile(path, []byte("dependencies: [\n"), 0o644))
	_, err = DepsYAML{}.Parse(path)
	require.True(t, perrors.Is(err, perrors.ErrCodeInvalidManifest))
}

func TestSplitSpec(t *testing.T) {
	tests := []struct{ in, name, rng string }{
		{"bun.sh@1.1", "bun.sh", "1.1"},
		{"@scope/pkg@^2", "@scope/pkg", "^2"},
		{"@scope/pkg", "@scope/pkg", "*"},
		{"curl.se", "curl.se", "*"},
		{"curl.se@", "curl.se", "*"},
	}
	for _, tt := range tests {
		name, rng := SplitSpec(tt.in)
		require.Equal(t, tt.name, name, tt.in)
		require.Equal(t, tt.rng, rng, tt.in)
	}
}

package npm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	perrors "github.com/home-lang/pantry-sub014/pkg/errors"
	"github.com/home-lang/pantry-sub014/pkg/integrations"
	npmapi "github.com/home-lang/pantry-sub014/pkg/integrations/npm"
	"github.com/home-lang/pantry-sub014/pkg/registry"
)

var tarball = []byte("fake tgz contents")

func newServer(t *testing.T, integrity string) *httptest.Server {
	t.Helper()
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/left-pad":
			doc := npmapi.Packument{
				Name:     "left-pad",
				DistTags: map[string]string{"latest": "1.3.0", "next": "2.0.0-rc.1"},
				Versions: map[string]npmapi.VersionDoc{
					"1.3.0": {
						Name: "left-pad", Version: "1.3.0", License: "WTFPL",
						Dependencies:         map[string]string{"repeat": "^1.0.0"},
						PeerDependencies:     map[string]string{"react": ">=18"},
						PeerDependenciesMeta: map[string]npmapi.PeerMeta{"react": {Optional: true}},
						OS:                   []string{"darwin", "linux"},
						Dist:                 npmapi.Dist{Tarball: server.URL + "/left-pad/-/left-pad-1.3.0.tgz", Integrity: integrity},
					},
					"1.0.0":      {Name: "left-pad", Version: "1.0.0"},
					"2.0.0-rc.1": {Name: "left-pad", Version: "2.0.0-rc.1"},
				},
			}
			json.NewEncoder(w).Encode(doc)
		case "/left-pad/-/left-pad-1.3.0.tgz":
			w.Write(tarball)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func newRegistry(server *httptest.Server) *Registry {
	return New("", npmapi.NewClient(integrations.Options{HTTPClient: server.Client()}, server.URL))
}

func TestFetchMetadata(t *testing.T) {
	r := newRegistry(newServer(t, ""))
	ctx := context.Background()

	meta, err := r.FetchMetadata(ctx, "left-pad", "")
	require.NoError(t, err)
	require.Equal(t, "1.3.0", meta.Version)
	require.Equal(t, "WTFPL", meta.License)
	require.Equal(t, "^1.0.0", meta.Dependencies["repeat"])
	require.True(t, meta.IsOptionalPeer("react"))
	require.Equal(t, []string{"darwin", "linux"}, meta.OS)
	require.Equal(t, "npm", meta.Origin)

	meta, err = r.FetchMetadata(ctx, "left-pad", "next")
	require.NoError(t, err)
	require.Equal(t, "2.0.0-rc.1", meta.Version)

	meta, err = r.FetchMetadata(ctx, "left-pad", "v1.0.0")
	require.NoError(t, err)
	require.Equal(t, "1.0.0", meta.Version)

	_, err = r.FetchMetadata(ctx, "left-pad", "9.9.9")
	require.True(t, perrors.Is(err, perrors.ErrCodePackageNotFound))

	_, err = r.FetchMetadata(ctx, "missing", "")
	require.True(t, perrors.Is(err, perrors.ErrCodePackageNotFound))
	require.True(t, registry.Recoverable(err))
}

func TestListVersions(t *testing.T) {
	versions, err := newRegistry(newServer(t, "")).ListVersions(context.Background(), "left-pad")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"1.0.0", "1.3.0", "2.0.0-rc.1"}, versions)
}

func TestDownloadTarball(t *testing.T) {
	dir := t.TempDir()

	r := newRegistry(newServer(t, integrations.ComputeIntegrity(tarball)))
	dest := filepath.Join(dir, "ok.tgz")
	require.NoError(t, r.DownloadTarball(context.Background(), "left-pad", "1.3.0", dest))
	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, tarball, got)

	bad := newRegistry(newServer(t, integrations.ComputeIntegrity([]byte("different"))))
	err = bad.DownloadTarball(context.Background(), "left-pad", "1.3.0", filepath.Join(dir, "bad.tgz"))
	require.True(t, perrors.Is(err, perrors.ErrCodeDownloadFailed))
	require.True(t, perrors.Is(err, perrors.ErrCodeIntegrityMismatch))
}

func TestPublishStatusMapping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "pkg.tgz")
	require.NoError(t, os.WriteFile(path, tarball, 0o644))

	r := New("mirror", npmapi.NewClient(integrations.Options{HTTPClient: server.Client()}, server.URL))
	err := r.Publish(context.Background(), &registry.PackageMetadata{Name: "left-pad", Version: "1.3.0"}, path)
	require.True(t, perrors.Is(err, perrors.ErrCodePublishFailed))
	require.True(t, perrors.Is(err, perrors.ErrCodeAlreadyExists))
}

func TestVersionDocRoundTrip(t *testing.T) {
	in := &registry.PackageMetadata{
		Name: "x", Version: "1.0.0", License: "MIT", Repository: "https://github.com/o/x",
		PeerDependencies: map[string]string{"y": "^1"}, OptionalPeers: []string{"y"},
	}
	out := FromVersionDoc(ToVersionDoc(in))
	require.Equal(t, in.License, out.License)
	require.Equal(t, in.Repository, out.Repository)
	require.Equal(t, in.OptionalPeers, out.OptionalPeers)
}

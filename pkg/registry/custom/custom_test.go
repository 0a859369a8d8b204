package custom

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	perrors "github.com/home-lang/pantry-sub014/pkg/errors"
	"github.com/home-lang/pantry-sub014/pkg/integrations"
	"github.com/home-lang/pantry-sub014/pkg/registry"
)

type store struct {
	meta    map[string]registry.PackageMetadata
	tarball map[string][]byte
}

func newServer(t *testing.T, s *store) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Post("/publish", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var meta registry.PackageMetadata
		if err := json.Unmarshal([]byte(r.FormValue("metadata")), &meta); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		key := meta.Name + "@" + meta.Version
		if _, ok := s.meta[key]; ok {
			w.WriteHeader(http.StatusConflict)
			return
		}
		f, hdr, err := r.FormFile("tarball")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		if hdr.Filename != "tool-1.0.0.tgz" || hdr.Header.Get("Content-Type") != "application/gzip" {
			http.Error(w, "bad part", http.StatusBadRequest)
			return
		}
		s.meta[key] = meta
		s.tarball[key] = data
		w.WriteHeader(http.StatusCreated)
	})
	r.Get("/packages/{name}/{version}", func(w http.ResponseWriter, r *http.Request) {
		meta, ok := s.meta[chi.URLParam(r, "name")+"@"+chi.URLParam(r, "version")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(meta)
	})
	r.Get("/packages/{name}/{version}/tarball", func(w http.ResponseWriter, r *http.Request) {
		w.Write(s.tarball[chi.URLParam(r, "name")+"@"+chi.URLParam(r, "version")])
	})
	r.Get("/packages/{name}/versions", func(w http.ResponseWriter, r *http.Request) {
		var versions []string
		for _, m := range s.meta {
			if m.Name == chi.URLParam(r, "name") {
				versions = append(versions, m.Version)
			}
		}
		json.NewEncoder(w).Encode(map[string]any{"versions": versions})
	})
	r.Get("/search", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"results": []registry.SearchResult{{Name: r.URL.Query().Get("q")}}})
	})
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func authorized(server *httptest.Server) *integrations.Client {
	hc, _ := registry.Auth{Type: registry.AuthBearer, Token: "secret"}.Client(context.Background(), server.Client())
	return integrations.NewClient(integrations.Options{HTTPClient: hc})
}

func TestPublishRoundTrip(t *testing.T) {
	s := &store{meta: map[string]registry.PackageMetadata{}, tarball: map[string][]byte{}}
	server := newServer(t, s)
	r := New("corp", server.URL, authorized(server))
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "tool.tgz")
	require.NoError(t, os.WriteFile(path, []byte("gz"), 0o644))

	meta := &registry.PackageMetadata{Name: "tool", Version: "1.0.0", Dependencies: map[string]string{"a": "^1"}}
	require.NoError(t, r.Publish(ctx, meta, path))
	require.Empty(t, meta.Integrity, "caller's metadata is not modified")

	got, err := r.FetchMetadata(ctx, "tool", "1.0.0")
	require.NoError(t, err)
	require.Equal(t, "corp", got.Origin)
	require.Equal(t, "^1", got.Dependencies["a"])
	require.Equal(t, integrations.ComputeIntegrity([]byte("gz")), got.Integrity)

	versions, err := r.ListVersions(ctx, "tool")
	require.NoError(t, err)
	require.Equal(t, []string{"1.0.0"}, versions)

	dest := filepath.Join(t.TempDir(), "out.tgz")
	require.NoError(t, r.DownloadTarball(ctx, "tool", "1.0.0", dest))
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, "gz", string(data))

	results, err := r.Search(ctx, "to")
	require.NoError(t, err)
	require.Equal(t, "to", results[0].Name)

	err = r.Publish(ctx, meta, path)
	require.True(t, perrors.Is(err, perrors.ErrCodePublishFailed))
	require.True(t, perrors.Is(err, perrors.ErrCodeAlreadyExists))
}

func TestPublishUnauthorized(t *testing.T) {
	s := &store{meta: map[string]registry.PackageMetadata{}, tarball: map[string][]byte{}}
	server := newServer(t, s)
	r := New("corp", server.URL, integrations.NewClient(integrations.Options{HTTPClient: server.Client()}))

	path := filepath.Join(t.TempDir(), "tool.tgz")
	require.NoError(t, os.WriteFile(path, []byte("gz"), 0o644))

	err := r.Publish(context.Background(), &registry.PackageMetadata{Name: "tool", Version: "1.0.0"}, path)
	require.True(t, perrors.Is(err, perrors.ErrCodeUnauthorized))
	require.Equal(t, registry.TypeCustom, r.Type())

	err = r.Publish(context.Background(), &registry.PackageMetadata{Name: "tool", Version: "1.0.0"}, filepath.Join(t.TempDir(), "missing.tgz"))
	require.True(t, perrors.Is(err, perrors.ErrCodePublishFailed))
}

package pantry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	perrors "github.com/home-lang/pantry-sub014/pkg/errors"
	"github.com/home-lang/pantry-sub014/pkg/integrations"
	npmapi "github.com/home-lang/pantry-sub014/pkg/integrations/npm"
	"github.com/home-lang/pantry-sub014/pkg/observability"
	"github.com/home-lang/pantry-sub014/pkg/registry"
	"github.com/home-lang/pantry-sub014/pkg/registry/npm"
	"github.com/home-lang/pantry-sub014/pkg/registry/rest"
)

type fixture struct {
	registry *Registry
	npmCalls atomic.Int32
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{}

	native := registry.PackageMetadata{
		Name: "native", Version: "1.0.0", License: "MIT",
		Dependencies: map[string]string{"dep": "^1.0.0"},
	}
	first := chi.NewRouter()
	first.Get("/packages/native/1.0.0", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(native)
	})
	first.Get("/packages/{name}/versions", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	fs := httptest.NewServer(first)
	t.Cleanup(fs.Close)

	var ns *httptest.Server
	npmRouter := chi.NewRouter()
	npmRouter.Get("/x", func(w http.ResponseWriter, r *http.Request) {
		f.npmCalls.Add(1)
		json.NewEncoder(w).Encode(npmapi.Packument{
			Name:     "x",
			DistTags: map[string]string{"latest": "1.0.0"},
			Versions: map[string]npmapi.VersionDoc{"1.0.0": {
				Name: "x", Version: "1.0.0", License: "MIT",
				Dependencies: map[string]string{"dep": "^1.0.0"},
				Dist:         npmapi.Dist{Tarball: ns.URL + "/x/-/x-1.0.0.tgz"},
			}},
		})
	})
	npmRouter.Get("/x/-/x-1.0.0.tgz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("from npm"))
	})
	ns = httptest.NewServer(npmRouter)
	t.Cleanup(ns.Close)

	primary := rest.New("pantry", registry.TypePantry, fs.URL, integrations.NewClient(integrations.Options{HTTPClient: fs.Client()}))
	fallback := npm.New("npm", npmapi.NewClient(integrations.Options{HTTPClient: ns.Client()}, ns.URL))
	f.registry = New(primary, fallback)
	return f
}

type fallbackRecorder struct {
	observability.NoopResolveHooks
	events []string
}

func (r *fallbackRecorder) OnFallback(_ context.Context, from, to, name string) {
	r.events = append(r.events, from+"->"+to+":"+name)
}

func TestFallbackOnNotFound(t *testing.T) {
	rec := &fallbackRecorder{}
	observability.SetResolveHooks(rec)
	t.Cleanup(observability.Reset)

	f := newFixture(t)
	ctx := context.Background()

	viaFallback, err := f.registry.FetchMetadata(ctx, "x", "1.0.0")
	require.NoError(t, err)
	require.EqualValues(t, 1, f.npmCalls.Load(), "exactly one npm call")
	require.Equal(t, []string{"pantry->npm:x"}, rec.events)

	native, err := f.registry.FetchMetadata(ctx, "native", "1.0.0")
	require.NoError(t, err)
	require.EqualValues(t, 1, f.npmCalls.Load(), "native hits never reach npm")

	require.Equal(t, native.Origin, viaFallback.Origin)
	require.Equal(t, native.License, viaFallback.License)
	require.Equal(t, native.Dependencies, viaFallback.Dependencies)
	require.Equal(t, registry.TypePantry, f.registry.Type())
}

func TestFallbackListAndDownload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	versions, err := f.registry.ListVersions(ctx, "x")
	require.NoError(t, err)
	require.Equal(t, []string{"1.0.0"}, versions)

	dest := filepath.Join(t.TempDir(), "x.tgz")
	require.NoError(t, f.registry.DownloadTarball(ctx, "x", "1.0.0", dest))
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, "from npm", string(data))
}

func TestFallbackExhausted(t *testing.T) {
	f := newFixture(t)
	_, err := f.registry.FetchMetadata(context.Background(), "nowhere", "")
	require.True(t, perrors.Is(err, perrors.ErrCodePackageNotFound))
}

func TestNoFallback(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	r := New(rest.New("pantry", registry.TypePantry, server.URL, integrations.NewClient(integrations.Options{})), nil)
	_, err := r.FetchMetadata(context.Background(), "x", "")
	require.True(t, perrors.Is(err, perrors.ErrCodePackageNotFound))
	require.Nil(t, r.Fallback())
}

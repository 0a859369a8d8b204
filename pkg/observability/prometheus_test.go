package observability

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsHTTP(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	ctx := context.Background()

	m.OnResponse(ctx, "GET", "registry.npmjs.org", "/react", 200, 10*time.Millisecond)
	m.OnResponse(ctx, "GET", "registry.npmjs.org", "/nope", 404, time.Millisecond)
	m.OnError(ctx, "GET", "registry.npmjs.org", "/react", errors.New("reset"))

	expected := `
# HELP pantry_http_requests_total Total number of registry HTTP requests
# TYPE pantry_http_requests_total counter
pantry_http_requests_total{host="registry.npmjs.org",method="GET",status="200"} 1
pantry_http_requests_total{host="registry.npmjs.org",method="GET",status="404"} 1
`
	if err := testutil.CollectAndCompare(m.HTTPRequestsTotal, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metric value: %v", err)
	}
	if got := testutil.ToFloat64(m.HTTPErrorsTotal.WithLabelValues("GET", "registry.npmjs.org")); got != 1 {
		t.Errorf("errors = %v, want 1", got)
	}
}

func TestMetricsResolveAndCache(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	ctx := context.Background()

	m.OnResolveComplete(ctx, "s1", 4, time.Second, nil)
	m.OnResolveComplete(ctx, "s2", 0, time.Second, errors.New("cycle"))
	m.OnPackageResolved(ctx, "react", "18.2.0", "npm")
	m.OnFallback(ctx, "pantry", "npm", "react")
	m.OnCacheHit(ctx, "metadata")
	m.OnCacheMiss(ctx, "metadata")
	m.OnCacheSet(ctx, "metadata", 512)

	checks := map[string]float64{
		"success":  testutil.ToFloat64(m.ResolveTotal.WithLabelValues("success")),
		"error":    testutil.ToFloat64(m.ResolveTotal.WithLabelValues("error")),
		"npm":      testutil.ToFloat64(m.PackagesResolved.WithLabelValues("npm")),
		"fallback": testutil.ToFloat64(m.FallbacksTotal.WithLabelValues("pantry", "npm")),
		"hit":      testutil.ToFloat64(m.CacheHitsTotal.WithLabelValues("metadata")),
		"miss":     testutil.ToFloat64(m.CacheMissesTotal.WithLabelValues("metadata")),
	}
	for name, got := range checks {
		if got != 1 {
			t.Errorf("%s = %v, want 1", name, got)
		}
	}
	if got := testutil.ToFloat64(m.CacheWrittenBytes.WithLabelValues("metadata")); got != 512 {
		t.Errorf("written bytes = %v, want 512", got)
	}
}

func TestMetricsInstallAndWriteTextfile(t *testing.T) {
	defer Reset()
	m := NewMetrics(prometheus.NewRegistry())
	m.Install()

	if Resolve() != ResolveHooks(m) || Cache() != CacheHooks(m) || HTTP() != HTTPHooks(m) {
		t.Fatal("Install should register all hooks")
	}

	Cache().OnCacheHit(context.Background(), "versions")
	path := filepath.Join(t.TempDir(), "pantry.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `pantry_cache_hits_total{key_type="versions"} 1`) {
		t.Errorf("textfile missing cache hit:\n%s", data)
	}
}

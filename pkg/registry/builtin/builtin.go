// Package builtin constructs registry backends from configuration.
package builtin

import (
	"context"
	"net/http"
	"time"

	"github.com/home-lang/pantry-sub014/pkg/cache"
	perrors "github.com/home-lang/pantry-sub014/pkg/errors"
	"github.com/home-lang/pantry-sub014/pkg/integrations"
	ghapi "github.com/home-lang/pantry-sub014/pkg/integrations/github"
	npmapi "github.com/home-lang/pantry-sub014/pkg/integrations/npm"
	"github.com/home-lang/pantry-sub014/pkg/registry"
	"github.com/home-lang/pantry-sub014/pkg/registry/custom"
	"github.com/home-lang/pantry-sub014/pkg/registry/github"
	"github.com/home-lang/pantry-sub014/pkg/registry/npm"
	"github.com/home-lang/pantry-sub014/pkg/registry/pantry"
	"github.com/home-lang/pantry-sub014/pkg/registry/passthrough"
	"github.com/home-lang/pantry-sub014/pkg/registry/rest"
)

// DefaultPantryURL is the first-party registry.
const DefaultPantryURL = "https://registry.pantry.dev"

// Options are shared by every backend New builds.
type Options struct {
	// HTTPClient performs requests. Nil uses [integrations.NewHTTPClient].
	HTTPClient *http.Client
	// Cache, when set, wraps every network backend with [registry.Cached].
	Cache    cache.Cache
	Keyer    cache.Keyer
	CacheTTL time.Duration
}

// New builds the backend cfg describes.
func New(cfg registry.Config, opts Options) (registry.Registry, error) {
	auth, err := cfg.Auth.Authorizer()
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "registry %q", cfg.Name)
	}
	httpClient, err := cfg.Auth.Client(context.Background(), opts.HTTPClient)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "registry %q", cfg.Name)
	}
	client := func() integrations.Options {
		return integrations.Options{HTTPClient: httpClient, Authorize: auth}
	}

	var r registry.Registry
	switch cfg.Type {
	case registry.TypePassthrough:
		if cfg.Root == "" {
			return nil, perrors.New(perrors.ErrCodeInvalidConfig, "registry %q: pass-through needs a root", cfg.Name)
		}
		return passthrough.New(cfg.Name, cfg.Root), nil
	case registry.TypeNpm:
		r = npm.New(cfg.Name, npmapi.NewClient(client(), cfg.URL))
	case registry.TypePantry:
		base := cfg.URL
		if base == "" {
			base = DefaultPantryURL
		}
		primary := rest.New(cfg.Name, registry.TypePantry, base, integrations.NewClient(client()))
		fallback := npm.New("npm", npmapi.NewClient(integrations.Options{HTTPClient: opts.HTTPClient}, cfg.Fallback))
		r = pantry.New(primary, fallback)
	case registry.TypeCustom:
		if cfg.URL == "" {
			return nil, perrors.New(perrors.ErrCodeInvalidConfig, "registry %q: custom registries need a url", cfg.Name)
		}
		r = custom.New(cfg.Name, cfg.URL, integrations.NewClient(client()))
	case registry.TypeGitHub:
		r = github.New(cfg.Name, ghapi.NewClient(client(), cfg.URL))
	default:
		return nil, perrors.New(perrors.ErrCodeInvalidConfig, "registry %q: unknown type %q", cfg.Name, cfg.Type)
	}

	if opts.Cache != nil {
		return registry.Cached(r, opts.Cache, opts.Keyer, opts.CacheTTL), nil
	}
	return r, nil
}

// NewManager builds every configured backend. defaultName, when set, pins the
// default registry.
func NewManager(cfgs []registry.Config, defaultName string, opts Options) (*registry.Manager, error) {
	m := registry.NewManager()
	for _, cfg := range cfgs {
		r, err := New(cfg, opts)
		if err != nil {
			return nil, err
		}
		if err := m.Add(cfg, r); err != nil {
			return nil, err
		}
	}
	if err := m.SetDefault(defaultName); err != nil {
		return nil, err
	}
	return m, nil
}

// DefaultConfigs is the registry set used when none is configured: the local
// store, the first-party registry, npm and GitHub.
func DefaultConfigs(storeRoot string) []registry.Config {
	return []registry.Config{
		{Name: "store", Type: registry.TypePassthrough, Root: storeRoot, Priority: 0},
		{Name: "pantry", Type: registry.TypePantry, URL: DefaultPantryURL, Priority: 10},
		{Name: "npm", Type: registry.TypeNpm, URL: npmapi.DefaultBaseURL, Priority: 20},
		{Name: "github", Type: registry.TypeGitHub, URL: ghapi.DefaultBaseURL, Priority: 30},
	}
}

// Package cli implements the pantry command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/home-lang/pantry-sub014/pkg/buildinfo"
	"github.com/home-lang/pantry-sub014/pkg/cache"
	"github.com/home-lang/pantry-sub014/pkg/config"
	"github.com/home-lang/pantry-sub014/pkg/deps"
	"github.com/home-lang/pantry-sub014/pkg/deps/javascript"
	"github.com/home-lang/pantry-sub014/pkg/deps/pkgx"
	perrors "github.com/home-lang/pantry-sub014/pkg/errors"
	"github.com/home-lang/pantry-sub014/pkg/observability"
	"github.com/home-lang/pantry-sub014/pkg/registry"
	"github.com/home-lang/pantry-sub014/pkg/registry/builtin"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "pantry"

	// cachePrefix namespaces keys in a shared Redis cache.
	cachePrefix = appName + ":"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// manifestParsers are tried in order when loading a project manifest.
var manifestParsers = []deps.ManifestParser{javascript.PackageJSON{}, pkgx.DepsYAML{}}

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath  string
	verbose     bool
	noCache     bool
	metricsFile string

	cfg     *config.Config
	metrics *observability.Metrics
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Pantry resolves and installs packages from npm, GitHub and pantry registries",
		Long: `Pantry reads a project manifest (package.json or deps.yaml), resolves every
dependency against the configured registries and records the outcome in
pantry.lock so that later installs reproduce it.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.flushMetrics()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "config file (default: ./pantry.toml, then ~/.config/pantry/config.toml)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.BoolVar(&c.noCache, "no-cache", false, "bypass the metadata cache")
	flags.StringVar(&c.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")

	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.installCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.versionsCommand())
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.publishCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.registryCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.lockCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup runs before every command: it applies --verbose, installs metrics
// and attaches the logger to the command context.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
	}
	if c.metricsFile != "" && c.metrics == nil {
		c.metrics = observability.NewMetrics(prometheus.NewRegistry())
		c.metrics.Install()
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

func (c *CLI) flushMetrics() error {
	if c.metrics == nil {
		return nil
	}
	if err := c.metrics.WriteTextfile(c.metricsFile); err != nil {
		return err
	}
	c.Logger.Debug("wrote metrics", "file", c.metricsFile)
	return nil
}

// =============================================================================
// Shared Dependencies
// =============================================================================

// loadConfig reads the configuration once per process.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "file", cfg.Path)
	}
	for _, key := range cfg.Unknown {
		c.Logger.Warn("unknown config key", "key", key)
	}
	c.cfg = cfg
	return cfg, nil
}

// openCache builds the configured metadata cache. A backend that cannot be
// opened degrades to no caching.
func (c *CLI) openCache(ctx context.Context, cfg *config.Config) cache.Cache {
	if c.noCache {
		return cache.NewNullCache()
	}
	cc, err := cache.Open(ctx, cache.Options{
		Backend:    cfg.Cache.Backend,
		Dir:        cfg.Cache.Dir,
		RedisURL:   cfg.Cache.RedisURL,
		Prefix:     cachePrefix,
		MaxEntries: cfg.Cache.MaxEntries,
		MaxAge:     cfg.Cache.TTL.Duration,
	})
	if err != nil {
		c.Logger.Warn("cache disabled", "backend", cfg.Cache.Backend, "err", err)
		return cache.NewNullCache()
	}
	return cc
}

// registries builds the registry manager. The returned func closes the cache.
func (c *CLI) registries(ctx context.Context) (*registry.Manager, func(), error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	cc := c.openCache(ctx, cfg)
	mgr, err := builtin.NewManager(cfg.RegistryConfigs(), cfg.DefaultRegistry, builtin.Options{
		Cache:    cc,
		Keyer:    cache.NewDefaultKeyer(),
		CacheTTL: cfg.Cache.TTL.Duration,
	})
	if err != nil {
		cc.Close()
		return nil, nil, err
	}
	return mgr, func() { cc.Close() }, nil
}

// pick returns the registries to query for name: the one named by flag, or
// the candidates for the name's source.
func pick(mgr *registry.Manager, flag, name string) ([]registry.Registry, string, error) {
	src := registry.DetectSource(name)
	if flag != "" {
		r, ok := mgr.Get(flag)
		if !ok {
			return nil, "", errUnknownRegistry(flag)
		}
		return []registry.Registry{r}, src.Name, nil
	}
	rs := mgr.Candidates(src)
	if len(rs) == 0 {
		return nil, "", errNoRegistry(name)
	}
	return rs, src.Name, nil
}

func errUnknownRegistry(name string) error {
	return perrors.New(perrors.ErrCodeRegistryNotFound, "no registry named %q", name)
}

func errNoRegistry(name string) error {
	return perrors.New(perrors.ErrCodeRegistryNotFound, "no registry serves %s", name)
}

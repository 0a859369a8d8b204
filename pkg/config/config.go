package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	perrors "github.com/home-lang/pantry-sub014/pkg/errors"
	"github.com/home-lang/pantry-sub014/pkg/registry"
	"github.com/home-lang/pantry-sub014/pkg/registry/builtin"
)

const (
	appName  = "pantry"
	FileName = "pantry.toml"

	DefaultCacheTTL    = 24 * time.Hour
	DefaultConcurrency = 8
	DefaultRetries     = 3
)

var validate = validator.New()

// Duration is a time.Duration written as a string such as "90m" or "24h".
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Config is the decoded configuration file.
type Config struct {
	Cache           CacheConfig       `toml:"cache"`
	Registries      []registry.Config `toml:"registry" validate:"dive"`
	DefaultRegistry string            `toml:"default_registry"`
	Resolve         ResolveConfig     `toml:"resolve"`
	Install         InstallConfig     `toml:"install"`
	// StoreDir is the pass-through store used by the built-in registry set.
	StoreDir string `toml:"store_dir"`

	// Path is the file the configuration came from; empty for defaults.
	Path string `toml:"-"`
	// Unknown lists keys present in the file that nothing reads.
	Unknown []string `toml:"-"`
}

// CacheConfig selects the metadata cache backend.
type CacheConfig struct {
	Backend    string   `toml:"backend" validate:"omitempty,oneof=file memory redis none"`
	TTL        Duration `toml:"ttl"`
	Dir        string   `toml:"dir"`
	RedisURL   string   `toml:"redis_url"`
	MaxEntries int      `toml:"max_entries" validate:"gte=0"`
}

// ResolveConfig holds resolution defaults.
type ResolveConfig struct {
	StrictPeers bool   `toml:"strict_peers"`
	PreferLock  *bool  `toml:"prefer_lock"`
	Strategy    string `toml:"strategy" validate:"omitempty,oneof=highest lowest"`
	IncludeDev  bool   `toml:"include_dev"`
}

// InstallConfig bounds tarball downloads.
type InstallConfig struct {
	Concurrency int `toml:"concurrency" validate:"gte=0,lte=64"`
	Retries     int `toml:"retries" validate:"gte=0,lte=10"`
}

// ShouldPreferLock reports whether a loaded lock record should steer version
// choice. It does unless prefer_lock = false.
func (r ResolveConfig) ShouldPreferLock() bool { return r.PreferLock == nil || *r.PreferLock }

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Cache.Backend == "" {
		c.Cache.Backend = "file"
	}
	if c.Cache.TTL.Duration <= 0 {
		c.Cache.TTL.Duration = DefaultCacheTTL
	}
	if c.Cache.Dir == "" {
		if dir, err := CacheDir(); err == nil {
			c.Cache.Dir = dir
		}
	}
	if c.StoreDir == "" {
		if dir, err := StoreDir(); err == nil {
			c.StoreDir = dir
		}
	}
	if c.Install.Concurrency <= 0 {
		c.Install.Concurrency = DefaultConcurrency
	}
	if c.Install.Retries <= 0 {
		c.Install.Retries = DefaultRetries
	}
}

// Load reads the configuration at path, or the first file found by Find when
// path is empty. A missing file yields the defaults unless path was given
// explicitly.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = Find()
	}
	if path == "" {
		return Default(), nil
	}

	cfg := &Config{Path: path}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if explicit {
				return nil, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "config %s", path)
			}
			return Default(), nil
		}
		return nil, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	for _, k := range md.Undecoded() {
		cfg.Unknown = append(cfg.Unknown, k.String())
	}

	cfg.expandEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode parses TOML text, for tests and embedded configurations.
func Decode(data string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "parse config")
	}
	cfg.expandEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Find returns the first configuration file that exists, or "".
func Find() string {
	candidates := []string{FileName}
	if dir, err := ConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "config.toml"))
	}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// Validate checks field constraints, registry name uniqueness and that the
// default registry exists.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag())
			}
			return perrors.New(perrors.ErrCodeInvalidConfig, "%s", strings.Join(msgs, "; "))
		}
		return perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "validate config")
	}

	seen := make(map[string]bool, len(c.Registries))
	for _, r := range c.Registries {
		if seen[r.Name] {
			return perrors.New(perrors.ErrCodeInvalidConfig, "registry %q defined twice", r.Name)
		}
		seen[r.Name] = true
	}
	if c.DefaultRegistry != "" && !slices.ContainsFunc(c.RegistryConfigs(), func(r registry.Config) bool {
		return r.Name == c.DefaultRegistry
	}) {
		return perrors.New(perrors.ErrCodeRegistryNotFound, "default_registry %q is not configured", c.DefaultRegistry)
	}
	return nil
}

// RegistryConfigs returns the configured registries, or the built-in set when
// the file configures none.
func (c *Config) RegistryConfigs() []registry.Config {
	if len(c.Registries) > 0 {
		return c.Registries
	}
	return builtin.DefaultConfigs(c.StoreDir)
}

// expandEnv substitutes environment variables in URLs, paths and
// credentials.
func (c *Config) expandEnv() {
	c.Cache.Dir = os.ExpandEnv(c.Cache.Dir)
	c.Cache.RedisURL = os.ExpandEnv(c.Cache.RedisURL)
	c.StoreDir = os.ExpandEnv(c.StoreDir)
	for i := range c.Registries {
		r := &c.Registries[i]
		r.URL = os.ExpandEnv(r.URL)
		r.Root = os.ExpandEnv(r.Root)
		r.Fallback = os.ExpandEnv(r.Fallback)
		a := &r.Auth
		a.Token = os.ExpandEnv(a.Token)
		a.Username = os.ExpandEnv(a.Username)
		a.Password = os.ExpandEnv(a.Password)
		a.Value = os.ExpandEnv(a.Value)
		a.TokenURL = os.ExpandEnv(a.TokenURL)
		a.ClientID = os.ExpandEnv(a.ClientID)
		a.ClientSecret = os.ExpandEnv(a.ClientSecret)
	}
}

// ConfigDir returns $XDG_CONFIG_HOME/pantry or ~/.config/pantry.
func ConfigDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// CacheDir returns $XDG_CACHE_HOME/pantry or ~/.cache/pantry.
func CacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// StoreDir returns ~/.pantry/store.
func StoreDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "."+appName, "store"), nil
}

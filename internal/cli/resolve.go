package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/home-lang/pantry-sub014/pkg/deps"
	"github.com/home-lang/pantry-sub014/pkg/lockfile"
	"github.com/home-lang/pantry-sub014/pkg/registry"
	"github.com/home-lang/pantry-sub014/pkg/resolution"
)

// resolveFlags holds the options shared by every command that resolves a
// manifest.
type resolveFlags struct {
	dev         bool
	strictPeers bool
	strategy    string
	ignoreLock  bool
	maxNodes    int
}

func (f *resolveFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.dev, "dev", "D", false, "include devDependencies")
	cmd.Flags().BoolVar(&f.strictPeers, "strict-peers", false, "fail on missing or incompatible peer dependencies")
	cmd.Flags().StringVar(&f.strategy, "strategy", "", "version choice when ranges disagree: highest or lowest")
	cmd.Flags().BoolVar(&f.ignoreLock, "ignore-lock", false, "do not prefer versions from "+lockfile.FileName)
	cmd.Flags().IntVar(&f.maxNodes, "max-nodes", deps.DefaultMaxNodes, "maximum packages to resolve")
}

// resolved is the outcome of resolving a project.
type resolved struct {
	manifest *deps.Manifest
	result   *resolution.Result
	lockPath string
	mgr      *registry.Manager
}

// resolveCommand creates the resolve command.
func (c *CLI) resolveCommand() *cobra.Command {
	var (
		flags  resolveFlags
		noSave bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "resolve [manifest|dir]",
		Short: "Resolve a project's dependencies and write " + lockfile.FileName,
		Long: `Resolve reads package.json or deps.yaml, resolves every dependency against the
configured registries and prints the install plan. The plan is saved to
pantry.lock next to the manifest unless --no-save is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, closeFn, err := c.resolve(cmd.Context(), firstArg(args), flags)
			if err != nil {
				return err
			}
			defer closeFn()

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(r.result); err != nil {
					return err
				}
			} else {
				fmt.Fprint(out, r.result.Report())
			}

			if noSave {
				return nil
			}
			if err := c.saveLock(r); err != nil {
				return err
			}
			printNextStep("Download tarballs", "pantry install")
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not write "+lockfile.FileName)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")

	return cmd
}

// resolve loads the manifest at path and resolves it. The returned func
// releases the registry cache.
func (c *CLI) resolve(ctx context.Context, path string, flags resolveFlags) (*resolved, func(), error) {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	m, err := loadManifest(path)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("loaded manifest", "path", m.Path, "type", m.Type, "dependencies", len(m.Dependencies))

	lockPath := filepath.Join(filepath.Dir(m.Path), lockfile.FileName)
	var lock *lockfile.LockFile
	if !flags.ignoreLock && cfg.Resolve.ShouldPreferLock() {
		lock, err = lockfile.Load(lockPath)
		switch {
		case errors.Is(err, lockfile.ErrNotFound):
			lock = nil
		case err != nil:
			return nil, nil, err
		default:
			logger.Debug("preferring locked versions", "path", lockPath, "entries", lock.Len())
		}
	}

	mgr, closeFn, err := c.registries(ctx)
	if err != nil {
		return nil, nil, err
	}

	strategy := flags.strategy
	if strategy == "" {
		strategy = cfg.Resolve.Strategy
	}
	opts := deps.Options{
		Strategy:    resolution.ParseStrategy(strategy),
		StrictPeers: flags.strictPeers || cfg.Resolve.StrictPeers,
		IncludeDev:  flags.dev || cfg.Resolve.IncludeDev,
		Lock:        lock,
		MaxNodes:    flags.maxNodes,
		Logger:      warnFunc(logger),
	}

	name := m.Name
	if name == "" {
		name = filepath.Base(filepath.Dir(m.Path))
	}
	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, "Resolving "+name)
	spinner.Start()
	res, err := deps.NewResolver(mgr, opts).Resolve(ctx, m)
	spinner.Stop()
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	prog.done(fmt.Sprintf("Resolved %d packages", len(res.Packages)))

	return &resolved{manifest: m, result: res, lockPath: lockPath, mgr: mgr}, closeFn, nil
}

func (c *CLI) saveLock(r *resolved) error {
	if err := lockfile.Save(r.result.LockFile(), r.lockPath); err != nil {
		return fmt.Errorf("write %s: %w", r.lockPath, err)
	}
	printSuccess("Saved %d packages", len(r.result.Packages))
	printFile(r.lockPath)
	return nil
}

// loadManifest parses path, or the first known manifest in the directory
// path names. An empty path means the working directory.
func loadManifest(path string) (*deps.Manifest, error) {
	if path == "" {
		path = "."
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		found, err := deps.FindManifest(path)
		if err != nil {
			return nil, err
		}
		path = found
	}
	return deps.LoadManifest(path, manifestParsers...)
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

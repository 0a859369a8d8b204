package cli

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	perrors "github.com/home-lang/pantry-sub014/pkg/errors"
	"github.com/home-lang/pantry-sub014/pkg/httputil"
	"github.com/home-lang/pantry-sub014/pkg/resolution"
)

// defaultInstallDir is where tarballs land, relative to the manifest.
const defaultInstallDir = "pantry_modules"

const tarballExt = ".tgz"

// installStats counts download outcomes. Fields are updated concurrently.
type installStats struct {
	downloaded atomic.Int32
	present    atomic.Int32
	skipped    atomic.Int32
	failed     atomic.Int32
}

// installCommand creates the install command.
func (c *CLI) installCommand() *cobra.Command {
	var (
		flags       resolveFlags
		dir         string
		concurrency int
		noSave      bool
	)

	cmd := &cobra.Command{
		Use:   "install [manifest|dir]",
		Short: "Resolve dependencies and download every tarball",
		Long: `Install resolves the manifest like "pantry resolve", then downloads the
tarball of every planned package into pantry_modules/<name>/<version>.tgz.
Packages already present are kept. Failed optional packages are reported
but do not fail the install.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, closeFn, err := c.resolve(ctx, firstArg(args), flags)
			if err != nil {
				return err
			}
			defer closeFn()

			for _, w := range r.result.Warnings {
				printWarning("%s", w)
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = filepath.Join(filepath.Dir(r.manifest.Path), defaultInstallDir)
			}
			if concurrency <= 0 {
				concurrency = cfg.Install.Concurrency
			}
			policy := httputil.Policy{Attempts: cfg.Install.Retries, Delay: 500 * time.Millisecond, MaxDelay: 5 * time.Second}

			stats, err := c.download(ctx, r, dir, concurrency, policy)
			if err != nil {
				return err
			}
			printSuccess("Installed %d packages", len(r.result.Packages)-int(stats.failed.Load())-int(stats.skipped.Load()))
			printSummary(
				countLabel(int(stats.downloaded.Load()), "downloaded"),
				countLabel(int(stats.present.Load()), "present"),
				countLabel(int(stats.skipped.Load()), "linked"),
				countLabel(int(stats.failed.Load()), "optional failed"),
			)
			printFile(dir)

			if noSave {
				return nil
			}
			return c.saveLock(r)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "install directory (default: "+defaultInstallDir+" next to the manifest)")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", 0, "parallel downloads (default: install.concurrency)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not write the lock file")

	return cmd
}

// download fetches every registry package of r into dir with at most
// concurrency transfers in flight. Transient failures are retried under
// policy. A failed optional package is logged; any other failure cancels the
// remaining downloads.
func (c *CLI) download(ctx context.Context, r *resolved, dir string, concurrency int, policy httputil.Policy) (*installStats, error) {
	logger := loggerFromContext(ctx)
	stats := &installStats{}
	total := len(r.result.Packages)

	spinner := newSpinnerWithContext(ctx, "Downloading")
	spinner.Start()
	defer spinner.Stop()

	var finished atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))

	for _, p := range r.result.Packages {
		if p.Link {
			logger.Debug("skipping linked package", "name", p.Name, "source", p.Resolved)
			stats.skipped.Add(1)
			continue
		}
		g.Go(func() error {
			defer func() {
				spinner.SetMessage("Downloading %d/%d", finished.Add(1), total)
			}()

			dest, err := tarballPath(dir, p)
			if err != nil {
				return err
			}
			if _, err := os.Stat(dest); err == nil {
				stats.present.Add(1)
				return nil
			}

			reg, ok := r.mgr.Get(p.Origin)
			if !ok {
				return errUnknownRegistry(p.Origin)
			}
			err = policy.Do(gctx, func() error {
				return reg.DownloadTarball(gctx, p.LookupName(), p.Version, dest)
			})
			if err != nil {
				if p.Optional {
					logger.Warn("optional package failed", "name", p.Name, "version", p.Version, "err", err)
					stats.failed.Add(1)
					return nil
				}
				return err
			}
			logger.Debug("downloaded", "name", p.Name, "version", p.Version, "origin", p.Origin)
			stats.downloaded.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

// tarballPath is dir/<name>/<version>.tgz; scoped names nest one level.
func tarballPath(dir string, p resolution.Package) (string, error) {
	if err := perrors.ValidatePackageName(p.Name); err != nil {
		return "", err
	}
	return filepath.Join(dir, filepath.FromSlash(p.Name), p.Version+tarballExt), nil
}

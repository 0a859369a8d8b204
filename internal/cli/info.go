package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	perrors "github.com/home-lang/pantry-sub014/pkg/errors"
	"github.com/home-lang/pantry-sub014/pkg/registry"
	"github.com/home-lang/pantry-sub014/pkg/semver"
)

// infoCommand creates the info command.
func (c *CLI) infoCommand() *cobra.Command {
	var (
		regName string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "info <package>[@version]",
		Short: "Show package metadata",
		Example: `  pantry info react
  pantry info react@18.2.0
  pantry info github:cli/cli --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, closeFn, err := c.registries(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			name, version := splitNameVersion(args[0])
			rs, lookup, err := pick(mgr, regName, name)
			if err != nil {
				return err
			}
			meta, err := firstMetadata(ctx, rs, lookup, version)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(meta)
			}
			printMetadata(meta)
			return nil
		},
	}

	cmd.Flags().StringVarP(&regName, "registry", "r", "", "query only this registry")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print metadata as JSON")

	return cmd
}

// versionsCommand creates the versions command.
func (c *CLI) versionsCommand() *cobra.Command {
	var (
		regName string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "versions <package>",
		Short: "List published versions, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			mgr, closeFn, err := c.registries(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			rs, lookup, err := pick(mgr, regName, args[0])
			if err != nil {
				return err
			}
			var errs []error
			for _, r := range rs {
				versions, err := r.ListVersions(ctx, lookup)
				if err != nil {
					if !registry.Recoverable(err) {
						return err
					}
					logger.Debug("not found", "registry", r.Name(), "package", lookup)
					errs = append(errs, err)
					continue
				}
				semver.Sort(versions)
				if limit > 0 && len(versions) > limit {
					versions = versions[:limit]
				}
				out := cmd.OutOrStdout()
				for _, v := range versions {
					fmt.Fprintln(out, v)
				}
				logger.Debug("listed versions", "registry", r.Name(), "count", len(versions))
				return nil
			}
			return perrors.Wrap(perrors.ErrCodePackageNotFound, errors.Join(errs...), "%s not found", args[0])
		},
	}

	cmd.Flags().StringVarP(&regName, "registry", "r", "", "query only this registry")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n versions")

	return cmd
}

// searchCommand creates the search command.
func (c *CLI) searchCommand() *cobra.Command {
	var regName string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search every enabled registry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			mgr, closeFn, err := c.registries(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			rs := mgr.All()
			if regName != "" {
				r, ok := mgr.Get(regName)
				if !ok {
					return errUnknownRegistry(regName)
				}
				rs = []registry.Registry{r}
			}

			query := strings.Join(args, " ")
			seen := make(map[string]bool)
			out := cmd.OutOrStdout()
			for _, r := range rs {
				hits, err := r.Search(ctx, query)
				if err != nil {
					if perrors.Is(err, perrors.ErrCodeUnsupported) || registry.Recoverable(err) {
						logger.Debug("search skipped", "registry", r.Name(), "err", err)
						continue
					}
					return err
				}
				for _, h := range hits {
					if seen[h.Name] {
						continue
					}
					seen[h.Name] = true
					fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", h.Name, h.Version, r.Name(), h.Description)
				}
			}
			if len(seen) == 0 {
				printInfo("No packages match %q", query)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&regName, "registry", "r", "", "search only this registry")

	return cmd
}

// firstMetadata asks each registry in turn, moving on only when a registry
// does not have the package.
func firstMetadata(ctx context.Context, rs []registry.Registry, name, version string) (*registry.PackageMetadata, error) {
	var errs []error
	for _, r := range rs {
		meta, err := r.FetchMetadata(ctx, name, version)
		if err == nil {
			if meta.Origin == "" {
				meta.Origin = r.Name()
			}
			return meta, nil
		}
		if !registry.Recoverable(err) {
			return nil, err
		}
		errs = append(errs, err)
	}
	return nil, perrors.Wrap(perrors.ErrCodePackageNotFound, errors.Join(errs...), "%s not found", name)
}

// splitNameVersion splits "name@version". A leading "@" belongs to a scope.
func splitNameVersion(s string) (string, string) {
	i := strings.LastIndex(s, "@")
	if i <= 0 {
		return s, ""
	}
	return s[:i], s[i+1:]
}

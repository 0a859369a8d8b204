package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/home-lang/pantry-sub014/pkg/deps"
	perrors "github.com/home-lang/pantry-sub014/pkg/errors"
	"github.com/home-lang/pantry-sub014/pkg/registry"
	"github.com/home-lang/pantry-sub014/pkg/semver"
)

// publishCommand creates the publish command.
func (c *CLI) publishCommand() *cobra.Command {
	var (
		regName  string
		manifest string
		name     string
		version  string
	)

	cmd := &cobra.Command{
		Use:   "publish <tarball>",
		Short: "Upload a package tarball to a registry",
		Long: `Publish uploads a tarball as name@version. Name, version, description,
license and dependencies are read from the manifest (package.json or
deps.yaml in the tarball's directory by default); --name and --version
override them. Without --registry the default registry receives it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tarball := args[0]

			if manifest == "" {
				manifest = filepath.Dir(tarball)
			}
			meta, err := publishMetadata(manifest, name, version)
			if err != nil {
				return err
			}

			mgr, closeFn, err := c.registries(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			var reg registry.Registry
			var ok bool
			if regName != "" {
				reg, ok = mgr.Get(regName)
				if !ok {
					return errUnknownRegistry(regName)
				}
			} else if reg, ok = mgr.Default(); !ok {
				return perrors.New(perrors.ErrCodeRegistryNotFound, "no registry is enabled")
			}

			spinner := newSpinnerWithContext(ctx, "Publishing "+meta.Name+"@"+meta.Version)
			spinner.Start()
			if err := reg.Publish(ctx, meta, tarball); err != nil {
				spinner.StopWithError("Publish failed")
				return err
			}
			spinner.StopWithSuccess("Published " + meta.Name + "@" + meta.Version)
			printKeyValue("Registry", reg.Name())
			return nil
		},
	}

	cmd.Flags().StringVarP(&regName, "registry", "r", "", "target registry (default: the default registry)")
	cmd.Flags().StringVarP(&manifest, "manifest", "m", "", "manifest file or directory to read metadata from")
	cmd.Flags().StringVar(&name, "name", "", "package name")
	cmd.Flags().StringVar(&version, "version", "", "package version")

	return cmd
}

// publishMetadata builds the upload description. A missing manifest is
// fine when --name and --version are both given.
func publishMetadata(manifest, name, version string) (*registry.PackageMetadata, error) {
	meta := &registry.PackageMetadata{}
	m, err := loadManifest(manifest)
	switch {
	case err == nil:
		meta.Name = m.Name
		meta.Version = m.Version
		meta.Description = rawString(m.Raw, "description")
		meta.License = rawString(m.Raw, "license")
		meta.Homepage = rawString(m.Raw, "homepage")
		meta.Dependencies = section(m, deps.Prod)
		meta.PeerDependencies = section(m, deps.Peer)
		meta.OptionalDependencies = section(m, deps.Optional)
	case name == "" || version == "":
		return nil, err
	}

	if name != "" {
		meta.Name = name
	}
	if version != "" {
		meta.Version = version
	}
	if err := perrors.ValidatePackageName(meta.Name); err != nil {
		return nil, err
	}
	if _, err := semver.ParseVersion(meta.Version); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidVersion, err, "publish %s", meta.Name)
	}
	return meta, nil
}

func section(m *deps.Manifest, kind deps.Kind) map[string]string {
	direct := m.Direct(kind)
	if len(direct) == 0 {
		return nil
	}
	out := make(map[string]string, len(direct))
	for _, d := range direct {
		out[d.Name] = d.Range
	}
	return out
}

func rawString(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return s
}

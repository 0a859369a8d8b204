package deps

import (
	"fmt"

	"github.com/home-lang/pantry-sub014/pkg/lockfile"
	"github.com/home-lang/pantry-sub014/pkg/resolution"
)

const (
	DefaultMaxNodes = 5000 // Default maximum packages in one resolution
)

// Options configures dependency resolution behavior.
type Options struct {
	Strategy    resolution.Strategy  // Version choice when ranges disagree (default: highest)
	StrictPeers bool                 // Fail on missing or incompatible peers
	IncludeDev  bool                 // Resolve devDependencies of the manifest
	Lock        *lockfile.LockFile   // Previously saved lock record, preferred when it fits
	Platform    resolution.Platform  // Target platform for os/cpu filtering (default: current)
	MaxNodes    int                  // Maximum packages to resolve (default: 5000)
	Logger      func(string, ...any) // Warning callback (optional)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.MaxNodes <= 0 {
		opts.MaxNodes = DefaultMaxNodes
	}
	if opts.Platform == (resolution.Platform{}) {
		opts.Platform = resolution.CurrentPlatform()
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}

// Kind says which manifest section a dependency came from.
type Kind int

const (
	Prod Kind = iota
	Dev
	Peer
	Optional
)

var kindNames = [...]string{"dependencies", "devDependencies", "peerDependencies", "optionalDependencies"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Dependency is one requirement declared by a manifest.
type Dependency struct {
	Name   string
	Range  string // version value as written: a range, tag, catalog reference or link spec
	Kind   Kind
	Global bool // install into the global prefix rather than the project
}

func (d Dependency) String() string { return d.Name + "@" + d.Range }

// Manifest is a parsed project manifest.
type Manifest struct {
	Name    string
	Version string
	Path    string
	Type    string // parser type that produced it

	// Dependencies lists every section in declaration order, sections in
	// Kind order.
	Dependencies []Dependency

	// Raw is the whole document, for catalog and override parsing.
	Raw map[string]any
}

// Direct returns the dependencies of the given kinds, in manifest order.
func (m *Manifest) Direct(kinds ...Kind) []Dependency {
	var out []Dependency
	for _, d := range m.Dependencies {
		for _, k := range kinds {
			if d.Kind == k {
				out = append(out, d)
				break
			}
		}
	}
	return out
}

// Package lockfile persists the exact outcome of a resolution so that a later
// install reproduces it.
//
// A lock record is a JSON document keyed by "name@version":
//
//	{
//	  "lockfileVersion": 1,
//	  "packages": {
//	    "react@19.0.0": {
//	      "name": "react",
//	      "version": "19.0.0",
//	      "resolved": "https://registry.npmjs.org/react/-/react-19.0.0.tgz",
//	      "integrity": "sha512-..."
//	    }
//	  }
//	}
package lockfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"

	perrors "github.com/home-lang/pantry-sub014/pkg/errors"
)

// FileName is the lock record's conventional name in a project directory.
const FileName = "pantry.lock"

// FormatVersion is written to every saved record.
const FormatVersion = 1

var (
	// ErrNotFound is returned by Load when no record exists at the path.
	ErrNotFound = perrors.New(perrors.ErrCodeFileNotFound, "lock file not found")
	// ErrNotLoaded is returned by Save for a record that was never loaded or
	// created.
	ErrNotLoaded = perrors.New(perrors.ErrCodeLockNotLoaded, "lock file was never loaded or created")
)

// Entry is one locked package version.
type Entry struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Resolved  string `json:"resolved,omitempty"`
	Integrity string `json:"integrity,omitempty"`
	Dev       bool   `json:"dev,omitempty"`
	Optional  bool   `json:"optional,omitempty"`
	// Origin names the registry the package came from.
	Origin string `json:"origin,omitempty"`
	// Source is the registry-side name for aliased and GitHub packages.
	Source       string            `json:"source,omitempty"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// LockFile is an in-memory lock record.
type LockFile struct {
	Version  int              `json:"lockfileVersion"`
	Packages map[string]Entry `json:"packages"`
}

// New creates an empty record.
func New() *LockFile {
	return &LockFile{Version: FormatVersion, Packages: make(map[string]Entry)}
}

// Key returns the "name@version" key of an entry.
func Key(name, version string) string { return name + "@" + version }

// Put adds or replaces e.
func (lf *LockFile) Put(e Entry) { lf.Packages[Key(e.Name, e.Version)] = e }

// Get returns the entry for name@version.
func (lf *LockFile) Get(name, version string) (Entry, bool) {
	e, ok := lf.Packages[Key(name, version)]
	return e, ok
}

// Versions returns every locked entry for name, ordered by key.
func (lf *LockFile) Versions(name string) []Entry {
	var out []Entry
	for _, k := range lf.Keys() {
		if e := lf.Packages[k]; e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

// Remove deletes name@version.
func (lf *LockFile) Remove(name, version string) { delete(lf.Packages, Key(name, version)) }

// Keys returns every key in sorted order.
func (lf *LockFile) Keys() []string { return slices.Sorted(maps.Keys(lf.Packages)) }

// Len returns the number of entries.
func (lf *LockFile) Len() int { return len(lf.Packages) }

// Load reads the record at path.
func Load(path string) (*LockFile, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, err
	}
	lf := New()
	if err := json.Unmarshal(data, lf); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "parse %s", path)
	}
	if lf.Packages == nil {
		lf.Packages = make(map[string]Entry)
	}
	for k, e := range lf.Packages {
		if k != Key(e.Name, e.Version) {
			return nil, perrors.New(perrors.ErrCodeInvalidInput, "%s: entry %q describes %s", path, k, Key(e.Name, e.Version))
		}
	}
	return lf, nil
}

// Save writes lf to path atomically. A nil record fails with ErrNotLoaded and
// leaves any existing file untouched.
func Save(lf *LockFile, path string) error {
	if lf == nil {
		return ErrNotLoaded
	}
	out := *lf
	out.Version = FormatVersion
	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".pantry-lock-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Exists reports whether a record exists at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

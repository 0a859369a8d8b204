package deps

import (
	"os"
	"path/filepath"

	perrors "github.com/home-lang/pantry-sub014/pkg/errors"
)

// ManifestParser reads dependency information from local manifest files.
type ManifestParser interface {
	// Parse reads the manifest at path.
	Parse(path string) (*Manifest, error)
	// Supports reports whether this parser handles the given filename.
	Supports(filename string) bool
	// Type returns the manifest type identifier (e.g., "package.json").
	Type() string
}

// ManifestNames are the files FindManifest looks for, in order.
var ManifestNames = []string{"package.json", "deps.yaml", "deps.yml", "pkgx.yaml", "pkgx.yml"}

// DetectManifest finds a parser that supports the given file path.
// Returns an error if no parser matches.
func DetectManifest(path string, parsers ...ManifestParser) (ManifestParser, error) {
	name := filepath.Base(path)
	for _, p := range parsers {
		if p.Supports(name) {
			return p, nil
		}
	}
	return nil, perrors.New(perrors.ErrCodeUnsupported, "unsupported manifest: %s", name)
}

// FindManifest returns the first of ManifestNames present in dir.
func FindManifest(dir string) (string, error) {
	for _, name := range ManifestNames {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", perrors.New(perrors.ErrCodeFileNotFound, "no manifest in %s", dir)
}

// LoadManifest parses path with the first supporting parser.
func LoadManifest(path string, parsers ...ManifestParser) (*Manifest, error) {
	p, err := DetectManifest(path, parsers...)
	if err != nil {
		return nil, err
	}
	m, err := p.Parse(path)
	if err != nil {
		return nil, err
	}
	m.Path = path
	m.Type = p.Type()
	return m, nil
}

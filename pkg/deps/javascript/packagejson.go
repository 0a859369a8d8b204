package javascript

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/home-lang/pantry-sub014/pkg/deps"
	perrors "github.com/home-lang/pantry-sub014/pkg/errors"
)

// PackageJSON parses package.json files. It extracts dependencies,
// devDependencies, peerDependencies and optionalDependencies.
type PackageJSON struct{}

func (PackageJSON) Type() string              { return "package.json" }
func (PackageJSON) Supports(name string) bool { return strings.EqualFold(name, "package.json") }

func (p PackageJSON) Parse(path string) (*deps.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, err
	}
	m, err := ParseBytes(data)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidManifest, err, "parse %s", path)
	}
	return m, nil
}

// ParseBytes decodes a package.json document.
func ParseBytes(data []byte) (*deps.Manifest, error) {
	var pkg packageFile
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	m := &deps.Manifest{Name: pkg.Name, Version: pkg.Version, Raw: raw}
	sections := []struct {
		kind deps.Kind
		data json.RawMessage
	}{
		{deps.Prod, pkg.Dependencies},
		{deps.Dev, pkg.DevDependencies},
		{deps.Peer, pkg.PeerDependencies},
		{deps.Optional, pkg.OptionalDependencies},
	}
	for _, s := range sections {
		entries, err := orderedStrings(s.data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.kind, err)
		}
		for _, e := range entries {
			m.Dependencies = append(m.Dependencies, deps.Dependency{Name: e[0], Range: e[1], Kind: s.kind})
		}
	}
	return m, nil
}

// orderedStrings decodes a JSON object of string values, keeping key order.
// Non-string values are skipped. A missing or null section yields nothing.
func orderedStrings(data json.RawMessage) ([][2]string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var out [][2]string
	seen := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		if i, dup := seen[key]; dup {
			out[i][1] = s
			continue
		}
		seen[key] = len(out)
		out = append(out, [2]string{key, s})
	}
	return out, nil
}

type packageFile struct {
	Name                 string          `json:"name"`
	Version              string          `json:"version"`
	Dependencies         json.RawMessage `json:"dependencies"`
	DevDependencies      json.RawMessage `json:"devDependencies"`
	PeerDependencies     json.RawMessage `json:"peerDependencies"`
	OptionalDependencies json.RawMessage `json:"optionalDependencies"`
}

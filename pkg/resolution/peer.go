package resolution

import (
	"fmt"
	"strings"

	perrors "github.com/home-lang/pantry-sub014/pkg/errors"
	"github.com/home-lang/pantry-sub014/pkg/semver"
)

// PeerDecl is a peer dependency one package declares.
type PeerDecl struct {
	Package  string // the declaring package
	Peer     string
	Range    string
	Optional bool
}

func (d PeerDecl) String() string {
	return fmt.Sprintf("%s wants peer %s@%s", d.Package, d.Peer, d.Range)
}

// PeerIssue is a declared peer installed at a version outside its range.
type PeerIssue struct {
	PeerDecl
	Installed string
}

// PeerResult is the outcome of [PeerManager.Validate].
type PeerResult struct {
	Satisfied    []PeerDecl
	Missing      []PeerDecl
	Incompatible []PeerIssue
}

// OK reports whether every required peer is present and compatible.
func (r PeerResult) OK() bool { return len(r.Missing) == 0 && len(r.Incompatible) == 0 }

// Warnings renders each problem as one line.
func (r PeerResult) Warnings() []string {
	var out []string
	for _, d := range r.Missing {
		out = append(out, fmt.Sprintf("missing peer: %s", d))
	}
	for _, i := range r.Incompatible {
		out = append(out, fmt.Sprintf("incompatible peer: %s, found %s", i.PeerDecl, i.Installed))
	}
	return out
}

// PeerManager collects peer declarations and checks them against the final
// install set.
type PeerManager struct {
	strict bool
	decls  []PeerDecl
}

// NewPeerManager creates a manager. In strict mode Validate returns an error
// for any problem instead of only reporting it.
func NewPeerManager(strict bool) *PeerManager {
	return &PeerManager{strict: strict}
}

// Declare records that pkg expects peer within rng.
func (m *PeerManager) Declare(pkg, peer, rng string, optional bool) {
	m.decls = append(m.decls, PeerDecl{Package: pkg, Peer: peer, Range: rng, Optional: optional})
}

// Declarations returns every declaration in the order it was made.
func (m *PeerManager) Declarations() []PeerDecl { return m.decls }

// Validate checks every declaration against installed, a map of package name
// to installed version. Missing optional peers are not reported; optional
// peers that are installed must still match their range.
func (m *PeerManager) Validate(installed map[string]string) (PeerResult, error) {
	var res PeerResult
	for _, d := range m.decls {
		v, ok := installed[d.Peer]
		switch {
		case !ok && d.Optional:
		case !ok:
			res.Missing = append(res.Missing, d)
		case peerAccepts(d.Range, v):
			res.Satisfied = append(res.Satisfied, d)
		default:
			res.Incompatible = append(res.Incompatible, PeerIssue{PeerDecl: d, Installed: v})
		}
	}
	if m.strict && !res.OK() {
		return res, perrors.New(perrors.ErrCodePeerDependency, "%s", strings.Join(res.Warnings(), "; "))
	}
	return res, nil
}

// peerAccepts treats a range that does not parse as accepting anything; such
// ranges (workspace:, git URLs) cannot be checked here.
func peerAccepts(rng, version string) bool {
	r, err := semver.ParseRange(rng)
	if err != nil {
		return true
	}
	return r.SatisfiesString(version)
}

package integrations

import (
	"bytes"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strings"
)

// ErrIntegrityMismatch is returned when downloaded bytes do not match the
// digest a registry advertised.
var ErrIntegrityMismatch = errors.New("integrity mismatch")

// Integrity is a parsed digest: either a Subresource Integrity string
// ("sha512-<base64>") or a bare hex shasum as npm's dist.shasum carries.
type Integrity struct {
	Algorithm string
	Digest    []byte
}

// ParseIntegrity parses s. When s holds several space-separated SRI tokens the
// strongest algorithm wins. An empty s returns a nil Integrity and no error.
func ParseIntegrity(s string) (*Integrity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var best *Integrity
	for _, tok := range strings.Fields(s) {
		algo, digest, ok := strings.Cut(tok, "-")
		if !ok {
			return parseHex(tok)
		}
		if _, known := strength[algo]; !known {
			continue
		}
		raw, err := base64.StdEncoding.DecodeString(digest)
		if err != nil {
			return nil, fmt.Errorf("invalid %s digest: %w", algo, err)
		}
		if best == nil || strength[algo] > strength[best.Algorithm] {
			best = &Integrity{Algorithm: algo, Digest: raw}
		}
	}
	if best == nil {
		return nil, fmt.Errorf("no supported algorithm in %q", s)
	}
	return best, nil
}

var strength = map[string]int{"sha1": 1, "sha256": 2, "sha512": 3}

func parseHex(s string) (*Integrity, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid shasum %q", s)
	}
	switch len(raw) {
	case sha1.Size:
		return &Integrity{Algorithm: "sha1", Digest: raw}, nil
	case sha256.Size:
		return &Integrity{Algorithm: "sha256", Digest: raw}, nil
	case sha512.Size:
		return &Integrity{Algorithm: "sha512", Digest: raw}, nil
	}
	return nil, fmt.Errorf("invalid shasum length %d", len(raw))
}

// NewHash returns a hash matching the integrity's algorithm.
func (i *Integrity) NewHash() hash.Hash {
	switch i.Algorithm {
	case "sha1":
		return sha1.New()
	case "sha256":
		return sha256.New()
	}
	return sha512.New()
}

// Verify compares a finished hash against the expected digest.
func (i *Integrity) Verify(h hash.Hash) error {
	if sum := h.Sum(nil); !bytes.Equal(sum, i.Digest) {
		return fmt.Errorf("%w: %s expected %s, got %s", ErrIntegrityMismatch, i.Algorithm,
			base64.StdEncoding.EncodeToString(i.Digest), base64.StdEncoding.EncodeToString(sum))
	}
	return nil
}

// String renders the SRI form.
func (i *Integrity) String() string {
	return i.Algorithm + "-" + base64.StdEncoding.EncodeToString(i.Digest)
}

// ComputeIntegrity returns the sha512 SRI string of data.
func ComputeIntegrity(data []byte) string {
	sum := sha512.Sum512(data)
	return "sha512-" + base64.StdEncoding.EncodeToString(sum[:])
}

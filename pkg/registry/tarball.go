package registry

import (
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"

	"github.com/home-lang/pantry-sub014/pkg/integrations"
)

// WriteTarball streams an archive into dest through fill. When integrity is
// non-empty the bytes are checked against it before dest appears; dest is
// never left holding a partial or mismatching file.
func WriteTarball(dest, integrity string, fill func(io.Writer) (int64, error)) error {
	want, err := integrations.ParseIntegrity(integrity)
	if err != nil {
		return err
	}

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tarball-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	var w io.Writer = tmp
	var h hash.Hash
	if want != nil {
		h = want.NewHash()
		w = io.MultiWriter(tmp, h)
	}
	if _, err := fill(w); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if want != nil {
		if err := want.Verify(h); err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(dest), err)
		}
	}
	return os.Rename(tmp.Name(), dest)
}

// ReadTarball reads a tarball for upload, refusing files over the transfer
// limit before reading them.
func ReadTarball(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > integrations.MaxTransferSize {
		return nil, fmt.Errorf("%w: %s is %d bytes", integrations.ErrTooLarge, filepath.Base(path), info.Size())
	}
	return os.ReadFile(path)
}

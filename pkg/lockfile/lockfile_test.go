package lockfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	perrors "github.com/home-lang/pantry-sub014/pkg/errors"
)

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	lf := New()
	lf.Put(Entry{Name: "react", Version: "19.0.0", Resolved: "https://r/react.tgz", Integrity: "sha512-x"})
	lf.Put(Entry{Name: "typescript", Version: "5.4.0", Dev: true})
	lf.Put(Entry{Name: "fsevents", Version: "2.3.3", Optional: true})

	if err := Save(lf, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Len() != 3 || got.Version != FormatVersion {
		t.Fatalf("loaded %d entries, version %d", got.Len(), got.Version)
	}
	e, ok := got.Get("react", "19.0.0")
	if !ok || e.Integrity != "sha512-x" || e.Resolved != "https://r/react.tgz" {
		t.Errorf("react = %+v", e)
	}
	if e, _ := got.Get("typescript", "5.4.0"); !e.Dev {
		t.Error("dev flag lost")
	}
	if e, _ := got.Get("fsevents", "2.3.3"); !e.Optional {
		t.Error("optional flag lost")
	}
	want := []string{"fsevents@2.3.3", "react@19.0.0", "typescript@5.4.0"}
	for i, k := range got.Keys() {
		if k != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, k, want[i])
		}
	}
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.lock"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if !perrors.Is(err, perrors.ErrCodeFileNotFound) {
		t.Errorf("code = %q", perrors.GetCode(err))
	}
}

func TestSaveNil(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Save(nil, path); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("err = %v, want ErrNotLoaded", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "keep" {
		t.Errorf("existing file modified: %q", data)
	}
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"garbage":    "{not json",
		"mismatched": `{"lockfileVersion":1,"packages":{"a@1.0.0":{"name":"b","version":"1.0.0"}}}`,
	}
	for name, body := range tests {
		path := filepath.Join(dir, name)
		os.WriteFile(path, []byte(body), 0o644)
		if _, err := Load(path); !perrors.Is(err, perrors.ErrCodeInvalidInput) {
			t.Errorf("%s: err = %v", name, err)
		}
	}
}

func TestVersionsAndRemove(t *testing.T) {
	lf := New()
	lf.Put(Entry{Name: "a", Version: "2.0.0"})
	lf.Put(Entry{Name: "a", Version: "1.0.0"})
	lf.Put(Entry{Name: "ab", Version: "1.0.0"})

	vs := lf.Versions("a")
	if len(vs) != 2 || vs[0].Version != "1.0.0" {
		t.Errorf("Versions = %+v", vs)
	}
	lf.Remove("a", "1.0.0")
	if _, ok := lf.Get("a", "1.0.0"); ok {
		t.Error("Remove left the entry")
	}
	if !Exists(t.TempDir()) || Exists(filepath.Join(t.TempDir(), "x")) {
		t.Error("Exists mismatch")
	}
}

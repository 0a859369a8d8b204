package semver

import (
	"errors"
	"slices"
	"testing"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    Version
		wantErr bool
	}{
		{"1.2.3", Version{Major: 1, Minor: 2, Patch: 3}, false},
		{"v1.2.3", Version{Major: 1, Minor: 2, Patch: 3}, false},
		{"1", Version{Major: 1}, false},
		{"1.2", Version{Major: 1, Minor: 2}, false},
		{"1.2.3-beta.1", Version{Major: 1, Minor: 2, Patch: 3, Prerelease: "beta.1"}, false},
		{"1.2.3+build.5", Version{Major: 1, Minor: 2, Patch: 3, Build: "build.5"}, false},
		{"1.2.3-rc.1+sha", Version{Major: 1, Minor: 2, Patch: 3, Prerelease: "rc.1", Build: "sha"}, false},
		{"1.x.3", Version{Major: 1, Patch: 3}, false},
		{"", Version{}, true},
		{"invalid", Version{}, true},
		{"v", Version{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVersion(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidVersion) {
					t.Fatalf("ParseVersion(%q) error = %v, want ErrInvalidVersion", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseVersion(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseVersion(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseConstraint(t *testing.T) {
	tests := []struct {
		in   string
		want Constraint
	}{
		{"1.2.3", Constraint{Op: OpExact, Major: 1, Minor: 2, Patch: 3}},
		{"=1.2.3", Constraint{Op: OpExact, Major: 1, Minor: 2, Patch: 3}},
		{"^1.2.3", Constraint{Op: OpCaret, Major: 1, Minor: 2, Patch: 3}},
		{"~1.2.3", Constraint{Op: OpTilde, Major: 1, Minor: 2, Patch: 3}},
		{">=1.2.3", Constraint{Op: OpGTE, Major: 1, Minor: 2, Patch: 3}},
		{"<=1.2.3", Constraint{Op: OpLTE, Major: 1, Minor: 2, Patch: 3}},
		{">1.2.3", Constraint{Op: OpGT, Major: 1, Minor: 2, Patch: 3}},
		{"<1.2.3", Constraint{Op: OpLT, Major: 1, Minor: 2, Patch: 3}},
		{">= 2", Constraint{Op: OpGTE, Major: 2}},
		{"*", Any},
		{"latest", Any},
		{"", Any},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseConstraint(tt.in)
			if err != nil {
				t.Fatalf("ParseConstraint(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseConstraint(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}

	if _, err := ParseConstraint("^abc"); !errors.Is(err, ErrInvalidConstraint) {
		t.Errorf("ParseConstraint(^abc) error = %v, want ErrInvalidConstraint", err)
	}
}

func TestConstraintSatisfies(t *testing.T) {
	tests := []struct {
		constraint string
		accept     []string
		reject     []string
	}{
		{"^1.2.3", []string{"1.2.3", "1.9.9", "1.3.0"}, []string{"2.0.0", "1.2.2", "0.9.9"}},
		{"~1.2.3", []string{"1.2.3", "1.2.9"}, []string{"1.3.0", "1.2.2"}},
		{"^0.2.3", []string{"0.2.3", "0.2.9"}, []string{"0.3.0", "0.2.2", "1.2.3"}},
		{"^0.0.3", []string{"0.0.3"}, []string{"0.0.4", "0.0.2", "0.1.3"}},
		{"1.2.3", []string{"1.2.3", "1.2.3-beta"}, []string{"1.2.4"}},
		{">=1.2.3", []string{"1.2.3", "2.0.0"}, []string{"1.2.2"}},
		{"<=1.2.3", []string{"1.2.3", "0.1.0"}, []string{"1.2.4"}},
		{">1.2.3", []string{"1.2.4", "1.3.0"}, []string{"1.2.3"}},
		{"<1.2.3", []string{"1.2.2", "1.1.9"}, []string{"1.2.3"}},
		{"*", []string{"0.0.1", "99.0.0"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			c := MustParseConstraint(tt.constraint)
			for _, v := range tt.accept {
				if !c.Satisfies(MustParseVersion(v)) {
					t.Errorf("%s should accept %s", tt.constraint, v)
				}
			}
			for _, v := range tt.reject {
				if c.Satisfies(MustParseVersion(v)) {
					t.Errorf("%s should reject %s", tt.constraint, v)
				}
			}
		})
	}
}

func TestRangeSatisfies(t *testing.T) {
	tests := []struct {
		rng    string
		accept []string
		reject []string
	}{
		{">=1.2.0 <2.0.0", []string{"1.2.0", "1.9.9"}, []string{"2.0.0", "1.1.9"}},
		{"^1.0.0 || ^2.0.0", []string{"1.5.0", "2.1.0"}, []string{"3.0.0", "0.9.0"}},
		{"1.2.3 - 2.3.4", []string{"1.2.3", "2.3.4", "2.0.0"}, []string{"2.3.5", "1.2.2"}},
		{"1.x", []string{"1.0.0", "1.99.0"}, []string{"2.0.0", "0.9.0"}},
		{"1.2.*", []string{"1.2.0", "1.2.99"}, []string{"1.3.0"}},
		{"1.2.3 - 2.x", []string{"2.9.9"}, []string{"3.0.0"}},
		{"1.2.3 - 2", []string{"2.0.0", "2.9.9"}, []string{"3.0.0"}},
		{"1.2.3 - 2.3", []string{"2.3.9"}, []string{"2.4.0"}},
		{"~1.x", []string{"1.0.0", "1.5.2"}, []string{"2.0.0", "0.9.9"}},
		{"~1.2.x", []string{"1.2.0", "1.2.9"}, []string{"1.3.0"}},
		{"^1.x", []string{"1.9.0"}, []string{"2.0.0"}},
		{"^1.2.x", []string{"1.2.0", "1.9.0"}, []string{"2.0.0", "1.1.9"}},
		{"^0.x", []string{"0.0.1", "0.9.0"}, []string{"1.0.0"}},
		{"^0.2.x", []string{"0.2.5"}, []string{"0.3.0"}},
		{"^0.0.x", []string{"0.0.7"}, []string{"0.1.0"}},
		{">= 1.0.0 < 1.5.0", []string{"1.4.9"}, []string{"1.5.0"}},
		{"^1.2.3", []string{"1.2.3", "1.9.9"}, []string{"2.0.0", "1.2.2"}},
		{"", []string{"0.0.1"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.rng, func(t *testing.T) {
			r, err := ParseRange(tt.rng)
			if err != nil {
				t.Fatalf("ParseRange(%q) error = %v", tt.rng, err)
			}
			for _, v := range tt.accept {
				if !r.SatisfiesString(v) {
					t.Errorf("%q should accept %s", tt.rng, v)
				}
			}
			for _, v := range tt.reject {
				if r.SatisfiesString(v) {
					t.Errorf("%q should reject %s", tt.rng, v)
				}
			}
		})
	}
}

func TestMaxSatisfying(t *testing.T) {
	versions := []string{"1.0.0", "1.2.0", "garbage", "1.9.3", "2.0.0", "1.9.3-beta.1"}

	got, ok := MaxSatisfying(versions, MustParseConstraint("^1.0.0"))
	if !ok || got != "1.9.3" {
		t.Errorf("MaxSatisfying(^1.0.0) = %q, %v; want 1.9.3, true", got, ok)
	}

	got, ok = MinSatisfying(versions, MustParseConstraint("^1.1.0"))
	if !ok || got != "1.2.0" {
		t.Errorf("MinSatisfying(^1.1.0) = %q, %v; want 1.2.0, true", got, ok)
	}

	if _, ok := MaxSatisfying(versions, MustParseConstraint("^3.0.0")); ok {
		t.Error("MaxSatisfying(^3.0.0) should find nothing")
	}
}

func TestSortAndIsNewer(t *testing.T) {
	versions := []string{"1.0.0", "2.0.0-rc.1", "0.9.0", "2.0.0", "1.10.0"}
	Sort(versions)
	want := []string{"2.0.0", "2.0.0-rc.1", "1.10.0", "1.0.0", "0.9.0"}
	if !slices.Equal(versions, want) {
		t.Errorf("Sort() = %v, want %v", versions, want)
	}

	if !IsNewer("1.2.4", "1.2.3") {
		t.Error("1.2.4 should be newer than 1.2.3")
	}
	if IsNewer("1.2.3", "1.2.3") {
		t.Error("equal versions are not newer")
	}
	if IsNewer("bogus", "1.0.0") {
		t.Error("unparseable version is never newer")
	}
}

func TestIsValidSpec(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"invalid", false},
		{"catalog:", false},
		{"file:../x", false},
		{"^1.2.3", true},
		{"~1.0", true},
		{">=2", true},
		{"<3", true},
		{"=1.0.0", true},
		{"1.0.0", true},
		{"latest", true},
		{"next", true},
		{"*", true},
		{"github:owner/repo", true},
		{"https://github.com/owner/repo", true},
		{"git+ssh://git@host/repo.git", true},
		{"workspace:*", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := IsValidSpec(tt.in); got != tt.want {
				t.Errorf("IsValidSpec(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsTag(t *testing.T) {
	for _, s := range []string{"latest", "next", "beta", "canary"} {
		if !IsTag(s) {
			t.Errorf("IsTag(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "*", "^1.0.0", "1.0.0", "github:a/b", "a/b"} {
		if IsTag(s) {
			t.Errorf("IsTag(%q) = true, want false", s)
		}
	}
}

package catalog

import (
	"encoding/json"
	"fmt"
	"testing"
)

func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	var raw map[string]any
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return raw
}

func TestReferenceName(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"catalog:", "", true},
		{"catalog:  ", "", true},
		{"catalog:testing", "testing", true},
		{"catalog: react18 ", "react18", true},
		{"^1.0.0", "", false},
		{"Catalog:", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ReferenceName(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ReferenceName(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestResolveRoundTrip(t *testing.T) {
	m := Parse(decode(t, `{"workspaces": {"catalog": {"react": "^19.0.0"}}}`), nil)

	tests := []struct {
		value   string
		want    string
		outcome Outcome
	}{
		{"catalog:", "^19.0.0", Resolved},
		{"catalog:  ", "^19.0.0", Resolved},
		{"catalog:testing", "", NotFound},
		{"^18.0.0", "^18.0.0", NotReference},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, outcome := m.Resolve("react", tt.value)
			if got != tt.want || outcome != tt.outcome {
				t.Errorf("Resolve(react, %q) = %q, %v; want %q, %v", tt.value, got, outcome, tt.want, tt.outcome)
			}
		})
	}

	if _, outcome := m.Resolve("vue", "catalog:"); outcome != NotFound {
		t.Errorf("missing package outcome = %v, want NotFound", outcome)
	}
}

func TestParseOrder(t *testing.T) {
	raw := decode(t, `{
		"workspaces": {
			"catalog": {"react": "^19.0.0"},
			"catalogs": {"legacy": {"react": "^17.0.0"}}
		},
		"catalog": {"react": "^16.0.0"},
		"catalogs": {"testing": {"vitest": "^2.0.0"}, "empty": {}}
	}`)
	m := Parse(raw, nil)

	if v, _ := m.Resolve("react", "catalog:"); v != "^19.0.0" {
		t.Errorf("default react = %q, top-level catalog must not replace workspaces.catalog", v)
	}
	if v, _ := m.Resolve("react", "catalog:legacy"); v != "^17.0.0" {
		t.Errorf("legacy react = %q, want ^17.0.0", v)
	}
	if v, _ := m.Resolve("vitest", "catalog:testing"); v != "^2.0.0" {
		t.Errorf("testing vitest = %q, want ^2.0.0", v)
	}
	if _, ok := m.Get("empty"); ok {
		t.Error("empty named catalog should be discarded")
	}
}

func TestParseTopLevelDefault(t *testing.T) {
	m := Parse(decode(t, `{"catalog": {"lodash": "4.17.21"}}`), nil)
	if v, outcome := m.Resolve("lodash", "catalog:"); outcome != Resolved || v != "4.17.21" {
		t.Errorf("Resolve = %q, %v; want 4.17.21, Resolved", v, outcome)
	}
}

func TestParseSkipsInvalidEntries(t *testing.T) {
	raw := decode(t, `{"catalog": {"ok": "^1.0.0", "bad": "invalid", "num": 3, "nested": {"a": "1"}}}`)

	var warnings []string
	m := Parse(raw, func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	})

	c := m.Default()
	if c == nil || c.Len() != 1 {
		t.Fatalf("default catalog = %+v, want exactly one entry", c)
	}
	if len(warnings) != 1 {
		t.Errorf("warnings = %v, want one for the invalid string only", warnings)
	}
}

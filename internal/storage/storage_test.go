package storage

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reforestai/geokit/internal/log"
)

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s, err := New(t.TempDir(), log.NewNop(), opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	doc := map[string]any{
		"type":     "FeatureCollection",
		"features": []any{},
	}
	path, err := s.Save(doc, "empty.geojson")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !filepath.IsAbs(path) {
		t.Errorf("Save handle = %q, want absolute path", path)
	}

	got, err := s.Load("empty.geojson")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	m, ok := got.(map[string]any)
	if !ok || m["type"] != "FeatureCollection" {
		t.Errorf("Load returned %v", got)
	}
}

func TestStore_SaveGeneratesName(t *testing.T) {
	s := newTestStore(t)

	path, err := s.Save(map[string]any{"a": 1}, "")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	base := filepath.Base(path)
	if !strings.HasPrefix(base, "geokit-") || !strings.HasSuffix(base, ".geojson") {
		t.Errorf("generated name = %q", base)
	}
}

func TestStore_LoadNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Load("missing.geojson"); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestStore_LoadTooLarge(t *testing.T) {
	s := newTestStore(t, WithMaxDocumentSize(8))
	if _, err := s.Save(map[string]any{"k": "a long enough value"}, "big.json"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load("big.json"); !errors.Is(err, ErrTooLarge) {
		t.Errorf("error = %v, want ErrTooLarge", err)
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{"simple", "data.geojson", true},
		{"empty", "", false},
		{"slash", "a/b.geojson", false},
		{"backslash", `a\b.geojson`, false},
		{"dot", ".", false},
		{"dotdot", "..", false},
		{"null byte", "a\x00b", false},
		{"too long", strings.Repeat("x", 256), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if tt.ok && err != nil {
				t.Errorf("ValidateName(%q) = %v, want nil", tt.input, err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidName) {
				t.Errorf("ValidateName(%q) = %v, want ErrInvalidName", tt.input, err)
			}
		})
	}
}

func TestStore_List(t *testing.T) {
	s := newTestStore(t)
	for _, name := range []string{"b.geojson", "a.geojson"} {
		if _, err := s.Save(map[string]any{}, name); err != nil {
			t.Fatal(err)
		}
	}

	names, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 2 || names[0] != "a.geojson" || names[1] != "b.geojson" {
		t.Errorf("List() = %v, want sorted [a.geojson b.geojson]", names)
	}
}

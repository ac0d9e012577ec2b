package prefstore

import (
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "preferences.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSetAndGet(t *testing.T) {
	s := openTestStore(t)

	if err := s.Set("netfl", true); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	pref, err := s.Get("netfl")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !pref.IsIgnored {
		t.Error("Get() returned IsIgnored = false, expected true")
	}
}

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.Get("nosuch"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, expected ErrNotFound", err)
	}
}

func TestToggle(t *testing.T) {
	s := openTestStore(t)

	// An unseen key toggles to ignored.
	ignored, err := s.Toggle("netfl")
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if !ignored {
		t.Error("first Toggle() = false, expected true")
	}

	ignored, err = s.Toggle("netfl")
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if ignored {
		t.Error("second Toggle() = true, expected false")
	}
}

func TestKeyNormalization(t *testing.T) {
	s := openTestStore(t)

	if err := s.Set("  NETFL ", true); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	pref, err := s.Get("netfl")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !pref.IsIgnored {
		t.Error("keys must be normalized to lowercase on write and read")
	}
}

func TestIgnoredKeys(t *testing.T) {
	s := openTestStore(t)

	if err := s.Set("netfl", true); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Set("spoti", false); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	ignored, err := s.IgnoredKeys()
	if err != nil {
		t.Fatalf("IgnoredKeys() error = %v", err)
	}
	if len(ignored) != 1 || !ignored["netfl"] {
		t.Errorf("IgnoredKeys() = %v, expected map[netfl:true]", ignored)
	}
}

package storage

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadDefaultsWhenEmpty(t *testing.T) {
	s := newTestStore(t)
	prefs, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences: %v", err)
	}
	if diff := cmp.Diff(DefaultPreferences(), prefs); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveAndLoadPreferences(t *testing.T) {
	s := newTestStore(t)
	want := &Preferences{
		EnginePath:     "/usr/local/bin/stockfish",
		MoveTimeMS:     250,
		Depth:          18,
		WhiteBottom:    false,
		AggressiveMate: true,
	}
	if err := s.SavePreferences(want); err != nil {
		t.Fatalf("SavePreferences: %v", err)
	}
	if want.LastOpened.IsZero() {
		t.Error("SavePreferences should stamp LastOpened")
	}

	got, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences: %v", err)
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApproxTime(time.Second)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestOverwritePreferences(t *testing.T) {
	s := newTestStore(t)
	first := DefaultPreferences()
	first.MoveTimeMS = 50
	if err := s.SavePreferences(first); err != nil {
		t.Fatal(err)
	}
	second := DefaultPreferences()
	second.MoveTimeMS = 500
	if err := s.SavePreferences(second); err != nil {
		t.Fatal(err)
	}
	got, err := s.LoadPreferences()
	if err != nil {
		t.Fatal(err)
	}
	if got.MoveTimeMS != 500 {
		t.Errorf("MoveTimeMS = %d, want 500", got.MoveTimeMS)
	}
}

package pending_test

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/friendlens/friendlens/internal/pending"
	"github.com/friendlens/friendlens/internal/scoring"
)

func sampleResult() *scoring.Result {
	return &scoring.Result{
		RawScores:          scoring.Vector{scoring.DimOX: 12},
		NormalizedScores:   scoring.Vector{scoring.DimOX: 100},
		MatchedType:        scoring.MatchedType{ID: "confidant", Name: "The Confidant", ShortLabel: "CNF", Distance: 12.5},
		PrimaryArchetype:   "Bonder",
		SecondaryArchetype: "Anchor",
		Confidence:         0.61,
	}
}

var sampleResponses = []scoring.UserResponse{
	{QuestionID: "q01", RankedOptionIDs: []string{"long_talk", "quiet_night"}},
}

func TestHoldAndLoad(t *testing.T) {
	fs := pending.NewFileStore(filepath.Join(t.TempDir(), "pending"))

	token, err := fs.Hold(sampleResult(), sampleResponses, "2025.1")
	if err != nil {
		t.Fatalf("Hold: %v", err)
	}

	h, err := fs.Load(token)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if h.Token != token || h.BundleVersion != "2025.1" {
		t.Errorf("held = %+v", h)
	}
	if diff := cmp.Diff(*sampleResult(), h.Result); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(sampleResponses, h.Responses); diff != "" {
		t.Errorf("responses mismatch (-want +got):\n%s", diff)
	}

	// Load does not consume the token.
	if _, err := fs.Load(token); err != nil {
		t.Errorf("second Load: %v", err)
	}
}

func TestHold_FilePermissions(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pending")
	fs := pending.NewFileStore(dir)

	token, err := fs.Hold(sampleResult(), nil, "v")
	if err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(filepath.Join(dir, token+".json"))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("perm = %o, want 600", perm)
	}
}

func TestHold_NilResult(t *testing.T) {
	fs := pending.NewFileStore(t.TempDir())
	if _, err := fs.Hold(nil, nil, "v"); err == nil {
		t.Fatal("expected error for nil result")
	}
}

func TestClaim_OnlyOnce(t *testing.T) {
	fs := pending.NewFileStore(t.TempDir())
	token, err := fs.Hold(sampleResult(), sampleResponses, "v")
	if err != nil {
		t.Fatal(err)
	}

	h, err := fs.Claim(token)
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if h.Result.MatchedType.ID != "confidant" {
		t.Errorf("matched = %s, want confidant", h.Result.MatchedType.ID)
	}

	if _, err := fs.Claim(token); !errors.Is(err, pending.ErrNotFound) {
		t.Errorf("second Claim err = %v, want ErrNotFound", err)
	}
	if _, err := fs.Load(token); !errors.Is(err, pending.ErrNotFound) {
		t.Errorf("Load after claim err = %v, want ErrNotFound", err)
	}

	entries, err := os.ReadDir(fs.Dir())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("files left after claim: %d", len(entries))
	}
}

func TestClaim_ConcurrentSingleWinner(t *testing.T) {
	fs := pending.NewFileStore(t.TempDir())
	token, err := fs.Hold(sampleResult(), nil, "v")
	if err != nil {
		t.Fatal(err)
	}

	const n = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := fs.Claim(token); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("wins = %d, want 1", wins)
	}
}

func TestBadTokens(t *testing.T) {
	fs := pending.NewFileStore(t.TempDir())

	for _, token := range []string{"", "../etc/passwd", "not-a-uuid", "00000000-0000-0000-0000-000000000000"} {
		if _, err := fs.Load(token); !errors.Is(err, pending.ErrNotFound) {
			t.Errorf("Load(%q) err = %v, want ErrNotFound", token, err)
		}
		if _, err := fs.Claim(token); !errors.Is(err, pending.ErrNotFound) {
			t.Errorf("Claim(%q) err = %v, want ErrNotFound", token, err)
		}
	}
}

func TestPurge(t *testing.T) {
	fs := pending.NewFileStore(t.TempDir())
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	fs.SetClock(func() time.Time { return start })
	old, err := fs.Hold(sampleResult(), nil, "v")
	if err != nil {
		t.Fatal(err)
	}

	fs.SetClock(func() time.Time { return start.Add(47 * time.Hour) })
	fresh, err := fs.Hold(sampleResult(), nil, "v")
	if err != nil {
		t.Fatal(err)
	}

	fs.SetClock(func() time.Time { return start.Add(48*time.Hour + time.Minute) })
	removed, err := fs.Purge(48 * time.Hour)
	if err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, err := fs.Load(old); !errors.Is(err, pending.ErrNotFound) {
		t.Errorf("old token err = %v, want ErrNotFound", err)
	}
	if _, err := fs.Load(fresh); err != nil {
		t.Errorf("fresh token: %v", err)
	}
}

func TestPurge_MissingDirectory(t *testing.T) {
	fs := pending.NewFileStore(filepath.Join(t.TempDir(), "never-created"))
	removed, err := fs.Purge(time.Hour)
	if err != nil || removed != 0 {
		t.Errorf("Purge = %d, %v; want 0, nil", removed, err)
	}
}

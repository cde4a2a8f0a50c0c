package tasks

import (
	"io"
	"os"
	"testing"

	"github.com/ytlist/ytlist/internal/models"
	"github.com/ytlist/ytlist/internal/shared"
)

func TestCheckpointStore(t *testing.T) {
	newStore := func(t *testing.T) *CheckpointStore {
		t.Helper()
		return NewCheckpointStore(t.TempDir(), shared.NewLogger(io.Discard))
	}

	t.Run("begin then find round trips", func(t *testing.T) {
		store := newStore(t)
		cp := &Checkpoint{
			Operation:  models.OpSync,
			Document:   "/playlists/mix.md",
			Title:      "Road Trip Mix",
			PlaylistID: "PLabc",
			TotalOps:   5,
		}
		if err := store.Begin(cp); err != nil {
			t.Fatalf("Begin() error = %v", err)
		}
		if cp.StartedAt.IsZero() || cp.UpdatedAt.IsZero() {
			t.Error("Begin() should stamp start and update times")
		}

		found, err := store.Find("/playlists/mix.md", models.OpSync)
		if err != nil {
			t.Fatalf("Find() error = %v", err)
		}
		if found == nil {
			t.Fatal("Find() returned nil for an existing checkpoint")
		}
		if found.PlaylistID != "PLabc" || found.Title != "Road Trip Mix" {
			t.Errorf("Find() = %+v, fields did not round trip", found)
		}
		if found.Remaining() != 5 {
			t.Errorf("Remaining() = %d, want 5", found.Remaining())
		}
	})

	t.Run("advance persists progress", func(t *testing.T) {
		store := newStore(t)
		cp := &Checkpoint{Operation: models.OpSync, Document: "doc.md", TotalOps: 4}
		if err := store.Begin(cp); err != nil {
			t.Fatalf("Begin() error = %v", err)
		}

		cp.Processed = 2
		cp.Added = 1
		cp.Skipped = 1
		cp.QuotaSpent = 150
		if err := store.Advance(cp); err != nil {
			t.Fatalf("Advance() error = %v", err)
		}

		found, err := store.Find("doc.md", models.OpSync)
		if err != nil {
			t.Fatalf("Find() error = %v", err)
		}
		if found.Processed != 2 || found.Added != 1 || found.Skipped != 1 {
			t.Errorf("counts = %d/%d/%d, want 2/1/1", found.Processed, found.Added, found.Skipped)
		}
		if found.QuotaSpent != 150 {
			t.Errorf("QuotaSpent = %d, want 150", found.QuotaSpent)
		}
		if found.Remaining() != 2 {
			t.Errorf("Remaining() = %d, want 2", found.Remaining())
		}
	})

	t.Run("complete removes the file", func(t *testing.T) {
		store := newStore(t)
		cp := &Checkpoint{Operation: models.OpCreate, Document: "doc.md"}
		if err := store.Begin(cp); err != nil {
			t.Fatalf("Begin() error = %v", err)
		}
		if err := store.Complete(cp); err != nil {
			t.Fatalf("Complete() error = %v", err)
		}

		found, err := store.Find("doc.md", models.OpCreate)
		if err != nil {
			t.Fatalf("Find() error = %v", err)
		}
		if found != nil {
			t.Errorf("Find() after Complete() = %+v, want nil", found)
		}

		// Completing twice must not fail.
		if err := store.Complete(cp); err != nil {
			t.Errorf("second Complete() error = %v", err)
		}
	})

	t.Run("find returns nil when absent", func(t *testing.T) {
		store := newStore(t)
		found, err := store.Find("never-seen.md", models.OpSync)
		if err != nil {
			t.Fatalf("Find() error = %v", err)
		}
		if found != nil {
			t.Errorf("Find() = %+v, want nil", found)
		}
	})

	t.Run("corrupt checkpoint is discarded", func(t *testing.T) {
		store := newStore(t)
		cp := &Checkpoint{Operation: models.OpSync, Document: "doc.md"}
		if err := store.Begin(cp); err != nil {
			t.Fatalf("Begin() error = %v", err)
		}

		path := store.path("doc.md", models.OpSync)
		if err := os.WriteFile(path, []byte("{torn"), 0644); err != nil {
			t.Fatalf("failed to corrupt checkpoint: %v", err)
		}

		found, err := store.Find("doc.md", models.OpSync)
		if err != nil {
			t.Fatalf("Find() error = %v", err)
		}
		if found != nil {
			t.Errorf("Find() = %+v, want nil for corrupt file", found)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("corrupt checkpoint file should be deleted")
		}
	})

	t.Run("documents do not collide", func(t *testing.T) {
		store := newStore(t)
		a := &Checkpoint{Operation: models.OpSync, Document: "a.md", TotalOps: 1}
		b := &Checkpoint{Operation: models.OpSync, Document: "b.md", TotalOps: 2}
		if err := store.Begin(a); err != nil {
			t.Fatalf("Begin(a) error = %v", err)
		}
		if err := store.Begin(b); err != nil {
			t.Fatalf("Begin(b) error = %v", err)
		}

		foundA, _ := store.Find("a.md", models.OpSync)
		foundB, _ := store.Find("b.md", models.OpSync)
		if foundA == nil || foundB == nil {
			t.Fatal("both checkpoints should exist")
		}
		if foundA.TotalOps != 1 || foundB.TotalOps != 2 {
			t.Errorf("TotalOps = %d/%d, want 1/2", foundA.TotalOps, foundB.TotalOps)
		}
	})

	t.Run("operations are separate", func(t *testing.T) {
		store := newStore(t)
		if err := store.Begin(&Checkpoint{Operation: models.OpSync, Document: "doc.md"}); err != nil {
			t.Fatalf("Begin() error = %v", err)
		}

		found, err := store.Find("doc.md", models.OpCreate)
		if err != nil {
			t.Fatalf("Find() error = %v", err)
		}
		if found != nil {
			t.Errorf("Find(create) = %+v, want nil when only sync exists", found)
		}
	})
}

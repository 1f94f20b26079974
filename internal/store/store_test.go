package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/iconforge/iconforge/internal"
	"github.com/iconforge/iconforge/internal/orchestrator"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_New(t *testing.T) {
	s := newTestStore(t)

	if s == nil {
		t.Fatal("expected non-nil store")
	}
}

func TestStore_SaveJob(t *testing.T) {
	s := newTestStore(t)

	job := internal.IconJob{
		ID:          "job-1",
		ArtStyle:    "pixel art",
		Description: "a dancing baby shark",
		Timestamp:   time.Now(),
	}

	if err := s.SaveJob(context.Background(), job); err != nil {
		t.Errorf("SaveJob failed: %v", err)
	}
}

func TestStore_PromptMemory_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, found, err := s.GetCachedPrompt(ctx, "pixel art", "a dancing baby shark")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatal("expected miss on empty store")
	}

	err = s.SavePrompt(ctx, "pixel art", "a dancing baby shark", "8-bit shark prompt", "openai")
	if err != nil {
		t.Fatalf("SavePrompt failed: %v", err)
	}

	prompt, found, err := s.GetCachedPrompt(ctx, "pixel art", "a dancing baby shark")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatal("expected hit after save")
	}
	if prompt != "8-bit shark prompt" {
		t.Errorf("expected saved prompt, got %q", prompt)
	}
}

func TestStore_PromptMemory_NormalizedKeys(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SavePrompt(ctx, "  pixel art  ", "a rocket", "prompt text", "openai"); err != nil {
		t.Fatalf("SavePrompt failed: %v", err)
	}

	_, found, err := s.GetCachedPrompt(ctx, "pixel art", "a rocket")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Error("expected whitespace-insensitive key match")
	}
}

func TestStore_PromptMemory_UsageCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.SavePrompt(ctx, "flat", "a gear", "flat gear prompt", "gemini")
	s.GetCachedPrompt(ctx, "flat", "a gear")
	s.GetCachedPrompt(ctx, "flat", "a gear")

	entries, err := s.ListPrompts(ctx)
	if err != nil {
		t.Fatalf("ListPrompts failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].UsageCount != 3 {
		t.Errorf("expected usage count 3, got %d", entries[0].UsageCount)
	}
}

func TestStore_InvalidatePrompt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.SavePrompt(ctx, "flat", "a gear", "flat gear prompt", "gemini")

	entries, _ := s.ListPrompts(ctx)
	if err := s.InvalidatePrompt(ctx, entries[0].ID); err != nil {
		t.Fatalf("InvalidatePrompt failed: %v", err)
	}

	_, found, err := s.GetCachedPrompt(ctx, "flat", "a gear")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("expected invalidated entry to miss")
	}
}

func TestStore_ClearPrompts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.SavePrompt(ctx, "flat", "a gear", "p1", "gemini")
	s.SavePrompt(ctx, "flat", "a cloud", "p2", "gemini")

	n, err := s.ClearPrompts(ctx)
	if err != nil {
		t.Fatalf("ClearPrompts failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 cleared, got %d", n)
	}
}

func TestStore_Stats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.SavePrompt(ctx, "flat", "a gear", "p1", "gemini")
	s.SavePrompt(ctx, "flat", "a cloud", "p2", "gemini")
	entries, _ := s.ListPrompts(ctx)
	s.InvalidatePrompt(ctx, entries[0].ID)

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalEntries != 2 {
		t.Errorf("expected 2 total, got %d", stats.TotalEntries)
	}
	if stats.ActiveEntries != 1 {
		t.Errorf("expected 1 active, got %d", stats.ActiveEntries)
	}
	if stats.InvalidEntries != 1 {
		t.Errorf("expected 1 invalid, got %d", stats.InvalidEntries)
	}
}

func TestStore_History(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	job := internal.IconJob{ID: "job-1", ArtStyle: "pixel art", Description: "a shark", Timestamp: time.Now()}
	if err := s.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob failed: %v", err)
	}

	err := s.SaveIconResult(ctx, "job-1", "openai", "openai", "refined shark prompt", "output/icon_1.png", 2500, "")
	if err != nil {
		t.Fatalf("SaveIconResult failed: %v", err)
	}

	entries, err := s.ListHistory(ctx, 10)
	if err != nil {
		t.Fatalf("ListHistory failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(entries))
	}
	e := entries[0]
	if e.ArtStyle != "pixel art" || e.ImagePath != "output/icon_1.png" {
		t.Errorf("unexpected history entry: %+v", e)
	}
}

func TestStore_PromptMemory_SatisfiesOrchestratorCache(t *testing.T) {
	var _ orchestrator.PromptCache = (*PromptMemory)(nil)
}

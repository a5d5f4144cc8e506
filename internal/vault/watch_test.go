package vault

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/starford/ansuz/internal/testutil"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatch_RebuildsOnNoteChange(t *testing.T) {
	vaultDir, store := testutil.TestVault(t)
	testutil.WriteNote(t, vaultDir, "First.md", "---\npublic: true\n---\nfirst\n")

	opts := Options{
		OutputPath: filepath.Join(t.TempDir(), "pages.json"),
		NotePrefix: "/content",
		SkipMedia:  true,
	}
	exporter := NewExporter(store, testLogger(), opts)
	if _, err := exporter.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var reports []*Report

	done := make(chan struct{})
	go func() {
		_ = exporter.Watch(ctx, func(r *Report) {
			mu.Lock()
			reports = append(reports, r)
			mu.Unlock()
		})
		close(done)
	}()

	// Give the watcher time to register directories.
	time.Sleep(100 * time.Millisecond)

	testutil.WriteNote(t, vaultDir, "Second.md", "---\npublic: true\n---\nsecond\n")

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, r := range reports {
			if r.Pages == 2 {
				return true
			}
		}
		return false
	}, "watcher did not rebuild with the new note")

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Error("watcher did not stop on cancel")
	}
}

func TestWatch_IgnoresIrrelevantFiles(t *testing.T) {
	vaultDir, store := testutil.TestVault(t)
	testutil.WriteNote(t, vaultDir, "Note.md", "---\npublic: true\n---\nx\n")

	opts := Options{
		OutputPath: filepath.Join(t.TempDir(), "pages.json"),
		NotePrefix: "/content",
		SkipMedia:  true,
	}
	exporter := NewExporter(store, testLogger(), opts)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	rebuilds := 0

	go func() {
		_ = exporter.Watch(ctx, func(*Report) {
			mu.Lock()
			rebuilds++
			mu.Unlock()
		})
	}()

	time.Sleep(100 * time.Millisecond)
	testutil.WriteNote(t, vaultDir, "scratch.tmp", "ignored")

	time.Sleep(2 * debounce)
	mu.Lock()
	defer mu.Unlock()
	if rebuilds != 0 {
		t.Errorf("rebuilds = %d, want 0", rebuilds)
	}
}

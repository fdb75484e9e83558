package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
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

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func startWatch(t *testing.T, opts Options) *atomic.Int32 {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	var builds atomic.Int32
	if opts.Debounce == 0 {
		opts.Debounce = 50 * time.Millisecond
	}
	go Watch(ctx, opts, testLogger(), func(context.Context) { builds.Add(1) })
	time.Sleep(100 * time.Millisecond)
	return &builds
}

func TestWatcher_NoteChangeTriggersRebuild(t *testing.T) {
	vaultDir := t.TempDir()
	builds := startWatch(t, Options{Root: vaultDir})

	_ = os.WriteFile(filepath.Join(vaultDir, "new.md"), []byte("# New"), 0o644)

	eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		return builds.Load() >= 1
	}, "note change did not trigger a rebuild")
}

func TestWatcher_BurstIsDebounced(t *testing.T) {
	vaultDir := t.TempDir()
	builds := startWatch(t, Options{Root: vaultDir, Debounce: 200 * time.Millisecond})

	for i := 0; i < 5; i++ {
		_ = os.WriteFile(filepath.Join(vaultDir, "burst.md"), []byte{byte('a' + i)}, 0o644)
		time.Sleep(10 * time.Millisecond)
	}

	eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		return builds.Load() >= 1
	}, "burst did not trigger a rebuild")
	time.Sleep(400 * time.Millisecond)
	if n := builds.Load(); n != 1 {
		t.Errorf("rebuilds = %d, want 1", n)
	}
}

func TestWatcher_NewDirWatched(t *testing.T) {
	vaultDir := t.TempDir()
	builds := startWatch(t, Options{Root: vaultDir})

	subDir := filepath.Join(vaultDir, "_notes")
	_ = os.MkdirAll(subDir, 0o755)
	eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		return builds.Load() >= 1
	}, "new dir did not trigger a rebuild")
	before := builds.Load()

	_ = os.WriteFile(filepath.Join(subDir, "deep.md"), []byte("# Deep"), 0o644)

	eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		return builds.Load() > before
	}, "file in new subdir did not trigger a rebuild")
}

func TestWatcher_IgnoresOutputAndOtherFiles(t *testing.T) {
	vaultDir := t.TempDir()
	outDir := filepath.Join(vaultDir, "_site")
	_ = os.MkdirAll(outDir, 0o755)
	builds := startWatch(t, Options{Root: vaultDir, Ignore: []string{outDir}})

	_ = os.WriteFile(filepath.Join(outDir, "index.md"), []byte("x"), 0o644)
	_ = os.WriteFile(filepath.Join(vaultDir, "notes.txt"), []byte("x"), 0o644)

	time.Sleep(300 * time.Millisecond)
	if n := builds.Load(); n != 0 {
		t.Errorf("rebuilds = %d, want 0", n)
	}
}

func TestWatcher_BibliographyOutsideVault(t *testing.T) {
	vaultDir := t.TempDir()
	bibDir := t.TempDir()
	bibPath := filepath.Join(bibDir, "references.json")
	_ = os.WriteFile(bibPath, []byte("[]"), 0o644)
	builds := startWatch(t, Options{Root: vaultDir, Files: []string{bibPath}})

	_ = os.WriteFile(filepath.Join(bibDir, "unrelated.json"), []byte("{}"), 0o644)
	time.Sleep(200 * time.Millisecond)
	if n := builds.Load(); n != 0 {
		t.Fatalf("unrelated file triggered %d rebuilds", n)
	}

	_ = os.WriteFile(bibPath, []byte(`[{"id":"x"}]`), 0o644)
	eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		return builds.Load() >= 1
	}, "bibliography change did not trigger a rebuild")
}

func TestFilter(t *testing.T) {
	root := t.TempDir()
	f := newFilter(Options{Root: root, Ignore: []string{filepath.Join(root, "_site")}})
	cases := map[string]bool{
		filepath.Join(root, "a.md"):              true,
		filepath.Join(root, "_notes", "b.md"):    true,
		filepath.Join(root, "_site", "c.md"):     false,
		filepath.Join(root, ".git", "d.md"):      false,
		filepath.Join(root, "e.txt"):             false,
		filepath.Join(t.TempDir(), "outside.md"): false,
	}
	for p, want := range cases {
		if got := f.relevant(p); got != want {
			t.Errorf("relevant(%s) = %v, want %v", p, got, want)
		}
	}
}

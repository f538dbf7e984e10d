package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Run("xdg", func(t *testing.T) {
		root := t.TempDir()
		t.Setenv("XDG_CACHE_HOME", root)

		dir, err := cacheDir()
		if err != nil {
			t.Fatalf("cacheDir() error: %v", err)
		}
		if want := filepath.Join(root, "bikebuilder"); dir != want {
			t.Errorf("cacheDir() = %q, want %q", dir, want)
		}
	})

	t.Run("home", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "")
		home, err := os.UserHomeDir()
		if err != nil {
			t.Skip("no home directory")
		}

		dir, err := cacheDir()
		if err != nil {
			t.Fatalf("cacheDir() error: %v", err)
		}
		if want := filepath.Join(home, ".cache", "bikebuilder"); dir != want {
			t.Errorf("cacheDir() = %q, want %q", dir, want)
		}
	})
}

func TestFileCacheDirHonorsConfig(t *testing.T) {
	c := New(os.Stderr, LogInfo)
	c.cfg.Cache.Dir = "/srv/bikebuilder/cache"

	dir, err := c.fileCacheDir()
	if err != nil {
		t.Fatalf("fileCacheDir() error: %v", err)
	}
	if dir != "/srv/bikebuilder/cache" {
		t.Errorf("fileCacheDir() = %q, want configured dir", dir)
	}
}

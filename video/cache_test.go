package video

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func testRecord(path string, size int64, modified time.Time) *FeatureRecord {
	return &FeatureRecord{
		Path:             path,
		FileSize:         size,
		LastModified:     modified,
		Duration:         123.5,
		PerceptualHashes: []string{"101", "010"},
		AverageHash:      "1100",
		AudioFingerprint: "deadbeef",
		ColorHistogram:   "0.2500,0.2500,0.2500,0.2500;1.0000,0.0000,0.0000,0.0000;0.0000,0.5000,0.5000,0.0000",
	}
}

func newTestCache(t *testing.T) (*Cache, string) {
	t.Helper()
	dir := t.TempDir()
	file := filepath.Join(dir, "features.json")
	return NewCache(file, zerolog.Nop()), file
}

func TestCacheLookupHit(t *testing.T) {
	cache, _ := newTestCache(t)
	modified := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

	cache.Store(testRecord("/videos/a.mp4", 1000, modified))

	got, ok := cache.Lookup("/videos/a.mp4", 1000, modified)
	if !ok {
		t.Fatal("Lookup() missed after Store()")
	}
	if got.Path != "/videos/a.mp4" || got.Duration != 123.5 {
		t.Errorf("Lookup() returned wrong record: %+v", got)
	}
}

func TestCacheLookupInvalidation(t *testing.T) {
	modified := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

	tests := []struct {
		name     string
		size     int64
		modified time.Time
	}{
		{"Size changed", 2000, modified},
		{"Modification time changed", 1000, modified.Add(time.Minute)},
		{"Both changed", 2000, modified.Add(time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache, _ := newTestCache(t)
			cache.Store(testRecord("/videos/a.mp4", 1000, modified))

			if _, ok := cache.Lookup("/videos/a.mp4", tt.size, tt.modified); ok {
				t.Error("Lookup() hit on a stale entry, expected miss")
			}
		})
	}
}

func TestCacheLookupUnknownPath(t *testing.T) {
	cache, _ := newTestCache(t)
	if _, ok := cache.Lookup("/videos/missing.mp4", 1, time.Now()); ok {
		t.Error("Lookup() hit for a path never stored")
	}
}

func TestCacheRoundTrip(t *testing.T) {
	cache, file := newTestCache(t)
	modified := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rec := testRecord("/videos/a.mp4", 4096, modified)

	cache.Store(rec)
	if err := cache.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reloaded := NewCache(file, zerolog.Nop())
	if err := reloaded.Load("/videos"); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	got, ok := reloaded.Lookup("/videos/a.mp4", 4096, modified)
	if !ok {
		t.Fatal("Lookup() missed after save/load round trip")
	}
	if got.Duration != rec.Duration ||
		got.AverageHash != rec.AverageHash ||
		got.AudioFingerprint != rec.AudioFingerprint ||
		got.ColorHistogram != rec.ColorHistogram {
		t.Errorf("reloaded record differs: got %+v, expected %+v", got, rec)
	}
	if len(got.PerceptualHashes) != len(rec.PerceptualHashes) {
		t.Fatalf("PerceptualHashes length = %d, expected %d", len(got.PerceptualHashes), len(rec.PerceptualHashes))
	}
	for i := range rec.PerceptualHashes {
		if got.PerceptualHashes[i] != rec.PerceptualHashes[i] {
			t.Errorf("PerceptualHashes[%d] = %q, expected %q", i, got.PerceptualHashes[i], rec.PerceptualHashes[i])
		}
	}
	if !got.LastModified.Equal(rec.LastModified) {
		t.Errorf("LastModified = %v, expected %v", got.LastModified, rec.LastModified)
	}
}

func TestCacheLoadScopedToRoot(t *testing.T) {
	cache, file := newTestCache(t)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	cache.Store(testRecord("/videos/movies/a.mp4", 1, now))
	cache.Store(testRecord("/videos/movies/b.mp4", 2, now))
	cache.Store(testRecord("/other/c.mp4", 3, now))
	if err := cache.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	scoped := NewCache(file, zerolog.Nop())
	if err := scoped.Load("/videos/movies"); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if scoped.Len() != 2 {
		t.Errorf("Len() = %d, expected 2 entries under the scan root", scoped.Len())
	}
	if _, ok := scoped.Lookup("/other/c.mp4", 3, now); ok {
		t.Error("Lookup() hit for an entry outside the scan root")
	}
}

func TestCacheLoadCaseInsensitive(t *testing.T) {
	cache, file := newTestCache(t)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	cache.Store(testRecord("/Videos/Movies/a.mp4", 1, now))
	if err := cache.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	scoped := NewCache(file, zerolog.Nop())
	if err := scoped.Load("/videos/movies"); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, ok := scoped.Lookup("/Videos/Movies/a.mp4", 1, now); !ok {
		t.Error("Lookup() missed an entry that differs from the root only by case")
	}
}

func TestCacheSavePreservesOtherRoots(t *testing.T) {
	cache, file := newTestCache(t)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	cache.Store(testRecord("/videos/a.mp4", 1, now))
	cache.Store(testRecord("/other/c.mp4", 3, now))
	if err := cache.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// A later run scoped to /videos must not drop the /other entry.
	scoped := NewCache(file, zerolog.Nop())
	if err := scoped.Load("/videos"); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	scoped.Store(testRecord("/videos/b.mp4", 2, now))
	if err := scoped.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("reading store file: %v", err)
	}
	var all map[string]*FeatureRecord
	if err := json.Unmarshal(data, &all); err != nil {
		t.Fatalf("store file is not valid JSON: %v", err)
	}
	for _, path := range []string{"/videos/a.mp4", "/videos/b.mp4", "/other/c.mp4"} {
		if _, ok := all[path]; !ok {
			t.Errorf("store file lost entry %s after scoped save", path)
		}
	}
}

func TestCacheLoadCorruptFile(t *testing.T) {
	cache, file := newTestCache(t)
	if err := os.WriteFile(file, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := cache.Load("/videos"); err != nil {
		t.Fatalf("Load() on a corrupt store = %v, expected recovery with nil error", err)
	}
	if cache.Len() != 0 {
		t.Errorf("Len() = %d after corrupt load, expected 0", cache.Len())
	}
}

func TestCacheLoadMissingFile(t *testing.T) {
	cache, _ := newTestCache(t)
	if err := cache.Load("/videos"); err != nil {
		t.Fatalf("Load() with no store file = %v, expected nil", err)
	}
	if cache.Len() != 0 {
		t.Errorf("Len() = %d, expected 0", cache.Len())
	}
}

func TestCacheReturnsCopies(t *testing.T) {
	cache, _ := newTestCache(t)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	original := testRecord("/videos/a.mp4", 1, now)

	cache.Store(original)
	original.PerceptualHashes[0] = "mutated"

	got, ok := cache.Lookup("/videos/a.mp4", 1, now)
	if !ok {
		t.Fatal("Lookup() missed")
	}
	if got.PerceptualHashes[0] == "mutated" {
		t.Error("cache shares hash slice with the caller's record")
	}

	got.AverageHash = "mutated"
	again, _ := cache.Lookup("/videos/a.mp4", 1, now)
	if again.AverageHash == "mutated" {
		t.Error("mutating a looked-up record leaked into the cache")
	}
}

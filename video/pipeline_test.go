package video

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func fakeExtractPipeline(extract func(ctx context.Context, path string) (*FeatureRecord, error)) *Pipeline {
	return &Pipeline{
		Workers:   DefaultWorkers,
		Clusterer: NewClusterer(DefaultThreshold),
		Log:       zerolog.Nop(),
		extract:   extract,
	}
}

func TestExtractAllPreservesOrder(t *testing.T) {
	paths := []string{"/v/c.mp4", "/v/a.mp4", "/v/b.mp4"}

	p := fakeExtractPipeline(func(_ context.Context, path string) (*FeatureRecord, error) {
		// Finish in reverse of submission to prove order comes from the
		// input, not from completion.
		if strings.HasSuffix(path, "c.mp4") {
			time.Sleep(30 * time.Millisecond)
		}
		return &FeatureRecord{Path: path}, nil
	})

	records, err := p.ExtractAll(context.Background(), paths, nil)
	if err != nil {
		t.Fatalf("ExtractAll() error = %v", err)
	}
	if len(records) != len(paths) {
		t.Fatalf("ExtractAll() returned %d records, expected %d", len(records), len(paths))
	}
	for i, rec := range records {
		if rec.Path != paths[i] {
			t.Errorf("records[%d].Path = %s, expected %s", i, rec.Path, paths[i])
		}
	}
}

func TestExtractAllFailureIsolation(t *testing.T) {
	paths := []string{"/v/good1.mp4", "/v/broken.mp4", "/v/good2.mp4"}

	p := fakeExtractPipeline(func(_ context.Context, path string) (*FeatureRecord, error) {
		if strings.Contains(path, "broken") {
			return nil, errors.New("decoder exploded")
		}
		return &FeatureRecord{Path: path}, nil
	})

	records, err := p.ExtractAll(context.Background(), paths, nil)
	if err != nil {
		t.Fatalf("ExtractAll() error = %v, expected per-file failures to be absorbed", err)
	}
	if len(records) != 2 {
		t.Fatalf("ExtractAll() returned %d records, expected 2", len(records))
	}
	for _, rec := range records {
		if strings.Contains(rec.Path, "broken") {
			t.Errorf("failed file %s leaked into the results", rec.Path)
		}
	}
}

func TestExtractAllProgress(t *testing.T) {
	paths := make([]string, 7)
	for i := range paths {
		paths[i] = "/v/file.mp4"
	}

	p := fakeExtractPipeline(func(_ context.Context, path string) (*FeatureRecord, error) {
		return &FeatureRecord{Path: path}, nil
	})

	var mu sync.Mutex
	var seen []int
	_, err := p.ExtractAll(context.Background(), paths, func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		if total != len(paths) {
			t.Errorf("progress total = %d, expected %d", total, len(paths))
		}
		seen = append(seen, done)
	})
	if err != nil {
		t.Fatalf("ExtractAll() error = %v", err)
	}

	if len(seen) != len(paths) {
		t.Fatalf("progress called %d times, expected %d", len(seen), len(paths))
	}
	max := 0
	for _, d := range seen {
		if d > max {
			max = d
		}
	}
	if max != len(paths) {
		t.Errorf("final progress count = %d, expected %d", max, len(paths))
	}
}

func TestExtractAllBoundedConcurrency(t *testing.T) {
	paths := make([]string, 20)
	for i := range paths {
		paths[i] = "/v/file.mp4"
	}

	var active, peak atomic.Int64
	p := fakeExtractPipeline(func(_ context.Context, path string) (*FeatureRecord, error) {
		n := active.Add(1)
		defer active.Add(-1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		return &FeatureRecord{Path: path}, nil
	})
	p.Workers = 3

	if _, err := p.ExtractAll(context.Background(), paths, nil); err != nil {
		t.Fatalf("ExtractAll() error = %v", err)
	}
	if got := peak.Load(); got > 3 {
		t.Errorf("observed %d concurrent extractions, limit is 3", got)
	}
}

func TestExtractAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := fakeExtractPipeline(func(ctx context.Context, path string) (*FeatureRecord, error) {
		return nil, ctx.Err()
	})

	_, err := p.ExtractAll(ctx, []string{"/v/a.mp4", "/v/b.mp4"}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ExtractAll() error = %v, expected context.Canceled", err)
	}
}

func TestDetectDuplicatesEndToEnd(t *testing.T) {
	records := map[string]*FeatureRecord{
		"/v/a.mp4": fullRecord("/v/a.mp4", "1", 100, "ffff"),
		"/v/b.mp4": fullRecord("/v/b.mp4", "1", 101, "ffff"),
		"/v/c.mp4": fullRecord("/v/c.mp4", "0", 100, "0000"),
	}

	p := fakeExtractPipeline(func(_ context.Context, path string) (*FeatureRecord, error) {
		return records[path], nil
	})

	groups, err := p.DetectDuplicates(context.Background(), []string{"/v/a.mp4", "/v/b.mp4", "/v/c.mp4"}, nil)
	if err != nil {
		t.Fatalf("DetectDuplicates() error = %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("DetectDuplicates() returned %d groups, expected 1: %v", len(groups), groups)
	}
	want := []string{"/v/a.mp4", "/v/b.mp4"}
	if len(groups[0].Paths) != 2 || groups[0].Paths[0] != want[0] || groups[0].Paths[1] != want[1] {
		t.Errorf("group = %v, expected %v", groups[0].Paths, want)
	}
}

func TestExtractAllZeroWorkersUsesDefault(t *testing.T) {
	p := fakeExtractPipeline(func(_ context.Context, path string) (*FeatureRecord, error) {
		return &FeatureRecord{Path: path}, nil
	})
	p.Workers = 0

	records, err := p.ExtractAll(context.Background(), []string{"/v/a.mp4"}, nil)
	if err != nil || len(records) != 1 {
		t.Errorf("ExtractAll() = %v, %v; expected one record and nil error", records, err)
	}
}

package video

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// DefaultWorkers bounds the number of files extracted at once, and with it
// the number of live decoder subprocesses.
const DefaultWorkers = 10

// ProgressFunc reports extraction progress. Completion order is whatever
// decoder latency produces, so done is a running count, not an index.
type ProgressFunc func(done, total int)

// Pipeline runs bounded-parallel feature extraction over many files and
// clusters the results into duplicate groups. Per-file failures are
// isolated: a file whose extraction fails is logged and omitted from the
// candidate set, never failing the batch.
type Pipeline struct {
	Workers   int
	Clusterer *Clusterer
	Log       zerolog.Logger

	// extract is injectable for tests; nil means Extractor.ExtractFeatures.
	extract func(ctx context.Context, path string) (*FeatureRecord, error)
}

// NewPipeline wires a pipeline around the given extractor with default
// worker count and threshold.
func NewPipeline(extractor *Extractor, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		Workers:   DefaultWorkers,
		Clusterer: NewClusterer(DefaultThreshold),
		Log:       log.With().Str("component", "pipeline").Logger(),
		extract:   extractor.ExtractFeatures,
	}
}

// ExtractAll extracts features for every path with bounded parallelism.
// The returned slice preserves input order and contains only files whose
// extraction produced a usable record. The error is non-nil only when the
// whole run was cancelled; records finished before cancellation are still
// returned (and remain cached).
func (p *Pipeline) ExtractAll(ctx context.Context, paths []string, progress ProgressFunc) ([]*FeatureRecord, error) {
	workers := p.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	results := make([]*FeatureRecord, len(paths))
	sem := semaphore.NewWeighted(int64(workers))
	var completed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)

			rec, err := p.extract(gctx, path)
			if err != nil {
				p.Log.Warn().Err(err).Str("file", path).Msg("feature extraction failed, skipping file")
			} else {
				results[i] = rec
			}

			done := int(completed.Add(1))
			if progress != nil {
				progress(done, len(paths))
			}
			return nil
		})
	}

	err := g.Wait()

	records := make([]*FeatureRecord, 0, len(paths))
	for _, rec := range results {
		if rec != nil {
			records = append(records, rec)
		}
	}

	if err == nil {
		err = ctx.Err()
	}
	return records, err
}

// DetectDuplicates extracts features for every path and groups the usable
// records into duplicate sets.
func (p *Pipeline) DetectDuplicates(ctx context.Context, paths []string, progress ProgressFunc) ([]DuplicateGroup, error) {
	records, err := p.ExtractAll(ctx, paths, progress)
	if err != nil {
		return nil, err
	}
	groups := p.Clusterer.Cluster(records)
	p.Log.Info().
		Int("files", len(paths)).
		Int("records", len(records)).
		Int("groups", len(groups)).
		Msg("duplicate detection finished")
	return groups, nil
}

package video

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Default extraction tunables. The probe timeout mirrors the metadata
// query budget; frame and audio extraction get their own caps so a hung
// decoder cannot pin a worker slot forever.
const (
	DefaultFrameCount     = 5
	DefaultProbeTimeout   = 3 * time.Second
	DefaultExtractTimeout = 30 * time.Second
	DefaultAudioTimeout   = 2 * time.Minute
	DefaultAudioSeconds   = 60
)

// Extractor turns one video file into a FeatureRecord by driving the
// external decoder: probe, frame sampling, hashing, color histograms and
// the audio digest. All steps for one file run sequentially; the pipeline
// provides cross-file parallelism.
type Extractor struct {
	FFmpegPath     string
	FFprobePath    string
	FrameCount     int
	ProbeTimeout   time.Duration
	ExtractTimeout time.Duration
	AudioTimeout   time.Duration
	AudioSeconds   int
	Cache          *Cache
	Log            zerolog.Logger
}

// NewExtractor returns an extractor with default tunables. cache may be
// nil to disable read-through caching.
func NewExtractor(cache *Cache, log zerolog.Logger) *Extractor {
	return &Extractor{
		FFmpegPath:     "ffmpeg",
		FFprobePath:    "ffprobe",
		FrameCount:     DefaultFrameCount,
		ProbeTimeout:   DefaultProbeTimeout,
		ExtractTimeout: DefaultExtractTimeout,
		AudioTimeout:   DefaultAudioTimeout,
		AudioSeconds:   DefaultAudioSeconds,
		Cache:          cache,
		Log:            log.With().Str("component", "extractor").Logger(),
	}
}

// ExtractFeatures returns the feature record for a video file, reading
// through the cache when the on-disk (size, mtime) pair still matches.
// A failed probe aborts extraction for the file; failed frame or audio
// channels leave their fields empty and the record is still usable.
func (e *Extractor) ExtractFeatures(ctx context.Context, videoFile string) (*FeatureRecord, error) {
	fi, err := os.Stat(videoFile)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", videoFile, err)
	}

	if e.Cache != nil {
		if rec, ok := e.Cache.Lookup(videoFile, fi.Size(), fi.ModTime()); ok {
			e.Log.Debug().Str("file", videoFile).Msg("cache hit")
			return rec, nil
		}
	}

	duration, err := e.ProbeDuration(ctx, videoFile)
	if err != nil {
		return nil, err
	}

	rec := &FeatureRecord{
		Path:         videoFile,
		FileSize:     fi.Size(),
		LastModified: fi.ModTime(),
		Duration:     duration,
	}

	frames := e.sampleFrames(ctx, videoFile, duration)
	histograms := make([]string, 0, len(frames))
	for _, frame := range frames {
		rec.PerceptualHashes = append(rec.PerceptualHashes, PerceptualHash(frame.image))
		histograms = append(histograms, FrameHistogram(frame.image))
		if frame.midpoint {
			ahash, err := AverageHash(frame.image)
			if err != nil {
				e.Log.Debug().Err(err).Str("file", videoFile).Msg("average hash failed")
			} else {
				rec.AverageHash = ahash
			}
		}
	}
	rec.ColorHistogram = joinFrameHistograms(histograms)
	rec.AudioFingerprint = e.AudioFingerprint(ctx, videoFile)

	if e.Cache != nil {
		e.Cache.Store(rec)
	}
	return rec, nil
}

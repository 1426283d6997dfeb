package video

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"os"
	"os/exec"
	"path/filepath"
)

// SamplePoints computes the timestamps (in seconds) at which frames are
// sampled: evenly spaced at duration*(i+1)/(n+1), excluding the very start
// and end. Videos shorter than the requested frame count fall back to one
// sample per whole second, and degenerate inputs to a single midpoint
// sample. Changing this policy invalidates every cached perceptual hash.
func SamplePoints(duration float64, frameCount int) []float64 {
	if frameCount <= 0 {
		frameCount = 1
	}

	var points []float64
	if duration < float64(frameCount) {
		for i := 0; i < int(duration); i++ {
			points = append(points, float64(i)+0.5)
		}
	} else {
		for i := 0; i < frameCount; i++ {
			points = append(points, duration*float64(i+1)/float64(frameCount+1))
		}
	}

	if len(points) == 0 {
		points = append(points, duration/2)
	}
	return points
}

// extractFrame seeks to the given offset and decodes a single still frame.
// The scratch JPEG is removed on every exit path.
func (e *Extractor) extractFrame(ctx context.Context, videoFile string, offset float64) (image.Image, error) {
	scratch, err := os.CreateTemp("", "videodedup_frame_*.jpg")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch frame file: %w", err)
	}
	scratchPath := scratch.Name()
	_ = scratch.Close()
	defer func() {
		if err := os.Remove(scratchPath); err != nil && !os.IsNotExist(err) {
			e.Log.Warn().Err(err).Str("file", scratchPath).Msg("failed to delete scratch frame")
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, e.ExtractTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.FFmpegPath,
		"-ss", fmt.Sprintf("%.3f", offset),
		"-i", videoFile,
		"-vframes", "1",
		"-f", "image2",
		"-y", scratchPath)
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to extract frame at %.1fs: %w", offset, err)
	}

	fi, err := os.Stat(scratchPath)
	if err != nil || fi.Size() == 0 {
		return nil, fmt.Errorf("decoder produced no output for frame at %.1fs", offset)
	}

	f, err := os.Open(scratchPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open extracted frame: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame %s: %w", filepath.Base(scratchPath), err)
	}
	return img, nil
}

// sampleFrames extracts one still frame per sample point. A failed or
// empty extraction is skipped, not fatal: the corresponding index is
// simply absent from the result.
func (e *Extractor) sampleFrames(ctx context.Context, videoFile string, duration float64) []sampledFrame {
	points := SamplePoints(duration, e.FrameCount)
	frames := make([]sampledFrame, 0, len(points))
	for i, offset := range points {
		img, err := e.extractFrame(ctx, videoFile, offset)
		if err != nil {
			e.Log.Debug().Err(err).Str("file", videoFile).Float64("offset", offset).
				Msg("skipping frame")
			continue
		}
		frames = append(frames, sampledFrame{index: i, midpoint: i == len(points)/2, image: img})
	}
	return frames
}

// sampledFrame pairs a decoded frame with its position in sample order.
// The midpoint frame doubles as the representative for the average hash.
type sampledFrame struct {
	index    int
	midpoint bool
	image    image.Image
}

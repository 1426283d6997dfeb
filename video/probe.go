package video

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrProbeTimeout marks a metadata probe that was cancelled because the
// decoder did not answer in time. It is a recoverable per-file failure.
var ErrProbeTimeout = errors.New("metadata probe timed out")

// ProbeDuration queries the container duration in seconds using ffprobe.
// The probe races against the extractor's probe timeout; on timeout the
// subprocess is killed and ErrProbeTimeout is returned.
func (e *Extractor) ProbeDuration(ctx context.Context, videoFile string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, e.ProbeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.FFprobePath, "-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1", "--", videoFile)
	output, err := cmd.Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return 0, fmt.Errorf("%w: %s", ErrProbeTimeout, videoFile)
		}
		return 0, fmt.Errorf("failed to probe duration: %w", err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}
	if duration <= 0 {
		return 0, fmt.Errorf("invalid duration %f for %s", duration, videoFile)
	}

	return duration, nil
}

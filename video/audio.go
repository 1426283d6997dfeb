package video

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
)

// AudioFingerprint extracts a bounded prefix of the audio track as
// normalized PCM (mono, 44.1 kHz, 16-bit) and digests it with SHA-256.
// This is an exact-match content digest, not an acoustic fingerprint:
// differently transcoded audio will not match, and the scorer treats a
// mismatch as "no signal". Returns "" on any failure.
func (e *Extractor) AudioFingerprint(ctx context.Context, videoFile string) string {
	scratch, err := os.CreateTemp("", "videodedup_audio_*.wav")
	if err != nil {
		e.Log.Warn().Err(err).Msg("failed to create scratch audio file")
		return ""
	}
	scratchPath := scratch.Name()
	_ = scratch.Close()
	defer func() {
		if err := os.Remove(scratchPath); err != nil && !os.IsNotExist(err) {
			e.Log.Warn().Err(err).Str("file", scratchPath).Msg("failed to delete scratch audio")
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, e.AudioTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.FFmpegPath,
		"-i", videoFile,
		"-ss", "0",
		"-t", fmt.Sprintf("%d", e.AudioSeconds),
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "44100",
		"-ac", "1",
		"-y", scratchPath)
	if err := cmd.Run(); err != nil {
		e.Log.Debug().Err(err).Str("file", videoFile).Msg("audio extraction failed")
		return ""
	}

	pcm, err := os.ReadFile(scratchPath)
	if err != nil || len(pcm) == 0 {
		e.Log.Debug().Str("file", videoFile).Msg("decoder produced no audio output")
		return ""
	}

	digest := sha256.Sum256(pcm)
	return hex.EncodeToString(digest[:])
}

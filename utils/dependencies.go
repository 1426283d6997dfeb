package utils

import (
	"fmt"
	"os/exec"
	"runtime"
)

// ValidateFFmpegDependencies checks that the configured ffmpeg and ffprobe
// binaries can be resolved before any extraction work starts.
func ValidateFFmpegDependencies(ffmpegPath, ffprobePath string) error {
	if _, err := exec.LookPath(ffprobePath); err != nil {
		return fmt.Errorf("ffprobe not found (%s). %s", ffprobePath, installationInstructions())
	}
	if _, err := exec.LookPath(ffmpegPath); err != nil {
		return fmt.Errorf("ffmpeg not found (%s). %s", ffmpegPath, installationInstructions())
	}
	return nil
}

// installationInstructions returns platform-specific installation instructions
func installationInstructions() string {
	switch runtime.GOOS {
	case "darwin":
		return "Install with: brew install ffmpeg"
	case "linux":
		return "Install with: apt-get install ffmpeg (Ubuntu/Debian) or yum install ffmpeg (CentOS/RHEL)"
	case "windows":
		return "Download from https://ffmpeg.org/download.html and add to PATH"
	default:
		return "Download from https://ffmpeg.org/download.html"
	}
}

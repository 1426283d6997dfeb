package video

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// FindVideoFiles scans a directory tree for video files to feed into the
// detection pipeline.
func FindVideoFiles(directory string) ([]string, error) {
	// Use fd if available for better performance, otherwise fall back to filepath.WalkDir
	if isFdAvailable() {
		files, err := findVideoFilesWithFd(directory)
		if err == nil {
			return files, nil
		}
		// fd failed, fall back to the standard method
	}
	return findVideoFilesWithWalkDir(directory)
}

// isFdAvailable checks if the 'fd' command is available in PATH
func isFdAvailable() bool {
	_, err := exec.LookPath("fd")
	return err == nil
}

func findVideoFilesWithWalkDir(directory string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(directory, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if IsVideoFile(path) {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

func findVideoFilesWithFd(directory string) ([]string, error) {
	exts := make([]string, 0, len(videoExtensions))
	for _, e := range videoExtensions {
		exts = append(exts, "\\"+e)
	}
	extPattern := strings.Join(exts, "|") + "$"

	cmd := exec.Command("fd", extPattern, "--type", "f", "--case-sensitive", "false", directory)
	output, err := cmd.Output()
	if err != nil {
		return nil, err
	}

	var files []string
	for _, line := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		if line != "" && IsVideoFile(line) {
			files = append(files, line)
		}
	}

	return files, nil
}

package video

import (
	"path/filepath"
	"strings"
)

var videoExtensions = []string{".mp4", ".webm", ".mov", ".flv", ".mkv", ".avi", ".wmv", ".mpg", ".m4v", ".ts"}

// IsVideoFile checks if the given file extension is one of known video file extensions
func IsVideoFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, v := range videoExtensions {
		if v == ext {
			return true
		}
	}
	return false
}

// file_io.go - Music image loading.

package main

import (
	"os"
	"path/filepath"
	"strings"
)

// isMusicExtension reports whether the path looks like a supported image.
func isMusicExtension(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".vgm", ".vgz", ".nsf":
		return true
	default:
		return false
	}
}

// loadMusicData reads an image from disk. Gzip'd VGZ images are inflated
// later by the open path, so the bytes come back raw.
func loadMusicData(path string) ([]byte, error) {
	return os.ReadFile(path)
}

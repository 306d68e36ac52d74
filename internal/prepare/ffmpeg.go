package prepare

import (
	"os"
	"os/exec"
	"path/filepath"
)

// wellKnownFFmpegPaths are the locations the deployment platforms put
// ffmpeg in, checked before falling back to PATH resolution. The nix
// entry is a glob because store paths carry a hash.
var wellKnownFFmpegPaths = []string{
	"/usr/bin/ffmpeg",
	"/usr/local/bin/ffmpeg",
	"/nix/store/*/bin/ffmpeg",
}

// LocateFFmpeg returns an absolute path to ffmpeg, or "" when none of
// the well-known locations nor the search path resolve it.
func LocateFFmpeg() string {
	for _, candidate := range wellKnownFFmpegPaths {
		if containsGlob(candidate) {
			matches, err := filepath.Glob(candidate)
			if err == nil && len(matches) > 0 {
				return matches[0]
			}
			continue
		}
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	if path, err := exec.LookPath("ffmpeg"); err == nil {
		return path
	}
	return ""
}

func containsGlob(pattern string) bool {
	for _, r := range pattern {
		if r == '*' || r == '?' || r == '[' {
			return true
		}
	}
	return false
}

package prepare

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsGlob(t *testing.T) {
	assert.True(t, containsGlob("/nix/store/*/bin/ffmpeg"))
	assert.True(t, containsGlob("/opt/ffmpeg-?/bin/ffmpeg"))
	assert.False(t, containsGlob("/usr/bin/ffmpeg"))
}

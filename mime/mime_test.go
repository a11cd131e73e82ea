package mime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromExtension(t *testing.T) {
	t.Parallel()

	require.Equal(t, "audio/ogg", FromExtension("opus"))
	require.Equal(t, "audio/ogg", FromExtension(".OGG"))
	require.Equal(t, "audio/ogg", FromExtension("oga"))
	require.Equal(t, "image/jpeg", FromExtension(".jpeg"))
	require.Equal(t, "", FromExtension("mp3"))
}

func TestToExtension(t *testing.T) {
	t.Parallel()

	require.Equal(t, "jpg", ToExtension("image/jpeg"))
	require.Equal(t, "png", ToExtension("IMAGE/PNG"))
	require.Equal(t, "", ToExtension("-->"))
}

func TestIsAudio(t *testing.T) {
	t.Parallel()

	require.True(t, IsAudio(".opus"))
	require.False(t, IsAudio(".png"))
	require.False(t, IsAudio(""))
}

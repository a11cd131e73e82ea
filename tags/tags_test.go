package tags_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.senan.xyz/omio/picture"
	"go.senan.xyz/omio/tags"
)

type stubInfo struct {
	tags.Info
	artist, albumArtist, album, genre string
	artists, genres                   []string
}

func (s stubInfo) Artist() string         { return s.artist }
func (s stubInfo) Artists() []string      { return s.artists }
func (s stubInfo) AlbumArtist() string    { return s.albumArtist }
func (s stubInfo) AlbumArtists() []string { return nil }
func (s stubInfo) Album() string          { return s.album }
func (s stubInfo) Genre() string          { return s.genre }
func (s stubInfo) Genres() []string       { return s.genres }

func TestMustFallbacks(t *testing.T) {
	t.Parallel()

	var empty stubInfo
	assert.Equal(t, tags.FallbackAlbum, tags.MustAlbum(empty))
	assert.Equal(t, tags.FallbackArtist, tags.MustArtist(empty))
	assert.Equal(t, []string{tags.FallbackArtist}, tags.MustArtists(empty))
	assert.Equal(t, tags.FallbackArtist, tags.MustAlbumArtist(empty))
	assert.Equal(t, []string{tags.FallbackArtist}, tags.MustAlbumArtists(empty))
	assert.Equal(t, tags.FallbackGenre, tags.MustGenre(empty))
	assert.Equal(t, []string{tags.FallbackGenre}, tags.MustGenres(empty))

	full := stubInfo{artist: "a", artists: []string{"a", "b"}, album: "al", genre: "g", genres: []string{"g", "h"}}
	assert.Equal(t, "al", tags.MustAlbum(full))
	assert.Equal(t, []string{"a", "b"}, tags.MustArtists(full))
	assert.Equal(t, "a", tags.MustAlbumArtist(full))
	assert.Equal(t, []string{"a"}, tags.MustAlbumArtists(full))
	assert.Equal(t, []string{"g", "h"}, tags.MustGenres(full))

	withAlbumArtist := stubInfo{artist: "a", albumArtist: "aa"}
	assert.Equal(t, "aa", tags.MustAlbumArtist(withAlbumArtist))
	assert.Equal(t, []string{"aa"}, tags.MustAlbumArtists(withAlbumArtist))
}

type stubReader struct {
	ext  string
	info tags.Info
}

func (s stubReader) CanRead(absPath string) bool     { return strings.HasSuffix(absPath, s.ext) }
func (s stubReader) Read(string) (tags.Info, error) { return s.info, nil }

type namedInfo struct {
	tags.Info
	name string
}

func (n namedInfo) Title() string                   { return n.name }
func (n namedInfo) Length() time.Duration           { return 0 }
func (n namedInfo) EmbeddedCover() *picture.Picture { return nil }

func TestChainReader(t *testing.T) {
	t.Parallel()

	chain := tags.ChainReader{
		stubReader{ext: ".opus", info: namedInfo{name: "opus"}},
		stubReader{ext: ".ogg", info: namedInfo{name: "ogg"}},
	}

	assert.True(t, chain.CanRead("/a.opus"))
	assert.True(t, chain.CanRead("/a.ogg"))
	assert.False(t, chain.CanRead("/a.flac"))

	info, err := chain.Read("/a.ogg")
	require.NoError(t, err)
	assert.Equal(t, "ogg", info.Title())

	_, err = chain.Read("/a.flac")
	require.ErrorIs(t, err, tags.ErrUnsupported)
}

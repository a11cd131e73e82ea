package oggopus_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.senan.xyz/omio/mockfs"
	"go.senan.xyz/omio/opus"
	"go.senan.xyz/omio/picture"
	"go.senan.xyz/omio/tags"
	"go.senan.xyz/omio/tags/oggopus"
)

func withDuration() opus.Options {
	opts := opus.DefaultOptions()
	opts.ReadDuration = true
	return opts
}

func TestCanRead(t *testing.T) {
	t.Parallel()

	r := oggopus.New(opus.DefaultOptions())
	assert.True(t, r.CanRead("/music/a.opus"))
	assert.True(t, r.CanRead("/music/a.OGG"))
	assert.True(t, r.CanRead("/music/a.oga"))
	assert.False(t, r.CanRead("/music/a.flac"))
	assert.False(t, r.CanRead("/music/cover.jpg"))
}

func TestRead(t *testing.T) {
	t.Parallel()

	m := mockfs.New(t)
	path := m.AddTrack("artist/album/01.opus",
		"TITLE=Track One",
		"ARTIST=Artist",
		"ARTISTS=Artist",
		"ARTISTS=Guest",
		"ALBUM=Album",
		"ALBUMARTIST=Album Artist",
		"GENRE=Rock",
		"GENRE=Pop",
		"TRACKNUMBER=5/12",
		"DISCNUMBER=1/2",
		"DATE=2023-12-01",
		"MUSICBRAINZ_TRACKID=rec-id",
		"MUSICBRAINZ_ALBUMID=rel-id",
		"LYRICS=la la",
		"COMMENT=nice",
		"REPLAYGAIN_TRACK_GAIN=-6.5 dB",
		"REPLAYGAIN_TRACK_PEAK=0.98",
	)

	info, err := oggopus.New(withDuration()).Read(path)
	require.NoError(t, err)

	assert.Equal(t, "Track One", info.Title())
	assert.Equal(t, "Artist", info.Artist())
	assert.Equal(t, []string{"Artist", "Guest"}, info.Artists())
	assert.Equal(t, "Album", info.Album())
	assert.Equal(t, "Album Artist", info.AlbumArtist())
	assert.Equal(t, "Rock", info.Genre())
	assert.Equal(t, []string{"Rock", "Pop"}, info.Genres())
	assert.Equal(t, 5, info.TrackNumber())
	assert.Equal(t, 1, info.DiscNumber())
	assert.Equal(t, 2023, info.Year())
	assert.Equal(t, "rec-id", info.BrainzID())
	assert.Equal(t, "rel-id", info.AlbumBrainzID())
	assert.Equal(t, "la la", info.Lyrics())
	assert.Equal(t, "nice", info.Comment())
	assert.InDelta(t, -6.5, info.ReplayGainTrackGain(), 0.001)
	assert.InDelta(t, 0.98, info.ReplayGainTrackPeak(), 0.001)
	assert.Equal(t, "mockfs", info.Vendor())
	assert.Equal(t, []string{"Track One"}, info.Raw()["title"])
	assert.Equal(t, 1013*time.Millisecond, info.Length())
	assert.Positive(t, info.Bitrate())
	assert.Nil(t, info.EmbeddedCover())

	assert.Equal(t, []string{"Album Artist"}, tags.MustAlbumArtists(info))
}

func TestReadWithoutDuration(t *testing.T) {
	t.Parallel()

	m := mockfs.New(t)
	path := m.AddTrack("a.opus", "TITLE=x")

	info, err := oggopus.New(opus.DefaultOptions()).Read(path)
	require.NoError(t, err)
	assert.Zero(t, info.Length())
	assert.Zero(t, info.Bitrate())
}

func TestReadFallbacks(t *testing.T) {
	t.Parallel()

	m := mockfs.New(t)
	path := m.AddTrack("a.opus",
		"album artist=Spaced",
		"YEAR=1999",
		"TITLE=   ",
		"R128_TRACK_GAIN=-512",
		"UNSYNCEDLYRICS=unsynced",
		"DESCRIPTION=desc",
	)

	info, err := oggopus.New(opus.DefaultOptions()).Read(path)
	require.NoError(t, err)

	assert.Equal(t, "Spaced", info.AlbumArtist())
	assert.Equal(t, 1999, info.Year())
	assert.Empty(t, info.Title())
	assert.Equal(t, tags.FallbackArtist, tags.MustArtist(info))
	assert.InDelta(t, 3.0, info.ReplayGainTrackGain(), 0.001) // -2 dB R128 + 5
	assert.Zero(t, info.ReplayGainAlbumGain())
	assert.Equal(t, "unsynced", info.Lyrics())
	assert.Equal(t, "desc", info.Comment())
}

func TestReadEmbeddedCover(t *testing.T) {
	t.Parallel()

	m := mockfs.New(t)
	path := m.AddTrack("a.opus",
		mockfs.PictureComment(mockfs.Picture{Type: picture.TypeOther, MIMEType: "image/png", Data: []byte("other")}),
		mockfs.PictureComment(mockfs.Picture{Type: picture.TypeFrontCover, MIMEType: picture.MIMETypeURI, Data: []byte("http://x")}),
		mockfs.PictureComment(mockfs.Picture{Type: picture.TypeFrontCover, MIMEType: "image/jpeg", Data: []byte("front")}),
		"METADATA_BLOCK_PICTURE=not base64",
	)

	info, err := oggopus.New(opus.DefaultOptions()).Read(path)
	require.NoError(t, err)

	cover := info.EmbeddedCover()
	require.NotNil(t, cover)
	assert.Equal(t, "image/jpeg", cover.MIMEType)
	assert.Equal(t, []byte("front"), cover.Data)
}

func TestReadEmbeddedCoverFallback(t *testing.T) {
	t.Parallel()

	m := mockfs.New(t)
	path := m.AddTrack("a.opus",
		mockfs.PictureComment(mockfs.Picture{Type: picture.TypeBackCover, MIMEType: "image/png", Data: []byte("back")}),
	)

	info, err := oggopus.New(opus.DefaultOptions()).Read(path)
	require.NoError(t, err)

	cover := info.EmbeddedCover()
	require.NotNil(t, cover)
	assert.Equal(t, []byte("back"), cover.Data)
}

func TestReadErrors(t *testing.T) {
	t.Parallel()

	m := mockfs.New(t)
	_, err := oggopus.New(opus.DefaultOptions()).Read(m.TmpDir() + "/missing.opus")
	require.Error(t, err)

	path := m.AddFile("bad.opus", []byte("definitely not ogg"))
	_, err = oggopus.New(opus.DefaultOptions()).Read(path)
	var opusErr *opus.Error
	require.ErrorAs(t, err, &opusErr)
}

func TestReadMetadata(t *testing.T) {
	t.Parallel()

	m := mockfs.New(t)
	path := m.AddTrack("a.opus", "TITLE=x")

	info, err := oggopus.New(opus.DefaultOptions()).Read(path)
	require.NoError(t, err)

	metadataer, ok := info.(interface{ Metadata() *opus.Metadata })
	require.True(t, ok)
	meta := metadataer.Metadata()
	assert.Equal(t, uint32(1), meta.SerialNumber)
	assert.Equal(t, uint8(2), meta.Header.Channels)
	assert.Equal(t, uint16(312), meta.Header.PreSkip)
	assert.Nil(t, meta.Duration)
}

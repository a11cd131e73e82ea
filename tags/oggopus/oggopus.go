package oggopus

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.senan.xyz/omio/mime"
	"go.senan.xyz/omio/opus"
	"go.senan.xyz/omio/picture"
	"go.senan.xyz/omio/tags"
)

var _ tags.Reader = Reader{}

type Reader struct {
	Options opus.Options
}

func New(opts opus.Options) Reader {
	return Reader{Options: opts}
}

func (Reader) CanRead(absPath string) bool {
	return mime.FromExtension(filepath.Ext(absPath)) == "audio/ogg"
}

func (r Reader) Read(absPath string) (tags.Info, error) {
	f, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()
	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat: %w", err)
	}
	meta, err := opus.ReadMetadata(bufio.NewReader(f), r.Options)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return &info{meta, stat.Size()}, nil
}

type info struct {
	meta *opus.Metadata
	size int64
}

// https://picard-docs.musicbrainz.org/downloads/MusicBrainz_Picard_Tag_Map.html

func (i *info) Title() string          { return first(i.find(opus.KeyTitle)) }
func (i *info) BrainzID() string       { return first(i.find("musicbrainz_trackid")) } // musicbrainz recording ID
func (i *info) Artist() string         { return first(i.find(opus.KeyArtist)) }
func (i *info) Artists() []string      { return i.find("artists") }
func (i *info) Album() string          { return first(i.find(opus.KeyAlbum)) }
func (i *info) AlbumArtist() string    { return first(i.find(opus.KeyAlbumArtist, "album artist", "album_artist")) }
func (i *info) AlbumArtists() []string { return i.find("albumartists", "album_artists") }
func (i *info) AlbumBrainzID() string  { return first(i.find("musicbrainz_albumid")) } // musicbrainz release ID
func (i *info) Genre() string          { return first(i.find(opus.KeyGenre)) }
func (i *info) Genres() []string       { return i.find("genres", opus.KeyGenre) }
func (i *info) TrackNumber() int       { return intSep("/", first(i.find(opus.KeyTrackNumber))) }                      // eg. 5/12
func (i *info) DiscNumber() int        { return intSep("/", first(i.find(opus.KeyDiscNumber))) }                       // eg. 1/2
func (i *info) Year() int              { return intSep("-", first(i.find("originaldate", opus.KeyDate, "year"))) } // eg. 2023-12-01
func (i *info) Lyrics() string         { return first(i.find(opus.LyricsKeys...)) }
func (i *info) Comment() string        { return first(i.find(opus.CommentKeys...)) }

// Opus prefers R128 gains, Q7.8 dB relative to -23 LUFS. ReplayGain is
// relative to -18 LUFS, so they are 5 dB apart.
// https://www.rfc-editor.org/rfc/rfc7845#section-5.2.1

func (i *info) ReplayGainTrackGain() float32 {
	return gain(first(i.find("replaygain_track_gain")), first(i.find("r128_track_gain")))
}
func (i *info) ReplayGainTrackPeak() float32 { return flt(first(i.find("replaygain_track_peak"))) }
func (i *info) ReplayGainAlbumGain() float32 {
	return gain(first(i.find("replaygain_album_gain")), first(i.find("r128_album_gain")))
}
func (i *info) ReplayGainAlbumPeak() float32 { return flt(first(i.find("replaygain_album_peak"))) }

// Metadata is the underlying stream metadata.
func (i *info) Metadata() *opus.Metadata { return i.meta }

func (i *info) Vendor() string           { return i.meta.Vendor }
func (i *info) Raw() map[string][]string { return i.meta.Comments }

func (i *info) Length() time.Duration {
	if i.meta.Duration == nil {
		return 0
	}
	return *i.meta.Duration
}

func (i *info) Bitrate() int {
	secs := i.Length().Seconds()
	if secs <= 0 {
		return 0
	}
	return int(float64(i.size*8) / secs / 1000)
}

// EmbeddedCover prefers the front cover, then the first picture with image
// data.
func (i *info) EmbeddedCover() *picture.Picture {
	var fallback *picture.Picture
	for _, p := range i.meta.Pictures() {
		if p.IsURI() {
			continue
		}
		if p.Type == picture.TypeFrontCover {
			return p
		}
		if fallback == nil {
			fallback = p
		}
	}
	return fallback
}

func (i *info) find(keys ...string) []string {
	for _, k := range keys {
		if r := filterStr(i.meta.Values(k)); len(r) > 0 {
			return r
		}
	}
	return nil
}

func first[T comparable](is []T) T {
	var z T
	for _, i := range is {
		if i != z {
			return i
		}
	}
	return z
}

func filterStr(ss []string) []string {
	var r []string
	for _, s := range ss {
		if strings.TrimSpace(s) != "" {
			r = append(r, s)
		}
	}
	return r
}

func flt(in string) float32 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(in), 32)
	return float32(f)
}

func dB(in string) float32 {
	in = strings.ToLower(in)
	in = strings.TrimSuffix(in, " db")
	in = strings.TrimSuffix(in, "db")
	return flt(in)
}

func gain(replayGain, r128 string) float32 {
	if replayGain != "" {
		return dB(replayGain)
	}
	q78, err := strconv.ParseInt(strings.TrimSpace(r128), 10, 16)
	if err != nil {
		return 0
	}
	return float32(q78)/256 + 5
}

func intSep(sep, in string) int {
	start, _, _ := strings.Cut(in, sep)
	out, _ := strconv.Atoi(strings.TrimSpace(start))
	return out
}

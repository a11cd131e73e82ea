package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/djherbis/times"
	"github.com/dustin/go-humanize"

	"go.senan.xyz/omio/fileutil"
	"go.senan.xyz/omio/opus"
	"go.senan.xyz/omio/picture"
	"go.senan.xyz/omio/scanner"
	"go.senan.xyz/omio/tags"
)

type metadataer interface {
	Metadata() *opus.Metadata
}

type printer struct {
	out       io.Writer
	json      bool
	coverDir  string
	coverSize int
}

type jsonPicture struct {
	Type        uint32 `json:"type"`
	MIMEType    string `json:"mime_type"`
	Description string `json:"description,omitempty"`
	Width       uint32 `json:"width"`
	Height      uint32 `json:"height"`
	Size        int    `json:"size"`
}

// jsonTags is the tag summary with the usual fallbacks for missing artists,
// albums and genres applied.
type jsonTags struct {
	Title               string   `json:"title,omitempty"`
	Artists             []string `json:"artists"`
	Album               string   `json:"album"`
	AlbumArtists        []string `json:"album_artists"`
	Genres              []string `json:"genres"`
	TrackNumber         int      `json:"track_number,omitempty"`
	DiscNumber          int      `json:"disc_number,omitempty"`
	Year                int      `json:"year,omitempty"`
	Comment             string   `json:"comment,omitempty"`
	Lyrics              string   `json:"lyrics,omitempty"`
	BrainzID            string   `json:"musicbrainz_recording_id,omitempty"`
	AlbumBrainzID       string   `json:"musicbrainz_release_id,omitempty"`
	ReplayGainTrackGain float32  `json:"replaygain_track_gain,omitempty"`
	ReplayGainTrackPeak float32  `json:"replaygain_track_peak,omitempty"`
	ReplayGainAlbumGain float32  `json:"replaygain_album_gain,omitempty"`
	ReplayGainAlbumPeak float32  `json:"replaygain_album_peak,omitempty"`
}

func newJSONTags(info tags.Info) jsonTags {
	return jsonTags{
		Title:               info.Title(),
		Artists:             tags.MustArtists(info),
		Album:               tags.MustAlbum(info),
		AlbumArtists:        tags.MustAlbumArtists(info),
		Genres:              tags.MustGenres(info),
		TrackNumber:         info.TrackNumber(),
		DiscNumber:          info.DiscNumber(),
		Year:                info.Year(),
		Comment:             info.Comment(),
		Lyrics:              info.Lyrics(),
		BrainzID:            info.BrainzID(),
		AlbumBrainzID:       info.AlbumBrainzID(),
		ReplayGainTrackGain: info.ReplayGainTrackGain(),
		ReplayGainTrackPeak: info.ReplayGainTrackPeak(),
		ReplayGainAlbumGain: info.ReplayGainAlbumGain(),
		ReplayGainAlbumPeak: info.ReplayGainAlbumPeak(),
	}
}

type jsonTrack struct {
	Path            string              `json:"path"`
	Size            int64               `json:"size"`
	Modified        time.Time           `json:"modified"`
	Created         *time.Time          `json:"created,omitempty"`
	SerialNumber    uint32              `json:"serial_number"`
	Channels        uint8               `json:"channels"`
	PreSkip         uint16              `json:"pre_skip"`
	InputSampleRate uint32              `json:"input_sample_rate"`
	OutputGainDB    float64             `json:"output_gain_db"`
	Vendor          string              `json:"vendor"`
	DurationMS      *int64              `json:"duration_ms"`
	Bitrate         int                 `json:"bitrate,omitempty"`
	Tags            jsonTags            `json:"tags"`
	Comments        map[string][]string `json:"comments"`
	Pictures        []jsonPicture       `json:"pictures,omitempty"`
	Cover           string              `json:"cover,omitempty"`
}

func (p *printer) print(tr scanner.Track) error {
	m, ok := tr.Info.(metadataer)
	if !ok {
		return fmt.Errorf("%q has no opus metadata", tr.Path)
	}
	meta := m.Metadata()

	stat, err := os.Stat(tr.Path)
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}
	ts, err := times.Stat(tr.Path)
	if err != nil {
		return fmt.Errorf("stat times: %w", err)
	}

	// a cover that can't be saved shouldn't stop the rest of the output
	cover, err := p.saveCover(tr)
	if err != nil {
		log.Printf("error saving cover of %q: %v", tr.Path, err)
		cover = ""
	}

	jt := jsonTrack{
		Path:            tr.Path,
		Size:            stat.Size(),
		Modified:        ts.ModTime(),
		SerialNumber:    meta.SerialNumber,
		Channels:        meta.Header.Channels,
		PreSkip:         meta.Header.PreSkip,
		InputSampleRate: meta.Header.InputSampleRate,
		OutputGainDB:    meta.Header.GainDB(),
		Vendor:          meta.Vendor,
		Bitrate:         tr.Info.Bitrate(),
		Tags:            newJSONTags(tr.Info),
		Comments:        meta.Comments,
		Cover:           cover,
	}
	if ts.HasBirthTime() {
		created := ts.BirthTime()
		jt.Created = &created
	}
	if meta.Duration != nil {
		ms := meta.Duration.Milliseconds()
		jt.DurationMS = &ms
	}
	for _, pic := range meta.Pictures() {
		jt.Pictures = append(jt.Pictures, jsonPicture{
			Type:        pic.Type,
			MIMEType:    pic.MIMEType,
			Description: pic.Description,
			Width:       pic.Width,
			Height:      pic.Height,
			Size:        len(pic.Data),
		})
	}

	if p.json {
		return json.NewEncoder(p.out).Encode(jt)
	}
	return p.printText(jt, meta)
}

func (p *printer) printText(jt jsonTrack, meta *opus.Metadata) error {
	w := &errWriter{w: p.out}
	w.printf("%s (%s, modified %s)\n", jt.Path, humanize.Bytes(uint64(jt.Size)), humanize.Time(jt.Modified))
	w.printf("    %-20s %s\n", "vendor", jt.Vendor)
	w.printf("    %-20s %d\n", "channels", jt.Channels)
	w.printf("    %-20s %d Hz\n", "input sample rate", jt.InputSampleRate)
	w.printf("    %-20s %d\n", "pre-skip", jt.PreSkip)
	w.printf("    %-20s %.2f dB\n", "output gain", jt.OutputGainDB)
	if meta.Duration != nil {
		w.printf("    %-20s %s\n", "duration", *meta.Duration)
	}
	if jt.Bitrate > 0 {
		w.printf("    %-20s %d kbps\n", "bitrate", jt.Bitrate)
	}
	printTags(w, jt.Tags)

	keys := make([]string, 0, len(jt.Comments))
	for k := range jt.Comments {
		if k == opus.KeyMetadataBlockPicture {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range jt.Comments[k] {
			w.printf("    %-20s %s\n", k, v)
		}
	}
	for _, pic := range meta.Pictures() {
		w.printf("    %-20s %s\n", "picture", pic)
	}
	if jt.Cover != "" {
		w.printf("    %-20s %s\n", "cover", jt.Cover)
	}
	return w.err
}

func printTags(w *errWriter, t jsonTags) {
	if t.Title != "" {
		w.printf("    %-20s %s\n", "title", t.Title)
	}
	w.printf("    %-20s %s\n", "artists", strings.Join(t.Artists, ", "))
	w.printf("    %-20s %s\n", "album", t.Album)
	w.printf("    %-20s %s\n", "album artists", strings.Join(t.AlbumArtists, ", "))
	w.printf("    %-20s %s\n", "genres", strings.Join(t.Genres, ", "))
	if t.TrackNumber > 0 {
		w.printf("    %-20s %d\n", "track", t.TrackNumber)
	}
	if t.DiscNumber > 0 {
		w.printf("    %-20s %d\n", "disc", t.DiscNumber)
	}
	if t.Year > 0 {
		w.printf("    %-20s %d\n", "year", t.Year)
	}
	if t.ReplayGainTrackGain != 0 || t.ReplayGainTrackPeak != 0 {
		w.printf("    %-20s %.2f dB, peak %.6f\n", "track gain", t.ReplayGainTrackGain, t.ReplayGainTrackPeak)
	}
	if t.ReplayGainAlbumGain != 0 || t.ReplayGainAlbumPeak != 0 {
		w.printf("    %-20s %.2f dB, peak %.6f\n", "album gain", t.ReplayGainAlbumGain, t.ReplayGainAlbumPeak)
	}
}

// saveCover writes the embedded cover to the cover dir, named by its hash so
// tracks sharing a cover share a file.
func (p *printer) saveCover(tr scanner.Track) (string, error) {
	if p.coverDir == "" {
		return "", nil
	}
	cover := tr.Info.EmbeddedCover()
	if cover == nil {
		return "", nil
	}
	id := fmt.Sprintf("%016x", cover.Hash())

	if p.coverSize > 0 {
		path := picture.CachePath(p.coverDir, id, p.coverSize)
		if fileutil.Exists(path) {
			return path, nil
		}
		return path, cover.ScaleAndSave(path, p.coverSize)
	}

	ext := cover.Ext()
	if ext == "" {
		return "", nil
	}
	path := filepath.Join(p.coverDir, id+"."+ext)
	if fileutil.Exists(path) {
		return path, nil
	}
	if err := os.WriteFile(path, cover.Data, 0o644); err != nil { //nolint:gosec
		return "", fmt.Errorf("write: %w", err)
	}
	return path, nil
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, a ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, a...)
}

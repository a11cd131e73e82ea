package opus

import (
	"errors"
	"io"
	"math"
	"math/bits"
	"strings"
	"time"

	"go.senan.xyz/omio/iout"
	"go.senan.xyz/omio/ogg"
	"go.senan.xyz/omio/picture"
)

const DefaultHeaderSizeLimit = 120 * 1024 * 1024

type Options struct {
	// ReadDuration reads the whole stream to find its length.
	ReadDuration bool
	// HeaderSizeLimit caps the total length of the comment header strings.
	// Zero or less means no limit.
	HeaderSizeLimit int64
}

func DefaultOptions() Options {
	return Options{
		ReadDuration:    false,
		HeaderSizeLimit: DefaultHeaderSizeLimit,
	}
}

type Metadata struct {
	Vendor string
	// Comments maps lowercase keys to values in the order they were written.
	Comments map[string][]string
	// Duration is nil unless Options.ReadDuration was set.
	Duration *time.Duration

	SerialNumber uint32
	Header       IdentificationHeader
}

// Values returns all values for key, case insensitively.
func (m *Metadata) Values(key string) []string {
	return m.Comments[strings.ToLower(key)]
}

// First returns the first value for key, or "".
func (m *Metadata) First(key string) string {
	if vs := m.Values(key); len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// Pictures decodes the embedded pictures. Malformed ones are left out.
func (m *Metadata) Pictures() []*picture.Picture {
	var pics []*picture.Picture
	for _, v := range m.Values(KeyMetadataBlockPicture) {
		if p := picture.Decode(v); p != nil {
			pics = append(pics, p)
		}
	}
	return pics
}

// ReadMetadata reads the comments, and optionally the duration, of the first
// Opus stream in an Ogg container. Any failure is returned as an *Error.
func ReadMetadata(r io.Reader, opts Options) (*Metadata, error) {
	cr := iout.NewCountReader(r)
	mr := metadataReader{pr: ogg.NewPacketReader(cr), opts: opts}
	if err := mr.findStream(); err != nil {
		return nil, &Error{Stage: StageIdentificationHeader, Offset: cr.Count(), Err: err}
	}
	if err := mr.readComments(); err != nil {
		return nil, &Error{Stage: StageCommentHeader, Offset: cr.Count(), Err: err}
	}
	if opts.ReadDuration {
		if err := mr.readDuration(); err != nil {
			return nil, &Error{Stage: StageDuration, Offset: cr.Count(), Err: err}
		}
	}
	return &mr.meta, nil
}

type metadataReader struct {
	pr   *ogg.PacketReader
	opts Options
	meta Metadata
}

// findStream takes the first packet that is an identification header as the
// start of the Opus stream. Anything else is another logical stream.
func (mr *metadataReader) findStream() error {
	var rejected error
	for {
		if err := mr.pr.Next(); err != nil {
			// report why the last candidate was turned down too
			return errors.Join(err, rejected)
		}
		serial := mr.pr.Page().SerialNumber
		header, err := ReadIdentificationHeader(mr.pr)
		if isFraming(err) {
			return err
		}
		if err != nil {
			rejected = err
			continue
		}
		mr.meta.SerialNumber = serial
		mr.meta.Header = *header
		return nil
	}
}

func (mr *metadataReader) readComments() error {
	for {
		if err := mr.pr.Next(); err != nil {
			return err
		}
		if mr.pr.Page().SerialNumber != mr.meta.SerialNumber {
			continue
		}
		header, err := ReadCommentHeader(mr.pr, mr.opts.HeaderSizeLimit)
		if err != nil {
			return err
		}
		mr.meta.Vendor = header.Vendor
		mr.meta.Comments = make(map[string][]string, len(header.Comments))
		for _, c := range header.Comments {
			key := strings.ToLower(c.Key)
			mr.meta.Comments[key] = append(mr.meta.Comments[key], c.Value)
		}
		return nil
	}
}

// readDuration scans the rest of the stream for granule positions. Running
// out of stream before the end of stream page is not an error, the duration
// is worked out from the pages seen so far.
func (mr *metadataReader) readDuration() error {
	var gs granules
	for !gs.end {
		if err := mr.pr.Next(); err != nil {
			if isFraming(err) {
				break
			}
			return err
		}
		page := mr.pr.Page()
		if page.SerialNumber != mr.meta.SerialNumber {
			continue
		}
		gs.observe(page)
		if gs.onFirstGranule(page) {
			var toc [2]byte
			n, err := io.ReadFull(mr.pr, toc[:])
			if isFraming(err) {
				break
			}
			samples, err := PacketSamples(toc[:n])
			if err != nil {
				return err
			}
			gs.firstPageSamples += uint64(samples)
		}
		// the packet may end on a later page of this stream
		if err := mr.pr.Skip(); err != nil {
			break
		}
		if cur := mr.pr.Page(); cur != nil && cur.SerialNumber == mr.meta.SerialNumber {
			gs.observe(cur)
		}
	}
	d := gs.duration(uint64(mr.meta.Header.PreSkip))
	mr.meta.Duration = &d
	return nil
}

type granules struct {
	seen *ogg.PageHeader

	first, last      uint64
	hasFirst         bool
	firstPageSamples uint64
	end              bool
}

func (g *granules) observe(page *ogg.PageHeader) {
	if page == g.seen {
		return
	}
	g.seen = page
	g.end = g.end || page.EndOfStream()
	if !page.HasGranulePosition() {
		return
	}
	if !g.hasFirst {
		g.first, g.last, g.hasFirst = page.GranulePosition, page.GranulePosition, true
		return
	}
	g.last = page.GranulePosition
}

// onFirstGranule reports whether packets starting on page count towards the
// first page samples. Later pages repeating the first granule position count
// too.
func (g *granules) onFirstGranule(page *ogg.PageHeader) bool {
	return g.hasFirst && page.HasGranulePosition() && page.GranulePosition == g.first
}

// duration is (last - first + firstPageSamples - preSkip) samples, clamped at
// zero, in whole milliseconds.
func (g *granules) duration(preSkip uint64) time.Duration {
	if !g.hasFirst {
		return 0
	}
	end, endCarry := bits.Add64(g.last, g.firstPageSamples, 0)
	start, startCarry := bits.Add64(g.first, preSkip, 0)
	if endCarry < startCarry || (endCarry == startCarry && end <= start) {
		return 0
	}
	ms := (end - start) / (SampleRate / 1000)
	if ms > math.MaxInt64/uint64(time.Millisecond) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(ms) * time.Millisecond
}

func isFraming(err error) bool {
	var oerr *ogg.Error
	return errors.As(err, &oerr)
}

package opus

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"go.senan.xyz/omio/iout"
)

const (
	identificationMagic = "OpusHead"
	commentMagic        = "OpusTags"
)

// IdentificationHeader is the first packet of an Opus stream. The channel
// mapping table that may follow the fixed fields is not parsed.
type IdentificationHeader struct {
	Version         uint8
	Channels        uint8
	PreSkip         uint16
	InputSampleRate uint32
	OutputGain      int16 // Q7.8 dB
	MappingFamily   uint8
}

// GainDB is the output gain in decibels.
func (h *IdentificationHeader) GainDB() float64 {
	return float64(h.OutputGain) / 256
}

func ReadIdentificationHeader(r io.Reader) (*IdentificationHeader, error) {
	ok, err := iout.ReadMagic(r, identificationMagic)
	if err != nil {
		return nil, fmt.Errorf("magic: %w", unexpected(err))
	}
	if !ok {
		return nil, ErrMagic
	}

	var h IdentificationHeader
	if h.Version, err = iout.ReadUint8(r); err != nil {
		return nil, fmt.Errorf("version: %w", unexpected(err))
	}
	// the upper four bits are the major version, only 0 is understood
	if h.Version >= 16 {
		return nil, fmt.Errorf("%w %d", ErrVersion, h.Version)
	}
	if h.Channels, err = iout.ReadUint8(r); err != nil {
		return nil, fmt.Errorf("channels: %w", unexpected(err))
	}
	if h.PreSkip, err = iout.ReadUint16LE(r); err != nil {
		return nil, fmt.Errorf("pre-skip: %w", unexpected(err))
	}
	if h.InputSampleRate, err = iout.ReadUint32BE(r); err != nil {
		return nil, fmt.Errorf("sample rate: %w", unexpected(err))
	}
	gain, err := iout.ReadUint16LE(r)
	if err != nil {
		return nil, fmt.Errorf("output gain: %w", unexpected(err))
	}
	h.OutputGain = int16(gain)
	if h.MappingFamily, err = iout.ReadUint8(r); err != nil {
		return nil, fmt.Errorf("mapping family: %w", unexpected(err))
	}
	return &h, nil
}

type Comment struct {
	Key   string
	Value string
}

// CommentHeader is the second packet of an Opus stream, with comments in the
// order they were written.
type CommentHeader struct {
	Vendor   string
	Comments []Comment
}

// ReadCommentHeader reads a comment header. If sizeLimit is positive, the
// vendor string and comments together may not be longer than sizeLimit
// bytes. The limit is checked before each string is read.
func ReadCommentHeader(r io.Reader, sizeLimit int64) (*CommentHeader, error) {
	ok, err := iout.ReadMagic(r, commentMagic)
	if err != nil {
		return nil, fmt.Errorf("magic: %w", unexpected(err))
	}
	if !ok {
		return nil, ErrMagic
	}

	sr := stringReader{r: r, limit: sizeLimit}

	var h CommentHeader
	if h.Vendor, err = sr.read(); err != nil {
		return nil, fmt.Errorf("vendor: %w", err)
	}
	count, err := iout.ReadUint32LE(r)
	if err != nil {
		return nil, fmt.Errorf("comment count: %w", unexpected(err))
	}
	h.Comments = make([]Comment, 0, min(count, 64))
	for i := uint32(0); i < count; i++ {
		s, err := sr.read()
		if err != nil {
			return nil, fmt.Errorf("comment %d: %w", i, err)
		}
		key, value, ok := strings.Cut(s, "=")
		if !ok {
			return nil, fmt.Errorf("comment %d has no %q: %w", i, "=", ErrMalformedComment)
		}
		h.Comments = append(h.Comments, Comment{Key: key, Value: value})
	}
	return &h, nil
}

// stringReader reads length prefixed strings, keeping a running total of their
// lengths.
type stringReader struct {
	r     io.Reader
	limit int64
	total int64
}

func (sr *stringReader) read() (string, error) {
	n, err := iout.ReadUint32LE(sr.r)
	if err != nil {
		return "", fmt.Errorf("length: %w", unexpected(err))
	}
	sr.total += int64(n)
	if sr.limit > 0 && sr.total > sr.limit {
		return "", fmt.Errorf("%w of %d bytes", ErrSizeLimit, sr.limit)
	}
	// copy rather than allocate n up front, n is not trusted
	var sb strings.Builder
	if _, err := io.CopyN(&sb, sr.r, int64(n)); err != nil {
		return "", unexpected(err)
	}
	return strings.ToValidUTF8(sb.String(), "\uFFFD"), nil
}

func unexpected(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

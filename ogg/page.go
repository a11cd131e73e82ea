// Package ogg reads pages and packets from an Ogg container, strictly forward.
package ogg

import (
	"errors"
	"io"

	"go.senan.xyz/omio/iout"
)

const (
	FlagContinued     = 0x01
	FlagBeginOfStream = 0x02
	FlagEndOfStream   = 0x04
)

const (
	capturePattern = "OggS"
	structVersion  = 0x00
)

// NoGranulePosition is the granule position of a page on which no packet
// ends.
const NoGranulePosition = ^uint64(0)

// PageHeader is the framing of one physical page. The checksum is parsed but
// not verified.
type PageHeader struct {
	HeaderType      byte
	GranulePosition uint64
	SerialNumber    uint32
	PageSequence    uint32
	Checksum        uint32
	Segments        []byte
}

func (h *PageHeader) Continued() bool     { return h.HeaderType&FlagContinued != 0 }
func (h *PageHeader) BeginOfStream() bool { return h.HeaderType&FlagBeginOfStream != 0 }
func (h *PageHeader) EndOfStream() bool   { return h.HeaderType&FlagEndOfStream != 0 }

func (h *PageHeader) HasGranulePosition() bool {
	return h.GranulePosition != NoGranulePosition
}

// PayloadSize is the sum of the segment table.
func (h *PageHeader) PayloadSize() int {
	var size int
	for _, s := range h.Segments {
		size += int(s)
	}
	return size
}

// ReadPageHeader reads a page header and its segment table from r, leaving r
// at the start of the page payload.
func ReadPageHeader(r io.Reader) (*PageHeader, error) {
	h, err := readPageHeader(r)
	if err != nil {
		return nil, &Error{Op: OpReadPage, Err: err}
	}
	return h, nil
}

func readPageHeader(r io.Reader) (*PageHeader, error) {
	ok, err := iout.ReadMagic(r, capturePattern)
	switch {
	case errors.Is(err, io.EOF):
		return nil, ErrEndOfStream
	case err != nil:
		return nil, err
	case !ok:
		return nil, ErrCapturePattern
	}

	version, err := iout.ReadUint8(r)
	if err != nil {
		return nil, unexpected(err)
	}
	if version != structVersion {
		return nil, ErrVersion
	}

	var h PageHeader
	if h.HeaderType, err = iout.ReadUint8(r); err != nil {
		return nil, unexpected(err)
	}
	if h.GranulePosition, err = iout.ReadUint64LE(r); err != nil {
		return nil, unexpected(err)
	}
	if h.SerialNumber, err = iout.ReadUint32LE(r); err != nil {
		return nil, unexpected(err)
	}
	if h.PageSequence, err = iout.ReadUint32LE(r); err != nil {
		return nil, unexpected(err)
	}
	if h.Checksum, err = iout.ReadUint32LE(r); err != nil {
		return nil, unexpected(err)
	}
	count, err := iout.ReadUint8(r)
	if err != nil {
		return nil, unexpected(err)
	}
	h.Segments = make([]byte, count)
	if _, err := io.ReadFull(r, h.Segments); err != nil {
		return nil, unexpected(err)
	}
	return &h, nil
}

// unexpected turns an io.EOF from inside a header into io.ErrUnexpectedEOF.
func unexpected(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

package ogg

import (
	"errors"
	"io"
)

// PacketReader splits the pages of an Ogg stream into packets. Pages of every
// logical stream are returned in the order they appear; use Page to tell
// them apart.
//
// Between Next calls the reader implements io.Reader over the current packet
// and returns io.EOF once the packet is exhausted. Page headers are read as
// the packet crosses page boundaries.
type PacketReader struct {
	r    io.Reader
	page *PageHeader

	segment int  // index of the next unread entry in page.Segments
	remain  int  // unread bytes of the current segment
	last    bool // the current segment ends the packet
	open    bool
}

func NewPacketReader(r io.Reader) *PacketReader {
	return &PacketReader{r: r}
}

// Page is the header of the page currently being read.
func (pr *PacketReader) Page() *PageHeader {
	return pr.page
}

// Next discards what is left of the current packet and positions the reader
// at the start of the next one. At the end of the stream it returns an
// *Error wrapping ErrEndOfStream.
func (pr *PacketReader) Next() error {
	if err := pr.Skip(); err != nil {
		return err
	}
	if _, err := pr.advance(false); err != nil {
		return err
	}
	pr.open = true
	return nil
}

// Skip discards the rest of the current packet.
func (pr *PacketReader) Skip() error {
	if !pr.open {
		return nil
	}
	_, err := io.Copy(io.Discard, pr)
	pr.open = false
	return err
}

func (pr *PacketReader) Read(p []byte) (int, error) {
	if !pr.open {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}
	for pr.remain == 0 {
		if pr.last {
			return 0, io.EOF
		}
		ok, err := pr.advance(true)
		if err != nil {
			return 0, err
		}
		if !ok {
			// the page does not continue this packet, so it ends here
			pr.last = true
			return 0, io.EOF
		}
	}
	if len(p) > pr.remain {
		p = p[:pr.remain]
	}
	n, err := pr.r.Read(p)
	pr.remain -= n
	switch {
	case errors.Is(err, io.EOF) && pr.remain > 0 && n == 0:
		return n, &Error{Op: OpReadPacket, Err: io.ErrUnexpectedEOF}
	case errors.Is(err, io.EOF):
		return n, nil
	case err != nil:
		return n, &Error{Op: OpReadPacket, Err: err}
	}
	return n, nil
}

func (pr *PacketReader) ReadByte() (byte, error) {
	var buf [1]byte
	for {
		n, err := pr.Read(buf[:])
		if n == 1 {
			return buf[0], nil
		}
		if err != nil {
			return 0, err
		}
	}
}

// advance makes the next segment current, reading a page header first if the
// current page is used up. When continuing a packet, a fresh page without the
// continued flag is left unread and advance reports false.
func (pr *PacketReader) advance(continuing bool) (bool, error) {
	for pr.page == nil || pr.segment >= len(pr.page.Segments) {
		page, err := ReadPageHeader(pr.r)
		if err != nil {
			pr.page, pr.segment = nil, 0
			return false, retag(OpReadPacket, err)
		}
		pr.page, pr.segment = page, 0
		if continuing && !page.Continued() {
			return false, nil
		}
	}
	size := int(pr.page.Segments[pr.segment])
	pr.segment++
	pr.remain = size
	pr.last = size < 255
	return true, nil
}

var _ io.Reader = (*PacketReader)(nil)
var _ io.ByteReader = (*PacketReader)(nil)

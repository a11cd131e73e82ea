package mockfs

import (
	"encoding/base64"
	"encoding/binary"
)

const (
	FlagContinued   byte = 0x01
	FlagBeginStream byte = 0x02
	FlagEndStream   byte = 0x04
)

const NoGranule = ^uint64(0)

// Page is one raw Ogg page. Segments is written as the segment table as is, so
// tests can build pages the lacing rules would never produce.
type Page struct {
	Flags    byte
	Granule  uint64
	Serial   uint32
	Sequence uint32
	Checksum uint32
	Segments []byte
	Payload  []byte
}

func (p Page) Bytes() []byte {
	out := make([]byte, 0, 27+len(p.Segments)+len(p.Payload))
	out = append(out, "OggS"...)
	out = append(out, 0, p.Flags)
	out = binary.LittleEndian.AppendUint64(out, p.Granule)
	out = binary.LittleEndian.AppendUint32(out, p.Serial)
	out = binary.LittleEndian.AppendUint32(out, p.Sequence)
	out = binary.LittleEndian.AppendUint32(out, p.Checksum)
	out = append(out, byte(len(p.Segments)))
	out = append(out, p.Segments...)
	out = append(out, p.Payload...)
	return out
}

// Lace returns the segment table for one complete packet.
func Lace(packetLen int) []byte {
	segments := make([]byte, 0, packetLen/255+1)
	for ; packetLen >= 255; packetLen -= 255 {
		segments = append(segments, 255)
	}
	return append(segments, byte(packetLen))
}

// PacketPage lays complete packets out in a single page.
func PacketPage(serial, sequence uint32, flags byte, granule uint64, packets ...[]byte) Page {
	p := Page{Flags: flags, Granule: granule, Serial: serial, Sequence: sequence}
	for _, packet := range packets {
		p.Segments = append(p.Segments, Lace(len(packet))...)
		p.Payload = append(p.Payload, packet...)
	}
	return p
}

// Stream builds a single logical stream page by page.
type Stream struct {
	serial   uint32
	sequence uint32
	pages    []Page
}

func NewStream(serial uint32) *Stream {
	return &Stream{serial: serial}
}

func (s *Stream) Page(flags byte, granule uint64, packets ...[]byte) *Stream {
	if s.sequence == 0 {
		flags |= FlagBeginStream
	}
	s.pages = append(s.pages, PacketPage(s.serial, s.sequence, flags, granule, packets...))
	s.sequence++
	return s
}

// Headers adds the identification header page and the comment header page.
func (s *Stream) Headers(channels uint8, preSkip uint16, sampleRate uint32, vendor string, comments ...string) *Stream {
	s.Page(0, 0, OpusHead(1, channels, preSkip, sampleRate, 0, 0))
	s.Page(0, 0, OpusTags(vendor, comments...))
	return s
}

func (s *Stream) Audio(granule uint64, packets ...[]byte) *Stream {
	return s.Page(0, granule, packets...)
}

// End sets the end of stream flag on the last page.
func (s *Stream) End() *Stream {
	if len(s.pages) > 0 {
		s.pages[len(s.pages)-1].Flags |= FlagEndStream
	}
	return s
}

func (s *Stream) Pages() []Page { return s.pages }

func (s *Stream) Bytes() []byte {
	return Concat(s.pages...)
}

func Concat(pages ...Page) []byte {
	var out []byte
	for _, p := range pages {
		out = append(out, p.Bytes()...)
	}
	return out
}

// Interleave merges the pages of several streams, one page from each in turn.
func Interleave(streams ...*Stream) []byte {
	var out []byte
	for i := 0; ; i++ {
		var more bool
		for _, s := range streams {
			if i < len(s.pages) {
				out = append(out, s.pages[i].Bytes()...)
				more = true
			}
		}
		if !more {
			return out
		}
	}
}

func OpusHead(version, channels uint8, preSkip uint16, sampleRate uint32, gain uint16, family uint8) []byte {
	out := []byte("OpusHead")
	out = append(out, version, channels)
	out = binary.LittleEndian.AppendUint16(out, preSkip)
	out = binary.BigEndian.AppendUint32(out, sampleRate)
	out = binary.LittleEndian.AppendUint16(out, gain)
	out = append(out, family)
	return out
}

func OpusTags(vendor string, comments ...string) []byte {
	out := []byte("OpusTags")
	out = binary.LittleEndian.AppendUint32(out, uint32(len(vendor)))
	out = append(out, vendor...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(comments)))
	for _, c := range comments {
		out = binary.LittleEndian.AppendUint32(out, uint32(len(c)))
		out = append(out, c...)
	}
	return out
}

// Packet is an audio packet of size bytes starting with toc.
func Packet(toc byte, size int) []byte {
	if size < 1 {
		size = 1
	}
	out := make([]byte, size)
	out[0] = toc
	return out
}

type Picture struct {
	Type        uint32
	MIMEType    string
	Description string
	Width       uint32
	Height      uint32
	ColorDepth  uint32
	PaletteSize uint32
	Data        []byte
}

// PictureComment encodes p as a metadata_block_picture comment.
func PictureComment(p Picture) string {
	var out []byte
	out = binary.BigEndian.AppendUint32(out, p.Type)
	out = binary.BigEndian.AppendUint32(out, uint32(len(p.MIMEType)))
	out = append(out, p.MIMEType...)
	out = binary.BigEndian.AppendUint32(out, uint32(len(p.Description)))
	out = append(out, p.Description...)
	out = binary.BigEndian.AppendUint32(out, p.Width)
	out = binary.BigEndian.AppendUint32(out, p.Height)
	out = binary.BigEndian.AppendUint32(out, p.ColorDepth)
	out = binary.BigEndian.AppendUint32(out, p.PaletteSize)
	out = binary.BigEndian.AppendUint32(out, uint32(len(p.Data)))
	out = append(out, p.Data...)
	return "METADATA_BLOCK_PICTURE=" + base64.StdEncoding.EncodeToString(out)
}

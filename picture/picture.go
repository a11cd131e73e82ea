// Package picture decodes METADATA_BLOCK_PICTURE comment values.
//
// https://wiki.xiph.org/VorbisComment#METADATA_BLOCK_PICTURE
package picture

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"strings"

	"go.senan.xyz/omio/iout"
	"go.senan.xyz/omio/mime"
)

const (
	TypeOther      uint32 = 0
	TypeFrontCover uint32 = 3
	TypeBackCover  uint32 = 4
)

// MIMETypeURI marks a picture whose data is a URI rather than image bytes.
const MIMETypeURI = "-->"

var ErrMalformed = errors.New("malformed picture block")

type Picture struct {
	Type        uint32
	MIMEType    string // lowercase
	Description string
	Width       uint32
	Height      uint32
	ColorDepth  uint32
	PaletteSize uint32
	Data        []byte
}

// Decode decodes a base64 picture comment value. It returns nil if the value
// is malformed in any way.
func Decode(value string) *Picture {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(value))
	if err != nil {
		return nil
	}
	p, err := Parse(raw)
	if err != nil {
		return nil
	}
	return p
}

// Parse parses the binary picture block.
func Parse(raw []byte) (*Picture, error) {
	r := bytes.NewReader(raw)
	var p Picture
	var err error
	if p.Type, err = iout.ReadUint32BE(r); err != nil {
		return nil, fmt.Errorf("type: %w", malformed(err))
	}
	if p.MIMEType, err = readString(r); err != nil {
		return nil, fmt.Errorf("mime type: %w", err)
	}
	p.MIMEType = strings.ToLower(p.MIMEType)
	if p.Description, err = readString(r); err != nil {
		return nil, fmt.Errorf("description: %w", err)
	}
	for _, dst := range []*uint32{&p.Width, &p.Height, &p.ColorDepth, &p.PaletteSize} {
		if *dst, err = iout.ReadUint32BE(r); err != nil {
			return nil, fmt.Errorf("dimensions: %w", malformed(err))
		}
	}
	if p.Data, err = readBytes(r); err != nil {
		return nil, fmt.Errorf("data: %w", err)
	}
	return &p, nil
}

// Encode is the inverse of Decode.
func Encode(p *Picture) string {
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
	return base64.StdEncoding.EncodeToString(out)
}

func (p *Picture) Equal(o *Picture) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.Type == o.Type &&
		p.MIMEType == o.MIMEType &&
		p.Description == o.Description &&
		p.Width == o.Width &&
		p.Height == o.Height &&
		p.ColorDepth == o.ColorDepth &&
		p.PaletteSize == o.PaletteSize &&
		bytes.Equal(p.Data, o.Data)
}

// Hash covers every field, including the image bytes, so equal pictures hash
// equally.
func (p *Picture) Hash() uint64 {
	h := fnv.New64a()
	var buf [4]byte
	writeUint := func(v uint32) {
		binary.BigEndian.PutUint32(buf[:], v)
		_, _ = h.Write(buf[:])
	}
	writeBytes := func(b []byte) {
		writeUint(uint32(len(b)))
		_, _ = h.Write(b)
	}
	writeUint(p.Type)
	writeBytes([]byte(p.MIMEType))
	writeBytes([]byte(p.Description))
	writeUint(p.Width)
	writeUint(p.Height)
	writeUint(p.ColorDepth)
	writeUint(p.PaletteSize)
	writeBytes(p.Data)
	return h.Sum64()
}

func (p *Picture) IsURI() bool {
	return p.MIMEType == MIMETypeURI
}

// Ext is the file extension for the picture data, or "" if the MIME type is
// unknown.
func (p *Picture) Ext() string {
	return mime.ToExtension(p.MIMEType)
}

func (p *Picture) String() string {
	return fmt.Sprintf("type %d %s %dx%d %q (%d bytes)", p.Type, p.MIMEType, p.Width, p.Height, p.Description, len(p.Data))
}

func readString(r *bytes.Reader) (string, error) {
	b, err := readBytes(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// readBytes reads a length prefixed byte string, checking the length against
// what is left before allocating.
func readBytes(r *bytes.Reader) ([]byte, error) {
	n, err := iout.ReadUint32BE(r)
	if err != nil {
		return nil, malformed(err)
	}
	if int64(n) > int64(r.Len()) {
		return nil, fmt.Errorf("length %d with %d bytes left: %w", n, r.Len(), ErrMalformed)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, malformed(err)
	}
	return b, nil
}

func malformed(err error) error {
	return fmt.Errorf("%w: %w", ErrMalformed, err)
}

package iout_test

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"

	"go.senan.xyz/omio/iout"
)

func TestReadUints(t *testing.T) {
	t.Parallel()

	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}

	u8, err := iout.ReadUint8(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, uint8(0x01), u8)

	u16, err := iout.ReadUint16LE(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, uint16(0x0201), u16)

	u32, err := iout.ReadUint32LE(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, uint32(0x04030201), u32)

	u32be, err := iout.ReadUint32BE(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, uint32(0x01020304), u32be)

	u64, err := iout.ReadUint64LE(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, uint64(0x0807060504030201), u64)
}

func TestReadUintsEndOfStream(t *testing.T) {
	t.Parallel()

	_, err := iout.ReadUint32LE(bytes.NewReader(nil))
	require.ErrorIs(t, err, io.EOF)

	_, err = iout.ReadUint32LE(bytes.NewReader([]byte{1, 2}))
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = iout.ReadUint64LE(bytes.NewReader([]byte{1, 2, 3, 4, 5, 6, 7}))
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)

	// no io.ByteReader here, so the slice path is taken
	_, err = iout.ReadUint8(iotest.OneByteReader(bytes.NewReader(nil)))
	require.ErrorIs(t, err, io.EOF)
}

func TestReadMagic(t *testing.T) {
	t.Parallel()

	ok, err := iout.ReadMagic(bytes.NewReader([]byte("OggS")), "OggS")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = iout.ReadMagic(bytes.NewReader([]byte("OggX")), "OggS")
	require.NoError(t, err)
	require.False(t, ok)

	_, err = iout.ReadMagic(bytes.NewReader([]byte("Og")), "OggS")
	require.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}

func TestCountReader(t *testing.T) {
	t.Parallel()

	cr := iout.NewCountReader(iotest.OneByteReader(bytes.NewReader([]byte("hello world"))))
	buf := make([]byte, 5)
	_, err := io.ReadFull(cr, buf)
	require.NoError(t, err)
	require.Equal(t, uint64(5), cr.Count())

	b, err := cr.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(' '), b)
	require.Equal(t, uint64(6), cr.Count())

	_, err = io.Copy(io.Discard, cr)
	require.NoError(t, err)
	require.Equal(t, uint64(11), cr.Count())
}

package iout

import (
	"io"
	"sync/atomic"
)

// CountReader counts the bytes read through it. Used to report where in a
// stream a read failed.
type CountReader struct {
	r io.Reader
	c *uint64
}

func NewCountReader(r io.Reader) *CountReader {
	return &CountReader{r: r, c: new(uint64)}
}

func (c *CountReader) Count() uint64 { return atomic.LoadUint64(c.c) }

func (c *CountReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	atomic.AddUint64(c.c, uint64(n))
	return n, err
}

// ReadByte lets the primitives below avoid a slice allocation per byte when
// the underlying reader supports it.
func (c *CountReader) ReadByte() (byte, error) {
	if br, ok := c.r.(io.ByteReader); ok {
		b, err := br.ReadByte()
		if err == nil {
			atomic.AddUint64(c.c, 1)
		}
		return b, err
	}
	var buf [1]byte
	if _, err := io.ReadFull(c, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

var _ io.Reader = (*CountReader)(nil)
var _ io.ByteReader = (*CountReader)(nil)

package ogg

import (
	"errors"
	"fmt"
)

const (
	OpReadPage   = "read page"
	OpReadPacket = "read packet"
)

var (
	ErrCapturePattern = errors.New("bad capture pattern")
	ErrVersion        = errors.New("unsupported stream structure version")
	// ErrEndOfStream means the stream ended cleanly on a page boundary.
	ErrEndOfStream = errors.New("end of stream")
)

// Error is a container framing error. Truncated pages wrap
// io.ErrUnexpectedEOF.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("ogg: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// retag reports a page level failure as a failure of op.
func retag(op string, err error) error {
	var oerr *Error
	if errors.As(err, &oerr) {
		return &Error{Op: op, Err: oerr.Err}
	}
	return &Error{Op: op, Err: err}
}

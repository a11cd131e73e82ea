package opus

import (
	"errors"
	"fmt"
)

const (
	StageIdentificationHeader = "identification header"
	StageCommentHeader        = "comment header"
	StageDuration             = "duration"
)

var (
	ErrMagic            = errors.New("bad magic signature")
	ErrVersion          = errors.New("unsupported version")
	ErrSizeLimit        = errors.New("comment header exceeds size limit")
	ErrInvalidPacket    = errors.New("invalid packet")
	ErrMalformedComment = errors.New("malformed comment")
)

// Error is returned by ReadMetadata. Stage says what was being read and
// Offset how far into the stream the failure happened. Err may be an
// *ogg.Error or one of the errors above.
type Error struct {
	Stage  string
	Offset uint64
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("opus: reading %s at byte %d: %v", e.Stage, e.Offset, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

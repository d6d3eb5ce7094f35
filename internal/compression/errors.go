package compression

import (
	"errors"
	"fmt"
)

var (
	ErrDecode = errors.New("image decode failed")
	ErrEncode = errors.New("image encode failed")

	ErrUnknownPurpose    = errors.New("unknown image purpose")
	ErrUnsupportedFormat = errors.New("unsupported output format")
)

// DecodeError is returned when the source cannot be parsed as an image
type DecodeError struct {
	Name        string
	ContentType string
	Err         error
}

func (e *DecodeError) Error() string {
	msg := "cannot decode image"
	if e.Name != "" {
		msg += " " + e.Name
	}
	if e.ContentType != "" {
		msg += fmt.Sprintf(" (detected %s)", e.ContentType)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// EncodeError is returned when no attempted quality produced an encoded image
type EncodeError struct {
	Name      string
	Format    Format
	Qualities []float64
	Err       error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("cannot encode %s as %s at qualities %v: %v", e.Name, e.Format, e.Qualities, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

func (e *EncodeError) Is(target error) bool {
	return target == ErrEncode
}

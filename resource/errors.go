package resource

import (
	"fmt"

	"github.com/n0remac/meetcore/apierr"
)

// ParseError is returned by a codec's Parse function. It always carries
// apierr.Internal per §4.1: a parse failure or a structural violation
// (resources/canvases not an array) is never anything but Internal.
type ParseError struct {
	Channel string
	Raw     []byte
	Msg     string
}

func (e *ParseError) Error() string {
	return e.Msg
}

// Status renders the error as the public apierr.Status the caller sees.
func (e *ParseError) Status() *apierr.Status {
	return apierr.New(apierr.Internal, e.Msg)
}

func newFormatError(channel string, raw []byte) *ParseError {
	return &ParseError{
		Channel: channel,
		Raw:     raw,
		Msg:     fmt.Sprintf("Invalid %s json format: %s", channel, raw),
	}
}

func newArrayFieldError(channel, field string, raw []byte) *ParseError {
	return &ParseError{
		Channel: channel,
		Raw:     raw,
		Msg: fmt.Sprintf(
			"Invalid %s json format. Expected %s field to be an array: %s",
			channel, field, raw),
	}
}

// SerializeError is returned by a codec's Serialize function; always
// apierr.InvalidArgument per §4.1's serialization contract.
type SerializeError struct {
	Msg string
}

func (e *SerializeError) Error() string { return e.Msg }

func (e *SerializeError) Status() *apierr.Status {
	return apierr.New(apierr.InvalidArgument, e.Msg)
}

func newSerializeError(format string, args ...any) *SerializeError {
	return &SerializeError{Msg: fmt.Sprintf(format, args...)}
}

package repair

import "errors"

var (
	// ErrClosed is returned when writing to a stream after End or Destroy.
	ErrClosed = errors.New("repair stream closed")

	// ErrUnrepaired is wrapped by the error a Strict stream fails with when
	// no rule matches a syntax error.
	ErrUnrepaired = errors.New("no rule repairs syntax error")

	// ErrIncomplete is wrapped by the error End returns when RequireComplete
	// is set and the input stopped inside a value.
	ErrIncomplete = errors.New("incomplete JSON document")
)

package repair

import (
	"io"

	"github.com/arnodel/jsonrepair/internal/log"
	"github.com/arnodel/jsonrepair/token"
)

const defaultBufferSize = 4096

// A Decoder reads malformed JSON and streams repaired tokens.
type Decoder struct {
	Strict          bool
	RequireComplete bool
	Logger          log.Logger

	// Size of the chunks read from the input.  Defaults to 4096.
	BufferSize int

	in    io.Reader
	rules []Rule
}

var _ token.StreamSource = &Decoder{}

// NewDecoder sets up a new Decoder repairing the input with the given rules.
func NewDecoder(in io.Reader, rules []Rule) *Decoder {
	return &Decoder{in: in, rules: rules}
}

// Produce reads the input until it is exhausted, sending repaired tokens to
// out.  Read errors other than io.EOF are returned as they are.
func (d *Decoder) Produce(out chan<- token.Token) error {
	s := NewTokenStream(token.ChannelWriteStream(out), d.rules)
	s.Strict = d.Strict
	s.RequireComplete = d.RequireComplete
	if d.Logger != nil {
		s.Logger = d.Logger
	}
	size := d.BufferSize
	if size <= 0 {
		size = defaultBufferSize
	}
	buf := make([]byte, size)
	for {
		n, err := d.in.Read(buf)
		if n > 0 {
			if _, werr := s.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			return s.End()
		}
		if err != nil {
			return err
		}
	}
}

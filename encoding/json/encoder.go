package json

import (
	"fmt"
	"io"

	"github.com/arnodel/jsonrepair/internal/format"
	"github.com/arnodel/jsonrepair/token"
)

// An Encoder writes a stream of tokens as compact JSON text.
//
// Separators are held back by one token: a separator is only written when
// the next token shows a sibling follows, so the output never contains a
// separator immediately before a closing bracket.  Each token is sent to the
// Printer in one PrintBytes call.
type Encoder struct {
	format.Printer
	*format.Colorizer

	// Pending separator, nil if there is none.
	sep   []byte
	depth int
	chunk format.ChunkBuffer
}

var (
	_ token.StreamSink  = &Encoder{}
	_ token.WriteStream = &Encoder{}
)

// NewEncoder returns an Encoder writing to w, one Write call per token.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{Printer: &format.DefaultPrinter{Writer: w}}
}

// Consume writes the tokens received on stream until it is closed.  A
// non-nil error is returned if the Printer failed to write.
func (e *Encoder) Consume(stream <-chan token.Token) (err error) {
	defer format.CatchPrinterError(&err)
	for tok := range stream {
		e.Put(tok)
	}
	return nil
}

// Put writes a single token.  It panics with a *format.PrinterError if the
// Printer fails.
func (e *Encoder) Put(tok token.Token) {
	switch t := tok.(type) {
	case *token.StartObject:
		e.printSep()
		e.chunk.PrintBytes(openObjectBytes)
		if t.Key != nil {
			e.printKey(t.Key)
		}
		e.depth++
		e.sep = nil
	case *token.EndObject:
		e.chunk.PrintBytes(closeObjectBytes)
		e.depth--
		e.setSep()
	case *token.StartArray:
		e.printSep()
		e.chunk.PrintBytes(openArrayBytes)
		e.depth++
		e.sep = nil
	case *token.EndArray:
		e.chunk.PrintBytes(closeArrayBytes)
		e.depth--
		e.setSep()
	case *token.Scalar:
		e.printSep()
		if t.IsKey() {
			e.printKey(t)
			e.sep = nil
		} else {
			e.Colorizer.PrintScalar(&e.chunk, t)
			e.setSep()
		}
	default:
		panic(fmt.Sprintf("invalid token: %s", tok))
	}
	e.chunk.FlushTo(e.Printer)
}

// Pending returns the separator waiting for a following sibling, if any.
func (e *Encoder) Pending() string {
	return string(e.sep)
}

// Reset forgets the pending separator and nesting, e.g. before encoding an
// unrelated document.
func (e *Encoder) Reset() {
	e.sep = nil
	e.depth = 0
	e.chunk.Reset()
}

func (e *Encoder) printSep() {
	if e.sep != nil {
		e.chunk.PrintBytes(e.sep)
		e.sep = nil
	}
}

func (e *Encoder) printKey(key *token.Scalar) {
	e.Colorizer.PrintScalar(&e.chunk, key)
	e.chunk.PrintBytes(keyValueSeparatorBytes)
}

// Top-level values are written one per line (JSON Lines) rather than joined
// with ", " like siblings, which would not be valid JSON.  Use a JoinStream
// to get a single array instead.
func (e *Encoder) setSep() {
	if e.depth > 0 {
		e.sep = itemSeparatorBytes
	} else {
		e.sep = documentSeparatorBytes
	}
}

var (
	openObjectBytes        = []byte{'{'}
	closeObjectBytes       = []byte{'}'}
	openArrayBytes         = []byte{'['}
	closeArrayBytes        = []byte{']'}
	itemSeparatorBytes     = []byte(", ")
	keyValueSeparatorBytes = []byte(": ")
	documentSeparatorBytes = []byte{'\n'}
)

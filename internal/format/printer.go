package format

import (
	"fmt"
	"io"
)

// The Printer interface is used to send output downstream.
//
// PrintBytes() outputs bytes, which are meant to reach the destination as
// one unit (e.g. one Write call).
//
// The method does not return an error because outputting results in an error
// is assumed to be an exceptional case and the only sensible outcome is to
// stop.  Instead, implementations are expected to panic with a *PrinterError
// when they encounter an error.  A user of the Printer interface can use
//
//	func printingFunction(p Printer) (err error) {
//	    defer CatchPrinterError(&err)
//	    return doSomePrinting(printer)
//	}
//
// to capture such errors.
type Printer interface {
	PrintBytes([]byte)
}

// CatchPrinterError can be used to capture panics caused by a Printer because
// of an error encountered while attempting to send output.  See the Printer
// interface documentation for details.
func CatchPrinterError(err *error) {
	if r := recover(); r != nil {
		perr, ok := r.(*PrinterError)
		if ok {
			*err = perr
		} else {
			panic(r)
		}
	}
}

// A PrinterError contains an error that occurred while a Printer implementation
// was sending some output.
type PrinterError struct {
	Err error
}

func (e *PrinterError) Error() string {
	return fmt.Sprintf("printer error: %s", e.Err)
}

func (e *PrinterError) Unwrap() error {
	return e.Err
}

// Flusher is implemented by buffered writers such as *bufio.Writer.
type Flusher interface {
	Flush() error
}

// DefaultPrinter implements a Printer which sends each PrintBytes call to its
// io.Writer in a single Write.  If Flusher is set, it is flushed after every
// write so output reaches e.g. a terminal early.
type DefaultPrinter struct {
	io.Writer
	Flusher Flusher
}

var _ Printer = &DefaultPrinter{}

// PrintBytes sends the given bytes verbatim to the printer's writer.
func (p *DefaultPrinter) PrintBytes(b []byte) {
	_, err := p.Write(b)
	if err != nil {
		panic(wrapError(err))
	}
	if p.Flusher != nil {
		if err := p.Flusher.Flush(); err != nil {
			panic(wrapError(err))
		}
	}
}

// A ChunkBuffer is a Printer which accumulates bytes in memory, so that a
// sequence of PrintBytes calls can be sent on as one chunk.
type ChunkBuffer struct {
	buf []byte
}

var _ Printer = &ChunkBuffer{}

func (b *ChunkBuffer) PrintBytes(p []byte) {
	b.buf = append(b.buf, p...)
}

// Bytes returns the accumulated bytes.  They are only valid until the next
// Reset.
func (b *ChunkBuffer) Bytes() []byte {
	return b.buf
}

func (b *ChunkBuffer) Len() int {
	return len(b.buf)
}

func (b *ChunkBuffer) Reset() {
	b.buf = b.buf[:0]
}

// FlushTo sends the accumulated bytes to p as one chunk, if there are any,
// then resets the buffer.
func (b *ChunkBuffer) FlushTo(p Printer) {
	if len(b.buf) == 0 {
		return
	}
	p.PrintBytes(b.buf)
	b.Reset()
}

func wrapError(err error) *PrinterError {
	return &PrinterError{Err: err}
}

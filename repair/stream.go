// Package repair re-emits malformed JSON as valid JSON while it streams in.
//
// A Stream drives a push tokenizer.  Whenever the tokenizer rejects a
// character, every Rule matching the character and the tokenizer's intent
// runs in table order, rewriting the grammar state, and tokenizing resumes.
// A character no rule matches is dropped.  Corrected tokens go to a JSON encoder which holds
// each separator back until it knows a sibling follows.
package repair

import (
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/arnodel/jsonrepair/encoding/json"
	"github.com/arnodel/jsonrepair/internal/format"
	"github.com/arnodel/jsonrepair/internal/log"
	"github.com/arnodel/jsonrepair/token"
	"github.com/arnodel/jsonrepair/tokenizer"
)

// A Stream repairs JSON written to it.  It is not safe for concurrent use.
type Stream struct {
	// If Strict is set, a syntax error no rule matches makes the stream fail
	// with an error wrapping ErrUnrepaired.  Otherwise the offending
	// character is dropped.
	Strict bool

	// If RequireComplete is set, End fails with an error wrapping
	// ErrIncomplete when the input stops inside a value.
	RequireComplete bool

	OnUnrepaired func(*tokenizer.SyntaxError)
	OnEnd        func()
	OnClose      func()

	Logger log.Logger

	// ID identifies the stream in log messages.
	ID string

	rules []Rule
	tok   *tokenizer.Tokenizer

	// First error the stream failed with; it is returned by every later call.
	err    error
	ended  bool
	closed bool

	repaired, dropped int
}

var _ io.Writer = &Stream{}

// NewStream returns a Stream writing compact repaired JSON to w, one Write
// call per token.  Rules are not validated.
func NewStream(w io.Writer, rules []Rule) *Stream {
	return NewTokenStream(json.NewEncoder(w), rules)
}

// NewTokenStream returns a Stream sending repaired tokens to out instead of
// encoding them.
func NewTokenStream(out token.WriteStream, rules []Rule) *Stream {
	s := &Stream{
		Logger: log.Default,
		ID:     uuid.NewString(),
		rules:  rules,
	}
	s.tok = tokenizer.New(out, s.handleError)
	return s
}

// Write feeds p to the tokenizer.  It returns an error if the stream has
// ended, if writing downstream failed (a *format.PrinterError) or if a
// Strict stream met an error it could not repair.
func (s *Stream) Write(p []byte) (n int, err error) {
	if s.ended || s.closed {
		return 0, ErrClosed
	}
	if s.err != nil {
		return 0, s.err
	}
	defer func() {
		if err != nil {
			s.err = err
		}
	}()
	defer format.CatchPrinterError(&err)
	if err := s.tok.Feed(p); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUnrepaired, err)
	}
	return len(p), nil
}

// End signals the end of the input.  Pending output is flushed and OnEnd is
// called.
func (s *Stream) End() (err error) {
	if s.ended || s.closed {
		return ErrClosed
	}
	if s.err != nil {
		return s.err
	}
	s.ended = true
	defer func() {
		if err != nil {
			s.err = err
		}
	}()
	if err := s.flush(); err != nil {
		return err
	}
	if s.RequireComplete && !s.tok.Complete() {
		return fmt.Errorf("%w: input ends in state %s with stack %v", ErrIncomplete, s.tok.State(), s.tok.Stack())
	}
	s.Logger.Debugf("stream %s: ended, %d errors repaired, %d characters dropped", s.ID, s.repaired, s.dropped)
	if s.OnEnd != nil {
		s.OnEnd()
	}
	return nil
}

// Destroy closes the stream without flushing it.  OnClose is called the
// first time.
func (s *Stream) Destroy() {
	if s.closed {
		return
	}
	s.closed = true
	if s.OnClose != nil {
		s.OnClose()
	}
}

// Err returns the error the stream failed with, if any.
func (s *Stream) Err() error {
	return s.err
}

// Complete reports whether the input so far is made of complete JSON
// documents.
func (s *Stream) Complete() bool {
	return s.tok.Complete()
}

func (s *Stream) flush() (err error) {
	defer format.CatchPrinterError(&err)
	return s.tok.End()
}

func (s *Stream) handleError(synErr *tokenizer.SyntaxError) {
	matches := Matching(s.rules, synErr)
	if len(matches) == 0 {
		s.Logger.Debugf("stream %s: no rule for %s (state %s, stack %v)", s.ID, synErr, synErr.State, synErr.Stack)
		if s.OnUnrepaired != nil {
			s.OnUnrepaired(synErr)
		}
		if s.Strict {
			return
		}
		s.dropped++
		s.tok.Resume()
		return
	}
	h := handle{tok: s.tok}
	for _, r := range matches {
		s.Logger.Debugf("stream %s: applying rule %q at L%d,C%d", s.ID, r.Description, synErr.Pos.Line+1, synErr.Pos.Col+1)
		if r.Action != nil {
			r.Action(h)
		}
	}
	s.repaired++
	s.tok.Resume()
}

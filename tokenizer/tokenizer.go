// Package tokenizer implements a push tokenizer for JSON.  Input is fed in
// chunks of any size and structural tokens are emitted synchronously as
// soon as they are complete.
//
// On malformed input the tokenizer does not try to recover.  It reports a
// *SyntaxError to its error handler, which may inspect and rewrite the
// state and StateStack before calling Resume.  Lexing then carries on with
// the character after the offending one.  Outside strings a non-ASCII
// character is read whole, so the error carries the complete rune.
//
// The first document must be an object or an array: a leading top-level
// scalar such as 42 or "x" is rejected one character at a time in the BEGIN
// state.
package tokenizer

import (
	"unicode/utf16"
	"unicode/utf8"

	"github.com/arnodel/jsonrepair/internal/debug"
	"github.com/arnodel/jsonrepair/internal/scanner"
	"github.com/arnodel/jsonrepair/internal/stack"
	"github.com/arnodel/jsonrepair/token"
)

type Tokenizer struct {
	out     token.WriteStream
	onError func(*SyntaxError)

	scanr *scanner.Scanner
	state State
	stack *stack.Stack[State]

	// Decoded bytes of the string being read.  Once the string is closed it
	// stays pending until the next structural byte tells whether it was a
	// key or a value.
	text        []byte
	textPending bool

	// \uXXXX escape being read, and the high half of a surrogate pair
	// waiting for its low half.
	unicode       rune
	unicodeCount  int
	highSurrogate rune

	number        []byte
	numberSeenDot bool
	numberSeenExp bool

	// Character being read and where it starts.  Outside strings the bytes
	// of a multi-byte character are collected in runeBuf first.
	char    rune
	charPos scanner.Pos
	runeBuf []byte
	runePos scanner.Pos

	// Set while a SyntaxError has not been resolved by Resume.
	err *SyntaxError
}

// New returns a tokenizer emitting tokens to out.  onError is called on
// every syntax error; if it does not call Resume, Feed stops and returns
// the error.
func New(out token.WriteStream, onError func(*SyntaxError)) *Tokenizer {
	return &Tokenizer{
		out:     out,
		onError: onError,
		scanr:   scanner.NewScanner(),
		stack:   stack.NewWithCapacity[State](16),
	}
}

// Feed tokenizes chunk, emitting tokens as they are completed.
func (t *Tokenizer) Feed(chunk []byte) error {
	if t.err != nil {
		return t.err
	}
	t.scanr.Feed(chunk)
	for {
		c, ok := t.scanr.Read()
		if !ok {
			return nil
		}
		t.step(c)
		if t.err != nil {
			return t.err
		}
	}
}

// End signals there is no more input.  A number being read is closed and
// pending string text is emitted as a value.
func (t *Tokenizer) End() error {
	if t.err != nil {
		return t.err
	}
	if len(t.runeBuf) > 0 {
		t.char, t.charPos = utf8.RuneError, t.runePos
		t.runeBuf = t.runeBuf[:0]
		t.fail("truncated UTF-8 sequence")
		if t.err != nil {
			return t.err
		}
	}
	if t.state == NumberDigit {
		t.closeNumber()
	}
	t.flushText()
	return nil
}

// Complete reports whether the input so far is a sequence of complete
// top-level values.
func (t *Tokenizer) Complete() bool {
	return t.state == Value && t.stack.IsEmpty()
}

// Resume clears the current error so that lexing can continue.
func (t *Tokenizer) Resume() {
	t.err = nil
}

// Err returns the unresolved error, if any.
func (t *Tokenizer) Err() *SyntaxError {
	return t.err
}

func (t *Tokenizer) State() State {
	return t.state
}

func (t *Tokenizer) SetState(s State) {
	t.state = s
}

func (t *Tokenizer) Push(s State) {
	t.stack.Push(s)
}

func (t *Tokenizer) Pop() (State, bool) {
	return t.stack.Pop()
}

// Stack returns a copy of the StateStack, bottom to top.
func (t *Tokenizer) Stack() []State {
	return t.stack.ToSlice()
}

func (t *Tokenizer) Depth() int {
	return t.stack.Size()
}

// Pos returns the position after the last byte read.
func (t *Tokenizer) Pos() scanner.Pos {
	return t.scanr.CurrentPos()
}

// Emit sends tok downstream, after any pending string value.
func (t *Tokenizer) Emit(tok token.Token) {
	t.flushText()
	t.out.Put(tok)
}

func (t *Tokenizer) step(c byte) {
	if debug.On {
		debug.Printf("%s %v %q", t.state, t.stack.ToSlice(), c)
	}
	t.char, t.charPos = rune(c), t.scanr.LastPos()
	if t.state != String && t.state != StringEscape {
		switch {
		case c >= utf8.RuneSelf:
			if t.state == NumberDigit {
				t.closeNumber()
			}
			if !t.readRune(c) {
				return
			}
			// No state accepts a non-ASCII byte here, so the character is
			// rejected below like any other unexpected one.
		case len(t.runeBuf) > 0:
			// The sequence was cut short; c is read again after the error.
			t.char, t.charPos = utf8.RuneError, t.runePos
			t.runeBuf = t.runeBuf[:0]
			t.scanr.Back()
			c = utf8.RuneSelf
		}
	}
	switch t.state {
	case Begin:
		switch {
		case c == '{':
			t.state = OpenObject
		case c == '[':
			t.state = OpenArray
		case !scanner.IsSpace(c):
			t.fail("non-whitespace before {[")
		}

	case OpenKey, OpenObject:
		if scanner.IsSpace(c) {
			return
		}
		if t.state == OpenKey {
			t.stack.Push(CloseKey)
		} else {
			if c == '}' {
				t.out.Put(&token.StartObject{})
				t.out.Put(&token.EndObject{})
				t.state = t.popState()
				return
			}
			t.stack.Push(CloseObject)
		}
		if c == '"' {
			t.startString()
		} else {
			t.fail("malformed object key should start with '\"'")
		}

	case CloseKey, CloseObject:
		if scanner.IsSpace(c) {
			return
		}
		switch c {
		case ':':
			if t.state == CloseObject {
				t.stack.Push(CloseObject)
				if t.textPending {
					t.out.Put(&token.StartObject{Key: t.takeKey()})
				}
			} else if t.textPending {
				t.out.Put(t.takeKey())
			}
			t.state = Value
		case '}':
			t.Emit(&token.EndObject{})
			t.state = t.popState()
		case ',':
			if t.state == CloseObject {
				t.stack.Push(CloseObject)
			}
			t.flushText()
			t.state = OpenKey
		default:
			t.fail("bad object")
		}

	case OpenArray, Value:
		if scanner.IsSpace(c) {
			return
		}
		if t.state == OpenArray {
			t.out.Put(&token.StartArray{})
			t.state = Value
			if c == ']' {
				t.out.Put(&token.EndArray{})
				t.state = t.popState()
				return
			}
			t.stack.Push(CloseArray)
		}
		t.startValue(c)

	case CloseArray:
		switch {
		case c == ',':
			t.stack.Push(CloseArray)
			t.flushText()
			t.state = Value
		case c == ']':
			t.Emit(&token.EndArray{})
			t.state = t.popState()
		case !scanner.IsSpace(c):
			t.fail("bad array")
		}

	case String:
		switch c {
		case '"':
			t.flushSurrogate()
			t.textPending = true
			t.state = t.popState()
		case '\\':
			t.state = StringEscape
		default:
			t.flushSurrogate()
			t.text = append(t.text, c)
		}

	case StringEscape:
		t.state = String
		switch c {
		case 'u':
			t.unicode = 0
			t.unicodeCount = 0
			t.state = StringUnicode
			return
		case 'b':
			c = '\b'
		case 'f':
			c = '\f'
		case 'n':
			c = '\n'
		case 'r':
			c = '\r'
		case 't':
			c = '\t'
		}
		// Unknown escapes are kept as the escaped byte.
		t.flushSurrogate()
		t.text = append(t.text, c)

	case StringUnicode:
		if !scanner.IsHexDigit(c) {
			t.fail("expected hex digit")
			return
		}
		t.unicode = t.unicode<<4 | scanner.HexValue(c)
		t.unicodeCount++
		if t.unicodeCount == 4 {
			t.appendEscapedRune(t.unicode)
			t.state = String
		}

	case True:
		t.expectLiteralByte(c, 'r', True2)
	case True2:
		t.expectLiteralByte(c, 'u', True3)
	case True3:
		if t.expectLiteralByte(c, 'e', Value) {
			t.out.Put(token.TrueScalar)
			t.state = t.popState()
		}
	case False:
		t.expectLiteralByte(c, 'a', False2)
	case False2:
		t.expectLiteralByte(c, 'l', False3)
	case False3:
		t.expectLiteralByte(c, 's', False4)
	case False4:
		if t.expectLiteralByte(c, 'e', Value) {
			t.out.Put(token.FalseScalar)
			t.state = t.popState()
		}
	case Null:
		t.expectLiteralByte(c, 'u', Null2)
	case Null2:
		t.expectLiteralByte(c, 'l', Null3)
	case Null3:
		if t.expectLiteralByte(c, 'l', Value) {
			t.out.Put(token.NullScalar)
			t.state = t.popState()
		}

	case NumberSign, NumberDecimalPoint, NumberExponentSign:
		if !scanner.IsDigit(c) {
			t.fail("expected digit")
			return
		}
		t.number = append(t.number, c)
		t.state = NumberDigit
	case NumberExponent:
		switch {
		case c == '+' || c == '-':
			t.number = append(t.number, c)
			t.state = NumberExponentSign
		case scanner.IsDigit(c):
			t.number = append(t.number, c)
			t.state = NumberDigit
		default:
			t.fail("expected digit or sign")
		}
	case NumberDigit:
		switch {
		case scanner.IsDigit(c) && !t.leadingZero():
			t.number = append(t.number, c)
		case c == '.' && !t.numberSeenDot && !t.numberSeenExp:
			t.number = append(t.number, c)
			t.numberSeenDot = true
			t.state = NumberDecimalPoint
		case (c == 'e' || c == 'E') && !t.numberSeenExp:
			t.number = append(t.number, c)
			t.numberSeenExp = true
			t.state = NumberExponent
		default:
			// The byte does not belong to the number, so it is read again
			// in the state that follows the number.
			t.closeNumber()
			t.scanr.Back()
		}

	default:
		panic("invalid tokenizer state")
	}
}

// readRune collects the bytes of a non-ASCII character read outside a
// string.  It returns false until the character is complete.
func (t *Tokenizer) readRune(c byte) bool {
	if len(t.runeBuf) == 0 {
		t.runePos = t.scanr.LastPos()
	}
	t.runeBuf = append(t.runeBuf, c)
	if !utf8.FullRune(t.runeBuf) {
		return false
	}
	r, size := utf8.DecodeRune(t.runeBuf)
	if size < len(t.runeBuf) {
		// Invalid sequence: c may start the next character.
		t.scanr.Back()
	}
	t.char, t.charPos = r, t.runePos
	t.runeBuf = t.runeBuf[:0]
	return true
}

func (t *Tokenizer) startValue(c byte) {
	switch {
	case c == '"':
		t.startString()
	case c == '{':
		t.state = OpenObject
	case c == '[':
		t.state = OpenArray
	case c == 't':
		t.state = True
	case c == 'f':
		t.state = False
	case c == 'n':
		t.state = Null
	case c == '-':
		t.startNumber(c, NumberSign)
	case scanner.IsDigit(c):
		t.startNumber(c, NumberDigit)
	default:
		t.fail("bad value")
	}
}

func (t *Tokenizer) startString() {
	t.flushText()
	t.text = t.text[:0]
	t.highSurrogate = 0
	t.state = String
}

func (t *Tokenizer) startNumber(c byte, s State) {
	t.number = append(t.number[:0], c)
	t.numberSeenDot = false
	t.numberSeenExp = false
	t.state = s
}

// leadingZero is true when the integer part of the number is a single 0,
// which cannot be followed by more digits.
func (t *Tokenizer) leadingZero() bool {
	if t.numberSeenDot || t.numberSeenExp {
		return false
	}
	n := t.number
	if len(n) > 0 && n[0] == '-' {
		n = n[1:]
	}
	return len(n) == 1 && n[0] == '0'
}

func (t *Tokenizer) closeNumber() {
	literal := make([]byte, len(t.number))
	copy(literal, t.number)
	t.out.Put(token.NumberScalar(literal))
	t.number = t.number[:0]
	t.state = t.popState()
}

func (t *Tokenizer) expectLiteralByte(c, xc byte, next State) bool {
	if c != xc {
		t.fail("invalid literal")
		return false
	}
	t.state = next
	return true
}

func (t *Tokenizer) appendEscapedRune(r rune) {
	switch {
	case utf16.IsSurrogate(r) && r < 0xDC00:
		t.flushSurrogate()
		t.highSurrogate = r
		return
	case utf16.IsSurrogate(r) && t.highSurrogate != 0:
		r = utf16.DecodeRune(t.highSurrogate, r)
		t.highSurrogate = 0
	case utf16.IsSurrogate(r):
		r = utf8.RuneError
	default:
		t.flushSurrogate()
	}
	t.text = utf8.AppendRune(t.text, r)
}

// flushSurrogate replaces a high surrogate which was not followed by a low
// one.
func (t *Tokenizer) flushSurrogate() {
	if t.highSurrogate != 0 {
		t.text = utf8.AppendRune(t.text, utf8.RuneError)
		t.highSurrogate = 0
	}
}

// flushText emits pending string text as a value.
func (t *Tokenizer) flushText() {
	if !t.textPending {
		return
	}
	t.out.Put(token.StringScalar(string(t.text)))
	t.textPending = false
	t.text = t.text[:0]
}

func (t *Tokenizer) takeKey() *token.Scalar {
	key := token.KeyScalar(string(t.text))
	t.textPending = false
	t.text = t.text[:0]
	return key
}

func (t *Tokenizer) popState() State {
	if s, ok := t.stack.Pop(); ok {
		return s
	}
	return Value
}

// fail reports the current character as a syntax error.
func (t *Tokenizer) fail(msg string) {
	t.flushText()
	t.err = &SyntaxError{
		Char:  t.char,
		State: t.state,
		Stack: t.stack.ToSlice(),
		Pos:   t.charPos,
		Msg:   msg,
	}
	if t.onError != nil {
		t.onError(t.err)
	}
}

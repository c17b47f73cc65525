package scanner

type Pos struct {
	Line int
	Col  int
}

// A Scanner walks through chunks of input fed to it one at a time, keeping
// track of the line and column of the current position across chunks.
type Scanner struct {
	buf []byte

	// Current position in buf
	// 0 <= currentIndex <= len(buf)
	currentIndex int

	// Records lineno and colno of current position (from when the scanning
	// started)
	currentPos, prevPos Pos
}

func NewScanner() *Scanner {
	return &Scanner{prevPos: Pos{Line: -1}}
}

// Feed replaces the current chunk.  Any unread bytes of the previous chunk
// are discarded.
func (s *Scanner) Feed(chunk []byte) {
	s.buf = chunk
	s.currentIndex = 0
	s.prevPos.Line = -1
}

// Read returns the next byte in the current chunk.  It returns false when
// the chunk is exhausted.
func (s *Scanner) Read() (byte, bool) {
	if s.currentIndex >= len(s.buf) {
		return 0, false
	}
	b := s.buf[s.currentIndex]
	s.prevPos = s.currentPos
	switch {
	case b == '\n':
		s.currentPos.Line++
		s.currentPos.Col = 0
	case b < 0x80 || b >= 0xC0:
		// This is the first byte in an utf8-encoded codepoint
		s.currentPos.Col++
	}
	s.currentIndex++
	return b, true
}

// Back unreads the last byte read.  It can only be called once after a
// Read.
func (s *Scanner) Back() {
	if s.currentIndex <= 0 {
		panic("cannot go back from start")
	}
	if s.prevPos.Line < 0 {
		panic("cannot go back twice")
	}
	s.currentIndex--
	s.currentPos = s.prevPos
	s.prevPos.Line = -1
}

// CurrentPos is the position after the last byte read.
func (s *Scanner) CurrentPos() Pos {
	return s.currentPos
}

// LastPos is the position just before the last byte read, which is where
// that byte starts.
func (s *Scanner) LastPos() Pos {
	if s.prevPos.Line < 0 {
		return s.currentPos
	}
	return s.prevPos
}

package tokenizer

import (
	"fmt"

	"github.com/arnodel/jsonrepair/internal/scanner"
)

// A SyntaxError is the snapshot taken when the tokenizer rejects a
// character.
type SyntaxError struct {
	Char  rune    // the offending character
	State State   // the state the tokenizer was in
	Stack []State // a copy of the StateStack, bottom to top
	Pos   scanner.Pos
	Msg   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at L%d,C%d: %s: %q", e.Pos.Line+1, e.Pos.Col+1, e.Msg, e.Char)
}

package repair

import (
	"slices"

	"github.com/arnodel/jsonrepair/token"
	"github.com/arnodel/jsonrepair/tokenizer"
)

// A Rule describes how to repair one kind of malformed construct.  It
// applies when the tokenizer rejects Char while in a state whose intent
// includes Expected.
type Rule struct {
	Description string
	Char        rune
	Expected    tokenizer.State

	// Action mutates the grammar state through the Handle.  A nil Action
	// accepts the error and leaves the state alone.
	Action func(Handle)
}

// A Handle is the part of the tokenizer a rule action may touch.
type Handle interface {
	// Pop removes the top of the StateStack.  It returns false if the stack
	// was empty.
	Pop() (tokenizer.State, bool)
	Push(tokenizer.State)
	SetState(tokenizer.State)

	// TriggerEvent sends tok downstream as if the tokenizer had read it.
	TriggerEvent(tok token.Token)
}

type handle struct {
	tok *tokenizer.Tokenizer
}

var _ Handle = handle{}

func (h handle) Pop() (tokenizer.State, bool) {
	return h.tok.Pop()
}

func (h handle) Push(s tokenizer.State) {
	h.tok.Push(s)
}

func (h handle) SetState(s tokenizer.State) {
	h.tok.SetState(s)
}

func (h handle) TriggerEvent(tok token.Token) {
	h.tok.Emit(tok)
}

// ExpectedStates returns the intents the tokenizer may have had when it
// rejected a byte in the given state.  The grammar reuses some states for
// several positions, e.g. CLOSE_OBJECT is both "after the first key" and
// "after a member value", and rules are written against the intent.
//
// stack is the StateStack at the time of the error, bottom to top.
func ExpectedStates(state tokenizer.State, stack []tokenizer.State) []tokenizer.State {
	below, hasBelow := tokenizer.State(0), len(stack) > 0
	if hasBelow {
		below = stack[len(stack)-1]
	}
	expected := []tokenizer.State{state}
	switch state {
	case tokenizer.OpenObject:
		if hasBelow && below == tokenizer.CloseObject {
			expected = append(expected, tokenizer.OpenKey)
		}
	case tokenizer.CloseObject:
		if !hasBelow || below == tokenizer.CloseObject || below == tokenizer.CloseArray {
			expected = []tokenizer.State{tokenizer.CloseKey}
		}
	case tokenizer.Value:
		if hasBelow && below == tokenizer.CloseArray {
			expected = append(expected, tokenizer.OpenArray)
		}
	}
	return expected
}

// Matching returns the rules which apply to err, in table order.
func Matching(rules []Rule, err *tokenizer.SyntaxError) []*Rule {
	expected := ExpectedStates(err.State, err.Stack)
	var matches []*Rule
	for i := range rules {
		r := &rules[i]
		if r.Char == err.Char && slices.Contains(expected, r.Expected) {
			matches = append(matches, r)
		}
	}
	return matches
}

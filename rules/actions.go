// Package rules provides building blocks for repair rules, a library of
// rules for common mistakes and loading of rule tables from YAML.
package rules

import (
	"github.com/arnodel/jsonrepair/repair"
	"github.com/arnodel/jsonrepair/token"
	"github.com/arnodel/jsonrepair/tokenizer"
)

// An Action is the body of a repair.Rule.
type Action = func(repair.Handle)

// Pop drops the top of the StateStack.
func Pop(h repair.Handle) {
	h.Pop()
}

func Push(s tokenizer.State) Action {
	return func(h repair.Handle) {
		h.Push(s)
	}
}

func SetState(s tokenizer.State) Action {
	return func(h repair.Handle) {
		h.SetState(s)
	}
}

// Trigger emits tok as if the tokenizer had read it.
func Trigger(tok token.Token) Action {
	return func(h repair.Handle) {
		h.TriggerEvent(tok)
	}
}

// Restore pops the StateStack into the current state.  An empty stack
// means the top-level value is complete, so the state becomes VALUE.
func Restore(h repair.Handle) {
	s, ok := h.Pop()
	if !ok {
		s = tokenizer.Value
	}
	h.SetState(s)
}

// Skip accepts the error without changing anything, so the offending byte
// is dropped.
func Skip(repair.Handle) {}

// Seq runs actions in order.
func Seq(actions ...Action) Action {
	return func(h repair.Handle) {
		for _, a := range actions {
			a(h)
		}
	}
}

package tokenizer

import (
	"fmt"
	"strings"
)

// A State is what the tokenizer expects next.  The structural states
// (BEGIN to CLOSE_ARRAY) are also what the StateStack is made of; the
// remaining ones are lexical sub-states used inside strings and scalars.
type State uint8

const (
	Begin State = iota
	Value
	OpenObject
	CloseObject
	OpenKey
	CloseKey
	OpenArray
	CloseArray

	String
	StringEscape
	StringUnicode
	True
	True2
	True3
	False
	False2
	False3
	False4
	Null
	Null2
	Null3
	NumberSign
	NumberDigit
	NumberDecimalPoint
	NumberExponent
	NumberExponentSign

	stateCount
)

var stateNames = [stateCount]string{
	Begin:              "BEGIN",
	Value:              "VALUE",
	OpenObject:         "OPEN_OBJECT",
	CloseObject:        "CLOSE_OBJECT",
	OpenKey:            "OPEN_KEY",
	CloseKey:           "CLOSE_KEY",
	OpenArray:          "OPEN_ARRAY",
	CloseArray:         "CLOSE_ARRAY",
	String:             "STRING",
	StringEscape:       "STRING_ESCAPE",
	StringUnicode:      "STRING_UNICODE",
	True:               "TRUE",
	True2:              "TRUE2",
	True3:              "TRUE3",
	False:              "FALSE",
	False2:             "FALSE2",
	False3:             "FALSE3",
	False4:             "FALSE4",
	Null:               "NULL",
	Null2:              "NULL2",
	Null3:              "NULL3",
	NumberSign:         "NUMBER_SIGN",
	NumberDigit:        "NUMBER_DIGIT",
	NumberDecimalPoint: "NUMBER_DECIMAL_POINT",
	NumberExponent:     "NUMBER_EXPONENT",
	NumberExponentSign: "NUMBER_EXPONENT_SIGN",
}

func (s State) String() string {
	if s < stateCount {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// ParseState returns the State with the given name, e.g. "OPEN_KEY".  The
// match is case-insensitive.
func ParseState(name string) (State, error) {
	for s, n := range stateNames {
		if strings.EqualFold(n, name) {
			return State(s), nil
		}
	}
	return 0, fmt.Errorf("unknown grammar state %q", name)
}

// IsLexical reports whether s is a state inside a string, number or
// literal rather than between tokens.
func (s State) IsLexical() bool {
	return s >= String
}

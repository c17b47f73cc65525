package rules

import (
	"github.com/arnodel/jsonrepair/repair"
	"github.com/arnodel/jsonrepair/token"
	"github.com/arnodel/jsonrepair/tokenizer"
)

var (
	// {"a": 1,,"b": 2}
	DoubleCommaInObject = repair.Rule{
		Description: "Removing double commas after values in objects",
		Char:        ',',
		Expected:    tokenizer.OpenKey,
		Action:      Pop,
	}

	// [1, 2, 3,]
	TrailingCommaInArray = repair.Rule{
		Description: "Removing trailing comma within array",
		Char:        ']',
		Expected:    tokenizer.Value,
		Action:      Seq(Pop, Trigger(&token.EndArray{}), Restore),
	}

	// {"a": 1,}
	TrailingCommaInObject = repair.Rule{
		Description: "Removing trailing comma within object",
		Char:        '}',
		Expected:    tokenizer.OpenKey,
		Action:      Seq(Pop, Pop, Trigger(&token.EndObject{}), Restore),
	}

	// {"a": 1 "b": 2}
	MissingCommaInObject = repair.Rule{
		Description: "Inserting missing comma between object members",
		Char:        '"',
		Expected:    tokenizer.CloseKey,
		Action: Seq(
			Push(tokenizer.CloseObject),
			Push(tokenizer.CloseKey),
			SetState(tokenizer.String),
		),
	}

	// ["a" "b"]
	MissingCommaInArray = repair.Rule{
		Description: "Inserting missing comma before a string in array",
		Char:        '"',
		Expected:    tokenizer.CloseArray,
		Action:      Seq(Push(tokenizer.CloseArray), SetState(tokenizer.String)),
	}

	// [1,,2]
	DoubleCommaInArray = repair.Rule{
		Description: "Removing double commas in arrays",
		Char:        ',',
		Expected:    tokenizer.Value,
		Action:      Skip,
	}
)

// Default returns all the built-in rules.  The slice is new on every call.
func Default() []repair.Rule {
	return []repair.Rule{
		DoubleCommaInObject,
		TrailingCommaInArray,
		TrailingCommaInObject,
		MissingCommaInObject,
		MissingCommaInArray,
		DoubleCommaInArray,
	}
}

// Original returns the two rules jsonrepair started with: double commas in
// objects and trailing commas in arrays.
func Original() []repair.Rule {
	return []repair.Rule{
		DoubleCommaInObject,
		TrailingCommaInArray,
	}
}

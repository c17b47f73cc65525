package token

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// A Token is an item in a stream that encodes a JSON value
// For example, the JSON value
//
//	{"id": 123, "tags": ["important", "new"]}
//
// would be represented by the stream of Token (in pseudocode for
// clarity):
//
//	{"id":       -> StartObject(Key: Scalar("id", String))
//	123,         -> Scalar(123, Number)
//	"tags":      -> Scalar("tags", String, Key)
//	[            -> StartArray
//	"important", -> Scalar("important", String)
//	"new"        -> Scalar("new", String)
//	]            -> EndArray
//	}            -> EndObject
//
// The first key of an object travels with its StartObject, because a
// streaming tokenizer can only tell an object has started once its first
// key is complete.
type Token interface {
	fmt.Stringer
}

// StartObject represents the start of a JSON object (introduced by '{').
// Key is the first key of the object, nil for an empty object.
type StartObject struct {
	Key *Scalar
}

func (s *StartObject) String() string {
	if s.Key == nil {
		return "StartObject"
	}
	return fmt.Sprintf("StartObject(%s)", s.Key.Bytes)
}

var _ Token = &StartObject{}

// EndObject represents the end of a JSON object (introduced by '}')
type EndObject struct{}

func (e *EndObject) String() string {
	return "EndObject"
}

var _ Token = &EndObject{}

// StartArray represents the start of a JSON array (introduced by '[').
type StartArray struct{}

func (s *StartArray) String() string {
	return "StartArray"
}

var _ Token = &StartArray{}

// EndArray represents the end of a JSON array (introduced by ']')
type EndArray struct{}

func (e *EndArray) String() string {
	return "EndArray"
}

var _ Token = &EndArray{}

// Scalar is the type used to represent all scalar JSON values, i.e.
// - strings
// - numbers
// - booleans (to values)
// - null (a single value)
//
// Object keys are string scalars with the KeyMask flag set.
type Scalar struct {

	// Literal JSON representation of the value, e.g.
	// - the string "foo" is represented as []byte("\"foo\"")
	// - the number 123.5 is represented as []byte("123.5")
	// - the boolean true is represented as []byte("true")
	Bytes []byte

	// Type of the value
	TypeAndFlags uint8
}

func NewScalar(tp ScalarType, bytes []byte) *Scalar {
	return &Scalar{
		Bytes:        bytes,
		TypeAndFlags: uint8(tp),
	}
}

func (s *Scalar) Type() ScalarType {
	return (ScalarType(s.TypeAndFlags & TypeMask))
}

func (s *Scalar) IsKey() bool {
	return KeyMask&s.TypeAndFlags != 0
}

func (s *Scalar) IsUnescaped() bool {
	return UnescapedMask&s.TypeAndFlags != 0
}

func (s *Scalar) String() string {
	if s.IsKey() {
		return fmt.Sprintf("Key(%s)", s.Bytes)
	}
	return fmt.Sprintf("Scalar(%s)", s.Bytes)
}

// Equal reports whether s and t encode the same JSON value.  Keys and
// values compare equal if their values are equal.
func (s *Scalar) Equal(t *Scalar) bool {
	if s == nil || t == nil {
		return false
	}
	if s.Type() != t.Type() {
		return false
	}
	switch s.Type() {
	case Null:
		return true
	case Boolean:
		// The bytes are "true" or "false", so it's enough to compare the first one
		return s.Bytes[0] == t.Bytes[0]
	case String:
		if bytes.Equal(s.Bytes, t.Bytes) {
			return true
		}
		if s.IsUnescaped() && t.IsUnescaped() {
			return false
		}
	case Number:
		if bytes.Equal(s.Bytes, t.Bytes) {
			return true
		}
	default:
		panic("invalid scalar type")
	}
	// Fall back to slower conversion
	return s.ToGo() == t.ToGo()
}

// ToString panics if s is not a string.
func (s *Scalar) ToString() string {
	if s.IsUnescaped() {
		return string(s.Bytes[1 : len(s.Bytes)-1])
	}
	return s.ToGo().(string)
}

// ToGo converts s to a string, float64, bool or nil.
func (s *Scalar) ToGo() any {
	if s.Type() == String && s.IsUnescaped() {
		return string(s.Bytes[1 : len(s.Bytes)-1])
	}
	var v any
	if err := json.Unmarshal(s.Bytes, &v); err != nil {
		panic(err)
	}
	return v
}

// ScalarType encodes the four possible JSON scalar types.
type ScalarType uint8

const (
	Null               = 0x0 // the type of JSON null
	Boolean            = 0x1 // a JSON boolean
	Number             = 0x2 // a JSON number
	String  ScalarType = 0x3 // a JSON string
)

const (
	TypeMask      = 0b00011
	KeyMask       = 0b00100
	UnescapedMask = 0b10000
)

var (
	trueBytes  = []byte("true")
	falseBytes = []byte("false")
	nullBytes  = []byte("null")
)

var (
	TrueScalar  = NewScalar(Boolean, trueBytes)
	FalseScalar = NewScalar(Boolean, falseBytes)
	NullScalar  = NewScalar(Null, nullBytes)
)

// StringScalar returns the JSON encoding of s as a String scalar.  HTML
// characters are not escaped.
func StringScalar(s string) *Scalar {
	encodedBytes, err := json.MarshalWithOption(s, json.DisableHTMLEscape())
	if err != nil {
		panic(err)
	}
	scalar := NewScalar(String, encodedBytes)
	if len(encodedBytes) == len(s)+2 {
		scalar.TypeAndFlags |= UnescapedMask
	}
	return scalar
}

// KeyScalar is like StringScalar but returns an object key.
func KeyScalar(s string) *Scalar {
	scalar := StringScalar(s)
	scalar.TypeAndFlags |= KeyMask
	return scalar
}

// NumberScalar wraps a literal which must be a valid JSON number.
func NumberScalar(literal []byte) *Scalar {
	return NewScalar(Number, literal)
}

func BoolScalar(b bool) *Scalar {
	if b {
		return TrueScalar
	}
	return FalseScalar
}

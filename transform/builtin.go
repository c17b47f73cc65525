// Package transform contains stream transformers which can be applied to
// repaired token streams.
package transform

import (
	"github.com/arnodel/jsonrepair/internal/log"
	"github.com/arnodel/jsonrepair/token"
)

// MaxDepthFilter is a Transformer that truncates the stream to a given depth.
// Collections which are more deeply nested than MaxDepth are emptied.
//
// E.g.
//
//	[1, 2, {"x": [3, 4], "y": 2}]
//
// At MaxDepth=0:
//
//	[]
//
// At MaxDepth=1
//
//	[1, 2, {}]
//
// At MaxDepth=2
//
//	[1, 2, {"x": [], "y": 2}]
type MaxDepthFilter struct {
	MaxDepth int
}

// Transform implements the MaxDepthFilter transform.
func (f *MaxDepthFilter) Transform(in <-chan token.Token, out token.WriteStream) {
	depth := 0
	for item := range in {
		postIncr := 0
		switch item.(type) {
		case *token.StartArray, *token.StartObject:
			postIncr++
		case *token.EndArray, *token.EndObject:
			depth--
		}
		if depth == f.MaxDepth && postIncr > 0 {
			// The first key belongs to the elided contents.
			if _, ok := item.(*token.StartObject); ok {
				item = &token.StartObject{}
			}
		}
		if depth <= f.MaxDepth {
			out.Put(item)
		}
		depth += postIncr
	}
}

// JoinStream turns a stream of values into a JSON array.
//
// E.g.
//
//	[1] [2]        -> [[1], [2]]
//	<empty stream> -> []
type JoinStream struct{}

// Transform implements the JoinStream transform
func (f JoinStream) Transform(in <-chan token.Token, out token.WriteStream) {
	out.Put(&token.StartArray{})
	for item := range in {
		out.Put(item)
	}
	out.Put(&token.EndArray{})
}

// TraceStream logs all the stream items at debug level and sends them on
// unchanged.  It's useful for debugging repairs.
type TraceStream struct {
	Logger log.Logger
}

// Transform implements the TraceStream transform
func (t TraceStream) Transform(in <-chan token.Token, out token.WriteStream) {
	logger := t.Logger
	if logger == nil {
		logger = log.Default
	}
	for item := range in {
		logger.Debugf("token: %s", item)
		out.Put(item)
	}
}

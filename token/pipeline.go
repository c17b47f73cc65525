package token

// A StreamSource produces tokens, e.g. the repaired tokens of a malformed
// input.  Produce returns once the input is exhausted or fails.
type StreamSource interface {
	Produce(chan<- Token) error
}

// A StreamTransformer rewrites a token stream on its way to the sink.
type StreamTransformer interface {
	Transform(in <-chan Token, out WriteStream)
}

// A StreamSink consumes a token stream until it is closed.
type StreamSink interface {
	Consume(<-chan Token) error
}

// A Pipeline connects a source to a sink through transformers.  Each stage
// runs in its own goroutine except the sink.
type Pipeline struct {
	Source       StreamSource
	Transformers []StreamTransformer
	Sink         StreamSink
}

// Run streams all the tokens of the source to the sink.  A sink error wins
// over a source error.  If the sink stops early, the rest of the stream is
// drained so that the source can finish.
func (p *Pipeline) Run() error {
	var sourceErr error
	stream := StartStream(p.Source, func(err error) {
		sourceErr = err
	})
	for _, transformer := range p.Transformers {
		stream = TransformStream(stream, transformer)
	}
	if err := p.Sink.Consume(stream); err != nil {
		for range stream {
		}
		return err
	}
	// A sink may return before the end of the stream.
	for range stream {
	}
	return sourceErr
}

// TransformStream applies the transformer to in in a new goroutine and
// returns the transformed stream.
func TransformStream(in <-chan Token, transformer StreamTransformer) <-chan Token {
	out := make(chan Token)
	go func() {
		defer close(out)
		transformer.Transform(in, ChannelWriteStream(out))
	}()
	return out
}

// StartStream runs the source in a new goroutine and returns the stream of
// tokens it produces.  handleError, if not nil, receives the error returned
// by the source before the stream is closed.
func StartStream(source StreamSource, handleError func(error)) <-chan Token {
	out := make(chan Token)
	go func() {
		defer close(out)
		err := source.Produce(out)
		if err != nil && handleError != nil {
			handleError(err)
		}
	}()
	return out
}

package token

// A WriteStream receives tokens synchronously, in document order.
type WriteStream interface {
	Put(Token)
}

type ChannelWriteStream chan<- Token

var _ WriteStream = make(ChannelWriteStream)

func (w ChannelWriteStream) Put(tok Token) {
	w <- tok
}

type AccumulatorStream struct {
	toks []Token
}

var _ WriteStream = &AccumulatorStream{}

func NewAccumulatorStream() *AccumulatorStream {
	return &AccumulatorStream{}
}

func (w *AccumulatorStream) Put(tok Token) {
	w.toks = append(w.toks, tok)
}

func (w *AccumulatorStream) GetTokens() []Token {
	return w.toks
}

// WriteStreamFunc adapts a plain function to a WriteStream.
type WriteStreamFunc func(Token)

var _ WriteStream = WriteStreamFunc(nil)

func (f WriteStreamFunc) Put(tok Token) {
	f(tok)
}

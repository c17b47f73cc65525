package repair_test

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnodel/jsonrepair/internal/log"
	"github.com/arnodel/jsonrepair/repair"
	"github.com/arnodel/jsonrepair/rules"
	"github.com/arnodel/jsonrepair/token"
)

func collect(source token.StreamSource) ([]string, error) {
	var err error
	stream := token.StartStream(source, func(e error) { err = e })
	var toks []string
	for tok := range stream {
		toks = append(toks, tok.String())
	}
	return toks, err
}

func TestDecoder(t *testing.T) {
	dec := repair.NewDecoder(strings.NewReader(`{"a": [1, 2,],, "b": "x",}`), rules.Default())
	dec.BufferSize = 3
	dec.Logger = log.Nop
	toks, err := collect(dec)
	require.NoError(t, err)
	assert.Equal(t, []string{
		`StartObject("a")`, "StartArray", "Scalar(1)", "Scalar(2)", "EndArray",
		`Key("b")`, `Scalar("x")`, "EndObject",
	}, toks)
}

func TestDecoderReadError(t *testing.T) {
	errBoom := errors.New("boom")
	in := io.MultiReader(strings.NewReader(`[1, `), iotest.ErrReader(errBoom))
	dec := repair.NewDecoder(in, rules.Default())
	dec.Logger = log.Nop
	toks, err := collect(dec)
	assert.Same(t, errBoom, err)
	assert.Equal(t, []string{"StartArray", "Scalar(1)"}, toks)
}

func TestDecoderOptions(t *testing.T) {
	dec := repair.NewDecoder(strings.NewReader(`[1, 2`), rules.Default())
	dec.RequireComplete = true
	dec.Logger = log.Nop
	_, err := collect(dec)
	assert.ErrorIs(t, err, repair.ErrIncomplete)

	dec = repair.NewDecoder(strings.NewReader(`[1 x]`), rules.Default())
	dec.Strict = true
	dec.Logger = log.Nop
	_, err = collect(dec)
	assert.ErrorIs(t, err, repair.ErrUnrepaired)
}

package repair_test

import (
	"bytes"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/arnodel/jsonrepair/internal/format"
	"github.com/arnodel/jsonrepair/internal/log"
	"github.com/arnodel/jsonrepair/repair"
	"github.com/arnodel/jsonrepair/rules"
	"github.com/arnodel/jsonrepair/tokenizer"
)

func newStream(out *bytes.Buffer, rs []repair.Rule) *repair.Stream {
	s := repair.NewStream(out, rs)
	s.Logger = log.Nop
	return s
}

// writeChunks writes input to s split at the given offsets.
func writeChunks(t *testing.T, s *repair.Stream, input string, splits ...int) {
	t.Helper()
	start := 0
	for _, end := range append(splits, len(input)) {
		n, err := s.Write([]byte(input[start:end]))
		require.NoError(t, err)
		require.Equal(t, end-start, n)
		start = end
	}
}

func repairString(t *testing.T, rs []repair.Rule, input string, splits ...int) string {
	t.Helper()
	var out bytes.Buffer
	s := newStream(&out, rs)
	writeChunks(t, s, input, splits...)
	require.NoError(t, s.End())
	return out.String()
}

var malformedInputs = []string{
	`{"a": 1,,"b": 2}`,
	`[1, 2, 3,]`,
	`{"a": [1, 2,], "b": {"c": true,},}`,
	`[{"a": 1 "b": "x"}, "y" "z",]`,
	`[1,,2, x 3]`,
	`{"a": "é😀", "b": -1.5e+3,}`,
}

func TestExamples(t *testing.T) {
	assert.Equal(t, `{"a": 1, "b": 2}`, repairString(t, rules.Original(), `{"a": 1,,"b": 2}`))
	assert.Equal(t, `[1, 2, 3]`, repairString(t, rules.Original(), `[1, 2, 3,]`))
}

func TestHTMLCharactersAreKept(t *testing.T) {
	assert.Equal(t, `{"<k>": "<a&b>"}`, repairString(t, rules.Default(), `{"<k>": "<a&b>",}`))
}

func TestWellFormedRoundTrip(t *testing.T) {
	inputs := []string{
		`{}`,
		`[]`,
		`[[], {}]`,
		`{"a": 1, "b": [true, false, null], "c": {"d": "e"}}`,
		`["é", "a\"b", "tab\t", "<&>"]`,
		`[-1.5e3, 0, 10, 2E-7]`,
		"[1]\n{\"a\": 2}",
	}
	tables := map[string][]repair.Rule{
		"none":     nil,
		"original": rules.Original(),
		"default":  rules.Default(),
	}
	for name, rs := range tables {
		for _, input := range inputs {
			t.Run(name+"/"+input, func(t *testing.T) {
				var out bytes.Buffer
				s := newStream(&out, rs)
				s.OnUnrepaired = func(err *tokenizer.SyntaxError) {
					t.Errorf("unexpected error: %s", err)
				}
				writeChunks(t, s, input)
				require.NoError(t, s.End())
				assert.Equal(t, input, out.String())
				assert.True(t, s.Complete())
			})
		}
	}
}

func TestChunkBoundaryIndependence(t *testing.T) {
	for _, input := range malformedInputs {
		t.Run(input, func(t *testing.T) {
			whole := repairString(t, rules.Default(), input)
			for i := 0; i <= len(input); i++ {
				assert.Equal(t, whole, repairString(t, rules.Default(), input, i), "split at %d", i)
			}
			var bytewise []int
			for i := 1; i < len(input); i++ {
				bytewise = append(bytewise, i)
			}
			assert.Equal(t, whole, repairString(t, rules.Default(), input, bytewise...))
		})
	}
}

var separatorBeforeClose = regexp.MustCompile(`,\s*[\]}]`)

func TestNoSeparatorBeforeClose(t *testing.T) {
	for _, input := range malformedInputs {
		t.Run(input, func(t *testing.T) {
			out := repairString(t, rules.Default(), input)
			assert.NotRegexp(t, separatorBeforeClose, out)
			assert.False(t, strings.HasSuffix(out, ", "))
			assert.False(t, strings.HasSuffix(out, "\n"))
		})
	}
}

func TestUnmatchedErrorsAreDropped(t *testing.T) {
	var out bytes.Buffer
	s := newStream(&out, rules.Default())
	var unrepaired []*tokenizer.SyntaxError
	s.OnUnrepaired = func(err *tokenizer.SyntaxError) {
		unrepaired = append(unrepaired, err)
	}
	writeChunks(t, s, `[1, 2 x, 3]`)
	require.NoError(t, s.End())
	assert.Equal(t, `[1, 2, 3]`, out.String())
	require.Len(t, unrepaired, 1)
	assert.Equal(t, 'x', unrepaired[0].Char)
	assert.Equal(t, tokenizer.CloseArray, unrepaired[0].State)
}

func TestStrict(t *testing.T) {
	var out bytes.Buffer
	s := newStream(&out, rules.Default())
	s.Strict = true
	unrepaired := 0
	s.OnUnrepaired = func(*tokenizer.SyntaxError) { unrepaired++ }

	// Repairable errors are still repaired.
	writeChunks(t, s, `[1, 2,] `)

	_, err := s.Write([]byte(`[1 x]`))
	require.ErrorIs(t, err, repair.ErrUnrepaired)
	var synErr *tokenizer.SyntaxError
	require.ErrorAs(t, err, &synErr)
	assert.Equal(t, 'x', synErr.Char)
	assert.Equal(t, 1, unrepaired)
	assert.Equal(t, err, s.Err())

	_, err2 := s.Write([]byte(`[2]`))
	assert.Equal(t, err, err2)
	assert.Equal(t, err, s.End())
	assert.Equal(t, "[1, 2]\n[1", out.String())
}

func TestRequireComplete(t *testing.T) {
	var out bytes.Buffer
	s := newStream(&out, rules.Default())
	s.RequireComplete = true
	ended := false
	s.OnEnd = func() { ended = true }
	writeChunks(t, s, `[1, {"a": 2`)
	err := s.End()
	require.ErrorIs(t, err, repair.ErrIncomplete)
	assert.Contains(t, err.Error(), "CLOSE_OBJECT")
	assert.False(t, ended)
	assert.Equal(t, `[1, {"a": 2`, out.String())
}

func TestEndIsLenientByDefault(t *testing.T) {
	var out bytes.Buffer
	s := newStream(&out, rules.Default())
	ended := 0
	s.OnEnd = func() { ended++ }
	writeChunks(t, s, `["a", "b"`)
	require.NoError(t, s.End())
	assert.Equal(t, 1, ended)
	assert.Equal(t, `["a", "b"`, out.String())
	assert.False(t, s.Complete())

	assert.ErrorIs(t, s.End(), repair.ErrClosed)
	assert.Equal(t, 1, ended)
}

func TestClosedStream(t *testing.T) {
	var out bytes.Buffer
	s := newStream(&out, rules.Default())
	writeChunks(t, s, `[1]`)
	require.NoError(t, s.End())
	_, err := s.Write([]byte(`[2]`))
	assert.ErrorIs(t, err, repair.ErrClosed)

	s = newStream(&out, rules.Default())
	closed := 0
	s.OnClose = func() { closed++ }
	s.Destroy()
	s.Destroy()
	assert.Equal(t, 1, closed)
	_, err = s.Write([]byte(`[2]`))
	assert.ErrorIs(t, err, repair.ErrClosed)
	assert.ErrorIs(t, s.End(), repair.ErrClosed)
}

func TestAllMatchingRulesRun(t *testing.T) {
	rs := []repair.Rule{rules.DoubleCommaInObject, rules.DoubleCommaInObject}
	// Both rules pop, so the object is closed too early and the final brace
	// is dropped.
	assert.Equal(t, `{"a": 1, "b": 2`, repairString(t, rs, `{"a": 1,,"b": 2}`))
}

type failingWriter struct{}

var errBrokenPipe = errors.New("broken pipe")

func (failingWriter) Write([]byte) (int, error) {
	return 0, errBrokenPipe
}

func TestDownstreamError(t *testing.T) {
	s := repair.NewStream(failingWriter{}, rules.Default())
	s.Logger = log.Nop
	_, err := s.Write([]byte(`[1]`))
	var perr *format.PrinterError
	require.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, err, errBrokenPipe)
	_, err2 := s.Write([]byte(`[1]`))
	assert.Equal(t, err, err2)
}

func TestLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	var out bytes.Buffer
	s := repair.NewStream(&out, rules.Default())
	s.Logger = zap.New(core).Sugar()
	writeChunks(t, s, `{"a": 1,,"b": 2 x}`)
	require.NoError(t, s.End())

	applied := logs.FilterMessageSnippet("applying rule").All()
	require.Len(t, applied, 1)
	assert.Contains(t, applied[0].Message, s.ID)
	assert.Contains(t, applied[0].Message, rules.DoubleCommaInObject.Description)
	assert.Equal(t, zapcore.DebugLevel, applied[0].Level)

	unmatched := logs.FilterMessageSnippet("no rule for").All()
	require.Len(t, unmatched, 1)
	assert.Contains(t, unmatched[0].Message, "CLOSE_OBJECT")

	assert.Equal(t, 1, logs.FilterMessageSnippet("1 errors repaired, 1 characters dropped").Len())
}

func TestStreamIDs(t *testing.T) {
	var out bytes.Buffer
	s1 := repair.NewStream(&out, nil)
	s2 := repair.NewStream(&out, nil)
	assert.NotEmpty(t, s1.ID)
	assert.NotEqual(t, s1.ID, s2.ID)
}

func TestNonASCIITrigger(t *testing.T) {
	input := `[1, “2]`
	var out bytes.Buffer
	s := newStream(&out, rules.Default())
	var unrepaired []*tokenizer.SyntaxError
	s.OnUnrepaired = func(err *tokenizer.SyntaxError) {
		unrepaired = append(unrepaired, err)
	}
	writeChunks(t, s, input, 5, 6)
	require.NoError(t, s.End())
	assert.Equal(t, `[1, 2]`, out.String())
	require.Len(t, unrepaired, 1)
	assert.Equal(t, '“', unrepaired[0].Char)

	// A rule can target the whole character.
	skipQuote := append(rules.Default(), repair.Rule{
		Description: "stray curly quote",
		Char:        '“',
		Expected:    tokenizer.Value,
	})
	out.Reset()
	s = newStream(&out, skipQuote)
	s.OnUnrepaired = func(err *tokenizer.SyntaxError) {
		t.Errorf("unexpected unrepaired error: %v", err)
	}
	writeChunks(t, s, input, 5, 6)
	require.NoError(t, s.End())
	assert.Equal(t, `[1, 2]`, out.String())
}

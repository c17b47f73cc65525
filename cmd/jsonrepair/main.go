package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/arnodel/jsonrepair/encoding/json"
	"github.com/arnodel/jsonrepair/internal/format"
	"github.com/arnodel/jsonrepair/internal/log"
	"github.com/arnodel/jsonrepair/repair"
	"github.com/arnodel/jsonrepair/rules"
	"github.com/arnodel/jsonrepair/token"
	"github.com/arnodel/jsonrepair/transform"
)

func main() {
	// Do not handle SIGPIPE, we'll do it ourselves (see error handling in run).
	signal.Ignore(syscall.SIGPIPE)

	// Display a stack trace on panic
	defer func() {
		if e := recover(); e != nil {
			fmt.Fprintf(os.Stderr, "%s: %s", e, debug.Stack())
			os.Exit(2)
		}
	}()

	var stdout io.Writer = os.Stdout
	tty := isatty.IsTerminal(os.Stdout.Fd())
	if tty {
		stdout = colorable.NewColorableStdout()
	}
	os.Exit(run(os.Args[1:], os.Stdin, stdout, os.Stderr, tty))
}

type options struct {
	rulesFile       string
	original        bool
	strict          bool
	requireComplete bool
	colorMode       string
	logLevel        string
	join            bool
	trace           bool
	maxDepth        int
}

// run repairs each file named in args, or stdin if there are none, and
// returns the exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer, tty bool) int {
	var opts options
	flags := flag.NewFlagSet("jsonrepair", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() { printUsage(stderr) }
	flags.StringVar(&opts.rulesFile, "rules", "", "YAML rule table (default: built-in rules)")
	flags.BoolVar(&opts.original, "original", false, "only use the double comma and trailing comma rules")
	flags.BoolVar(&opts.strict, "strict", false, "fail on errors no rule repairs")
	flags.BoolVar(&opts.requireComplete, "require-complete", false, "fail on truncated input")
	flags.StringVar(&opts.colorMode, "color", "auto", "colorize output: auto, always, never")
	flags.StringVar(&opts.logLevel, "log-level", log.LevelWarn, "log level: debug, info, warn, error")
	flags.BoolVar(&opts.join, "join", false, "join the documents of each input into an array")
	flags.BoolVar(&opts.trace, "trace", false, "log repaired tokens (at debug level)")
	flags.IntVar(&opts.maxDepth, "max-depth", -1, "empty collections nested deeper than N")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}
	log.SetLevel(opts.logLevel)
	if opts.trace {
		log.SetLevel(log.LevelDebug)
	}

	var colorizer *format.Colorizer
	switch opts.colorMode {
	case "always":
		colorizer = &format.DefaultColorizer
	case "never":
	case "auto":
		if tty {
			colorizer = &format.DefaultColorizer
		}
	default:
		fmt.Fprintf(stderr, "invalid -color value: %q (use auto, always, or never)\n", opts.colorMode)
		return 1
	}

	table, err := loadRules(opts)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", err)
		return 1
	}

	// Write the output stream to stdout
	out := bufio.NewWriter(stdout)
	defer out.Flush()
	printer := &format.DefaultPrinter{Writer: out}

	// If we are writing to a terminal, flush after each token so the user
	// gets feedback early.
	if tty {
		printer.Flusher = out
	}

	inputs := flags.Args()
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}
	for _, name := range inputs {
		err := repairInput(name, stdin, printer, colorizer, table, transformers(opts))
		if err == nil {
			err = printNewLine(printer)
		}
		if err != nil {
			if errors.Is(err, syscall.EPIPE) {
				// stdout is a pipe and something closed it (e.g. 'head' or 'less').
				// In this case we don't want to complain.
				return 0
			}
			out.Flush()
			fmt.Fprintf(stderr, "error: %s: %s\n", name, err)
			return 1
		}
	}
	if err := out.Flush(); err != nil && !errors.Is(err, syscall.EPIPE) {
		fmt.Fprintf(stderr, "error: %s\n", err)
		return 1
	}
	return 0
}

func loadRules(opts options) (*rules.Table, error) {
	var table *rules.Table
	switch {
	case opts.rulesFile != "" && opts.original:
		return nil, errors.New("-rules and -original cannot be used together")
	case opts.rulesFile != "":
		var err error
		table, err = rules.LoadFile(opts.rulesFile)
		if err != nil {
			return nil, err
		}
	case opts.original:
		table = &rules.Table{Rules: rules.Original()}
	default:
		table = &rules.Table{Rules: rules.Default()}
	}
	table.Strict = table.Strict || opts.strict
	table.RequireComplete = table.RequireComplete || opts.requireComplete
	return table, nil
}

// repairInput streams the named input ("-" for stdin) through the repair
// decoder into the printer.
func repairInput(name string, stdin io.Reader, printer format.Printer, colorizer *format.Colorizer, table *rules.Table, transformers []token.StreamTransformer) error {
	in := stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	decoder := repair.NewDecoder(in, table.Rules)
	decoder.Strict = table.Strict
	decoder.RequireComplete = table.RequireComplete

	pipeline := token.Pipeline{
		Source:       decoder,
		Transformers: transformers,
		Sink:         &json.Encoder{Printer: printer, Colorizer: colorizer},
	}
	return pipeline.Run()
}

// transformers returns the transforms to apply to each repaired stream, in
// order.
func transformers(opts options) []token.StreamTransformer {
	var ts []token.StreamTransformer
	if opts.trace {
		ts = append(ts, transform.TraceStream{Logger: log.Default})
	}
	if opts.maxDepth >= 0 {
		ts = append(ts, &transform.MaxDepthFilter{MaxDepth: opts.maxDepth})
	}
	if opts.join {
		ts = append(ts, transform.JoinStream{})
	}
	return ts
}

func printNewLine(p format.Printer) (err error) {
	defer format.CatchPrinterError(&err)
	p.PrintBytes([]byte{'\n'})
	return nil
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `jsonrepair - repair malformed JSON as it streams

USAGE:
  jsonrepair [options] [file ...]

DESCRIPTION:
  jsonrepair reads each file (or stdin if no file is given) and writes it to
  stdout as compact JSON, one line per input.  Mistakes described by the rule
  table are repaired as they are met; characters no rule can explain are dropped.

  The built-in rules repair:
    {"a": 1,,"b": 2}     double commas in objects
    [1,,2]               double commas in arrays
    [1, 2, 3,]           trailing commas in arrays
    {"a": 1,}            trailing commas in objects
    {"a": 1 "b": 2}      missing commas between object members
    ["a" "b"]            missing commas before strings in arrays

OPTIONS:
  -rules FILE         Load the rule table from a YAML file
  -original           Only repair double commas in objects and trailing
                      commas in arrays
  -strict             Fail when no rule repairs an error
  -require-complete   Fail when the input stops inside a value
  -color MODE         Control color output (default: auto)
                      Modes: auto, always, never
  -log-level LEVEL    Log level on stderr (default: warn)
                      Levels: debug, info, warn, error

TRANSFORMS:
  -join               Join the documents of each input into one array
  -max-depth N        Empty collections nested deeper than N
  -trace              Log every repaired token on stderr

EXAMPLES:
  # Repair a file
  jsonrepair broken.json

  # See which rules are applied
  jsonrepair -log-level debug < broken.json
`)
}

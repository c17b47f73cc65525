// Package jsonrepair repairs malformed JSON while it streams in.
//
// The module is organized into several packages:
//
// - tokenizer: push tokenizer which stops on malformed input and lets the
// caller rewrite its grammar state before resuming
// - repair: the repair engine (Stream, Decoder) and the Rule type
// - rules: built-in rules and YAML rule tables
// - encoding/json: compact JSON encoder which never writes a separator
// before a closing bracket
// - transform: stream transformers (join, max depth, trace)
// - token: core token-based streaming infrastructure
//
// These can be combined to form a pipeline:
//
//	malformed input -> tokenizer + rules -> transform_1 -> ... -> encode JSON
//
// Each stage is a streaming operation, so output is produced as soon as
// input arrives and memory usage does not grow with the size of the
// document.  Only the mistakes described by the rule table are repaired;
// any other offending character is dropped.
//
// The jsonrepair command in cmd/jsonrepair repairs files or stdin.
package jsonrepair

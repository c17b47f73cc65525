package rules

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-yaml"

	"github.com/arnodel/jsonrepair/repair"
	"github.com/arnodel/jsonrepair/token"
	"github.com/arnodel/jsonrepair/tokenizer"
)

var ErrRuleTable = errors.New("invalid rule table")

// A Table is a rule table together with the stream options it was written
// for.
type Table struct {
	Strict          bool
	RequireComplete bool
	Rules           []repair.Rule
}

// A rule table looks like this:
//
//	strict: false
//	require_complete: false
//	rules:
//	  - description: Removing trailing comma within array
//	    character: "]"
//	    expected: VALUE
//	    actions:
//	      - op: pop
//	      - op: trigger
//	        event: close_array
//	      - op: restore
type tableYAML struct {
	Strict          bool       `yaml:"strict"`
	RequireComplete bool       `yaml:"require_complete"`
	Rules           []ruleYAML `yaml:"rules"`
}

type ruleYAML struct {
	Description string       `yaml:"description"`
	Character   string       `yaml:"character"`
	Expected    string       `yaml:"expected"`
	Actions     []actionYAML `yaml:"actions"`
}

type actionYAML struct {
	Op    string `yaml:"op"`
	State string `yaml:"state,omitempty"`
	Event string `yaml:"event,omitempty"`
}

// Load decodes a YAML rule table.  Errors wrap ErrRuleTable.
func Load(r io.Reader) (*Table, error) {
	decoder := yaml.NewDecoder(r, yaml.DisallowUnknownField())
	var t tableYAML
	if err := decoder.Decode(&t); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrRuleTable)
		}
		return nil, fmt.Errorf("%w: failed to decode YAML: %v", ErrRuleTable, err)
	}
	table := &Table{
		Strict:          t.Strict,
		RequireComplete: t.RequireComplete,
		Rules:           make([]repair.Rule, 0, len(t.Rules)),
	}
	for i, ry := range t.Rules {
		rule, err := ry.compile()
		if err != nil {
			return nil, fmt.Errorf("%w: rule %d (%s): %v", ErrRuleTable, i+1, ry.Description, err)
		}
		table.Rules = append(table.Rules, rule)
	}
	return table, nil
}

// LoadFile loads the rule table in the file at path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

func (ry ruleYAML) compile() (repair.Rule, error) {
	char, size := utf8.DecodeRuneInString(ry.Character)
	if size == 0 || size != len(ry.Character) || char == utf8.RuneError {
		return repair.Rule{}, fmt.Errorf("character must be a single character, got %q", ry.Character)
	}
	expected, err := tokenizer.ParseState(ry.Expected)
	if err != nil {
		return repair.Rule{}, err
	}
	actions := make([]Action, len(ry.Actions))
	for i, ay := range ry.Actions {
		actions[i], err = ay.compile()
		if err != nil {
			return repair.Rule{}, fmt.Errorf("action %d: %v", i+1, err)
		}
	}
	return repair.Rule{
		Description: ry.Description,
		Char:        char,
		Expected:    expected,
		Action:      Seq(actions...),
	}, nil
}

func (ay actionYAML) compile() (Action, error) {
	op := strings.ToLower(ay.Op)
	switch op {
	case "pop":
		return Pop, nil
	case "push", "set":
		if ay.State == "" {
			return nil, fmt.Errorf("%s needs a state", op)
		}
		s, err := tokenizer.ParseState(ay.State)
		if err != nil {
			return nil, err
		}
		if op == "push" {
			return Push(s), nil
		}
		return SetState(s), nil
	case "trigger":
		tok, err := parseEvent(ay.Event)
		if err != nil {
			return nil, err
		}
		return Trigger(tok), nil
	case "restore":
		return Restore, nil
	case "skip":
		return Skip, nil
	default:
		return nil, fmt.Errorf("unknown op %q", ay.Op)
	}
}

func parseEvent(name string) (token.Token, error) {
	switch strings.ToLower(name) {
	case "open_object":
		return &token.StartObject{}, nil
	case "close_object":
		return &token.EndObject{}, nil
	case "open_array":
		return &token.StartArray{}, nil
	case "close_array":
		return &token.EndArray{}, nil
	default:
		return nil, fmt.Errorf("unknown event %q", name)
	}
}

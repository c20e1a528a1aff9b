package repl

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/empl/config"
	"github.com/ardnew/empl/lang"
	"github.com/ardnew/empl/lang/lexer"
)

// Stage selects how far each line of input is processed.
type Stage int

const (
	StageLex   Stage = iota // print lexemes
	StageParse              // print the canonical syntax tree
	StageEval               // evaluate and print values
)

var stageNames = [...]string{
	StageLex:   "lex",
	StageParse: "parse",
	StageEval:  "eval",
}

// Stages returns the stage names in processing order.
func Stages() []string { return slices.Clone(stageNames[:]) }

// ParseStage returns the stage named s.
func ParseStage(s string) (Stage, error) {
	i := slices.Index(stageNames[:], strings.ToLower(s))
	if i < 0 {
		return 0, ErrUnknownStage.With(slog.String("stage", s))
	}

	return Stage(i), nil
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "Stage(" + strconv.Itoa(int(s)) + ")"
	}

	return stageNames[s]
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Stage) UnmarshalText(text []byte) (err error) {
	*s, err = ParseStage(string(text))

	return err
}

// session holds the state that persists between lines: one environment, the
// configuration its set-cfg! calls have built, and the transcript of lines
// processed without error.
type session struct {
	stage      Stage
	opts       []lang.Option
	env        *lang.Environment
	cfg        *config.Intermediate
	transcript []string
}

func newSession(stage Stage, opts ...lang.Option) *session {
	s := &session{stage: stage, opts: slices.Clip(opts)}
	s.reset()

	return s
}

// reset discards every binding and the transcript.
func (s *session) reset() {
	s.cfg = new(config.Intermediate)
	s.env = lang.NewEnvironment(append(s.opts, lang.WithFns(s.cfg.SetCfg()))...)
	s.transcript = nil
}

// exec processes one line and returns one output line per form. On error,
// the output of the forms preceding the failure is returned with it.
func (s *session) exec(input string) ([]string, error) {
	out, err := s.process(input)
	if err == nil {
		s.transcript = append(s.transcript, input)
	}

	return out, err
}

func (s *session) process(input string) ([]string, error) {
	if s.stage == StageLex {
		lexemes, err := lexer.All(input)
		if err != nil {
			return nil, lang.ErrSyntax.Wrap(err)
		}

		parts := make([]string, 0, len(lexemes))
		for _, lx := range lexemes {
			if lx.Kind != lexer.Whitespace {
				parts = append(parts, lx.String())
			}
		}

		return []string{strings.Join(parts, " ")}, nil
	}

	forms, err := lang.ParseForms(input)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(forms))

	for _, form := range forms {
		if s.stage == StageParse {
			out = append(out, form.String())

			continue
		}

		v, err := s.env.Eval(form)
		if err != nil {
			return out, err
		}

		out = append(out, v.String())
	}

	return out, nil
}

// source returns the transcript as a script, one line per entry.
func (s *session) source() string {
	if len(s.transcript) == 0 {
		return ""
	}

	return strings.Join(s.transcript, "\n") + "\n"
}

// replay returns a fresh session of the same stage that has processed src
// as a single entry.
func (s *session) replay(src string) (*session, []string, error) {
	next := newSession(s.stage, s.opts...)

	src = strings.TrimSpace(src)
	if src == "" {
		return next, nil, nil
	}

	out, err := next.exec(src)
	if err != nil {
		return nil, out, err
	}

	return next, out, nil
}

// bindings returns every visible name with a short preview of its value.
func (s *session) bindings() []binding {
	names := s.env.Names()
	bs := make([]binding, 0, len(names))

	for _, name := range names {
		v, err := s.env.Get(name)
		if err != nil {
			continue
		}

		bs = append(bs, binding{name: name, preview: preview(v)})
	}

	return bs
}

type binding struct {
	name    string
	preview string
}

const previewWidth = 40

func preview(v lang.Value) string {
	var text string

	if fn, ok := v.(*lang.Fn); ok && fn.Usage() != "" {
		text = fn.Usage()
	} else {
		text = v.String()
	}

	if len(text) > previewWidth {
		return text[:previewWidth-3] + "..."
	}

	return text
}

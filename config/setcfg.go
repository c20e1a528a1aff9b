package config

import (
	"log/slog"

	"github.com/ardnew/empl/lang"
)

// Fields lists the fields accepted by set-cfg!.
var Fields = []string{
	"cursor-colors",
	"menu-colors",
	"selection-colors",
	"key-bindings",
	"playlists",
}

// SetCfg returns the set-cfg! function, which stores into i:
//
//	(set-cfg! field value)
//
// field evaluates to one of [Fields]. Setting a field again replaces it.
func (i *Intermediate) SetCfg() *lang.Fn {
	return lang.NewFn("set-cfg!", lang.Static(2), func(env *lang.Environment, args []lang.Expr) (lang.Value, error) {
		field, err := lang.EvalAs[lang.String](env, args[0])
		if err != nil {
			return nil, err
		}

		v, err := env.Eval(args[1])
		if err != nil {
			return nil, err
		}

		if err := i.set(string(field), v); err != nil {
			return nil, err
		}

		return lang.Unit{}, nil
	}).WithUsage("(set-cfg! field value)")
}

// set stores v into field, leaving i unchanged on error.
func (i *Intermediate) set(field string, v lang.Value) error {
	next := *i

	var err error

	switch field {
	case "cursor-colors":
		next.CursorColors, err = colorsOf(v)
	case "menu-colors":
		next.MenuColors, err = colorsOf(v)
	case "selection-colors":
		next.SelectionColors, err = colorsOf(v)
	case "key-bindings":
		next.KeyBindings, err = bindingsOf(v)
	case "playlists":
		next.Playlists, err = playlistsOf(v)
	default:
		return ErrUnknownCfgField.With(slog.String("field", field))
	}

	if err != nil {
		return lang.WrapError(err).With(slog.String("field", field))
	}

	*i = next

	return nil
}

func bindingsOf(v lang.Value) (Bindings, error) {
	l, err := lang.As[*lang.List](v)
	if err != nil {
		return nil, err
	}

	if l.Empty() {
		return nil, lang.ErrWrongArity.With(
			slog.String("arity", lang.RangeFrom(1).String()),
			slog.Int("actual", 0),
		)
	}

	bs := make(Bindings, 0, l.Len())

	for item := range l.All() {
		b, err := keyBindingOf(item)
		if err != nil {
			return nil, err
		}

		bs = append(bs, b)
	}

	return bs, nil
}

func playlistsOf(v lang.Value) ([]Playlist, error) {
	l, err := lang.As[*lang.List](v)
	if err != nil {
		return nil, err
	}

	ps := make([]Playlist, 0, l.Len())

	for item := range l.All() {
		p, err := playlistOf(item)
		if err != nil {
			return nil, err
		}

		ps = append(ps, p)
	}

	return ps, nil
}

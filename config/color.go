package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/empl/lang"
)

// Color is a terminal color: either one of the named colors or a 24-bit RGB
// value. A nil *Color means the color is left unset.
type Color struct {
	Name    string
	R, G, B uint8
}

// ansi maps color names to their 16-color palette index. Reset has no index.
var ansi = map[string]int{
	"black":        0,
	"dark-red":     1,
	"dark-green":   2,
	"dark-yellow":  3,
	"dark-blue":    4,
	"dark-magenta": 5,
	"dark-cyan":    6,
	"grey":         7,
	"dark-grey":    8,
	"red":          9,
	"green":        10,
	"yellow":       11,
	"blue":         12,
	"magenta":      13,
	"cyan":         14,
	"white":        15,
	"reset":        -1,
}

// ColorNames returns the accepted color names in palette order.
func ColorNames() []string {
	names := make([]string, len(ansi))
	for name, i := range ansi {
		if i < 0 {
			i = len(ansi) - 1
		}

		names[i] = name
	}

	return names
}

// ParseColor parses a color name, case-insensitively and with '_' accepted
// in place of '-'. The name "none" yields nil.
func ParseColor(name string) (*Color, error) {
	norm := strings.ReplaceAll(strings.ToLower(name), "_", "-")
	if norm == "none" {
		return nil, nil
	}

	if _, ok := ansi[norm]; !ok {
		return nil, ErrInvalidColor.With(slog.String("name", name))
	}

	return &Color{Name: norm}, nil
}

// RGB returns the 24-bit color r, g, b.
func RGB(r, g, b uint8) *Color { return &Color{R: r, G: g, B: b} }

// colorOf converts a value to a color: a list of three Ints in 0..255, a
// color name, or "none".
func colorOf(v lang.Value) (*Color, error) {
	switch v := v.(type) {
	case lang.String:
		return ParseColor(string(v))

	case *lang.List:
		if v.Len() != 3 {
			return nil, lang.ErrWrongListArity.With(
				slog.String("arity", lang.Static(3).String()),
				slog.Int("actual", v.Len()),
			)
		}

		var rgb [3]uint8

		for i, c := range v.Slice() {
			n, err := lang.As[lang.Int](c)
			if err != nil {
				return nil, err
			}

			if n < 0 || n > 255 {
				return nil, ErrInvalidColor.With(slog.Int("rgb", int(n)))
			}

			rgb[i] = uint8(n)
		}

		return RGB(rgb[0], rgb[1], rgb[2]), nil

	default:
		return nil, ErrInvalidColor.With(slog.String("actual", lang.TypeOf(v).String()))
	}
}

// String is the color name or its "#rrggbb" hex form.
func (c *Color) String() string {
	switch {
	case c == nil:
		return "none"
	case c.Name != "":
		return c.Name
	default:
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
}

func (c *Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText accepts a color name or "#rrggbb". Since a Color cannot
// be nil, "none" decodes as reset.
func (c *Color) UnmarshalText(text []byte) error {
	s := string(text)

	if strings.HasPrefix(s, "#") {
		var r, g, b uint8

		if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil || len(s) != 7 {
			return ErrInvalidColor.With(slog.String("name", s))
		}

		*c = Color{R: r, G: g, B: b}

		return nil
	}

	p, err := ParseColor(s)
	if err != nil {
		return err
	}

	if p == nil {
		*c = Color{Name: "reset"}
	} else {
		*c = *p
	}

	return nil
}

// Terminal returns the color for rendering with lipgloss. Unset and reset
// colors render as the terminal default.
func (c *Color) Terminal() lipgloss.TerminalColor {
	if c == nil {
		return lipgloss.NoColor{}
	}

	if c.Name == "" {
		return lipgloss.Color(c.String())
	}

	i := ansi[c.Name]
	if i < 0 {
		return lipgloss.NoColor{}
	}

	return lipgloss.ANSIColor(uint(i))
}

// Colors is a foreground and background pair. Either may be nil.
type Colors struct {
	Fg *Color `json:"fg,omitempty" yaml:"fg,omitempty"`
	Bg *Color `json:"bg,omitempty" yaml:"bg,omitempty"`
}

// ParseColors parses "fg,bg" where either side is a color accepted by
// [Color.UnmarshalText] or empty.
func ParseColors(s string) (Colors, error) {
	fg, bg, ok := strings.Cut(s, ",")
	if !ok {
		return Colors{}, lang.ErrWrongListArity.With(
			slog.String("arity", lang.Static(2).String()),
			slog.String("found", s),
		)
	}

	var cs Colors

	for _, side := range []struct {
		text string
		into **Color
	}{{fg, &cs.Fg}, {bg, &cs.Bg}} {
		if side.text = strings.TrimSpace(side.text); side.text == "" {
			continue
		}

		var c Color
		if err := c.UnmarshalText([]byte(side.text)); err != nil {
			return Colors{}, err
		}

		*side.into = &c
	}

	return cs, nil
}

// Style returns a style of r rendering text with cs.
func (cs Colors) Style(r *lipgloss.Renderer) lipgloss.Style {
	return r.NewStyle().Foreground(cs.Fg.Terminal()).Background(cs.Bg.Terminal())
}

// join replaces each color of cs that is set in other.
func (cs Colors) join(other Colors) Colors {
	if other.Fg != nil {
		cs.Fg = other.Fg
	}

	if other.Bg != nil {
		cs.Bg = other.Bg
	}

	return cs
}

func colorsOf(v lang.Value) (Colors, error) {
	pair, err := lang.As[*lang.List](v)
	if err != nil {
		return Colors{}, err
	}

	if pair.Len() != 2 {
		return Colors{}, lang.ErrWrongListArity.With(
			slog.String("arity", lang.Static(2).String()),
			slog.Int("actual", pair.Len()),
		)
	}

	fg, err := colorOf(pair.Head())
	if err != nil {
		return Colors{}, err
	}

	bg, err := colorOf(pair.Tail().Head())
	if err != nil {
		return Colors{}, err
	}

	return Colors{Fg: fg, Bg: bg}, nil
}

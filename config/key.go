package config

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/empl/lang"
)

// KeyAction is a player command that can be bound to keys.
type KeyAction uint8

const (
	Quit KeyAction = iota
	MoveUp
	MoveDown
	MoveLeft
	MoveRight
	MoveBottom
	MoveTop
	MoveSelection
	Select
	SkipSong
)

var keyActions = [...]string{
	Quit:          "quit",
	MoveUp:        "move-up",
	MoveDown:      "move-down",
	MoveLeft:      "move-left",
	MoveRight:     "move-right",
	MoveBottom:    "move-bottom",
	MoveTop:       "move-top",
	MoveSelection: "move-selection",
	Select:        "select",
	SkipSong:      "skip-song",
}

// KeyActions returns the names of all actions.
func KeyActions() []string { return slices.Clone(keyActions[:]) }

// ParseKeyAction returns the action named s.
func ParseKeyAction(s string) (KeyAction, error) {
	i := slices.Index(keyActions[:], s)
	if i < 0 {
		return 0, ErrUnknownKeyAction.With(slog.String("action", s))
	}

	return KeyAction(i), nil
}

func (a KeyAction) String() string {
	if int(a) < len(keyActions) {
		return keyActions[a]
	}

	return "KeyAction(" + strconv.Itoa(int(a)) + ")"
}

func (a KeyAction) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *KeyAction) UnmarshalText(text []byte) (err error) {
	*a, err = ParseKeyAction(string(text))

	return err
}

// KeyModifier is a set of modifier keys.
type KeyModifier uint8

const (
	ModShift KeyModifier = 1 << iota
	ModControl
	ModAlt
	ModSuper
	ModHyper
	ModMeta
)

type modifierDef struct {
	mod    KeyModifier
	letter rune
	name   string
}

// modifiers pairs each modifier with its letter and its name, in the order
// they are printed.
var modifiers = []modifierDef{
	{ModControl, 'c', "ctrl"},
	{ModAlt, 'a', "alt"},
	{ModShift, 's', "shift"},
	{ModSuper, 'l', "super"},
	{ModHyper, 'h', "hyper"},
	{ModMeta, 'm', "meta"},
}

// ParseKeyModifier parses a string of modifier letters, case-insensitively:
// a (alt), c (control), l (super), h (hyper), m (meta) and s (shift). The
// empty string is no modifier.
func ParseKeyModifier(s string) (KeyModifier, error) {
	var mod KeyModifier

next:
	for _, r := range s {
		for _, m := range modifiers {
			if unicode.ToLower(r) == m.letter {
				mod |= m.mod

				continue next
			}
		}

		return 0, ErrUnknownKeyModifier.With(slog.String("modifier", string(r)))
	}

	return mod, nil
}

// Has reports whether every modifier of o is in m.
func (m KeyModifier) Has(o KeyModifier) bool { return m&o == o }

// Letters returns the modifier letters accepted by [ParseKeyModifier].
func (m KeyModifier) Letters() string {
	var sb strings.Builder

	for _, d := range modifiers {
		if m.Has(d.mod) {
			sb.WriteRune(d.letter)
		}
	}

	return sb.String()
}

// String joins the modifier names with '+', such as "ctrl+alt".
func (m KeyModifier) String() string {
	var names []string

	for _, d := range modifiers {
		if m.Has(d.mod) {
			names = append(names, d.name)
		}
	}

	return strings.Join(names, "+")
}

// KeyCode names a key: one of [KeyCodes], a function key "f<0..255>", or a
// single character.
type KeyCode string

var keyCodes = []string{
	"backspace", "enter", "left", "right", "up", "down", "home", "end",
	"page-up", "page-down", "tab", "back-tab", "delete", "insert", "null",
	"esc", "caps-lock", "scroll-lock", "num-lock", "print-screen", "pause",
	"menu", "keypad-begin",
	"media-play", "media-pause", "media-play-pause", "media-reverse",
	"media-stop", "media-fast-forward", "media-rewind", "media-track-next",
	"media-track-previous", "media-record", "media-lower-volume",
	"media-raise-volume", "media-mute-volume",
	"left-shift", "left-control", "left-alt", "left-super", "left-hyper",
	"left-meta", "right-shift", "right-control", "right-alt", "right-super",
	"right-hyper", "right-meta", "iso-level-3-shift", "iso-level-5-shift",
}

// KeyCodes returns the names of the non-character keys, excluding function
// keys.
func KeyCodes() []string { return slices.Clone(keyCodes) }

// ParseKeyCode validates s as a key code. Function keys are normalized, so
// "f01" becomes "f1".
func ParseKeyCode(s string) (KeyCode, error) {
	if slices.Contains(keyCodes, s) {
		return KeyCode(s), nil
	}

	if n, ok := strings.CutPrefix(s, "f"); ok {
		if f, err := strconv.ParseUint(n, 10, 8); err == nil {
			return KeyCode("f" + strconv.FormatUint(f, 10)), nil
		}
	}

	if utf8.RuneCountInString(s) == 1 {
		return KeyCode(s), nil
	}

	return "", ErrUnknownKeyCode.With(slog.String("code", s))
}

// Char returns the character of a single-character key.
func (k KeyCode) Char() (rune, bool) {
	if utf8.RuneCountInString(string(k)) != 1 {
		return 0, false
	}

	r, _ := utf8.DecodeRuneInString(string(k))

	return r, true
}

// Key is a key code pressed with a set of modifiers.
type Key struct {
	Mod  KeyModifier
	Code KeyCode
}

// ParseKey parses a key in the form printed by [Key.String].
func ParseKey(s string) (Key, error) {
	var k Key

	for {
		name, rest, ok := strings.Cut(s, "+")
		if !ok || rest == "" {
			break
		}

		i := slices.IndexFunc(modifiers, func(m modifierDef) bool { return m.name == name })
		if i < 0 {
			break
		}

		k.Mod |= modifiers[i].mod
		s = rest
	}

	code, err := ParseKeyCode(s)
	if err != nil {
		return Key{}, err
	}

	k.Code = code

	return k, nil
}

func (k Key) String() string {
	if k.Mod == 0 {
		return string(k.Code)
	}

	return k.Mod.String() + "+" + string(k.Code)
}

func (k Key) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Key) UnmarshalText(text []byte) (err error) {
	*k, err = ParseKey(string(text))

	return err
}

// teaNames maps key codes to the names bubbletea gives the same keys.
var teaNames = map[KeyCode]string{
	"page-up":   "pgup",
	"page-down": "pgdown",
	"back-tab":  "shift+tab",
	"null":      "ctrl+@",
}

// Tea returns the name bubbletea gives k, as returned by [tea.KeyMsg.String],
// or "" if bubbletea cannot report k.
func (k Key) Tea() string {
	if k.Mod.Has(ModSuper) || k.Mod.Has(ModHyper) || k.Mod.Has(ModMeta) {
		return ""
	}

	var prefix string
	if k.Mod.Has(ModAlt) {
		prefix = "alt+"
	}

	name, ok := teaNames[k.Code]
	if !ok {
		name = string(k.Code)
	}

	if r, ok := k.Code.Char(); ok {
		switch {
		case k.Mod.Has(ModControl) && k.Mod.Has(ModShift):
			return ""
		case k.Mod.Has(ModControl):
			return prefix + "ctrl+" + string(unicode.ToLower(r))
		case k.Mod.Has(ModShift):
			return prefix + string(unicode.ToUpper(r))
		default:
			return prefix + name
		}
	}

	switch {
	case !slices.Contains(teaKeyNames, name) && !isFunctionKey(name):
		return ""
	case k.Mod.Has(ModControl) && k.Mod.Has(ModShift):
		name = "ctrl+shift+" + name
	case k.Mod.Has(ModControl):
		name = "ctrl+" + name
	case k.Mod.Has(ModShift):
		name = "shift+" + name
	}

	return prefix + name
}

// teaKeyNames are the non-character keys bubbletea reports.
var teaKeyNames = []string{
	"backspace", "enter", "left", "right", "up", "down", "home", "end",
	"pgup", "pgdown", "tab", "shift+tab", "delete", "insert", "ctrl+@", "esc",
}

func isFunctionKey(name string) bool {
	n, ok := strings.CutPrefix(name, "f")
	if !ok {
		return false
	}

	f, err := strconv.Atoi(n)

	return err == nil && f >= 1 && f <= 20
}

func keyOf(v lang.Value) (Key, error) {
	pair, err := stringPair(v)
	if err != nil {
		return Key{}, err
	}

	mod, err := ParseKeyModifier(pair[0])
	if err != nil {
		return Key{}, err
	}

	code, err := ParseKeyCode(pair[1])
	if err != nil {
		return Key{}, err
	}

	return Key{Mod: mod, Code: code}, nil
}

// KeyBinding binds one or more keys to an action.
type KeyBinding struct {
	Action KeyAction `json:"action" yaml:"action"`
	Keys   []Key     `json:"keys"   yaml:"keys"`
}

// keyBindingOf converts (action keys) or (action key...) to a binding, where
// keys is a non-empty list of (modifiers code) pairs.
func keyBindingOf(v lang.Value) (KeyBinding, error) {
	entry, err := lang.As[*lang.List](v)
	if err != nil {
		return KeyBinding{}, err
	}

	if entry.Len() < 2 {
		return KeyBinding{}, lang.ErrWrongListArity.With(
			slog.String("arity", lang.Static(2).String()),
			slog.Int("actual", entry.Len()),
		)
	}

	name, err := lang.As[lang.String](entry.Head())
	if err != nil {
		return KeyBinding{}, err
	}

	action, err := ParseKeyAction(string(name))
	if err != nil {
		return KeyBinding{}, err
	}

	keys := entry.Tail()
	if keys.Len() == 1 && isKeyList(keys.Head()) {
		keys, _ = keys.Head().(*lang.List)
	}

	if keys.Empty() {
		return KeyBinding{}, lang.ErrWrongListArity.With(
			slog.String("arity", lang.RangeFrom(1).String()),
			slog.Int("actual", 0),
		)
	}

	b := KeyBinding{Action: action, Keys: make([]Key, 0, keys.Len())}

	for item := range keys.All() {
		k, err := keyOf(item)
		if err != nil {
			return KeyBinding{}, err
		}

		b.Keys = append(b.Keys, k)
	}

	return b, nil
}

// isKeyList reports whether v is a list whose elements are all lists, that
// is, a list of keys rather than a single key.
func isKeyList(v lang.Value) bool {
	l, ok := v.(*lang.List)
	if !ok {
		return false
	}

	for item := range l.All() {
		if _, ok := item.(*lang.List); !ok {
			return false
		}
	}

	return true
}

// Bindings is the key map of a configuration.
type Bindings []KeyBinding

// Action returns the action bound to the key reported by msg. The first
// matching binding wins.
func (bs Bindings) Action(msg tea.KeyMsg) (KeyAction, bool) {
	name := msg.String()

	for _, b := range bs {
		for _, k := range b.Keys {
			if t := k.Tea(); t != "" && t == name {
				return b.Action, true
			}
		}
	}

	return 0, false
}

// Keys returns every key bound to a.
func (bs Bindings) Keys(a KeyAction) []Key {
	var keys []Key

	for _, b := range bs {
		if b.Action == a {
			keys = append(keys, b.Keys...)
		}
	}

	return keys
}

func stringPair(v lang.Value) ([2]string, error) {
	l, err := lang.As[*lang.List](v)
	if err != nil {
		return [2]string{}, err
	}

	if l.Len() != 2 {
		return [2]string{}, lang.ErrWrongListArity.With(
			slog.String("arity", lang.Static(2).String()),
			slog.Int("actual", l.Len()),
		)
	}

	ss, err := asStrings(l.Slice())
	if err != nil {
		return [2]string{}, err
	}

	return [2]string{ss[0], ss[1]}, nil
}

func asStrings(vals []lang.Value) ([]string, error) {
	ss := make([]string, len(vals))

	for i, v := range vals {
		s, err := lang.As[lang.String](v)
		if err != nil {
			return nil, err
		}

		ss[i] = string(s)
	}

	return ss, nil
}

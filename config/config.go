package config

import (
	"errors"
	"log/slog"

	"github.com/ardnew/empl/lang"
)

// Song is a named audio file.
type Song struct {
	Name string `json:"name" yaml:"name"`
	Path string `json:"path" yaml:"path"`
}

// Playlist is a named, non-empty list of songs.
type Playlist struct {
	Name  string `json:"name"  yaml:"name"`
	Songs []Song `json:"songs" yaml:"songs"`
}

// playlistOf converts (name ((song-name path)...)) to a playlist.
func playlistOf(v lang.Value) (Playlist, error) {
	pair, err := lang.As[*lang.List](v)
	if err != nil {
		return Playlist{}, err
	}

	if pair.Len() != 2 {
		return Playlist{}, lang.ErrWrongListArity.With(
			slog.String("arity", lang.Static(2).String()),
			slog.Int("actual", pair.Len()),
		)
	}

	name, err := lang.As[lang.String](pair.Head())
	if err != nil {
		return Playlist{}, err
	}

	songs, err := lang.As[*lang.List](pair.Tail().Head())
	if err != nil {
		return Playlist{}, err
	}

	if songs.Empty() {
		return Playlist{}, lang.ErrWrongListArity.With(
			slog.String("arity", lang.RangeFrom(1).String()),
			slog.Int("actual", 0),
			slog.String("playlist", string(name)),
		)
	}

	p := Playlist{Name: string(name), Songs: make([]Song, 0, songs.Len())}

	for item := range songs.All() {
		s, err := songOf(item)
		if err != nil {
			return Playlist{}, err
		}

		p.Songs = append(p.Songs, s)
	}

	return p, nil
}

func songOf(v lang.Value) (Song, error) {
	pair, err := lang.As[*lang.List](v)
	if err != nil {
		return Song{}, err
	}

	if pair.Len() != 2 {
		return Song{}, lang.ErrWrongListArity.With(
			slog.String("arity", lang.Static(2).String()),
			slog.Int("actual", pair.Len()),
		)
	}

	name, err := lang.As[lang.String](pair.Head())
	if err != nil {
		return Song{}, err
	}

	path, err := lang.As[lang.Path](pair.Tail().Head())
	if err != nil {
		return Song{}, err
	}

	return Song{Name: string(name), Path: string(path)}, nil
}

// Intermediate is a partial configuration collected from one source, such
// as a script or the command line. Any field may be unset.
type Intermediate struct {
	CursorColors    Colors
	MenuColors      Colors
	SelectionColors Colors
	KeyBindings     Bindings
	Playlists       []Playlist
}

// Join merges other into i: colors set in other replace those of i, while
// key bindings and playlists are appended.
func (i *Intermediate) Join(other Intermediate) {
	i.CursorColors = i.CursorColors.join(other.CursorColors)
	i.MenuColors = i.MenuColors.join(other.MenuColors)
	i.SelectionColors = i.SelectionColors.join(other.SelectionColors)
	i.KeyBindings = append(i.KeyBindings, other.KeyBindings...)
	i.Playlists = append(i.Playlists, other.Playlists...)
}

// Validate returns the complete configuration, which requires at least one
// key binding and one playlist.
func (i Intermediate) Validate() (*Config, error) {
	if len(i.KeyBindings) == 0 {
		return nil, ErrEmptyConfig.Wrap(errors.New("key bindings cannot be empty"))
	}

	if len(i.Playlists) == 0 {
		return nil, ErrEmptyConfig.Wrap(errors.New("playlists cannot be empty"))
	}

	return &Config{
		CursorColors:    i.CursorColors,
		MenuColors:      i.MenuColors,
		SelectionColors: i.SelectionColors,
		KeyBindings:     i.KeyBindings,
		Playlists:       i.Playlists,
	}, nil
}

// Config is a complete player configuration.
type Config struct {
	CursorColors    Colors     `json:"cursor-colors"    yaml:"cursor-colors"`
	MenuColors      Colors     `json:"menu-colors"      yaml:"menu-colors"`
	SelectionColors Colors     `json:"selection-colors" yaml:"selection-colors"`
	KeyBindings     Bindings   `json:"key-bindings"     yaml:"key-bindings"`
	Playlists       []Playlist `json:"playlists"        yaml:"playlists"`
}

// Playlist returns the playlist named name.
func (c *Config) Playlist(name string) (Playlist, bool) {
	for _, p := range c.Playlists {
		if p.Name == name {
			return p, true
		}
	}

	return Playlist{}, false
}

package config

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// previewRows is the number of songs shown in a preview.
const previewRows = 6

// Preview renders a sample of the player menu in the colors of c: the first
// playlist with the cursor on its first song and its second song selected,
// followed by the key bindings. Color is omitted when w is not a terminal.
func Preview(w io.Writer, c *Config) error {
	r := lipgloss.NewRenderer(w)

	menu := c.MenuColors.Style(r)
	cursor := c.CursorColors.Style(r)
	selection := c.SelectionColors.Style(r)

	var p Playlist
	if len(c.Playlists) > 0 {
		p = c.Playlists[0]
	}

	width := lipgloss.Width(p.Name)
	songs := p.Songs[:min(len(p.Songs), previewRows)]

	for _, s := range songs {
		width = max(width, lipgloss.Width(s.Name))
	}

	rows := make([]string, 0, len(songs)+1)
	rows = append(rows, menu.Bold(true).Width(width+2).Render(" "+p.Name))

	for i, s := range songs {
		style := menu

		switch i {
		case 0:
			style = cursor
		case 1:
			style = selection
		}

		rows = append(rows, style.Width(width+2).Render(" "+s.Name))
	}

	box := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(c.MenuColors.Fg.Terminal()).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))

	legend := make([]string, 0, len(c.KeyBindings))

	for _, b := range c.KeyBindings {
		keys := make([]string, len(b.Keys))
		for i, k := range b.Keys {
			keys[i] = k.String()
		}

		legend = append(legend,
			r.NewStyle().Bold(true).Render(b.Action.String())+"  "+strings.Join(keys, ", "))
	}

	help := r.NewStyle().PaddingLeft(2).Render(strings.Join(legend, "\n"))

	_, err := io.WriteString(w, lipgloss.JoinHorizontal(lipgloss.Top, box, help)+"\n")

	return err
}

package repl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "edit", "clear", "quit"}

// isWordBoundary reports whether r delimits an identifier for completion.
// Hyphens and other punctuation such as ! and ? belong to identifiers.
func isWordBoundary(r rune) bool {
	switch r {
	case '(', ')', '"', ';':
		return true
	}

	return unicode.IsSpace(r)
}

// wordBounds returns the word at cursor and its byte offsets within input.
// The word is empty when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// inString reports whether offset lies inside a string literal or comment of
// input, where identifiers are not completed.
func inString(input string, offset int) bool {
	var quoted, escaped, comment bool

	for _, r := range input[:min(offset, len(input))] {
		switch {
		case comment:
			comment = r != '\n'
		case escaped:
			escaped = false
		case quoted && r == '\\':
			escaped = true
		case r == '"':
			quoted = !quoted
		case !quoted && r == ';':
			comment = true
		}
	}

	return quoted || comment
}

// computeMatches ranks the candidates for the word at the cursor, best
// first, and returns the word's byte offsets. An empty word has no matches,
// which leaves the hint line visible.
func (m model) computeMatches() (matches fuzzy.Matches, start, end int) {
	input := m.input.Value()

	word, start, end := wordBounds(input, m.input.Position())
	if word == "" {
		return nil, start, end
	}

	var candidates []string

	switch {
	case m.mode == modeCtrl:
		candidates = ctrlCommands
	case inString(input, start):
		return nil, start, end
	default:
		candidates = m.session.env.Names()
	}

	return fuzzy.Find(word, candidates), start, end
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within width. The candidate at selected, if any, uses the selected style.
func renderCandidateBar(matches fuzzy.Matches, selected, width int) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	var (
		sepWidth      = lipgloss.Width(sep)
		ellipsis      = hintStyle.Render("...")
		ellipsisWidth = lipgloss.Width(ellipsis)
		b             strings.Builder
		used          int
	)

	for i, match := range matches {
		rendered := renderCandidate(match, i == selected)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a candidate with its matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}

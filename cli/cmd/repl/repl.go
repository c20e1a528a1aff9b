package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/empl/lang"
	"github.com/ardnew/empl/log"
)

// editDoneMsg carries the session replayed from the edited transcript.
type editDoneMsg struct {
	next *session
	out  []string
}

// editCancelledMsg is sent when the user emptied the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to edit again after an
// error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the editor could not be run.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

// commandHelp describes each control-mode command.
var commandHelp = map[string]string{
	"help":  "print this help",
	"list":  "list the bindings of the environment",
	"edit":  "edit the session in $EDITOR and replay it",
	"clear": "clear the screen",
	"quit":  "exit",
}

// keyMap holds the keys the REPL handles itself. Everything else goes to
// the text input.
type keyMap struct {
	Interrupt  key.Binding
	EOF        key.Binding
	Submit     key.Binding
	Next       key.Binding
	Prev       key.Binding
	Older      key.Binding
	Newer      key.Binding
	OlderMode  key.Binding
	NewerMode  key.Binding
	OlderCtrl  key.Binding
	NewerCtrl  key.Binding
	ToggleMode key.Binding
}

var keys = keyMap{
	Interrupt:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "clear the line, or exit when it is empty")),
	EOF:        key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "exit when the line is empty")),
	Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "process the line, or accept the candidate")),
	Next:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next candidate")),
	Prev:       key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous candidate")),
	Older:      key.NewBinding(key.WithKeys("up"), key.WithHelp("up", "older entry, switching mode as needed")),
	Newer:      key.NewBinding(key.WithKeys("down"), key.WithHelp("down", "newer entry, switching mode as needed")),
	OlderMode:  key.NewBinding(key.WithKeys("shift+up"), key.WithHelp("shift+up", "older entry of the current mode")),
	NewerMode:  key.NewBinding(key.WithKeys("shift+down"), key.WithHelp("shift+down", "newer entry of the current mode")),
	OlderCtrl:  key.NewBinding(key.WithKeys("alt+up"), key.WithHelp("alt+up", "older command")),
	NewerCtrl:  key.NewBinding(key.WithKeys("alt+down"), key.WithHelp("alt+down", "newer command")),
	ToggleMode: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "toggle eval and command mode, or undo Tab")),
}

func (k keyMap) all() []key.Binding {
	return []key.Binding{
		k.Submit, k.Next, k.Prev, k.ToggleMode,
		k.Older, k.Newer, k.OlderMode, k.NewerMode, k.OlderCtrl, k.NewerCtrl,
		k.Interrupt, k.EOF,
	}
}

// helpMessage lists the commands and keys. Space accepts the candidate
// being cycled and is not a binding of its own.
func helpMessage(stage Stage) string {
	var b strings.Builder

	b.WriteString("\nCommands (command mode):\n")

	for _, name := range ctrlCommands {
		fmt.Fprintf(&b, "  %-10s %s\n", name, commandHelp[name])
	}

	fmt.Fprintf(&b, "\nKeys (stage %s, one or more forms per line):\n", stage)

	for _, k := range keys.all() {
		h := k.Help()
		fmt.Fprintf(&b, "  %-10s %s\n", h.Key, h.Desc)
	}

	fmt.Fprintf(&b, "  %-10s %s\n", "space", "accept the candidate being cycled")

	return b.String()
}

// inputMode is the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("4"))
)

// Derived styles for completions and signature hints.
var (
	matchStyle         = suggestionStyle.Bold(true)
	selectedMatchStyle = selectedStyle.Bold(true)
	signatureStyle     = hintStyle
	signatureNameStyle = promptStyle
	currentParamStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

// inputState is the text and cursor of the input line.
type inputState struct {
	text   string
	cursor int
}

// completion is the state of the candidate bar.
type completion struct {
	matches  fuzzy.Matches
	start    int // byte offsets of the word being completed
	end      int
	selected int        // index into matches, -1 for none
	cycling  bool       // Tab has replaced the word
	before   inputState // restored by Esc while cycling
}

// altNav is the state of command-only history navigation.
type altNav struct {
	active bool
	mode   inputMode
	before inputState
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc func() context.Context
	logger  log.Logger
	session *session

	history    *History
	historyIdx int // history.Len() when not navigating

	input textinput.Model
	mode  inputMode
	stash [2]inputState // input of the inactive mode
	comp  completion
	alt   altNav

	width    int
	quitting bool
}

func (m *model) state() inputState {
	return inputState{text: m.input.Value(), cursor: m.input.Position()}
}

func (m *model) restore(st inputState) {
	m.input.SetValue(st.text)
	m.input.SetCursor(st.cursor)
}

// Run starts the REPL. Each line is processed up to stage in an environment
// built from opts, which persists for the whole session. A non-empty source
// is processed first and becomes the start of the transcript. History is
// kept in cacheDir, or in memory if cacheDir is empty.
func Run(
	ctx context.Context,
	source string,
	stage Stage,
	cacheDir string,
	logger log.Logger,
	opts ...lang.Option,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger.TraceContext(ctx, "repl start",
		slog.String("stage", stage.String()),
		slog.String("cache-dir", cacheDir),
		slog.Int("source", len(source)),
	)

	s := newSession(stage, opts...)

	if strings.TrimSpace(source) != "" {
		if _, err := s.exec(source); err != nil {
			return err
		}
	}

	var historyPath string
	if cacheDir != "" {
		historyPath = filepath.Join(cacheDir, baseHistory)
	}

	history := NewHistory(historyPath)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "history unavailable", slog.Any("error", err))
	}

	logger.TraceContext(ctx, "repl history loaded", slog.Int("entries", history.Len()))

	p := tea.NewProgram(newModel(ctx, s, history, logger), tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	s *session,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		logger:     logger,
		session:    s,
		history:    history,
		historyIdx: history.Len(),
		input:      ti,
		comp:       completion{selected: -1},
		width:      defaultWidth,
	}
}

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - lipgloss.Width(evalPrompt) - 2

		return m, nil

	case editDoneMsg:
		m.session = msg.next
		m.logger.TraceContext(m.ctxFunc(), "repl edit complete",
			slog.Int("transcript", len(m.session.transcript)),
		)

		cmds := make([]tea.Cmd, 0, len(msg.out)+1)
		for _, line := range msg.out {
			cmds = append(cmds, tea.Println(resultStyle.Render(line)))
		}

		return m, tea.Sequence(append(cmds, tea.Println(hintStyle.Render("session replayed")))...)

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	return m.input.View() + "\n" + m.hintView() + "\n"
}

// hintView renders the line below the input: the history position, a usage
// hint, the signature of the enclosing call, or completion candidates.
func (m model) hintView() string {
	input := m.input.Value()

	switch {
	case m.historyIdx < m.history.Len():
		pos := lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx + 1))

		return hintStyle.Render(fmt.Sprintf("%s/%d", pos, m.history.Len()))

	case strings.TrimSpace(input) == "" && m.mode == modeEval:
		return hintStyle.Render("Type a form or press Esc for commands")

	case strings.TrimSpace(input) == "":
		return hintStyle.Render("Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)")
	}

	if m.mode == modeEval && (len(m.comp.matches) == 0 || !m.comp.cycling) {
		if call := detectFunctionCall(input, m.input.Position()); call.inCall {
			if sig, params, arity := getSignature(m.session.env, call.name); sig != "" {
				return renderSignatureHint(call.name, params, arity, call.argIndex)
			}
		}
	}

	return renderCandidateBar(m.comp.matches, m.comp.selected, m.width)
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch {
	case key.Matches(msg, keys.Interrupt):
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.comp.cycling, m.alt.active = false, false
		m.clearEntry()

		return m, nil

	case key.Matches(msg, keys.EOF):
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case key.Matches(msg, keys.Submit):
		m.alt.active = false

		if !m.comp.cycling || len(m.comp.matches) == 0 {
			return m.executeInput()
		}

		m.comp.cycling = false
		m.refreshMatches(true)

		return m, nil

	case key.Matches(msg, keys.Next):
		return m.cycle(1)

	case key.Matches(msg, keys.Prev):
		return m.cycle(-1)

	case key.Matches(msg, keys.OlderCtrl):
		return m.historyCtrl(-1)

	case key.Matches(msg, keys.NewerCtrl):
		return m.historyCtrl(1)

	case key.Matches(msg, keys.Older):
		return m.historyStep(-1)

	case key.Matches(msg, keys.Newer):
		return m.historyStep(1)

	case key.Matches(msg, keys.OlderMode):
		return m.historyInMode(-1)

	case key.Matches(msg, keys.NewerMode):
		return m.historyInMode(1)

	case key.Matches(msg, keys.ToggleMode):
		if m.comp.cycling {
			m.comp.cycling = false
			m.restore(m.comp.before)
			m.refreshMatches(false)

			return m, nil
		}

		m.alt.active = false

		return m.switchToMode(1 - m.mode)
	}

	typing := msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace

	// Space accepts the candidate being cycled; any other key abandons it.
	if !typing || msg.Type == tea.KeySpace {
		m.comp.cycling = false
	}

	if !typing {
		m.alt.active = false
	}

	var cmd tea.Cmd

	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refreshMatches(typing)

	return m, cmd
}

// cycle moves the selected candidate by dir, wrapping around. A single
// candidate is completed and confirmed immediately.
func (m model) cycle(dir int) (model, tea.Cmd) {
	n := len(m.comp.matches)

	switch {
	case n == 0:
		return m, nil

	case n == 1:
		m.replaceWord(m.comp.matches[0].Str)
		m.comp = completion{selected: -1}

		return m, nil

	case m.comp.cycling:
		m.comp.selected = (m.comp.selected + dir + n) % n

	default:
		m.comp.cycling = true
		m.comp.before = m.state()

		m.comp.selected = 0
		if dir < 0 {
			m.comp.selected = n - 1
		}
	}

	m.replaceWord(m.comp.matches[m.comp.selected].Str)

	return m, nil
}

// replaceWord replaces the word being completed and moves the cursor after
// it.
func (m *model) replaceWord(replacement string) {
	input := m.input.Value()
	end := m.comp.start + len(replacement)

	m.restore(inputState{
		text:   input[:m.comp.start] + replacement + input[m.comp.end:],
		cursor: end,
	})

	m.comp.end = end
}

// refreshMatches recomputes the candidates for the current input. With
// autoConfirm, a sole candidate equal to the typed word is accepted; it is
// off for deletions and cursor movement so that editing never completes.
func (m *model) refreshMatches(autoConfirm bool) {
	m.comp.matches, m.comp.start, m.comp.end = m.computeMatches()

	if !m.comp.cycling {
		m.comp.selected = -1
	}

	if !autoConfirm || len(m.comp.matches) != 1 {
		return
	}

	if m.input.Value()[m.comp.start:m.comp.end] == m.comp.matches[0].Str {
		m.comp = completion{selected: -1}
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.stash = [2]inputState{}
	m.clearEntry()

	if err := m.history.Add(input, m.mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "history write failed", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	m.logger.TraceContext(m.ctxFunc(), "repl input",
		slog.String("stage", m.session.stage.String()),
		slog.String("input", input),
	)

	out, err := m.session.exec(input)

	cmds := make([]tea.Cmd, 0, len(out)+2)
	cmds = append(cmds, tea.Println(promptStyle.Render(evalPrompt)+inputStyle.Render(input)))

	for _, line := range out {
		cmds = append(cmds, tea.Println(resultStyle.Render(line)))
	}

	if err != nil {
		m.logger.DebugContext(m.ctxFunc(), "repl error", slog.Any("error", err))

		cmds = append(cmds, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	return m, tea.Sequence(cmds...)
}

// commandAliases maps abbreviations to control-mode commands.
var commandAliases = map[string]string{
	"h": "help", "l": "list", "e": "edit", "c": "clear", "q": "quit", "exit": "quit",
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return m, nil
	}

	name := fields[0]
	if full, ok := commandAliases[name]; ok {
		name = full
	}

	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))

	m.logger.TraceContext(m.ctxFunc(), "repl command",
		slog.String("command", name),
		slog.Any("args", fields[1:]),
	)

	switch name {
	case "quit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage(m.session.stage)))

	case "list":
		return m, tea.Sequence(echo, tea.Println(m.listBindings()))

	case "clear":
		return m, tea.ClearScreen

	case "edit":
		return m, tea.Sequence(echo, m.edit())

	default:
		return m, tea.Println(
			errorStyle.Render("unknown command: " + fields[0] + " (try 'help')"),
		)
	}
}

func (m model) edit() tea.Cmd {
	cmd := &editCommand{
		session: m.session,
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case cmd.next == nil:
			return editCancelledMsg{}
		default:
			return editDoneMsg{next: cmd.next, out: cmd.out}
		}
	})
}

func (m model) listBindings() string {
	var b strings.Builder

	for _, bd := range m.session.bindings() {
		fmt.Fprintf(&b, "  %s %s\n", bd.name, hintStyle.Render(bd.preview))
	}

	return b.String()
}

// showEntry loads history entry i into the input.
func (m *model) showEntry(i int, e HistoryEntry) {
	m.historyIdx = i
	m.restore(inputState{text: e.Line, cursor: len(e.Line)})
	m.refreshMatches(false)
}

// clearEntry empties the input and leaves history navigation.
func (m *model) clearEntry() {
	m.historyIdx = m.history.Len()
	m.restore(inputState{})
	m.refreshMatches(false)
}

// historyStep moves through history by dir, switching to each entry's mode.
func (m model) historyStep(dir int) (model, tea.Cmd) {
	i := m.historyIdx + dir

	e, err := m.history.Entry(i)
	if err != nil {
		if dir > 0 {
			m.clearEntry()
		}

		return m, nil
	}

	if m.mode != e.Mode {
		m, _ = m.switchToMode(e.Mode)
	}

	m.showEntry(i, e)

	return m, nil
}

// historyInMode moves by dir to the nearest entry of the current mode.
func (m model) historyInMode(dir int) (model, tea.Cmd) {
	if i, e, ok := m.seek(dir, m.mode); ok {
		m.showEntry(i, e)
	} else if dir > 0 && m.historyIdx < m.history.Len() {
		m.clearEntry()
	}

	return m, nil
}

// historyCtrl navigates command history only, switching to control mode.
// Passing either end restores the mode and input from before.
func (m model) historyCtrl(dir int) (model, tea.Cmd) {
	if !m.alt.active {
		m.alt = altNav{active: true, mode: m.mode, before: m.state()}

		if m.mode != modeCtrl {
			m, _ = m.switchToMode(modeCtrl)
		}
	}

	if i, e, ok := m.seek(dir, modeCtrl); ok {
		m.showEntry(i, e)

		return m, nil
	}

	m.alt.active = false
	if m.alt.mode != m.mode {
		m, _ = m.switchToMode(m.alt.mode)
	}

	m.historyIdx = m.history.Len()
	m.restore(m.alt.before)
	m.refreshMatches(false)

	return m, nil
}

// seek finds the nearest entry in mode from the current index toward dir.
func (m model) seek(dir int, mode inputMode) (int, HistoryEntry, bool) {
	for i := m.historyIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		if e, err := m.history.Entry(i); err == nil && e.Mode == mode {
			return i, e, true
		}
	}

	return 0, HistoryEntry{}, false
}

// switchToMode switches to mode, stashing the input of the mode being left
// and restoring that of mode.
func (m model) switchToMode(mode inputMode) (model, tea.Cmd) {
	m.stash[m.mode] = m.state()
	m.mode = mode

	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
	}

	m.restore(m.stash[mode])
	m.refreshMatches(false)

	return m, nil
}

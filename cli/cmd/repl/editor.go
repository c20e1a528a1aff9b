package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/empl/log"
	"github.com/ardnew/empl/pkg"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand]. It writes the session transcript
// to a temporary file, opens $EDITOR on it, and replays the result in a
// fresh session. When the result does not parse or evaluate, the user is
// asked to edit again; declining returns [ErrEditDeclined].
type editCommand struct {
	session *session
	ctxFunc func() context.Context
	logger  log.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer

	// set by Run
	next *session
	out  []string
}

func (c *editCommand) SetStdin(r io.Reader)  { c.stdin = r }
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-replay loop. An emptied file cancels the edit and
// leaves next nil.
func (c *editCommand) Run() error {
	ctx := c.ctxFunc()

	f, err := os.CreateTemp("", pkg.Name+"-repl-*.lisp")
	if err != nil {
		return err
	}

	path := f.Name()

	defer os.Remove(path)

	if err := f.Close(); err != nil {
		return err
	}

	content := c.session.source()

	for {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, path); err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		content = string(data)
		if strings.TrimSpace(content) == "" {
			return nil
		}

		next, out, err := c.session.replay(content)

		c.logger.TraceContext(ctx, "editor replay",
			slog.Int("length", len(content)),
			slog.Bool("success", err == nil),
		)

		if err == nil {
			c.next, c.out = next, out

			return nil
		}

		fmt.Fprintf(c.stderr, "\nerror: %s\n", err)
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}
	}
}

// runEditor runs $EDITOR, or vi, on path and waits for it to exit.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	args := append(strings.Fields(editor), path)

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}

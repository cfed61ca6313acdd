// Package editor runs an external process to edit a block of free text.
//
// The process receives the text on stdin with every newline escaped as the
// two characters `\n`, followed by one terminating newline, and is expected
// to print the edited text on stdout in the same encoding. A non-zero exit
// status means the edit was cancelled.
package editor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/mattn/go-shellwords"

	"github.com/dmitrijs2005/kp2vcard/internal/logging"
)

const (
	// DefaultCommand is used when neither the environment nor the
	// configuration names an editor.
	DefaultCommand = "zenity --text-info --editable --title {title}"

	// EnvCommand overrides the configured command.
	EnvCommand = "KP2VCARD_EDITOR"

	titlePlaceholder = "{title}"
)

var (
	// ErrNoCommand is returned when the editor command splits into no words.
	ErrNoCommand = errors.New("editor: empty command")
	// ErrCancelled matches every *Error: the editor ran but did not hand text back.
	ErrCancelled = errors.New("editor: cancelled")
)

// Error reports an editor process that exited unsuccessfully.
type Error struct {
	ExitCode   int
	Diagnostic string
}

func (e *Error) Error() string {
	if e.Diagnostic == "" {
		return fmt.Sprintf("editor exited with status %d", e.ExitCode)
	}
	return fmt.Sprintf("editor exited with status %d: %s", e.ExitCode, e.Diagnostic)
}

// Is makes errors.Is(err, ErrCancelled) hold for every *Error.
func (e *Error) Is(target error) bool {
	return target == ErrCancelled
}

// Bridge implements text editing through an external command.
type Bridge struct {
	argv []string
	log  logging.Logger
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the logger used for process diagnostics.
func WithLogger(l logging.Logger) Option {
	return func(b *Bridge) {
		b.log = l
	}
}

// New creates a Bridge for command. The KP2VCARD_EDITOR environment variable
// takes precedence over command, and DefaultCommand is used when both are
// empty. The command line is split with shell quoting rules.
func New(command string, opts ...Option) (*Bridge, error) {
	if env := os.Getenv(EnvCommand); env != "" {
		command = env
	}
	if strings.TrimSpace(command) == "" {
		command = DefaultCommand
	}

	argv, err := shellwords.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse editor command %q: %w", command, err)
	}
	if len(argv) == 0 {
		return nil, ErrNoCommand
	}

	b := &Bridge{argv: argv, log: logging.Discard()}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Command returns the argument vector that EditText runs for title.
func (b *Bridge) Command(title string) []string {
	argv := make([]string, len(b.argv))
	for i, a := range b.argv {
		argv[i] = strings.ReplaceAll(a, titlePlaceholder, title)
	}
	return argv
}

// EditText shows initial in the editor and returns the edited text.
//
// On a non-zero exit the returned error is an *Error carrying the trimmed
// stderr of the process. The call blocks until the process exits.
func (b *Bridge) EditText(ctx context.Context, title, initial string) (string, error) {
	argv := b.Command(title)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = strings.NewReader(Escape(initial) + "\n")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	b.log.Debug(ctx, "starting editor", "command", argv[0], "title", title)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			e := &Error{
				ExitCode:   exitErr.ExitCode(),
				Diagnostic: strings.TrimSpace(stderr.String()),
			}
			b.log.Info(ctx, "editor cancelled", "exit_code", e.ExitCode, "diagnostic", e.Diagnostic)
			return "", e
		}
		return "", fmt.Errorf("run editor %q: %w", argv[0], err)
	}

	return Decode(stdout.String()), nil
}

// Escape replaces every newline in s with the two characters `\n`.
func Escape(s string) string {
	return strings.ReplaceAll(s, "\n", `\n`)
}

// Unescape reverses Escape.
func Unescape(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}

// Decode turns raw editor output into note text: escaped newlines are
// restored and trailing whitespace, including the terminator, is removed.
func Decode(raw string) string {
	return strings.TrimRight(Unescape(raw), " \t\r\n")
}

package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is replaced in tests to avoid touching a real terminal.
//
//nolint:gochecknoglobals
var readPassword = term.ReadPassword

// ConsoleConfig contains configuration parameters for interactive console sessions.
type ConsoleConfig struct {
	// MaskPassword disables echo while reading passwords from a terminal
	MaskPassword bool `env:"MASK_PASSWORD" default:"true"`
}

// Console reads line-oriented input and writes prompts and results.
type Console struct {
	In  *bufio.Reader
	Out io.Writer

	fd     int
	isTerm bool
	cfg    ConsoleConfig
}

// New creates a Console reading from in and writing to out.
// Password masking is only possible when in is a terminal.
func New(in io.Reader, out io.Writer, cfg ConsoleConfig) *Console {
	c := &Console{
		In:  bufio.NewReader(in),
		Out: out,
		fd:  -1,
		cfg: cfg,
	}

	if f, ok := in.(*os.File); ok {
		c.fd = int(f.Fd())
		c.isTerm = term.IsTerminal(c.fd)
	}

	return c
}

// Println writes a line to the output.
func (c *Console) Println(a ...any) {
	fmt.Fprintln(c.Out, a...)
}

// Printf writes formatted text to the output.
func (c *Console) Printf(format string, a ...any) {
	fmt.Fprintf(c.Out, format, a...)
}

// Prompt prints label and reads one line with surrounding whitespace trimmed.
// A final line without a trailing newline is returned as is; io.EOF is only
// returned when no input is left at all.
func (c *Console) Prompt(label string) (string, error) {
	line, err := c.readLine(label)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(line), nil
}

// PromptPassword prints label and reads a password exactly as typed; only the
// line terminator is removed. On a terminal with masking enabled the input is not echoed.
func (c *Console) PromptPassword(label string) (string, error) {
	if !c.cfg.MaskPassword || !c.isTerm {
		return c.readLine(label)
	}

	if _, err := fmt.Fprint(c.Out, label); err != nil {
		return "", fmt.Errorf("write prompt: %w", err)
	}

	pw, err := readPassword(c.fd)
	fmt.Fprintln(c.Out)

	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	return string(pw), nil
}

func (c *Console) readLine(label string) (string, error) {
	if label != "" {
		if _, err := fmt.Fprint(c.Out, label); err != nil {
			return "", fmt.Errorf("write prompt: %w", err)
		}
	}

	line, err := c.In.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || len(line) == 0) {
		return "", err //nolint:wrapcheck
	}

	return strings.TrimRight(line, "\r\n"), nil
}

// Package confirmations asks the user yes/no questions. Callers depend on
// the Confirmer interface so the decision can be scripted in tests or
// answered up front with --yes.
package confirmations

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
)

// Confirmer answers a yes/no question. def is the answer used when the
// user just presses enter or cannot be asked.
type Confirmer interface {
	Confirm(question string, def bool) (bool, error)
}

// Static always gives the same answer
type Static bool

// Confirm returns the fixed answer
func (s Static) Confirm(string, bool) (bool, error) {
	return bool(s), nil
}

// Default returns the default answer without asking
type Default struct{}

// Confirm returns def
func (Default) Confirm(_ string, def bool) (bool, error) {
	return def, nil
}

// ConsoleConfirmer reads a y/N answer from a line-oriented reader
type ConsoleConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsoleConfirmer reads answers from in and writes prompts to out
func NewConsoleConfirmer(in io.Reader, out io.Writer) *ConsoleConfirmer {
	return &ConsoleConfirmer{in: bufio.NewReader(in), out: out}
}

// Confirm prints the question and parses the reply
func (c *ConsoleConfirmer) Confirm(question string, def bool) (bool, error) {
	marker := "[y/N]"
	if def {
		marker = "[Y/n]"
	}
	if _, err := fmt.Fprintf(c.out, "%s %s: ", question, marker); err != nil {
		return false, err
	}

	line, err := c.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read user input: %w", err)
	}

	response := strings.ToLower(strings.TrimSpace(line))
	if response == "" {
		return def, nil
	}
	return response == "y" || response == "yes", nil
}

// PtermConfirmer uses pterm's interactive confirm
type PtermConfirmer struct{}

// Confirm shows an interactive prompt
func (PtermConfirmer) Confirm(question string, def bool) (bool, error) {
	return pterm.DefaultInteractiveConfirm.
		WithDefaultValue(def).
		WithDefaultText(question).
		Show()
}

// ForTerminal picks a confirmer for the process: the pterm prompt when
// stdin and stdout are terminals, a line prompt on stderr when only stdin is,
// and Default otherwise, so unattended runs never block on a prompt.
func ForTerminal() Confirmer {
	if !isTerminal(os.Stdin) {
		return Default{}
	}
	if isTerminal(os.Stdout) {
		return PtermConfirmer{}
	}
	return NewConsoleConfirmer(os.Stdin, os.Stderr)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

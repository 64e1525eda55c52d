package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// prompter reads answers from the command's input. A single buffered reader
// is shared so consecutive prompts don't lose buffered lines.
type prompter struct {
	cmd    *cobra.Command
	reader *bufio.Reader
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{cmd: cmd, reader: bufio.NewReader(cmd.InOrStdin())}
}

// promptForInput prints prompt and returns the trimmed line typed in reply.
func (p *prompter) promptForInput(prompt string) (string, error) {
	fmt.Fprint(p.cmd.ErrOrStderr(), prompt)
	input, err := p.reader.ReadString('\n')
	if err != nil && (err != io.EOF || input == "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(input), nil
}

// promptForPassword reads a password without echo when stdin is a terminal
// and falls back to a plain line read otherwise.
func (p *prompter) promptForPassword(prompt string) (string, error) {
	in, ok := p.cmd.InOrStdin().(*os.File)
	if !ok || !term.IsTerminal(int(in.Fd())) {
		return p.promptForInput(prompt)
	}

	fmt.Fprint(p.cmd.ErrOrStderr(), prompt)
	password, err := term.ReadPassword(int(in.Fd()))
	fmt.Fprintln(p.cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimSpace(string(password)), nil
}

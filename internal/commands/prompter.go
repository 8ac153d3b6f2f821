package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/ssh/terminal"
)

// Prompter reads interactive input for commands
type Prompter interface {
	ReadString(prompt string) (string, error)
	ReadPassword(prompt string) (string, error)
}

type terminalPrompter struct {
	in     io.Reader
	reader *bufio.Reader
	out    io.Writer
}

// NewTerminalPrompter reads prompts from in, writing the prompt text to
// out. Password input is read without echo when in is a terminal.
func NewTerminalPrompter(in io.Reader, out io.Writer) Prompter {
	return &terminalPrompter{
		in:     in,
		reader: bufio.NewReader(in),
		out:    out,
	}
}

func (p *terminalPrompter) ReadString(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *terminalPrompter) ReadPassword(prompt string) (string, error) {
	if f, ok := p.in.(*os.File); ok && terminal.IsTerminal(int(f.Fd())) {
		fmt.Fprint(p.out, prompt)
		password, err := terminal.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.out)
		if err != nil {
			return "", err
		}
		return string(password), nil
	}
	// piped input falls back to line reading
	return p.ReadString(prompt)
}

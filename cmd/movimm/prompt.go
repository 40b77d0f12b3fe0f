package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
)

// prompter asks the user for one line of input.
type prompter interface {
	Prompt(label string) (string, error)
	Close() error
}

// newPrompter uses readline on a terminal. Piped input goes through a plain
// line reader, which still echoes every label to out.
func newPrompter(in io.Reader, out io.Writer) (prompter, error) {
	if f, ok := in.(*os.File); ok && readline.IsTerminal(int(f.Fd())) {
		return newReadlinePrompter(f, out)
	}
	return newLinePrompter(in, out), nil
}

type readlinePrompter struct {
	rl *readline.Instance
}

func newReadlinePrompter(in io.ReadCloser, out io.Writer) (*readlinePrompter, error) {
	rl, err := readline.NewEx(&readline.Config{
		Stdin:  in,
		Stdout: out,
	})
	if err != nil {
		return nil, err
	}
	return &readlinePrompter{rl: rl}, nil
}

func (p *readlinePrompter) Prompt(label string) (string, error) {
	p.rl.SetPrompt(label)
	line, err := p.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", io.EOF
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *readlinePrompter) Close() error {
	return p.rl.Close()
}

type linePrompter struct {
	sc  *bufio.Scanner
	out io.Writer
}

func newLinePrompter(in io.Reader, out io.Writer) *linePrompter {
	return &linePrompter{sc: bufio.NewScanner(in), out: out}
}

func (p *linePrompter) Prompt(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if !p.sc.Scan() {
		if err := p.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.sc.Text()), nil
}

func (p *linePrompter) Close() error { return nil }

package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter asks yes/no questions on a terminal. It answers every question
// with yes when AssumeYes is set and with no when input is not interactive.
type Prompter struct {
	In        io.Reader
	Out       io.Writer
	AssumeYes bool
	// Interactive reports whether In is a terminal. Defaults to checking stdin.
	Interactive func() bool
}

// NewPrompter answers yes to everything when assumeYes is set.
func NewPrompter(assumeYes bool) *Prompter {
	return &Prompter{In: os.Stdin, Out: os.Stderr, AssumeYes: assumeYes}
}

// Confirm asks prompt on Out. Without a terminal the answer is no.
func (p *Prompter) Confirm(ctx context.Context, prompt string) (bool, error) {
	if p.AssumeYes {
		return true, nil
	}
	if !p.interactive() {
		return false, nil
	}

	fmt.Fprintf(p.Out, "%s [y/N]: ", prompt)

	answer := make(chan string, 1)
	go func() {
		line, _ := bufio.NewReader(p.In).ReadString('\n')
		answer <- line
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case line := <-answer:
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		}
		return false, nil
	}
}

func (p *Prompter) interactive() bool {
	if p.Interactive != nil {
		return p.Interactive()
	}
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// ReadPassword reads a password without echo.
func ReadPassword(out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(password), nil
}

// Package prompt collects interactive operator input. Everything that
// needs a human answer depends on the Prompter interface, so tests never
// touch a terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/AliZainoul/pg-bdd-project/pkg/keyring"
	"github.com/AliZainoul/pg-bdd-project/pkg/secret"
)

// Prompter reads a secret without echoing it.
type Prompter interface {
	ReadSecret(prompt string) (secret.Secret, error)
}

// Terminal prompts on the controlling terminal. Prompts go to stderr so
// stdout stays clean for command output.
type Terminal struct {
	in  *os.File
	out io.Writer
}

// NewTerminal returns a prompter wired to stdin and stderr.
func NewTerminal() *Terminal {
	return &Terminal{in: os.Stdin, out: os.Stderr}
}

// ReadSecret reads a line with echo disabled.
func (t *Terminal) ReadSecret(prompt string) (secret.Secret, error) {
	if !term.IsTerminal(int(t.in.Fd())) {
		return secret.Secret{}, errors.New("cannot prompt for a secret without a terminal")
	}

	fmt.Fprint(t.out, prompt)
	raw, err := term.ReadPassword(int(t.in.Fd()))
	fmt.Fprintln(t.out)
	if err != nil {
		return secret.Secret{}, err
	}
	return secret.New(string(raw)), nil
}

// SelectKey implements keyring.Selector with a numbered menu.
func (t *Terminal) SelectKey(entries []keyring.Entry) (keyring.Entry, error) {
	if !term.IsTerminal(int(t.in.Fd())) {
		return keyring.Entry{}, errors.New("cannot select a key without a terminal")
	}

	fmt.Fprintln(t.out, "Multiple recipient keys are available:")
	for i, e := range entries {
		fmt.Fprintf(t.out, "  %d) %s\n", i+1, e.Fingerprint)
	}
	fmt.Fprintf(t.out, "Select a key [1-%d]: ", len(entries))

	line, err := bufio.NewReader(t.in).ReadString('\n')
	if err != nil {
		return keyring.Entry{}, err
	}

	choice, err := parseSelection(line, len(entries))
	if err != nil {
		return keyring.Entry{}, err
	}
	return entries[choice-1], nil
}

func parseSelection(input string, max int) (int, error) {
	input = strings.TrimSpace(input)
	choice, err := strconv.Atoi(input)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", input)
	}
	if choice < 1 || choice > max {
		return 0, fmt.Errorf("choice %d is out of range [1-%d]", choice, max)
	}
	return choice, nil
}

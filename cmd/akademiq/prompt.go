package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

// readLine reads one trimmed line from the app's input. It honours ctx so an
// interrupt ends interactive panels even while waiting for input.
func (a *app) readLine(ctx context.Context) (string, error) {
	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		line, err := a.in.ReadString('\n')
		ch <- result{line, err}
	}()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		if r.err != nil && !(errors.Is(r.err, io.EOF) && r.line != "") {
			return "", r.err
		}
		return strings.TrimSpace(r.line), nil
	}
}

// ask prints label and returns the answer, or def when the answer is empty.
func (a *app) ask(ctx context.Context, label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(a.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(a.out, "%s: ", label)
	}
	line, err := a.readLine(ctx)
	if err != nil {
		return "", err
	}
	if line == "" {
		return def, nil
	}
	return line, nil
}

// askSecret prompts without echo when stdin is a terminal and falls back to
// a plain line read for piped input.
func (a *app) askSecret(ctx context.Context, label string) (string, error) {
	if a.readSecret == nil {
		return a.ask(ctx, label, "")
	}
	fmt.Fprintf(a.out, "%s: ", label)
	secret, err := a.readSecret()
	fmt.Fprintln(a.out)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return string(secret), nil
}

// terminalSecretReader returns a no-echo reader for fd, or nil when fd is
// not a terminal.
func terminalSecretReader(fd int) func() ([]byte, error) {
	if !term.IsTerminal(fd) {
		return nil
	}
	return func() ([]byte, error) { return term.ReadPassword(fd) }
}

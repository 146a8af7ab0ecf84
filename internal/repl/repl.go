// Package repl implements the blocking read-eval-print loop used by the
// single-turn assistant binary.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// IsExitCommand reports whether the input asks to leave the loop.
// Matching is case-insensitive.
func IsExitCommand(input string) bool {
	trimmed := strings.TrimSpace(input)
	return strings.EqualFold(trimmed, "quit") || strings.EqualFold(trimmed, "exit")
}

// Run reads questions line by line, dispatches each to ask and prints the
// answer. A failed turn is printed and the loop continues; only an exit
// command or end of input terminates it. Blank lines are ignored.
func Run(ctx context.Context, in io.Reader, out io.Writer, banner string, ask func(ctx context.Context, question string) (string, error)) error {
	fmt.Fprintln(out, banner)
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\nYour question: ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if IsExitCommand(question) {
			fmt.Fprintln(out, "Goodbye!")
			return nil
		}
		answer, err := ask(ctx, question)
		if err != nil {
			fmt.Fprintf(out, "An error occurred: %v\n", err)
			continue
		}
		fmt.Fprintf(out, "\nAssistant: %s\n", answer)
	}
}

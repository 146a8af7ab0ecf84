package repl

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitCommands(t *testing.T) {
	for _, input := range []string{"quit", "exit", "QUIT", "Exit", "  quit  "} {
		assert.True(t, IsExitCommand(input), "%q should exit", input)
	}
	for _, input := range []string{"quit now", "what is a safety?", ""} {
		assert.False(t, IsExitCommand(input), "%q should not exit", input)
	}
}

func TestRunAnswersUntilQuit(t *testing.T) {
	in := strings.NewReader("What is a safety?\nquit\n")
	var out bytes.Buffer

	var asked []string
	err := Run(context.Background(), in, &out, "Welcome!", func(_ context.Context, q string) (string, error) {
		asked = append(asked, q)
		return "Two points.", nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"What is a safety?"}, asked)
	assert.Contains(t, out.String(), "Two points.")
	assert.Contains(t, out.String(), "Goodbye!")
}

func TestRunContinuesAfterTurnError(t *testing.T) {
	in := strings.NewReader("first\nsecond\nEXIT\n")
	var out bytes.Buffer

	calls := 0
	err := Run(context.Background(), in, &out, "", func(_ context.Context, q string) (string, error) {
		calls++
		if q == "first" {
			return "", errors.New("provider down")
		}
		return "answer", nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "the loop must keep going after a failed turn")
	assert.Contains(t, out.String(), "An error occurred: provider down")
	assert.Contains(t, out.String(), "answer")
}

func TestRunSkipsBlankLines(t *testing.T) {
	in := strings.NewReader("\n   \nquit\n")
	var out bytes.Buffer
	asked := 0
	err := Run(context.Background(), in, &out, "", func(context.Context, string) (string, error) {
		asked++
		return "", nil
	})
	require.NoError(t, err)
	assert.Zero(t, asked)
}

func TestRunEndOfInput(t *testing.T) {
	err := Run(context.Background(), strings.NewReader(""), &bytes.Buffer{}, "", nil)
	assert.NoError(t, err)
}

package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rulebot/internal/domain"
)

type fakeService struct {
	calls int
	err   error
}

func (f *fakeService) Converse(_ context.Context, _, question string) (*domain.TurnResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &domain.TurnResult{
		Question:  question,
		Rewritten: question,
		Answer:    "Two points.",
		Chunks:    []domain.Chunk{{Filename: "scoring.txt", Text: "A safety scores two points."}},
	}, nil
}

func pressEnter(t *testing.T, m Model, text string) (Model, tea.Cmd) {
	t.Helper()
	m.input.SetValue(text)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return updated.(Model), cmd
}

func TestQuitCommands(t *testing.T) {
	for _, input := range []string{"quit", "EXIT", "  exit  "} {
		m := New(&fakeService{}, "session", "")
		_, cmd := pressEnter(t, m, input)
		require.NotNil(t, cmd, "%q must quit", input)
		assert.Equal(t, tea.QuitMsg{}, cmd())
	}
}

func TestTurnAppendsTranscript(t *testing.T) {
	svc := &fakeService{}
	m := New(svc, "session", "")

	m, cmd := pressEnter(t, m, "What is a safety worth?")
	assert.Nil(t, cmd)
	assert.Equal(t, 1, svc.calls)
	require.Len(t, m.turns, 1)
	assert.Equal(t, "Two points.", m.turns[0].answer)
	assert.Contains(t, m.renderTranscript(), "scoring.txt")
	assert.Empty(t, m.input.Value(), "the input resets after a submitted question")
}

func TestTurnErrorKeepsRunning(t *testing.T) {
	svc := &fakeService{err: errors.New("provider down")}
	m := New(svc, "session", "")

	m, cmd := pressEnter(t, m, "anything")
	assert.Nil(t, cmd, "a failed turn must not quit")
	assert.Contains(t, m.status, "provider down")

	svc.err = nil
	m, cmd = pressEnter(t, m, "again")
	assert.Nil(t, cmd)
	assert.Len(t, m.turns, 2)
}

func TestBlankInputIgnored(t *testing.T) {
	svc := &fakeService{}
	m := New(svc, "session", "")

	m, cmd := pressEnter(t, m, "   ")
	assert.Nil(t, cmd)
	assert.Zero(t, svc.calls)
	assert.Empty(t, m.turns)
}

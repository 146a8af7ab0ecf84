package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rulebot/internal/domain"
)

func TestLazyCreation(t *testing.T) {
	s := NewMemoryStore()
	assert.Empty(t, s.History("fresh"))
}

func TestAppendAndOrder(t *testing.T) {
	s := NewMemoryStore()
	s.Append("game", domain.Message{Role: domain.RoleUser, Content: "What is a safety?"})
	s.Append("game", domain.Message{Role: domain.RoleAssistant, Content: "Two points."})

	transcript := s.History("game")
	require.Len(t, transcript, 2)
	assert.Equal(t, domain.RoleUser, transcript[0].Role)
	assert.Equal(t, domain.RoleAssistant, transcript[1].Role)
}

func TestSessionIsolation(t *testing.T) {
	s := NewMemoryStore()
	s.Append("alpha", domain.Message{Role: domain.RoleUser, Content: "alpha question"})
	s.Append("beta", domain.Message{Role: domain.RoleUser, Content: "beta question"})

	require.Len(t, s.History("alpha"), 1)
	require.Len(t, s.History("beta"), 1)
	assert.Equal(t, "alpha question", s.History("alpha")[0].Content)
	assert.Equal(t, "beta question", s.History("beta")[0].Content)
}

func TestHistoryReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	s.Append("game", domain.Message{Role: domain.RoleUser, Content: "original"})

	transcript := s.History("game")
	transcript[0].Content = "mutated"

	assert.Equal(t, "original", s.History("game")[0].Content)
}

package summarizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rulesText = "A touchdown scores six points. A touchdown requires possession in the end zone. " +
	"The weather was mild that afternoon. A field goal scores three points. " +
	"Scores are reviewed by the officials."

func TestSummarizePrefersFrequentTopics(t *testing.T) {
	s := NewFrequencySummarizer()
	out, err := s.Summarize(rulesText, 2)
	require.NoError(t, err)
	assert.Contains(t, strings.ToLower(out), "touchdown")
	assert.NotContains(t, out, "weather", "an off-topic sentence must rank below the dominant topic")
}

func TestSummarizeKeepsOriginalOrder(t *testing.T) {
	s := NewFrequencySummarizer()
	out, err := s.Summarize(rulesText, 3)
	require.NoError(t, err)

	first := strings.Index(out, "touchdown scores six")
	second := strings.Index(out, "possession in the end zone")
	require.GreaterOrEqual(t, first, 0)
	require.Greater(t, second, 0)
	assert.Less(t, first, second, "selected sentences keep their source order")
}

func TestSummarizeClampsToSentenceCount(t *testing.T) {
	s := NewFrequencySummarizer()
	out, err := s.Summarize("One sentence only.", 10)
	require.NoError(t, err)
	assert.Equal(t, "One sentence only.", out)
}

func TestSummarizeTextWithoutSentenceBoundaries(t *testing.T) {
	s := NewFrequencySummarizer()
	out, err := s.Summarize("no terminal punctuation here", 3)
	require.NoError(t, err)
	assert.Equal(t, "no terminal punctuation here", out)
}

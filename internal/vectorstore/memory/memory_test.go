package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rulebot/internal/domain"
)

func fixture(t *testing.T) *Storage {
	t.Helper()
	s := NewStorage()
	require.NoError(t, s.Init(3))
	chunks := []domain.Chunk{
		{ChunkID: "a", Text: "kickoff"},
		{ChunkID: "b", Text: "penalty"},
		{ChunkID: "c", Text: "scoring"},
	}
	vectors := [][]float64{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
	require.NoError(t, s.Upsert(chunks, vectors))
	return s
}

func TestSearchRoundTrip(t *testing.T) {
	s := fixture(t)
	res, err := s.Search(context.Background(), []float64{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "a", res[0].Chunk.ChunkID)
	assert.InDelta(t, 1.0, res[0].Score, 1e-9)
	assert.Equal(t, []float64{1, 0, 0}, res[0].Vector)
}

func TestSearchIdempotent(t *testing.T) {
	s := fixture(t)
	first, err := s.Search(context.Background(), []float64{0.7, 0.7, 0}, 3)
	require.NoError(t, err)
	second, err := s.Search(context.Background(), []float64{0.7, 0.7, 0}, 3)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSearchTopKClamped(t *testing.T) {
	s := fixture(t)
	res, err := s.Search(context.Background(), []float64{1, 0, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, res, 3)
}

func TestUpsertDimensionMismatch(t *testing.T) {
	s := NewStorage()
	require.NoError(t, s.Init(3))
	err := s.Upsert([]domain.Chunk{{ChunkID: "a"}}, [][]float64{{1, 0}})
	assert.Error(t, err)
}

func TestUpsertLengthMismatch(t *testing.T) {
	s := NewStorage()
	require.NoError(t, s.Init(2))
	err := s.Upsert([]domain.Chunk{{ChunkID: "a"}}, nil)
	assert.Error(t, err)
}

func TestInitRejectsInvalidDimension(t *testing.T) {
	assert.Error(t, NewStorage().Init(0))
}

func TestClear(t *testing.T) {
	s := fixture(t)
	require.NoError(t, s.Clear())
	res, err := s.Search(context.Background(), []float64{1, 0, 0}, 3)
	require.NoError(t, err)
	assert.Empty(t, res)
}

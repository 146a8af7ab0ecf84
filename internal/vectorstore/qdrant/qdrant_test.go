package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rulebot/internal/domain"
)

// fakeQdrant emulates the collection lifecycle: points can only be written
// to a collection that exists, and deleting the collection removes it.
type fakeQdrant struct {
	mu          sync.Mutex
	collections map[string]bool
	points      []map[string]any
	searchBody  string
}

func (f *fakeQdrant) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		// /collections/{name}[/points[/search]]
		name := parts[1]
		switch {
		case len(parts) == 2 && r.Method == http.MethodPut:
			f.collections[name] = true
			w.WriteHeader(http.StatusOK)
		case len(parts) == 2 && r.Method == http.MethodDelete:
			delete(f.collections, name)
			w.WriteHeader(http.StatusOK)
		case len(parts) == 3 && parts[2] == "points" && r.Method == http.MethodPut:
			if !f.collections[name] {
				http.Error(w, "collection not found", http.StatusNotFound)
				return
			}
			var body struct {
				Points []map[string]any `json:"points"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			f.points = append(f.points, body.Points...)
			w.WriteHeader(http.StatusOK)
		case len(parts) == 4 && parts[3] == "search" && r.Method == http.MethodPost:
			if !f.collections[name] {
				http.Error(w, "collection not found", http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(f.searchBody))
		default:
			http.Error(w, "unexpected request", http.StatusBadRequest)
		}
	})
}

func newTestStorage(t *testing.T) (*Storage, *fakeQdrant) {
	t.Helper()
	fake := &fakeQdrant{collections: map[string]bool{}}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)
	return NewStorage(Config{URL: srv.URL, Collection: "rules"}), fake
}

func TestClearInitUpsertSequence(t *testing.T) {
	s, fake := newTestStorage(t)

	// The ingest sequence: Clear drops the collection, Init recreates it,
	// then the points upsert must land.
	require.NoError(t, s.Clear())
	require.NoError(t, s.Init(2))
	err := s.Upsert(
		[]domain.Chunk{{DocumentID: "d1", ChunkID: "d1:0", Filename: "rules.txt"}},
		[][]float64{{0.6, 0.8}},
	)
	require.NoError(t, err)
	require.Len(t, fake.points, 1)
}

func TestUpsertWithoutCollectionFails(t *testing.T) {
	s, _ := newTestStorage(t)
	err := s.Upsert([]domain.Chunk{{ChunkID: "d1:0"}}, [][]float64{{1, 0}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestUpsertPointIDsAreUUIDs(t *testing.T) {
	s, fake := newTestStorage(t)
	require.NoError(t, s.Init(2))
	require.NoError(t, s.Upsert(
		[]domain.Chunk{{DocumentID: "d1", ChunkID: "d1:0"}, {DocumentID: "d1", ChunkID: "d1:1"}},
		[][]float64{{1, 0}, {0, 1}},
	))
	require.Len(t, fake.points, 2)
	for _, p := range fake.points {
		id, ok := p["id"].(string)
		require.True(t, ok)
		assert.Len(t, strings.Split(id, "-"), 5, "point id %q must be a UUID", id)
	}
	first := fake.points[0]["id"]
	fake.points = nil
	require.NoError(t, s.Upsert([]domain.Chunk{{DocumentID: "d1", ChunkID: "d1:0"}}, [][]float64{{1, 0}}))
	assert.Equal(t, first, fake.points[0]["id"], "the same chunk id maps to the same point id")
}

func TestSearchDecodesPayloadAndVector(t *testing.T) {
	s, fake := newTestStorage(t)
	require.NoError(t, s.Init(2))
	fake.searchBody = `{"result":[{"score":0.91,"vector":[0.6,0.8],"payload":{
		"document_id":"d1","chunk_id":"d1:0","index":0,
		"filename":"rules.txt","path":"/corpus/rules.txt","text":"A safety scores two points."}}]}`

	results, err := s.Search(context.Background(), []float64{0.6, 0.8}, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0.91, results[0].Score)
	assert.Equal(t, []float64{0.6, 0.8}, results[0].Vector)
	assert.Equal(t, "d1:0", results[0].Chunk.ChunkID)
	assert.Equal(t, "rules.txt", results[0].Chunk.Filename)
	assert.Equal(t, "A safety scores two points.", results[0].Chunk.Text)
}

func TestInitRejectsInvalidDimension(t *testing.T) {
	s, _ := newTestStorage(t)
	assert.Error(t, s.Init(0))
}

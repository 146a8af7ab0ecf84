package domain

import "context"

// Document represents one unit of source text loaded from disk. A single
// file may produce several documents (one per PDF page).
type Document struct {
	ID       string
	Path     string
	Filename string
	Page     int
	Content  string
}

// Chunk is a bounded-length slice of a document used for retrieval indexing.
// Metadata is inherited from the parent document and never mutated.
type Chunk struct {
	DocumentID string
	ChunkID    string
	Index      int
	Filename   string
	Path       string
	Text       string
}

// SearchResult is a matching chunk with its similarity score. Vector carries
// the stored embedding so callers can re-rank candidates.
type SearchResult struct {
	Chunk  Chunk
	Score  float64
	Vector []float64
}

// Role identifies the author of a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is a single turn in a session transcript.
type Message struct {
	Role    Role
	Content string
}

// TurnResult is the ephemeral output of one pipeline invocation.
type TurnResult struct {
	Question  string
	Rewritten string
	Chunks    []Chunk
	Answer    string
}

// Loader reads supported files from a folder into documents.
type Loader interface {
	Load(folder string) ([]Document, error)
}

// Chunker splits a document into overlapping chunks.
type Chunker interface {
	Chunk(document Document) ([]Chunk, error)
}

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(ctx context.Context, corpus []string) error
	Dimension() int
	Embed(ctx context.Context, text string) ([]float64, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// VectorStore holds chunk vectors and supports similarity search.
type VectorStore interface {
	Init(dimension int) error
	Upsert(chunks []Chunk, vectors [][]float64) error
	Search(ctx context.Context, vector []float64, topK int) ([]SearchResult, error)
	Clear() error
}

// Completer produces one chat completion for a sequence of messages.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// SessionStore maps session identifiers to ordered transcripts. Transcripts
// are created lazily on first append and live only for the process lifetime.
type SessionStore interface {
	History(sessionID string) []Message
	Append(sessionID string, messages ...Message)
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}

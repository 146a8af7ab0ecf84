// Package assistant wires the RAG pipeline: ingest documents into the
// vector store at startup, then answer questions through an explicit
// rewrite → retrieve → compose sequence.
package assistant

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"rulebot/internal/domain"
	"rulebot/internal/prompts"
	"rulebot/internal/vectorstore"
)

// TurnError marks a failure inside one conversational turn. The loop prints
// it and keeps going; everything else that can fail is fatal at startup.
type TurnError struct {
	Stage string
	Err   error
}

func (e *TurnError) Error() string { return e.Stage + ": " + e.Err.Error() }
func (e *TurnError) Unwrap() error { return e.Err }

// Options bounds retrieval. FetchK similarity candidates are pulled from
// the store, then MMR selects TopK of them with the given lambda.
type Options struct {
	TopK                int
	FetchK              int
	Lambda              float64
	SummaryMaxSentences int
}

// IngestStats describes one corpus load.
type IngestStats struct {
	Documents int
	Chunks    int
	Tokens    int
	Summary   string
}

// Assistant is the application core shared by both binaries. Built once,
// then read-only apart from the session store.
type Assistant struct {
	loader     domain.Loader
	chunker    domain.Chunker
	embedder   domain.Embedder
	store      domain.VectorStore
	completer  domain.Completer
	sessions   domain.SessionStore
	summarizer domain.Summarizer
	opts       Options
	chunks     []domain.Chunk
}

func New(loader domain.Loader, chunker domain.Chunker, embedder domain.Embedder, store domain.VectorStore, completer domain.Completer, sessions domain.SessionStore, summarizer domain.Summarizer, opts Options) *Assistant {
	if opts.TopK <= 0 {
		opts.TopK = 6
	}
	if opts.FetchK < opts.TopK {
		opts.FetchK = 20
	}
	if opts.Lambda <= 0 || opts.Lambda > 1 {
		opts.Lambda = 0.5
	}
	if opts.SummaryMaxSentences <= 0 {
		opts.SummaryMaxSentences = 5
	}
	return &Assistant{
		loader:     loader,
		chunker:    chunker,
		embedder:   embedder,
		store:      store,
		completer:  completer,
		sessions:   sessions,
		summarizer: summarizer,
		opts:       opts,
	}
}

// Ingest loads, splits, embeds and indexes the corpus folder. Construction
// is all-or-nothing: the first error aborts with no partial index.
func (a *Assistant) Ingest(ctx context.Context, folder string) (IngestStats, error) {
	var stats IngestStats

	documents, err := a.loader.Load(folder)
	if err != nil {
		return stats, fmt.Errorf("load: %w", err)
	}

	var chunks []domain.Chunk
	var texts []string
	var corpus strings.Builder
	for _, doc := range documents {
		split, err := a.chunker.Chunk(doc)
		if err != nil {
			return stats, fmt.Errorf("split %s: %w", doc.Filename, err)
		}
		chunks = append(chunks, split...)
		for _, ch := range split {
			texts = append(texts, ch.Text)
		}
		corpus.WriteString("\n")
		corpus.WriteString(doc.Content)
	}
	if len(chunks) == 0 {
		return stats, fmt.Errorf("split: %w", domain.ErrNoDocuments)
	}

	if err := a.embedder.Prepare(ctx, texts); err != nil {
		return stats, fmt.Errorf("embed: %w", err)
	}
	vectors, err := a.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return stats, fmt.Errorf("embed: %w", err)
	}
	dimension := a.embedder.Dimension()
	if dimension == 0 && len(vectors) > 0 {
		dimension = len(vectors[0])
	}
	// Clear before Init: a remote store may drop its whole collection on
	// Clear, and Init is what (re)creates it.
	if err := a.store.Clear(); err != nil {
		return stats, fmt.Errorf("index: %w", err)
	}
	if err := a.store.Init(dimension); err != nil {
		return stats, fmt.Errorf("index: %w", err)
	}
	if err := a.store.Upsert(chunks, vectors); err != nil {
		return stats, fmt.Errorf("index: %w", err)
	}

	// Token count is informational (reported in the startup banner);
	// cl100k_base matches text-embedding-3-small. The encoding may need a
	// one-time download, so a failure here does not abort ingestion.
	tokens := 0
	if encoder, err := tiktoken.GetEncoding("cl100k_base"); err == nil {
		for _, text := range texts {
			tokens += len(encoder.Encode(text, nil, nil))
		}
	}
	summary, err := a.summarizer.Summarize(corpus.String(), a.opts.SummaryMaxSentences)
	if err != nil {
		return stats, fmt.Errorf("summarize: %w", err)
	}

	a.chunks = chunks
	return IngestStats{
		Documents: len(documents),
		Chunks:    len(chunks),
		Tokens:    tokens,
		Summary:   summary,
	}, nil
}

// Rewrite reformulates a follow-up question into a standalone one using the
// session transcript. An empty transcript short-circuits: there is no
// context the provider could fold in, so the question passes through
// unchanged without a call.
func (a *Assistant) Rewrite(ctx context.Context, question string, history []domain.Message) (string, error) {
	if len(history) == 0 {
		return question, nil
	}
	out, err := a.completer.Complete(ctx, prompts.RewriteMessages(question, history))
	if err != nil {
		return "", err
	}
	rewritten := strings.TrimSpace(out)
	if rewritten == "" {
		return question, nil
	}
	return rewritten, nil
}

// Retrieve returns the TopK most relevant and diverse chunks for the query.
// A zero query vector (TF-IDF query of only unknown words) falls back to
// lexical token-overlap ranking, as does a search where nothing scores.
func (a *Assistant) Retrieve(ctx context.Context, query string) ([]domain.SearchResult, error) {
	vector, err := a.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	if isZero(vector) {
		return a.lexicalSearch(query), nil
	}
	candidates, err := a.store.Search(ctx, vector, a.opts.FetchK)
	if err != nil {
		return nil, err
	}
	scored := false
	for _, c := range candidates {
		if c.Score > 1e-9 {
			scored = true
			break
		}
	}
	if !scored {
		return a.lexicalSearch(query), nil
	}
	return vectorstore.MaximalMarginalRelevance(vector, candidates, a.opts.TopK, a.opts.Lambda), nil
}

// Compose answers the question from the supplied chunks via one completion
// call. The model output is returned verbatim.
func (a *Assistant) Compose(ctx context.Context, question string, history []domain.Message, chunks []domain.Chunk) (string, error) {
	return a.completer.Complete(ctx, prompts.AnswerMessages(prompts.ContextBlock(chunks), question, history))
}

// Answer runs the stateless single-turn pipeline: retrieve then compose.
func (a *Assistant) Answer(ctx context.Context, question string) (*domain.TurnResult, error) {
	results, err := a.Retrieve(ctx, question)
	if err != nil {
		return nil, &TurnError{Stage: "retrieve", Err: err}
	}
	chunks := resultChunks(results)
	answer, err := a.Compose(ctx, question, nil, chunks)
	if err != nil {
		return nil, &TurnError{Stage: "compose", Err: err}
	}
	return &domain.TurnResult{Question: question, Chunks: chunks, Answer: answer}, nil
}

// Converse runs the conversational pipeline for one session: rewrite the
// question against the transcript, retrieve with the rewritten question,
// compose with the original question plus history, then record the turn.
func (a *Assistant) Converse(ctx context.Context, sessionID, question string) (*domain.TurnResult, error) {
	transcript := a.sessions.History(sessionID)

	rewritten, err := a.Rewrite(ctx, question, transcript)
	if err != nil {
		return nil, &TurnError{Stage: "rewrite", Err: err}
	}
	results, err := a.Retrieve(ctx, rewritten)
	if err != nil {
		return nil, &TurnError{Stage: "retrieve", Err: err}
	}
	chunks := resultChunks(results)
	answer, err := a.Compose(ctx, question, transcript, chunks)
	if err != nil {
		return nil, &TurnError{Stage: "compose", Err: err}
	}

	a.sessions.Append(sessionID,
		domain.Message{Role: domain.RoleUser, Content: question},
		domain.Message{Role: domain.RoleAssistant, Content: answer},
	)
	return &domain.TurnResult{Question: question, Rewritten: rewritten, Chunks: chunks, Answer: answer}, nil
}

func resultChunks(results []domain.SearchResult) []domain.Chunk {
	chunks := make([]domain.Chunk, len(results))
	for i, r := range results {
		chunks[i] = r.Chunk
	}
	return chunks
}

func isZero(vector []float64) bool {
	for _, v := range vector {
		if v != 0 {
			return false
		}
	}
	return true
}

var wordPattern = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)

func (a *Assistant) lexicalSearch(query string) []domain.SearchResult {
	qset := tokenSet(query)
	type pair struct {
		idx   int
		score float64
	}
	scores := make([]pair, len(a.chunks))
	for i, ch := range a.chunks {
		scores[i] = pair{i, ochiai(qset, ch.Text)}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	topK := a.opts.TopK
	if topK > len(scores) {
		topK = len(scores)
	}
	out := make([]domain.SearchResult, 0, topK)
	for i := 0; i < topK; i++ {
		p := scores[i]
		out = append(out, domain.SearchResult{Chunk: a.chunks[p.idx], Score: p.score})
	}
	return out
}

func tokenSet(s string) map[string]struct{} {
	tokens := wordPattern.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

// ochiai computes |A∩B| / sqrt(|A||B|) over the distinct token sets.
func ochiai(qset map[string]struct{}, text string) float64 {
	seen := make(map[string]struct{})
	inter := 0
	for _, t := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := qset[t]; ok {
			inter++
		}
	}
	if len(qset) == 0 || len(seen) == 0 {
		return 0
	}
	return float64(inter) / math.Sqrt(float64(len(qset))*float64(len(seen)))
}

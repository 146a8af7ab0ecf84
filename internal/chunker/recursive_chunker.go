package chunker

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"rulebot/internal/domain"
)

var defaultSeparators = []string{"\n\n", "\n", " ", ""}

// RecursiveChunker splits text on a preference-ordered list of separators:
// paragraph breaks first, then lines, then words, then hard character
// splitting. Adjacent chunks share up to chunkOverlap trailing characters.
type RecursiveChunker struct {
	chunkSize    int
	chunkOverlap int
	separators   []string
}

func NewRecursiveChunker(chunkSize, chunkOverlap int) *RecursiveChunker {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if chunkOverlap < 0 {
		chunkOverlap = 0
	}
	if chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 5
	}
	return &RecursiveChunker{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		separators:   defaultSeparators,
	}
}

// Chunk splits a document into ordered, overlapping chunks that inherit the
// document's metadata. Whitespace-only pieces are dropped.
func (c *RecursiveChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	idx := 0
	for _, piece := range c.splitText(document.Content, c.separators) {
		if strings.TrimSpace(piece) == "" {
			continue
		}
		chunks = append(chunks, domain.Chunk{
			DocumentID: document.ID,
			ChunkID:    document.ID + ":" + strconv.Itoa(idx),
			Index:      idx,
			Filename:   document.Filename,
			Path:       document.Path,
			Text:       piece,
		})
		idx++
	}
	return chunks, nil
}

// splitText splits on the coarsest separator present in the text. Pieces
// that still exceed chunkSize recurse into the next separator; the rest are
// merged back together up to chunkSize with overlap carried across chunk
// boundaries. Separators stay attached to the preceding piece so that
// de-overlapped chunks concatenate back to the original text. All sizes are
// measured in runes, never bytes, so multi-byte text is never cut mid-rune.
func (c *RecursiveChunker) splitText(text string, separators []string) []string {
	if utf8.RuneCountInString(text) <= c.chunkSize {
		return []string{text}
	}
	if len(separators) == 0 || separators[0] == "" {
		return c.hardSplit(text)
	}
	sep, rest := separators[0], separators[1:]
	if !strings.Contains(text, sep) {
		return c.splitText(text, rest)
	}

	var out, pending []string
	for _, piece := range strings.SplitAfter(text, sep) {
		if piece == "" {
			continue
		}
		if utf8.RuneCountInString(piece) <= c.chunkSize {
			pending = append(pending, piece)
			continue
		}
		out = append(out, c.merge(pending)...)
		pending = nil
		out = append(out, c.splitText(piece, rest)...)
	}
	return append(out, c.merge(pending)...)
}

// merge joins small pieces into chunks of at most chunkSize runes, seeding
// each new chunk with the previous chunk's overlap tail. The tail is trimmed
// when the next piece alone nearly fills a chunk, so the size bound always
// holds.
func (c *RecursiveChunker) merge(pieces []string) []string {
	if len(pieces) == 0 {
		return nil
	}
	var out []string
	current := pieces[0]
	for _, piece := range pieces[1:] {
		pieceLen := utf8.RuneCountInString(piece)
		if utf8.RuneCountInString(current)+pieceLen <= c.chunkSize {
			current += piece
			continue
		}
		out = append(out, current)
		tail := overlapTail(current, c.chunkOverlap)
		if utf8.RuneCountInString(tail)+pieceLen > c.chunkSize {
			tail = overlapTail(tail, c.chunkSize-pieceLen)
		}
		current = tail + piece
	}
	return append(out, current)
}

func (c *RecursiveChunker) hardSplit(text string) []string {
	runes := []rune(text)
	step := c.chunkSize - c.chunkOverlap
	var out []string
	for start := 0; ; start += step {
		end := start + c.chunkSize
		if end >= len(runes) {
			return append(out, string(runes[start:]))
		}
		out = append(out, string(runes[start:end]))
	}
}

// overlapTail returns the last overlap runes of s.
func overlapTail(s string, overlap int) string {
	runes := []rune(s)
	if overlap >= len(runes) {
		return s
	}
	return string(runes[len(runes)-overlap:])
}

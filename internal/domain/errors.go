package domain

import "errors"

// Startup preconditions. These abort the process before the loop starts, as
// opposed to per-turn failures which the conversation loop recovers from.
var (
	// ErrNoDocuments means the corpus folder contained no supported files.
	ErrNoDocuments = errors.New("no supported documents found")

	// ErrNotPrepared means an embedder was used before its corpus pass.
	ErrNotPrepared = errors.New("embedder not prepared")
)

package embedserver

import "context"

// Version of the service
const Version = "v0.1.0"

// Dimension is the length of every embedding the service returns.
const Dimension = 768

// Embedding is a fixed-length vector representing a piece of text
type Embedding []float32

// Embedder turns text into an Embedding.
type Embedder interface {
	Embed(ctx context.Context, text string) (Embedding, error)
	Dimension() int
	Close()
}

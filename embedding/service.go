package embedding

import (
	"context"
	"fmt"

	"github.com/gomithril/embedserver"
	"github.com/rs/zerolog/log"
)

// Config holds embedding service configuration
type Config struct {
	EmbedDim int
}

// DefaultConfig returns default embedding configuration
func DefaultConfig() *Config {
	return &Config{
		EmbedDim: embedserver.Dimension,
	}
}

// Service produces embeddings for text.
//
// There is no model behind it yet: every call yields the zero vector of
// the configured dimension, whatever the input. Treat the output as a
// stand-in, not as a meaningful representation of the text.
type Service struct {
	config *Config
}

var _ embedserver.Embedder = (*Service)(nil)

// NewService creates a new embedding service
func NewService(config *Config) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.EmbedDim <= 0 {
		return nil, fmt.Errorf("invalid embedding dimension %d", config.EmbedDim)
	}

	log.Warn().
		Int("dimension", config.EmbedDim).
		Msg("Embedding service has no model loaded, returning zero vectors")

	return &Service{config: config}, nil
}

// Dimension reports the length of the vectors Embed returns.
func (s *Service) Dimension() int {
	return s.config.EmbedDim
}

// Embed returns the embedding for text.
// TODO: replace the zero vector with model inference once a model backend is chosen.
func (s *Service) Embed(ctx context.Context, text string) (embedserver.Embedding, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("embed cancelled: %w", err)
	}

	log.Debug().Int("text_len", len(text)).Msg("Generating placeholder embedding")
	return make(embedserver.Embedding, s.config.EmbedDim), nil
}

func (s *Service) Close() {}

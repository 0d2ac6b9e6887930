package driven

import "context"

// LLMService provides language model text generation.
//
// The service takes a single textual prompt in and returns raw text
// out; the provider guarantees nothing about output shape. All
// response-JSON parsing and repair belongs to the query pipeline.
//
// Implementations may include:
//   - OpenAI (gpt-4o-mini, gpt-4o)
//   - Ollama (local models)
//   - LM Studio and other OpenAI-compatible inference servers
type LLMService interface {
	// Generate produces a text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request. Used at startup to fail fast on bad credentials.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}

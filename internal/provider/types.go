package provider

import "context"

// Completer is the interface for sending a single analysis prompt to an
// LLM and receiving the full response text. Implementations are
// non-streaming: analysis consumes whole responses, never deltas.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompletionRequest represents a single completion request.
type CompletionRequest struct {
	Model       string   `json:"model"`
	System      string   `json:"system,omitempty"`
	Prompt      string   `json:"prompt"`
	MaxTokens   int      `json:"max_tokens"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// ProviderConstructor is a function that creates a new Completer.
type ProviderConstructor func(baseURL, apiKey string, extraHeaders map[string]string) Completer

// registry holds registered provider constructors.
var registry = map[string]ProviderConstructor{}

// RegisterProvider registers a provider constructor by name.
func RegisterProvider(name string, constructor ProviderConstructor) {
	registry[name] = constructor
}

package llm

import "context"

// ChatRequest is one structured-interpretation call: an instruction set, the
// user text, and the JSON Schema the reply must match.
type ChatRequest struct {
	System     string
	User       string
	SchemaName string
	Schema     map[string]any
}

// ChatResult carries either schema-shaped content or the engine's stated
// refusal. A refusal is a distinguishable signal, not a transport failure.
type ChatResult struct {
	Content []byte
	Refusal string
}

// ChatClient is the interface the orchestrators depend on. Implementations
// must be safe for concurrent reuse; the handle is read-only after
// construction.
type ChatClient interface {
	Complete(ctx context.Context, req ChatRequest) (ChatResult, error)
}

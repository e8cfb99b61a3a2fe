package domain

import "context"

// Generator produces a model response from a system instruction and a
// single user turn. The pipelines carry no conversation history.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userText string, maxTokens int) (string, error)
}

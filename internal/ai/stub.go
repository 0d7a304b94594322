package ai

import (
	"context"
	"fmt"
)

// StubInvoker is a local Invoker used when no provider runtime is wired.
// It echoes a deterministic completion, which keeps the pipeline runnable
// end to end in development and tests.
type StubInvoker struct{}

// Invoke returns a canned completion derived from the last message.
func (StubInvoker) Invoke(ctx context.Context, cfg ModelConfig, messages []Message, opts Options) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prompt := ""
	if len(messages) > 0 {
		prompt = messages[len(messages)-1].Content
	}
	content := fmt.Sprintf("[%s] stub completion for prompt of %d bytes", cfg.Slug, len(prompt))
	return &Response{
		Content: content,
		Usage: Usage{
			PromptTokens:     len(prompt) / 4,
			CompletionTokens: len(content) / 4,
			TotalTokens:      (len(prompt) + len(content)) / 4,
		},
	}, nil
}

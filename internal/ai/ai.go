// Package ai defines the boundary to external AI model providers. The
// provider HTTP integration itself lives outside this module; callers
// inject an Invoker.
package ai

import (
	"context"
	"errors"
	"fmt"
)

// ModelConfig is the per-model provider configuration loaded from the
// catalog.
type ModelConfig struct {
	ID            string  `json:"id"`
	Slug          string  `json:"slug"`
	DisplayName   string  `json:"display_name"`
	Provider      string  `json:"provider"`
	APIIdentifier string  `json:"api_identifier"`
	BaseURL       string  `json:"base_url,omitempty"`
	MaxTokens     int     `json:"max_tokens,omitempty"`
	Temperature   float64 `json:"temperature,omitempty"`
}

// Message is one chat message sent to a model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options tunes a single invocation.
type Options struct {
	MaxTokens   int
	Temperature float64
}

// Usage reports token accounting for one invocation.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a successful model invocation result.
type Response struct {
	Content string `json:"content"`
	Usage   Usage  `json:"usage"`
}

// Invoker calls an AI model. Implementations own transport concerns;
// callers own timeouts via ctx.
type Invoker interface {
	Invoke(ctx context.Context, cfg ModelConfig, messages []Message, opts Options) (*Response, error)
}

// ProviderError carries the provider or transport error code verbatim so
// it can be surfaced unchanged for observability.
type ProviderError struct {
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ErrorCode extracts the provider code from err, falling back to a generic
// transport code.
func ErrorCode(err error) string {
	var pe *ProviderError
	if errors.As(err, &pe) && pe.Code != "" {
		return pe.Code
	}
	return "PROVIDER_ERROR"
}

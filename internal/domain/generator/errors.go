package generator

import (
	"fmt"

	"github.com/rgauld/dialectic/internal/domain/contribution"
)

// Error codes surfaced by the generator.
const (
	CodeNoModelsSelected    = "NO_MODELS_SELECTED"
	CodeSessionNotFound     = "SESSION_NOT_FOUND"
	CodeStageNotFound       = "STAGE_NOT_FOUND"
	CodeSeedPromptFailed    = "SEED_PROMPT_DOWNLOAD_FAILED"
	CodeAllModelsFailed     = "ALL_MODELS_FAILED"
	CodeModelConfigMissing  = "MODEL_CONFIG_NOT_FOUND"
	CodeEmptyResponse       = "EMPTY_RESPONSE"
	CodeRegistrationFailed  = "REGISTRATION_FAILED"
	CodeSessionUpdateFailed = "SESSION_UPDATE_FAILED"
)

// GenerationError is a structured failure of a generation round. Details,
// when present, is the ordered list of per-model failed attempts.
type GenerationError struct {
	Code    string                       `json:"code"`
	Status  int                          `json:"status"`
	Message string                       `json:"message"`
	Details []contribution.FailedAttempt `json:"details,omitempty"`
	cause   error
}

func (e *GenerationError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.cause
}

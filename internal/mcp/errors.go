package mcp

import (
	"errors"
	"fmt"

	"github.com/rgauld/dialectic/internal/domain/generator"
	"github.com/rgauld/dialectic/internal/domain/resolver"
	"github.com/rgauld/dialectic/internal/repository"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Errors without a
// mapping return nil and propagate as-is.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var genErr *generator.GenerationError
	if errors.As(err, &genErr) {
		return &APIError{Code: genErr.Code, Message: genErr.Message, Details: genErr.Details}
	}

	var ruleErr *resolver.RuleError
	if errors.As(err, &ruleErr) {
		return &APIError{Code: ruleErrorCode(ruleErr), Message: ruleErr.Error(), RecoveryHint: "Check that the upstream stage produced its outputs for this iteration"}
	}

	switch {
	case errors.Is(err, repository.ErrNotFound):
		return &APIError{Code: "NOT_FOUND", Message: "requested entity not found", RecoveryHint: "Check ID spelling"}
	case errors.Is(err, repository.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	default:
		return nil
	}
}

func ruleErrorCode(e *resolver.RuleError) string {
	switch {
	case errors.Is(e, resolver.ErrRequiredInputMissing):
		return "REQUIRED_INPUT_MISSING"
	case errors.Is(e, resolver.ErrRequiredDownloadFailed):
		return "INPUT_DOWNLOAD_FAILED"
	case errors.Is(e, resolver.ErrStorageDetailsMissing):
		return "STORAGE_DETAILS_MISSING"
	case errors.Is(e, resolver.ErrCatalogQuery):
		return "CATALOG_QUERY_FAILED"
	default:
		return "INPUT_RESOLUTION_FAILED"
	}
}

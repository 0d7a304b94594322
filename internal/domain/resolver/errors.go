package resolver

import (
	"errors"
	"fmt"

	"github.com/rgauld/dialectic/internal/domain/stage"
)

var (
	// ErrRequiredInputMissing indicates a required rule matched no catalog entry.
	ErrRequiredInputMissing = errors.New("required input missing")
	// ErrRequiredDownloadFailed indicates content download failed for a required rule.
	ErrRequiredDownloadFailed = errors.New("required input download failed")
	// ErrStorageDetailsMissing indicates a catalog entry for a required rule
	// lacks its storage bucket or path.
	ErrStorageDetailsMissing = errors.New("storage details missing")
	// ErrCatalogQuery indicates a catalog query failed for a required rule.
	ErrCatalogQuery = errors.New("catalog query failed")
)

// RuleError is a classified failure of one required input rule. It names
// the stage display name and, where applicable, the document key, and
// preserves the underlying cause.
type RuleError struct {
	Kind        error
	RuleType    stage.RuleType
	StageName   string
	DocumentKey string
	Cause       error
}

func (e *RuleError) Error() string {
	key := ""
	if e.DocumentKey != "" {
		key = fmt.Sprintf(" (document key %q)", e.DocumentKey)
	}
	msg := ""
	switch e.Kind {
	case ErrRequiredInputMissing:
		msg = fmt.Sprintf("required %s input for stage %q%s was not found", e.RuleType, e.StageName, key)
	case ErrRequiredDownloadFailed:
		msg = fmt.Sprintf("failed to download required %s input for stage %q%s", e.RuleType, e.StageName, key)
	case ErrStorageDetailsMissing:
		msg = fmt.Sprintf("required %s input for stage %q%s has no storage details", e.RuleType, e.StageName, key)
	case ErrCatalogQuery:
		msg = fmt.Sprintf("catalog query for required %s input for stage %q%s failed", e.RuleType, e.StageName, key)
	default:
		msg = fmt.Sprintf("required %s input for stage %q%s could not be resolved", e.RuleType, e.StageName, key)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap exposes both the classification sentinel and the cause to
// errors.Is and errors.As.
func (e *RuleError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCatalogUnavailable marks a catalog failure with no usable cache. Fatal for a run.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrStaleCache marks a recoverable fallback to a cached index that could not be revalidated.
	ErrStaleCache = errors.New("stale cache used")
	// ErrNoMatch is the expected per-channel outcome when nothing clears the threshold.
	ErrNoMatch = errors.New("no match found")
	// ErrWriteConflict marks a host write rejected because the channel changed underneath us.
	ErrWriteConflict = errors.New("write conflict")
	// ErrMalformedEntry marks a catalog entry skipped during indexing.
	ErrMalformedEntry = errors.New("malformed catalog entry")

	ErrConfiguration = errors.New("configuration error")
	ErrValidation    = errors.New("validation error")
	ErrTimeout       = errors.New("timeout")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes component context while tagging it with
// the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind maps an error to the short classification used in run reports and logs.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCatalogUnavailable):
		return "catalog_unavailable"
	case errors.Is(err, ErrStaleCache):
		return "stale_cache"
	case errors.Is(err, ErrNoMatch):
		return "no_match"
	case errors.Is(err, ErrWriteConflict):
		return "write_conflict"
	case errors.Is(err, ErrMalformedEntry):
		return "malformed_entry"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "transient"
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}

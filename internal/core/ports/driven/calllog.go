package driven

import (
	"context"

	"github.com/docpatch-labs/docpatch-cli/internal/core/domain"
)

// CallLog persists an audit trail of tool invocations.
type CallLog interface {
	// Record appends one call record.
	Record(ctx context.Context, call domain.ToolCall) error

	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]domain.ToolCall, error)

	// Close releases the underlying storage.
	Close() error
}

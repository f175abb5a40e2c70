package results

import (
	"context"

	"github.com/google/uuid"
)

// TestResultRepository writes result values onto existing tests.
type TestResultRepository interface {
	// SetResult overwrites the test's result and refreshes its result
	// timestamp. Returns false when the test ID does not resolve; that is
	// not an error.
	SetResult(ctx context.Context, testID uuid.UUID, result string) (bool, error)
}

// Package sequences allocates gap-free per-scope counters for human-readable
// identifiers such as MEM-000042.
package sequences

import "context"

type Repository interface {
	// Next increments the counter for scope and returns the new value,
	// starting at 1. Called inside a transaction it holds the scope's row lock
	// until commit or rollback, so concurrent callers are serialized per scope
	// and a rolled-back allocation is handed out again.
	Next(ctx context.Context, scope string) (int64, error)
}

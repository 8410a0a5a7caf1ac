package repositories

import (
	"context"
)

// TransactionManager runs a unit of work. Every repository call made with the
// context handed to fn joins the same storage transaction; the unit commits
// when fn returns nil and rolls back entirely otherwise. Calling
// WithinTransaction with a context that already carries a unit joins it.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

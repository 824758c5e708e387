package repositories

import "context"

// Transactor runs fn inside a single store transaction. Repository calls made
// with the ctx passed to fn join that transaction; a non-nil error from fn
// rolls everything back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

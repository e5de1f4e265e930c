package services

import "context"

//go:generate mockgen -source=tx.go -destination=mock_tx.go -package=services

// TxRunner runs fn inside a single database transaction.
// The context passed to fn carries the transaction.
type TxRunner interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Package blockreader materializes a full Block (header, position,
// transactions, scripts) from the relational store. It is pure over the
// snapshot it reads; it never mutates.
package blockreader

import (
	"context"
	"fmt"

	"github.com/blocktreedb/chainvalidator/internal/model"
)

// Store is the subset of the store adapter the reader needs.
type Store interface {
	GetPosition(ctx context.Context, blockID int64) (model.Position, error)
	GetHeader(ctx context.Context, blockID int64) (model.Header, error)
	TransactionsForBlock(ctx context.Context, blockID int64) ([]model.Transaction, error)
}

// Reader materializes blocks from a Store.
type Reader struct {
	store Store
}

// New constructs a Reader over store.
func New(store Store) *Reader {
	return &Reader{store: store}
}

// ReadBlock materializes the full block identified by blockID: its
// position, header, and ordered transactions with their inputs and
// outputs, each carrying its script.
func (r *Reader) ReadBlock(ctx context.Context, blockID int64) (model.Block, error) {
	pos, err := r.store.GetPosition(ctx, blockID)
	if err != nil {
		return model.Block{}, fmt.Errorf("get position: %w", err)
	}

	header, err := r.store.GetHeader(ctx, blockID)
	if err != nil {
		return model.Block{}, fmt.Errorf("get header: %w", err)
	}

	txs, err := r.store.TransactionsForBlock(ctx, blockID)
	if err != nil {
		return model.Block{}, fmt.Errorf("get transactions: %w", err)
	}

	return model.Block{
		Position:     pos,
		PrevHash:     header.PrevHash,
		Header:       header,
		Transactions: txs,
	}, nil
}

// ReadPosition materializes only a block's position tuple, the subset
// the organizer and validator need without paying for the transaction
// join.
func (r *Reader) ReadPosition(ctx context.Context, blockID int64) (model.Position, error) {
	return r.store.GetPosition(ctx, blockID)
}

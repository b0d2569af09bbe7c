package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Store provides all functions to execute db queries and transactions
type Store interface {
	Querier
	SaveSmilesTx(ctx context.Context, arg SaveSmilesTxParams) (SaveSmilesTxResult, error)
}

// SQLStore provides all functions to execute SQL queries and transactions
type SQLStore struct {
	*Queries
	db *sql.DB
}

// NewStore creates a new store
func NewStore(db *sql.DB) Store {
	return &SQLStore{
		db:      db,
		Queries: New(db),
	}
}

// execTx executes a function within a database transaction
func (store *SQLStore) execTx(ctx context.Context, fn func(*Queries) error) error {
	tx, err := store.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	q := New(tx)
	err = fn(q)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx err: %v, rb err: %v", err, rbErr)
		}
		return err
	}

	return tx.Commit()
}

// SaveSmilesTxParams is one calibration run: every expiry of a ticker on a date.
type SaveSmilesTxParams struct {
	Smiles []InsertSabrParameterParams `json:"smiles"`
}

type SaveSmilesTxResult struct {
	Saved []SabrParameter `json:"saved"`
}

// SaveSmilesTx stores a batch of calibrated smiles. Either all rows are
// written or none.
func (store *SQLStore) SaveSmilesTx(ctx context.Context, arg SaveSmilesTxParams) (SaveSmilesTxResult, error) {
	var result SaveSmilesTxResult
	err := store.execTx(ctx, func(q *Queries) error {
		for _, s := range arg.Smiles {
			row, err := q.InsertSabrParameter(ctx, s)
			if err != nil {
				return err
			}
			result.Saved = append(result.Saved, row)
		}
		return nil
	})
	return result, err
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// writeTx groups the statements of one store write
type writeTx struct {
	ctx context.Context
	tx  *sql.Tx
}

func (s *Store) withTx(ctx context.Context, fn func(*writeTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(&writeTx{ctx: ctx, tx: tx}); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// upsert inserts or replaces a record
func (t *writeTx) upsert(key string, value []byte) error {
	_, err := t.tx.ExecContext(t.ctx, `
		INSERT OR REPLACE INTO kv (key, value, updated_at)
		VALUES (?, ?, ?)
	`, key, value, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// remove deletes a record
func (t *writeTx) remove(key string) error {
	if _, err := t.tx.ExecContext(t.ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// bumpRevision increments the write counter
func (t *writeTx) bumpRevision() error {
	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO meta (key, value) VALUES ('revision', '1')
		ON CONFLICT(key) DO UPDATE SET value = CAST(CAST(value AS INTEGER) + 1 AS TEXT)
	`)
	return err
}

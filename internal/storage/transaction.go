package storage

import (
	"context"
	"fmt"
)

// Transaction runs fn inside a scoped transaction: begins on entry,
// commits on fn's normal return, rolls back if fn returns an error or
// panics. Transactions do not nest — calling Transaction while one is
// already open on this Driver returns ErrAlreadyInTransaction.
func (d *Driver) Transaction(ctx context.Context, fn func(scoped *Driver) error) (err error) {
	if d.tx != nil {
		return ErrAlreadyInTransaction
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: begin transaction: %w", err)
	}
	d.tx = tx
	defer func() {
		d.tx = nil
	}()

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(d); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("storage: transaction failed: %w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: commit transaction: %w", err)
	}
	return nil
}

// InTransaction reports whether a Transaction scope is currently open on
// this Driver.
func (d *Driver) InTransaction() bool {
	return d.tx != nil
}

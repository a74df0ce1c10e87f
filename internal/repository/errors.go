// Package repository wraps all database access. Methods with a Tx
// suffix run inside a caller-supplied transaction and never commit on
// their own; the caller owns the transaction boundary.
package repository

import "errors"

// ErrInsufficientCredits is returned by LedgerRepository.DebitTx when
// the user's balance cannot cover the requested amount. No write has
// happened when it is returned.
var ErrInsufficientCredits = errors.New("insufficient credits")

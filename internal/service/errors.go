package service

import (
	"errors"

	"github.com/fitgrid/fitgrid-backend/internal/repository"
)

// Business failures surfaced to handlers. Each maps to a stable HTTP
// code; anything else is treated as an internal error. A duplicate
// payment delivery is not in this list; the reconciler treats it as
// success.
var (
	ErrCapacityExceeded         = errors.New("capacity exceeded")
	ErrInsufficientCredits      = repository.ErrInsufficientCredits
	ErrCancellationWindowClosed = errors.New("cancellation window closed")
	ErrNotFound                 = errors.New("not found")
	ErrForbidden                = errors.New("forbidden")
	ErrEmptyCart                = errors.New("cart is empty")
)

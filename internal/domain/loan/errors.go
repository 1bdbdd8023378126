package loan

import "errors"

// Each rejected operation surfaces a distinct sentinel so callers can tell
// the categories apart without string matching.
var (
	// ErrNotFound: operation references a nonexistent loan id.
	ErrNotFound = errors.New("loan not found")
	// ErrClosed: operation illegal on a repaid or revoked loan.
	ErrClosed = errors.New("loan already closed")
	// ErrFrozen: loan is already frozen.
	ErrFrozen = errors.New("loan already frozen")
	// ErrNotFrozen: unfreeze on a loan that is not frozen.
	ErrNotFrozen = errors.New("loan not frozen")
	// ErrInvalidAmount: zero or otherwise malformed amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrExcessiveAmount: amount exceeds the current outstanding balance
	// (or, for an undo, the cumulative repaid amount).
	ErrExcessiveAmount = errors.New("amount exceeds outstanding balance")
	// ErrRateIncrease: interest rates may only be decreased after creation.
	ErrRateIncrease = errors.New("interest rate may only be decreased")
	// ErrDurationDecrease: duration may only be increased after creation.
	ErrDurationDecrease = errors.New("duration may only be increased")
	// ErrHookRejected wraps a funding-hook failure; the whole operation is
	// aborted and the record left unchanged.
	ErrHookRejected = errors.New("funding hook rejected operation")
	// ErrInvalidTerms: a terms provider returned an unusable template.
	ErrInvalidTerms = errors.New("invalid loan terms")
)

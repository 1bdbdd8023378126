package uow

import (
	"context"

	"lending-ledger/internal/domain/loan"
)

type Repos struct {
	Loans loan.Repository
}

// UnitOfWork scopes repository work to one transaction. Batch operations
// use WithinTx and lock member rows in ascending id order; single-loan
// mutations use WithinLoanTx, which locks the row up front.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinLoanTx locks the loan row first, then passes it in.
	WithinLoanTx(ctx context.Context, loanID uint64, fn func(r Repos, l *loan.Loan) error) error
}

package loan

import "context"

// TermsProvider is the underwriting collaborator consulted at creation.
type TermsProvider interface {
	ComputeTerms(ctx context.Context, borrowerID string, amount uint64) (Terms, error)
}

// FundingHooks is the liquidity/treasury collaborator notified around every
// balance-affecting operation. Fund movement is its responsibility, not the
// core's. Hooks are called in a fixed order inside the operation's
// transaction; any error aborts the whole operation and the record is left
// unchanged.
type FundingHooks interface {
	// BeforeLoanTaken / AfterLoanTaken bracket creation; the collaborator
	// moves borrowed + addon out between them.
	BeforeLoanTaken(ctx context.Context, loanID uint64) error
	AfterLoanTaken(ctx context.Context, loanID uint64) error
	// BeforeLiquidityIn / AfterLoanPayment bracket a repayment.
	BeforeLiquidityIn(ctx context.Context, amount uint64) error
	AfterLoanPayment(ctx context.Context, loanID, amount uint64) error
	// BeforeLoanRevocation / AfterLoanRevocation bracket a revocation; the
	// collaborator moves the signed refund.
	BeforeLoanRevocation(ctx context.Context, loanID uint64) error
	AfterLoanRevocation(ctx context.Context, loanID uint64) error
	// AfterLoanRepaymentUndoing compensates for a committed repayment whose
	// external fund movement later turned out to have failed.
	AfterLoanRepaymentUndoing(ctx context.Context, loanID, amount uint64) error
}

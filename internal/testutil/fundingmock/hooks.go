package fundingmock

import "context"

// Hooks is a function-backed mock that satisfies loan.FundingHooks. Unset
// functions succeed; every invocation is appended to Calls so tests can
// assert hook order.
type Hooks struct {
	BeforeLoanTakenFn           func(ctx context.Context, loanID uint64) error
	AfterLoanTakenFn            func(ctx context.Context, loanID uint64) error
	BeforeLiquidityInFn         func(ctx context.Context, amount uint64) error
	AfterLoanPaymentFn          func(ctx context.Context, loanID, amount uint64) error
	BeforeLoanRevocationFn      func(ctx context.Context, loanID uint64) error
	AfterLoanRevocationFn       func(ctx context.Context, loanID uint64) error
	AfterLoanRepaymentUndoingFn func(ctx context.Context, loanID, amount uint64) error

	Calls []string
}

func (h *Hooks) record(name string) { h.Calls = append(h.Calls, name) }

func (h *Hooks) BeforeLoanTaken(ctx context.Context, loanID uint64) error {
	h.record("BeforeLoanTaken")
	if h.BeforeLoanTakenFn != nil {
		return h.BeforeLoanTakenFn(ctx, loanID)
	}
	return nil
}

func (h *Hooks) AfterLoanTaken(ctx context.Context, loanID uint64) error {
	h.record("AfterLoanTaken")
	if h.AfterLoanTakenFn != nil {
		return h.AfterLoanTakenFn(ctx, loanID)
	}
	return nil
}

func (h *Hooks) BeforeLiquidityIn(ctx context.Context, amount uint64) error {
	h.record("BeforeLiquidityIn")
	if h.BeforeLiquidityInFn != nil {
		return h.BeforeLiquidityInFn(ctx, amount)
	}
	return nil
}

func (h *Hooks) AfterLoanPayment(ctx context.Context, loanID, amount uint64) error {
	h.record("AfterLoanPayment")
	if h.AfterLoanPaymentFn != nil {
		return h.AfterLoanPaymentFn(ctx, loanID, amount)
	}
	return nil
}

func (h *Hooks) BeforeLoanRevocation(ctx context.Context, loanID uint64) error {
	h.record("BeforeLoanRevocation")
	if h.BeforeLoanRevocationFn != nil {
		return h.BeforeLoanRevocationFn(ctx, loanID)
	}
	return nil
}

func (h *Hooks) AfterLoanRevocation(ctx context.Context, loanID uint64) error {
	h.record("AfterLoanRevocation")
	if h.AfterLoanRevocationFn != nil {
		return h.AfterLoanRevocationFn(ctx, loanID)
	}
	return nil
}

func (h *Hooks) AfterLoanRepaymentUndoing(ctx context.Context, loanID, amount uint64) error {
	h.record("AfterLoanRepaymentUndoing")
	if h.AfterLoanRepaymentUndoingFn != nil {
		return h.AfterLoanRepaymentUndoingFn(ctx, loanID, amount)
	}
	return nil
}

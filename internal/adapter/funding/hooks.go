// Package funding carries the default funding-hook implementation. The
// ledger core never moves funds itself; this adapter acknowledges every
// notification and logs it so an operator can reconcile against the real
// treasury system.
package funding

import (
	"context"
	"log"
)

type LogHooks struct{}

func NewLogHooks() *LogHooks { return &LogHooks{} }

func (h *LogHooks) BeforeLoanTaken(_ context.Context, loanID uint64) error {
	log.Printf("funding: loan %d taken, disburse principal+addon", loanID)
	return nil
}

func (h *LogHooks) AfterLoanTaken(_ context.Context, loanID uint64) error { return nil }

func (h *LogHooks) BeforeLiquidityIn(_ context.Context, amount uint64) error {
	log.Printf("funding: expect %d units inbound", amount)
	return nil
}

func (h *LogHooks) AfterLoanPayment(_ context.Context, loanID, amount uint64) error {
	log.Printf("funding: loan %d settled %d units", loanID, amount)
	return nil
}

func (h *LogHooks) BeforeLoanRevocation(_ context.Context, loanID uint64) error {
	log.Printf("funding: loan %d revocation pending", loanID)
	return nil
}

func (h *LogHooks) AfterLoanRevocation(_ context.Context, loanID uint64) error {
	log.Printf("funding: loan %d revoked, move signed refund", loanID)
	return nil
}

func (h *LogHooks) AfterLoanRepaymentUndoing(_ context.Context, loanID, amount uint64) error {
	log.Printf("funding: loan %d repayment of %d undone", loanID, amount)
	return nil
}

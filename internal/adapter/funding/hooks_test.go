package funding

import (
	"context"
	"testing"

	domain "lending-ledger/internal/domain/loan"
)

var _ domain.FundingHooks = (*LogHooks)(nil)

func TestLogHooks_AcknowledgeEverything(t *testing.T) {
	h := NewLogHooks()
	ctx := context.Background()

	calls := []error{
		h.BeforeLoanTaken(ctx, 1),
		h.AfterLoanTaken(ctx, 1),
		h.BeforeLiquidityIn(ctx, 100),
		h.AfterLoanPayment(ctx, 1, 100),
		h.BeforeLoanRevocation(ctx, 1),
		h.AfterLoanRevocation(ctx, 1),
		h.AfterLoanRepaymentUndoing(ctx, 1, 100),
	}
	for i, err := range calls {
		if err != nil {
			t.Fatalf("hook %d returned %v", i, err)
		}
	}
}

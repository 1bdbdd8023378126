package termsmock

import (
	"context"

	domain "lending-ledger/internal/domain/loan"
)

// Provider satisfies loan.TermsProvider. When Fn is unset, Terms is
// returned as-is for every borrower.
type Provider struct {
	Terms domain.Terms
	Fn    func(ctx context.Context, borrowerID string, amount uint64) (domain.Terms, error)
}

func (p *Provider) ComputeTerms(ctx context.Context, borrowerID string, amount uint64) (domain.Terms, error) {
	if p.Fn != nil {
		return p.Fn(ctx, borrowerID, amount)
	}
	return p.Terms, nil
}

// Package terms provides the environment-driven terms provider used when no
// external underwriting service is wired in: every borrower gets the same
// template regardless of the requested amount.
package terms

import (
	"context"

	"lending-ledger/internal/config"
	"lending-ledger/internal/domain/loan"
	"lending-ledger/internal/interest"
)

type Static struct{ t loan.Terms }

func NewStatic(t loan.Terms) *Static { return &Static{t: t} }

// FromConfig builds a static provider from the TERMS_* environment values.
func FromConfig(c *config.Config) *Static {
	return NewStatic(loan.Terms{
		AssetID:               c.DefaultAssetID,
		SettlementID:          c.DefaultSettlementID,
		DurationInPeriods:     c.DefaultDuration,
		InterestRatePrimary:   c.DefaultRatePrimary,
		InterestRateSecondary: c.DefaultRateSecondary,
		InterestFormula:       interest.Formula(c.DefaultInterestMethod),
		AddonAmount:           c.DefaultAddonAmount,
		PenaltyRate:           c.DefaultPenaltyRate,
	})
}

func (s *Static) ComputeTerms(_ context.Context, _ string, _ uint64) (loan.Terms, error) {
	return s.t, nil
}

package terms

import (
	"context"
	"testing"

	"lending-ledger/internal/config"
	"lending-ledger/internal/interest"
)

func TestFromConfig_BuildsTemplate(t *testing.T) {
	t.Setenv("TERMS_DURATION_PERIODS", "14")
	t.Setenv("TERMS_RATE_PRIMARY", "1000000")
	t.Setenv("TERMS_RATE_SECONDARY", "2000000")
	t.Setenv("TERMS_INTEREST_FORMULA", "simple")
	t.Setenv("TERMS_ADDON_AMOUNT", "50")
	t.Setenv("TERMS_PENALTY_RATE", "100000")

	p := FromConfig(config.Load())
	got, err := p.ComputeTerms(context.Background(), "ignored", 123)
	if err != nil {
		t.Fatalf("ComputeTerms: %v", err)
	}
	if got.DurationInPeriods != 14 || got.InterestRatePrimary != 1_000_000 || got.InterestRateSecondary != 2_000_000 {
		t.Fatalf("unexpected terms: %+v", got)
	}
	if got.InterestFormula != interest.FormulaSimple || got.AddonAmount != 50 || got.PenaltyRate != 100_000 {
		t.Fatalf("unexpected terms: %+v", got)
	}
	if !got.InterestFormula.Valid() {
		t.Fatal("formula from env must be valid")
	}
}

func TestStatic_SameTermsForEveryBorrower(t *testing.T) {
	p := FromConfig(config.Load())
	a, _ := p.ComputeTerms(context.Background(), "borrower-a", 100)
	b, _ := p.ComputeTerms(context.Background(), "borrower-b", 1_000_000)
	if a != b {
		t.Fatalf("terms differ: %+v vs %+v", a, b)
	}
}

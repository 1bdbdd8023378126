package interest

import (
	"errors"
	"math"
	"testing"
)

// Rates chosen so the 64.64 factor is exactly representable (dyadic), which
// makes the expected values computable by hand without replaying the
// implementation's truncation order.
const (
	rate50  = RateFactor / 2 // factor 1.5
	rate25  = RateFactor / 4 // factor 1.25
	rate100 = RateFactor     // factor 2.0
)

func TestLinear_TruncatesTowardZero(t *testing.T) {
	// 1000 * 333 / 1e9 = 0.000333 -> 0
	got, err := Linear(1000, 333, 1)
	if err != nil {
		t.Fatalf("Linear: %v", err)
	}
	if got != 0 {
		t.Fatalf("got %d, want 0", got)
	}

	got, err = Linear(1_000_000_000, 333, 1)
	if err != nil {
		t.Fatalf("Linear: %v", err)
	}
	if got != 333 {
		t.Fatalf("got %d, want 333", got)
	}
}

func TestSimple_LinearOverWholeSpan(t *testing.T) {
	// 1000 + 1000 * 0.1 * 5 = 1500
	got, err := Simple(1000, RateFactor/10, 5)
	if err != nil {
		t.Fatalf("Simple: %v", err)
	}
	if got != 1500 {
		t.Fatalf("got %d, want 1500", got)
	}
}

func TestSimple_OverflowFailsLoudly(t *testing.T) {
	_, err := Simple(math.MaxUint64, RateFactor, 1)
	if !errors.Is(err, ErrOverflow) {
		t.Fatalf("err = %v, want ErrOverflow", err)
	}
}

func TestCompound_ExactDyadicCases(t *testing.T) {
	cases := []struct {
		name    string
		balance uint64
		rate    uint64
		periods uint64
		want    uint64
	}{
		{"identity zero periods", 1000, rate50, 0, 1000},
		{"identity zero rate", 1000, 0, 10, 1000},
		{"one period floors", 1, rate50, 1, 1}, // floor(1.5)
		{"two periods", 1000, rate50, 2, 2250},
		// floor(1000 * 1.5^10) = floor(59049000/1024)
		{"ten periods", 1000, rate50, 10, 57665},
		// floor(10000 * 1.25^8)
		{"quarter rate", 10_000, rate25, 8, 59604},
		{"doubling", 57665, rate100, 2, 230_660},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Compound(tc.balance, tc.rate, tc.periods)
			if err != nil {
				t.Fatalf("Compound: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestCompound_ExceedsSimpleEstimate(t *testing.T) {
	compound, err := Compound(1000, rate50, 10)
	if err != nil {
		t.Fatalf("Compound: %v", err)
	}
	simple, err := Simple(1000, rate50, 10)
	if err != nil {
		t.Fatalf("Simple: %v", err)
	}
	if compound <= simple {
		t.Fatalf("compound %d must exceed simple %d", compound, simple)
	}
}

func TestCompound_BalanceOverflowFailsLoudly(t *testing.T) {
	// 1 * 2^64 no longer fits a balance.
	_, err := Compound(1, rate100, 64)
	if !errors.Is(err, ErrOverflow) {
		t.Fatalf("err = %v, want ErrOverflow", err)
	}
}

func TestCompound_RateNearMaxFailsLoudly(t *testing.T) {
	// A rate that would wrap RateFactor+rate must error, never shrink the
	// balance.
	got, err := Compound(1000, math.MaxUint64, 1)
	if !errors.Is(err, ErrOverflow) {
		t.Fatalf("got %d, err = %v, want ErrOverflow", got, err)
	}
	if _, err := Compound(1000, math.MaxUint64-RateFactor+1, 1); !errors.Is(err, ErrOverflow) {
		t.Fatalf("err = %v, want ErrOverflow", err)
	}

	// The largest non-wrapping rate still accrues: numerator == MaxUint64,
	// factor floor(MaxUint64/1e9) after the shift.
	got, err = Compound(1, math.MaxUint64-RateFactor, 1)
	if err != nil {
		t.Fatalf("boundary rate: %v", err)
	}
	if want := math.MaxUint64 / RateFactor; got != want {
		t.Fatalf("got %d, want %d", got, want)
	}
}

func TestCompound_RejectsHugePeriodCounts(t *testing.T) {
	_, err := Compound(1000, rate50, maxPeriods+1)
	if !errors.Is(err, ErrTooManyPeriods) {
		t.Fatalf("err = %v, want ErrTooManyPeriods", err)
	}
}

func TestAccrue_DispatchesAndRejectsUnknown(t *testing.T) {
	s, err := Accrue(1000, rate50, 2, FormulaSimple)
	if err != nil || s != 2000 {
		t.Fatalf("simple: got %d, %v", s, err)
	}
	c, err := Accrue(1000, rate50, 2, FormulaCompound)
	if err != nil || c != 2250 {
		t.Fatalf("compound: got %d, %v", c, err)
	}
	if _, err := Accrue(1000, rate50, 2, Formula("hyperbolic")); !errors.Is(err, ErrUnknownFormula) {
		t.Fatalf("err = %v, want ErrUnknownFormula", err)
	}
}

func TestFixedRatio_ZeroDenominator(t *testing.T) {
	if _, err := fixedRatio(1, 0); !errors.Is(err, ErrZeroRateFactor) {
		t.Fatalf("err = %v, want ErrZeroRateFactor", err)
	}
}

func TestFormula_Valid(t *testing.T) {
	if !FormulaSimple.Valid() || !FormulaCompound.Valid() {
		t.Fatal("known formulas must be valid")
	}
	if Formula("").Valid() || Formula("hyperbolic").Valid() {
		t.Fatal("unknown formulas must be invalid")
	}
}

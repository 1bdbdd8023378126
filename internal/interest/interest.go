package interest

import (
	"errors"
	"math"
	"math/big"
)

// RateFactor is the fixed-point scale for per-period rates: 1e9 == 100%.
// A rate of 12_345 therefore means 0.0012345% per period.
const RateFactor uint64 = 1_000_000_000

// Formula selects how interest is applied over a span of periods.
type Formula string

const (
	FormulaSimple   Formula = "simple"
	FormulaCompound Formula = "compound"
)

const (
	// fixedBits is the fractional width of the internal fixed-point domain
	// used by the compound power routine.
	fixedBits = 64
	// maxIntermediateBits caps every intermediate product inside the power
	// routine. Exceeding it aborts instead of producing a silently huge
	// (and then truncated) value.
	maxIntermediateBits = 512
	// maxBalanceBits is the representable range for a ledger balance.
	maxBalanceBits = 64
	// maxPeriods rejects exponents far beyond any realistic loan span.
	maxPeriods = 1 << 32
)

var (
	// ErrOverflow reports a balance or intermediate product that exceeds
	// the representable range.
	ErrOverflow = errors.New("interest: balance overflows representable range")
	// ErrZeroRateFactor guards the power routine against a zero divisor.
	ErrZeroRateFactor = errors.New("interest: zero rate factor")
	// ErrTooManyPeriods rejects exponents outside the supported range.
	ErrTooManyPeriods = errors.New("interest: period count out of range")
	// ErrUnknownFormula reports an unrecognised formula selector.
	ErrUnknownFormula = errors.New("interest: unknown formula")
)

var fixedOne = new(big.Int).Lsh(big.NewInt(1), fixedBits)

// Valid reports whether f is a known formula selector.
func (f Formula) Valid() bool {
	return f == FormulaSimple || f == FormulaCompound
}

// Linear computes balance * rate * periods / RateFactor, truncating toward
// zero. It is the interest part of the simple formula and is also used for
// the penalty overlay, which never compounds.
func Linear(balance, rate, periods uint64) (uint64, error) {
	if balance == 0 || rate == 0 || periods == 0 {
		return 0, nil
	}
	if periods > maxPeriods {
		return 0, ErrTooManyPeriods
	}
	out := new(big.Int).SetUint64(balance)
	out.Mul(out, new(big.Int).SetUint64(rate))
	out.Mul(out, new(big.Int).SetUint64(periods))
	out.Quo(out, new(big.Int).SetUint64(RateFactor))
	return toUint64(out)
}

// Simple returns the balance after `periods` of linear interest at `rate`:
// balance + balance*rate*periods/RateFactor.
func Simple(balance, rate, periods uint64) (uint64, error) {
	accrued, err := Linear(balance, rate, periods)
	if err != nil {
		return 0, err
	}
	return addChecked(balance, accrued)
}

// Compound returns the balance after `periods` of per-period compounding at
// `rate`. The per-period factor (RateFactor+rate)/RateFactor is converted to
// a 64.64 fixed-point value once, raised to `periods` by squaring, and
// applied to the balance. Every division truncates toward zero, matching a
// period-by-period loop in the same fixed-point domain.
func Compound(balance, rate, periods uint64) (uint64, error) {
	if balance == 0 || periods == 0 {
		return balance, nil
	}
	if rate == 0 {
		return balance, nil
	}
	if periods > maxPeriods {
		return 0, ErrTooManyPeriods
	}
	// The factor numerator must not wrap: a wrapped sum would drop the
	// per-period factor below 1 and shrink the balance without any error.
	if rate > math.MaxUint64-RateFactor {
		return 0, ErrOverflow
	}
	factor, err := fixedRatio(RateFactor+rate, RateFactor)
	if err != nil {
		return 0, err
	}
	power, err := fixedPow(factor, periods)
	if err != nil {
		return 0, err
	}
	out := new(big.Int).SetUint64(balance)
	out.Mul(out, power)
	out.Rsh(out, fixedBits)
	return toUint64(out)
}

// Accrue dispatches to Simple or Compound. Zero periods or a zero rate is
// the identity.
func Accrue(balance, rate, periods uint64, formula Formula) (uint64, error) {
	switch formula {
	case FormulaSimple:
		return Simple(balance, rate, periods)
	case FormulaCompound:
		return Compound(balance, rate, periods)
	default:
		return 0, ErrUnknownFormula
	}
}

// fixedRatio converts num/den into 64.64 fixed point, truncating.
func fixedRatio(num, den uint64) (*big.Int, error) {
	if den == 0 {
		return nil, ErrZeroRateFactor
	}
	out := new(big.Int).SetUint64(num)
	out.Lsh(out, fixedBits)
	out.Quo(out, new(big.Int).SetUint64(den))
	return out, nil
}

// fixedPow raises a 64.64 fixed-point base to an integer exponent by
// squaring, truncating after each multiplication. O(log exp).
func fixedPow(base *big.Int, exp uint64) (*big.Int, error) {
	acc := new(big.Int).Set(fixedOne)
	sq := new(big.Int).Set(base)
	for exp > 0 {
		if exp&1 == 1 {
			acc.Mul(acc, sq)
			acc.Rsh(acc, fixedBits)
			if acc.BitLen() > maxIntermediateBits {
				return nil, ErrOverflow
			}
		}
		exp >>= 1
		if exp == 0 {
			break
		}
		sq.Mul(sq, sq)
		sq.Rsh(sq, fixedBits)
		if sq.BitLen() > maxIntermediateBits {
			return nil, ErrOverflow
		}
	}
	return acc, nil
}

func addChecked(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, ErrOverflow
	}
	return sum, nil
}

func toUint64(v *big.Int) (uint64, error) {
	if v.Sign() < 0 || v.BitLen() > maxBalanceBits {
		return 0, ErrOverflow
	}
	return v.Uint64(), nil
}

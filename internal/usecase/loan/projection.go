package loan

import (
	domain "lending-ledger/internal/domain/loan"
	"lending-ledger/internal/interest"
)

// projection is the outcome of advancing a record to a target period. The
// same computation backs Preview (read-only) and settle (mutating); that is
// what keeps the two paths equal to the unit.
type projection struct {
	balance uint64
	penalty uint64
	period  uint64
}

// project advances l's tracked balance to the target period without touching
// the record. Frozen and closed loans do not advance; neither does a target
// at or before the tracked period (zero periods elapsed, zero delta).
//
// The span splits at the due boundary: periods before it accrue at the
// primary rate, periods at or after it at the secondary rate, the first
// segment's output feeding the second. The penalty overlay, when configured,
// is linear on the balance entering the overdue segment and is added on top
// rather than compounded into it.
func (u *Usecase) project(l *domain.Loan, target uint64) (projection, error) {
	out := projection{balance: l.TrackedBalance, period: l.TrackedPeriod}
	if l.Closed() || l.State == domain.StateFrozen {
		return out, nil
	}
	if target <= l.TrackedPeriod {
		return out, nil
	}

	due := l.DuePeriod()
	bal := l.TrackedBalance
	var err error

	if l.TrackedPeriod < due {
		n := min(target, due) - l.TrackedPeriod
		bal, err = interest.Accrue(bal, l.InterestRatePrimary, n, l.InterestFormula)
		if err != nil {
			return projection{}, err
		}
	}

	var pen uint64
	if target > due {
		n := target - max(l.TrackedPeriod, due)
		if l.PenaltyRate > 0 {
			pen, err = interest.Linear(bal, l.PenaltyRate, n)
			if err != nil {
				return projection{}, err
			}
		}
		bal, err = interest.Accrue(bal, l.InterestRateSecondary, n, l.InterestFormula)
		if err != nil {
			return projection{}, err
		}
		if bal+pen < bal {
			return projection{}, interest.ErrOverflow
		}
		bal += pen
	}

	return projection{balance: bal, penalty: pen, period: target}, nil
}

// settle brings the record current: the commit half of the preview/commit
// pair. Every balance-affecting operation calls it first so the decision is
// made against a just-refreshed balance.
func (u *Usecase) settle(l *domain.Loan, target uint64) error {
	p, err := u.project(l, target)
	if err != nil {
		return err
	}
	if l.PenaltyAmount+p.penalty < l.PenaltyAmount {
		return interest.ErrOverflow
	}
	l.TrackedBalance = p.balance
	l.TrackedPeriod = p.period
	l.PenaltyAmount += p.penalty
	return nil
}

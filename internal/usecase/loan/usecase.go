package loan

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"time"

	domain "lending-ledger/internal/domain/loan"
	"lending-ledger/internal/domain/uow"
	"lending-ledger/internal/interest"
	"lending-ledger/internal/period"
)

var reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

// Usecase is the loan state machine. It owns the collection of ledger
// records (through the repository), assigns ids monotonically, enforces
// transition legality, and brings every record current before a
// balance-affecting mutation. All mutations run inside a unit-of-work
// transaction with the loan row locked, so operations on one loan are
// serialized and a failed operation leaves the record untouched.
type Usecase struct {
	repo  domain.Repository
	uow   uow.UnitOfWork
	hooks domain.FundingHooks
	terms domain.TermsProvider
	clock period.Clock
	now   func() time.Time
}

func NewUsecase(repo domain.Repository, tx uow.UnitOfWork, hooks domain.FundingHooks, terms domain.TermsProvider, clock period.Clock) *Usecase {
	return &Usecase{repo: repo, uow: tx, hooks: hooks, terms: terms, clock: clock, now: time.Now}
}

func (u *Usecase) currentPeriod() uint64 { return u.clock.Index(u.now()) }

func wrapHook(err error) error {
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrHookRejected, err)
	}
	return nil
}

func validTerms(t domain.Terms) bool {
	return t.DurationInPeriods > 0 && t.InterestFormula.Valid()
}

// newRecord builds an active record from terms; the initial tracked balance
// is principal plus the origination addon.
func (u *Usecase) newRecord(borrowerID string, amount uint64, t domain.Terms) (*domain.Loan, error) {
	principal := amount + t.AddonAmount
	if principal < amount {
		return nil, interest.ErrOverflow
	}
	cur := u.currentPeriod()
	return &domain.Loan{
		BorrowerID:            borrowerID,
		AssetID:               t.AssetID,
		SettlementID:          t.SettlementID,
		State:                 domain.StateActive,
		StartPeriod:           cur,
		TrackedPeriod:         cur,
		BorrowedAmount:        amount,
		AddonAmount:           t.AddonAmount,
		TrackedBalance:        principal,
		DurationInPeriods:     t.DurationInPeriods,
		InterestRatePrimary:   t.InterestRatePrimary,
		InterestRateSecondary: t.InterestRateSecondary,
		InterestFormula:       t.InterestFormula,
		PenaltyRate:           t.PenaltyRate,
		StateUpdatedAt:        u.now().UTC(),
	}, nil
}

func (u *Usecase) Create(ctx context.Context, in CreateLoanInput) (*LoanDTO, error) {
	if in.Amount == 0 {
		return nil, domain.ErrInvalidAmount
	}
	if !reHex32.MatchString(in.BorrowerID) {
		return nil, fmt.Errorf("%w: borrower id must be 32-char lowercase hex", domain.ErrInvalidTerms)
	}
	terms, err := u.terms.ComputeTerms(ctx, in.BorrowerID, in.Amount)
	if err != nil {
		return nil, fmt.Errorf("compute terms: %w", err)
	}
	if !validTerms(terms) {
		return nil, domain.ErrInvalidTerms
	}
	l, err := u.newRecord(in.BorrowerID, in.Amount, terms)
	if err != nil {
		return nil, err
	}
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		if err := wrapHook(u.hooks.BeforeLoanTaken(ctx, l.ID)); err != nil {
			return err
		}
		return wrapHook(u.hooks.AfterLoanTaken(ctx, l.ID))
	})
	if err != nil {
		return nil, err
	}
	return toDTO(l), nil
}

// CreateInstallments creates N sibling records from one drawdown request in
// a single transaction. Siblings get sequential ids and share the first
// sibling's id as the installment link.
func (u *Usecase) CreateInstallments(ctx context.Context, in CreateInstallmentsInput) ([]*LoanDTO, error) {
	if len(in.Amounts) == 0 {
		return nil, domain.ErrInvalidAmount
	}
	if !reHex32.MatchString(in.BorrowerID) {
		return nil, fmt.Errorf("%w: borrower id must be 32-char lowercase hex", domain.ErrInvalidTerms)
	}
	records := make([]*domain.Loan, 0, len(in.Amounts))
	for _, amount := range in.Amounts {
		if amount == 0 {
			return nil, domain.ErrInvalidAmount
		}
		terms, err := u.terms.ComputeTerms(ctx, in.BorrowerID, amount)
		if err != nil {
			return nil, fmt.Errorf("compute terms: %w", err)
		}
		if !validTerms(terms) {
			return nil, domain.ErrInvalidTerms
		}
		l, err := u.newRecord(in.BorrowerID, amount, terms)
		if err != nil {
			return nil, err
		}
		records = append(records, l)
	}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.CreateBatch(ctx, records); err != nil {
			return err
		}
		first := records[0].ID
		for _, l := range records {
			l.FirstInstallmentID = first
			l.InstallmentCount = uint32(len(records))
			if err := r.Loans.Save(ctx, l); err != nil {
				return err
			}
			if err := wrapHook(u.hooks.BeforeLoanTaken(ctx, l.ID)); err != nil {
				return err
			}
			if err := wrapHook(u.hooks.AfterLoanTaken(ctx, l.ID)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	dtos := make([]*LoanDTO, 0, len(records))
	for _, l := range records {
		dtos = append(dtos, toDTO(l))
	}
	return dtos, nil
}

func (u *Usecase) Get(ctx context.Context, loanID uint64) (*LoanDTO, error) {
	l, err := u.repo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return toDTO(l), nil
}

// Counter returns the id the next created loan will receive.
func (u *Usecase) Counter(ctx context.Context) (uint64, error) {
	return u.repo.NextID(ctx)
}

// Preview projects the outstanding balance at current period + offset
// without mutating stored state. The result equals what a mutating call at
// that period would commit.
func (u *Usecase) Preview(ctx context.Context, loanID, periodOffset uint64) (*PreviewDTO, error) {
	l, err := u.repo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	cur := u.currentPeriod()
	if periodOffset > math.MaxUint64-cur {
		return nil, domain.ErrInvalidAmount
	}
	target := cur + periodOffset
	p, err := u.project(l, target)
	if err != nil {
		return nil, err
	}
	return &PreviewDTO{
		LoanID:             l.ID,
		State:              string(l.State),
		Period:             p.period,
		TrackedPeriod:      l.TrackedPeriod,
		OutstandingBalance: p.balance,
		TrackedBalance:     l.TrackedBalance,
		PenaltyAmount:      l.PenaltyAmount + p.penalty,
		DiscountAmount:     l.DiscountAmount,
	}, nil
}

func (u *Usecase) close(l *domain.Loan, s domain.State) {
	l.State = s
	l.FreezePeriod = 0
	l.StateUpdatedAt = u.now().UTC()
}

// repayLocked applies a repayment to an already-locked record. The RepayAll
// sentinel repays exactly the refreshed outstanding balance; any concrete
// amount above it is rejected, not capped.
func (u *Usecase) repayLocked(ctx context.Context, r uow.Repos, l *domain.Loan, amount uint64) (uint64, error) {
	if amount == 0 {
		return 0, domain.ErrInvalidAmount
	}
	if l.Closed() {
		return 0, domain.ErrClosed
	}
	if err := u.settle(l, u.currentPeriod()); err != nil {
		return 0, err
	}
	eff := amount
	if amount == RepayAll {
		eff = l.TrackedBalance
	} else if amount > l.TrackedBalance {
		return 0, domain.ErrExcessiveAmount
	}
	if err := wrapHook(u.hooks.BeforeLiquidityIn(ctx, eff)); err != nil {
		return 0, err
	}
	l.RepaidAmount += eff
	l.TrackedBalance -= eff
	if l.TrackedBalance == 0 {
		u.close(l, domain.StateRepaid)
	}
	if err := r.Loans.Save(ctx, l); err != nil {
		return 0, err
	}
	return eff, wrapHook(u.hooks.AfterLoanPayment(ctx, l.ID, eff))
}

func (u *Usecase) Repay(ctx context.Context, loanID, amount uint64) (*LoanDTO, error) {
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if _, err := u.repayLocked(ctx, r, l, amount); err != nil {
			return err
		}
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// UndoRepayment reverses a committed repayment whose external fund movement
// failed after the fact. A fully repaid loan reopens; interest for the span
// it spent closed is not backfilled.
func (u *Usecase) UndoRepayment(ctx context.Context, loanID, amount uint64) (*LoanDTO, error) {
	if amount == 0 {
		return nil, domain.ErrInvalidAmount
	}
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if l.State == domain.StateRevoked {
			return domain.ErrClosed
		}
		if amount > l.RepaidAmount {
			return domain.ErrExcessiveAmount
		}
		cur := u.currentPeriod()
		if l.State == domain.StateRepaid {
			l.State = domain.StateActive
			l.StateUpdatedAt = u.now().UTC()
			l.TrackedPeriod = cur
		} else if err := u.settle(l, cur); err != nil {
			return err
		}
		if l.TrackedBalance+amount < l.TrackedBalance {
			return interest.ErrOverflow
		}
		l.RepaidAmount -= amount
		l.TrackedBalance += amount
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		if err := wrapHook(u.hooks.AfterLoanRepaymentUndoing(ctx, l.ID, amount)); err != nil {
			return err
		}
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// discountLocked writes down an already-locked record. Repaid amount is
// untouched, so a discounted-to-zero closure stays distinguishable from a
// cash closure.
func (u *Usecase) discountLocked(ctx context.Context, r uow.Repos, l *domain.Loan, amount uint64) (uint64, error) {
	if amount == 0 {
		return 0, domain.ErrInvalidAmount
	}
	if l.Closed() {
		return 0, domain.ErrClosed
	}
	if err := u.settle(l, u.currentPeriod()); err != nil {
		return 0, err
	}
	eff := amount
	if amount == RepayAll {
		eff = l.TrackedBalance
	} else if amount > l.TrackedBalance {
		return 0, domain.ErrExcessiveAmount
	}
	l.DiscountAmount += eff
	l.TrackedBalance -= eff
	if l.TrackedBalance == 0 {
		u.close(l, domain.StateRepaid)
	}
	if err := r.Loans.Save(ctx, l); err != nil {
		return 0, err
	}
	return eff, wrapHook(u.hooks.AfterLoanPayment(ctx, l.ID, eff))
}

func (u *Usecase) Discount(ctx context.Context, loanID, amount uint64) (*LoanDTO, error) {
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if _, err := u.discountLocked(ctx, r, l, amount); err != nil {
			return err
		}
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Revoke unwinds an open loan. The refund reconciles against the original
// borrowed amount, not the accrued balance: revocation cancels the loan
// rather than settling it.
func (u *Usecase) Revoke(ctx context.Context, loanID uint64) (*RevocationDTO, error) {
	var dto *RevocationDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if l.Closed() {
			return domain.ErrClosed
		}
		if err := u.settle(l, u.currentPeriod()); err != nil {
			return err
		}
		if err := wrapHook(u.hooks.BeforeLoanRevocation(ctx, l.ID)); err != nil {
			return err
		}
		refund, err := signedRefund(l.RepaidAmount, l.BorrowedAmount)
		if err != nil {
			return err
		}
		l.TrackedBalance = 0
		u.close(l, domain.StateRevoked)
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		if err := wrapHook(u.hooks.AfterLoanRevocation(ctx, l.ID)); err != nil {
			return err
		}
		dto = &RevocationDTO{LoanID: l.ID, RefundAmount: refund}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func signedRefund(repaid, borrowed uint64) (int64, error) {
	const maxInt64 = uint64(1)<<63 - 1
	if repaid >= borrowed {
		d := repaid - borrowed
		if d > maxInt64 {
			return 0, interest.ErrOverflow
		}
		return int64(d), nil
	}
	d := borrowed - repaid
	if d > maxInt64 {
		return 0, interest.ErrOverflow
	}
	return -int64(d), nil
}

// Freeze suspends period advancement. The balance is committed first, so
// the frozen balance is fully up to date.
func (u *Usecase) Freeze(ctx context.Context, loanID uint64) (*LoanDTO, error) {
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if l.Closed() {
			return domain.ErrClosed
		}
		if l.State == domain.StateFrozen {
			return domain.ErrFrozen
		}
		cur := u.currentPeriod()
		if err := u.settle(l, cur); err != nil {
			return err
		}
		l.State = domain.StateFrozen
		l.FreezePeriod = cur
		l.StateUpdatedAt = u.now().UTC()
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Unfreeze resumes accrual. The duration is extended by exactly the frozen
// span and the tracked period jumps to the current one, so the outstanding
// balance right after unfreezing equals the one right before freezing.
func (u *Usecase) Unfreeze(ctx context.Context, loanID uint64) (*LoanDTO, error) {
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if l.Closed() {
			return domain.ErrClosed
		}
		if l.State != domain.StateFrozen {
			return domain.ErrNotFrozen
		}
		cur := u.currentPeriod()
		frozen := cur - l.FreezePeriod
		l.DurationInPeriods += frozen
		l.TrackedPeriod = cur
		l.FreezePeriod = 0
		l.State = domain.StateActive
		l.StateUpdatedAt = u.now().UTC()
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// UpdateDuration lengthens the loan. Shortening is never legal.
func (u *Usecase) UpdateDuration(ctx context.Context, loanID, newDuration uint64) (*LoanDTO, error) {
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if l.Closed() {
			return domain.ErrClosed
		}
		if newDuration <= l.DurationInPeriods {
			return domain.ErrDurationDecrease
		}
		// Lock in accrual under the old due boundary first.
		if err := u.settle(l, u.currentPeriod()); err != nil {
			return err
		}
		l.DurationInPeriods = newDuration
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// UpdateRates tightens one or both interest rates. A nil pointer leaves the
// corresponding rate unchanged; raising either rate is never legal.
func (u *Usecase) UpdateRates(ctx context.Context, loanID uint64, primary, secondary *uint64) (*LoanDTO, error) {
	if primary == nil && secondary == nil {
		return nil, domain.ErrInvalidAmount
	}
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if l.Closed() {
			return domain.ErrClosed
		}
		if primary != nil && *primary > l.InterestRatePrimary {
			return domain.ErrRateIncrease
		}
		if secondary != nil && *secondary > l.InterestRateSecondary {
			return domain.ErrRateIncrease
		}
		// Accrue the elapsed span at the old rates before switching.
		if err := u.settle(l, u.currentPeriod()); err != nil {
			return err
		}
		if primary != nil {
			l.InterestRatePrimary = *primary
		}
		if secondary != nil {
			l.InterestRateSecondary = *secondary
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

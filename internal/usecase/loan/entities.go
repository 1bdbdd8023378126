package loan

import (
	"math"
	"time"

	domain "lending-ledger/internal/domain/loan"
)

// RepayAll is the sentinel amount meaning "repay (or discount) exactly the
// current outstanding balance", closing the preview/commit race a caller
// would otherwise have.
const RepayAll uint64 = math.MaxUint64

type CreateLoanInput struct {
	BorrowerID string `json:"borrower_id"`
	Amount     uint64 `json:"amount"`
}

type CreateInstallmentsInput struct {
	BorrowerID string   `json:"borrower_id"`
	Amounts    []uint64 `json:"amounts"`
}

// BatchItem pairs a loan id with the amount to apply to it.
type BatchItem struct {
	LoanID uint64 `json:"loan_id"`
	Amount uint64 `json:"amount"`
}

type LoanDTO struct {
	LoanID                uint64    `json:"loan_id"`
	BorrowerID            string    `json:"borrower_id"`
	AssetID               string    `json:"asset_id"`
	SettlementID          string    `json:"settlement_id"`
	State                 string    `json:"state"`
	StartPeriod           uint64    `json:"start_period"`
	TrackedPeriod         uint64    `json:"tracked_period"`
	FreezePeriod          uint64    `json:"freeze_period"`
	BorrowedAmount        uint64    `json:"borrowed_amount"`
	AddonAmount           uint64    `json:"addon_amount"`
	TrackedBalance        uint64    `json:"tracked_balance"`
	RepaidAmount          uint64    `json:"repaid_amount"`
	DiscountAmount        uint64    `json:"discount_amount"`
	PenaltyAmount         uint64    `json:"penalty_amount"`
	DurationInPeriods     uint64    `json:"duration_in_periods"`
	InterestRatePrimary   uint64    `json:"interest_rate_primary"`
	InterestRateSecondary uint64    `json:"interest_rate_secondary"`
	InterestFormula       string    `json:"interest_formula"`
	PenaltyRate           uint64    `json:"penalty_rate"`
	FirstInstallmentID    uint64    `json:"first_installment_id,omitempty"`
	InstallmentCount      uint32    `json:"installment_count,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
}

// PreviewDTO is the read-only projection of a loan at a target period.
type PreviewDTO struct {
	LoanID        uint64 `json:"loan_id"`
	State         string `json:"state"`
	Period        uint64 `json:"period"`
	TrackedPeriod uint64 `json:"tracked_period"`
	// OutstandingBalance is what TrackedBalance would be after a commit at
	// Period. Bit-for-bit equal to that commit's result.
	OutstandingBalance uint64 `json:"outstanding_balance"`
	TrackedBalance     uint64 `json:"tracked_balance"`
	PenaltyAmount      uint64 `json:"penalty_amount"`
	DiscountAmount     uint64 `json:"discount_amount"`
}

// RevocationDTO reports the signed refund of a revocation: positive means
// funds flow back toward the borrower, negative means the borrower covers
// the shortfall.
type RevocationDTO struct {
	LoanID       uint64 `json:"loan_id"`
	RefundAmount int64  `json:"refund_amount"`
}

func toDTO(l *domain.Loan) *LoanDTO {
	return &LoanDTO{
		LoanID:                l.ID,
		BorrowerID:            l.BorrowerID,
		AssetID:               l.AssetID,
		SettlementID:          l.SettlementID,
		State:                 string(l.State),
		StartPeriod:           l.StartPeriod,
		TrackedPeriod:         l.TrackedPeriod,
		FreezePeriod:          l.FreezePeriod,
		BorrowedAmount:        l.BorrowedAmount,
		AddonAmount:           l.AddonAmount,
		TrackedBalance:        l.TrackedBalance,
		RepaidAmount:          l.RepaidAmount,
		DiscountAmount:        l.DiscountAmount,
		PenaltyAmount:         l.PenaltyAmount,
		DurationInPeriods:     l.DurationInPeriods,
		InterestRatePrimary:   l.InterestRatePrimary,
		InterestRateSecondary: l.InterestRateSecondary,
		InterestFormula:       string(l.InterestFormula),
		PenaltyRate:           l.PenaltyRate,
		FirstInstallmentID:    l.FirstInstallmentID,
		InstallmentCount:      l.InstallmentCount,
		CreatedAt:             l.CreatedAt,
	}
}

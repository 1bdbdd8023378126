package loan

import (
	"time"

	"gorm.io/gorm"

	"lending-ledger/internal/interest"
)

type State string

const (
	StateActive  State = "active"
	StateFrozen  State = "frozen"
	StateRepaid  State = "repaid"
	StateRevoked State = "revoked"
)

// Loan is the per-loan ledger record. Amounts are unsigned integer base
// units; rates are scaled by interest.RateFactor (1e9 == 100% per period).
// TrackedBalance is the authoritative balance (principal + accrued interest
// + penalties, net of repayments and discounts) as of TrackedPeriod.
type Loan struct {
	ID           uint64 `gorm:"primaryKey;column:id" json:"loan_id"`
	BorrowerID   string `gorm:"size:32;index:idx_loans_borrower" json:"borrower_id"`
	AssetID      string `gorm:"size:32" json:"asset_id"`
	SettlementID string `gorm:"size:32" json:"settlement_id"`
	State        State  `gorm:"size:16;default:'active'" json:"state"`

	StartPeriod   uint64 `json:"start_period"`
	TrackedPeriod uint64 `json:"tracked_period"`
	// FreezePeriod is the period at which freezing began; meaningful only
	// while State == StateFrozen.
	FreezePeriod uint64 `json:"freeze_period"`

	BorrowedAmount uint64 `json:"borrowed_amount"`
	AddonAmount    uint64 `json:"addon_amount"`
	TrackedBalance uint64 `json:"tracked_balance"`
	RepaidAmount   uint64 `json:"repaid_amount"`
	DiscountAmount uint64 `json:"discount_amount"`
	// PenaltyAmount is the cumulative penalty component folded into
	// TrackedBalance, kept separately so a write-off can be attributed.
	PenaltyAmount uint64 `json:"penalty_amount"`

	DurationInPeriods     uint64           `json:"duration_in_periods"`
	InterestRatePrimary   uint64           `json:"interest_rate_primary"`
	InterestRateSecondary uint64           `json:"interest_rate_secondary"`
	InterestFormula       interest.Formula `gorm:"size:16" json:"interest_formula"`
	PenaltyRate           uint64           `json:"penalty_rate"`

	// Installment siblings created in the same batch share
	// FirstInstallmentID and carry the batch size; both are zero for a
	// standalone loan.
	FirstInstallmentID uint64 `json:"first_installment_id,omitempty"`
	InstallmentCount   uint32 `json:"installment_count,omitempty"`

	StateUpdatedAt time.Time      `gorm:"autoCreateTime" json:"state_updated_at"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// Closed reports whether the loan reached a terminal state. A closed loan
// always has a zero tracked balance and admits no further mutation.
func (l *Loan) Closed() bool {
	return l.State == StateRepaid || l.State == StateRevoked
}

// DuePeriod is the period boundary at which the secondary rate (and the
// penalty overlay, if configured) takes over.
func (l *Loan) DuePeriod() uint64 {
	return l.StartPeriod + l.DurationInPeriods
}

// Terms is the immutable template a terms provider supplies at creation.
type Terms struct {
	AssetID               string
	SettlementID          string
	DurationInPeriods     uint64
	InterestRatePrimary   uint64
	InterestRateSecondary uint64
	InterestFormula       interest.Formula
	AddonAmount           uint64
	PenaltyRate           uint64
}

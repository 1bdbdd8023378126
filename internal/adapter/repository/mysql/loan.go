package mysql

import (
	"context"
	"errors"

	loanDomain "lending-ledger/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

// CreateBatch inserts siblings with one statement so autoincrement hands out
// sequential ids.
func (r *LoanRepository) CreateBatch(ctx context.Context, ls []*loanDomain.Loan) error {
	if len(ls) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&ls).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) GetByID(ctx context.Context, id uint64) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, loanDomain.ErrNotFound
	}
	return &out, res.Error
}

// GetByIDForUpdate loads the row under SELECT ... FOR UPDATE; only
// meaningful inside a transaction.
func (r *LoanRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, loanDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *LoanRepository) NextID(ctx context.Context) (uint64, error) {
	var next uint64
	res := r.db.WithContext(ctx).
		Unscoped().
		Model(&loanDomain.Loan{}).
		Select("COALESCE(MAX(id), 0) + 1").
		Scan(&next)
	return next, res.Error
}

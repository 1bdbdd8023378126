package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	// CreateBatch inserts sibling records in one statement so their ids
	// come out sequential.
	CreateBatch(ctx context.Context, ls []*Loan) error
	GetByID(ctx context.Context, id uint64) (*Loan, error)
	// GetByIDForUpdate locks the row for the duration of the enclosing
	// transaction.
	GetByIDForUpdate(ctx context.Context, id uint64) (*Loan, error)
	Save(ctx context.Context, l *Loan) error
	// NextID returns the id the next created loan will receive.
	NextID(ctx context.Context) (uint64, error)
}

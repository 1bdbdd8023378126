package loan

import (
	"context"
	"sort"

	domain "lending-ledger/internal/domain/loan"
	"lending-ledger/internal/domain/uow"
)

// lockAscending locks every member row in ascending id order so two
// overlapping batches cannot deadlock each other.
func lockAscending(ctx context.Context, r uow.Repos, items []BatchItem) (map[uint64]*domain.Loan, error) {
	ids := make([]uint64, 0, len(items))
	seen := make(map[uint64]bool, len(items))
	for _, it := range items {
		if !seen[it.LoanID] {
			seen[it.LoanID] = true
			ids = append(ids, it.LoanID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	locked := make(map[uint64]*domain.Loan, len(ids))
	for _, id := range ids {
		l, err := r.Loans.GetByIDForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		locked[id] = l
	}
	return locked, nil
}

// RepayBatch applies repayments to an ordered list of loans as one unit:
// either every item lands or none does.
func (u *Usecase) RepayBatch(ctx context.Context, items []BatchItem) ([]*LoanDTO, error) {
	if len(items) == 0 {
		return nil, domain.ErrInvalidAmount
	}
	var dtos []*LoanDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		locked, err := lockAscending(ctx, r, items)
		if err != nil {
			return err
		}
		dtos = make([]*LoanDTO, 0, len(items))
		for _, it := range items {
			l := locked[it.LoanID]
			if _, err := u.repayLocked(ctx, r, l, it.Amount); err != nil {
				return err
			}
			dtos = append(dtos, toDTO(l))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dtos, nil
}

// DiscountBatch is the write-down analogue of RepayBatch, with the same
// all-or-nothing guarantee.
func (u *Usecase) DiscountBatch(ctx context.Context, items []BatchItem) ([]*LoanDTO, error) {
	if len(items) == 0 {
		return nil, domain.ErrInvalidAmount
	}
	var dtos []*LoanDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		locked, err := lockAscending(ctx, r, items)
		if err != nil {
			return err
		}
		dtos = make([]*LoanDTO, 0, len(items))
		for _, it := range items {
			l := locked[it.LoanID]
			if _, err := u.discountLocked(ctx, r, l, it.Amount); err != nil {
				return err
			}
			dtos = append(dtos, toDTO(l))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dtos, nil
}

// Package memstore is an in-memory loan repository plus unit-of-work used by
// usecase tests. WithinTx snapshots the store and restores it when the
// function fails, mirroring the rollback the gorm implementation gets from
// the database.
package memstore

import (
	"context"
	"sync"

	domain "lending-ledger/internal/domain/loan"
	"lending-ledger/internal/domain/uow"
)

type Store struct {
	mu     sync.Mutex
	loans  map[uint64]domain.Loan
	nextID uint64
}

func New() *Store {
	return &Store{loans: make(map[uint64]domain.Loan), nextID: 1}
}

func (s *Store) snapshot() (map[uint64]domain.Loan, uint64) {
	out := make(map[uint64]domain.Loan, len(s.loans))
	for k, v := range s.loans {
		out[k] = v
	}
	return out, s.nextID
}

func (s *Store) restore(loans map[uint64]domain.Loan, nextID uint64) {
	s.loans = loans
	s.nextID = nextID
}

// Repo returns a loan.Repository view of the store.
func (s *Store) Repo() *Repo { return &Repo{s: s} }

// UoW returns a uow.UnitOfWork view of the store.
func (s *Store) UoW() *UoW { return &UoW{s: s} }

type Repo struct{ s *Store }

func (r *Repo) Create(_ context.Context, l *domain.Loan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l.ID = r.s.nextID
	r.s.nextID++
	r.s.loans[l.ID] = *l
	return nil
}

func (r *Repo) CreateBatch(ctx context.Context, ls []*domain.Loan) error {
	for _, l := range ls {
		if err := r.Create(ctx, l); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) GetByID(_ context.Context, id uint64) (*domain.Loan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.loans[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := l
	return &out, nil
}

func (r *Repo) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.Loan, error) {
	return r.GetByID(ctx, id)
}

func (r *Repo) Save(_ context.Context, l *domain.Loan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.loans[l.ID] = *l
	return nil
}

func (r *Repo) NextID(_ context.Context) (uint64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.nextID, nil
}

type UoW struct{ s *Store }

func (u *UoW) WithinTx(_ context.Context, fn func(r uow.Repos) error) error {
	u.s.mu.Lock()
	loans, next := u.s.snapshot()
	u.s.mu.Unlock()

	err := fn(uow.Repos{Loans: u.s.Repo()})
	if err != nil {
		u.s.mu.Lock()
		u.s.restore(loans, next)
		u.s.mu.Unlock()
	}
	return err
}

func (u *UoW) WithinLoanTx(ctx context.Context, loanID uint64, fn func(r uow.Repos, l *domain.Loan) error) error {
	return u.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		return fn(r, l)
	})
}

package mysql

import (
	"context"
	"errors"
	"testing"

	loanDomain "lending-ledger/internal/domain/loan"
	"lending-ledger/internal/domain/uow"
	"lending-ledger/pkg/id"
)

func TestGormUoW_WithinTx_Commit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	guow := NewGormUoW(db)
	repo := NewLoanRepository(db)

	var created uint64
	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		l := makeLoan(id.NewID32())
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		created = l.ID
		return nil
	})
	if err != nil {
		t.Fatalf("WithinTx: %v", err)
	}
	if _, err := repo.GetByID(ctx, created); err != nil {
		t.Fatalf("committed row missing: %v", err)
	}
}

func TestGormUoW_WithinTx_Rollback(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	guow := NewGormUoW(db)
	repo := NewLoanRepository(db)

	boom := errors.New("boom")
	var created uint64
	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		l := makeLoan(id.NewID32())
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		created = l.ID
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if _, err := repo.GetByID(ctx, created); !errors.Is(err, loanDomain.ErrNotFound) {
		t.Fatalf("rolled-back row visible: err = %v", err)
	}
}

func TestGormUoW_WithinLoanTx_Commit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	guow := NewGormUoW(db)
	repo := NewLoanRepository(db)

	l := makeLoan(id.NewID32())
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}

	err := guow.WithinLoanTx(ctx, l.ID, func(r uow.Repos, locked *loanDomain.Loan) error {
		if locked.ID != l.ID {
			t.Fatalf("locked id = %d, want %d", locked.ID, l.ID)
		}
		locked.TrackedBalance = 250
		locked.RepaidAmount = 750
		return r.Loans.Save(ctx, locked)
	})
	if err != nil {
		t.Fatalf("WithinLoanTx: %v", err)
	}

	got, err := repo.GetByID(ctx, l.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.TrackedBalance != 250 || got.RepaidAmount != 750 {
		t.Fatalf("mutation lost: %+v", got)
	}
}

func TestGormUoW_WithinLoanTx_Rollback(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	guow := NewGormUoW(db)
	repo := NewLoanRepository(db)

	l := makeLoan(id.NewID32())
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}

	boom := errors.New("boom")
	_ = guow.WithinLoanTx(ctx, l.ID, func(r uow.Repos, locked *loanDomain.Loan) error {
		locked.TrackedBalance = 0
		if err := r.Loans.Save(ctx, locked); err != nil {
			return err
		}
		return boom
	})

	got, err := repo.GetByID(ctx, l.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.TrackedBalance != 1000 {
		t.Fatalf("rollback lost: balance = %d, want 1000", got.TrackedBalance)
	}
}

func TestGormUoW_WithinLoanTx_NotFound(t *testing.T) {
	db := openTestDB(t)
	guow := NewGormUoW(db)

	called := false
	err := guow.WithinLoanTx(context.Background(), 9999, func(uow.Repos, *loanDomain.Loan) error {
		called = true
		return nil
	})
	if !errors.Is(err, loanDomain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if called {
		t.Fatal("fn ran for a missing loan")
	}
}

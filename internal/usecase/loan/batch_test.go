package loan

import (
	"context"
	"errors"
	"testing"

	domain "lending-ledger/internal/domain/loan"
)

func twoLoans(t *testing.T, uc *Usecase) (uint64, uint64) {
	t.Helper()
	a := mustCreate(t, uc, 800)
	b := mustCreate(t, uc, 800)
	return a.LoanID, b.LoanID
}

func TestRepayBatch_AppliesEveryItem(t *testing.T) {
	uc, _, _, _ := newEngine(compoundTerms())
	ctx := context.Background()
	id1, id2 := twoLoans(t, uc)

	dtos, err := uc.RepayBatch(ctx, []BatchItem{
		{LoanID: id1, Amount: 100},
		{LoanID: id2, Amount: 250},
	})
	if err != nil {
		t.Fatalf("RepayBatch: %v", err)
	}
	if len(dtos) != 2 {
		t.Fatalf("got %d results, want 2", len(dtos))
	}
	if dtos[0].TrackedBalance != 900 || dtos[1].TrackedBalance != 750 {
		t.Fatalf("balances = %d/%d, want 900/750", dtos[0].TrackedBalance, dtos[1].TrackedBalance)
	}
}

func TestRepayBatch_AllOrNothing(t *testing.T) {
	uc, _, _, _ := newEngine(compoundTerms())
	ctx := context.Background()
	id1, id2 := twoLoans(t, uc)

	_, err := uc.RepayBatch(ctx, []BatchItem{
		{LoanID: id1, Amount: 100},
		{LoanID: id2, Amount: 1_000_000}, // over the outstanding balance
	})
	if !errors.Is(err, domain.ErrExcessiveAmount) {
		t.Fatalf("err = %v, want ErrExcessiveAmount", err)
	}
	for _, id := range []uint64{id1, id2} {
		got, err := uc.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get(%d): %v", id, err)
		}
		if got.TrackedBalance != 1000 || got.RepaidAmount != 0 {
			t.Fatalf("loan %d mutated by failed batch: balance=%d repaid=%d", id, got.TrackedBalance, got.RepaidAmount)
		}
	}
}

func TestRepayBatch_UnknownMemberFailsWhole(t *testing.T) {
	uc, _, _, _ := newEngine(compoundTerms())
	ctx := context.Background()
	id1, _ := twoLoans(t, uc)

	_, err := uc.RepayBatch(ctx, []BatchItem{
		{LoanID: id1, Amount: 100},
		{LoanID: 999, Amount: 100},
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	got, err := uc.Get(ctx, id1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.TrackedBalance != 1000 {
		t.Fatalf("loan %d mutated by failed batch: balance=%d", id1, got.TrackedBalance)
	}
}

func TestRepayBatch_DuplicateIDsShareOneRecord(t *testing.T) {
	uc, _, _, _ := newEngine(compoundTerms())
	ctx := context.Background()
	id1, _ := twoLoans(t, uc)

	dtos, err := uc.RepayBatch(ctx, []BatchItem{
		{LoanID: id1, Amount: 100},
		{LoanID: id1, Amount: 200},
	})
	if err != nil {
		t.Fatalf("RepayBatch: %v", err)
	}
	if dtos[1].TrackedBalance != 700 || dtos[1].RepaidAmount != 300 {
		t.Fatalf("balance=%d repaid=%d, want 700/300", dtos[1].TrackedBalance, dtos[1].RepaidAmount)
	}
}

func TestRepayBatch_EmptyRejected(t *testing.T) {
	uc, _, _, _ := newEngine(compoundTerms())
	if _, err := uc.RepayBatch(context.Background(), nil); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrInvalidAmount", err)
	}
}

func TestDiscountBatch_AllOrNothing(t *testing.T) {
	uc, _, _, _ := newEngine(compoundTerms())
	ctx := context.Background()
	id1, id2 := twoLoans(t, uc)

	// Close the second loan so the batch trips on it.
	if _, err := uc.Repay(ctx, id2, RepayAll); err != nil {
		t.Fatalf("Repay: %v", err)
	}
	_, err := uc.DiscountBatch(ctx, []BatchItem{
		{LoanID: id1, Amount: 100},
		{LoanID: id2, Amount: 100},
	})
	if !errors.Is(err, domain.ErrClosed) {
		t.Fatalf("err = %v, want ErrClosed", err)
	}
	got, err := uc.Get(ctx, id1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.TrackedBalance != 1000 || got.DiscountAmount != 0 {
		t.Fatalf("loan %d mutated by failed batch: balance=%d discount=%d", id1, got.TrackedBalance, got.DiscountAmount)
	}
}

func TestDiscountBatch_AppliesEveryItem(t *testing.T) {
	uc, _, _, _ := newEngine(compoundTerms())
	ctx := context.Background()
	id1, id2 := twoLoans(t, uc)

	dtos, err := uc.DiscountBatch(ctx, []BatchItem{
		{LoanID: id2, Amount: 500},
		{LoanID: id1, Amount: 1000}, // discounts the whole balance
	})
	if err != nil {
		t.Fatalf("DiscountBatch: %v", err)
	}
	if dtos[0].TrackedBalance != 500 || dtos[0].DiscountAmount != 500 {
		t.Fatalf("first: balance=%d discount=%d", dtos[0].TrackedBalance, dtos[0].DiscountAmount)
	}
	if dtos[1].State != string(domain.StateRepaid) || dtos[1].RepaidAmount != 0 {
		t.Fatalf("second: state=%s repaid=%d", dtos[1].State, dtos[1].RepaidAmount)
	}
}

package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"stocksim/internal/domain"
)

func newTestAccount(t *testing.T, store *MemoryLedgerStore, username, cash string) *domain.Account {
	t.Helper()
	now := time.Now()
	account := &domain.Account{
		ID:             uuid.New(),
		Username:       username,
		CredentialHash: "hash",
		Cash:           decimal.RequireFromString(cash),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := store.CreateAccount(context.Background(), account); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	return account
}

func TestMemoryStoreDuplicateUsername(t *testing.T) {
	store := NewMemoryLedgerStore()
	newTestAccount(t, store, "alice", "1000")

	err := store.CreateAccount(context.Background(), &domain.Account{
		ID:       uuid.New(),
		Username: "alice",
	})
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("duplicate username: got %v, want ErrUsernameTaken", err)
	}
}

func TestMemoryStoreUnknownAccount(t *testing.T) {
	store := NewMemoryLedgerStore()

	if _, err := store.AccountByID(context.Background(), uuid.New()); !errors.Is(err, domain.ErrNoSuchUser) {
		t.Errorf("AccountByID: got %v, want ErrNoSuchUser", err)
	}
	if _, err := store.AccountByUsername(context.Background(), "ghost"); !errors.Is(err, domain.ErrNoSuchUser) {
		t.Errorf("AccountByUsername: got %v, want ErrNoSuchUser", err)
	}
	err := store.RunAtomic(context.Background(), uuid.New(), func(tx domain.LedgerTx) error { return nil })
	if !errors.Is(err, domain.ErrNoSuchUser) {
		t.Errorf("RunAtomic: got %v, want ErrNoSuchUser", err)
	}
}

func TestMemoryStoreRollbackLeavesNoTrace(t *testing.T) {
	store := NewMemoryLedgerStore()
	account := newTestAccount(t, store, "alice", "1000")
	ctx := context.Background()

	boom := errors.New("boom")
	err := store.RunAtomic(ctx, account.ID, func(tx domain.LedgerTx) error {
		if err := tx.SetCash(ctx, decimal.Zero); err != nil {
			return err
		}
		if err := tx.UpsertHolding(ctx, "AAPL", 10, decimal.RequireFromString("1000")); err != nil {
			return err
		}
		if _, err := tx.AppendTransaction(ctx, domain.TypeBought, "AAPL", decimal.RequireFromString("100"), 10, decimal.RequireFromString("1000")); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("RunAtomic: got %v, want boom", err)
	}

	got, err := store.AccountByID(ctx, account.ID)
	if err != nil {
		t.Fatalf("AccountByID: %v", err)
	}
	if !got.Cash.Equal(decimal.RequireFromString("1000")) {
		t.Errorf("cash after rollback = %s, want 1000", got.Cash)
	}

	holdings, err := store.HoldingsByAccount(ctx, account.ID)
	if err != nil {
		t.Fatalf("HoldingsByAccount: %v", err)
	}
	if len(holdings) != 0 {
		t.Errorf("holdings after rollback = %d, want 0", len(holdings))
	}

	txs, err := store.TransactionsByAccount(ctx, account.ID, 0)
	if err != nil {
		t.Fatalf("TransactionsByAccount: %v", err)
	}
	if len(txs) != 0 {
		t.Errorf("transactions after rollback = %d, want 0", len(txs))
	}
}

func TestMemoryStoreTransactionIDsMonotonic(t *testing.T) {
	store := NewMemoryLedgerStore()
	account := newTestAccount(t, store, "alice", "10000")
	ctx := context.Background()

	price := decimal.RequireFromString("100")
	for i := 0; i < 3; i++ {
		err := store.RunAtomic(ctx, account.ID, func(tx domain.LedgerTx) error {
			_, err := tx.AppendTransaction(ctx, domain.TypeBought, "AAPL", price, 1, price)
			return err
		})
		if err != nil {
			t.Fatalf("RunAtomic: %v", err)
		}
	}

	txs, err := store.TransactionsByAccount(ctx, account.ID, 0)
	if err != nil {
		t.Fatalf("TransactionsByAccount: %v", err)
	}
	if len(txs) != 3 {
		t.Fatalf("got %d transactions, want 3", len(txs))
	}
	// Newest first: ids strictly decreasing
	for i := 1; i < len(txs); i++ {
		if txs[i-1].ID <= txs[i].ID {
			t.Errorf("ids not monotonic: %d then %d", txs[i-1].ID, txs[i].ID)
		}
	}
}

func TestMemoryStoreIDOrderMatchesTimestampOrder(t *testing.T) {
	store := NewMemoryLedgerStore()
	account := newTestAccount(t, store, "alice", "10000")
	ctx := context.Background()

	// Concurrent units queue on the account; the entry timestamp is taken
	// inside the lock, so a higher id must never carry an earlier timestamp
	price := decimal.RequireFromString("100")
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.RunAtomic(ctx, account.ID, func(tx domain.LedgerTx) error {
				_, err := tx.AppendTransaction(ctx, domain.TypeBought, "AAPL", price, 1, price)
				return err
			})
			if err != nil {
				t.Errorf("RunAtomic: %v", err)
			}
		}()
	}
	wg.Wait()

	txs, err := store.TransactionsByAccount(ctx, account.ID, 0)
	if err != nil {
		t.Fatalf("TransactionsByAccount: %v", err)
	}
	if len(txs) != 20 {
		t.Fatalf("got %d transactions, want 20", len(txs))
	}
	// Newest first: ids strictly decreasing, timestamps never increasing
	for i := 1; i < len(txs); i++ {
		if txs[i-1].ID <= txs[i].ID {
			t.Errorf("ids not monotonic: %d then %d", txs[i-1].ID, txs[i].ID)
		}
		if txs[i-1].ExecutedAt.Before(txs[i].ExecutedAt) {
			t.Errorf("tx %d executed at %s, before older tx %d at %s",
				txs[i-1].ID, txs[i-1].ExecutedAt, txs[i].ID, txs[i].ExecutedAt)
		}
	}
}

func TestMemoryStoreAccountReflectsWritesWithinUnit(t *testing.T) {
	store := NewMemoryLedgerStore()
	account := newTestAccount(t, store, "alice", "1000")
	ctx := context.Background()

	err := store.RunAtomic(ctx, account.ID, func(tx domain.LedgerTx) error {
		if err := tx.SetCash(ctx, decimal.RequireFromString("250")); err != nil {
			return err
		}
		got, err := tx.Account(ctx)
		if err != nil {
			return err
		}
		if !got.Cash.Equal(decimal.RequireFromString("250")) {
			t.Errorf("cash after SetCash = %s, want 250", got.Cash)
		}

		if err := tx.SetCredentialHash(ctx, "hash2"); err != nil {
			return err
		}
		got, err = tx.Account(ctx)
		if err != nil {
			return err
		}
		if got.CredentialHash != "hash2" {
			t.Errorf("credential hash after write = %s, want hash2", got.CredentialHash)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RunAtomic: %v", err)
	}
}

func TestMemoryStoreHistoryLimit(t *testing.T) {
	store := NewMemoryLedgerStore()
	account := newTestAccount(t, store, "alice", "10000")
	ctx := context.Background()

	price := decimal.RequireFromString("10")
	err := store.RunAtomic(ctx, account.ID, func(tx domain.LedgerTx) error {
		for i := 0; i < 5; i++ {
			if _, err := tx.AppendTransaction(ctx, domain.TypeBought, "AAPL", price, 1, price); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RunAtomic: %v", err)
	}

	txs, err := store.TransactionsByAccount(ctx, account.ID, 2)
	if err != nil {
		t.Fatalf("TransactionsByAccount: %v", err)
	}
	if len(txs) != 2 {
		t.Errorf("limited history length = %d, want 2", len(txs))
	}
}

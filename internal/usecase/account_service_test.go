package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"stocksim/internal/domain"
	"stocksim/internal/repository"
)

// fakeHasher is a deterministic CredentialHasher for tests
type fakeHasher struct{}

func (fakeHasher) Hash(secret string) (string, error) {
	return "hashed:" + secret, nil
}

func (fakeHasher) Verify(hash, secret string) bool {
	return hash == "hashed:"+secret
}

func newAccountService() (*AccountService, *repository.MemoryLedgerStore) {
	store := repository.NewMemoryLedgerStore()
	svc := NewAccountService(store, fakeHasher{}, dec("10000"), dec("100"), dec("1000000"))
	return svc, store
}

func TestRegisterStartsWithConfiguredBalance(t *testing.T) {
	svc, store := newAccountService()
	ctx := context.Background()

	accountID, err := svc.Register(ctx, "alice", "hunter22")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	account, err := store.AccountByID(ctx, accountID)
	if err != nil {
		t.Fatalf("AccountByID: %v", err)
	}
	if !account.Cash.Equal(dec("10000")) {
		t.Errorf("starting cash = %s, want 10000", account.Cash)
	}
	if account.CredentialHash == "hunter22" {
		t.Error("credential stored in plaintext")
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newAccountService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "hunter22"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(ctx, "alice", "other"); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("duplicate Register: got %v, want ErrUsernameTaken", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newAccountService()
	ctx := context.Background()

	accountID, err := svc.Register(ctx, "alice", "hunter22")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	got, err := svc.Authenticate(ctx, "alice", "hunter22")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got != accountID {
		t.Errorf("Authenticate returned %s, want %s", got, accountID)
	}

	// Wrong password and unknown user must be indistinguishable
	if _, err := svc.Authenticate(ctx, "alice", "wrong"); !errors.Is(err, domain.ErrBadCredential) {
		t.Errorf("wrong password: got %v, want ErrBadCredential", err)
	}
	if _, err := svc.Authenticate(ctx, "ghost", "hunter22"); !errors.Is(err, domain.ErrBadCredential) {
		t.Errorf("unknown user: got %v, want ErrBadCredential", err)
	}
}

func TestDepositBounds(t *testing.T) {
	svc, store := newAccountService()
	ctx := context.Background()

	accountID, err := svc.Register(ctx, "alice", "hunter22")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := svc.Deposit(ctx, accountID, dec("50")); !errors.Is(err, domain.ErrAmountOutOfRange) {
		t.Errorf("deposit below minimum: got %v, want ErrAmountOutOfRange", err)
	}
	if err := svc.Deposit(ctx, accountID, dec("2000000")); !errors.Is(err, domain.ErrAmountOutOfRange) {
		t.Errorf("deposit above maximum: got %v, want ErrAmountOutOfRange", err)
	}

	if err := svc.Deposit(ctx, accountID, dec("500")); err != nil {
		t.Fatalf("Deposit: %v", err)
	}

	account, _ := store.AccountByID(ctx, accountID)
	if !account.Cash.Equal(dec("10500")) {
		t.Errorf("cash after deposit = %s, want 10500", account.Cash)
	}
}

func TestDepositUnknownAccount(t *testing.T) {
	svc, _ := newAccountService()

	err := svc.Deposit(context.Background(), uuid.New(), dec("500"))
	if !errors.Is(err, domain.ErrNoSuchUser) {
		t.Fatalf("Deposit: got %v, want ErrNoSuchUser", err)
	}
}

func TestChangeCredential(t *testing.T) {
	svc, _ := newAccountService()
	ctx := context.Background()

	accountID, err := svc.Register(ctx, "alice", "hunter22")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := svc.ChangeCredential(ctx, accountID, "hunter22"); !errors.Is(err, domain.ErrSameAsOld) {
		t.Errorf("same credential: got %v, want ErrSameAsOld", err)
	}

	if err := svc.ChangeCredential(ctx, accountID, "hunter23"); err != nil {
		t.Fatalf("ChangeCredential: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "alice", "hunter22"); !errors.Is(err, domain.ErrBadCredential) {
		t.Errorf("old credential still authenticates")
	}
	if _, err := svc.Authenticate(ctx, "alice", "hunter23"); err != nil {
		t.Errorf("new credential rejected: %v", err)
	}
}

package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"stocksim/internal/domain"
)

// AccountService handles registration, authentication, cash deposits,
// and credential changes. Mutations run with the same atomicity
// discipline as trades.
type AccountService struct {
	store           domain.LedgerStore
	hasher          domain.CredentialHasher
	startingBalance decimal.Decimal
	minDeposit      decimal.Decimal
	maxDeposit      decimal.Decimal
}

// NewAccountService creates a new AccountService
func NewAccountService(
	store domain.LedgerStore,
	hasher domain.CredentialHasher,
	startingBalance, minDeposit, maxDeposit decimal.Decimal,
) *AccountService {
	return &AccountService{
		store:           store,
		hasher:          hasher,
		startingBalance: startingBalance,
		minDeposit:      minDeposit,
		maxDeposit:      maxDeposit,
	}
}

// Register creates a new account with the configured starting balance.
// Usernames are unique and case-sensitive.
func (as *AccountService) Register(ctx context.Context, username, credential string) (uuid.UUID, error) {
	if username == "" || credential == "" {
		return uuid.Nil, fmt.Errorf("username and credential are required: %w", domain.ErrBadCredential)
	}

	hash, err := as.hasher.Hash(credential)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to hash credential: %w", err)
	}

	now := time.Now()
	account := &domain.Account{
		ID:             uuid.New(),
		Username:       username,
		CredentialHash: hash,
		Cash:           as.startingBalance,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := as.store.CreateAccount(ctx, account); err != nil {
		return uuid.Nil, err
	}

	log.Printf("[OK] Registered account %s (%s) with starting balance %s", account.ID, username, as.startingBalance)
	return account.ID, nil
}

// Authenticate verifies a username/credential pair and returns the
// account id. An unknown username and a wrong credential are
// indistinguishable to the caller.
func (as *AccountService) Authenticate(ctx context.Context, username, credential string) (uuid.UUID, error) {
	account, err := as.store.AccountByUsername(ctx, username)
	if err != nil {
		return uuid.Nil, domain.ErrBadCredential
	}

	if !as.hasher.Verify(account.CredentialHash, credential) {
		return uuid.Nil, domain.ErrBadCredential
	}

	return account.ID, nil
}

// Deposit atomically adds amount to the account's cash balance. The
// amount must fall within the configured deposit bounds.
func (as *AccountService) Deposit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) error {
	if amount.LessThan(as.minDeposit) || amount.GreaterThan(as.maxDeposit) {
		return fmt.Errorf("deposit %s outside [%s, %s]: %w", amount, as.minDeposit, as.maxDeposit, domain.ErrAmountOutOfRange)
	}

	err := as.store.RunAtomic(ctx, accountID, func(tx domain.LedgerTx) error {
		account, err := tx.Account(ctx)
		if err != nil {
			return err
		}
		return tx.SetCash(ctx, account.Cash.Add(amount))
	})
	if err != nil {
		return err
	}

	log.Printf("[OK] Deposited %s to account %s", amount, accountID)
	return nil
}

// ChangeCredential atomically replaces the stored credential hash.
// Fails when the new credential matches the one already stored.
func (as *AccountService) ChangeCredential(ctx context.Context, accountID uuid.UUID, newCredential string) error {
	if newCredential == "" {
		return fmt.Errorf("credential is required: %w", domain.ErrBadCredential)
	}

	hash, err := as.hasher.Hash(newCredential)
	if err != nil {
		return fmt.Errorf("failed to hash credential: %w", err)
	}

	return as.store.RunAtomic(ctx, accountID, func(tx domain.LedgerTx) error {
		account, err := tx.Account(ctx)
		if err != nil {
			return err
		}
		if as.hasher.Verify(account.CredentialHash, newCredential) {
			return domain.ErrSameAsOld
		}
		return tx.SetCredentialHash(ctx, hash)
	})
}

package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerTx is the isolated view of one account's rows that a mutating
// operation receives inside RunAtomic. All writes made through it commit
// together or not at all.
type LedgerTx interface {
	// Account returns the account row, locked for the duration of the unit
	Account(ctx context.Context) (*Account, error)

	// Holding returns the account's position in symbol, ErrNoSuchHolding if absent
	Holding(ctx context.Context, symbol string) (*Holding, error)

	// SetCash replaces the account's cash balance
	SetCash(ctx context.Context, cash decimal.Decimal) error

	// UpsertHolding creates or replaces the (account, symbol) position
	UpsertHolding(ctx context.Context, symbol string, quantity int64, costBasis decimal.Decimal) error

	// DeleteHolding removes the (account, symbol) row entirely
	DeleteHolding(ctx context.Context, symbol string) error

	// AppendTransaction writes one log entry and returns its id.
	// The store assigns the execution timestamp.
	AppendTransaction(ctx context.Context, txType, symbol string, price decimal.Decimal, quantity int64, amount decimal.Decimal) (int64, error)

	// SetCredentialHash replaces the stored credential hash
	SetCredentialHash(ctx context.Context, hash string) error
}

// LedgerStore owns the durable state: accounts, holdings, and the
// append-only transaction log. Mutations go through RunAtomic, which
// serializes units of work per account.
type LedgerStore interface {
	// CreateAccount inserts a new account, ErrUsernameTaken on duplicate username
	CreateAccount(ctx context.Context, account *Account) error

	// AccountByID retrieves an account, ErrNoSuchUser if absent
	AccountByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// AccountByUsername retrieves an account, ErrNoSuchUser if absent
	AccountByUsername(ctx context.Context, username string) (*Account, error)

	// HoldingsByAccount returns the account's positions ordered by symbol
	HoldingsByAccount(ctx context.Context, accountID uuid.UUID) ([]*Holding, error)

	// TransactionsByAccount returns log entries newest first; limit <= 0 means all
	TransactionsByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]*Transaction, error)

	// AccountIDs lists every account id, oldest first
	AccountIDs(ctx context.Context) ([]uuid.UUID, error)

	// RunAtomic executes fn against a consistent view of the account's
	// rows. All writes commit together; any error from fn or the store
	// rolls everything back, infrastructure failures wrapping ErrLedger.
	// Units of work for the same account run one at a time.
	RunAtomic(ctx context.Context, accountID uuid.UUID, fn func(tx LedgerTx) error) error
}

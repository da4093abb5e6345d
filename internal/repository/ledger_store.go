package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"stocksim/internal/domain"
)

// atomicTimeout bounds one atomic unit of work, lock wait included.
// A stuck unit fails with ErrLedger instead of hanging other accounts.
const atomicTimeout = 10 * time.Second

// uniqueViolation is the PostgreSQL error code for a unique constraint breach
const uniqueViolation = "23505"

// LedgerStoreImpl implements the LedgerStore interface on PostgreSQL
type LedgerStoreImpl struct {
	db *pgxpool.Pool
}

// NewLedgerStore creates a new PostgreSQL-backed LedgerStore
func NewLedgerStore(db *pgxpool.Pool) domain.LedgerStore {
	return &LedgerStoreImpl{db: db}
}

// CreateAccount inserts a new account
func (s *LedgerStoreImpl) CreateAccount(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (id, username, credential_hash, cash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.Exec(ctx, query,
		account.ID,
		account.Username,
		account.CredentialHash,
		account.Cash,
		account.CreatedAt,
		account.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrUsernameTaken
		}
		return fmt.Errorf("%w: failed to create account: %v", domain.ErrLedger, err)
	}

	return nil
}

// AccountByID retrieves an account by ID
func (s *LedgerStoreImpl) AccountByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `
		SELECT id, username, credential_hash, cash, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`
	return s.scanAccount(s.db.QueryRow(ctx, query, id))
}

// AccountByUsername retrieves an account by username (case-sensitive)
func (s *LedgerStoreImpl) AccountByUsername(ctx context.Context, username string) (*domain.Account, error) {
	query := `
		SELECT id, username, credential_hash, cash, created_at, updated_at
		FROM accounts
		WHERE username = $1
	`
	return s.scanAccount(s.db.QueryRow(ctx, query, username))
}

func (s *LedgerStoreImpl) scanAccount(row pgx.Row) (*domain.Account, error) {
	account := &domain.Account{}
	err := row.Scan(
		&account.ID,
		&account.Username,
		&account.CredentialHash,
		&account.Cash,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNoSuchUser
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get account: %v", domain.ErrLedger, err)
	}
	return account, nil
}

// HoldingsByAccount retrieves all of an account's positions
func (s *LedgerStoreImpl) HoldingsByAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.Holding, error) {
	query := `
		SELECT account_id, symbol, quantity, cost_basis
		FROM holdings
		WHERE account_id = $1
		ORDER BY symbol ASC
	`

	rows, err := s.db.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query holdings: %v", domain.ErrLedger, err)
	}
	defer rows.Close()

	var holdings []*domain.Holding
	for rows.Next() {
		holding := &domain.Holding{}
		err := rows.Scan(
			&holding.AccountID,
			&holding.Symbol,
			&holding.Quantity,
			&holding.CostBasis,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan holding: %v", domain.ErrLedger, err)
		}
		holdings = append(holdings, holding)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating holdings: %v", domain.ErrLedger, err)
	}

	return holdings, nil
}

// TransactionsByAccount retrieves an account's transaction log, newest first
func (s *LedgerStoreImpl) TransactionsByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]*domain.Transaction, error) {
	query := `
		SELECT id, type, account_id, symbol, price, quantity, amount, executed_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY id DESC
	`
	args := []any{accountID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query transactions: %v", domain.ErrLedger, err)
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		tx := &domain.Transaction{}
		err := rows.Scan(
			&tx.ID,
			&tx.Type,
			&tx.AccountID,
			&tx.Symbol,
			&tx.Price,
			&tx.Quantity,
			&tx.Amount,
			&tx.ExecutedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan transaction: %v", domain.ErrLedger, err)
		}
		transactions = append(transactions, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating transactions: %v", domain.ErrLedger, err)
	}

	return transactions, nil
}

// AccountIDs lists every account id, oldest first
func (s *LedgerStoreImpl) AccountIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := s.db.Query(ctx, `SELECT id FROM accounts ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query account ids: %v", domain.ErrLedger, err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: failed to scan account id: %v", domain.ErrLedger, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating account ids: %v", domain.ErrLedger, err)
	}

	return ids, nil
}

// RunAtomic executes fn inside a database transaction holding a row lock
// on the account. Concurrent units for the same account queue on that
// lock, which gives per-account serializability; any failure rolls the
// whole unit back.
func (s *LedgerStoreImpl) RunAtomic(ctx context.Context, accountID uuid.UUID, fn func(tx domain.LedgerTx) error) error {
	ctx, cancel := context.WithTimeout(ctx, atomicTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("%w: failed to begin atomic unit: %v", domain.ErrLedger, err)
	}
	defer tx.Rollback(ctx)

	lt := &ledgerTx{tx: tx, accountID: accountID}

	// Take the account lock before handing control to fn
	if _, err := lt.Account(ctx); err != nil {
		return err
	}

	if err := fn(lt); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: failed to commit atomic unit: %v", domain.ErrLedger, err)
	}

	return nil
}

// ledgerTx implements domain.LedgerTx on a pgx transaction
type ledgerTx struct {
	tx        pgx.Tx
	accountID uuid.UUID
	account   *domain.Account
}

// Account returns the account row, locked with SELECT ... FOR UPDATE
func (t *ledgerTx) Account(ctx context.Context) (*domain.Account, error) {
	if t.account != nil {
		return t.account, nil
	}

	query := `
		SELECT id, username, credential_hash, cash, created_at, updated_at
		FROM accounts
		WHERE id = $1
		FOR UPDATE
	`

	account := &domain.Account{}
	err := t.tx.QueryRow(ctx, query, t.accountID).Scan(
		&account.ID,
		&account.Username,
		&account.CredentialHash,
		&account.Cash,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNoSuchUser
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to lock account: %v", domain.ErrLedger, err)
	}

	t.account = account
	return account, nil
}

// Holding returns the account's position in symbol
func (t *ledgerTx) Holding(ctx context.Context, symbol string) (*domain.Holding, error) {
	query := `
		SELECT account_id, symbol, quantity, cost_basis
		FROM holdings
		WHERE account_id = $1 AND symbol = $2
	`

	holding := &domain.Holding{}
	err := t.tx.QueryRow(ctx, query, t.accountID, symbol).Scan(
		&holding.AccountID,
		&holding.Symbol,
		&holding.Quantity,
		&holding.CostBasis,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNoSuchHolding
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get holding: %v", domain.ErrLedger, err)
	}

	return holding, nil
}

// SetCash replaces the account's cash balance
func (t *ledgerTx) SetCash(ctx context.Context, cash decimal.Decimal) error {
	query := `
		UPDATE accounts
		SET cash = $1, updated_at = NOW()
		WHERE id = $2
	`

	if _, err := t.tx.Exec(ctx, query, cash, t.accountID); err != nil {
		return fmt.Errorf("%w: failed to update cash: %v", domain.ErrLedger, err)
	}
	t.account = nil // next Account() re-reads the updated row
	return nil
}

// UpsertHolding creates or replaces the (account, symbol) position
func (t *ledgerTx) UpsertHolding(ctx context.Context, symbol string, quantity int64, costBasis decimal.Decimal) error {
	query := `
		INSERT INTO holdings (account_id, symbol, quantity, cost_basis)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (account_id, symbol)
		DO UPDATE SET quantity = EXCLUDED.quantity, cost_basis = EXCLUDED.cost_basis
	`

	if _, err := t.tx.Exec(ctx, query, t.accountID, symbol, quantity, costBasis); err != nil {
		return fmt.Errorf("%w: failed to upsert holding: %v", domain.ErrLedger, err)
	}
	return nil
}

// DeleteHolding removes the (account, symbol) row
func (t *ledgerTx) DeleteHolding(ctx context.Context, symbol string) error {
	query := `DELETE FROM holdings WHERE account_id = $1 AND symbol = $2`

	if _, err := t.tx.Exec(ctx, query, t.accountID, symbol); err != nil {
		return fmt.Errorf("%w: failed to delete holding: %v", domain.ErrLedger, err)
	}
	return nil
}

// AppendTransaction writes one log entry and returns its assigned id.
// clock_timestamp() reads the clock at insert time, after the row lock
// is held, not at BEGIN; a higher id therefore never carries an earlier
// timestamp, however long the unit waited on the lock.
func (t *ledgerTx) AppendTransaction(ctx context.Context, txType, symbol string, price decimal.Decimal, quantity int64, amount decimal.Decimal) (int64, error) {
	query := `
		INSERT INTO transactions (type, account_id, symbol, price, quantity, amount, executed_at)
		VALUES ($1, $2, $3, $4, $5, $6, clock_timestamp())
		RETURNING id
	`

	var id int64
	err := t.tx.QueryRow(ctx, query, txType, t.accountID, symbol, price, quantity, amount).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to append transaction: %v", domain.ErrLedger, err)
	}
	return id, nil
}

// SetCredentialHash replaces the stored credential hash
func (t *ledgerTx) SetCredentialHash(ctx context.Context, hash string) error {
	query := `
		UPDATE accounts
		SET credential_hash = $1, updated_at = NOW()
		WHERE id = $2
	`

	if _, err := t.tx.Exec(ctx, query, hash, t.accountID); err != nil {
		return fmt.Errorf("%w: failed to update credential hash: %v", domain.ErrLedger, err)
	}
	t.account = nil // next Account() re-reads the updated row
	return nil
}

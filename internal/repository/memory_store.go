package repository

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"stocksim/internal/domain"
)

// MemoryLedgerStore implements LedgerStore entirely in memory. It backs
// tests and the no-database development mode; state is lost on restart.
// A per-account mutex serializes atomic units the same way the Postgres
// store's row lock does.
type MemoryLedgerStore struct {
	mu        sync.RWMutex
	accounts  map[uuid.UUID]*memAccount
	usernames map[string]uuid.UUID
	order     []uuid.UUID // creation order
	nextTxID  atomic.Int64
}

type memAccount struct {
	mu       sync.Mutex // held for the whole atomic unit
	account  domain.Account
	holdings map[string]domain.Holding
	log      []*domain.Transaction // oldest first
}

// NewMemoryLedgerStore creates an empty in-memory LedgerStore
func NewMemoryLedgerStore() *MemoryLedgerStore {
	return &MemoryLedgerStore{
		accounts:  make(map[uuid.UUID]*memAccount),
		usernames: make(map[string]uuid.UUID),
	}
}

// CreateAccount inserts a new account
func (s *MemoryLedgerStore) CreateAccount(_ context.Context, account *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.usernames[account.Username]; taken {
		return domain.ErrUsernameTaken
	}

	s.accounts[account.ID] = &memAccount{
		account:  *account,
		holdings: make(map[string]domain.Holding),
	}
	s.usernames[account.Username] = account.ID
	s.order = append(s.order, account.ID)
	return nil
}

// AccountByID retrieves an account by ID
func (s *MemoryLedgerStore) AccountByID(_ context.Context, id uuid.UUID) (*domain.Account, error) {
	s.mu.RLock()
	acct, ok := s.accounts[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNoSuchUser
	}

	acct.mu.Lock()
	defer acct.mu.Unlock()
	copied := acct.account
	return &copied, nil
}

// AccountByUsername retrieves an account by username (case-sensitive)
func (s *MemoryLedgerStore) AccountByUsername(ctx context.Context, username string) (*domain.Account, error) {
	s.mu.RLock()
	id, ok := s.usernames[username]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNoSuchUser
	}
	return s.AccountByID(ctx, id)
}

// HoldingsByAccount returns the account's positions ordered by symbol
func (s *MemoryLedgerStore) HoldingsByAccount(_ context.Context, accountID uuid.UUID) ([]*domain.Holding, error) {
	s.mu.RLock()
	acct, ok := s.accounts[accountID]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNoSuchUser
	}

	acct.mu.Lock()
	defer acct.mu.Unlock()

	symbols := make([]string, 0, len(acct.holdings))
	for symbol := range acct.holdings {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	holdings := make([]*domain.Holding, 0, len(symbols))
	for _, symbol := range symbols {
		h := acct.holdings[symbol]
		holdings = append(holdings, &h)
	}
	return holdings, nil
}

// TransactionsByAccount returns log entries newest first
func (s *MemoryLedgerStore) TransactionsByAccount(_ context.Context, accountID uuid.UUID, limit int) ([]*domain.Transaction, error) {
	s.mu.RLock()
	acct, ok := s.accounts[accountID]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNoSuchUser
	}

	acct.mu.Lock()
	defer acct.mu.Unlock()

	var txs []*domain.Transaction
	for i := len(acct.log) - 1; i >= 0; i-- {
		if limit > 0 && len(txs) == limit {
			break
		}
		copied := *acct.log[i]
		txs = append(txs, &copied)
	}
	return txs, nil
}

// AccountIDs lists every account id, oldest first
func (s *MemoryLedgerStore) AccountIDs(_ context.Context) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]uuid.UUID, len(s.order))
	copy(ids, s.order)
	return ids, nil
}

// RunAtomic executes fn against a staged copy of the account's rows and
// applies the staged state only when fn succeeds
func (s *MemoryLedgerStore) RunAtomic(ctx context.Context, accountID uuid.UUID, fn func(tx domain.LedgerTx) error) error {
	s.mu.RLock()
	acct, ok := s.accounts[accountID]
	s.mu.RUnlock()
	if !ok {
		return domain.ErrNoSuchUser
	}

	acct.mu.Lock()
	defer acct.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return domain.ErrLedger
	}

	staged := &memTx{
		store:    s,
		account:  acct.account,
		holdings: make(map[string]domain.Holding, len(acct.holdings)),
	}
	for symbol, h := range acct.holdings {
		staged.holdings[symbol] = h
	}

	if err := fn(staged); err != nil {
		return err
	}

	acct.account = staged.account
	acct.holdings = staged.holdings
	acct.log = append(acct.log, staged.appended...)
	return nil
}

// memTx implements domain.LedgerTx on staged copies
type memTx struct {
	store    *MemoryLedgerStore
	account  domain.Account
	holdings map[string]domain.Holding
	appended []*domain.Transaction
}

func (t *memTx) Account(_ context.Context) (*domain.Account, error) {
	copied := t.account
	return &copied, nil
}

func (t *memTx) Holding(_ context.Context, symbol string) (*domain.Holding, error) {
	h, ok := t.holdings[symbol]
	if !ok {
		return nil, domain.ErrNoSuchHolding
	}
	return &h, nil
}

func (t *memTx) SetCash(_ context.Context, cash decimal.Decimal) error {
	t.account.Cash = cash
	t.account.UpdatedAt = time.Now()
	return nil
}

func (t *memTx) UpsertHolding(_ context.Context, symbol string, quantity int64, costBasis decimal.Decimal) error {
	t.holdings[symbol] = domain.Holding{
		AccountID: t.account.ID,
		Symbol:    symbol,
		Quantity:  quantity,
		CostBasis: costBasis,
	}
	return nil
}

func (t *memTx) DeleteHolding(_ context.Context, symbol string) error {
	delete(t.holdings, symbol)
	return nil
}

func (t *memTx) AppendTransaction(_ context.Context, txType, symbol string, price decimal.Decimal, quantity int64, amount decimal.Decimal) (int64, error) {
	id := t.store.nextTxID.Add(1)
	t.appended = append(t.appended, &domain.Transaction{
		ID:         id,
		Type:       txType,
		AccountID:  t.account.ID,
		Symbol:     symbol,
		Price:      price,
		Quantity:   quantity,
		Amount:     amount,
		ExecutedAt: time.Now(),
	})
	return id, nil
}

func (t *memTx) SetCredentialHash(_ context.Context, hash string) error {
	t.account.CredentialHash = hash
	t.account.UpdatedAt = time.Now()
	return nil
}

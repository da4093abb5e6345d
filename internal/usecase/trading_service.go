package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"stocksim/internal/domain"
)

// TradingService orchestrates buy and sell operations against the
// ledger store. Every trade executes at a price fetched from the oracle
// at the moment of execution, never at a price from an earlier page
// view, and applies all of its effects in one atomic unit.
type TradingService struct {
	store  domain.LedgerStore
	oracle domain.PriceOracle
}

// NewTradingService creates a new TradingService
func NewTradingService(store domain.LedgerStore, oracle domain.PriceOracle) *TradingService {
	return &TradingService{
		store:  store,
		oracle: oracle,
	}
}

// PositionSummary is one holding valued at the current market price
type PositionSummary struct {
	Symbol    string          `json:"symbol"`
	Quantity  int64           `json:"quantity"`
	CostBasis decimal.Decimal `json:"cost_basis"`
	Price     decimal.Decimal `json:"price"`
	Value     decimal.Decimal `json:"value"`
}

// AccountSummary is an account's cash, valued positions, and total equity
type AccountSummary struct {
	AccountID uuid.UUID         `json:"account_id"`
	Username  string            `json:"username"`
	Cash      decimal.Decimal   `json:"cash"`
	Positions []PositionSummary `json:"positions"`
	Equity    decimal.Decimal   `json:"equity"`
}

// Quote looks up the current price for a symbol without trading
func (ts *TradingService) Quote(ctx context.Context, symbol string) (*domain.Quote, error) {
	return ts.oracle.Lookup(ctx, normalizeSymbol(symbol))
}

// BuyShares purchases quantity shares of symbol at the current oracle
// price. The cash debit, holding upsert, and log append commit together
// or not at all. Returns the id of the appended transaction.
func (ts *TradingService) BuyShares(ctx context.Context, accountID uuid.UUID, symbol string, quantity int64) (int64, error) {
	if quantity < 1 {
		return 0, fmt.Errorf("buy quantity %d: %w", quantity, domain.ErrInvalidQuantity)
	}
	symbol = normalizeSymbol(symbol)

	// Fresh quote before any write begins; oracle failure never touches
	// ledger state
	quote, err := ts.oracle.Lookup(ctx, symbol)
	if err != nil {
		return 0, err
	}
	cost := quote.Price.Mul(decimal.NewFromInt(quantity))

	var txID int64
	err = ts.store.RunAtomic(ctx, accountID, func(tx domain.LedgerTx) error {
		account, err := tx.Account(ctx)
		if err != nil {
			return err
		}

		if cost.GreaterThan(account.Cash) {
			return domain.ErrInsufficientFunds
		}

		if err := tx.SetCash(ctx, account.Cash.Sub(cost)); err != nil {
			return err
		}

		newQuantity := quantity
		newBasis := cost
		holding, err := tx.Holding(ctx, symbol)
		switch {
		case err == nil:
			newQuantity += holding.Quantity
			newBasis = holding.CostBasis.Add(cost)
		case errors.Is(err, domain.ErrNoSuchHolding):
			// first buy of this symbol
		default:
			return err
		}

		if err := tx.UpsertHolding(ctx, symbol, newQuantity, newBasis); err != nil {
			return err
		}

		txID, err = tx.AppendTransaction(ctx, domain.TypeBought, symbol, quote.Price, quantity, cost)
		return err
	})
	if err != nil {
		return 0, err
	}

	log.Printf("[OK] BOUGHT %d %s @ %s for account %s (tx %d)", quantity, symbol, quote.Price, accountID, txID)
	return txID, nil
}

// SellShares sells quantity shares of symbol at the current oracle
// price. Selling the entire position deletes the holding row; a partial
// sell reduces the cost basis proportionally. Same atomicity guarantee
// as BuyShares.
func (ts *TradingService) SellShares(ctx context.Context, accountID uuid.UUID, symbol string, quantity int64) (int64, error) {
	if quantity < 1 {
		return 0, fmt.Errorf("sell quantity %d: %w", quantity, domain.ErrInvalidQuantity)
	}
	symbol = normalizeSymbol(symbol)

	quote, err := ts.oracle.Lookup(ctx, symbol)
	if err != nil {
		return 0, err
	}
	proceeds := quote.Price.Mul(decimal.NewFromInt(quantity))

	var txID int64
	err = ts.store.RunAtomic(ctx, accountID, func(tx domain.LedgerTx) error {
		account, err := tx.Account(ctx)
		if err != nil {
			return err
		}

		holding, err := tx.Holding(ctx, symbol)
		if err != nil {
			return err
		}
		if quantity > holding.Quantity {
			return domain.ErrInsufficientShares
		}

		if quantity == holding.Quantity {
			if err := tx.DeleteHolding(ctx, symbol); err != nil {
				return err
			}
		} else {
			newBasis := domain.ReduceBasis(holding.CostBasis, quantity, holding.Quantity)
			if err := tx.UpsertHolding(ctx, symbol, holding.Quantity-quantity, newBasis); err != nil {
				return err
			}
		}

		if err := tx.SetCash(ctx, account.Cash.Add(proceeds)); err != nil {
			return err
		}

		txID, err = tx.AppendTransaction(ctx, domain.TypeSold, symbol, quote.Price, quantity, proceeds)
		return err
	})
	if err != nil {
		return 0, err
	}

	log.Printf("[OK] SOLD %d %s @ %s for account %s (tx %d)", quantity, symbol, quote.Price, accountID, txID)
	return txID, nil
}

// GetHoldings returns the account's current positions
func (ts *TradingService) GetHoldings(ctx context.Context, accountID uuid.UUID) ([]*domain.Holding, error) {
	return ts.store.HoldingsByAccount(ctx, accountID)
}

// GetTransactionHistory returns the account's log, newest first
func (ts *TradingService) GetTransactionHistory(ctx context.Context, accountID uuid.UUID, limit int) ([]*domain.Transaction, error) {
	return ts.store.TransactionsByAccount(ctx, accountID, limit)
}

// GetAccountSummary values every holding at the current market price
// and returns cash, positions, and total equity
func (ts *TradingService) GetAccountSummary(ctx context.Context, accountID uuid.UUID) (*AccountSummary, error) {
	account, err := ts.store.AccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	holdings, err := ts.store.HoldingsByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	summary := &AccountSummary{
		AccountID: account.ID,
		Username:  account.Username,
		Cash:      account.Cash,
		Positions: make([]PositionSummary, 0, len(holdings)),
		Equity:    account.Cash,
	}

	for _, holding := range holdings {
		quote, err := ts.oracle.Lookup(ctx, holding.Symbol)
		if err != nil {
			return nil, fmt.Errorf("failed to value holding %s: %w", holding.Symbol, err)
		}
		value := quote.Price.Mul(decimal.NewFromInt(holding.Quantity))
		summary.Positions = append(summary.Positions, PositionSummary{
			Symbol:    holding.Symbol,
			Quantity:  holding.Quantity,
			CostBasis: holding.CostBasis,
			Price:     quote.Price,
			Value:     value,
		})
		summary.Equity = summary.Equity.Add(value)
	}

	return summary, nil
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

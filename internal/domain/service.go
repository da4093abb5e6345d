package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Quote is a symbol's current market price at lookup time
type Quote struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
}

// PriceOracle resolves a symbol to its current price. Lookup returns
// ErrUnknownSymbol when the symbol cannot be resolved and
// ErrOracleUnavailable on transport failure. Implementations must not
// cache: trades always execute at a fresh quote.
type PriceOracle interface {
	Lookup(ctx context.Context, symbol string) (*Quote, error)
}

// CredentialHasher hashes and verifies secrets. The core never stores
// or logs plaintext beyond this boundary.
type CredentialHasher interface {
	Hash(secret string) (string, error)
	Verify(hash, secret string) bool
}

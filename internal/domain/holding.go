package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Holding represents an account's aggregate position in one symbol.
// A row exists only while Quantity > 0; a full liquidation deletes it.
type Holding struct {
	AccountID uuid.UUID       `json:"account_id"`
	Symbol    string          `json:"symbol"`
	Quantity  int64           `json:"quantity"`
	CostBasis decimal.Decimal `json:"cost_basis"`
}

// ReduceBasis returns the cost basis left after selling sold of held
// shares, reducing the basis proportionally. Rounded to cents.
func ReduceBasis(basis decimal.Decimal, sold, held int64) decimal.Decimal {
	removed := basis.Mul(decimal.NewFromInt(sold)).Div(decimal.NewFromInt(held)).Round(2)
	return basis.Sub(removed)
}

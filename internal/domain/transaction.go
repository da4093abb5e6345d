package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is one immutable entry in the append-only trade log.
// IDs are assigned monotonically by the store; entries are never
// updated or deleted.
type Transaction struct {
	ID         int64           `json:"id"`
	Type       string          `json:"type"`
	AccountID  uuid.UUID       `json:"account_id"`
	Symbol     string          `json:"symbol"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int64           `json:"quantity"`
	Amount     decimal.Decimal `json:"amount"`
	ExecutedAt time.Time       `json:"executed_at"`
}

// Transaction type constants
const (
	TypeBought = "BOUGHT"
	TypeSold   = "SOLD"
)

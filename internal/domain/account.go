package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account represents a user's cash account in the ledger
type Account struct {
	ID             uuid.UUID       `json:"id"`
	Username       string          `json:"username"`
	CredentialHash string          `json:"-"` // Never expose credential hash in JSON
	Cash           decimal.Decimal `json:"cash"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

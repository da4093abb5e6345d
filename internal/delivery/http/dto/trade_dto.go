package dto

import "github.com/shopspring/decimal"

// TradeRequest represents a buy or sell order payload
type TradeRequest struct {
	Symbol string `json:"symbol" validate:"required"`
	Shares int64  `json:"shares" validate:"required,min=1"`
}

// TradeResponse reports the appended ledger transaction
type TradeResponse struct {
	TransactionID int64  `json:"transaction_id"`
	Symbol        string `json:"symbol"`
	Shares        int64  `json:"shares"`
}

// DepositRequest represents a cash deposit payload
type DepositRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

package domain

import "errors"

// Typed failures returned across the engine boundary. Business-rule
// violations never surface as generic faults; infrastructure failures
// inside an atomic unit wrap ErrLedger after a full rollback.
var (
	ErrUnknownSymbol      = errors.New("unknown symbol")
	ErrOracleUnavailable  = errors.New("price oracle unavailable")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrNoSuchHolding      = errors.New("no such holding")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrNoSuchUser         = errors.New("no such user")
	ErrBadCredential      = errors.New("bad credential")
	ErrSameAsOld          = errors.New("new credential same as old")
	ErrAmountOutOfRange   = errors.New("amount out of range")
	ErrInvalidQuantity    = errors.New("invalid share quantity")
	ErrLedger             = errors.New("ledger failure")
)

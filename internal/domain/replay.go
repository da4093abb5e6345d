package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ReplayedHolding is a position reconstructed from the transaction log
type ReplayedHolding struct {
	Quantity  int64
	CostBasis decimal.Decimal
}

// ReplayHoldings folds an account's transaction log, oldest first, into
// the holdings it implies: buys add quantity and basis, sells subtract,
// and a full liquidation removes the symbol. A well-formed log replays
// to exactly the account's current holdings; a sell exceeding the held
// quantity means the log is corrupt and returns an error.
func ReplayHoldings(txs []*Transaction) (map[string]ReplayedHolding, error) {
	holdings := make(map[string]ReplayedHolding)

	for _, tx := range txs {
		h := holdings[tx.Symbol]
		switch tx.Type {
		case TypeBought:
			h.Quantity += tx.Quantity
			h.CostBasis = h.CostBasis.Add(tx.Amount)
			holdings[tx.Symbol] = h
		case TypeSold:
			if tx.Quantity > h.Quantity {
				return nil, fmt.Errorf("transaction %d sells %d shares of %s but only %d held",
					tx.ID, tx.Quantity, tx.Symbol, h.Quantity)
			}
			if tx.Quantity == h.Quantity {
				delete(holdings, tx.Symbol)
				continue
			}
			h.CostBasis = ReduceBasis(h.CostBasis, tx.Quantity, h.Quantity)
			h.Quantity -= tx.Quantity
			holdings[tx.Symbol] = h
		default:
			return nil, fmt.Errorf("transaction %d has unknown type %q", tx.ID, tx.Type)
		}
	}

	return holdings, nil
}

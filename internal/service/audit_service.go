package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"stocksim/internal/domain"
)

// AuditService verifies the ledger's reconstruction invariant: replaying
// an account's transaction log from the beginning must yield exactly its
// stored holdings. Drift means a bug or manual tampering, never normal
// operation, so findings are only reported, never repaired.
type AuditService struct {
	store domain.LedgerStore
}

// NewAuditService creates a new AuditService
func NewAuditService(store domain.LedgerStore) *AuditService {
	return &AuditService{store: store}
}

// AuditAll audits every account and logs each finding. Returns the
// number of accounts with at least one finding.
func (s *AuditService) AuditAll(ctx context.Context) (int, error) {
	ids, err := s.store.AccountIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list accounts for audit: %w", err)
	}

	drifted := 0
	for _, id := range ids {
		findings, err := s.AuditAccount(ctx, id)
		if err != nil {
			log.Printf("ERROR: audit of account %s failed: %v", id, err)
			continue
		}
		if len(findings) == 0 {
			continue
		}
		drifted++
		for _, finding := range findings {
			log.Printf("[WARN] ledger drift, account %s: %s", id, finding)
		}
	}

	if drifted == 0 {
		log.Printf("[OK] Ledger audit clean across %d account(s)", len(ids))
	}
	return drifted, nil
}

// AuditAccount replays one account's log and compares the result with
// its stored holdings and cash. Returns a human-readable finding per
// discrepancy.
func (s *AuditService) AuditAccount(ctx context.Context, accountID uuid.UUID) ([]string, error) {
	account, err := s.store.AccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	// Newest first from the store; replay wants oldest first
	txs, err := s.store.TransactionsByAccount(ctx, accountID, 0)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(txs)-1; i < j; i, j = i+1, j-1 {
		txs[i], txs[j] = txs[j], txs[i]
	}

	var findings []string

	replayed, err := domain.ReplayHoldings(txs)
	if err != nil {
		return append(findings, fmt.Sprintf("log does not replay: %v", err)), nil
	}

	stored, err := s.store.HoldingsByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(stored))
	for _, holding := range stored {
		seen[holding.Symbol] = true
		want, ok := replayed[holding.Symbol]
		if !ok {
			findings = append(findings, fmt.Sprintf("holding %s not implied by the log", holding.Symbol))
			continue
		}
		if holding.Quantity != want.Quantity {
			findings = append(findings, fmt.Sprintf("holding %s quantity %d, log implies %d",
				holding.Symbol, holding.Quantity, want.Quantity))
		}
		if !holding.CostBasis.Equal(want.CostBasis) {
			findings = append(findings, fmt.Sprintf("holding %s cost basis %s, log implies %s",
				holding.Symbol, holding.CostBasis, want.CostBasis))
		}
	}
	for symbol := range replayed {
		if !seen[symbol] {
			findings = append(findings, fmt.Sprintf("log implies holding %s but none is stored", symbol))
		}
	}

	if account.Cash.IsNegative() {
		findings = append(findings, fmt.Sprintf("cash balance is negative: %s", account.Cash))
	}

	return findings, nil
}

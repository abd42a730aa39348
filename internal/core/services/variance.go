package services

import (
	"context"
	"fmt"

	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/finbooks/bank_reconciliation_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// balancedTolerance is the currency minor-unit tolerance inside which a
// reconciliation counts as balanced.
var balancedTolerance = decimal.RequireFromString("0.01")

// ComputeVariance recomputes the outstanding monetary difference of a
// reconciliation from scratch:
//
//	variance = sum(unmatched statement line amounts) - sum(adjustment amounts)
//
// rounded to two decimal places, half away from zero. It is a pure fold over
// the current matches and adjustments, so any creation order of the same set
// yields the same result and removing a match restores the exact pre-match
// value with no accumulator drift.
func ComputeVariance(lines []domain.BankStatementLine, matches []domain.BankReconciliationMatch, adjustments []domain.BankReconciliationAdjustment) decimal.Decimal {
	matchedLines := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		matchedLines[m.StatementLineID] = struct{}{}
	}

	variance := decimal.Zero
	for _, line := range lines {
		if _, ok := matchedLines[line.LineID]; ok {
			continue
		}
		variance = variance.Add(line.Amount)
	}
	for _, adj := range adjustments {
		variance = variance.Sub(adj.Amount)
	}

	return variance.Round(2)
}

// IsBalanced reports whether the variance is within the minor-unit tolerance.
func IsBalanced(variance decimal.Decimal) bool {
	return variance.Abs().LessThanOrEqual(balancedTolerance)
}

// reconciliationVariance loads the current lines, matches, and adjustments of a
// reconciliation and folds them into a fresh variance. Shared by every service
// that mutates reconciliation state.
func reconciliationVariance(ctx context.Context, statementRepo portsrepo.StatementReader, reconRepo portsrepo.ReconciliationRepositoryFacade, recon *domain.BankReconciliation) (decimal.Decimal, error) {
	lines, err := statementRepo.FindAllLinesByStatement(ctx, recon.StatementID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load statement lines for variance: %w", err)
	}
	matches, err := reconRepo.ListMatchesByReconciliation(ctx, recon.ReconciliationID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load matches for variance: %w", err)
	}
	adjustments, err := reconRepo.ListAdjustmentsByReconciliation(ctx, recon.ReconciliationID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load adjustments for variance: %w", err)
	}
	return ComputeVariance(lines, matches, adjustments), nil
}

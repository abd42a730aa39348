package services_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
	"github.com/finbooks/bank_reconciliation_app/internal/core/services"
)

func line(amount string) domain.BankStatementLine {
	return domain.BankStatementLine{
		LineID: uuid.NewString(),
		Amount: decimal.RequireFromString(amount),
	}
}

func matchFor(l domain.BankStatementLine) domain.BankReconciliationMatch {
	return domain.BankReconciliationMatch{
		MatchID:         uuid.NewString(),
		StatementLineID: l.LineID,
		SourceType:      domain.SourcePayment,
		SourceID:        uuid.NewString(),
		Amount:          l.Amount,
	}
}

func adjustment(t domain.AdjustmentType, amount string) domain.BankReconciliationAdjustment {
	return domain.BankReconciliationAdjustment{
		AdjustmentID:   uuid.NewString(),
		AdjustmentType: t,
		Amount:         decimal.RequireFromString(amount),
	}
}

func TestComputeVariance_EmptyReconciliation(t *testing.T) {
	v := services.ComputeVariance(nil, nil, nil)
	assert.True(t, v.IsZero())
	assert.True(t, services.IsBalanced(v))
}

func TestComputeVariance_UnmatchedLinesAndAdjustments(t *testing.T) {
	deposit := line("1000.00")
	withdrawal := line("-1500.00")
	fee := line("-300.00")
	interest := line("150.00")
	timing := line("-50.00")

	lines := []domain.BankStatementLine{deposit, withdrawal, fee, interest, timing}
	matches := []domain.BankReconciliationMatch{matchFor(deposit), matchFor(withdrawal)}

	// Unmatched: -300 + 150 - 50 = -200
	v := services.ComputeVariance(lines, matches, nil)
	assert.True(t, v.Equal(decimal.RequireFromString("-200.00")), "got %s", v)
	assert.False(t, services.IsBalanced(v))

	// Adjustments explain the residual: -300 (fee) + 150 (interest) - 50 (timing) = -200
	adjustments := []domain.BankReconciliationAdjustment{
		adjustment(domain.AdjustmentBankFee, "-300.00"),
		adjustment(domain.AdjustmentInterest, "150.00"),
		adjustment(domain.AdjustmentTiming, "-50.00"),
	}
	v = services.ComputeVariance(lines, matches, adjustments)
	assert.True(t, v.IsZero(), "got %s", v)
	assert.True(t, services.IsBalanced(v))
}

func TestComputeVariance_OrderIndependent(t *testing.T) {
	a, b, c := line("12.34"), line("-56.78"), line("90.12")
	lines := []domain.BankStatementLine{a, b, c}
	matches := []domain.BankReconciliationMatch{matchFor(b)}
	adjustments := []domain.BankReconciliationAdjustment{
		adjustment(domain.AdjustmentBankFee, "-3.21"),
		adjustment(domain.AdjustmentInterest, "7.65"),
	}

	want := services.ComputeVariance(lines, matches, adjustments)

	permutedLines := []domain.BankStatementLine{c, a, b}
	permutedAdjustments := []domain.BankReconciliationAdjustment{adjustments[1], adjustments[0]}
	got := services.ComputeVariance(permutedLines, matches, permutedAdjustments)

	assert.True(t, want.Equal(got), "want %s got %s", want, got)
}

func TestComputeVariance_RemovalRestoresExactValue(t *testing.T) {
	a, b := line("0.10"), line("0.20")
	lines := []domain.BankStatementLine{a, b}

	before := services.ComputeVariance(lines, nil, nil)
	withMatch := services.ComputeVariance(lines, []domain.BankReconciliationMatch{matchFor(a)}, nil)
	after := services.ComputeVariance(lines, nil, nil)

	assert.False(t, before.Equal(withMatch))
	assert.True(t, before.Equal(after), "removal must restore the exact pre-match variance")
}

func TestComputeVariance_RoundsToMinorUnit(t *testing.T) {
	lines := []domain.BankStatementLine{line("0.005")}
	v := services.ComputeVariance(lines, nil, nil)
	assert.True(t, v.Equal(decimal.RequireFromString("0.01")), "got %s", v)
}

func TestIsBalanced_Tolerance(t *testing.T) {
	assert.True(t, services.IsBalanced(decimal.RequireFromString("0.01")))
	assert.True(t, services.IsBalanced(decimal.RequireFromString("-0.01")))
	assert.False(t, services.IsBalanced(decimal.RequireFromString("0.02")))
}

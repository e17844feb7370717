package calc

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dive-pricing/core/money"
)

func TestAllocateEvenSplit(t *testing.T) {
	got := AllocateSharedCosts(dec("100"), 4, money.CurrencyMXN)

	assert.True(t, got.PerDiver.Amount.Equal(dec("25")))
	require.Len(t, got.Amounts, 4)
	for _, m := range got.Amounts {
		assert.True(t, m.Amount.Equal(dec("25")))
		assert.Equal(t, money.CurrencyMXN, m.Currency)
	}
}

func TestAllocateRemainderLandsOnFirstIndex(t *testing.T) {
	got := AllocateSharedCosts(dec("100"), 3, money.CurrencyMXN)

	assert.True(t, got.PerDiver.Amount.Equal(dec("33.33")))
	require.Len(t, got.Amounts, 3)
	assert.True(t, got.Amounts[0].Amount.Equal(dec("33.34")))
	assert.True(t, got.Amounts[1].Amount.Equal(dec("33.33")))
	assert.True(t, got.Amounts[2].Amount.Equal(dec("33.33")))
}

func TestAllocateNegativeRemainder(t *testing.T) {
	// 100/7 rounds to 14.29; 14.29*7 = 100.03, so three divers give a
	// penny back, lowest index first.
	got := AllocateSharedCosts(dec("100"), 7, money.CurrencyMXN)

	assert.True(t, got.PerDiver.Amount.Equal(dec("14.29")))
	assert.True(t, got.Amounts[0].Amount.Equal(dec("14.28")))
	assert.True(t, got.Amounts[1].Amount.Equal(dec("14.28")))
	assert.True(t, got.Amounts[2].Amount.Equal(dec("14.28")))
	assert.True(t, got.Amounts[3].Amount.Equal(dec("14.29")))
}

func TestAllocateDegenerateDiverCount(t *testing.T) {
	for _, n := range []int{0, -1} {
		got := AllocateSharedCosts(dec("100"), n, money.CurrencyMXN)
		assert.True(t, got.PerDiver.Amount.IsZero())
		assert.Empty(t, got.Amounts)
	}
}

func TestAllocateSingleDiver(t *testing.T) {
	got := AllocateSharedCosts(dec("100"), 1, money.CurrencyMXN)
	require.Len(t, got.Amounts, 1)
	assert.True(t, got.Amounts[0].Amount.Equal(dec("100")))
}

func TestAllocateSumInvariant(t *testing.T) {
	totals := []string{"100", "0.01", "0.02", "1", "10.07", "99.99", "1234.56", "2100", "0.05", "7"}
	for _, total := range totals {
		for n := 1; n <= 23; n++ {
			shared := dec(total)
			got := AllocateSharedCosts(shared, n, money.CurrencyMXN)

			require.Len(t, got.Amounts, n)
			sum := decimal.Zero
			for _, m := range got.Amounts {
				sum = sum.Add(m.Amount)
			}
			assert.True(t, sum.Equal(shared),
				"allocate(%s, %d): amounts sum to %s, want %s", total, n, sum, shared)
		}
	}
}

func TestAllocateDeterministicOrdering(t *testing.T) {
	first := AllocateSharedCosts(dec("10.07"), 5, money.CurrencyMXN)
	second := AllocateSharedCosts(dec("10.07"), 5, money.CurrencyMXN)

	require.Len(t, first.Amounts, 5)
	for i := range first.Amounts {
		assert.True(t, first.Amounts[i].Amount.Equal(second.Amounts[i].Amount))
	}
	// Adjusted entries precede unadjusted ones
	for i := 1; i < len(first.Amounts); i++ {
		assert.True(t, first.Amounts[i].Amount.LessThanOrEqual(first.Amounts[i-1].Amount))
	}
}

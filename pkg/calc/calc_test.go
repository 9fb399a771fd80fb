package calc

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPrescriptionDate(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{"personal loan 60 months", date(2020, time.January, 15), 60, date(2025, time.January, 15)},
		{"card 36 months", date(2022, time.March, 1), 36, date(2025, time.March, 1)},
		{"mortgage 120 months", date(2015, time.June, 30), 120, date(2025, time.June, 30)},
		{"jan 31 clamps to feb 28", date(2023, time.January, 31), 1, date(2023, time.February, 28)},
		{"jan 31 clamps to leap feb 29", date(2024, time.January, 31), 1, date(2024, time.February, 29)},
		{"may 31 clamps to jun 30", date(2024, time.May, 31), 1, date(2024, time.June, 30)},
		{"year rollover", date(2024, time.November, 10), 3, date(2025, time.February, 10)},
		{"zero months", date(2024, time.July, 4), 0, date(2024, time.July, 4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PrescriptionDate(tt.start, tt.months)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
			assert.False(t, got.Before(tt.start))

			// deterministic: same inputs, same output
			again, err := PrescriptionDate(tt.start, tt.months)
			require.NoError(t, err)
			assert.True(t, got.Equal(again))
		})
	}
}

func TestPrescriptionDate_NegativePeriod(t *testing.T) {
	_, err := PrescriptionDate(date(2024, time.January, 1), -1)
	assert.Error(t, err)
}

func TestPrescriptionStatus(t *testing.T) {
	now := date(2024, time.November, 1)
	in := func(days int) *time.Time {
		d := now.AddDate(0, 0, days)
		return &d
	}

	tests := []struct {
		name  string
		date  *time.Time
		cause string
		want  string
	}{
		{"no date tracked", nil, "", PrescriptionCurrent},
		{"far in the future", in(400), "", PrescriptionCurrent},
		{"exactly 90 days out is still current", in(90), "", PrescriptionCurrent},
		{"89 days out is approaching", in(89), "", PrescriptionApproaching},
		{"due today is approaching", in(0), "", PrescriptionApproaching},
		{"yesterday is expired", in(-1), "", PrescriptionExpired},
		{"long expired", in(-500), "", PrescriptionExpired},
		{"interruption wins over nil date", nil, "acknowledgment of debt", PrescriptionInterrupted},
		{"interruption wins over expired date", in(-30), "judicial claim filed", PrescriptionInterrupted},
		{"whitespace cause is no cause", in(200), "   ", PrescriptionCurrent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PrescriptionStatus(now, tt.date, tt.cause))
		})
	}
}

func TestMoraDays(t *testing.T) {
	now := date(2024, time.November, 1)

	assert.Equal(t, 0, MoraDays(now, nil))

	past := date(2024, time.October, 1)
	assert.Equal(t, 31, MoraDays(now, &past))

	future := date(2024, time.November, 11)
	assert.Equal(t, -10, MoraDays(now, &future))
}

func TestDisposableCashFlow(t *testing.T) {
	got := DisposableCashFlow(
		decimal.NewFromInt(1_000_000),
		decimal.NewFromInt(300_000),
		decimal.NewFromInt(800_000),
	)
	assert.True(t, got.Equal(decimal.NewFromInt(-100_000)), "got %s", got)
}

func TestDebtToIncomeRatio(t *testing.T) {
	t.Run("zero on zero income", func(t *testing.T) {
		got := DebtToIncomeRatio(decimal.NewFromInt(5_000_000), decimal.Zero)
		assert.True(t, got.IsZero())
	})

	t.Run("zero on negative income", func(t *testing.T) {
		got := DebtToIncomeRatio(decimal.NewFromInt(5_000_000), decimal.NewFromInt(-1))
		assert.True(t, got.IsZero())
	})

	t.Run("gross over annualized income", func(t *testing.T) {
		got := DebtToIncomeRatio(decimal.NewFromInt(6_000_000), decimal.NewFromInt(1_000_000))
		assert.True(t, got.Equal(decimal.NewFromFloat(0.5)), "got %s", got)
	})
}

func TestTotalClaimed(t *testing.T) {
	got := TotalClaimed(
		decimal.NewFromInt(2_500_000),
		decimal.NewFromInt(800_000),
		decimal.NewFromInt(150_000),
	)
	assert.True(t, got.Equal(decimal.NewFromInt(3_450_000)))

	withCosts := TotalWithCosts(got, decimal.NewFromInt(200_000), decimal.NewFromInt(100_000))
	assert.True(t, withCosts.Equal(decimal.NewFromInt(3_750_000)))
}

func TestNextCaseNumber(t *testing.T) {
	t.Run("empty scope starts at one", func(t *testing.T) {
		got, err := NextCaseNumber("CRP", 2025, "")
		require.NoError(t, err)
		assert.Equal(t, "CRP-2025-0001", got)
	})

	t.Run("increments the highest existing", func(t *testing.T) {
		got, err := NextCaseNumber("CRP", 2025, "CRP-2025-0007")
		require.NoError(t, err)
		assert.Equal(t, "CRP-2025-0008", got)
	})

	t.Run("padding survives four digits", func(t *testing.T) {
		got, err := NextCaseNumber("CRP", 2025, "CRP-2025-9999")
		require.NoError(t, err)
		assert.Equal(t, "CRP-2025-10000", got)
	})

	t.Run("malformed trailing number errors", func(t *testing.T) {
		_, err := NextCaseNumber("CRP", 2025, "CRP-2025-XYZ")
		assert.Error(t, err)
	})
}

func TestCaseNumberPrefix(t *testing.T) {
	assert.Equal(t, "CRP-2025-", CaseNumberPrefix("CRP", 2025))
}

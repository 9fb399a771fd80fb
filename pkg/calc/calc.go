package calc

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Prescription (statute-of-limitations) status values. Stored as-is on the
// debt record; Suspended is only ever set by an explicit user override and is
// never produced here.
const (
	PrescriptionCurrent     = "current"
	PrescriptionApproaching = "approaching"
	PrescriptionExpired     = "expired"
	PrescriptionInterrupted = "interrupted"
	PrescriptionSuspended   = "suspended"
)

// ApproachingWindowDays is the number of days before the prescription date at
// which a debt starts counting as approaching. The boundary is inclusive at
// 0..89 and exclusive at 90.
const ApproachingWindowDays = 90

// PrescriptionDate adds months calendar months to start. Day-of-month is
// preserved where valid; when the target month is shorter the date clamps to
// its last day (Jan 31 + 1 month = Feb 28/29), unlike time.AddDate which
// rolls over into March.
func PrescriptionDate(start time.Time, months int) (time.Time, error) {
	if months < 0 {
		return time.Time{}, fmt.Errorf("prescription period must be non-negative, got %d months", months)
	}

	year := start.Year()
	month := int(start.Month()) - 1 + months
	year += month / 12
	month = month % 12

	day := start.Day()
	if last := daysInMonth(year, time.Month(month+1)); day > last {
		day = last
	}

	return time.Date(year, time.Month(month+1), day,
		start.Hour(), start.Minute(), start.Second(), start.Nanosecond(), start.Location()), nil
}

// PrescriptionStatus classifies a prescription date relative to now.
// A non-empty interruption cause wins over everything, including a nil or
// already-past date. A nil date means no deadline is tracked yet.
func PrescriptionStatus(now time.Time, prescriptionDate *time.Time, interruptionCause string) string {
	if strings.TrimSpace(interruptionCause) != "" {
		return PrescriptionInterrupted
	}
	if prescriptionDate == nil {
		return PrescriptionCurrent
	}

	daysRemaining := DaysUntil(now, *prescriptionDate)
	switch {
	case daysRemaining < 0:
		return PrescriptionExpired
	case daysRemaining < ApproachingWindowDays:
		return PrescriptionApproaching
	default:
		return PrescriptionCurrent
	}
}

// MoraDays returns whole days elapsed since the default date. Zero when no
// default date is recorded. Negative when the date lies in the future;
// callers must not assume non-negativity.
func MoraDays(now time.Time, defaultDate *time.Time) int {
	if defaultDate == nil {
		return 0
	}
	return floorDays(now.Sub(*defaultDate))
}

// DaysUntil returns the signed number of whole days from now until date.
func DaysUntil(now, date time.Time) int {
	return floorDays(date.Sub(now))
}

// DisposableCashFlow is the monthly amount left after fixed expenses and debt
// service. May be negative; presenting that distinctly is the caller's job.
func DisposableCashFlow(netIncome, fixedExpenses, debtService decimal.Decimal) decimal.Decimal {
	return netIncome.Sub(fixedExpenses).Sub(debtService)
}

// DebtToIncomeRatio divides gross liabilities by annualized net income.
// Returns zero on non-positive income; a deliberate floor, not an error.
func DebtToIncomeRatio(grossLiabilities, netMonthlyIncome decimal.Decimal) decimal.Decimal {
	if netMonthlyIncome.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	annual := netMonthlyIncome.Mul(decimal.NewFromInt(12))
	return grossLiabilities.DivRound(annual, 6)
}

// TotalClaimed is the creditor's claim before litigation costs:
// current principal plus accrued and penalty interest.
func TotalClaimed(currentPrincipal, accruedInterest, penaltyInterest decimal.Decimal) decimal.Decimal {
	return currentPrincipal.Add(accruedInterest).Add(penaltyInterest)
}

// TotalWithCosts adds litigation costs and the opposing counsel's fees on top
// of the claimed total.
func TotalWithCosts(totalClaimed, litigationCosts, counselFees decimal.Decimal) decimal.Decimal {
	return totalClaimed.Add(litigationCosts).Add(counselFees)
}

func floorDays(d time.Duration) int {
	days := d.Hours() / 24
	floored := int(days)
	if days < 0 && days != float64(floored) {
		floored--
	}
	return floored
}

func daysInMonth(year int, month time.Month) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// NextCaseNumber produces the next case number in PREFIX-YYYY-NNNN form.
// last is the highest existing number for the organization+year scope, or
// empty when the scope has no cases yet. The read-parse-increment here is not
// concurrency safe on its own; callers serialize access per scope.
func NextCaseNumber(prefix string, year int, last string) (string, error) {
	next := 1
	if last != "" {
		parts := strings.Split(last, "-")
		n, err := strconv.Atoi(parts[len(parts)-1])
		if err != nil {
			return "", fmt.Errorf("malformed case number %q: %w", last, err)
		}
		next = n + 1
	}
	return fmt.Sprintf("%s-%d-%04d", prefix, year, next), nil
}

// CaseNumberPrefix returns the PREFIX-YYYY- scope prefix used to query for
// the highest existing case number.
func CaseNumberPrefix(prefix string, year int) string {
	return fmt.Sprintf("%s-%d-", prefix, year)
}

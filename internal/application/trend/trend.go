// Package trend compares a freshly analyzed bill with the user's history.
//
// The model reports quantities as presentation strings ("1,200 units", "₹1,234.50"),
// so amounts are parsed here, where they are consumed.
package trend

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bryanwahyu/millwatt/internal/domain/records"
)

// A number starts on a digit, so the dot of "Rs." is never read as a decimal point.
var numberToken = regexp.MustCompile(`-?\d[\d,]*(?:\.\d+)?`)

// ErrNoNumber is returned when a string holds no digits at all.
var ErrNoNumber = errors.New("no numeric value")

// ParseAmount extracts the first number in s, ignoring currency symbols,
// unit words and thousands separators.
func ParseAmount(s string) (decimal.Decimal, error) {
	tok := numberToken.FindString(s)
	if tok == "" {
		return decimal.Zero, fmt.Errorf("%w in %q", ErrNoNumber, s)
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(tok, ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse %q: %w", s, err)
	}
	return d, nil
}

// ParseAmountOrZero is ParseAmount for fields where a missing number means nothing charged.
func ParseAmountOrZero(s string) decimal.Decimal {
	d, err := ParseAmount(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

const (
	Increased = "Increased"
	Decreased = "Decreased"
	AboveAvg  = "Above Avg"
	BelowAvg  = "Below Avg"
)

// Baselines are the default magnitudes used when history is thin.
type Baselines struct {
	// FallbackUnits replaces a previous bill whose unit count is zero or unknown.
	FallbackUnits decimal.Decimal
	// AverageUnits is the comparison point for a user with no bills at all.
	AverageUnits decimal.Decimal
}

func DefaultBaselines() Baselines {
	return Baselines{
		FallbackUnits: decimal.NewFromInt(10000),
		AverageUnits:  decimal.NewFromInt(10000),
	}
}

type Comparison struct {
	Trend   string `json:"trend"`
	Percent string `json:"percent"`
}

// Compare computes the change of current units against last, or against the
// average baseline when last is nil.
func Compare(current decimal.Decimal, last *records.BillRecord, b Baselines) Comparison {
	up, down := Increased, Decreased
	var base decimal.Decimal
	if last != nil {
		base = last.TotalUnits
		if !base.IsPositive() {
			base = b.FallbackUnits
		}
	} else {
		base = b.AverageUnits
		up, down = AboveAvg, BelowAvg
	}
	if !base.IsPositive() {
		base = decimal.NewFromInt(1)
	}

	diff := current.Sub(base)
	percent := diff.Div(base).Mul(decimal.NewFromInt(100)).Round(1).Abs()

	trend := down
	if diff.IsPositive() {
		trend = up
	}
	return Comparison{Trend: trend, Percent: percent.StringFixed(1) + "%"}
}

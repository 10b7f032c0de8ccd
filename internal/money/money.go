// Package money parses user supplied amounts and formats them for documents.
package money

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	apperrors "troskovi/internal/errors"
)

// Scale is the number of fractional digits kept for stored amounts.
const Scale = 2

// MaxAmount is the first value that no longer fits a decimal(14,2) column.
var MaxAmount = decimal.New(1, 12)

// ParseAmount turns raw input into a non-negative amount rounded to Scale.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, apperrors.WithMessage(apperrors.ErrInvalidAmount, "amount is required")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInvalidAmount, err)
	}
	if d.IsNegative() {
		return decimal.Zero, apperrors.WithMessage(apperrors.ErrInvalidAmount, "amount must not be negative")
	}
	d = d.Round(Scale)
	if d.GreaterThanOrEqual(MaxAmount) {
		return decimal.Zero, apperrors.WithMessage(apperrors.ErrInvalidAmount, "amount must be less than 1,000,000,000,000")
	}
	return d, nil
}

// Input accepts an amount written either as a JSON number or a JSON string and
// keeps its raw text for ParseAmount.
type Input string

// UnmarshalJSON implements json.Unmarshaler.
func (in *Input) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*in = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*in = Input(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount must be a number or a numeric string")
	}
	*in = Input(n.String())
	return nil
}

// String returns the raw text.
func (in Input) String() string { return string(in) }

// FormatAmount renders d with two decimals and thousands separators, e.g. 1,500.00.
// The digits come from the decimal itself, so large sums stay exact.
func FormatAmount(d decimal.Decimal) string {
	d = d.Round(Scale)
	abs := d.Abs()
	fixed := abs.StringFixed(Scale)
	out := humanize.BigComma(abs.Truncate(0).BigInt()) + fixed[strings.IndexByte(fixed, '.'):]
	if d.IsNegative() {
		return "-" + out
	}
	return out
}

// FormatPercent renders p with one decimal and a trailing percent sign, e.g. 62.5%.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// Percentage returns 100*part/total, or 0 when total is zero.
func Percentage(part, total decimal.Decimal) float64 {
	if total.IsZero() {
		return 0
	}
	return part.Mul(decimal.NewFromInt(100)).Div(total).InexactFloat64()
}

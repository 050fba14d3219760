package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// SignedAmount reduces credit and debit cells to one amount using
// credit − debit. Nil cells count as zero. Declared totals and leaf rows
// must both go through this function so that they are comparable.
func SignedAmount(credit, debit *decimal.Decimal) decimal.Decimal {
	amount := decimal.Zero
	if credit != nil {
		amount = amount.Add(*credit)
	}
	if debit != nil {
		amount = amount.Sub(*debit)
	}
	return amount
}

// ParseAmount parses an amount cell. Empty cells return nil. Thousands
// separators, currency symbols and surrounding spaces are stripped, and a
// value in parentheses is negative.
func ParseAmount(raw string) (*decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" || s == "-" {
		return nil, nil
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}
	s = strings.NewReplacer(",", "", "$", "", " ", "").Replace(s)

	dec, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid amount string '%s': %w", raw, err)
	}
	if negative {
		dec = dec.Neg()
	}
	return &dec, nil
}

// DecimalPtr returns a pointer to d. Handy for building rows in code.
func DecimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

// FormatAmount renders an amount with two decimals and thousands separators,
// e.g. -1234567.5 → "-1,234,567.50".
func FormatAmount(d decimal.Decimal) string {
	d = d.Round(2)
	fixed := d.Abs().StringFixed(2)
	intPart, frac := fixed, ""
	if dot := strings.IndexByte(fixed, '.'); dot >= 0 {
		intPart, frac = fixed[:dot], fixed[dot:]
	}

	var b strings.Builder
	if d.IsNegative() {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(frac)
	return b.String()
}

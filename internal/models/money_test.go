package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedAmount(t *testing.T) {
	d := func(s string) *decimal.Decimal {
		v := decimal.RequireFromString(s)
		return &v
	}

	tests := []struct {
		name     string
		credit   *decimal.Decimal
		debit    *decimal.Decimal
		expected string
	}{
		{name: "credit only", credit: d("1500.25"), expected: "1500.25"},
		{name: "debit only", debit: d("300"), expected: "-300"},
		{name: "both", credit: d("1000"), debit: d("250.50"), expected: "749.5"},
		{name: "neither", expected: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SignedAmount(tt.credit, tt.debit)
			assert.True(t, decimal.RequireFromString(tt.expected).Equal(got), "got %s", got)
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
		isNil    bool
		wantErr  bool
	}{
		{raw: "", isNil: true},
		{raw: "  - ", isNil: true},
		{raw: "1,234,567.89", expected: "1234567.89"},
		{raw: "$ 12.5", expected: "12.5"},
		{raw: "(500.00)", expected: "-500"},
		{raw: "-42", expected: "-42"},
		{raw: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseAmount(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.isNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, decimal.RequireFromString(tt.expected).Equal(*got), "got %s", got)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := map[string]string{
		"0":            "0.00",
		"1500":         "1,500.00",
		"998500":       "998,500.00",
		"-1234567.5":   "-1,234,567.50",
		"100":          "100.00",
		"-0.001":       "0.00",
		"12345678.999": "12,345,679.00",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatAmount(decimal.RequireFromString(in)), in)
	}
}

func TestReportRow_ToAccount(t *testing.T) {
	row := ReportRow{
		Code:    "5000-1000-001-101",
		Concept: "Diesel",
		Credit:  DecimalPtr(decimal.NewFromInt(10)),
		Debit:   DecimalPtr(decimal.NewFromInt(110)),
	}
	acct := row.ToAccount()
	assert.Equal(t, "5000-1000-001-101", acct.Code)
	assert.Equal(t, "Diesel", acct.Concept)
	assert.True(t, acct.Amount.Equal(decimal.NewFromInt(-100)))

	accounts := AccountsFromRows([]ReportRow{row, {Code: "x"}})
	assert.Len(t, accounts, 2)
	assert.True(t, accounts[1].Amount.IsZero())
}

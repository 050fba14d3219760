// Package models provides the data structures shared by the hierarchy,
// validation and reconciliation components.
package models

import "github.com/shopspring/decimal"

// Account is one account row of a report snapshot. Amount is the row's signed
// amount (see SignedAmount).
type Account struct {
	Code    string          `json:"code" yaml:"code"`
	Concept string          `json:"concept" yaml:"concept"`
	Amount  decimal.Decimal `json:"amount" yaml:"amount"`
}

// ReportRow is a raw row as delivered by the ingestion layer. A nil amount
// means the cell was empty.
type ReportRow struct {
	Code    string           `json:"code" yaml:"code"`
	Concept string           `json:"concept" yaml:"concept"`
	Credit  *decimal.Decimal `json:"credit,omitempty" yaml:"credit,omitempty"`
	Debit   *decimal.Decimal `json:"debit,omitempty" yaml:"debit,omitempty"`
}

// Amount reduces the row to a single signed amount.
func (r ReportRow) Amount() decimal.Decimal {
	return SignedAmount(r.Credit, r.Debit)
}

// ToAccount converts the row into an Account.
func (r ReportRow) ToAccount() Account {
	return Account{Code: r.Code, Concept: r.Concept, Amount: r.Amount()}
}

// AccountsFromRows converts every row, preserving order.
func AccountsFromRows(rows []ReportRow) []Account {
	accounts := make([]Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, row.ToAccount())
	}
	return accounts
}

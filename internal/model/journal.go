package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the calendar-date layout used for entries on the wire and in storage.
const DateFormat = "2006-01-02"

// Entry is one double-entry journal transaction: Amount moves from the
// credited account to the debited account.
type Entry struct {
	ID           int64           `json:"id"`
	FiscalYearID int64           `json:"fiscal_year_id"`
	Date         time.Time       `json:"-"`
	Debited      string          `json:"ac_debited"`
	Credited     string          `json:"ac_credited"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
}

// Touches reports whether the entry references account on either side.
func (e Entry) Touches(account string) bool {
	return e.Debited == account || e.Credited == account
}

// MarshalJSON writes Date as a calendar date.
func (e Entry) MarshalJSON() ([]byte, error) {
	type plain Entry
	return json.Marshal(struct {
		plain
		Date string `json:"date"`
	}{plain: plain(e), Date: e.Date.Format(DateFormat)})
}

// BalanceSide names the side of a T-account the balancing figure is written on.
type BalanceSide string

const (
	SideNone   BalanceSide = ""
	SideCredit BalanceSide = "credit_side" // debits exceed credits
	SideDebit  BalanceSide = "debit_side"  // credits exceed debits
)

// Balance is the derived position of one account. It is never persisted.
type Balance struct {
	Account string          `json:"account"`
	Debit   decimal.Decimal `json:"debit_total"`
	Credit  decimal.Decimal `json:"credit_total"`
	Net     decimal.Decimal `json:"net"`
}

// NewBalance returns the balance for the given side totals.
func NewBalance(account string, debit, credit decimal.Decimal) Balance {
	return Balance{Account: account, Debit: debit, Credit: credit, Net: debit.Sub(credit)}
}

// Side returns where the balancing figure goes; SideNone when the account is square.
func (b Balance) Side() BalanceSide {
	switch b.Net.Sign() {
	case 1:
		return SideCredit
	case -1:
		return SideDebit
	default:
		return SideNone
	}
}

// Total is the footing of both T-account columns once balanced: the larger of
// the two side totals.
func (b Balance) Total() decimal.Decimal {
	switch {
	case b.Debit.IsZero():
		return b.Credit
	case b.Credit.IsZero():
		return b.Debit
	default:
		return decimal.Max(b.Debit, b.Credit)
	}
}

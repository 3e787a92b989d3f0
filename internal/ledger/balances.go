// Package ledger derives per-account positions from a fiscal year's journal
// and maintains the account universe (rename, merge, delete).
package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

// ComputeBalances aggregates entries into one Balance per account. The account
// universe is every name that appears on either side of an entry.
func ComputeBalances(entries []model.Entry) map[string]model.Balance {
	debits := make(map[string]decimal.Decimal)
	credits := make(map[string]decimal.Decimal)
	for _, e := range entries {
		debits[e.Debited] = total(debits, e.Debited).Add(e.Amount)
		credits[e.Credited] = total(credits, e.Credited).Add(e.Amount)
	}

	balances := make(map[string]model.Balance, len(debits)+len(credits))
	for _, side := range []map[string]decimal.Decimal{debits, credits} {
		for name := range side {
			if _, ok := balances[name]; !ok {
				balances[name] = model.NewBalance(name, total(debits, name), total(credits, name))
			}
		}
	}
	return balances
}

func total(sums map[string]decimal.Decimal, name string) decimal.Decimal {
	if v, ok := sums[name]; ok {
		return v
	}
	return decimal.Zero
}

// SortedNames returns the account names of balances in lexical order.
func SortedNames(balances map[string]model.Balance) []string {
	names := make([]string, 0, len(balances))
	for name := range balances {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Posting is one line of a T-account: the entry and the account on its other side.
type Posting struct {
	EntryID int64           `json:"id"`
	Date    time.Time       `json:"-"`
	Account string          `json:"account"`
	Amount  decimal.Decimal `json:"amount"`
}

// AccountLedger is the T-account view of one account.
type AccountLedger struct {
	Account    string            `json:"account"`
	DebitSide  []Posting         `json:"debit_side"`
	CreditSide []Posting         `json:"credit_side"`
	Side       model.BalanceSide `json:"balance_side"`
	Balance    decimal.Decimal   `json:"balance"` // absolute net
	Total      decimal.Decimal   `json:"total"`
	Position   model.Balance     `json:"-"`
}

// BuildAccountLedger splits the entries touching account into its debit and
// credit sides. ok is false when the account does not appear at all.
func BuildAccountLedger(entries []model.Entry, account string) (AccountLedger, bool) {
	al := AccountLedger{Account: account}
	debit, credit := decimal.Zero, decimal.Zero
	for _, e := range entries {
		if e.Debited == account {
			al.DebitSide = append(al.DebitSide, Posting{EntryID: e.ID, Date: e.Date, Account: e.Credited, Amount: e.Amount})
			debit = debit.Add(e.Amount)
		}
		if e.Credited == account {
			al.CreditSide = append(al.CreditSide, Posting{EntryID: e.ID, Date: e.Date, Account: e.Debited, Amount: e.Amount})
			credit = credit.Add(e.Amount)
		}
	}
	if len(al.DebitSide) == 0 && len(al.CreditSide) == 0 {
		return AccountLedger{}, false
	}

	al.Position = model.NewBalance(account, debit, credit)
	al.Side = al.Position.Side()
	al.Balance = al.Position.Net.Abs()
	al.Total = al.Position.Total()
	return al, true
}

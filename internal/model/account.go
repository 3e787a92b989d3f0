package model

// AccountType classifies an account on the balance sheet.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	// AccountTypeNone ("none of the above") is accepted as classifier input
	// only. It removes an existing classification and is never stored.
	AccountTypeNone AccountType = "nota"
)

// Subtype places a classified account within its section.
type Subtype string

const (
	SubtypeCurrent    Subtype = "current"
	SubtypeNoncurrent Subtype = "noncurrent"
	SubtypeEquity     Subtype = "equity" // liabilities only
)

// Operation is the sign an account contributes to its section subtotal.
type Operation string

const (
	OperationAdd  Operation = "add"
	OperationLess Operation = "less"
)

// Classification is a user-declared balance-sheet placement for one account
// of a fiscal year. Accounts without a row are unclassified.
type Classification struct {
	FiscalYearID int64       `json:"fiscal_year_id"`
	Account      string      `json:"account"`
	Type         AccountType `json:"type"`
	Subtype      Subtype     `json:"subtype"`
	Operation    Operation   `json:"operation"`
}

// Same reports whether c and other place the account identically.
func (c Classification) Same(other Classification) bool {
	return c.Type == other.Type && c.Subtype == other.Subtype && c.Operation == other.Operation
}

package model

// Status is the open/closed state shared by fiscal years and owner accounts.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Toggled returns the opposite status.
func (s Status) Toggled() Status {
	if s == StatusOpen {
		return StatusClosed
	}
	return StatusOpen
}

// FiscalYear is an independent ledger owned by one owner.
type FiscalYear struct {
	ID      int64  `json:"id"`
	OwnerID string `json:"owner_id"`
	Name    string `json:"name"`
	Status  Status `json:"status"`
}

// Closed reports whether writes to the fiscal year are blocked.
func (fy FiscalYear) Closed() bool {
	return fy.Status == StatusClosed
}

// Owner is the caller identity handed to the engine by the identity layer.
type Owner struct {
	ID     string
	Status Status
}

// Closed reports whether the owner's account has been closed.
func (o Owner) Closed() bool {
	return o.Status == StatusClosed
}

// Outcome reports what a mutating operation did.
type Outcome string

const (
	OutcomeApplied   Outcome = "applied"
	OutcomeUnchanged Outcome = "unchanged"
	// OutcomeSkipped is returned, with a nil error, when the owner or fiscal
	// year is closed. Callers treat it as success without effect.
	OutcomeSkipped Outcome = "skipped"
)

// WritesBlocked reports whether journal and classification writes against fy
// must be skipped for owner.
func WritesBlocked(owner Owner, fy FiscalYear) bool {
	return owner.Closed() || fy.Closed()
}

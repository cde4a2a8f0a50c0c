package services

import (
	"fmt"

	"github.com/ytlist/ytlist/internal/shared"
)

// Unit costs per the YouTube Data API quota table. Search is two orders of
// magnitude more expensive than everything else, which is why resolutions
// are cached so aggressively.
const (
	CostSearchList         = 100
	CostVideosList         = 1
	CostPlaylistInsert     = 50
	CostPlaylistItemsList  = 1
	CostPlaylistItemInsert = 50
	CostPlaylistItemUpdate = 50
	CostPlaylistItemDelete = 50
)

// QuotaBudget tracks API units spent by this process against an optional
// local limit. It is threaded through every client call so quota is a
// visible, attributable value rather than a hidden global.
//
// The budget only knows about local spending; the service's own daily
// accounting is authoritative and surfaces as a quota error on HTTP 403.
type QuotaBudget struct {
	limit int
	spent int
}

// NewQuotaBudget creates a budget with the given unit limit. A limit of 0
// disables the local pre-flight check and only tracks spending.
func NewQuotaBudget(limit int) *QuotaBudget {
	return &QuotaBudget{limit: limit}
}

// Charge records cost units, failing with shared.ErrQuotaExceeded before any
// network I/O when the limit would be crossed.
func (b *QuotaBudget) Charge(cost int) error {
	if b.limit > 0 && b.spent+cost > b.limit {
		return fmt.Errorf("%w: local budget exhausted (%d of %d units spent, next call needs %d)",
			shared.ErrQuotaExceeded, b.spent, b.limit, cost)
	}
	b.spent += cost
	return nil
}

// Spent returns the units consumed so far.
func (b *QuotaBudget) Spent() int { return b.spent }

// Limit returns the configured unit limit (0 means unlimited).
func (b *QuotaBudget) Limit() int { return b.limit }

// Exhausted reports whether the next minimum-cost call would fail.
func (b *QuotaBudget) Exhausted() bool {
	return b.limit > 0 && b.spent >= b.limit
}

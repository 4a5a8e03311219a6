// Package promotion resolves whether a campaign is live at a given instant and
// whether it carries a discount. Campaign records come from an external write
// path and may be incomplete or carry unparsable dates; every malformed shape
// resolves to StatusInactive so a bad record degrades to "no promotion shown"
// instead of breaking the page.
package promotion

import (
	"time"

	"github.com/ecomcore/storefront/internal/models"
)

type Status string

const (
	// StatusInactive: no campaign, malformed campaign, or outside the window.
	StatusInactive Status = "inactive"
	// StatusCampaign: live window with reduction 0; featured, no discount.
	StatusCampaign Status = "campaign"
	// StatusPromotional: live window with a nonzero reduction.
	StatusPromotional Status = "promotional-campaign"
)

// Active reports whether the status grants any visibility.
func (s Status) Active() bool { return s != StatusInactive }

// Discounted reports whether a discount applies.
func (s Status) Discounted() bool { return s == StatusPromotional }

// Evaluate classifies a campaign at instant now. StartDate, EndDate and
// Reduction must all be present (a stored 0 reduction counts as present);
// the window is inclusive on both bounds.
//
// Pure function of its input and now. Countdown displays re-invoke it each
// tick; it owns no timer.
func Evaluate(c *models.Campaign, now time.Time) Status {
	if c == nil || c.StartDate == nil || c.EndDate == nil || c.Reduction == nil {
		return StatusInactive
	}
	start, ok := parseInstant(*c.StartDate)
	if !ok {
		return StatusInactive
	}
	end, ok := parseInstant(*c.EndDate)
	if !ok {
		return StatusInactive
	}
	if now.Before(start) || now.After(end) {
		return StatusInactive
	}
	if c.Reduction.Float64() == 0 {
		return StatusCampaign
	}
	return StatusPromotional
}

// parseInstant accepts RFC3339 or a bare calendar date. Admin tooling has
// written both shapes over time.
func parseInstant(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

package services

import (
	"time"

	"github.com/Joeykosseifi/JobLink-project-sub001/internal/models"
)

func nowUTC() time.Time {
	return time.Now().UTC()
}

// nextBillingDate computes when the next charge falls due for a paid cycle.
// A user with no cycle is never charged again, so "from" is returned as-is
// only for paid cycles; callers skip scheduling when cycle is unset.
func nextBillingDate(from time.Time, cycle models.BillingCycle) time.Time {
	switch cycle {
	case models.CycleMonthly:
		return from.AddDate(0, 1, 0)
	case models.CycleYearly:
		return from.AddDate(1, 0, 0)
	default:
		return from
	}
}

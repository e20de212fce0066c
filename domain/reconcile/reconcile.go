package reconcile

import (
	"time"

	"github.com/namebid/goapi/base/ctx"
)

// Report summarizes one reconciliation pass. Running it again immediately
// yields zero counts, the sweep is idempotent.
type Report struct {
	ExpiredListings int64     `json:"expiredListings"`
	ExpiredOffers   int64     `json:"expiredOffers"`
	DryRun          bool      `json:"dryRun"`
	RanAt           time.Time `json:"ranAt"`
}

type Usecase interface {
	// Run expires ended listings and their still-active offers.
	Run(ctx ctx.Ctx, now time.Time) (*Report, error)
	// Preview reports what Run would do without writing anything.
	Preview(ctx ctx.Ctx, now time.Time) (*Report, error)
}

package jobs

import (
	"log"

	"github.com/tandon-kartikeya/cleanroom-bphc/services"
)

// ReconcileOutbox replays decisions the store refused at decision time. The
// approver was already told they succeeded, so this keeps retrying until the
// store takes them.
func ReconcileOutbox() {
	outbox := services.Bookings.Outbox()
	if outbox.Len() == 0 {
		return
	}

	flushed, remaining := outbox.Drain(services.Bookings.Store())
	log.Printf("Outbox reconciliation: %d flushed, %d still pending", flushed, remaining)
}

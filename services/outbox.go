package services

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tandon-kartikeya/cleanroom-bphc/database"
	"github.com/tandon-kartikeya/cleanroom-bphc/models"
)

// Outbox holds bookings whose durable write was refused by the store. The
// caller was already told the decision succeeded, so the record must not be
// lost; a cron job replays entries until the store accepts them. Latest
// write wins per document.
type Outbox struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*outboxEntry
}

type outboxEntry struct {
	booking    models.Booking
	attempts   int
	lastError  string
	enqueuedAt time.Time
}

func NewOutbox() *Outbox {
	return &Outbox{entries: make(map[uuid.UUID]*outboxEntry)}
}

func (o *Outbox) Enqueue(booking *models.Booking) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.entries[booking.DocID] = &outboxEntry{
		booking:    *booking,
		enqueuedAt: time.Now().UTC(),
	}
}

func (o *Outbox) Remove(docID uuid.UUID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.entries, docID)
}

func (o *Outbox) Has(docID uuid.UUID) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.entries[docID]
	return ok
}

func (o *Outbox) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.entries)
}

// Pending returns a snapshot of queued records, for the admin dashboard.
func (o *Outbox) Pending() []models.Booking {
	o.mu.Lock()
	defer o.mu.Unlock()
	pending := make([]models.Booking, 0, len(o.entries))
	for _, entry := range o.entries {
		pending = append(pending, entry.booking)
	}
	return pending
}

// Drain replays every queued record through a full-document write. Entries
// the store accepts are dropped; the rest stay queued with their attempt
// count bumped. Returns how many were flushed and how many remain.
func (o *Outbox) Drain(store database.BookingStore) (flushed, remaining int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for docID, entry := range o.entries {
		booking := entry.booking
		if err := store.Replace(&booking); err != nil {
			entry.attempts++
			entry.lastError = err.Error()
			log.Printf("Outbox: replay for booking %s failed (attempt %d): %v", docID, entry.attempts, err)
			continue
		}
		delete(o.entries, docID)
		flushed++
	}
	return flushed, len(o.entries)
}

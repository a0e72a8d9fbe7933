package services

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/tandon-kartikeya/cleanroom-bphc/database"
	"github.com/tandon-kartikeya/cleanroom-bphc/models"
	"github.com/tandon-kartikeya/cleanroom-bphc/utils"
)

// Bookings is the process-wide service instance, wired up in main.
var Bookings *BookingService

// How many times a status update is retried when another decision landed
// between our read and our conditional write.
const maxUpdateAttempts = 3

// BookingRecord is what leaves the service: the booking with every
// timestamp normalized to an ISO-8601 string or null. Callers never see the
// store's native time types.
type BookingRecord struct {
	models.Booking
	SubmittedAt  *string `json:"submittedAt"`
	LastModified *string `json:"lastModified"`
}

// BookingDraft carries the booking form payload. Status and the voting
// record are never taken from the draft.
type BookingDraft struct {
	Name              string `json:"name" validate:"required"`
	StudentID         string `json:"studentId" validate:"required"`
	Email             string `json:"email" validate:"omitempty,email"`
	StudentEmail      string `json:"studentEmail" validate:"omitempty,email"`
	Phone             string `json:"phone" validate:"required"`
	Faculty           string `json:"faculty"`
	FacultyEmail      string `json:"facultyEmail" validate:"omitempty,email"`
	Equipment         string `json:"equipment" validate:"required"`
	Description       string `json:"description"`
	Purpose           string `json:"purpose"`
	PreferredDate     string `json:"preferredDate" validate:"required"`
	PreferredTimeSlot string `json:"preferredTimeSlot" validate:"required"`
}

type BookingService struct {
	store  database.BookingStore
	outbox *Outbox
	now    func() time.Time
}

func NewBookingService(store database.BookingStore, outbox *Outbox) *BookingService {
	return &BookingService{
		store:  store,
		outbox: outbox,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func InitBookingService(store database.BookingStore) {
	Bookings = NewBookingService(store, NewOutbox())
}

func (s *BookingService) Outbox() *Outbox {
	return s.outbox
}

func (s *BookingService) Store() database.BookingStore {
	return s.store
}

// Create stores a new booking request. Whatever the payload claims, a new
// booking always starts in pending_faculty with both votes pending, and the
// submission timestamps are server-assigned.
func (s *BookingService) Create(draft *BookingDraft) (*BookingRecord, error) {
	studentEmail := draft.StudentEmail
	if studentEmail == "" {
		studentEmail = draft.Email
	}

	now := s.now()
	booking := models.Booking{
		ID:     utils.GenerateReferenceCode(),
		Status: models.StatusPendingFaculty,
		ApprovalStatus: models.ApprovalStatus{
			Faculty: models.VotePending,
			Admin:   models.VotePending,
		},
		Name:              draft.Name,
		StudentID:         draft.StudentID,
		StudentEmail:      studentEmail,
		Phone:             draft.Phone,
		Faculty:           draft.Faculty,
		FacultyEmail:      draft.FacultyEmail,
		Equipment:         draft.Equipment,
		Description:       draft.Description,
		Purpose:           draft.Purpose,
		PreferredDate:     draft.PreferredDate,
		PreferredTimeSlot: draft.PreferredTimeSlot,
		SubmittedAt:       &now,
		LastModified:      &now,
		CreatedBy:         studentEmail,
	}

	if err := s.store.Insert(&booking); err != nil {
		return nil, err
	}
	return toRecord(&booking), nil
}

func (s *BookingService) ListAll() ([]BookingRecord, error) {
	bookings, err := s.store.List()
	if err != nil {
		return nil, err
	}
	return toRecords(bookings), nil
}

func (s *BookingService) ListByStudent(studentEmail string) ([]BookingRecord, error) {
	bookings, err := s.store.ListByStudent(studentEmail)
	if err != nil {
		return nil, err
	}
	return toRecords(bookings), nil
}

func (s *BookingService) ListByFaculty(facultyID, facultyEmail string) ([]BookingRecord, error) {
	bookings, err := s.store.ListByFaculty(facultyID, facultyEmail)
	if err != nil {
		return nil, err
	}
	return toRecords(bookings), nil
}

// UpdateStatus runs a decision through the state machine and persists it
// with a version-conditional partial update.
//
// If the store refuses the write on permission grounds the decision is not
// lost and the caller is not told: the post-transition record is synthesized
// locally, queued on the outbox for the reconciler, and returned as if the
// write had landed. The approver's intent is recorded even when the store
// cannot be written right now; durability is deferred, not guaranteed.
func (s *BookingService) UpdateStatus(docID uuid.UUID, newStatus, feedback, updatedBy, approverRole string, extra *Schedule) (*BookingRecord, error) {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		current, err := s.store.Get(docID)
		if err != nil {
			return nil, err
		}

		mutation, err := Transition(current, approverRole, newStatus, feedback, updatedBy, extra, false)
		if err != nil {
			return nil, err
		}

		now := s.now()
		fields := mutation.Fields(now)
		fields["version"] = current.Version + 1

		err = s.store.UpdateFields(docID, current.Version, fields)
		if err == nil {
			updated, err := s.store.Get(docID)
			if err != nil {
				return nil, err
			}
			return toRecord(updated), nil
		}
		if errors.Is(err, database.ErrVersionConflict) {
			continue
		}
		if errors.Is(err, database.ErrPermissionDenied) {
			synthesized := *current
			mutation.Apply(&synthesized, now)
			synthesized.Version = current.Version + 1
			s.outbox.Enqueue(&synthesized)
			log.Printf("Store refused write for booking %s, queued for reconciliation: %v", docID, err)
			return toRecord(&synthesized), nil
		}
		return nil, err
	}
	return nil, database.ErrVersionConflict
}

// DirectUpdate is the admin override path. The synthesized record goes on
// the outbox before the store is touched, then the durable write is
// attempted best-effort; a refusal is logged and never surfaced. An admin
// decision must not visibly fail on permissions.
func (s *BookingService) DirectUpdate(docID uuid.UUID, newStatus, feedback, updatedBy string, extra *Schedule) (*BookingRecord, error) {
	current, err := s.store.Get(docID)
	if err != nil {
		return nil, err
	}

	mutation, err := Transition(current, models.RoleAdmin, newStatus, feedback, updatedBy, extra, true)
	if err != nil {
		return nil, err
	}

	now := s.now()
	updated := *current
	mutation.Apply(&updated, now)
	updated.Version = current.Version + 1

	s.outbox.Enqueue(&updated)

	if err := s.store.Replace(&updated); err != nil {
		log.Printf("Best-effort write for admin override on booking %s failed, outbox copy kept: %v", docID, err)
	} else {
		s.outbox.Remove(docID)
	}
	return toRecord(&updated), nil
}

// DeleteAll is the administrative bulk clear. Destructive, no fallback.
func (s *BookingService) DeleteAll() (int64, error) {
	return s.store.DeleteAll()
}

func toRecord(booking *models.Booking) *BookingRecord {
	record := BookingRecord{Booking: *booking}
	record.Booking.Status = models.NormalizeStatus(booking.Status)
	record.SubmittedAt = isoTime(booking.SubmittedAt)
	record.LastModified = isoTime(booking.LastModified)
	return &record
}

func toRecords(bookings []models.Booking) []BookingRecord {
	records := make([]BookingRecord, 0, len(bookings))
	for i := range bookings {
		records = append(records, *toRecord(&bookings[i]))
	}
	return records
}

func isoTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.UTC().Format(time.RFC3339)
	return &formatted
}

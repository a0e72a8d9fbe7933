package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/tandon-kartikeya/cleanroom-bphc/database"
	"github.com/tandon-kartikeya/cleanroom-bphc/models"
)

// mockStore is an in-memory BookingStore with injectable failures.
type mockStore struct {
	bookings map[uuid.UUID]models.Booking

	insertErr    error
	updateErr    error // returned by UpdateFields until cleared
	updateErrFor int   // if > 0, updateErr fires only this many times
	replaceErr   error

	insertCalls  int
	updateCalls  int
	replaceCalls int
}

func newMockStore() *mockStore {
	return &mockStore{bookings: make(map[uuid.UUID]models.Booking)}
}

func (m *mockStore) Insert(booking *models.Booking) error {
	m.insertCalls++
	if m.insertErr != nil {
		return m.insertErr
	}
	if booking.DocID == uuid.Nil {
		booking.DocID = uuid.New()
	}
	m.bookings[booking.DocID] = *booking
	return nil
}

func (m *mockStore) Get(docID uuid.UUID) (*models.Booking, error) {
	booking, ok := m.bookings[docID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", database.ErrNotFound, docID)
	}
	copied := booking
	return &copied, nil
}

func (m *mockStore) List() ([]models.Booking, error) {
	all := make([]models.Booking, 0, len(m.bookings))
	for _, booking := range m.bookings {
		all = append(all, booking)
	}
	sortNewestFirst(all)
	return all, nil
}

func (m *mockStore) ListByStudent(studentEmail string) ([]models.Booking, error) {
	var matched []models.Booking
	for _, booking := range m.bookings {
		if booking.StudentEmail == studentEmail {
			matched = append(matched, booking)
		}
	}
	sortNewestFirst(matched)
	return matched, nil
}

func (m *mockStore) ListByFaculty(facultyID, facultyEmail string) ([]models.Booking, error) {
	var matched []models.Booking
	for _, booking := range m.bookings {
		if booking.Faculty == facultyID || (facultyEmail != "" && booking.FacultyEmail == facultyEmail) {
			matched = append(matched, booking)
		}
	}
	sortNewestFirst(matched)
	return matched, nil
}

func (m *mockStore) UpdateFields(docID uuid.UUID, version int, fields map[string]interface{}) error {
	m.updateCalls++
	if m.updateErr != nil {
		err := m.updateErr
		if m.updateErrFor > 0 {
			m.updateErrFor--
			if m.updateErrFor == 0 {
				m.updateErr = nil
			}
		}
		return err
	}

	booking, ok := m.bookings[docID]
	if !ok {
		return fmt.Errorf("%w: %s", database.ErrNotFound, docID)
	}
	if booking.Version != version {
		return database.ErrVersionConflict
	}
	applyFields(&booking, fields)
	m.bookings[docID] = booking
	return nil
}

func (m *mockStore) Replace(booking *models.Booking) error {
	m.replaceCalls++
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.bookings[booking.DocID] = *booking
	return nil
}

func (m *mockStore) DeleteAll() (int64, error) {
	count := int64(len(m.bookings))
	m.bookings = make(map[uuid.UUID]models.Booking)
	return count, nil
}

func applyFields(booking *models.Booking, fields map[string]interface{}) {
	for column, value := range fields {
		switch column {
		case "status":
			booking.Status = value.(string)
		case "approval_faculty":
			booking.ApprovalStatus.Faculty = value.(string)
		case "approval_admin":
			booking.ApprovalStatus.Admin = value.(string)
		case "last_modified":
			t := value.(time.Time)
			booking.LastModified = &t
		case "last_modified_by":
			booking.LastModifiedBy = value.(string)
		case "faculty_approval_notes":
			booking.FacultyApprovalNotes = value.(string)
		case "faculty_rejection_reason":
			booking.FacultyRejectionReason = value.(string)
		case "admin_approval_notes":
			booking.AdminApprovalNotes = value.(string)
		case "admin_rejection_reason":
			booking.AdminRejectionReason = value.(string)
		case "approval_notes":
			booking.ApprovalNotes = value.(string)
		case "rejection_reason":
			booking.RejectionReason = value.(string)
		case "actual_date":
			booking.ActualDate = value.(string)
		case "actual_start":
			booking.ActualTimeRange.Start = value.(string)
		case "actual_end":
			booking.ActualTimeRange.End = value.(string)
		case "version":
			booking.Version = value.(int)
		}
	}
}

func sortNewestFirst(bookings []models.Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		a, b := bookings[i].SubmittedAt, bookings[j].SubmittedAt
		if a == nil || b == nil {
			return a != nil
		}
		return a.After(*b)
	})
}

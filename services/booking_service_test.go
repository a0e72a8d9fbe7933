package services

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tandon-kartikeya/cleanroom-bphc/database"
	"github.com/tandon-kartikeya/cleanroom-bphc/models"
)

func newTestService(store *mockStore) *BookingService {
	svc := NewBookingService(store, NewOutbox())
	base := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return svc
}

func draftFixture() *BookingDraft {
	return &BookingDraft{
		Name:              "Kartikeya Tandon",
		StudentID:         "2021A8PS1234H",
		Email:             "f20211234@hyderabad.bits-pilani.ac.in",
		Phone:             "9876543210",
		Faculty:           "srao",
		FacultyEmail:      "srao@hyderabad.bits-pilani.ac.in",
		Equipment:         "equipment_2",
		Description:       "Thin film deposition",
		Purpose:           "Course project",
		PreferredDate:     "2025-03-20",
		PreferredTimeSlot: "morning",
	}
}

func TestCreateForcesInitialState(t *testing.T) {
	store := newMockStore()
	svc := newTestService(store)

	record, err := svc.Create(draftFixture())
	require.NoError(t, err)

	assert.Equal(t, models.StatusPendingFaculty, record.Status)
	assert.Equal(t, models.VotePending, record.ApprovalStatus.Faculty)
	assert.Equal(t, models.VotePending, record.ApprovalStatus.Admin)
	assert.True(t, strings.HasPrefix(record.ID, "REQ-"))
	assert.NotEqual(t, record.DocID.String(), "00000000-0000-0000-0000-000000000000")
	require.NotNil(t, record.SubmittedAt)
	require.NotNil(t, record.LastModified)
	// studentEmail defaults from the sign-in email when the form leaves it out
	assert.Equal(t, "f20211234@hyderabad.bits-pilani.ac.in", record.StudentEmail)
	assert.Equal(t, record.StudentEmail, record.CreatedBy)
}

func TestCreateListRoundTrip(t *testing.T) {
	store := newMockStore()
	svc := newTestService(store)

	record, err := svc.Create(draftFixture())
	require.NoError(t, err)

	records, err := svc.ListByStudent(record.StudentEmail)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, record.DocID, records[0].DocID)
	require.NotNil(t, records[0].SubmittedAt)
	assert.NotEmpty(t, *records[0].SubmittedAt)
}

func TestListByFacultyMatchesIDOrEmail(t *testing.T) {
	store := newMockStore()
	svc := newTestService(store)

	byID := draftFixture()
	byID.FacultyEmail = ""
	_, err := svc.Create(byID)
	require.NoError(t, err)

	byEmail := draftFixture()
	byEmail.Faculty = "someone_else"
	_, err = svc.Create(byEmail)
	require.NoError(t, err)

	unrelated := draftFixture()
	unrelated.Faculty = "other"
	unrelated.FacultyEmail = "other@hyderabad.bits-pilani.ac.in"
	_, err = svc.Create(unrelated)
	require.NoError(t, err)

	records, err := svc.ListByFaculty("srao", "srao@hyderabad.bits-pilani.ac.in")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestFullApprovalFlow(t *testing.T) {
	store := newMockStore()
	svc := newTestService(store)

	created, err := svc.Create(draftFixture())
	require.NoError(t, err)

	afterFaculty, err := svc.UpdateStatus(created.DocID, DecisionApproved, "fine by me", "Dr. Rao", models.RoleFaculty, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingAdmin, afterFaculty.Status)
	assert.Equal(t, models.VoteApproved, afterFaculty.ApprovalStatus.Faculty)
	assert.Equal(t, "fine by me", afterFaculty.FacultyApprovalNotes)

	schedule := &Schedule{
		ActualDate: "2025-03-21",
		TimeRange:  models.TimeRange{Start: "14:00", End: "16:00"},
	}
	afterAdmin, err := svc.UpdateStatus(created.DocID, DecisionApproved, "allocated", "admin", models.RoleAdmin, schedule)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, afterAdmin.Status)
	assert.Equal(t, models.VoteApproved, afterAdmin.ApprovalStatus.Admin)
	assert.Equal(t, "2025-03-21", afterAdmin.ActualDate)
	assert.Equal(t, "14:00", afterAdmin.ActualTimeRange.Start)
	// The requester's ask is untouched by scheduling.
	assert.Equal(t, "2025-03-20", afterAdmin.PreferredDate)
}

func TestAdminRejectRecordsReason(t *testing.T) {
	store := newMockStore()
	svc := newTestService(store)

	created, err := svc.Create(draftFixture())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(created.DocID, DecisionApproved, "", "Dr. Rao", models.RoleFaculty, nil)
	require.NoError(t, err)

	rejected, err := svc.UpdateStatus(created.DocID, DecisionRejected, "Equipment unavailable", "admin", models.RoleAdmin, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)
	assert.Equal(t, models.VoteRejected, rejected.ApprovalStatus.Admin)
	assert.Equal(t, "Equipment unavailable", rejected.AdminRejectionReason)
}

func TestValidationFailureNeverTouchesStore(t *testing.T) {
	store := newMockStore()
	svc := newTestService(store)

	created, err := svc.Create(draftFixture())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(created.DocID, DecisionRejected, "", "Dr. Rao", models.RoleFaculty, nil)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, store.updateCalls)

	_, err = svc.UpdateStatus(created.DocID, DecisionApproved, "", "admin", models.RoleAdmin, &Schedule{ActualDate: "2025-03-21"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, store.updateCalls)

	unchanged, err := store.Get(created.DocID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingFaculty, unchanged.Status)
}

func TestUpdateStatusNotFoundPropagates(t *testing.T) {
	svc := newTestService(newMockStore())

	_, err := svc.UpdateStatus(uuid.New(), DecisionApproved, "", "Dr. Rao", models.RoleFaculty, nil)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestPermissionFailureSynthesizesAndQueues(t *testing.T) {
	store := newMockStore()
	svc := newTestService(store)

	created, err := svc.Create(draftFixture())
	require.NoError(t, err)

	store.updateErr = database.ErrPermissionDenied

	record, err := svc.UpdateStatus(created.DocID, DecisionApproved, "fine", "Dr. Rao", models.RoleFaculty, nil)
	require.NoError(t, err)

	// Caller sees the transition as applied.
	assert.Equal(t, models.StatusPendingAdmin, record.Status)
	assert.Equal(t, models.VoteApproved, record.ApprovalStatus.Faculty)

	// The durable copy is untouched and the synthesized record is queued.
	durable, err := store.Get(created.DocID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingFaculty, durable.Status)
	assert.True(t, svc.Outbox().Has(created.DocID))
}

func TestOutboxDrainReplaysQueuedDecision(t *testing.T) {
	store := newMockStore()
	svc := newTestService(store)

	created, err := svc.Create(draftFixture())
	require.NoError(t, err)

	store.updateErr = database.ErrPermissionDenied
	_, err = svc.UpdateStatus(created.DocID, DecisionApproved, "fine", "Dr. Rao", models.RoleFaculty, nil)
	require.NoError(t, err)
	store.updateErr = nil

	flushed, remaining := svc.Outbox().Drain(store)
	assert.Equal(t, 1, flushed)
	assert.Zero(t, remaining)

	durable, err := store.Get(created.DocID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingAdmin, durable.Status)
}

func TestOutboxKeepsEntriesTheStoreStillRefuses(t *testing.T) {
	store := newMockStore()
	svc := newTestService(store)

	created, err := svc.Create(draftFixture())
	require.NoError(t, err)

	store.updateErr = database.ErrPermissionDenied
	_, err = svc.UpdateStatus(created.DocID, DecisionApproved, "fine", "Dr. Rao", models.RoleFaculty, nil)
	require.NoError(t, err)

	store.replaceErr = database.ErrPermissionDenied
	flushed, remaining := svc.Outbox().Drain(store)
	assert.Zero(t, flushed)
	assert.Equal(t, 1, remaining)
	assert.True(t, svc.Outbox().Has(created.DocID))
}

func TestDirectUpdateQueuesBeforeBestEffortWrite(t *testing.T) {
	store := newMockStore()
	svc := newTestService(store)

	created, err := svc.Create(draftFixture())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(created.DocID, DecisionRejected, "late submission", "Dr. Rao", models.RoleFaculty, nil)
	require.NoError(t, err)

	store.replaceErr = database.ErrPermissionDenied
	schedule := &Schedule{
		ActualDate: "2025-03-20",
		TimeRange:  models.TimeRange{Start: "10:00", End: "12:00"},
	}
	record, err := svc.DirectUpdate(created.DocID, DecisionApproved, "re-evaluated", "admin", schedule)
	require.NoError(t, err, "an admin override must not surface a permission failure")

	assert.Equal(t, models.StatusApproved, record.Status)
	assert.Equal(t, "re-evaluated", record.ApprovalNotes)
	assert.Equal(t, "2025-03-20", record.ActualDate)
	assert.True(t, svc.Outbox().Has(created.DocID), "the synthesized record stays queued when the write fails")

	// With a cooperative store the entry is flushed inline.
	store.replaceErr = nil
	record, err = svc.DirectUpdate(created.DocID, DecisionRejected, "withdrawn after all", "admin", nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, record.Status)
	assert.False(t, svc.Outbox().Has(created.DocID))
}

func TestVersionConflictRetries(t *testing.T) {
	store := newMockStore()
	svc := newTestService(store)

	created, err := svc.Create(draftFixture())
	require.NoError(t, err)

	store.updateErr = database.ErrVersionConflict
	store.updateErrFor = 1

	record, err := svc.UpdateStatus(created.DocID, DecisionApproved, "", "Dr. Rao", models.RoleFaculty, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingAdmin, record.Status)
	assert.Equal(t, 2, store.updateCalls)
}

func TestVersionConflictExhaustsRetries(t *testing.T) {
	store := newMockStore()
	svc := newTestService(store)

	created, err := svc.Create(draftFixture())
	require.NoError(t, err)

	store.updateErr = database.ErrVersionConflict
	store.updateErrFor = maxUpdateAttempts + 1

	_, err = svc.UpdateStatus(created.DocID, DecisionApproved, "", "Dr. Rao", models.RoleFaculty, nil)
	assert.ErrorIs(t, err, database.ErrVersionConflict)
}

func TestRecordNormalizesLegacyStatusAndTimestamps(t *testing.T) {
	store := newMockStore()
	svc := newTestService(store)

	created, err := svc.Create(draftFixture())
	require.NoError(t, err)

	// Age the row into the legacy shape: bare "pending" status, no
	// timestamps at all.
	durable, err := store.Get(created.DocID)
	require.NoError(t, err)
	durable.Status = models.LegacyStatusPending
	durable.SubmittedAt = nil
	durable.LastModified = nil
	require.NoError(t, store.Replace(durable))

	records, err := svc.ListByStudent(created.StudentEmail)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.StatusPendingFaculty, records[0].Status)
	assert.Nil(t, records[0].SubmittedAt)
	assert.Nil(t, records[0].LastModified)
}

func TestDeleteAll(t *testing.T) {
	store := newMockStore()
	svc := newTestService(store)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(draftFixture())
		require.NoError(t, err)
	}

	deleted, err := svc.DeleteAll()
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	records, err := svc.ListAll()
	require.NoError(t, err)
	assert.Empty(t, records)
}

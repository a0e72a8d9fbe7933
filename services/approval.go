package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/tandon-kartikeya/cleanroom-bphc/models"
)

// Decision values accepted by the state machine. They intentionally match
// the terminal status vocabulary.
const (
	DecisionApproved = models.StatusApproved
	DecisionRejected = models.StatusRejected
)

// ErrValidation marks refusals raised before any store call: missing
// rejection feedback, incomplete schedule on an admin approval, or an actor
// acting out of turn. Nothing is persisted when a transition fails this way.
var ErrValidation = errors.New("validation failed")

// Schedule is the admin-allocated slot that must accompany an admin
// approval: a concrete date plus a start/end time pair.
type Schedule struct {
	ActualDate string           `json:"actualDate"`
	TimeRange  models.TimeRange `json:"actualTimeRange"`
}

func (s *Schedule) complete() bool {
	return s != nil && s.ActualDate != "" && s.TimeRange.Start != "" && s.TimeRange.End != ""
}

// Mutation is the computed outcome of a decision: the next status and
// voting record plus exactly the fields that must be persisted.
type Mutation struct {
	Status         string
	ApprovalStatus models.ApprovalStatus

	// FeedbackColumn names the booking column the feedback string lands in.
	// It depends on the deciding role and on whether this was an override.
	FeedbackColumn string
	Feedback       string

	Schedule  *Schedule
	UpdatedBy string
}

// Fields returns the partial update to hand to the store. The version bump
// is the service layer's business and is not included here.
func (m *Mutation) Fields(now time.Time) map[string]interface{} {
	fields := map[string]interface{}{
		"status":           m.Status,
		"approval_faculty": m.ApprovalStatus.Faculty,
		"approval_admin":   m.ApprovalStatus.Admin,
		"last_modified":    now,
		"last_modified_by": m.UpdatedBy,
	}
	if m.FeedbackColumn != "" {
		fields[m.FeedbackColumn] = m.Feedback
	}
	if m.Schedule != nil {
		fields["actual_date"] = m.Schedule.ActualDate
		fields["actual_start"] = m.Schedule.TimeRange.Start
		fields["actual_end"] = m.Schedule.TimeRange.End
	}
	return fields
}

// Apply writes the mutation onto a booking in memory. Used both after a
// durable write and to synthesize the post-transition record when the store
// refuses the write.
func (m *Mutation) Apply(booking *models.Booking, now time.Time) {
	booking.Status = m.Status
	booking.ApprovalStatus = m.ApprovalStatus
	booking.LastModified = &now
	booking.LastModifiedBy = m.UpdatedBy

	switch m.FeedbackColumn {
	case "faculty_approval_notes":
		booking.FacultyApprovalNotes = m.Feedback
	case "faculty_rejection_reason":
		booking.FacultyRejectionReason = m.Feedback
	case "admin_approval_notes":
		booking.AdminApprovalNotes = m.Feedback
	case "admin_rejection_reason":
		booking.AdminRejectionReason = m.Feedback
	case "approval_notes":
		booking.ApprovalNotes = m.Feedback
	case "rejection_reason":
		booking.RejectionReason = m.Feedback
	}

	if m.Schedule != nil {
		booking.ActualDate = m.Schedule.ActualDate
		booking.ActualTimeRange = m.Schedule.TimeRange
	}
}

// Transition computes the next booking state for a decision request.
//
// Faculty may only decide bookings still in pending_faculty. Admin holds
// veto power: a rejection lands from any state, and with override set an
// admin may force either terminal status regardless of the faculty vote,
// with the feedback recorded in the generic notes fields rather than the
// stage-specific ones.
func Transition(current *models.Booking, actorRole, decision, feedback, updatedBy string, schedule *Schedule, override bool) (*Mutation, error) {
	if decision != DecisionApproved && decision != DecisionRejected {
		return nil, fmt.Errorf("%w: unknown decision %q", ErrValidation, decision)
	}
	if decision == DecisionRejected && feedback == "" {
		return nil, fmt.Errorf("%w: a rejection requires a reason", ErrValidation)
	}
	if override && actorRole != models.RoleAdmin {
		return nil, fmt.Errorf("%w: only admin may override a decision", ErrValidation)
	}

	status := models.NormalizeStatus(current.Status)
	approval := current.ApprovalStatus
	if approval.Faculty == "" {
		approval.Faculty = models.VotePending
	}
	if approval.Admin == "" {
		approval.Admin = models.VotePending
	}

	mutation := &Mutation{UpdatedBy: updatedBy, Feedback: feedback}

	switch actorRole {
	case models.RoleFaculty:
		if status != models.StatusPendingFaculty {
			return nil, fmt.Errorf("%w: booking %s is no longer awaiting faculty review", ErrValidation, current.ID)
		}
		if decision == DecisionApproved {
			approval.Faculty = models.VoteApproved
			mutation.Status = models.StatusPendingAdmin
			mutation.FeedbackColumn = "faculty_approval_notes"
		} else {
			approval.Faculty = models.VoteRejected
			mutation.Status = models.StatusRejected
			mutation.FeedbackColumn = "faculty_rejection_reason"
		}

	case models.RoleAdmin:
		if decision == DecisionApproved {
			if !schedule.complete() {
				return nil, fmt.Errorf("%w: an admin approval requires a date and a start/end time", ErrValidation)
			}
			if override && feedback == "" {
				return nil, fmt.Errorf("%w: an override requires a reason", ErrValidation)
			}
			approval.Admin = models.VoteApproved
			mutation.Schedule = schedule
			if override {
				mutation.Status = models.StatusApproved
				mutation.FeedbackColumn = "approval_notes"
			} else {
				// The admin vote is recorded either way, but the booking only
				// becomes approved once faculty has signed off.
				mutation.FeedbackColumn = "admin_approval_notes"
				if approval.Faculty == models.VoteApproved {
					mutation.Status = models.StatusApproved
				} else {
					mutation.Status = status
				}
			}
		} else {
			approval.Admin = models.VoteRejected
			mutation.Status = models.StatusRejected
			if override {
				mutation.FeedbackColumn = "rejection_reason"
			} else {
				mutation.FeedbackColumn = "admin_rejection_reason"
			}
		}

	case "":
		// Legacy path kept for read compatibility with old records: the
		// caller's status is applied directly and the feedback lands in the
		// role-agnostic fields. No vote changes.
		mutation.Status = decision
		if decision == DecisionApproved {
			mutation.FeedbackColumn = "approval_notes"
		} else {
			mutation.FeedbackColumn = "rejection_reason"
		}

	default:
		return nil, fmt.Errorf("%w: role %q may not decide bookings", ErrValidation, actorRole)
	}

	mutation.ApprovalStatus = approval
	return mutation, nil
}

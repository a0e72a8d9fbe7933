package models

import (
	"time"

	"github.com/google/uuid"
)

// Booking status values. Older records may carry a bare "pending" which is
// read as StatusPendingFaculty.
const (
	StatusPendingFaculty = "pending_faculty"
	StatusPendingAdmin   = "pending_admin"
	StatusApproved       = "approved"
	StatusRejected       = "rejected"

	LegacyStatusPending = "pending"
)

// Per-stage vote values for ApprovalStatus.
const (
	VotePending  = "pending"
	VoteApproved = "approved"
	VoteRejected = "rejected"
)

// ApprovalStatus is the two-stage voting record the overall booking status
// is derived from.
type ApprovalStatus struct {
	Faculty string `gorm:"size:20;not null;default:'pending'" json:"faculty"`
	Admin   string `gorm:"size:20;not null;default:'pending'" json:"admin"`
}

// TimeRange is the admin-allocated slot on the final schedule.
type TimeRange struct {
	Start string `gorm:"size:20" json:"start"`
	End   string `gorm:"size:20" json:"end"`
}

type Booking struct {
	// DocID is the store-assigned key and the only key mutations run against.
	// ID is the human-facing reference code (REQ-####) and is not guaranteed
	// globally unique.
	DocID uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"docId"`
	ID    string    `gorm:"size:20;not null;index" json:"id"`

	Status         string         `gorm:"size:30;not null;default:'pending_faculty'" json:"status"`
	ApprovalStatus ApprovalStatus `gorm:"embedded;embeddedPrefix:approval_" json:"approvalStatus"`

	Name         string `gorm:"size:255;not null" json:"name"`
	StudentID    string `gorm:"size:50;not null" json:"studentId"`
	StudentEmail string `gorm:"size:255;not null;index" json:"studentEmail"`
	Phone        string `gorm:"size:20" json:"phone"`

	Faculty      string `gorm:"size:50;index" json:"faculty"`
	FacultyEmail string `gorm:"size:255;index" json:"facultyEmail"`

	Equipment   string `gorm:"size:50;not null" json:"equipment"`
	Description string `gorm:"type:text" json:"description"`
	Purpose     string `gorm:"type:text" json:"purpose"`

	// The requester's ask vs the admin-allocated schedule. ActualDate and
	// ActualTimeRange are only ever set by an admin approval.
	PreferredDate     string    `gorm:"size:20" json:"preferredDate"`
	PreferredTimeSlot string    `gorm:"size:50" json:"preferredTimeSlot"`
	ActualDate        string    `gorm:"size:20" json:"actualDate"`
	ActualTimeRange   TimeRange `gorm:"embedded;embeddedPrefix:actual_" json:"actualTimeRange"`

	FacultyApprovalNotes   string `gorm:"type:text" json:"facultyApprovalNotes"`
	FacultyRejectionReason string `gorm:"type:text" json:"facultyRejectionReason"`
	AdminApprovalNotes     string `gorm:"type:text" json:"adminApprovalNotes"`
	AdminRejectionReason   string `gorm:"type:text" json:"adminRejectionReason"`

	// Generic feedback fields written by the admin override path.
	ApprovalNotes   string `gorm:"type:text" json:"approvalNotes"`
	RejectionReason string `gorm:"type:text" json:"rejectionReason"`

	SubmittedAt    *time.Time `json:"-"`
	LastModified   *time.Time `json:"-"`
	LastModifiedBy string     `gorm:"size:255" json:"lastModifiedBy"`
	CreatedBy      string     `gorm:"size:255" json:"createdBy"`

	// Optimistic-concurrency token; every status mutation is conditional on
	// the version it read.
	Version int `gorm:"not null;default:0" json:"-"`
}

// NormalizeStatus maps the legacy bare "pending" value onto the two-stage
// vocabulary.
func NormalizeStatus(status string) string {
	if status == LegacyStatusPending || status == "" {
		return StatusPendingFaculty
	}
	return status
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Roles known to the system. Student and faculty come from the campus
// sign-in exchange; admin is a single seeded account with a static credential.
const (
	RoleStudent = "student"
	RoleFaculty = "faculty"
	RoleAdmin   = "admin"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FullName string    `gorm:"size:255;not null" json:"full_name"`
	Email    string    `gorm:"size:255;not null;unique" json:"email"`
	Password string    `gorm:"size:255" json:"-"`
	Role     string    `gorm:"size:20;not null;default:'student'" json:"role"`

	// FacultyID is the reviewer id students pick on the booking form; only
	// set for faculty accounts.
	FacultyID string `gorm:"size:50;index" json:"faculty_id,omitempty"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

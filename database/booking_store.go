package database

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tandon-kartikeya/cleanroom-bphc/models"
	"gorm.io/gorm"
)

// Store-level errors. Any write may fail with ErrPermissionDenied
// independent of whether the target row exists; callers decide whether to
// fall back or propagate.
var (
	ErrNotFound         = errors.New("booking not found")
	ErrPermissionDenied = errors.New("store permission denied")
	ErrVersionConflict  = errors.New("booking was modified concurrently")
)

// BookingStore is the opaque persistence boundary for bookings. The service
// layer only ever talks to this interface, never to GORM directly.
type BookingStore interface {
	Insert(booking *models.Booking) error
	Get(docID uuid.UUID) (*models.Booking, error)
	List() ([]models.Booking, error)
	ListByStudent(studentEmail string) ([]models.Booking, error)
	ListByFaculty(facultyID, facultyEmail string) ([]models.Booking, error)
	// UpdateFields applies a partial update conditional on the version the
	// caller read. Fields must include the bumped "version" value.
	UpdateFields(docID uuid.UUID, version int, fields map[string]interface{}) error
	// Replace writes the full document, unconditionally.
	Replace(booking *models.Booking) error
	DeleteAll() (int64, error)
}

type GormBookingStore struct {
	db *gorm.DB
}

func NewGormBookingStore(db *gorm.DB) *GormBookingStore {
	return &GormBookingStore{db: db}
}

func (s *GormBookingStore) Insert(booking *models.Booking) error {
	if err := s.db.Create(booking).Error; err != nil {
		return classifyStoreError(err)
	}
	return nil
}

func (s *GormBookingStore) Get(docID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.Where("doc_id = ?", docID).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, docID)
		}
		return nil, classifyStoreError(err)
	}
	return &booking, nil
}

func (s *GormBookingStore) List() ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.Order("submitted_at DESC").Find(&bookings).Error
	if err != nil {
		return nil, classifyStoreError(err)
	}
	return bookings, nil
}

func (s *GormBookingStore) ListByStudent(studentEmail string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.
		Where("student_email = ?", studentEmail).
		Order("submitted_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, classifyStoreError(err)
	}
	return bookings, nil
}

// ListByFaculty returns the union of bookings assigned by reviewer id or by
// reviewer email. A single OR query deduplicates by primary key.
func (s *GormBookingStore) ListByFaculty(facultyID, facultyEmail string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.
		Where("faculty = ? OR faculty_email = ?", facultyID, facultyEmail).
		Order("submitted_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, classifyStoreError(err)
	}
	return bookings, nil
}

func (s *GormBookingStore) UpdateFields(docID uuid.UUID, version int, fields map[string]interface{}) error {
	result := s.db.Model(&models.Booking{}).
		Where("doc_id = ? AND version = ?", docID, version).
		Updates(fields)
	if result.Error != nil {
		return classifyStoreError(result.Error)
	}
	if result.RowsAffected == 0 {
		// Either the row is gone or someone got in between our read and
		// this write; tell them apart so the caller can retry the latter.
		var count int64
		if err := s.db.Model(&models.Booking{}).Where("doc_id = ?", docID).Count(&count).Error; err != nil {
			return classifyStoreError(err)
		}
		if count == 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, docID)
		}
		return ErrVersionConflict
	}
	return nil
}

func (s *GormBookingStore) Replace(booking *models.Booking) error {
	if err := s.db.Save(booking).Error; err != nil {
		return classifyStoreError(err)
	}
	return nil
}

func (s *GormBookingStore) DeleteAll() (int64, error) {
	result := s.db.Where("1 = 1").Delete(&models.Booking{})
	if result.Error != nil {
		return 0, classifyStoreError(result.Error)
	}
	return result.RowsAffected, nil
}

// classifyStoreError maps Postgres privilege failures onto
// ErrPermissionDenied so the service layer can apply its fallback policy.
func classifyStoreError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "42501", "25006": // insufficient_privilege, read_only_sql_transaction
			return fmt.Errorf("%w: %s", ErrPermissionDenied, pgErr.Message)
		}
	}
	return err
}

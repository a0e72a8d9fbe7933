package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/tandon-kartikeya/cleanroom-bphc/database"
	"github.com/tandon-kartikeya/cleanroom-bphc/models"
	"github.com/tandon-kartikeya/cleanroom-bphc/notifications"
)

// How long a request may sit with faculty before we nudge the reviewer.
const reviewReminderAge = 48 * time.Hour

func SendPendingReviewReminders() {
	log.Println("Running job: SendPendingReviewReminders...")

	cutoff := time.Now().UTC().Add(-reviewReminderAge)

	var staleBookings []models.Booking
	err := database.DB.
		Where("status IN ? AND submitted_at < ? AND faculty_email <> ''",
			[]string{models.StatusPendingFaculty, models.LegacyStatusPending}, cutoff).
		Find(&staleBookings).Error
	if err != nil {
		log.Printf("Error checking for stale booking requests: %v", err)
		return
	}

	if len(staleBookings) == 0 {
		return
	}

	for _, booking := range staleBookings {
		emailSubject := "Reminder: Cleanroom Booking Awaiting Your Review"
		emailBody := fmt.Sprintf(
			"<h1>Pending Review</h1><p>Booking <b>%s</b> from %s has been waiting for your review since %s.</p>",
			booking.ID,
			booking.Name,
			booking.SubmittedAt.Format("Jan 02, 2006"),
		)

		go notifications.SendEmail("", booking.FacultyEmail, emailSubject, emailBody)
	}
}

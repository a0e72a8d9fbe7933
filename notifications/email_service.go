package notifications

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	config "github.com/tandon-kartikeya/cleanroom-bphc/configs"
	"github.com/tandon-kartikeya/cleanroom-bphc/models"
)

type BrevoService struct {
	APIKey      string
	SenderEmail string
	SenderName  string
}

var EmailClient *BrevoService

type brevoPayload struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

func InitEmailService() {
	apiKey := config.Config("BREVO_API_KEY")
	senderEmail := config.Config("EMAIL_SENDER")
	senderName := config.Config("EMAIL_SENDER_NAME")

	if apiKey == "" || senderEmail == "" || senderName == "" {
		log.Println("⚠️ Email service not configured. Missing API Key, Sender Email, or Sender Name.")
		EmailClient = nil
		return
	}

	EmailClient = &BrevoService{
		APIKey:      apiKey,
		SenderEmail: senderEmail,
		SenderName:  senderName,
	}
	log.Println("✅ Email service initialized successfully.")
}

func (s *BrevoService) send(toEmail, toName, subject, htmlContent string) error {
	url := "https://api.brevo.com/v3/smtp/email"

	if toEmail == "" || !strings.Contains(toEmail, "@") {
		return fmt.Errorf("invalid recipient email: %s", toEmail)
	}

	recipientName := toName
	if recipientName == "" {
		recipientName = toEmail[:strings.Index(toEmail, "@")]
	}

	payload := brevoPayload{
		Sender:      map[string]string{"name": s.SenderName, "email": s.SenderEmail},
		To:          []map[string]string{{"email": toEmail, "name": recipientName}},
		Subject:     subject,
		HTMLContent: htmlContent,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %v", err)
	}

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}

	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", s.APIKey)
	req.Header.Set("content-type", "application/json")

	client := &http.Client{
		Timeout: 10 * time.Second,
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated {
		log.Printf("Brevo API error: Status %d, Body: %s", resp.StatusCode, string(bodyBytes))
		return fmt.Errorf("failed to send email via Brevo: %s", string(bodyBytes))
	}

	return nil
}

func SendEmail(toName, toEmail, subject, htmlContent string) {
	if EmailClient == nil {
		log.Println("Email client not initialized, skipping email send.")
		return
	}

	err := EmailClient.send(toEmail, toName, subject, htmlContent)
	if err != nil {
		log.Printf("🔥 Failed to send email to %s: %v", toEmail, err)
		return
	}

	log.Printf("✅ Email sent successfully to %s", toEmail)
}

// NotifyDecision mails the requester whenever a reviewer decides their
// booking, and copies the assigned faculty once the admin makes the final
// call.
func NotifyDecision(booking *models.Booking, actorRole string) {
	if booking.StudentEmail == "" {
		return
	}

	var subject, body string
	switch booking.Status {
	case models.StatusPendingAdmin:
		subject = fmt.Sprintf("Booking %s: Faculty Approved", booking.ID)
		body = fmt.Sprintf("<h1>Faculty Approval</h1><p>Your cleanroom booking <b>%s</b> was approved by faculty and is now awaiting admin scheduling.</p>", booking.ID)
	case models.StatusApproved:
		subject = fmt.Sprintf("Booking %s: Approved", booking.ID)
		body = fmt.Sprintf(
			"<h1>Booking Approved</h1><p>Your cleanroom booking <b>%s</b> has been approved.</p><p><b>Date:</b> %s<br/><b>Time:</b> %s – %s</p>",
			booking.ID, booking.ActualDate, booking.ActualTimeRange.Start, booking.ActualTimeRange.End,
		)
	case models.StatusRejected:
		subject = fmt.Sprintf("Booking %s: Rejected", booking.ID)
		reason := booking.AdminRejectionReason
		if reason == "" {
			reason = booking.FacultyRejectionReason
		}
		if reason == "" {
			reason = booking.RejectionReason
		}
		body = fmt.Sprintf("<h1>Booking Rejected</h1><p>Your cleanroom booking <b>%s</b> was rejected.</p><p><b>Reason:</b> %s</p>", booking.ID, reason)
	default:
		return
	}

	go SendEmail(booking.Name, booking.StudentEmail, subject, body)

	if actorRole == models.RoleAdmin && booking.FacultyEmail != "" {
		go SendEmail("", booking.FacultyEmail, subject,
			fmt.Sprintf("<h1>Booking Update</h1><p>Booking <b>%s</b> you reviewed is now <b>%s</b>.</p>", booking.ID, booking.Status))
	}
}

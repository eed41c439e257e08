package notification

import (
	"barberbook/internal/domain/entity"
	"fmt"
	"html"
	"strings"
	"time"
)

// TimeLayout is how appointment times appear in notifications.
const TimeLayout = "02.01.2006 15:04"

// Kind identifies what a notification is about. Used in logs.
type Kind string

const (
	KindNewAppointment Kind = "new_appointment"
	KindCancellation   Kind = "cancellation"
	KindReminder       Kind = "reminder"
	KindNewReview      Kind = "new_review"
)

// Message is one notification rendered for every channel. Empty content
// skips the channel.
type Message struct {
	Kind      Kind
	Subject   string
	EmailHTML string
	ChatText  string
	SMSText   string
}

func formatTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(TimeLayout)
}

func field(label, value string) string {
	return fmt.Sprintf("<p><strong>%s:</strong> %s</p>\n", label, html.EscapeString(value))
}

// NewAppointmentMessage tells the admin about a fresh booking.
func NewAppointmentMessage(a *entity.Appointment, loc *time.Location) Message {
	when := formatTime(a.StartsAt, loc)

	var b strings.Builder
	b.WriteString("<h2>New appointment</h2>\n")
	b.WriteString(field("Customer", a.Name))
	b.WriteString(field("Phone", a.Phone))
	if a.Email != "" {
		b.WriteString(field("Email", a.Email))
	}
	b.WriteString(field("Date", when))
	if !a.CreatedAt.IsZero() {
		b.WriteString(field("Booked at", formatTime(a.CreatedAt, loc)))
	}

	return Message{
		Kind:      KindNewAppointment,
		Subject:   "New appointment",
		EmailHTML: b.String(),
		ChatText:  fmt.Sprintf("New appointment!\nCustomer: %s\nPhone: %s\nDate: %s\nCall now: %s", a.Name, a.Phone, when, a.Phone),
		SMSText:   fmt.Sprintf("New appointment!\nCustomer: %s\nTel: %s\nDate: %s", a.Name, a.Phone, when),
	}
}

// CancellationMessage tells the customer the appointment was cancelled.
// It is not sent by SMS.
func CancellationMessage(a *entity.Appointment, reason string, loc *time.Location) Message {
	when := formatTime(a.StartsAt, loc)
	if reason == "" {
		reason = "not specified"
	}

	var b strings.Builder
	b.WriteString("<h2>Appointment cancelled</h2>\n")
	fmt.Fprintf(&b, "<p>Hello <strong>%s</strong>,</p>\n", html.EscapeString(a.Name))
	b.WriteString(field("Your appointment was cancelled", when))
	b.WriteString(field("Reason", reason))
	b.WriteString("<p>Please visit our website to book a new appointment.</p>\n")
	b.WriteString("<p>Thank you for your understanding.</p>\n")

	return Message{
		Kind:      KindCancellation,
		Subject:   "Appointment cancelled",
		EmailHTML: b.String(),
		ChatText:  fmt.Sprintf("Hello %s! Your appointment on %s was cancelled.\nReason: %s\nVisit our website to book a new one.", a.Name, when, reason),
	}
}

// ReminderMessage reminds the customer of an upcoming appointment.
func ReminderMessage(a *entity.Appointment, lead time.Duration, loc *time.Location) Message {
	when := formatTime(a.StartsAt, loc)
	left := humanDuration(lead)

	var b strings.Builder
	b.WriteString("<h2>Appointment reminder</h2>\n")
	fmt.Fprintf(&b, "<p>Hello <strong>%s</strong>,</p>\n", html.EscapeString(a.Name))
	b.WriteString(field("Your appointment", when))
	b.WriteString(field("Reminder", left+" to go!"))
	b.WriteString("<p>Please be on time.</p>\n")
	b.WriteString("<p><em>To cancel your appointment please give us a call.</em></p>\n")

	return Message{
		Kind:      KindReminder,
		Subject:   "Barber appointment reminder",
		EmailHTML: b.String(),
		ChatText:  fmt.Sprintf("Hello %s! Your appointment is on %s, %s from now. Please be on time!", a.Name, when, left),
		SMSText:   fmt.Sprintf("Hello %s! Your appointment is on %s. Please be on time.", a.Name, when),
	}
}

// NewReviewMessage asks the admin to moderate a review. Email only.
func NewReviewMessage(r *entity.Review) Message {
	var b strings.Builder
	b.WriteString("<h2>New review</h2>\n")
	b.WriteString(field("Name", r.Name))
	b.WriteString(field("Rating", strings.Repeat("★", r.Rating)+fmt.Sprintf(" (%d/5)", r.Rating)))
	b.WriteString(field("Comment", r.Comment))
	b.WriteString("<p>Approve or reject it from the admin panel.</p>\n")

	return Message{
		Kind:      KindNewReview,
		Subject:   "New review awaiting approval",
		EmailHTML: b.String(),
	}
}

func humanDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "a moment"
	case d%time.Hour == 0:
		if h := int(d / time.Hour); h != 1 {
			return fmt.Sprintf("%d hours", h)
		}
		return "1 hour"
	default:
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	}
}

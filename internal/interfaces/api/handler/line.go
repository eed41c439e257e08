package handler

import (
	"barberbook/internal/application/dto"
	"barberbook/internal/application/notification"
	"barberbook/internal/application/service"
	"barberbook/internal/domain/constant"
	"barberbook/internal/infrastructure/line"
	appErrors "barberbook/internal/pkg/errors"
	"barberbook/internal/pkg/logger"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/line/line-bot-sdk-go/v7/linebot"
)

const lineHelpText = `Commands:
today - today's appointments
slots [YYYY-MM-DD] - free and booked slots
cancel <id> [reason] - cancel an appointment
jobs - pending reminders
help - this message`

// LineHandler serves the LINE webhook as a chat console for the admin.
type LineHandler struct {
	lineClient         *line.Client
	appointmentService service.AppointmentService
	schedulerService   service.SchedulerService
	adminUserID        string
	loc                *time.Location
	now                func() time.Time
	log                logger.Logger
}

// NewLineHandler creates a new LineHandler. Only adminUserID may run commands.
func NewLineHandler(
	lineClient *line.Client,
	appointmentService service.AppointmentService,
	schedulerService service.SchedulerService,
	adminUserID string,
	loc *time.Location,
	log logger.Logger,
) *LineHandler {
	if loc == nil {
		loc = time.Local
	}
	return &LineHandler{
		lineClient:         lineClient,
		appointmentService: appointmentService,
		schedulerService:   schedulerService,
		adminUserID:        adminUserID,
		loc:                loc,
		now:                time.Now,
		log:                log,
	}
}

// HandleWebhook is the main entry point for webhook requests.
func (h *LineHandler) HandleWebhook(c echo.Context) error {
	ctx := c.Request().Context()
	events, err := h.lineClient.ParseRequest(c.Request())
	if err != nil {
		if errors.Is(err, linebot.ErrInvalidSignature) {
			h.log.Warn("Invalid LINE signature received")
			return c.String(http.StatusBadRequest, "Invalid signature")
		}
		h.log.Error("Failed to parse LINE webhook request", err)
		return c.String(http.StatusInternalServerError, "Error parsing request")
	}

	for _, event := range events {
		h.log.Debug(fmt.Sprintf("Processing event type: %s", event.Type))
		switch event.Type {
		case linebot.EventTypeMessage:
			h.handleMessageEvent(ctx, event)
		case linebot.EventTypeFollow:
			h.handleFollowEvent(ctx, event)
		default:
			h.log.Debug(fmt.Sprintf("Unhandled event type: %s", event.Type))
		}
	}

	return c.String(http.StatusOK, "OK")
}

// handleFollowEvent greets the follower and tells the admin who it was.
func (h *LineHandler) handleFollowEvent(ctx context.Context, event *linebot.Event) {
	userID := event.Source.UserID
	h.log.Info(fmt.Sprintf("User %s followed the bot.", userID))

	welcome := "Thanks for following! Book your appointment on our website. Booking confirmations and reminders are sent by email and WhatsApp."
	if userID == h.adminUserID {
		welcome = "Admin console ready.\n" + lineHelpText
	}
	h.reply(ctx, event.ReplyToken, linebot.NewTextMessage(welcome))

	if h.adminUserID == "" || userID == h.adminUserID {
		return
	}
	notice := fmt.Sprintf("User (ID: %s) followed the bot.", userID)
	if name := h.lineClient.DisplayName(ctx, userID); name != "" {
		notice = fmt.Sprintf("User %q (ID: %s) followed the bot.", name, userID)
	}
	if err := h.lineClient.PushMessages(ctx, h.adminUserID, linebot.NewTextMessage(notice)); err != nil {
		h.log.Error(fmt.Sprintf("Failed to send follow notification to admin for follower %s", userID), err)
	}
}

// handleMessageEvent runs admin commands sent as text messages.
func (h *LineHandler) handleMessageEvent(ctx context.Context, event *linebot.Event) {
	message, ok := event.Message.(*linebot.TextMessage)
	if !ok {
		h.reply(ctx, event.ReplyToken, linebot.NewTextMessage("Please send a text command.\n"+lineHelpText))
		return
	}

	userID := event.Source.UserID
	if h.adminUserID == "" || userID != h.adminUserID {
		h.log.Info(fmt.Sprintf("Ignoring command from non-admin user %s", userID))
		h.reply(ctx, event.ReplyToken, linebot.NewTextMessage("Sorry, this chat only answers the shop owner. Please book on our website."))
		return
	}

	fields := strings.Fields(message.Text)
	if len(fields) == 0 {
		h.sendHelp(ctx, event.ReplyToken)
		return
	}

	var text string
	switch strings.ToLower(fields[0]) {
	case "today":
		text = h.todayText(ctx)
	case "slots":
		date := h.now().In(h.loc).Format("2006-01-02")
		if len(fields) > 1 {
			date = fields[1]
		}
		text = h.slotsText(ctx, date)
	case "cancel":
		if len(fields) < 2 {
			text = "Usage: cancel <id> [reason]"
			break
		}
		text = h.cancelText(ctx, fields[1], strings.Join(fields[2:], " "))
	case "jobs":
		text = h.jobsText()
	default:
		h.sendHelp(ctx, event.ReplyToken)
		return
	}
	h.reply(ctx, event.ReplyToken, linebot.NewTextMessage(text))
}

func (h *LineHandler) sendHelp(ctx context.Context, replyToken string) {
	quickReply := linebot.NewQuickReplyItems(
		linebot.NewQuickReplyButton("", linebot.NewMessageAction("today", "today")),
		linebot.NewQuickReplyButton("", linebot.NewMessageAction("slots", "slots")),
		linebot.NewQuickReplyButton("", linebot.NewMessageAction("jobs", "jobs")),
	)
	h.reply(ctx, replyToken, linebot.NewTextMessage(lineHelpText).WithQuickReplies(quickReply))
}

func (h *LineHandler) todayText(ctx context.Context) string {
	today := h.now().In(h.loc).Format("2006-01-02")
	appointments, err := h.appointmentService.ListAppointments(ctx, dto.ListAppointmentsRequest{
		StartDate: today,
		EndDate:   today,
		Status:    string(constant.AppointmentConfirmed),
	})
	if err != nil {
		h.log.Error("Failed to list today's appointments for LINE console", err)
		return "Could not load today's appointments."
	}
	if len(appointments) == 0 {
		return "No appointments today."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Today (%d):", len(appointments))
	for _, a := range appointments {
		fmt.Fprintf(&b, "\n%s %s %s\nID: %s", a.StartsAt.In(h.loc).Format("15:04"), a.Name, a.Phone, a.ID)
	}
	return b.String()
}

func (h *LineHandler) slotsText(ctx context.Context, date string) string {
	availability, err := h.appointmentService.AvailableSlots(ctx, date)
	if err != nil {
		h.log.Error(fmt.Sprintf("Failed to load slots for %s", date), err)
		return "Could not load slots."
	}
	return fmt.Sprintf("%s\nFree: %s\nBooked: %s", date, joinOrDash(availability.AvailableSlots), joinOrDash(availability.BookedSlots))
}

func (h *LineHandler) cancelText(ctx context.Context, id, reason string) string {
	appointment, err := h.appointmentService.CancelAppointment(ctx, id, reason)
	if err != nil {
		if errors.Is(err, appErrors.ErrAppointmentNotFound) {
			return fmt.Sprintf("Appointment %s not found.", id)
		}
		h.log.Error(fmt.Sprintf("Failed to cancel appointment %s from LINE console", id), err)
		return "Could not cancel the appointment."
	}
	return fmt.Sprintf("Cancelled %s (%s). The customer has been notified.",
		appointment.Name, appointment.StartsAt.In(h.loc).Format(notification.TimeLayout))
}

func (h *LineHandler) jobsText() string {
	jobs := h.schedulerService.List()
	if len(jobs) == 0 {
		return "No pending reminders."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Pending reminders (%d):", len(jobs))
	for _, j := range jobs {
		fmt.Fprintf(&b, "\n%s %s", j.FireAt.In(h.loc).Format(notification.TimeLayout), j.AppointmentID)
	}
	return b.String()
}

func (h *LineHandler) reply(ctx context.Context, replyToken string, messages ...linebot.SendingMessage) {
	if err := h.lineClient.SendMessages(ctx, replyToken, messages...); err != nil {
		h.log.Error("Failed to send LINE reply", err)
	}
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}

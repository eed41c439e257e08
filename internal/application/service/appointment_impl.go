package service

import (
	"barberbook/internal/application/dto"
	"barberbook/internal/application/notification"
	"barberbook/internal/domain/calendar"
	"barberbook/internal/domain/constant"
	"barberbook/internal/domain/entity"
	"barberbook/internal/domain/repository"
	"barberbook/internal/infrastructure/lock"
	appErrors "barberbook/internal/pkg/errors"
	"barberbook/internal/pkg/logger"
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

// AppointmentOptions carries the tunables of the booking workflow.
type AppointmentOptions struct {
	MinSeparation time.Duration
	ReminderLead  time.Duration
	// Admin is where new-booking notifications go.
	Admin notification.Recipient
}

type appointmentService struct {
	appointmentRepo  repository.AppointmentRepository
	schedulerSvc     SchedulerService
	calendar         *calendar.Calendar
	locker           lock.Locker
	adminNotifier    Notifier
	customerNotifier Notifier
	opts             AppointmentOptions
	now              func() time.Time
	log              logger.Logger
}

// NewAppointmentService creates a new instance of AppointmentService implementation
// and installs its reminder handler on the scheduler.
func NewAppointmentService(
	appointmentRepo repository.AppointmentRepository,
	schedulerSvc SchedulerService,
	cal *calendar.Calendar,
	locker lock.Locker,
	adminNotifier Notifier,
	customerNotifier Notifier,
	opts AppointmentOptions,
	log logger.Logger,
) AppointmentService {
	if opts.MinSeparation <= 0 {
		opts.MinSeparation = calendar.DefaultMinSeparation
	}
	if opts.ReminderLead <= 0 {
		opts.ReminderLead = DefaultReminderLead
	}
	s := &appointmentService{
		appointmentRepo:  appointmentRepo,
		schedulerSvc:     schedulerSvc,
		calendar:         cal,
		locker:           locker,
		adminNotifier:    adminNotifier,
		customerNotifier: customerNotifier,
		opts:             opts,
		now:              time.Now,
		log:              log,
	}
	schedulerSvc.SetReminderHandler(s.HandleReminderNotification)
	log.Info("Reminder handler set for SchedulerService.")
	return s
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(errors.Unwrap(err), gorm.ErrRecordNotFound)
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// BookAppointment runs the booking workflow.
func (s *appointmentService) BookAppointment(ctx context.Context, req dto.CreateAppointmentRequest) (resp *dto.BookingResponse, err error) {
	ctx, span := tracer.Start(ctx, "appointment.Book")
	defer func() { endSpan(span, err) }()

	name := strings.TrimSpace(req.Name)
	phone := stripSpaces(req.Phone)
	email := strings.TrimSpace(req.Email)
	date := strings.TrimSpace(req.Date)
	if name == "" || phone == "" || date == "" {
		return nil, fmt.Errorf("%w: name, phone and date are required", appErrors.ErrValidation)
	}

	startsAt, err := calendar.ParseStart(date, s.calendar.Location())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErrors.ErrValidation, err)
	}
	if email != "" {
		addr, err := mail.ParseAddress(email)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid email %q", appErrors.ErrValidation, email)
		}
		// Keep the bare address; a display name would break RCPT TO.
		email = addr.Address
	}
	startsAt = startsAt.Truncate(time.Second)
	if startsAt.Before(s.now()) {
		return nil, appErrors.ErrPastDate
	}

	appointment := &entity.Appointment{
		Name:                  name,
		Phone:                 phone,
		Email:                 email,
		StartsAt:              startsAt,
		Status:                constant.AppointmentConfirmed,
		NotificationScheduled: true,
	}
	if err := s.reserve(ctx, appointment); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("appointment.id", appointment.ID))
	s.log.Info(fmt.Sprintf("Booked appointment %s for %s at %s", appointment.ID, appointment.Name, appointment.StartsAt.Format(time.RFC3339)))

	admin := *appointment
	go s.notify(context.WithoutCancel(ctx), s.adminNotifier, notification.NewAppointmentMessage(&admin, s.calendar.Location()), s.opts.Admin)

	resp = &dto.BookingResponse{Appointment: appointment}
	handle, err := s.schedulerSvc.ScheduleReminder(ctx, appointment.ID, appointment.StartsAt)
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to schedule reminder for appointment %s", appointment.ID), err)
		resp.ReminderNote = "The reminder could not be scheduled"
		return resp, nil
	}
	resp.ReminderAt = &handle.FireAt
	resp.ReminderNote = fmt.Sprintf("A reminder will be sent at %s", handle.FireAt.In(s.calendar.Location()).Format(notification.TimeLayout))
	return resp, nil
}

// reserve checks for conflicts and persists the appointment under the booking lock.
func (s *appointmentService) reserve(ctx context.Context, appointment *entity.Appointment) error {
	release, err := s.locker.Lock(ctx)
	if err != nil {
		s.log.Error("Failed to acquire booking lock", err)
		return fmt.Errorf("%w: %v", appErrors.ErrInternalServer, err)
	}
	defer release()

	from, to := calendar.ConflictWindow(appointment.StartsAt, s.opts.MinSeparation)
	nearby, err := s.appointmentRepo.Find(ctx, repository.AppointmentFilter{
		From:   &from,
		To:     &to,
		Status: constant.AppointmentConfirmed,
	})
	if err != nil {
		s.log.Error("Failed to load appointments for conflict check", err)
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}

	if calendar.HasConflict(appointment.StartsAt, nearby, s.opts.MinSeparation) {
		conflict := &appErrors.SlotConflictError{Requested: appointment.StartsAt.In(s.calendar.Location())}
		if avail, err := s.availability(ctx, appointment.StartsAt); err == nil {
			conflict.AvailableSlots = avail.Available
		} else {
			s.log.Warn(fmt.Sprintf("Could not compute free slots for conflict response: %v", err))
		}
		s.log.Info(fmt.Sprintf("Rejected booking at %s: slot conflict", appointment.StartsAt.Format(time.RFC3339)))
		return conflict
	}

	if err := s.appointmentRepo.Create(ctx, appointment); err != nil {
		s.log.Error("Failed to create appointment", err)
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	return nil
}

// notify delivers msg and only logs failures.
func (s *appointmentService) notify(ctx context.Context, n Notifier, msg notification.Message, to notification.Recipient) {
	if err := n.Notify(ctx, msg, to); err != nil {
		s.log.Warn(fmt.Sprintf("Notification %s partly failed: %v", msg.Kind, err))
	}
}

func customerOf(a *entity.Appointment) notification.Recipient {
	return notification.Recipient{Email: a.Email, Chat: a.Phone, Phone: a.Phone}
}

// CancelAppointment runs the cancellation workflow. Cancelling an already
// cancelled appointment updates the reason and notifies again.
func (s *appointmentService) CancelAppointment(ctx context.Context, id, reason string) (_ *entity.Appointment, err error) {
	ctx, span := tracer.Start(ctx, "appointment.Cancel", trace.WithAttributes(attribute.String("appointment.id", id)))
	defer func() { endSpan(span, err) }()

	if _, err := s.GetAppointment(ctx, id); err != nil {
		return nil, err
	}

	if s.schedulerSvc.CancelReminder(ctx, id) {
		s.log.Debug(fmt.Sprintf("Dropped pending reminder of appointment %s", id))
	}

	reason = strings.TrimSpace(reason)
	updated, err := s.appointmentRepo.UpdateStatus(ctx, id, constant.AppointmentCancelled, reason)
	if err != nil {
		if isNotFound(err) {
			return nil, appErrors.ErrAppointmentNotFound
		}
		s.log.Error(fmt.Sprintf("Failed to cancel appointment %s", id), err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	s.log.Info(fmt.Sprintf("Cancelled appointment %s", id))

	customer := *updated
	go s.notify(context.WithoutCancel(ctx), s.customerNotifier,
		notification.CancellationMessage(&customer, reason, s.calendar.Location()), customerOf(&customer))
	return updated, nil
}

// DeleteAppointment removes an appointment and its pending reminder.
func (s *appointmentService) DeleteAppointment(ctx context.Context, id string) error {
	if _, err := s.GetAppointment(ctx, id); err != nil {
		return err
	}

	s.schedulerSvc.CancelReminder(ctx, id)

	deleted, err := s.appointmentRepo.Delete(ctx, id)
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to delete appointment %s", id), err)
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	if !deleted {
		return appErrors.ErrAppointmentNotFound
	}
	s.log.Info(fmt.Sprintf("Deleted appointment %s", id))
	return nil
}

// GetAppointment retrieves an appointment by its ID.
func (s *appointmentService) GetAppointment(ctx context.Context, id string) (*entity.Appointment, error) {
	appointment, err := s.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, appErrors.ErrAppointmentNotFound
		}
		s.log.Error(fmt.Sprintf("Failed to get appointment %s", id), err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	return appointment, nil
}

// ListAppointments returns appointments matching the request.
func (s *appointmentService) ListAppointments(ctx context.Context, req dto.ListAppointmentsRequest) ([]*entity.Appointment, error) {
	var filter repository.AppointmentFilter
	loc := s.calendar.Location()

	if req.StartDate != "" {
		day, ok := calendar.ParseDay(req.StartDate, loc)
		if !ok {
			return nil, fmt.Errorf("%w: invalid startDate %q", appErrors.ErrValidation, req.StartDate)
		}
		from, _ := s.calendar.DayBounds(day)
		filter.From = &from
	}
	if req.EndDate != "" {
		day, ok := calendar.ParseDay(req.EndDate, loc)
		if !ok {
			return nil, fmt.Errorf("%w: invalid endDate %q", appErrors.ErrValidation, req.EndDate)
		}
		_, to := s.calendar.DayBounds(day)
		filter.To = &to
	}
	if req.Status != "" {
		status := constant.AppointmentStatus(req.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: invalid status %q", appErrors.ErrValidation, req.Status)
		}
		filter.Status = status
	}

	appointments, err := s.appointmentRepo.Find(ctx, filter)
	if err != nil {
		s.log.Error("Failed to list appointments", err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	return appointments, nil
}

// availability loads the confirmed appointments of day and computes its slots.
func (s *appointmentService) availability(ctx context.Context, day time.Time) (calendar.Availability, error) {
	start, end := s.calendar.DayBounds(day)
	appointments, err := s.appointmentRepo.Find(ctx, repository.AppointmentFilter{
		From:   &start,
		To:     &end,
		Status: constant.AppointmentConfirmed,
	})
	if err != nil {
		return calendar.Availability{}, err
	}
	return s.calendar.Availability(day, appointments), nil
}

// AvailableSlots returns the slot view of date.
func (s *appointmentService) AvailableSlots(ctx context.Context, date string) (*dto.AvailabilityResponse, error) {
	day, ok := calendar.ParseDay(strings.TrimSpace(date), s.calendar.Location())
	if !ok {
		all := s.calendar.Slots()
		return &dto.AvailabilityResponse{AvailableSlots: all, BookedSlots: []string{}, AllSlots: s.calendar.Slots()}, nil
	}

	avail, err := s.availability(ctx, day)
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to load appointments for %s", date), err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	return &dto.AvailabilityResponse{
		Date:           day.Format("2006-01-02"),
		AvailableSlots: avail.Available,
		BookedSlots:    avail.Booked,
		AllSlots:       avail.All,
	}, nil
}

// CountAppointments counts the confirmed appointments of date.
func (s *appointmentService) CountAppointments(ctx context.Context, date string) (int64, error) {
	day, ok := calendar.ParseDay(strings.TrimSpace(date), s.calendar.Location())
	if !ok {
		return 0, nil
	}
	start, end := s.calendar.DayBounds(day)
	count, err := s.appointmentRepo.Count(ctx, repository.AppointmentFilter{
		From:   &start,
		To:     &end,
		Status: constant.AppointmentConfirmed,
	})
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to count appointments for %s", date), err)
		return 0, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	return count, nil
}

// HandleReminderNotification re-reads the appointment and reminds the
// customer. Deleted or cancelled appointments are skipped silently.
func (s *appointmentService) HandleReminderNotification(ctx context.Context, appointmentID string) (err error) {
	ctx, span := tracer.Start(ctx, "appointment.Remind", trace.WithAttributes(attribute.String("appointment.id", appointmentID)))
	defer func() { endSpan(span, err) }()

	s.log.Info(fmt.Sprintf("Handling reminder for appointment %s", appointmentID))
	appointment, err := s.appointmentRepo.FindByID(ctx, appointmentID)
	if err != nil {
		if isNotFound(err) {
			s.log.Warn(fmt.Sprintf("Appointment %s not found during reminder handling (already deleted?)", appointmentID))
			return nil
		}
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	if appointment.IsCancelled() {
		s.log.Info(fmt.Sprintf("Appointment %s was cancelled, skipping reminder", appointmentID))
		return nil
	}

	msg := notification.ReminderMessage(appointment, s.opts.ReminderLead, s.calendar.Location())
	return s.customerNotifier.Notify(ctx, msg, customerOf(appointment))
}

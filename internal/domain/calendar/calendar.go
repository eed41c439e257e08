// Package calendar holds the pure time arithmetic of a single-chair booking
// day: which slots are free and whether a proposed start collides with an
// existing appointment.
package calendar

import (
	"barberbook/internal/domain/constant"
	"barberbook/internal/domain/entity"
	"fmt"
	"sort"
	"time"
)

const slotLayout = "15:04"

// Calendar is a fixed ordered list of bookable times of day in one location.
type Calendar struct {
	slots []string
	loc   *time.Location
}

// Availability is the slot view of one day.
type Availability struct {
	Available []string `json:"availableSlots"`
	Booked    []string `json:"bookedSlots"`
	All       []string `json:"allSlots"`
}

// New validates slots ("HH:MM") and returns a calendar. A nil location means UTC.
func New(slots []string, loc *time.Location) (*Calendar, error) {
	if len(slots) == 0 {
		return nil, fmt.Errorf("calendar needs at least one slot")
	}
	if loc == nil {
		loc = time.UTC
	}
	seen := make(map[string]struct{}, len(slots))
	for _, s := range slots {
		if _, err := time.Parse(slotLayout, s); err != nil || len(s) != len(slotLayout) {
			return nil, fmt.Errorf("invalid slot %q: want HH:MM", s)
		}
		if _, dup := seen[s]; dup {
			return nil, fmt.Errorf("duplicate slot %q", s)
		}
		seen[s] = struct{}{}
	}
	return &Calendar{slots: append([]string(nil), slots...), loc: loc}, nil
}

// Location returns the calendar's fixed location.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// Slots returns a copy of the slot list.
func (c *Calendar) Slots() []string {
	return append([]string(nil), c.slots...)
}

// DayBounds returns 00:00:00.000 and 23:59:59.999 of day's date in the
// calendar location. Both ends are inclusive.
func (c *Calendar) DayBounds(day time.Time) (time.Time, time.Time) {
	d := day.In(c.loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, c.loc)
	end := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, int(999*time.Millisecond), c.loc)
	return start, end
}

// SlotOf renders t as a time of day in the calendar location.
func (c *Calendar) SlotOf(t time.Time) string {
	return t.In(c.loc).Format(slotLayout)
}

// Availability computes the free slots of day. Only confirmed appointments
// that start inside the day bounds count. Available keeps slot order; Booked
// is sorted and may contain times that are not slots (off-grid bookings).
func (c *Calendar) Availability(day time.Time, appointments []*entity.Appointment) Availability {
	start, end := c.DayBounds(day)

	booked := make(map[string]struct{})
	for _, a := range appointments {
		if a == nil || a.Status != constant.AppointmentConfirmed {
			continue
		}
		if a.StartsAt.Before(start) || a.StartsAt.After(end) {
			continue
		}
		booked[c.SlotOf(a.StartsAt)] = struct{}{}
	}

	available := make([]string, 0, len(c.slots))
	for _, s := range c.slots {
		if _, ok := booked[s]; !ok {
			available = append(available, s)
		}
	}

	bookedList := make([]string, 0, len(booked))
	for s := range booked {
		bookedList = append(bookedList, s)
	}
	sort.Strings(bookedList)

	return Availability{
		Available: available,
		Booked:    bookedList,
		All:       c.Slots(),
	}
}

// ParseDay parses a calendar day ("2006-01-02" or RFC 3339) in loc.
// ok is false for anything else.
func ParseDay(s string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), true
	}
	return time.Time{}, false
}

// ParseStart parses an appointment start time. Inputs without an offset are
// read in loc.
func ParseStart(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04:05", "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

package constant

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	// AppointmentConfirmed is the state of every newly booked appointment.
	AppointmentConfirmed AppointmentStatus = "confirmed"
	// AppointmentCancelled is terminal; cancelled appointments never block a slot.
	AppointmentCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) String() string {
	return string(s)
}

// Valid reports whether s is a known appointment status.
func (s AppointmentStatus) Valid() bool {
	return s == AppointmentConfirmed || s == AppointmentCancelled
}

// ReviewStatus is the moderation state of a review.
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

func (s ReviewStatus) String() string {
	return string(s)
}

// Valid reports whether s is a known review status.
func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewPending, ReviewApproved, ReviewRejected:
		return true
	}
	return false
}

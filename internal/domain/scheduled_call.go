package domain

import "time"

// CallStatus enumerates scheduled-call states owned by the scheduling system.
type CallStatus string

const (
	CallStatusScheduled CallStatus = "Scheduled"
	CallStatusCompleted CallStatus = "Completed"
	CallStatusCancelled CallStatus = "Cancelled"
)

// ScheduledCall is a class call between a student and a teacher. The support
// workflow only reads these records to route tickets.
type ScheduledCall struct {
	ID        string
	StudentID string
	TeacherID string
	Date      time.Time
	Status    CallStatus
}

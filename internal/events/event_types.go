package events

import (
	"time"

	"github.com/tutorwave/lms-support/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketRaised EventType = "ticket_raised"
	EventTicketRated  EventType = "ticket_rated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketRaisedPayload carries the created ticket and its requester so
// subscribers can fan out without re-reading storage.
type TicketRaisedPayload struct {
	Ticket    *domain.Ticket
	Requester *domain.User
}

// TicketRatedPayload carries the rated ticket and its requester.
type TicketRatedPayload struct {
	Ticket    *domain.Ticket
	Requester *domain.User
	Rating    int
}

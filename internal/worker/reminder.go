package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tutorwave/lms-support/internal/domain"
	"github.com/tutorwave/lms-support/internal/mail"
)

const reminderSendTimeout = 30 * time.Second

// ReminderScheduler sends a delayed confirmation email to the requester after
// a ticket is raised. Scheduling is fire-and-forget: timers live in process
// memory, so pending reminders are lost on restart, and send failures are
// logged without retry.
type ReminderScheduler struct {
	sender  mail.Sender
	baseURL string
	delay   time.Duration
	logger  *zap.Logger

	after func(time.Duration, func()) // swapped out in tests
}

// NewReminderScheduler builds a scheduler firing after the given delay.
func NewReminderScheduler(sender mail.Sender, baseURL string, delay time.Duration, logger *zap.Logger) *ReminderScheduler {
	if delay <= 0 {
		delay = time.Minute
	}
	s := &ReminderScheduler{
		sender:  sender,
		baseURL: baseURL,
		delay:   delay,
		logger:  logger,
	}
	s.after = func(d time.Duration, fn func()) {
		time.AfterFunc(d, fn)
	}
	return s
}

// Schedule queues the confirmation email for the requester. It returns
// immediately; the caller never observes the send outcome.
func (s *ReminderScheduler) Schedule(ticket *domain.Ticket, requester *domain.User) {
	if s.sender == nil || ticket == nil || requester == nil || requester.Email == "" {
		return
	}

	s.after(s.delay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), reminderSendTimeout)
		defer cancel()

		msg := mail.BuildTicketReminderEmail(requester.Email, mail.TicketEmailData{
			Ticket:        ticket,
			RequesterName: requester.Name,
			BaseURL:       s.baseURL,
		})
		if err := s.sender.Send(ctx, msg); err != nil {
			s.logger.Warn("reminder email failed",
				zap.String("ticket_number", ticket.TicketNumber),
				zap.String("recipient", requester.Email),
				zap.Error(err))
			return
		}
		s.logger.Info("reminder email sent",
			zap.String("ticket_number", ticket.TicketNumber),
			zap.String("recipient", requester.Email))
	})
}

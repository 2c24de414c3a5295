package notifier

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/tutorwave/lms-support/internal/config"
	"github.com/tutorwave/lms-support/internal/domain"
	"github.com/tutorwave/lms-support/internal/events"
	"github.com/tutorwave/lms-support/internal/mail"
	"github.com/tutorwave/lms-support/internal/push"
	"github.com/tutorwave/lms-support/internal/repository"
	"github.com/tutorwave/lms-support/internal/worker"
)

// Notifier fans out support-desk events to in-app notifications, realtime
// push channels and email. Every delivery action runs in its own goroutine
// and is error-isolated: one failing channel never blocks the others, and no
// failure propagates back to the publisher.
type Notifier struct {
	notifications repository.NotificationRepository
	gateway       push.Gateway
	mailer        mail.Sender
	reminders     *worker.ReminderScheduler
	support       config.SupportConfig
	logger        *zap.Logger
}

// New builds the notifier. Any collaborator may be nil; the corresponding
// deliveries are skipped.
func New(
	notifications repository.NotificationRepository,
	gateway push.Gateway,
	mailer mail.Sender,
	reminders *worker.ReminderScheduler,
	support config.SupportConfig,
	logger *zap.Logger,
) *Notifier {
	return &Notifier{
		notifications: notifications,
		gateway:       gateway,
		mailer:        mailer,
		reminders:     reminders,
		support:       support,
		logger:        logger,
	}
}

// RegisterHandlers subscribes to ticket events.
func (n *Notifier) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventTicketRaised, n.handleTicketRaised)
	dispatcher.Subscribe(events.EventTicketRated, n.handleTicketRated)
}

func (n *Notifier) handleTicketRaised(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketRaisedPayload)
	if !ok || payload.Ticket == nil || payload.Requester == nil {
		n.logger.Warn("ticket raised event with unexpected payload", zap.String("event_id", event.ID))
		return nil
	}

	ticket := payload.Ticket
	requester := payload.Requester
	message := fmt.Sprintf("Your support ticket %s has been raised.", ticket.TicketNumber)

	var wg sync.WaitGroup

	n.run(&wg, func() {
		n.persistNotification(ctx, ticket, &domain.Notification{
			RecipientID: requester.ID,
			Message:     message,
			Link:        n.supportLink(requester.Role),
		})
	})

	n.run(&wg, func() {
		n.emitPush(ctx, ticket, requester.ID, message, n.supportLink(requester.Role))
	})

	if ticket.TeacherID != nil && ticket.VisibleToTeacher {
		teacherID := *ticket.TeacherID
		teacherMessage := fmt.Sprintf("Support ticket %s was raised by %s.", ticket.TicketNumber, requester.Name)
		teacherLink := n.supportLink(domain.RoleTeacher)

		n.run(&wg, func() {
			n.persistNotification(ctx, ticket, &domain.Notification{
				RecipientID: teacherID,
				Message:     teacherMessage,
				Link:        teacherLink,
			})
		})
		n.run(&wg, func() {
			n.emitPush(ctx, ticket, teacherID, teacherMessage, teacherLink)
		})
	}

	for _, address := range n.support.Emails {
		addr := address
		n.run(&wg, func() {
			n.sendMail(ctx, ticket, addr, mail.BuildTicketRaisedEmail(addr, mail.TicketEmailData{
				Ticket:        ticket,
				RequesterName: requester.Name,
				BaseURL:       n.support.BaseURL,
			}))
		})
	}

	wg.Wait()

	if n.reminders != nil {
		n.reminders.Schedule(ticket, requester)
	}
	return nil
}

func (n *Notifier) handleTicketRated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketRatedPayload)
	if !ok || payload.Ticket == nil || payload.Requester == nil {
		n.logger.Warn("ticket rated event with unexpected payload", zap.String("event_id", event.ID))
		return nil
	}

	ticket := payload.Ticket
	requester := payload.Requester

	var wg sync.WaitGroup
	if requester.Email != "" {
		n.run(&wg, func() {
			n.sendMail(ctx, ticket, requester.Email, mail.BuildTicketRatedEmail(requester.Email, mail.TicketEmailData{
				Ticket:        ticket,
				RequesterName: requester.Name,
				BaseURL:       n.support.BaseURL,
			}, payload.Rating))
		})
	}
	for _, address := range n.support.Emails {
		addr := address
		n.run(&wg, func() {
			n.sendMail(ctx, ticket, addr, mail.BuildTicketRatedEmail(addr, mail.TicketEmailData{
				Ticket:        ticket,
				RequesterName: requester.Name,
				BaseURL:       n.support.BaseURL,
			}, payload.Rating))
		})
	}
	wg.Wait()
	return nil
}

func (n *Notifier) run(wg *sync.WaitGroup, action func()) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		action()
	}()
}

func (n *Notifier) supportLink(role domain.Role) string {
	return fmt.Sprintf("%s/%s/support", n.support.BaseURL, role.PathSegment())
}

func (n *Notifier) persistNotification(ctx context.Context, ticket *domain.Ticket, notification *domain.Notification) {
	if n.notifications == nil {
		return
	}
	if err := n.notifications.Create(ctx, notification); err != nil {
		n.logger.Error("notification persist failed",
			zap.String("ticket_number", ticket.TicketNumber),
			zap.String("recipient_id", notification.RecipientID),
			zap.Error(err))
	}
}

func (n *Notifier) emitPush(ctx context.Context, ticket *domain.Ticket, userID, message, link string) {
	if n.gateway == nil {
		return
	}
	err := n.gateway.Emit(ctx, userID, push.EventNotification, map[string]string{
		"message":       message,
		"link":          link,
		"ticket_number": ticket.TicketNumber,
	})
	if err != nil {
		n.logger.Error("push emit failed",
			zap.String("ticket_number", ticket.TicketNumber),
			zap.String("user_id", userID),
			zap.Error(err))
	}
}

func (n *Notifier) sendMail(ctx context.Context, ticket *domain.Ticket, to string, msg mail.Message) {
	if n.mailer == nil {
		return
	}
	if err := n.mailer.Send(ctx, msg); err != nil {
		n.logger.Error("support email failed",
			zap.String("ticket_number", ticket.TicketNumber),
			zap.String("recipient", to),
			zap.Error(err))
	}
}

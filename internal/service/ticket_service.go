package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/tutorwave/lms-support/internal/domain"
	"github.com/tutorwave/lms-support/internal/events"
	"github.com/tutorwave/lms-support/internal/repository"
	"github.com/tutorwave/lms-support/internal/storage"
	apperrors "github.com/tutorwave/lms-support/pkg/util"
)

// classPauseDescription is the system-generated description for pause requests.
const classPauseDescription = "The student has requested to pause their classes."

// TicketService coordinates the support-ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	calls      repository.CallRepository
	resolver   *TeacherResolver
	uploader   storage.Uploader
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	CallRepo   repository.CallRepository
	Resolver   *TeacherResolver
	Uploader   storage.Uploader
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// GeneralTicketInput describes the general ticket creation payload.
type GeneralTicketInput struct {
	IssueType        string
	Description      string
	VisibleToTeacher bool
	// AttachmentPath points at a local temp copy of an uploaded file; the
	// service uploads it to object storage and removes the local copy.
	AttachmentPath string
}

// ChangeRequestInput describes teacher-change and timezone-change payloads.
type ChangeRequestInput struct {
	Description      string
	VisibleToTeacher bool
}

// SubjectChangeInput describes the subject-change payload raised by teachers.
type SubjectChangeInput struct {
	Description    string
	CurrentSubject string
}

// TicketPage is one page of a ticket listing.
type TicketPage struct {
	Tickets []domain.Ticket
	Total   int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		calls:      deps.CallRepo,
		resolver:   deps.Resolver,
		uploader:   deps.Uploader,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// RaiseGeneral creates a general support ticket.
func (s *TicketService) RaiseGeneral(ctx context.Context, requester *domain.User, input GeneralTicketInput) (*domain.Ticket, error) {
	issueType, ok := domain.ParseGeneralIssueType(input.IssueType)
	if !ok {
		return nil, apperrors.NewValidationError("invalid issue type", map[string]any{
			"issueType": fmt.Sprintf("%q is not an accepted issue type", input.IssueType),
		})
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.NewValidationError("description required", map[string]any{
			"description": "must not be empty",
		})
	}

	ticket := &domain.Ticket{
		RequesterID: requester.ID,
		IssueType:   issueType,
		Description: strings.TrimSpace(input.Description),
		Status:      domain.TicketStatusOpen,
	}

	// Teacher visibility is only honored for students; a requested teacher
	// assignment comes from the resolver, never from client input.
	if requester.Role == domain.RoleStudent && input.VisibleToTeacher {
		ticket.VisibleToTeacher = true
		teacherID, err := s.resolver.Resolve(ctx, requester)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		ticket.TeacherID = teacherID
	}

	if input.AttachmentPath != "" {
		if s.uploader == nil {
			if removeErr := storage.RemoveLocal(input.AttachmentPath); removeErr != nil {
				s.logger.Warn("failed to remove local attachment copy",
					zap.String("path", input.AttachmentPath), zap.Error(removeErr))
			}
			return nil, apperrors.NewValidationError("attachments are not supported", nil)
		}
		url, err := s.uploader.Upload(ctx, input.AttachmentPath, "tickets")
		if removeErr := storage.RemoveLocal(input.AttachmentPath); removeErr != nil {
			s.logger.Warn("failed to remove local attachment copy",
				zap.String("path", input.AttachmentPath), zap.Error(removeErr))
		}
		if err != nil {
			return nil, apperrors.NewDependencyFailure("attachment upload failed", err)
		}
		ticket.AttachmentURL = &url
	}

	return s.persistAndAnnounce(ctx, requester, ticket)
}

// RaiseTeacherChange creates a teacher-change request. Students only; the
// responsible teacher comes solely from the scheduled-call history.
func (s *TicketService) RaiseTeacherChange(ctx context.Context, requester *domain.User, input ChangeRequestInput) (*domain.Ticket, error) {
	if requester.Role != domain.RoleStudent {
		return nil, apperrors.NewForbidden("only students can request a teacher change")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.NewValidationError("description required", map[string]any{
			"description": "must not be empty",
		})
	}

	teacherID, err := s.resolver.ResolveFromCalls(ctx, requester.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	ticket := &domain.Ticket{
		RequesterID:      requester.ID,
		IssueType:        domain.IssueTeacherChange,
		Description:      strings.TrimSpace(input.Description),
		VisibleToTeacher: false,
		TeacherID:        teacherID,
		Status:           domain.TicketStatusOpen,
	}
	return s.persistAndAnnounce(ctx, requester, ticket)
}

// RaiseTimezoneChange creates a timezone-change request for students or
// teachers. Visibility is only meaningful for student callers.
func (s *TicketService) RaiseTimezoneChange(ctx context.Context, requester *domain.User, input ChangeRequestInput) (*domain.Ticket, error) {
	if requester.Role != domain.RoleStudent && requester.Role != domain.RoleTeacher {
		return nil, apperrors.NewForbidden("only students and teachers can request a timezone change")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.NewValidationError("description required", map[string]any{
			"description": "must not be empty",
		})
	}

	ticket := &domain.Ticket{
		RequesterID: requester.ID,
		IssueType:   domain.IssueTimezoneChange,
		Description: strings.TrimSpace(input.Description),
		Status:      domain.TicketStatusOpen,
	}

	if requester.Role == domain.RoleStudent && input.VisibleToTeacher {
		ticket.VisibleToTeacher = true
		teacherID, err := s.resolver.Resolve(ctx, requester)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		ticket.TeacherID = teacherID
	}
	return s.persistAndAnnounce(ctx, requester, ticket)
}

// RaiseClassPause creates a class-pause request with a system-generated
// description. Students only.
func (s *TicketService) RaiseClassPause(ctx context.Context, requester *domain.User) (*domain.Ticket, error) {
	if requester.Role != domain.RoleStudent {
		return nil, apperrors.NewForbidden("only students can request a class pause")
	}

	ticket := &domain.Ticket{
		RequesterID:      requester.ID,
		IssueType:        domain.IssueClassPause,
		Description:      classPauseDescription,
		VisibleToTeacher: false,
		Status:           domain.TicketStatusOpen,
	}
	return s.persistAndAnnounce(ctx, requester, ticket)
}

// RaiseSubjectChange creates a subject-change request. Teachers only; the
// ticket targets the requester themself and starts in progress.
func (s *TicketService) RaiseSubjectChange(ctx context.Context, requester *domain.User, input SubjectChangeInput) (*domain.Ticket, error) {
	if requester.Role != domain.RoleTeacher {
		return nil, apperrors.NewForbidden("only teachers can request a subject change")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.NewValidationError("description required", map[string]any{
			"description": "must not be empty",
		})
	}
	if !domain.ValidSubject(input.CurrentSubject) {
		return nil, apperrors.NewValidationError("invalid subject", map[string]any{
			"currentSubject": fmt.Sprintf("%q is not an offered subject", input.CurrentSubject),
		})
	}

	teacherID := requester.ID
	ticket := &domain.Ticket{
		RequesterID:      requester.ID,
		IssueType:        domain.IssueSubjectChange,
		Description:      fmt.Sprintf("Current subject: %s. %s", input.CurrentSubject, strings.TrimSpace(input.Description)),
		VisibleToTeacher: false,
		TeacherID:        &teacherID,
		Status:           domain.TicketStatusInProgress,
	}
	return s.persistAndAnnounce(ctx, requester, ticket)
}

// Rate records a 1-5 rating on a resolved ticket, once, by its requester.
func (s *TicketService) Rate(ctx context.Context, requester *domain.User, ticketID string, rating int) (*domain.Ticket, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.NewValidationError("rating out of range", map[string]any{
			"rating": "must be between 1 and 5",
		})
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if ticket.RequesterID != requester.ID {
		return nil, apperrors.NewForbidden("only the requester can rate their ticket")
	}
	if ticket.Status != domain.TicketStatusResolved {
		return nil, apperrors.NewConflict("only resolved tickets can be rated", nil)
	}
	if ticket.Rated() {
		return nil, apperrors.NewConflict("ticket already rated", nil)
	}

	if err := s.tickets.SetRating(ctx, ticket.ID, rating); err != nil {
		return nil, apperrors.MapError(err)
	}
	ticket.Rating = &rating
	ticket.UpdatedAt = time.Now()

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketRated,
		TicketID: ticket.ID,
		Payload: events.TicketRatedPayload{
			Ticket:    ticket,
			Requester: requester,
			Rating:    rating,
		},
	})
	return ticket, nil
}

// List returns one page of tickets visible to the requester, newest first.
// Teachers additionally see teacher-visible tickets raised by their students
// or assigned to them.
func (s *TicketService) List(ctx context.Context, requester *domain.User, page, limit int) (*TicketPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	filter := repository.TicketFilter{
		RequesterID: requester.ID,
		Limit:       limit,
		Offset:      (page - 1) * limit,
	}
	if requester.Role == domain.RoleTeacher {
		teacherID := requester.ID
		filter.TeacherID = &teacherID
		studentIDs, err := s.calls.StudentIDsOf(ctx, requester.ID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		filter.StudentIDs = studentIDs
	}

	tickets, total, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &TicketPage{Tickets: tickets, Total: total}, nil
}

func (s *TicketService) persistAndAnnounce(ctx context.Context, requester *domain.User, ticket *domain.Ticket) (*domain.Ticket, error) {
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketRaised,
		TicketID: ticket.ID,
		Payload: events.TicketRaisedPayload{
			Ticket:    ticket,
			Requester: requester,
		},
	})
	return ticket, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tutorwave/lms-support/internal/domain"
	"github.com/tutorwave/lms-support/internal/repository"
)

type fakeTicketRepo struct {
	created    []*domain.Ticket
	byID       map[string]*domain.Ticket
	ratings    map[string]int
	lastFilter repository.TicketFilter
	listResult []domain.Ticket
	listTotal  int

	createErr error
	ratingErr error
	listErr   error
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{
		byID:    map[string]*domain.Ticket{},
		ratings: map[string]int{},
	}
}

func (f *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	if f.createErr != nil {
		return f.createErr
	}
	var prior *domain.Ticket
	if len(f.created) > 0 {
		prior = f.created[len(f.created)-1]
	}
	ticket.TicketNumber = repository.NextTicketNumber(prior)
	ticket.ID = fmt.Sprintf("ticket-%d", len(f.created)+1)
	f.created = append(f.created, ticket)
	f.byID[ticket.ID] = ticket
	return nil
}

func (f *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (f *fakeTicketRepo) Latest(_ context.Context) (*domain.Ticket, error) {
	if len(f.created) == 0 {
		return nil, nil
	}
	return f.created[len(f.created)-1], nil
}

func (f *fakeTicketRepo) SetRating(_ context.Context, id string, rating int) error {
	if f.ratingErr != nil {
		return f.ratingErr
	}
	f.ratings[id] = rating
	if ticket, ok := f.byID[id]; ok {
		ticket.Rating = &rating
	}
	return nil
}

func (f *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, int, error) {
	f.lastFilter = filter
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	return f.listResult, f.listTotal, nil
}

type fakeCallRepo struct {
	recent     *domain.ScheduledCall
	recentErr  error
	students   []string
	studentErr error
}

func (f *fakeCallRepo) MostRecentScheduled(_ context.Context, _ string) (*domain.ScheduledCall, error) {
	return f.recent, f.recentErr
}

func (f *fakeCallRepo) StudentIDsOf(_ context.Context, _ string) ([]string, error) {
	return f.students, f.studentErr
}

type fakeUserRepo struct {
	byID          map[string]*domain.User
	byEmail       map[string]*domain.User
	subjectMatch  *domain.User
	subjectErr    error
	subjectsAsked []string
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) FindTeacherBySubjects(_ context.Context, subjects []string, _ string) (*domain.User, error) {
	f.subjectsAsked = subjects
	return f.subjectMatch, f.subjectErr
}

type fakeUploader struct {
	url       string
	err       error
	lastPath  string
	lastScope string
}

func (f *fakeUploader) Upload(_ context.Context, localPath, folder string) (string, error) {
	f.lastPath = localPath
	f.lastScope = folder
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

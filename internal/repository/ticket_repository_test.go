package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tutorwave/lms-support/internal/domain"
)

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", ConstraintName: "tickets_ticket_number_key"}
}

func TestCreateRetriesOnNumberCollision(t *testing.T) {
	var attempts []string
	latest := &domain.Ticket{TicketNumber: "#100041"}

	repo := &ticketRepository{
		latestFn: func(_ context.Context) (*domain.Ticket, error) {
			return latest, nil
		},
	}
	repo.insertFn = func(_ context.Context, ticket *domain.Ticket) error {
		attempts = append(attempts, ticket.TicketNumber)
		if len(attempts) == 1 {
			// A concurrent creation already claimed #100042.
			latest = &domain.Ticket{TicketNumber: "#100042"}
			return uniqueViolation()
		}
		return nil
	}

	ticket := &domain.Ticket{RequesterID: "s1"}
	if err := repo.Create(context.Background(), ticket); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if len(attempts) != 2 {
		t.Fatalf("insert attempts = %v, want a retry after the collision", attempts)
	}
	if attempts[0] != "#100042" || attempts[1] != "#100043" {
		t.Errorf("attempted numbers = %v, want [#100042 #100043]", attempts)
	}
	if ticket.TicketNumber != "#100043" {
		t.Errorf("TicketNumber = %q, want the recomputed #100043", ticket.TicketNumber)
	}
}

func TestCreateGivesUpAfterRepeatedCollisions(t *testing.T) {
	inserts := 0
	repo := &ticketRepository{
		latestFn: func(_ context.Context) (*domain.Ticket, error) {
			return &domain.Ticket{TicketNumber: "#100050"}, nil
		},
	}
	repo.insertFn = func(_ context.Context, _ *domain.Ticket) error {
		inserts++
		return uniqueViolation()
	}

	err := repo.Create(context.Background(), &domain.Ticket{RequesterID: "s1"})
	if !errors.Is(err, domain.ErrDuplicateTicketNumber) {
		t.Fatalf("Create() error = %v, want ErrDuplicateTicketNumber", err)
	}
	if inserts != maxNumberAttempts {
		t.Errorf("insert attempts = %d, want %d", inserts, maxNumberAttempts)
	}
}

func TestCreateRejectsConflictingPreassignedNumber(t *testing.T) {
	inserts := 0
	repo := &ticketRepository{
		latestFn: func(_ context.Context) (*domain.Ticket, error) {
			t.Error("latest consulted for a pre-assigned number")
			return nil, nil
		},
	}
	repo.insertFn = func(_ context.Context, _ *domain.Ticket) error {
		inserts++
		return uniqueViolation()
	}

	ticket := &domain.Ticket{RequesterID: "s1", TicketNumber: "#100099"}
	err := repo.Create(context.Background(), ticket)
	if !errors.Is(err, domain.ErrDuplicateTicketNumber) {
		t.Fatalf("Create() error = %v, want ErrDuplicateTicketNumber", err)
	}
	if inserts != 1 {
		t.Errorf("insert attempts = %d, want no retry for a pre-assigned number", inserts)
	}
	if ticket.TicketNumber != "#100099" {
		t.Errorf("TicketNumber = %q, pre-assigned number must not be recomputed", ticket.TicketNumber)
	}
}

func TestCreateFallsBackWhenLatestFails(t *testing.T) {
	repo := &ticketRepository{
		latestFn: func(_ context.Context) (*domain.Ticket, error) {
			return nil, errors.New("connection reset")
		},
	}
	var inserted string
	repo.insertFn = func(_ context.Context, ticket *domain.Ticket) error {
		inserted = ticket.TicketNumber
		return nil
	}

	if err := repo.Create(context.Background(), &domain.Ticket{RequesterID: "s1"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !regexp.MustCompile(`^#\d{6}$`).MatchString(inserted) {
		t.Errorf("fallback number = %q, want #NNNNNN", inserted)
	}
}

func TestCreatePropagatesOtherInsertErrors(t *testing.T) {
	wantErr := errors.New("column does not exist")
	repo := &ticketRepository{
		latestFn: func(_ context.Context) (*domain.Ticket, error) { return nil, nil },
	}
	repo.insertFn = func(_ context.Context, _ *domain.Ticket) error { return wantErr }

	if err := repo.Create(context.Background(), &domain.Ticket{RequesterID: "s1"}); !errors.Is(err, wantErr) {
		t.Fatalf("Create() error = %v, want the insert error", err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !isUniqueViolation(uniqueViolation()) {
		t.Error("23505 not recognized as a unique violation")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("foreign-key violation misread as a unique violation")
	}
	if isUniqueViolation(errors.New("plain")) {
		t.Error("plain error misread as a unique violation")
	}
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorwave/lms-support/internal/domain"
)

// maxNumberAttempts bounds the insert-retry loop used to resolve ticket-number
// collisions between concurrent creations.
const maxNumberAttempts = 3

// TicketFilter captures listing parameters. StudentIDs and TeacherID broaden
// the requester filter for teacher callers: a teacher additionally sees
// teacher-visible tickets raised by their students or assigned to them.
type TicketFilter struct {
	RequesterID string
	TeacherID   *string
	StudentIDs  []string
	Limit       int
	Offset      int
}

// TicketRepository encapsulates ticket persistence. Create owns ticket-number
// assignment: the number is computed immediately before the insert and never
// recomputed for tickets that already carry one.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	Latest(ctx context.Context) (*domain.Ticket, error)
	SetRating(ctx context.Context, id string, rating int) error
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, int, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool

	// Seams for exercising the retry loop without a live pool.
	insertFn func(ctx context.Context, ticket *domain.Ticket) error
	latestFn func(ctx context.Context) (*domain.Ticket, error)
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	r := &ticketRepository{pool: pool}
	r.insertFn = r.insert
	r.latestFn = r.Latest
	return r
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	assigned := ticket.TicketNumber != ""
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		if ticket.TicketNumber == "" {
			latest, err := r.latestFn(ctx)
			if err != nil {
				// The uniqueness index still guards against the rare
				// collision this can produce.
				ticket.TicketNumber = FallbackTicketNumber(time.Now())
			} else {
				ticket.TicketNumber = NextTicketNumber(latest)
			}
		}
		err := r.insertFn(ctx, ticket)
		if err == nil {
			return nil
		}
		if isUniqueViolation(err) && !assigned {
			// Another creation claimed this number; recompute and retry.
			ticket.TicketNumber = ""
			continue
		}
		if isUniqueViolation(err) {
			return domain.ErrDuplicateTicketNumber
		}
		return err
	}
	return domain.ErrDuplicateTicketNumber
}

func (r *ticketRepository) insert(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (ticket_number, requester_id, issue_type, description,
            visible_to_teacher, teacher_id, status, attachment_url)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.TicketNumber,
		ticket.RequesterID,
		ticket.IssueType,
		ticket.Description,
		ticket.VisibleToTeacher,
		ticket.TeacherID,
		ticket.Status,
		ticket.AttachmentURL,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

const ticketColumns = `id, ticket_number, requester_id, issue_type, description,
       visible_to_teacher, teacher_id, status, response, responded_by, rating,
       attachment_url, created_at, updated_at`

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1`, ticketColumns)
	return r.fetchSingle(ctx, query, id)
}

// Latest returns the most recently created ticket, or (nil, nil) when the
// table is empty.
func (r *ticketRepository) Latest(ctx context.Context) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets ORDER BY created_at DESC LIMIT 1`, ticketColumns)
	ticket, err := r.fetchSingle(ctx, query)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return ticket, err
}

func (r *ticketRepository) SetRating(ctx context.Context, id string, rating int) error {
	const query = `UPDATE tickets SET rating=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, rating, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, int, error) {
	clauses := []string{"requester_id=$1"}
	args := []any{filter.RequesterID}

	if filter.TeacherID != nil {
		args = append(args, *filter.TeacherID)
		clauses = append(clauses, fmt.Sprintf("(visible_to_teacher AND teacher_id=$%d)", len(args)))
	}
	if len(filter.StudentIDs) > 0 {
		args = append(args, filter.StudentIDs)
		clauses = append(clauses, fmt.Sprintf("(visible_to_teacher AND requester_id = ANY($%d))", len(args)))
	}
	where := strings.Join(clauses, " OR ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM tickets WHERE %s`, where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		ticketColumns, where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tickets, err := scanTickets(rows)
	if err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&ticket.ID,
		&ticket.TicketNumber,
		&ticket.RequesterID,
		&ticket.IssueType,
		&ticket.Description,
		&ticket.VisibleToTeacher,
		&ticket.TeacherID,
		&ticket.Status,
		&ticket.Response,
		&ticket.RespondedBy,
		&ticket.Rating,
		&ticket.AttachmentURL,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.TicketNumber,
			&ticket.RequesterID,
			&ticket.IssueType,
			&ticket.Description,
			&ticket.VisibleToTeacher,
			&ticket.TeacherID,
			&ticket.Status,
			&ticket.Response,
			&ticket.RespondedBy,
			&ticket.Rating,
			&ticket.AttachmentURL,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorwave/lms-support/internal/domain"
)

// CallRepository reads the scheduling system's call records.
type CallRepository interface {
	// MostRecentScheduled returns the student's latest call with status
	// Scheduled, ordered by date descending, or (nil, nil) when none exists.
	MostRecentScheduled(ctx context.Context, studentID string) (*domain.ScheduledCall, error)
	// StudentIDsOf returns the distinct students a teacher currently has
	// scheduled calls with.
	StudentIDsOf(ctx context.Context, teacherID string) ([]string, error)
}

type callRepository struct {
	pool *pgxpool.Pool
}

// NewCallRepository returns a Postgres-backed implementation.
func NewCallRepository(pool *pgxpool.Pool) CallRepository {
	return &callRepository{pool: pool}
}

func (r *callRepository) MostRecentScheduled(ctx context.Context, studentID string) (*domain.ScheduledCall, error) {
	const query = `
        SELECT id, student_id, teacher_id, date, status
        FROM scheduled_calls
        WHERE student_id=$1 AND status='Scheduled'
        ORDER BY date DESC
        LIMIT 1`

	var call domain.ScheduledCall
	err := r.pool.QueryRow(ctx, query, studentID).Scan(
		&call.ID,
		&call.StudentID,
		&call.TeacherID,
		&call.Date,
		&call.Status,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &call, nil
}

func (r *callRepository) StudentIDsOf(ctx context.Context, teacherID string) ([]string, error) {
	const query = `
        SELECT DISTINCT student_id
        FROM scheduled_calls
        WHERE teacher_id=$1 AND status='Scheduled'`

	rows, err := r.pool.Query(ctx, query, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

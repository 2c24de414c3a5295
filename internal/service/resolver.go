package service

import (
	"context"

	"github.com/tutorwave/lms-support/internal/domain"
	"github.com/tutorwave/lms-support/internal/repository"
)

// TeacherResolver picks the teacher a student's ticket should be routed to.
type TeacherResolver struct {
	calls repository.CallRepository
	users repository.UserRepository
}

// NewTeacherResolver constructs the resolver.
func NewTeacherResolver(calls repository.CallRepository, users repository.UserRepository) *TeacherResolver {
	return &TeacherResolver{calls: calls, users: users}
}

// Resolve applies the full fallback chain: the student's most recent scheduled
// call wins; otherwise any teacher sharing one of the student's subjects of
// interest; otherwise nil.
func (r *TeacherResolver) Resolve(ctx context.Context, student *domain.User) (*string, error) {
	teacherID, err := r.ResolveFromCalls(ctx, student.ID)
	if err != nil || teacherID != nil {
		return teacherID, err
	}

	if len(student.Subjects) == 0 {
		return nil, nil
	}
	teacher, err := r.users.FindTeacherBySubjects(ctx, student.Subjects, student.ID)
	if err != nil {
		return nil, err
	}
	if teacher == nil {
		return nil, nil
	}
	return &teacher.ID, nil
}

// ResolveFromCalls consults only the student's scheduled-call history. The
// teacher-change flow uses this variant: the subject fallback would suggest
// the very teacher being changed away from.
func (r *TeacherResolver) ResolveFromCalls(ctx context.Context, studentID string) (*string, error) {
	call, err := r.calls.MostRecentScheduled(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if call == nil {
		return nil, nil
	}
	return &call.TeacherID, nil
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/tutorwave/lms-support/internal/domain"
)

func TestResolvePrefersScheduledCall(t *testing.T) {
	calls := &fakeCallRepo{recent: &domain.ScheduledCall{
		StudentID: "student-1",
		TeacherID: "teacher-from-call",
		Status:    domain.CallStatusScheduled,
	}}
	users := &fakeUserRepo{subjectMatch: &domain.User{ID: "teacher-from-subjects"}}

	resolver := NewTeacherResolver(calls, users)
	student := &domain.User{ID: "student-1", Role: domain.RoleStudent, Subjects: []string{"Math"}}

	got, err := resolver.Resolve(context.Background(), student)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got == nil || *got != "teacher-from-call" {
		t.Errorf("Resolve() = %v, want teacher-from-call", got)
	}
	if users.subjectsAsked != nil {
		t.Error("subject fallback consulted despite a scheduled call")
	}
}

func TestResolveFallsBackToSubjects(t *testing.T) {
	calls := &fakeCallRepo{}
	users := &fakeUserRepo{subjectMatch: &domain.User{ID: "teacher-2", Role: domain.RoleTeacher}}

	resolver := NewTeacherResolver(calls, users)
	student := &domain.User{ID: "student-1", Role: domain.RoleStudent, Subjects: []string{"Phonics", "Math"}}

	got, err := resolver.Resolve(context.Background(), student)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got == nil || *got != "teacher-2" {
		t.Errorf("Resolve() = %v, want teacher-2", got)
	}
	if len(users.subjectsAsked) != 2 {
		t.Errorf("subject lookup got %v, want the student's subjects", users.subjectsAsked)
	}
}

func TestResolveUnresolved(t *testing.T) {
	tests := []struct {
		name    string
		student *domain.User
		users   *fakeUserRepo
	}{
		{
			name:    "no call and no subjects",
			student: &domain.User{ID: "student-1", Role: domain.RoleStudent},
			users:   &fakeUserRepo{},
		},
		{
			name:    "no call and no teacher shares a subject",
			student: &domain.User{ID: "student-1", Role: domain.RoleStudent, Subjects: []string{"Coding"}},
			users:   &fakeUserRepo{subjectMatch: nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := NewTeacherResolver(&fakeCallRepo{}, tt.users)
			got, err := resolver.Resolve(context.Background(), tt.student)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got != nil {
				t.Errorf("Resolve() = %q, want nil", *got)
			}
		})
	}
}

func TestResolveFromCallsIgnoresSubjects(t *testing.T) {
	users := &fakeUserRepo{subjectMatch: &domain.User{ID: "teacher-2"}}
	resolver := NewTeacherResolver(&fakeCallRepo{}, users)

	got, err := resolver.ResolveFromCalls(context.Background(), "student-1")
	if err != nil {
		t.Fatalf("ResolveFromCalls() error = %v", err)
	}
	if got != nil {
		t.Errorf("ResolveFromCalls() = %q, want nil", *got)
	}
	if users.subjectsAsked != nil {
		t.Error("ResolveFromCalls() must never consult the subject fallback")
	}
}

func TestResolvePropagatesLookupError(t *testing.T) {
	wantErr := errors.New("calls unavailable")
	resolver := NewTeacherResolver(&fakeCallRepo{recentErr: wantErr}, &fakeUserRepo{})

	_, err := resolver.Resolve(context.Background(), &domain.User{ID: "student-1", Subjects: []string{"Math"}})
	if !errors.Is(err, wantErr) {
		t.Errorf("Resolve() error = %v, want %v", err, wantErr)
	}
}

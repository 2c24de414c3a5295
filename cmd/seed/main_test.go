package main

import (
	"reflect"
	"testing"

	"github.com/tutorwave/lms-support/internal/domain"
)

func TestParseAddUser(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    *addUserInput
		wantErr bool
	}{
		{
			name: "student with defaults",
			args: []string{"-name", "Dana", "-email", "Dana@Example.com", "-password", "s3cret"},
			want: &addUserInput{Name: "Dana", Email: "dana@example.com", Password: "s3cret", Role: domain.RoleStudent},
		},
		{
			name: "teacher with subjects",
			args: []string{"-name", "Morgan", "-email", "morgan@example.com", "-password", "pw", "-role", "Teacher", "-subjects", "Math, Physics"},
			want: &addUserInput{
				Name: "Morgan", Email: "morgan@example.com", Password: "pw",
				Role: domain.RoleTeacher, Subjects: []string{"Math", "Physics"},
			},
		},
		{
			name:    "missing email",
			args:    []string{"-name", "Dana", "-password", "pw"},
			wantErr: true,
		},
		{
			name:    "unknown role",
			args:    []string{"-name", "Dana", "-email", "d@e.com", "-password", "pw", "-role", "Staff"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAddUser(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAddUser() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseAddUser() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

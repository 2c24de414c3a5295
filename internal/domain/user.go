package domain

import "time"

// Role is the closed set of account roles. Authorization decisions and
// notification deep links dispatch on this enum rather than on free-text
// role names.
type Role string

const (
	RoleStudent Role = "Student"
	RoleTeacher Role = "Teacher"
	RoleAdmin   Role = "Admin"
)

// ParseRole validates a stored role value.
func ParseRole(input string) (Role, bool) {
	switch Role(input) {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return Role(input), true
	}
	return "", false
}

// PathSegment returns the URL path segment used when building deep links for
// a role's dashboard.
func (r Role) PathSegment() string {
	switch r {
	case RoleStudent:
		return "student"
	case RoleTeacher:
		return "teacher"
	case RoleAdmin:
		return "admin"
	}
	return "user"
}

// User is the domain model for accounts interacting with the support desk.
// Subjects holds subjects of interest for students and subjects taught for
// teachers.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Subjects     []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

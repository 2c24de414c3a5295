package domain

import (
	"errors"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusResolved   TicketStatus = "Resolved"
	TicketStatusClosed     TicketStatus = "Closed"
)

// IssueType enumerates the stored ticket categories.
type IssueType string

const (
	IssueTechnical      IssueType = "Technical"
	IssueContent        IssueType = "Content"
	IssueScheduling     IssueType = "Scheduling"
	IssuePayment        IssueType = "Payment"
	IssueOther          IssueType = "Other"
	IssueTeacherChange  IssueType = "Teacher Change Request"
	IssueClassPause     IssueType = "Class Pause Request"
	IssueTimezoneChange IssueType = "Timezone Change Request"
	IssueSubjectChange  IssueType = "Subject Change Request"
)

// legacyIssueInputs maps accepted input synonyms to stored issue types.
// "Time Change Request" is a legacy client value that never appears in storage.
var legacyIssueInputs = map[string]IssueType{
	"Time Change Request":     IssueTimezoneChange,
	"Timezone Change Request": IssueTimezoneChange,
	"Teacher Change Request":  IssueTeacherChange,
}

// generalIssueInputs is the set of plain categories the general endpoint accepts.
var generalIssueInputs = map[string]IssueType{
	"Technical":  IssueTechnical,
	"Content":    IssueContent,
	"Scheduling": IssueScheduling,
	"Payment":    IssuePayment,
	"Other":      IssueOther,
}

// ParseGeneralIssueType normalizes an issue type submitted on the general
// ticket endpoint. Legacy change-request synonyms are accepted and mapped to
// their stored types.
func ParseGeneralIssueType(input string) (IssueType, bool) {
	if t, ok := generalIssueInputs[input]; ok {
		return t, true
	}
	if t, ok := legacyIssueInputs[input]; ok {
		return t, true
	}
	return "", false
}

// ErrDuplicateTicketNumber is returned when the tickets unique index rejects a
// ticket number that another concurrent creation already claimed.
var ErrDuplicateTicketNumber = errors.New("ticket number already taken")

// Ticket is the aggregate for support requests raised by students and teachers.
type Ticket struct {
	ID               string
	TicketNumber     string
	RequesterID      string
	IssueType        IssueType
	Description      string
	VisibleToTeacher bool
	TeacherID        *string
	Status           TicketStatus
	Response         *string
	RespondedBy      *string
	Rating           *int
	AttachmentURL    *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Rated reports whether the requester has already rated the ticket.
func (t *Ticket) Rated() bool {
	return t.Rating != nil
}

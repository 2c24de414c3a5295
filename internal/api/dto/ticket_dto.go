package dto

import (
	"fmt"
	"time"

	"github.com/tutorwave/lms-support/internal/domain"
	"github.com/tutorwave/lms-support/internal/service"
)

// CreateTicketRequest payload for the general ticket form. Sent as
// multipart/form-data so an attachment can ride along.
type CreateTicketRequest struct {
	IssueType        string `json:"issueType" form:"issueType"`
	Description      string `json:"description" form:"description"`
	VisibleToTeacher bool   `json:"visibleToTeacher" form:"visibleToTeacher"`
}

// ChangeRequestPayload covers teacher-change and timezone-change tickets.
type ChangeRequestPayload struct {
	Description      string `json:"description"`
	VisibleToTeacher bool   `json:"visibleToTeacher"`
}

// SubjectChangeRequest payload raised by teachers.
type SubjectChangeRequest struct {
	Description    string `json:"description"`
	CurrentSubject string `json:"currentSubject"`
}

// RateTicketRequest payload.
type RateTicketRequest struct {
	Rating int `json:"rating"`
}

// TicketResponse is the full ticket projection.
type TicketResponse struct {
	ID                  string    `json:"id"`
	TicketNumber        string    `json:"ticketNumber"`
	DisplayTicketNumber string    `json:"displayTicketNumber"`
	RequesterID         string    `json:"requesterId"`
	IssueType           string    `json:"issueType"`
	Description         string    `json:"description"`
	VisibleToTeacher    bool      `json:"visibleToTeacher"`
	TeacherID           *string   `json:"teacherId"`
	Status              string    `json:"status"`
	Response            *string   `json:"response"`
	Rating              *int      `json:"rating"`
	AttachmentURL       *string   `json:"attachmentUrl"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// SubjectChangeResponse is the reduced projection returned for subject-change
// tickets.
type SubjectChangeResponse struct {
	TicketNumber string    `json:"ticketNumber"`
	IssueType    string    `json:"issueType"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TicketListResponse is a paginated ticket listing.
type TicketListResponse struct {
	Tickets []TicketResponse `json:"tickets"`
	Total   int              `json:"total"`
	Page    int              `json:"page"`
	Limit   int              `json:"limit"`
	Pages   int              `json:"pages"`
}

// DisplayTicketNumber renders the user-facing ticket label.
func DisplayTicketNumber(ticketNumber string) string {
	return fmt.Sprintf("Ticket - %s", ticketNumber)
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:                  t.ID,
		TicketNumber:        t.TicketNumber,
		DisplayTicketNumber: DisplayTicketNumber(t.TicketNumber),
		RequesterID:         t.RequesterID,
		IssueType:           string(t.IssueType),
		Description:         t.Description,
		VisibleToTeacher:    t.VisibleToTeacher,
		TeacherID:           t.TeacherID,
		Status:              string(t.Status),
		Response:            t.Response,
		Rating:              t.Rating,
		AttachmentURL:       t.AttachmentURL,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}
}

// NewSubjectChangeResponse maps a subject-change ticket.
func NewSubjectChangeResponse(t *domain.Ticket) SubjectChangeResponse {
	return SubjectChangeResponse{
		TicketNumber: t.TicketNumber,
		IssueType:    string(t.IssueType),
		Status:       string(t.Status),
		CreatedAt:    t.CreatedAt,
	}
}

// NewTicketListResponse maps a ticket page.
func NewTicketListResponse(page *service.TicketPage, pageNum, limit int) TicketListResponse {
	tickets := make([]TicketResponse, 0, len(page.Tickets))
	for i := range page.Tickets {
		tickets = append(tickets, NewTicketResponse(&page.Tickets[i]))
	}

	pages := 0
	if limit > 0 {
		pages = (page.Total + limit - 1) / limit
	}
	return TicketListResponse{
		Tickets: tickets,
		Total:   page.Total,
		Page:    pageNum,
		Limit:   limit,
		Pages:   pages,
	}
}

package dto

import (
	"time"

	"github.com/tutorwave/lms-support/internal/domain"
)

// NotificationResponse is the in-app notification projection.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Link      string    `json:"link"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// NotificationListResponse is a paginated notification listing.
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int                    `json:"total"`
	Page          int                    `json:"page"`
	Limit         int                    `json:"limit"`
}

// NewNotificationListResponse maps a notification page.
func NewNotificationListResponse(items []domain.Notification, total, page, limit int) NotificationListResponse {
	out := make([]NotificationResponse, 0, len(items))
	for _, n := range items {
		out = append(out, NotificationResponse{
			ID:        n.ID,
			Message:   n.Message,
			Link:      n.Link,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}
	return NotificationListResponse{Notifications: out, Total: total, Page: page, Limit: limit}
}

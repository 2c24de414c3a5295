package domain

import "time"

// Notification is a persisted in-app notification. Records are append-only;
// only the read flag mutates after creation.
type Notification struct {
	ID          string
	RecipientID string
	Message     string
	Link        string
	Read        bool
	CreatedAt   time.Time
}

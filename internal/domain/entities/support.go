package entities

import "time"

// Ticket statuses
const (
	TicketOpen       = "open"
	TicketInProgress = "in_progress"
	TicketResolved   = "resolved"
	TicketClosed     = "closed"
)

// Ticket represents a support conversation opened by a vendor or customer
type Ticket struct {
	ID          string          `json:"_id,omitempty"`
	Subject     string          `json:"subject"`
	Status      string          `json:"status"`
	Priority    string          `json:"priority,omitempty"` // low, medium, high
	RequesterID string          `json:"requesterId,omitempty"`
	AssigneeID  string          `json:"assigneeId,omitempty"`
	Messages    []TicketMessage `json:"messages,omitempty"`
	CreatedAt   time.Time       `json:"createdAt,omitempty"`
	UpdatedAt   time.Time       `json:"updatedAt,omitempty"`
}

// TicketMessage is one reply in a ticket thread. Body is markdown.
type TicketMessage struct {
	ID        string    `json:"_id,omitempty"`
	AuthorID  string    `json:"authorId,omitempty"`
	Author    string    `json:"authorName,omitempty"`
	Body      string    `json:"message"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

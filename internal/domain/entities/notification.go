package entities

import (
	"encoding/json"
	"time"
)

// Notification is an in-app message for an admin user
type Notification struct {
	ID        string          `json:"_id,omitempty"`
	Type      string          `json:"type"` // order, vendor, ticket, system
	Title     string          `json:"title"`
	Body      string          `json:"message"`
	Link      string          `json:"link,omitempty"`
	Read      bool            `json:"read"`
	Meta      json.RawMessage `json:"meta,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// UnreadCount is the body of the unread-count endpoint
type UnreadCount struct {
	Count int `json:"count"`
}

// StreamEvent is one message received on the notification push stream
type StreamEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// MediaAsset is an uploaded file
type MediaAsset struct {
	ID          string    `json:"_id,omitempty"`
	URL         string    `json:"url"`
	Key         string    `json:"key,omitempty"` // storage key used for deletion
	Folder      string    `json:"folder,omitempty"`
	Filename    string    `json:"filename,omitempty"`
	ContentType string    `json:"mimeType,omitempty"`
	Size        int64     `json:"size,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

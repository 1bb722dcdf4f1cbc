// Package render turns user-written markdown, such as support ticket replies, into safe HTML.
package render

import (
	"html/template"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"

	"github.com/sagar-developer08/admin-ecom-sub000/internal/domain/entities"
)

// policy is safe for concurrent use once built
var policy = bluemonday.UGCPolicy()

// Markdown converts markdown text to sanitized HTML
func Markdown(markdown string) template.HTML {
	if markdown == "" {
		return ""
	}
	unsafe := blackfriday.Run([]byte(markdown))
	return template.HTML(policy.SanitizeBytes(unsafe))
}

// Message is a ticket message with its body rendered
type Message struct {
	ID        string        `json:"_id,omitempty"`
	AuthorID  string        `json:"authorId,omitempty"`
	Author    string        `json:"authorName,omitempty"`
	Body      string        `json:"message"`
	HTML      template.HTML `json:"html"`
	CreatedAt time.Time     `json:"createdAt,omitempty"`
}

// TicketMessages renders every message of a ticket thread in order
func TicketMessages(t *entities.Ticket) []Message {
	out := make([]Message, 0, len(t.Messages))
	for _, m := range t.Messages {
		out = append(out, Message{
			ID:        m.ID,
			AuthorID:  m.AuthorID,
			Author:    m.Author,
			Body:      m.Body,
			HTML:      Markdown(m.Body),
			CreatedAt: m.CreatedAt,
		})
	}
	return out
}

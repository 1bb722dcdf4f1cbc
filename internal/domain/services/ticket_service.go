package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sagar-developer08/admin-ecom-sub000/internal/client"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/domain/entities"
)

const ticketsPath = "/tickets"

// TicketService handles support tickets
type TicketService struct {
	api *client.Client
}

// NewTicketService creates a new ticket service
func NewTicketService(api *client.Client) *TicketService {
	return &TicketService{api: api}
}

// List returns one page of tickets; params.Status filters by ticket status
func (s *TicketService) List(ctx context.Context, params entities.ListParams) (*entities.Page[entities.Ticket], error) {
	raw, err := s.api.Get(ctx, ticketsPath, listQuery(params))
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return decodePage[entities.Ticket](raw)
}

// Get returns a ticket with its messages
func (s *TicketService) Get(ctx context.Context, id string) (*entities.Ticket, error) {
	raw, err := s.api.Get(ctx, resourcePath(ticketsPath, id), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return decode[entities.Ticket](raw)
}

// Reply adds a markdown message to a ticket
func (s *TicketService) Reply(ctx context.Context, id, message string) (*entities.Ticket, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("%w: reply message is required", ErrInvalidInput)
	}
	raw, err := s.api.Post(ctx, resourcePath(ticketsPath, id, "reply"), map[string]string{"message": message})
	if err != nil {
		return nil, fmt.Errorf("failed to reply to ticket: %w", err)
	}
	return decode[entities.Ticket](raw)
}

// Close closes a ticket
func (s *TicketService) Close(ctx context.Context, id string) (*entities.Ticket, error) {
	raw, err := s.api.Put(ctx, resourcePath(ticketsPath, id, "close"), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to close ticket: %w", err)
	}
	return decode[entities.Ticket](raw)
}

package entities

import "encoding/json"

// Envelope is the response shape every backend service uses
type Envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data,omitempty"`
	Message    string          `json:"message,omitempty"`
	Pagination *Pagination     `json:"pagination,omitempty"`
}

// Pagination describes one page of a list response
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Page is a decoded list response
type Page[T any] struct {
	Items      []T
	Pagination *Pagination
}

// ListParams are the common list filters. Zero values are omitted from the query.
type ListParams struct {
	Page   int
	Limit  int
	Search string
	Status string
	Sort   string
}

package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/sagar-developer08/admin-ecom-sub000/internal/client"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/domain/entities"
)

var (
	// ErrUnsuccessful matches a 2xx response whose envelope says success:false
	ErrUnsuccessful = errors.New("request unsuccessful")

	// ErrInvalidInput is returned before any request is sent when the input cannot be valid
	ErrInvalidInput = errors.New("invalid input")
)

// unsuccessfulError is an *client.APIError that also matches ErrUnsuccessful
type unsuccessfulError struct {
	*client.APIError
}

func (e *unsuccessfulError) Is(target error) bool {
	return target == ErrUnsuccessful
}

func (e *unsuccessfulError) Unwrap() error {
	return e.APIError
}

// checkEnvelope fails on an explicit success:false. Bodies without a success field pass.
func checkEnvelope(raw json.RawMessage) error {
	success := gjson.GetBytes(raw, "success")
	if success.Exists() && success.Type == gjson.False {
		return &unsuccessfulError{client.ParseFailure(http.StatusOK, raw, client.Markers{}).Err(raw)}
	}
	return nil
}

// dataOf returns the envelope's data member, or the whole body when there is none
func dataOf(raw json.RawMessage) []byte {
	if data := gjson.GetBytes(raw, "data"); data.Exists() {
		return []byte(data.Raw)
	}
	return raw
}

// decode checks the envelope and unmarshals its data into T
func decode[T any](raw json.RawMessage) (*T, error) {
	if err := checkEnvelope(raw); err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(dataOf(raw), &out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}

// decodePage checks the envelope and unmarshals a list response.
// The items may be the data array itself or data.items; pagination may sit beside data or inside it.
func decodePage[T any](raw json.RawMessage) (*entities.Page[T], error) {
	if err := checkEnvelope(raw); err != nil {
		return nil, err
	}

	data := gjson.ParseBytes(dataOf(raw))
	items := data
	if data.IsObject() {
		for _, key := range []string{"items", "results", "docs"} {
			if v := data.Get(key); v.IsArray() {
				items = v
				break
			}
		}
	}

	page := &entities.Page[T]{Items: []T{}}
	if items.IsArray() {
		if err := json.Unmarshal([]byte(items.Raw), &page.Items); err != nil {
			return nil, fmt.Errorf("failed to decode list: %w", err)
		}
	} else if items.Exists() && items.Type != gjson.Null {
		return nil, fmt.Errorf("failed to decode list: expected an array")
	}

	pagination := gjson.GetBytes(raw, "pagination")
	if !pagination.Exists() && data.IsObject() {
		pagination = data.Get("pagination")
	}
	if pagination.IsObject() {
		var p entities.Pagination
		if err := json.Unmarshal([]byte(pagination.Raw), &p); err == nil {
			page.Pagination = &p
		}
	}
	return page, nil
}

// IsNotFound reports whether err is a 404 from a backend service
func IsNotFound(err error) bool {
	return client.StatusCode(err) == http.StatusNotFound
}

// IsSessionTerminated reports whether the call ended the session
func IsSessionTerminated(err error) bool {
	return errors.Is(err, client.ErrSessionTerminated)
}

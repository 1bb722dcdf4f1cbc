package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/sagar-developer08/admin-ecom-sub000/internal/client"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/domain/entities"
)

const (
	uploadPath = "/upload"

	// MaxUploadSize is the largest file the media service accepts
	MaxUploadSize = 10 << 20
)

// MediaService uploads and deletes media files
type MediaService struct {
	api *client.Client
}

// NewMediaService creates a new media service
func NewMediaService(api *client.Client) *MediaService {
	return &MediaService{api: api}
}

// Upload sends a file as the multipart "file" field, with an optional "folder" field.
// The content is read fully first so the size limit is enforced before anything is sent.
func (s *MediaService) Upload(ctx context.Context, filename, contentType string, content io.Reader, folder string) (*entities.MediaAsset, error) {
	if content == nil {
		return nil, fmt.Errorf("%w: file content is required", ErrInvalidInput)
	}
	data, err := io.ReadAll(io.LimitReader(content, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) > MaxUploadSize {
		return nil, fmt.Errorf("%w: file exceeds %d MB limit", ErrInvalidInput, MaxUploadSize>>20)
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	form := client.NewForm().AddFile("file", filepath.Base(filename), contentType, bytes.NewReader(data))
	if folder != "" {
		form.Set("folder", folder)
	}

	// The idempotency key lets the media service drop a duplicate after a refresh-and-retry
	raw, err := s.api.Do(ctx, client.Request{
		Method:  http.MethodPost,
		Path:    uploadPath,
		Form:    form,
		Headers: map[string]string{"Idempotency-Key": uuid.NewString()},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}
	return decode[entities.MediaAsset](raw)
}

// Delete removes an uploaded file
func (s *MediaService) Delete(ctx context.Context, id string) error {
	raw, err := s.api.Delete(ctx, resourcePath("", id), nil)
	if err != nil {
		return fmt.Errorf("failed to delete media: %w", err)
	}
	return checkEnvelope(raw)
}

package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/priyansh-garg1/Social-Media-Clone-Backend/internal/storage"
	apperrors "github.com/priyansh-garg1/Social-Media-Clone-Backend/pkg/errors"
)

// ImageUploader abstracts the image hosting provider. Implementations return a
// durable, publicly retrievable URL for the uploaded bytes.
type ImageUploader interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
}

const DefaultMaxImageBytes = 10 << 20 // 10 MiB

type S3ImageService struct {
	client   *storage.Client
	maxBytes int
}

func NewS3ImageService(client *storage.Client, maxBytes int) *S3ImageService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	return &S3ImageService{client: client, maxBytes: maxBytes}
}

func (s *S3ImageService) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	if len(data) > s.maxBytes {
		return "", apperrors.ErrTooLarge
	}
	url, err := s.client.Upload(ctx, data, contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrUploadFailed, err)
	}
	return url, nil
}

// DecodeImagePayload parses a base64 data URI ("data:image/png;base64,....")
// into raw bytes and a content type.
func DecodeImagePayload(img string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(img, "data:")
	if !ok {
		return nil, "", apperrors.ErrInvalidInput
	}
	meta, encoded, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", apperrors.ErrInvalidInput
	}
	contentType, enc, ok := strings.Cut(meta, ";")
	if !ok || enc != "base64" || contentType == "" {
		return nil, "", apperrors.ErrInvalidInput
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", apperrors.ErrInvalidInput
	}
	return data, contentType, nil
}

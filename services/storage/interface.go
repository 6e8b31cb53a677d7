package storage

import (
	"context"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
)

// StorageService stores parental-verification documents. Documents are
// encrypted with the PII key before leaving the process.
type StorageService interface {
	// UploadVerificationDocument encrypts and uploads a document, returning
	// the permanent identifier.
	UploadVerificationDocument(ctx context.Context, localFilePath string) (string, error)
	// DeleteDocument removes a stored document by its identifier.
	DeleteDocument(ctx context.Context, publicID string) error
	// GetDownloadURL constructs a URL for a stored document.
	GetDownloadURL(ctx context.Context, publicID string, expires time.Duration) (string, error)
}

// CloudinaryStorageService is the production implementation.
type CloudinaryStorageService struct {
	cld *cloudinary.Cloudinary
}

// NewStorageService creates a CloudinaryStorageService instance.
func NewStorageService(cld *cloudinary.Cloudinary) *CloudinaryStorageService {
	return &CloudinaryStorageService{cld: cld}
}

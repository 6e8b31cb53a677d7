package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ptaconnect/utils"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const verificationFolder = "coppa-verification"

// UploadVerificationDocument encrypts the file at localFilePath with the PII
// key and uploads the sealed copy, returning the permanent identifier.
func (s *CloudinaryStorageService) UploadVerificationDocument(ctx context.Context, localFilePath string) (string, error) {
	plaintext, err := os.ReadFile(localFilePath)
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	sealed, err := utils.Encrypt(plaintext, utils.DataClassPII)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt document: %w", err)
	}

	tempPath := filepath.Join(os.TempDir(), fmt.Sprintf("enc-%d", time.Now().UnixNano()))
	if err := os.WriteFile(tempPath, sealed, 0o600); err != nil {
		return "", fmt.Errorf("failed to write encrypted document: %w", err)
	}
	defer os.Remove(tempPath)

	result, err := s.cld.Upload.Upload(ctx, tempPath, uploader.UploadParams{
		Folder:       verificationFolder,
		ResourceType: "raw",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload document: %w", err)
	}
	if result.PublicID == "" {
		return "", fmt.Errorf("no public ID returned for uploaded document")
	}
	return result.PublicID, nil
}

// DeleteDocument removes a stored document by its identifier.
func (s *CloudinaryStorageService) DeleteDocument(ctx context.Context, publicID string) error {
	if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", publicID, err)
	}
	return nil
}

// GetDownloadURL constructs a URL for a stored document. The content is
// ciphertext; decryption happens server-side during manual review.
func (s *CloudinaryStorageService) GetDownloadURL(ctx context.Context, publicID string, expires time.Duration) (string, error) {
	asset, err := s.cld.Media(publicID)
	if err != nil {
		return "", fmt.Errorf("failed to get asset %s: %w", publicID, err)
	}
	url, err := asset.String()
	if err != nil {
		return "", fmt.Errorf("failed to get URL for %s: %w", publicID, err)
	}
	return url, nil
}

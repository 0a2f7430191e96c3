package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"therapist-crm/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

var ErrStorageDisabled = errors.New("file storage is not configured")

// Uploader stores a file and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, folder, publicID string) (string, error)
}

type CloudinaryUploader struct {
	cld  *cloudinary.Cloudinary
	root string
}

// NewCloudinaryUploader returns a disabled uploader when credentials are absent.
func NewCloudinaryUploader(cfg config.CloudinaryConfig) (Uploader, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return disabledUploader{}, nil
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}

	return &CloudinaryUploader{cld: cld, root: cfg.Folder}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, file io.Reader, folder, publicID string) (string, error) {
	overwrite := true
	result, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       path.Join(u.root, folder),
		PublicID:     publicID,
		Overwrite:    &overwrite,
		ResourceType: "auto",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to Cloudinary: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary rejected upload: %s", result.Error.Message)
	}

	return result.SecureURL, nil
}

type disabledUploader struct{}

func (disabledUploader) Upload(context.Context, io.Reader, string, string) (string, error) {
	return "", ErrStorageDisabled
}

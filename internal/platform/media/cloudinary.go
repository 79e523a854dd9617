// Package media uploads product images to Cloudinary.
package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/storefront-labs/storefront-api/internal/config"
	"github.com/storefront-labs/storefront-api/internal/platform/logger"
)

// DefaultFolder is used when no folder is configured.
const DefaultFolder = "ecommerce-products"

// ErrNoURL is returned when Cloudinary accepts an upload but reports no URL.
var ErrNoURL = errors.New("media: upload returned no secure url")

// UploadAPI is the subset of the Cloudinary upload API the uploader calls.
// *uploader.API satisfies it.
type UploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

// CloudinaryUploader stores local image files on Cloudinary and returns their
// HTTPS URLs.
type CloudinaryUploader struct {
	api    UploadAPI
	folder string
	logger *slog.Logger
}

// NewCloudinaryUploader builds an uploader from cfg.
func NewCloudinaryUploader(cfg config.MediaConfig, log *slog.Logger) (*CloudinaryUploader, error) {
	if !cfg.Enabled() {
		return nil, errors.New("media: cloudinary credentials are not configured")
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("media: failed to create cloudinary client: %w", err)
	}
	return NewUploaderWithAPI(&cld.Upload, cfg.Folder, log), nil
}

// NewUploaderWithAPI wraps an existing upload API.
func NewUploaderWithAPI(api UploadAPI, folder string, log *slog.Logger) *CloudinaryUploader {
	if api == nil {
		// ALLOW-PANIC: a nil upload API is a wiring bug
		panic("media: upload API cannot be nil")
	}
	if folder == "" {
		folder = DefaultFolder
	}
	if log == nil {
		log = slog.Default()
	}
	return &CloudinaryUploader{
		api:    api,
		folder: folder,
		logger: log.With(slog.String("component", "cloudinary_uploader")),
	}
}

// Upload sends the file at localPath and returns its secure URL.
func (u *CloudinaryUploader) Upload(ctx context.Context, localPath string) (string, error) {
	log := logger.FromContextOrDefault(ctx, u.logger)
	start := time.Now()

	resp, err := u.api.Upload(ctx, localPath, uploader.UploadParams{
		Folder:       u.folder,
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("media: upload failed: %w", err)
	}
	if resp == nil {
		return "", ErrNoURL
	}
	// API-level failures come back in the response body with a nil error.
	if resp.Error.Message != "" {
		return "", fmt.Errorf("media: upload rejected: %s", resp.Error.Message)
	}
	if resp.SecureURL == "" {
		return "", ErrNoURL
	}

	log.Debug("image uploaded",
		slog.String("public_id", resp.PublicID),
		slog.Duration("duration", time.Since(start)))
	return resp.SecureURL, nil
}

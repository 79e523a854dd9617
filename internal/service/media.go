package service

import "context"

// ImageUploader stores a local image file with a media host.
type ImageUploader interface {
	// Upload sends the file at localPath and returns its public HTTPS URL.
	// The caller owns localPath and removes it afterwards.
	Upload(ctx context.Context, localPath string) (string, error)
}

// DisabledUploader is used when no media host is configured.
// Every upload fails with ErrUploadsDisabled.
type DisabledUploader struct{}

// Upload implements ImageUploader.
func (DisabledUploader) Upload(context.Context, string) (string, error) {
	return "", ErrUploadsDisabled
}

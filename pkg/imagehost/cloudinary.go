package imagehost

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Config holds Cloudinary credentials.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
}

// CloudinaryHost stores post and profile images on Cloudinary.
type CloudinaryHost struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryHost creates a new CloudinaryHost.
func NewCloudinaryHost(cfg Config) (*CloudinaryHost, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to configure cloudinary: %w", err)
	}
	return &CloudinaryHost{cld: cld}, nil
}

// Upload stores image, a data URI or remote URL, and returns its secure URL.
func (h *CloudinaryHost) Upload(ctx context.Context, image string) (string, error) {
	res, err := h.cld.Upload.Upload(ctx, image, uploader.UploadParams{})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("failed to upload image: %s", res.Error.Message)
	}
	return res.SecureURL, nil
}

// Destroy removes the image behind imageURL.
func (h *CloudinaryHost) Destroy(ctx context.Context, imageURL string) error {
	id := PublicID(imageURL)
	if id == "" {
		return fmt.Errorf("no public id in %q", imageURL)
	}
	res, err := h.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: id})
	if err != nil {
		return fmt.Errorf("failed to destroy image %s: %w", id, err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("failed to destroy image %s: %s", id, res.Error.Message)
	}
	return nil
}

// PublicID extracts the Cloudinary public id from a delivery URL: the last
// path segment without its extension.
func PublicID(imageURL string) string {
	segment := imageURL
	if i := strings.LastIndex(segment, "/"); i >= 0 {
		segment = segment[i+1:]
	}
	id, _, _ := strings.Cut(segment, ".")
	return id
}

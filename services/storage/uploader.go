package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"chalethaven/models"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

// assetAPI is the part of the Cloudinary upload API the uploader needs.
type assetAPI interface {
	Upload(ctx context.Context, file interface{}, uploadParams uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// Uploader sends files from the server to the media host.
type Uploader struct {
	api    assetAPI
	logger *zap.Logger
}

// NewUploader connects the Cloudinary SDK. Missing credentials give ErrNotConfigured.
func NewUploader(creds Credentials, logger *zap.Logger) (*Uploader, error) {
	if !creds.Configured() {
		return nil, ErrNotConfigured
	}
	cld, err := cloudinary.NewFromParams(creds.CloudName, creds.APIKey, creds.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	return &Uploader{api: &cld.Upload, logger: logger}, nil
}

// Upload stores file into folder and returns its public URL and id.
func (u *Uploader) Upload(ctx context.Context, file io.Reader, folder string) (*models.UploadResult, error) {
	result, err := u.api.Upload(ctx, file, uploader.UploadParams{Folder: folder})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}
	if result.Error.Message != "" {
		return nil, fmt.Errorf("failed to upload file: %s", result.Error.Message)
	}
	if result.PublicID == "" {
		return nil, errors.New("no public ID returned")
	}
	u.logger.Info("image uploaded", zap.String("publicID", result.PublicID), zap.String("folder", folder))

	url := result.SecureURL
	if url == "" {
		url = result.URL
	}
	return &models.UploadResult{
		URL:      url,
		PublicID: result.PublicID,
		Width:    result.Width,
		Height:   result.Height,
		Format:   result.Format,
	}, nil
}

// Delete removes an asset by public id.
func (u *Uploader) Delete(ctx context.Context, publicID string) error {
	result, err := u.api.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	if result.Result != "ok" && result.Result != "not found" {
		return fmt.Errorf("failed to delete file: %s", result.Result)
	}
	return nil
}

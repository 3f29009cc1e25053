package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/smartcapwap/capwap-ac/internal/acbackend/core"
	"github.com/smartcapwap/capwap-ac/internal/acbackend/core/model"
	"github.com/smartcapwap/capwap-ac/pkg/log"
	"github.com/smartcapwap/capwap-ac/pkg/options"
)

var _ core.ImageStore = (*MinIO)(nil)

// MinIO resolves WTP startup images stored in an S3 compatible bucket.
// Objects are keyed vendor/model/version.
type MinIO struct {
	client     *minio.Client
	bucketName string
	expiry     time.Duration
}

// NewMinIO creates an image store from opts. It does not contact the server.
func NewMinIO(opts *options.S3Options) (*MinIO, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKeyID, opts.SecretAccessKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &MinIO{
		client:     client,
		bucketName: opts.BucketName,
		expiry:     opts.URLExpiry,
	}, nil
}

// CheckBucket verifies that the image bucket exists. Images are uploaded by
// the operator, so a missing bucket is an error rather than created here.
func (m *MinIO) CheckBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("image bucket %q does not exist", m.bucketName)
	}
	log.Debug("Image bucket available", "bucket", m.bucketName)
	return nil
}

// Stat checks that the image object exists and returns its size.
func (m *MinIO) Stat(ctx context.Context, img model.ImageIdentifier) (int64, error) {
	info, err := m.client.StatObject(ctx, m.bucketName, img.ObjectKey(), minio.StatObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.StatusCode == http.StatusNotFound || resp.Code == "NoSuchKey" {
			return 0, fmt.Errorf("%w: %s", core.ErrImageNotFound, img)
		}
		return 0, fmt.Errorf("failed to stat image %s: %w", img, err)
	}
	return info.Size, nil
}

// PresignedURL signs a download URL for img without checking that it exists.
func (m *MinIO) PresignedURL(ctx context.Context, img model.ImageIdentifier) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.bucketName, img.ObjectKey(), m.expiry, make(url.Values))
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned url: %w", err)
	}
	return u.String(), nil
}

// DownloadURL returns a presigned URL of an existing image.
func (m *MinIO) DownloadURL(ctx context.Context, img model.ImageIdentifier) (string, error) {
	if _, err := m.Stat(ctx, img); err != nil {
		if errors.Is(err, core.ErrImageNotFound) {
			return "", err
		}
		// The bucket may forbid HEAD for this key; signing still works.
		log.Debug("Image stat failed, signing anyway", "image", img.String(), "error", err)
	}
	return m.PresignedURL(ctx, img)
}

package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"
)

// GCSStore writes public-read objects to a Firebase Storage bucket.
type GCSStore struct {
	bucket     *storage.BucketHandle
	bucketName string
}

func NewGCSStore(bucket *storage.BucketHandle, bucketName string) *GCSStore {
	return &GCSStore{bucket: bucket, bucketName: bucketName}
}

func (s *GCSStore) Name() string { return "firebase-storage" }

func (s *GCSStore) publicBase() string {
	return "https://storage.googleapis.com/" + s.bucketName
}

func (s *GCSStore) Upload(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	w := s.bucket.Object(name).NewWriter(ctx)
	w.ContentType = contentType
	w.PredefinedACL = "publicRead"

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write object %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close object %s: %w", name, err)
	}
	return s.publicBase() + "/" + name, nil
}

func (s *GCSStore) DeleteByURL(ctx context.Context, publicURL string) error {
	name, ok := s.objectFromURL(publicURL)
	if !ok {
		return fmt.Errorf("url %q does not belong to bucket %s", publicURL, s.bucketName)
	}
	err := s.bucket.Object(name).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("delete object %s: %w", name, err)
	}
	return nil
}

// objectFromURL accepts both storage.googleapis.com URLs and the
// firebasestorage download URLs older records carry.
func (s *GCSStore) objectFromURL(publicURL string) (string, bool) {
	if name, ok := objectName(s.publicBase(), publicURL); ok {
		return name, true
	}

	u, err := url.Parse(publicURL)
	if err != nil || u.Host != "firebasestorage.googleapis.com" {
		return "", false
	}
	prefix := "/v0/b/" + s.bucketName + "/o/"
	if !strings.HasPrefix(u.EscapedPath(), prefix) {
		return "", false
	}
	name, err := url.PathUnescape(strings.TrimPrefix(u.EscapedPath(), prefix))
	if err != nil || name == "" {
		return "", false
	}
	return name, true
}

// Package blobstore uploads species images and removes them again by their
// public URL.
package blobstore

import (
	"context"
	"io"
	"net/url"
	"strings"
)

type Store interface {
	Name() string
	// Upload stores r under name and returns the object's public URL.
	Upload(ctx context.Context, name, contentType string, r io.Reader) (string, error)
	// DeleteByURL removes the object behind a URL returned by Upload.
	// A missing object is not an error.
	DeleteByURL(ctx context.Context, publicURL string) error
}

// objectName recovers the object name from a public URL rooted at base.
func objectName(base, publicURL string) (string, bool) {
	base = strings.TrimRight(base, "/") + "/"
	if !strings.HasPrefix(publicURL, base) {
		return "", false
	}
	name := strings.TrimPrefix(publicURL, base)
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	name, err := url.PathUnescape(name)
	if err != nil || name == "" {
		return "", false
	}
	return name, true
}

package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/terraverde/terraverde-api/internal/apperror"
	"github.com/terraverde/terraverde-api/internal/platform/blobstore"
	"github.com/terraverde/terraverde-api/internal/platform/logger"
	"github.com/terraverde/terraverde-api/internal/species/domain"
)

const imagePrefix = "species-images/"

type ImagePolicy struct {
	MaxCount     int
	MaxBytes     int64
	AllowedTypes []string
}

func DefaultImagePolicy() ImagePolicy {
	return ImagePolicy{
		MaxCount:     5,
		MaxBytes:     5 << 20,
		AllowedTypes: []string{"image/jpeg", "image/png", "image/webp"},
	}
}

func (p ImagePolicy) allows(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	for _, allowed := range p.AllowedTypes {
		if ct == allowed {
			return true
		}
	}
	return false
}

// ImageResult is the outcome of reconciling a species' image list.
type ImageResult struct {
	Images  []domain.Image
	Added   []domain.Image
	Removed []domain.Image
}

// ImageManager associates uploaded files with species records.
type ImageManager struct {
	blobs  blobstore.Store
	policy ImagePolicy
	log    *zap.Logger
	newID  func() string
	now    func() time.Time
}

// NewImageManager stamps images with now; nil means time.Now.
func NewImageManager(blobs blobstore.Store, policy ImagePolicy, log *zap.Logger, now func() time.Time) *ImageManager {
	if now == nil {
		now = time.Now
	}
	return &ImageManager{
		blobs:  blobs,
		policy: policy,
		log:    logger.OrNop(log),
		newID:  uuid.NewString,
		now:    now,
	}
}

// Validate checks uploads against the policy, given how many stored images
// remain. It never touches the blob store.
func (m *ImageManager) Validate(remaining int, uploads []domain.Upload) error {
	if total := remaining + len(uploads); total > m.policy.MaxCount {
		return apperror.Validation("a species can have at most %d images, got %d", m.policy.MaxCount, total)
	}
	for _, u := range uploads {
		if u.Size <= 0 {
			return apperror.Validation("image %q is empty", u.Name)
		}
		if u.Size > m.policy.MaxBytes {
			return apperror.Validation("image %q is larger than %d bytes", u.Name, m.policy.MaxBytes)
		}
		if !m.policy.allows(u.ContentType) {
			return apperror.Validation("image %q has unsupported type %q", u.Name, u.ContentType)
		}
		if u.Open == nil {
			return apperror.Validation("image %q has no content", u.Name)
		}
	}
	return nil
}

// Plan splits the stored list. Entries listed in Delete are removed. When
// Keep is given, entries missing from it are dropped from the list without
// deleting their blobs.
func Plan(current []domain.Image, ch domain.ImageChanges) (kept, removed []domain.Image) {
	del := toSet(ch.Delete)
	var keep map[string]bool
	if ch.Keep != nil {
		keep = toSet(ch.Keep)
	}

	kept = make([]domain.Image, 0, len(current))
	for _, img := range current {
		switch {
		case del[img.ID]:
			removed = append(removed, img)
		case keep == nil || keep[img.ID]:
			kept = append(kept, img)
		}
	}
	return kept, removed
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// Reconcile validates, then uploads. The final list is the kept entries in
// stored order followed by the new uploads. Removed blobs are not deleted
// here; callers Discard them once the record is saved.
func (m *ImageManager) Reconcile(ctx context.Context, current []domain.Image, ch domain.ImageChanges) (ImageResult, error) {
	kept, removed := Plan(current, ch)
	if err := m.Validate(len(kept), ch.Uploads); err != nil {
		return ImageResult{}, err
	}

	added, err := m.Upload(ctx, ch.Uploads)
	if err != nil {
		return ImageResult{}, err
	}

	images := make([]domain.Image, 0, len(kept)+len(added))
	images = append(images, kept...)
	images = append(images, added...)
	return ImageResult{Images: images, Added: added, Removed: removed}, nil
}

// Upload stores each file under a fresh name. When one upload fails the
// blobs already written by this call are deleted again, best effort.
func (m *ImageManager) Upload(ctx context.Context, uploads []domain.Upload) ([]domain.Image, error) {
	added := make([]domain.Image, 0, len(uploads))
	for _, u := range uploads {
		img, err := m.uploadOne(ctx, u)
		if err != nil {
			logWarnings(m.log, "", m.Discard(ctx, added))
			return nil, apperror.Upstream(fmt.Sprintf("failed to upload image %q", u.Name), err)
		}
		added = append(added, img)
	}
	return added, nil
}

func (m *ImageManager) uploadOne(ctx context.Context, u domain.Upload) (domain.Image, error) {
	f, err := u.Open()
	if err != nil {
		return domain.Image{}, err
	}
	defer f.Close()

	id := m.newID()
	url, err := m.blobs.Upload(ctx, imagePrefix+id+extension(u), u.ContentType, f)
	if err != nil {
		return domain.Image{}, err
	}
	return domain.Image{
		ID:        id,
		URL:       url,
		Name:      u.Name,
		Size:      u.Size,
		MimeType:  u.ContentType,
		CreatedAt: m.now().UTC(),
	}, nil
}

func extension(u domain.Upload) string {
	switch strings.ToLower(u.ContentType) {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	}
	return strings.ToLower(filepath.Ext(u.Name))
}

// Discard deletes the blobs behind images. Failures are returned as
// warnings and never stop the loop.
func (m *ImageManager) Discard(ctx context.Context, images []domain.Image) []domain.Warning {
	var warnings []domain.Warning
	for _, img := range images {
		if img.URL == "" {
			continue
		}
		if err := m.blobs.DeleteByURL(ctx, img.URL); err != nil {
			warnings = append(warnings, domain.Warning{Op: "delete image", Target: img.URL, Err: err})
		}
	}
	return warnings
}

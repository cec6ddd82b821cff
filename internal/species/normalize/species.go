package normalize

import (
	"fmt"
	"net/url"
	"path"

	"github.com/terraverde/terraverde-api/internal/species/domain"
)

// FromStorage shapes a stored document into a Species. It never fails:
// missing or malformed fields fall back to zero values, "Not Evaluated" for
// the status, true for active and empty image and comment lists.
func FromStorage(id string, raw map[string]any) domain.Species {
	if raw == nil {
		raw = map[string]any{}
	}

	s := domain.Species{
		ID:                 id,
		ScientificName:     stringAt(raw, keysScientificName...),
		CommonName:         stringAt(raw, keysCommonName...),
		Family:             stringAt(raw, keysFamily...),
		ConservationStatus: stringAt(raw, keysStatus...),
		Ecosystem:          stringAt(raw, keysEcosystem...),
		Habitat:            stringAt(raw, keysHabitat...),
		Description:        stringAt(raw, keysDescription...),
		Coordinates: domain.Coordinates{
			Latitude:  floatAt(raw, keysLatitude...),
			Longitude: floatAt(raw, keysLongitude...),
		},
		RegisteredBy: stringAt(raw, keysRegisteredBy...),
		Active:       boolAt(raw, true, keysActive...),
		RegisteredAt: timeAt(raw, keysRegisteredAt...),
		UpdatedAt:    timeAt(raw, keysUpdatedAt...),
		ObservedAt:   timeAt(raw, keysObservedAt...),
		Images:       []domain.Image{},
		Comments:     []domain.Comment{},
	}
	if s.ConservationStatus == "" {
		s.ConservationStatus = domain.StatusNotEvaluated
	}

	if v, ok := Lookup(raw, keysImages...); ok {
		s.Images = imagesFrom(v)
	}
	if v, ok := Lookup(raw, keysComments...); ok {
		s.Comments = commentsFrom(v)
	}
	if n, ok := intAt(raw, keysCommentCount...); ok && n >= 0 {
		s.CommentCount = int(n)
	} else {
		s.CommentCount = len(s.Comments)
	}

	return s
}

func imagesFrom(v any) []domain.Image {
	items := entries(v)
	out := make([]domain.Image, 0, len(items))
	for i, it := range items {
		switch val := it.value.(type) {
		case string:
			if val == "" {
				continue
			}
			out = append(out, domain.Image{
				ID:   legacyID("img", it.key, i),
				URL:  val,
				Name: nameFromURL(val),
			})
		case map[string]any:
			img := domain.Image{
				ID:        stringAt(val, keysImageID...),
				URL:       stringAt(val, keysImageURL...),
				Name:      stringAt(val, keysImageName...),
				MimeType:  stringAt(val, keysImageMimeType...),
				CreatedAt: timeAt(val, keysImageCreatedAt...),
			}
			if size, ok := intAt(val, keysImageSize...); ok {
				img.Size = size
			}
			if img.ID == "" {
				img.ID = legacyID("img", it.key, i)
			}
			if img.Name == "" && img.URL != "" {
				img.Name = nameFromURL(img.URL)
			}
			out = append(out, img)
		}
	}
	return out
}

func commentsFrom(v any) []domain.Comment {
	items := entries(v)
	out := make([]domain.Comment, 0, len(items))
	for i, it := range items {
		val, ok := it.value.(map[string]any)
		if !ok {
			continue
		}
		c := domain.Comment{
			ID:     stringAt(val, keysCommentID...),
			Text:   stringAt(val, keysCommentText...),
			Author: stringAt(val, keysCommentAuthor...),
			Date:   timeAt(val, keysCommentDate...),
		}
		if c.ID == "" {
			c.ID = legacyID("cmt", it.key, i)
		}
		if c.Author == "" {
			c.Author = domain.DefaultCommentAuthor
		}
		out = append(out, c)
	}
	return out
}

// legacyID derives a stable id for entries written without one: the push
// key when the list was stored as an object, the position otherwise.
func legacyID(prefix, key string, index int) string {
	if key != "" {
		return key
	}
	return fmt.Sprintf("%s_legacy_%d", prefix, index)
}

func nameFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return path.Base(raw)
	}
	name := path.Base(u.Path)
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	if name == "." || name == "/" {
		return ""
	}
	return name
}

// ToStorage emits the canonical document body. Legacy keys are never written.
func ToStorage(s domain.Species) map[string]any {
	images := make([]any, 0, len(s.Images))
	for _, img := range s.Images {
		images = append(images, map[string]any{
			"id":         img.ID,
			"url":        img.URL,
			"name":       img.Name,
			"size":       img.Size,
			"mime_type":  img.MimeType,
			"created_at": formatTime(img.CreatedAt),
		})
	}

	comments := make([]any, 0, len(s.Comments))
	for _, c := range s.Comments {
		comments = append(comments, map[string]any{
			"id":     c.ID,
			"text":   c.Text,
			"author": c.Author,
			"date":   formatTime(c.Date),
		})
	}

	out := map[string]any{
		"scientific_name":     s.ScientificName,
		"common_name":         s.CommonName,
		"family":              s.Family,
		"conservation_status": s.ConservationStatus,
		"ecosystem":           s.Ecosystem,
		"habitat":             s.Habitat,
		"description":         s.Description,
		"coordinates": map[string]any{
			"latitude":  s.Coordinates.Latitude,
			"longitude": s.Coordinates.Longitude,
		},
		"registered_by": s.RegisteredBy,
		"active":        s.Active,
		"registered_at": formatTime(s.RegisteredAt),
		"updated_at":    formatTime(s.UpdatedAt),
		"images":        images,
		"comments":      comments,
		"comment_count": s.CommentCount,
	}
	if !s.ObservedAt.IsZero() {
		out["observation_date"] = formatTime(s.ObservedAt)
	}
	return out
}

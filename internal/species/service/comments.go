package service

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/terraverde/terraverde-api/internal/apperror"
	"github.com/terraverde/terraverde-api/internal/species/domain"
)

// SortComments orders comments newest first. Comments without a usable date
// compare equal to each other and sort after every dated comment; ties keep
// their stored order.
func SortComments(comments []domain.Comment) {
	sort.SliceStable(comments, func(i, j int) bool {
		a, b := comments[i].Date, comments[j].Date
		if a.IsZero() {
			return false
		}
		if b.IsZero() {
			return true
		}
		return a.After(b)
	})
}

// AddComment appends a comment and returns the species with its comments
// sorted. Empty text is rejected before the store is touched.
func (s *SpeciesService) AddComment(ctx context.Context, speciesID string, in domain.CommentInput) (domain.Species, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return domain.Species{}, apperror.Validation("comment text is required")
	}
	author := strings.TrimSpace(in.Author)
	if author == "" {
		author = domain.DefaultCommentAuthor
	}

	now := s.now().UTC()
	date := now
	if in.Date != nil && !in.Date.IsZero() {
		date = in.Date.UTC()
	}

	c := domain.Comment{
		ID:     s.newID(),
		Text:   text,
		Author: author,
		Date:   date,
	}

	sp, err := s.repo.AppendComment(ctx, speciesID, c, now)
	if err != nil {
		return domain.Species{}, err
	}
	SortComments(sp.Comments)

	s.log.Info("comment added",
		zap.String("species_id", speciesID),
		zap.String("comment_id", c.ID),
		zap.Int("comment_count", sp.CommentCount),
	)
	return sp, nil
}

package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/terraverde/terraverde-api/internal/apperror"
	"github.com/terraverde/terraverde-api/internal/platform/cache"
	"github.com/terraverde/terraverde-api/internal/platform/logger"
	"github.com/terraverde/terraverde-api/internal/species/domain"
	"github.com/terraverde/terraverde-api/internal/species/normalize"
	"github.com/terraverde/terraverde-api/internal/species/query"
)

const statisticsCacheKey = "species:statistics"

// SpeciesStore is the persistence the service needs.
type SpeciesStore interface {
	List(ctx context.Context) ([]domain.Species, error)
	Get(ctx context.Context, id string) (domain.Species, error)
	Create(ctx context.Context, s domain.Species) (domain.Species, error)
	// Save keeps the stored comments and returns the saved record.
	Save(ctx context.Context, s domain.Species) (domain.Species, error)
	Delete(ctx context.Context, id string) error
	AppendComment(ctx context.Context, id string, c domain.Comment, now time.Time) (domain.Species, error)
}

type Options struct {
	Cache  cache.Cache
	Logger *zap.Logger
	Now    func() time.Time
}

type SpeciesService struct {
	repo   SpeciesStore
	images *ImageManager
	cache  cache.Cache
	log    *zap.Logger
	now    func() time.Time
	newID  func() string
}

func NewSpeciesService(repo SpeciesStore, images *ImageManager, opts Options) *SpeciesService {
	s := &SpeciesService{
		repo:   repo,
		images: images,
		cache:  opts.Cache,
		log:    logger.OrNop(opts.Logger),
		now:    opts.Now,
		newID:  uuid.NewString,
	}
	if s.cache == nil {
		s.cache = cache.Noop{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// List returns the species matching f, in storage order.
func (s *SpeciesService) List(ctx context.Context, f query.Filter) ([]domain.Species, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := query.Apply(all, f)
	for i := range out {
		SortComments(out[i].Comments)
	}
	return out, nil
}

func (s *SpeciesService) Get(ctx context.Context, id string) (domain.Species, error) {
	sp, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Species{}, err
	}
	SortComments(sp.Comments)
	return sp, nil
}

// Create validates the input and uploads before writing anything. The
// owner is the authenticated actor, else the supplied registered_by, else
// "system".
func (s *SpeciesService) Create(ctx context.Context, actor string, p domain.SpeciesPatch, uploads []domain.Upload) (domain.Species, error) {
	if err := normalize.ValidateCreate(p); err != nil {
		return domain.Species{}, err
	}
	if err := s.images.Validate(0, uploads); err != nil {
		return domain.Species{}, err
	}

	owner := actor
	if owner == "" && p.RegisteredBy != nil {
		owner = *p.RegisteredBy
	}
	if owner == "" {
		owner = domain.DefaultRegisteredBy
	}

	sp := domain.NewSpecies(p, owner, s.now().UTC())

	added, err := s.images.Upload(ctx, uploads)
	if err != nil {
		return domain.Species{}, err
	}
	sp.Images = added

	created, err := s.repo.Create(ctx, sp)
	if err != nil {
		logWarnings(s.log, "", s.images.Discard(ctx, added))
		return domain.Species{}, err
	}

	s.invalidate(ctx)
	s.log.Info("species created",
		zap.String("species_id", created.ID),
		zap.String("registered_by", owner),
		zap.Int("images", len(added)),
	)
	return created, nil
}

func (s *SpeciesService) authorize(sp domain.Species, actor string) error {
	if actor == "" || actor != sp.RegisteredBy {
		return apperror.Forbidden("only the user who registered species %s can modify it", sp.ID)
	}
	return nil
}

// Update merges p into the stored record and reconciles its images.
func (s *SpeciesService) Update(ctx context.Context, actor, id string, p domain.SpeciesPatch, changes domain.ImageChanges) (domain.Species, error) {
	if err := normalize.ValidateUpdate(p); err != nil {
		return domain.Species{}, err
	}

	sp, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Species{}, err
	}
	if err := s.authorize(sp, actor); err != nil {
		return domain.Species{}, err
	}

	res, err := s.images.Reconcile(ctx, sp.Images, changes)
	if err != nil {
		return domain.Species{}, err
	}

	sp.Apply(p)
	sp.Images = res.Images
	sp.UpdatedAt = s.now().UTC()

	saved, err := s.repo.Save(ctx, sp)
	if err != nil {
		logWarnings(s.log, id, s.images.Discard(ctx, res.Added))
		return domain.Species{}, err
	}
	logWarnings(s.log, id, s.images.Discard(ctx, res.Removed))

	s.invalidate(ctx)
	SortComments(saved.Comments)
	return saved, nil
}

// Delete removes every image blob, best effort, then the record.
func (s *SpeciesService) Delete(ctx context.Context, actor, id string) error {
	sp, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(sp, actor); err != nil {
		return err
	}

	logWarnings(s.log, id, s.images.Discard(ctx, sp.Images))

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	s.log.Info("species deleted", zap.String("species_id", id))
	return nil
}

// Statistics serves the cached aggregate when present.
func (s *SpeciesService) Statistics(ctx context.Context) (query.Statistics, error) {
	var st query.Statistics
	ok, err := s.cache.Get(ctx, statisticsCacheKey, &st)
	if err != nil {
		s.log.Warn("statistics cache read failed", zap.Error(err))
	}
	if ok {
		return st, nil
	}
	return s.RefreshStatistics(ctx)
}

// RefreshStatistics recomputes the aggregate and stores it in the cache.
func (s *SpeciesService) RefreshStatistics(ctx context.Context) (query.Statistics, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return query.Statistics{}, err
	}
	st := query.Compute(all, s.now())
	if err := s.cache.Set(ctx, statisticsCacheKey, st); err != nil {
		s.log.Warn("statistics cache write failed", zap.Error(err))
	}
	return st, nil
}

func (s *SpeciesService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, statisticsCacheKey); err != nil {
		s.log.Warn("statistics cache invalidation failed", zap.Error(err))
	}
}

func logWarnings(log *zap.Logger, speciesID string, warnings []domain.Warning) {
	for _, w := range warnings {
		log.Warn("best-effort cleanup failed",
			zap.String("species_id", speciesID),
			zap.String("op", w.Op),
			zap.String("target", w.Target),
			zap.Error(w.Err),
		)
	}
}

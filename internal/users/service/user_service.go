package service

import (
	"context"
	"net/mail"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/terraverde/terraverde-api/internal/apperror"
	"github.com/terraverde/terraverde-api/internal/platform/logger"
	"github.com/terraverde/terraverde-api/internal/users/domain"
)

type UserStore interface {
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) ([]domain.User, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)
	Save(ctx context.Context, u domain.User) error
}

type UserService struct {
	repo UserStore
	log  *zap.Logger
	now  func() time.Time
}

func NewUserService(repo UserStore, log *zap.Logger, now func() time.Time) *UserService {
	if now == nil {
		now = time.Now
	}
	return &UserService{repo: repo, log: logger.OrNop(log), now: now}
}

func (s *UserService) List(ctx context.Context, f domain.Filter) ([]domain.User, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(all))
	for _, u := range all {
		if f.Role != "" && !strings.EqualFold(u.Role, f.Role) {
			continue
		}
		if f.Active != nil && u.Active != *f.Active {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (s *UserService) Get(ctx context.Context, id string) (domain.User, error) {
	return s.repo.Get(ctx, id)
}

// Create registers a user. The email must be unique across the collection;
// the check is a query before the write, so two concurrent registrations can
// still race.
func (s *UserService) Create(ctx context.Context, req domain.CreateUserRequest) (domain.User, error) {
	u := domain.User{
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Role:        strings.TrimSpace(req.Role),
		Institution: strings.TrimSpace(req.Institution),
		Specialty:   strings.TrimSpace(req.Specialty),
		Phone:       strings.TrimSpace(req.Phone),
		Active:      true,
	}

	var missing []string
	if u.Name == "" {
		missing = append(missing, "name")
	}
	if u.Email == "" {
		missing = append(missing, "email")
	}
	if u.Role == "" {
		missing = append(missing, "role")
	}
	if len(missing) > 0 {
		return domain.User{}, apperror.Validation("missing required fields: %s", strings.Join(missing, ", "))
	}
	if err := validEmail(u.Email); err != nil {
		return domain.User{}, err
	}
	if err := s.ensureEmailFree(ctx, u.Email, ""); err != nil {
		return domain.User{}, err
	}

	now := s.now().UTC()
	u.RegisteredAt = now
	u.UpdatedAt = now

	created, err := s.repo.Create(ctx, u)
	if err != nil {
		return domain.User{}, err
	}
	s.log.Info("user created", zap.String("user_id", created.ID), zap.String("role", created.Role))
	return created, nil
}

// Update applies a partial change. Uniqueness is re-checked only when the
// email actually changes.
func (s *UserService) Update(ctx context.Context, id string, req domain.UpdateUserRequest) (domain.User, error) {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	if req.Name != nil {
		if u.Name = strings.TrimSpace(*req.Name); u.Name == "" {
			return domain.User{}, apperror.Validation("name cannot be empty")
		}
	}
	if req.Role != nil {
		if u.Role = strings.TrimSpace(*req.Role); u.Role == "" {
			return domain.User{}, apperror.Validation("role cannot be empty")
		}
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if err := validEmail(email); err != nil {
			return domain.User{}, err
		}
		if email != u.Email {
			if err := s.ensureEmailFree(ctx, email, u.ID); err != nil {
				return domain.User{}, err
			}
			u.Email = email
		}
	}
	if req.Institution != nil {
		u.Institution = strings.TrimSpace(*req.Institution)
	}
	if req.Specialty != nil {
		u.Specialty = strings.TrimSpace(*req.Specialty)
	}
	if req.Phone != nil {
		u.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Active != nil {
		u.Active = *req.Active
		if u.Active {
			u.DeletedAt = time.Time{}
		}
	}
	u.UpdatedAt = s.now().UTC()

	if err := s.repo.Save(ctx, u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// Delete deactivates the user and stamps the deletion time. The record stays.
func (s *UserService) Delete(ctx context.Context, id string) error {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	now := s.now().UTC()
	u.Active = false
	u.DeletedAt = now
	u.UpdatedAt = now
	if err := s.repo.Save(ctx, u); err != nil {
		return err
	}
	s.log.Info("user deactivated", zap.String("user_id", id))
	return nil
}

func (s *UserService) ensureEmailFree(ctx context.Context, email, selfID string) error {
	matches, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	for _, m := range matches {
		if m.ID != selfID {
			return apperror.Conflict("email %s is already registered", email)
		}
	}
	return nil
}

func validEmail(email string) error {
	if email == "" {
		return apperror.Validation("email cannot be empty")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return apperror.Validation("email %q is not valid", email)
	}
	return nil
}

// Stats counts users overall, by activity and by role.
func (s *UserService) Stats(ctx context.Context) (domain.Stats, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	today := s.now().UTC().Format("2006-01-02")
	st := domain.Stats{Total: len(all), ByRole: map[string]int{}}
	for _, u := range all {
		if u.Active {
			st.Active++
		} else {
			st.Inactive++
		}
		role := u.Role
		if role == "" {
			role = "unspecified"
		}
		st.ByRole[role]++
		if !u.RegisteredAt.IsZero() && u.RegisteredAt.UTC().Format("2006-01-02") == today {
			st.RegisteredToday++
		}
	}
	return st, nil
}

// Recent returns up to limit users, newest registration first.
func (s *UserService) Recent(ctx context.Context, limit int) ([]domain.User, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].RegisteredAt.After(all[j].RegisteredAt) })
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

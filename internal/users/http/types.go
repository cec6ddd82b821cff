package http

import (
	"time"

	"github.com/terraverde/terraverde-api/internal/users/domain"
	"github.com/terraverde/terraverde-api/internal/users/service"
)

type Handler struct {
	userService *service.UserService
}

func New(userService *service.UserService) *Handler {
	return &Handler{userService: userService}
}

// UserDTO is the public shape of a user. It has no password field.
type UserDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Institution  string `json:"institution"`
	Specialty    string `json:"specialty"`
	Phone        string `json:"phone"`
	Active       bool   `json:"active"`
	RegisteredAt string `json:"registered_at"`
	UpdatedAt    string `json:"updated_at"`
	LastAccess   string `json:"last_access"`
	DeletedAt    string `json:"deleted_at,omitempty"`
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func ToDTO(u domain.User) UserDTO {
	return UserDTO{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		Institution:  u.Institution,
		Specialty:    u.Specialty,
		Phone:        u.Phone,
		Active:       u.Active,
		RegisteredAt: stamp(u.RegisteredAt),
		UpdatedAt:    stamp(u.UpdatedAt),
		LastAccess:   stamp(u.LastAccess),
		DeletedAt:    stamp(u.DeletedAt),
	}
}

func ToDTOs(list []domain.User) []UserDTO {
	out := make([]UserDTO, 0, len(list))
	for _, u := range list {
		out = append(out, ToDTO(u))
	}
	return out
}

type createUserReq struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Institution string `json:"institution"`
	Specialty   string `json:"specialty"`
	Phone       string `json:"phone"`
}

type updateUserReq struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	Role        *string `json:"role"`
	Institution *string `json:"institution"`
	Specialty   *string `json:"specialty"`
	Phone       *string `json:"phone"`
	Active      *bool   `json:"active"`
}

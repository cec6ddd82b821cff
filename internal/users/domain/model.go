package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin      = "admin"
	RoleResearcher = "researcher"
	RoleUser       = "user"
)

var ErrUserNotFound = errors.New("user not found")

// User is a registered person. Password fields that legacy records may carry
// are never read into this type.
type User struct {
	ID           string
	Name         string
	Email        string
	Role         string
	Institution  string
	Specialty    string
	Phone        string
	Active       bool
	RegisteredAt time.Time
	UpdatedAt    time.Time
	LastAccess   time.Time
	DeletedAt    time.Time
}

// CreateUserRequest represents data needed to create a new user
type CreateUserRequest struct {
	Name        string
	Email       string
	Role        string
	Institution string
	Specialty   string
	Phone       string
}

// UpdateUserRequest represents data for updating a user. Nil fields are left
// unchanged.
type UpdateUserRequest struct {
	Name        *string
	Email       *string
	Role        *string
	Institution *string
	Specialty   *string
	Phone       *string
	Active      *bool
}

type Filter struct {
	Role   string
	Active *bool
}

// Stats summarizes the user collection.
type Stats struct {
	Total           int            `json:"total"`
	Active          int            `json:"active"`
	Inactive        int            `json:"inactive"`
	ByRole          map[string]int `json:"by_role"`
	RegisteredToday int            `json:"registered_today"`
}

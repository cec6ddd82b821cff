package repository

import (
	"strings"

	"github.com/terraverde/terraverde-api/internal/species/normalize"
	"github.com/terraverde/terraverde-api/internal/users/domain"
)

var (
	keysName         = []string{"name", "nombre"}
	keysEmail        = []string{"email", "correo"}
	keysRole         = []string{"role", "rol"}
	keysInstitution  = []string{"institution", "institucion"}
	keysSpecialty    = []string{"specialty", "especialidad"}
	keysPhone        = []string{"phone", "telefono"}
	keysActive       = []string{"active", "activo"}
	keysRegisteredAt = []string{"registered_at", "registeredAt", "fecha_registro"}
	keysUpdatedAt    = []string{"updated_at", "updatedAt", "fecha_actualizacion"}
	keysLastAccess   = []string{"last_access", "lastAccess", "ultimo_acceso"}
	keysDeletedAt    = []string{"deleted_at", "deletedAt", "fecha_eliminacion"}
)

func fromStorage(id string, raw map[string]any) domain.User {
	return domain.User{
		ID:           id,
		Name:         normalize.String(raw, keysName...),
		Email:        strings.ToLower(normalize.String(raw, keysEmail...)),
		Role:         normalize.String(raw, keysRole...),
		Institution:  normalize.String(raw, keysInstitution...),
		Specialty:    normalize.String(raw, keysSpecialty...),
		Phone:        normalize.String(raw, keysPhone...),
		Active:       normalize.Bool(raw, true, keysActive...),
		RegisteredAt: normalize.Time(raw, keysRegisteredAt...),
		UpdatedAt:    normalize.Time(raw, keysUpdatedAt...),
		LastAccess:   normalize.Time(raw, keysLastAccess...),
		DeletedAt:    normalize.Time(raw, keysDeletedAt...),
	}
}

func toStorage(u domain.User) map[string]any {
	return map[string]any{
		"name":          u.Name,
		"email":         u.Email,
		"role":          u.Role,
		"institution":   u.Institution,
		"specialty":     u.Specialty,
		"phone":         u.Phone,
		"active":        u.Active,
		"registered_at": normalize.FormatTime(u.RegisteredAt),
		"updated_at":    normalize.FormatTime(u.UpdatedAt),
		"last_access":   normalize.FormatTime(u.LastAccess),
		"deleted_at":    normalize.FormatTime(u.DeletedAt),
	}
}

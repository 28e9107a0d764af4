package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleViewer   = "viewer"
	RoleUser     = "user"
	RoleAdmin    = "admin"
	RoleDisabled = "disabled"
)

// Roles lists every role a user can hold.
var Roles = []string{RoleViewer, RoleUser, RoleAdmin, RoleDisabled}

func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}

	return false
}

type User struct {
	gorm.Model
	UUID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4()" json:"uuid"`
	Username string    `gorm:"uniqueIndex"                          json:"username"`
	Password string    `json:"-"`
	Role     string    `gorm:"default:viewer"                       json:"role"`
}

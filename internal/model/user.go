package model

import (
	"time"

	"gorm.io/gorm"
)

// UserRole enum constants
const (
	RoleAdmin   = "ADMIN"
	RoleShelter = "SHELTER"
	RoleAdopter = "ADOPTER"
)

// User represents any account on the platform: adopters filing applications,
// shelters acting as pet custodians, and administrators. Pets reference the
// shelter account that has custody of them.
type User struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Username    string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email       string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password    string         `gorm:"type:varchar(255);not null" json:"-"` // Omit password from JSON requests/responses
	FullName    string         `gorm:"type:varchar(255)" json:"full_name"`
	Phone       string         `gorm:"type:varchar(20)" json:"phone"`
	Role        string         `gorm:"type:varchar(20);not null;index" json:"role"` // ADMIN, SHELTER, ADOPTER
	ShelterName string         `gorm:"type:varchar(255)" json:"shelter_name,omitempty"` // Set for SHELTER accounts only
	Active      bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"` // GORM soft delete
}

package database

import (
	"log"

	"petadoption/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM.
// TranslateError lets repositories detect duplicate-key violations as
// gorm.ErrDuplicatedKey instead of driver-specific errors.
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.Pet{},
		&model.AdoptionApplication{},
		&model.Adoption{},
		&model.AdoptionEvent{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}

package repository

import (
	"path/filepath"
	"testing"
	"time"

	"petadoption/internal/model"

	sqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// openTestDB opens a file-backed sqlite database in a per-test temp dir and
// migrates the adoption schema into it. A single connection keeps sqlite's
// writer locking out of the way.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "petadoption_test.db")
	db, err := gorm.Open(sqlite.Dialector{DriverName: "sqlite", DSN: dsn}, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&model.User{},
		&model.Pet{},
		&model.AdoptionApplication{},
		&model.Adoption{},
		&model.AdoptionEvent{},
	); err != nil {
		t.Fatalf("migrate test schema: %v", err)
	}

	return db
}

func seedUser(t *testing.T, db *gorm.DB, role, username string) model.User {
	t.Helper()

	user := model.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "irrelevant",
		FullName: "Test " + username,
		Role:     role,
		Active:   true,
	}
	if role == model.RoleShelter {
		user.ShelterName = username + " shelter"
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

func seedPet(t *testing.T, db *gorm.DB, name string, shelterID int64, status string) model.Pet {
	t.Helper()

	intake := time.Now()
	pet := model.Pet{
		Name:       name,
		Species:    "DOG",
		Status:     status,
		ShelterID:  shelterID,
		IntakeDate: &intake,
	}
	if err := db.Create(&pet).Error; err != nil {
		t.Fatalf("seed pet %s: %v", name, err)
	}
	return pet
}

func seedApplication(t *testing.T, db *gorm.DB, petID, adopterID int64, status string) model.AdoptionApplication {
	t.Helper()

	app := model.AdoptionApplication{
		PetID:            petID,
		AdopterID:        adopterID,
		Status:           status,
		ApplicationDate:  time.Now(),
		ApplicationText:  "We would love to adopt",
		HouseholdMembers: 1,
	}
	if err := db.Create(&app).Error; err != nil {
		t.Fatalf("seed application pet=%d adopter=%d: %v", petID, adopterID, err)
	}
	return app
}

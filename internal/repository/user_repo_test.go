package repository

import (
	"context"
	"errors"
	"testing"

	"petadoption/internal/model"

	"gorm.io/gorm"
)

func TestUserRepository_LookupByEmailAndUsername(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	seeded := seedUser(t, db, model.RoleAdopter, "jamie")

	byEmail, err := repo.GetByEmail(ctx, seeded.Email)
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if byEmail.ID != seeded.ID {
		t.Fatalf("expected user %d, got %d", seeded.ID, byEmail.ID)
	}

	byUsername, err := repo.GetByUsername(ctx, "jamie")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if byUsername.ID != seeded.ID {
		t.Fatalf("expected user %d, got %d", seeded.ID, byUsername.ID)
	}

	if _, err := repo.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record-not-found for unknown email, got %v", err)
	}
}

func TestUserRepository_CreateRejectsDuplicateEmail(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	seeded := seedUser(t, db, model.RoleAdopter, "jamie")

	dup := model.User{
		Username: "jamie2",
		Email:    seeded.Email,
		Password: "x",
		Role:     model.RoleAdopter,
		Active:   true,
	}
	err := repo.Create(ctx, &dup)
	if err == nil {
		t.Fatalf("expected duplicate email to be rejected")
	}
	if !IsDuplicateKey(err) {
		t.Fatalf("expected a duplicate-key error, got %v", err)
	}
}

func TestUserRepository_CountByRole(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	seedUser(t, db, model.RoleAdopter, "jamie")
	seedUser(t, db, model.RoleAdopter, "riley")
	seedUser(t, db, model.RoleShelter, "paws")

	count, err := repo.CountByRole(ctx, model.RoleAdopter)
	if err != nil {
		t.Fatalf("CountByRole: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 adopters, got %d", count)
	}
}

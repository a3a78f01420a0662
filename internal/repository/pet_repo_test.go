package repository

import (
	"context"
	"testing"
	"time"

	"petadoption/internal/model"
)

func TestPetRepository_UpdateStatusReportsAffectedRows(t *testing.T) {
	db := openTestDB(t)
	repo := NewPetRepository(db)
	ctx := context.Background()

	shelter := seedUser(t, db, model.RoleShelter, "paws")
	pet := seedPet(t, db, "Milo", shelter.ID, model.PetStatusAvailable)

	rows, err := repo.UpdateStatus(ctx, pet.ID, model.PetStatusArchived)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 affected row, got %d", rows)
	}

	rows, err = repo.UpdateStatus(ctx, 9999, model.PetStatusArchived)
	if err != nil {
		t.Fatalf("UpdateStatus missing pet: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected 0 affected rows for missing pet, got %d", rows)
	}
}

func TestPetRepository_UpdateAdoptionStatusSetsBothColumns(t *testing.T) {
	db := openTestDB(t)
	repo := NewPetRepository(db)
	ctx := context.Background()

	shelter := seedUser(t, db, model.RoleShelter, "paws")
	pet := seedPet(t, db, "Milo", shelter.ID, model.PetStatusAvailable)

	when := time.Date(2026, 2, 14, 12, 30, 0, 0, time.UTC)
	rows, err := repo.UpdateAdoptionStatus(ctx, pet.ID, model.PetStatusAdopted, &when)
	if err != nil {
		t.Fatalf("UpdateAdoptionStatus: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 affected row, got %d", rows)
	}

	got, err := repo.GetByID(ctx, pet.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != model.PetStatusAdopted {
		t.Fatalf("expected status %s, got %s", model.PetStatusAdopted, got.Status)
	}
	if got.AdoptionDate == nil {
		t.Fatalf("expected adoption date to be set")
	}
	if got.AdoptionDate.UTC().Format("2006-01-02") != "2026-02-14" {
		t.Fatalf("expected adoption date 2026-02-14, got %s", got.AdoptionDate.Format("2006-01-02"))
	}
}

func TestPetRepository_ListAvailableFiltersAndOrdersByIntake(t *testing.T) {
	db := openTestDB(t)
	repo := NewPetRepository(db)
	ctx := context.Background()

	shelter := seedUser(t, db, model.RoleShelter, "paws")
	older := seedPet(t, db, "Older", shelter.ID, model.PetStatusAvailable)
	newer := seedPet(t, db, "Newer", shelter.ID, model.PetStatusAvailable)
	seedPet(t, db, "Gone", shelter.ID, model.PetStatusAdopted)
	seedPet(t, db, "Hidden", shelter.ID, model.PetStatusArchived)

	// Longest waiting pets surface first.
	if err := db.Model(&model.Pet{}).Where("id = ?", older.ID).
		Update("intake_date", time.Now().Add(-48*time.Hour)).Error; err != nil {
		t.Fatalf("backdate intake: %v", err)
	}

	pets, total, err := repo.ListAvailable(ctx, 1, 10)
	if err != nil {
		t.Fatalf("ListAvailable: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected total 2, got %d", total)
	}
	if len(pets) != 2 {
		t.Fatalf("expected 2 pets, got %d", len(pets))
	}
	if pets[0].ID != older.ID || pets[1].ID != newer.ID {
		t.Fatalf("expected oldest intake first, got %d then %d", pets[0].ID, pets[1].ID)
	}
}

func TestPetRepository_ListByShelterIncludesEveryStatus(t *testing.T) {
	db := openTestDB(t)
	repo := NewPetRepository(db)
	ctx := context.Background()

	mine := seedUser(t, db, model.RoleShelter, "paws")
	other := seedUser(t, db, model.RoleShelter, "whiskers")
	seedPet(t, db, "A", mine.ID, model.PetStatusAvailable)
	seedPet(t, db, "B", mine.ID, model.PetStatusAdopted)
	seedPet(t, db, "C", other.ID, model.PetStatusAvailable)

	pets, total, err := repo.ListByShelter(ctx, mine.ID, 1, 10)
	if err != nil {
		t.Fatalf("ListByShelter: %v", err)
	}
	if total != 2 || len(pets) != 2 {
		t.Fatalf("expected 2 pets for shelter %d, got total=%d len=%d", mine.ID, total, len(pets))
	}
	for _, p := range pets {
		if p.ShelterID != mine.ID {
			t.Fatalf("unexpected pet from shelter %d", p.ShelterID)
		}
	}
}

func TestPetRepository_CountByShelterAndStatus(t *testing.T) {
	db := openTestDB(t)
	repo := NewPetRepository(db)
	ctx := context.Background()

	shelter := seedUser(t, db, model.RoleShelter, "paws")
	seedPet(t, db, "A", shelter.ID, model.PetStatusAvailable)
	seedPet(t, db, "B", shelter.ID, model.PetStatusAvailable)
	seedPet(t, db, "C", shelter.ID, model.PetStatusAdopted)

	count, err := repo.CountByShelterAndStatus(ctx, shelter.ID, model.PetStatusAvailable)
	if err != nil {
		t.Fatalf("CountByShelterAndStatus: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 available pets, got %d", count)
	}
}

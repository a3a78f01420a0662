package repository

import (
	"context"
	"time"

	"petadoption/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PetRepository defines the interface for data access of Pet entities.
// Mutations return the number of rows they affected so callers can tell a
// missing row apart from a successful write.
type PetRepository interface {
	Create(ctx context.Context, pet *model.Pet) error
	GetByID(ctx context.Context, id int64) (*model.Pet, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*model.Pet, error)
	ListAvailable(ctx context.Context, page, limit int) ([]model.Pet, int64, error)
	ListByShelter(ctx context.Context, shelterID int64, page, limit int) ([]model.Pet, int64, error)
	UpdateStatus(ctx context.Context, id int64, status string) (int64, error)
	UpdateAdoptionStatus(ctx context.Context, id int64, status string, adoptionDate *time.Time) (int64, error)
	CountByShelterAndStatus(ctx context.Context, shelterID int64, status string) (int64, error)
}

type petRepository struct {
	db *gorm.DB
}

// NewPetRepository returns a new instance of PetRepository
func NewPetRepository(db *gorm.DB) PetRepository {
	return &petRepository{db: db}
}

func (r *petRepository) Create(ctx context.Context, pet *model.Pet) error {
	return GetDB(ctx, r.db).Create(pet).Error
}

func (r *petRepository) GetByID(ctx context.Context, id int64) (*model.Pet, error) {
	var pet model.Pet
	if err := GetDB(ctx, r.db).First(&pet, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &pet, nil
}

// GetByIDForUpdate locks the pet row for the rest of the ambient transaction
func (r *petRepository) GetByIDForUpdate(ctx context.Context, id int64) (*model.Pet, error) {
	var pet model.Pet
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&pet, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &pet, nil
}

func (r *petRepository) ListAvailable(ctx context.Context, page, limit int) ([]model.Pet, int64, error) {
	var pets []model.Pet
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Pet{}).Where("status = ?", model.PetStatusAvailable).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Where("status = ?", model.PetStatusAvailable).
		Order("intake_date ASC").
		Offset(offset).Limit(limit).
		Find(&pets).Error; err != nil {
		return nil, 0, err
	}

	return pets, total, nil
}

func (r *petRepository) ListByShelter(ctx context.Context, shelterID int64, page, limit int) ([]model.Pet, int64, error) {
	var pets []model.Pet
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Pet{}).Where("shelter_id = ?", shelterID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Where("shelter_id = ?", shelterID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&pets).Error; err != nil {
		return nil, 0, err
	}

	return pets, total, nil
}

// UpdateStatus changes just the status column and reports affected rows
func (r *petRepository) UpdateStatus(ctx context.Context, id int64, status string) (int64, error) {
	res := GetDB(ctx, r.db).Model(&model.Pet{}).Where("id = ?", id).Update("status", status)
	return res.RowsAffected, res.Error
}

// UpdateAdoptionStatus sets status and adoption date together, as one write
func (r *petRepository) UpdateAdoptionStatus(ctx context.Context, id int64, status string, adoptionDate *time.Time) (int64, error) {
	res := GetDB(ctx, r.db).Model(&model.Pet{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        status,
			"adoption_date": adoptionDate,
		})
	return res.RowsAffected, res.Error
}

func (r *petRepository) CountByShelterAndStatus(ctx context.Context, shelterID int64, status string) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Pet{}).
		Where("shelter_id = ? AND status = ?", shelterID, status).
		Count(&count).Error
	return count, err
}

package repository

import (
	"context"

	"petadoption/internal/model"

	"gorm.io/gorm"
)

// AdoptionRepository defines the interface for data access of Adoption
// records. The table is append-only: there are no update or delete methods.
type AdoptionRepository interface {
	Create(ctx context.Context, adoption *model.Adoption) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.Adoption, error)
	ListByAdopter(ctx context.Context, adopterID int64) ([]model.Adoption, error)
	ListCompleted(ctx context.Context, page, limit int) ([]model.Adoption, int64, error)
	CountByPet(ctx context.Context, petID int64) (int64, error)
}

type adoptionRepository struct {
	db *gorm.DB
}

// NewAdoptionRepository returns a new instance of AdoptionRepository
func NewAdoptionRepository(db *gorm.DB) AdoptionRepository {
	return &adoptionRepository{db: db}
}

// Create inserts the adoption record and reports affected rows like the
// other finalization writes.
func (r *adoptionRepository) Create(ctx context.Context, adoption *model.Adoption) (int64, error) {
	res := GetDB(ctx, r.db).Create(adoption)
	return res.RowsAffected, res.Error
}

func (r *adoptionRepository) GetByID(ctx context.Context, id int64) (*model.Adoption, error) {
	var adoption model.Adoption
	if err := GetDB(ctx, r.db).First(&adoption, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &adoption, nil
}

func (r *adoptionRepository) ListByAdopter(ctx context.Context, adopterID int64) ([]model.Adoption, error) {
	var adoptions []model.Adoption
	err := GetDB(ctx, r.db).Preload("Pet").
		Where("adopter_id = ?", adopterID).
		Order("adoption_date DESC").
		Find(&adoptions).Error
	return adoptions, err
}

// ListCompleted returns all adoptions with pet, adopter and shelter loaded
// for the public happy-families listing.
func (r *adoptionRepository) ListCompleted(ctx context.Context, page, limit int) ([]model.Adoption, int64, error) {
	var adoptions []model.Adoption
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Adoption{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Pet").Preload("Pet.Shelter").Preload("Adopter").
		Order("adoption_date DESC").
		Offset(offset).Limit(limit).
		Find(&adoptions).Error; err != nil {
		return nil, 0, err
	}

	return adoptions, total, nil
}

func (r *adoptionRepository) CountByPet(ctx context.Context, petID int64) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Adoption{}).
		Where("pet_id = ?", petID).
		Count(&count).Error
	return count, err
}

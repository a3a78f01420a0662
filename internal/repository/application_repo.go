package repository

import (
	"context"
	"time"

	"petadoption/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ApplicationRepository defines the interface for data access of
// AdoptionApplication entities. UpdateDecision is the only write that sets
// reviewer identity and decision timestamp; UpdateStatus leaves them alone.
type ApplicationRepository interface {
	Create(ctx context.Context, app *model.AdoptionApplication) error
	GetByID(ctx context.Context, id int64) (*model.AdoptionApplication, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*model.AdoptionApplication, error)
	ListByAdopter(ctx context.Context, adopterID int64) ([]model.AdoptionApplication, error)
	ListByPet(ctx context.Context, petID int64) ([]model.AdoptionApplication, error)
	ListPendingByShelter(ctx context.Context, shelterID int64, page, limit int) ([]model.AdoptionApplication, int64, error)
	CountPendingByPet(ctx context.Context, petID int64) (int64, error)
	UpdateDecision(ctx context.Context, id int64, status, notes string, reviewedBy int64, reviewDate time.Time) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status, notes string) (int64, error)
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository returns a new instance of ApplicationRepository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(ctx context.Context, app *model.AdoptionApplication) error {
	return GetDB(ctx, r.db).Create(app).Error
}

func (r *applicationRepository) GetByID(ctx context.Context, id int64) (*model.AdoptionApplication, error) {
	var app model.AdoptionApplication
	if err := GetDB(ctx, r.db).First(&app, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

// GetByIDForUpdate locks the application row for the rest of the ambient transaction
func (r *applicationRepository) GetByIDForUpdate(ctx context.Context, id int64) (*model.AdoptionApplication, error) {
	var app model.AdoptionApplication
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&app, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepository) ListByAdopter(ctx context.Context, adopterID int64) ([]model.AdoptionApplication, error) {
	var apps []model.AdoptionApplication
	err := GetDB(ctx, r.db).Preload("Pet").
		Where("adopter_id = ?", adopterID).
		Order("application_date DESC").
		Find(&apps).Error
	return apps, err
}

func (r *applicationRepository) ListByPet(ctx context.Context, petID int64) ([]model.AdoptionApplication, error) {
	var apps []model.AdoptionApplication
	err := GetDB(ctx, r.db).Preload("Adopter").
		Where("pet_id = ?", petID).
		Order("application_date ASC").
		Find(&apps).Error
	return apps, err
}

// ListPendingByShelter returns pending applications for a shelter's pets,
// oldest first so review order follows submission order.
func (r *applicationRepository) ListPendingByShelter(ctx context.Context, shelterID int64, page, limit int) ([]model.AdoptionApplication, int64, error) {
	var apps []model.AdoptionApplication
	var total int64

	db := GetDB(ctx, r.db)
	countQuery := db.Model(&model.AdoptionApplication{}).
		Joins("JOIN pets ON pets.id = adoption_applications.pet_id").
		Where("pets.shelter_id = ? AND adoption_applications.status = ?", shelterID, model.ApplicationStatusPending)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Pet").Preload("Adopter").
		Joins("JOIN pets ON pets.id = adoption_applications.pet_id").
		Where("pets.shelter_id = ? AND adoption_applications.status = ?", shelterID, model.ApplicationStatusPending).
		Order("adoption_applications.application_date ASC").
		Offset(offset).Limit(limit).
		Find(&apps).Error; err != nil {
		return nil, 0, err
	}

	return apps, total, nil
}

func (r *applicationRepository) CountPendingByPet(ctx context.Context, petID int64) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.AdoptionApplication{}).
		Where("pet_id = ? AND status = ?", petID, model.ApplicationStatusPending).
		Count(&count).Error
	return count, err
}

// UpdateDecision records an APPROVED/REJECTED decision together with notes,
// reviewer identity and the decision timestamp, reporting affected rows.
func (r *applicationRepository) UpdateDecision(ctx context.Context, id int64, status, notes string, reviewedBy int64, reviewDate time.Time) (int64, error) {
	res := GetDB(ctx, r.db).Model(&model.AdoptionApplication{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       status,
			"review_notes": notes,
			"reviewed_by":  reviewedBy,
			"review_date":  reviewDate,
		})
	return res.RowsAffected, res.Error
}

// UpdateStatus changes status and notes without touching reviewer fields
// (the withdrawal path).
func (r *applicationRepository) UpdateStatus(ctx context.Context, id int64, status, notes string) (int64, error) {
	res := GetDB(ctx, r.db).Model(&model.AdoptionApplication{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       status,
			"review_notes": notes,
		})
	return res.RowsAffected, res.Error
}

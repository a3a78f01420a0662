package repository

import (
	"context"

	"petadoption/internal/model"

	"gorm.io/gorm"
)

type EventRepository interface {
	Log(ctx context.Context, event *model.AdoptionEvent) error
	List(ctx context.Context, page, limit int) ([]model.AdoptionEvent, int64, error)
	ListByEntity(ctx context.Context, entityType string, entityID int64) ([]model.AdoptionEvent, error)
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Log(ctx context.Context, event *model.AdoptionEvent) error {
	return GetDB(ctx, r.db).Create(event).Error
}

func (r *eventRepository) List(ctx context.Context, page, limit int) ([]model.AdoptionEvent, int64, error) {
	var events []model.AdoptionEvent
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.AdoptionEvent{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Actor").Order("created_at desc").Offset(offset).Limit(limit).Find(&events).Error; err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

func (r *eventRepository) ListByEntity(ctx context.Context, entityType string, entityID int64) ([]model.AdoptionEvent, error) {
	var events []model.AdoptionEvent
	err := GetDB(ctx, r.db).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at desc").
		Find(&events).Error
	return events, err
}

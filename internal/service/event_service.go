package service

import (
	"context"
	"strconv"

	"petadoption/internal/model"
	"petadoption/internal/repository"
	"petadoption/pkg/apperr"
)

type EventResponse struct {
	ID         string `json:"id"`
	ActorID    string `json:"actor_id"`
	ActorName  string `json:"actor_name"`
	Action     string `json:"action"`
	EntityType string `json:"entity_type"`
	EntityID   int64  `json:"entity_id"`
	Details    string `json:"details"`
	CreatedAt  string `json:"created_at"`
}

type EventService interface {
	GetEvents(ctx context.Context, page, limit int) ([]EventResponse, int64, error)
	GetEventsForEntity(ctx context.Context, entityType string, entityID int64) ([]EventResponse, error)
}

type eventService struct {
	repo repository.EventRepository
}

// NewEventService creates a new EventService instance
func NewEventService(repo repository.EventRepository) EventService {
	return &eventService{repo: repo}
}

// GetEvents retrieves strictly paginated records with actors pre-loaded
func (s *eventService) GetEvents(ctx context.Context, page, limit int) ([]EventResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	events, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, apperr.StorageFailure("failed to list events", err)
	}

	res := make([]EventResponse, 0, len(events))
	for _, e := range events {
		res = append(res, toEventResponse(e))
	}
	return res, total, nil
}

// GetEventsForEntity retrieves the trail for one pet, application or adoption
func (s *eventService) GetEventsForEntity(ctx context.Context, entityType string, entityID int64) ([]EventResponse, error) {
	if entityID <= 0 {
		return nil, apperr.InvalidArgument("entity id must be positive, got %d", entityID)
	}

	events, err := s.repo.ListByEntity(ctx, entityType, entityID)
	if err != nil {
		return nil, apperr.StorageFailure("failed to list entity events", err)
	}

	res := make([]EventResponse, 0, len(events))
	for _, e := range events {
		res = append(res, toEventResponse(e))
	}
	return res, nil
}

func toEventResponse(e model.AdoptionEvent) EventResponse {
	actorName := "System"
	actorID := ""
	if e.Actor != nil {
		actorName = e.Actor.Username
	}
	if e.ActorID != nil {
		actorID = strconv.FormatInt(*e.ActorID, 10)
	}

	return EventResponse{
		ID:         e.ID.String(),
		ActorID:    actorID,
		ActorName:  actorName,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Details:    e.Details,
		CreatedAt:  e.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

package service

import (
	"context"
	"testing"
	"time"

	"petadoption/internal/model"
	"petadoption/pkg/apperr"

	"github.com/google/uuid"
)

func TestGetEvents_NewestFirstWithActorNames(t *testing.T) {
	store := newFakeStore()
	store.users[3] = model.User{ID: 3, Username: "paws", FullName: "Paws Rescue", Role: model.RoleShelter}

	actorID := int64(3)
	older := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	newer := older.Add(2 * time.Hour)
	store.events = append(store.events,
		model.AdoptionEvent{ID: uuid.New(), ActorID: &actorID, Action: "CREATE_PET", EntityType: "PET", EntityID: 7, Details: "registered Milo", CreatedAt: older},
		model.AdoptionEvent{ID: uuid.New(), Action: "SEED_DATA", EntityType: "SYSTEM", EntityID: 0, Details: "initial import", CreatedAt: newer},
	)

	svc := NewEventService(&fakeEventRepo{store})
	events, total, err := svc.GetEvents(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("GetEvents: %v", err)
	}
	if total != 2 || len(events) != 2 {
		t.Fatalf("expected 2 events, got %d (total %d)", len(events), total)
	}
	if events[0].Action != "SEED_DATA" || events[1].Action != "CREATE_PET" {
		t.Fatalf("expected newest first, got %s then %s", events[0].Action, events[1].Action)
	}
}

func TestGetEvents_MapsActorFields(t *testing.T) {
	store := newFakeStore()
	store.users[3] = model.User{ID: 3, Username: "paws", FullName: "Paws Rescue", Role: model.RoleShelter}

	actorID := int64(3)
	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	store.events = append(store.events,
		model.AdoptionEvent{ID: uuid.New(), ActorID: &actorID, Action: "ARCHIVE_PET", EntityType: "PET", EntityID: 7, CreatedAt: at},
	)

	svc := NewEventService(&fakeEventRepo{store})
	events, _, err := svc.GetEvents(context.Background(), 1, 20)
	if err != nil {
		t.Fatalf("GetEvents: %v", err)
	}

	got := events[0]
	if got.ActorID != "3" {
		t.Fatalf("expected actor id \"3\", got %q", got.ActorID)
	}
	if got.ActorName != "paws" {
		t.Fatalf("expected actor name from username, got %q", got.ActorName)
	}
	if got.EntityType != "PET" || got.EntityID != 7 {
		t.Fatalf("unexpected entity: %s %d", got.EntityType, got.EntityID)
	}
	if got.CreatedAt != "2026-03-14 09:30:00" {
		t.Fatalf("unexpected created_at formatting: %q", got.CreatedAt)
	}
}

func TestGetEventsForEntity_FiltersToOneEntity(t *testing.T) {
	store := newFakeStore()
	store.users[3] = model.User{ID: 3, Username: "paws", FullName: "Paws Rescue", Role: model.RoleShelter}

	actorID := int64(3)
	base := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	store.events = append(store.events,
		model.AdoptionEvent{ID: uuid.New(), ActorID: &actorID, Action: "CREATE_PET", EntityType: "PET", EntityID: 7, CreatedAt: base},
		model.AdoptionEvent{ID: uuid.New(), ActorID: &actorID, Action: "ARCHIVE_PET", EntityType: "PET", EntityID: 7, CreatedAt: base.Add(time.Hour)},
		model.AdoptionEvent{ID: uuid.New(), ActorID: &actorID, Action: "CREATE_PET", EntityType: "PET", EntityID: 8, CreatedAt: base},
		model.AdoptionEvent{ID: uuid.New(), ActorID: &actorID, Action: "REJECT_APPLICATION", EntityType: "APPLICATION", EntityID: 7, CreatedAt: base},
	)

	svc := NewEventService(&fakeEventRepo{store})
	events, err := svc.GetEventsForEntity(context.Background(), "PET", 7)
	if err != nil {
		t.Fatalf("GetEventsForEntity: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events for pet 7, got %d", len(events))
	}
	if events[0].Action != "ARCHIVE_PET" || events[1].Action != "CREATE_PET" {
		t.Fatalf("expected newest first, got %s then %s", events[0].Action, events[1].Action)
	}
	if events[0].ActorName != "paws" {
		t.Fatalf("expected actor resolved, got %q", events[0].ActorName)
	}
}

func TestGetEventsForEntity_RejectsNonPositiveID(t *testing.T) {
	svc := NewEventService(&fakeEventRepo{newFakeStore()})
	_, err := svc.GetEventsForEntity(context.Background(), "PET", 0)
	assertKind(t, err, apperr.KindInvalidArgument)
}

func TestGetEvents_SystemEventsHaveNoActor(t *testing.T) {
	store := newFakeStore()
	store.events = append(store.events,
		model.AdoptionEvent{ID: uuid.New(), Action: "SEED_DATA", EntityType: "SYSTEM", EntityID: 0, CreatedAt: time.Now()},
	)

	svc := NewEventService(&fakeEventRepo{store})
	events, _, err := svc.GetEvents(context.Background(), 1, 20)
	if err != nil {
		t.Fatalf("GetEvents: %v", err)
	}
	if events[0].ActorName != "System" {
		t.Fatalf("expected System fallback, got %q", events[0].ActorName)
	}
	if events[0].ActorID != "" {
		t.Fatalf("expected empty actor id, got %q", events[0].ActorID)
	}
}

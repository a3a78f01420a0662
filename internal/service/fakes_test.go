package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"petadoption/internal/model"
	"petadoption/pkg/apperr"

	"gorm.io/gorm"
)

// -------------------------
// In-memory store shared by the fake repositories. The fake transaction
// manager snapshots it before each unit of work and restores it when the
// callback fails, which mirrors rollback semantics closely enough for the
// service-level tests.
// -------------------------

type fakeStore struct {
	users     map[int64]model.User
	pets      map[int64]model.Pet
	apps      map[int64]model.AdoptionApplication
	adoptions map[int64]model.Adoption
	events    []model.AdoptionEvent

	// Failure injection knobs. Zero-rows knobs simulate a write that
	// succeeds but touches nothing.
	petUpdateErr           error
	petUpdateZeroRows      bool
	appUpdateErr           error
	appUpdateZeroRows      bool
	adoptionCreateErr      error
	adoptionCreateZeroRows bool
	eventLogErr            error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     map[int64]model.User{},
		pets:      map[int64]model.Pet{},
		apps:      map[int64]model.AdoptionApplication{},
		adoptions: map[int64]model.Adoption{},
	}
}

func (s *fakeStore) nextPetID() int64 {
	var max int64
	for id := range s.pets {
		if id > max {
			max = id
		}
	}
	return max + 1
}

func (s *fakeStore) nextAppID() int64 {
	var max int64
	for id := range s.apps {
		if id > max {
			max = id
		}
	}
	return max + 1
}

func (s *fakeStore) nextAdoptionID() int64 {
	var max int64
	for id := range s.adoptions {
		if id > max {
			max = id
		}
	}
	return max + 1
}

func (s *fakeStore) snapshot() *fakeStore {
	cp := newFakeStore()
	for k, v := range s.users {
		cp.users[k] = v
	}
	for k, v := range s.pets {
		cp.pets[k] = v
	}
	for k, v := range s.apps {
		cp.apps[k] = v
	}
	for k, v := range s.adoptions {
		cp.adoptions[k] = v
	}
	cp.events = append([]model.AdoptionEvent{}, s.events...)
	return cp
}

func (s *fakeStore) restore(snap *fakeStore) {
	s.users = snap.users
	s.pets = snap.pets
	s.apps = snap.apps
	s.adoptions = snap.adoptions
	s.events = snap.events
}

// eventActions returns the recorded actions in order, for assertions.
func (s *fakeStore) eventActions() []string {
	out := make([]string, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Action)
	}
	return out
}

// -------------------------
// Fake transaction manager
// -------------------------

type fakeTxManager struct {
	store *fakeStore
}

func (m *fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	snap := m.store.snapshot()
	if err := fn(ctx); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}

// -------------------------
// Fake repositories
// -------------------------

type fakePetRepo struct {
	store *fakeStore
}

func (r *fakePetRepo) Create(_ context.Context, pet *model.Pet) error {
	pet.ID = r.store.nextPetID()
	r.store.pets[pet.ID] = *pet
	return nil
}

func (r *fakePetRepo) GetByID(_ context.Context, id int64) (*model.Pet, error) {
	pet, ok := r.store.pets[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	p := pet
	return &p, nil
}

func (r *fakePetRepo) GetByIDForUpdate(ctx context.Context, id int64) (*model.Pet, error) {
	return r.GetByID(ctx, id)
}

func (r *fakePetRepo) ListAvailable(_ context.Context, _, _ int) ([]model.Pet, int64, error) {
	out := []model.Pet{}
	for _, p := range r.store.pets {
		if p.Status == model.PetStatusAvailable {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakePetRepo) ListByShelter(_ context.Context, shelterID int64, _, _ int) ([]model.Pet, int64, error) {
	out := []model.Pet{}
	for _, p := range r.store.pets {
		if p.ShelterID == shelterID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakePetRepo) UpdateStatus(_ context.Context, id int64, status string) (int64, error) {
	if r.store.petUpdateErr != nil {
		return 0, r.store.petUpdateErr
	}
	if r.store.petUpdateZeroRows {
		return 0, nil
	}
	pet, ok := r.store.pets[id]
	if !ok {
		return 0, nil
	}
	pet.Status = status
	r.store.pets[id] = pet
	return 1, nil
}

func (r *fakePetRepo) UpdateAdoptionStatus(_ context.Context, id int64, status string, adoptionDate *time.Time) (int64, error) {
	if r.store.petUpdateErr != nil {
		return 0, r.store.petUpdateErr
	}
	if r.store.petUpdateZeroRows {
		return 0, nil
	}
	pet, ok := r.store.pets[id]
	if !ok {
		return 0, nil
	}
	pet.Status = status
	pet.AdoptionDate = adoptionDate
	r.store.pets[id] = pet
	return 1, nil
}

func (r *fakePetRepo) CountByShelterAndStatus(_ context.Context, shelterID int64, status string) (int64, error) {
	var count int64
	for _, p := range r.store.pets {
		if p.ShelterID == shelterID && p.Status == status {
			count++
		}
	}
	return count, nil
}

type fakeApplicationRepo struct {
	store *fakeStore
}

func (r *fakeApplicationRepo) Create(_ context.Context, app *model.AdoptionApplication) error {
	for _, existing := range r.store.apps {
		if existing.PetID == app.PetID && existing.AdopterID == app.AdopterID {
			return errors.New("UNIQUE constraint failed: adoption_applications.pet_id, adoption_applications.adopter_id")
		}
	}
	app.ID = r.store.nextAppID()
	r.store.apps[app.ID] = *app
	return nil
}

func (r *fakeApplicationRepo) GetByID(_ context.Context, id int64) (*model.AdoptionApplication, error) {
	app, ok := r.store.apps[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	a := app
	return &a, nil
}

func (r *fakeApplicationRepo) GetByIDForUpdate(ctx context.Context, id int64) (*model.AdoptionApplication, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeApplicationRepo) ListByAdopter(_ context.Context, adopterID int64) ([]model.AdoptionApplication, error) {
	out := []model.AdoptionApplication{}
	for _, a := range r.store.apps {
		if a.AdopterID != adopterID {
			continue
		}
		if pet, ok := r.store.pets[a.PetID]; ok {
			p := pet
			a.Pet = &p
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeApplicationRepo) ListByPet(_ context.Context, petID int64) ([]model.AdoptionApplication, error) {
	out := []model.AdoptionApplication{}
	for _, a := range r.store.apps {
		if a.PetID != petID {
			continue
		}
		if adopter, ok := r.store.users[a.AdopterID]; ok {
			u := adopter
			a.Adopter = &u
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeApplicationRepo) ListPendingByShelter(_ context.Context, shelterID int64, _, _ int) ([]model.AdoptionApplication, int64, error) {
	out := []model.AdoptionApplication{}
	for _, a := range r.store.apps {
		if a.Status != model.ApplicationStatusPending {
			continue
		}
		pet, ok := r.store.pets[a.PetID]
		if !ok || pet.ShelterID != shelterID {
			continue
		}
		p := pet
		a.Pet = &p
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ApplicationDate.Before(out[j].ApplicationDate) })
	return out, int64(len(out)), nil
}

func (r *fakeApplicationRepo) CountPendingByPet(_ context.Context, petID int64) (int64, error) {
	var count int64
	for _, a := range r.store.apps {
		if a.PetID == petID && a.Status == model.ApplicationStatusPending {
			count++
		}
	}
	return count, nil
}

func (r *fakeApplicationRepo) UpdateDecision(_ context.Context, id int64, status, notes string, reviewedBy int64, reviewDate time.Time) (int64, error) {
	if r.store.appUpdateErr != nil {
		return 0, r.store.appUpdateErr
	}
	if r.store.appUpdateZeroRows {
		return 0, nil
	}
	app, ok := r.store.apps[id]
	if !ok {
		return 0, nil
	}
	app.Status = status
	app.ReviewNotes = notes
	rb := reviewedBy
	app.ReviewedBy = &rb
	rd := reviewDate
	app.ReviewDate = &rd
	r.store.apps[id] = app
	return 1, nil
}

func (r *fakeApplicationRepo) UpdateStatus(_ context.Context, id int64, status, notes string) (int64, error) {
	if r.store.appUpdateErr != nil {
		return 0, r.store.appUpdateErr
	}
	if r.store.appUpdateZeroRows {
		return 0, nil
	}
	app, ok := r.store.apps[id]
	if !ok {
		return 0, nil
	}
	app.Status = status
	app.ReviewNotes = notes
	r.store.apps[id] = app
	return 1, nil
}

type fakeAdoptionRepo struct {
	store *fakeStore
}

func (r *fakeAdoptionRepo) Create(_ context.Context, adoption *model.Adoption) (int64, error) {
	if r.store.adoptionCreateErr != nil {
		return 0, r.store.adoptionCreateErr
	}
	if r.store.adoptionCreateZeroRows {
		return 0, nil
	}
	adoption.ID = r.store.nextAdoptionID()
	r.store.adoptions[adoption.ID] = *adoption
	return 1, nil
}

func (r *fakeAdoptionRepo) GetByID(_ context.Context, id int64) (*model.Adoption, error) {
	adoption, ok := r.store.adoptions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	a := adoption
	return &a, nil
}

func (r *fakeAdoptionRepo) ListByAdopter(_ context.Context, adopterID int64) ([]model.Adoption, error) {
	out := []model.Adoption{}
	for _, a := range r.store.adoptions {
		if a.AdopterID != adopterID {
			continue
		}
		if pet, ok := r.store.pets[a.PetID]; ok {
			p := pet
			a.Pet = &p
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeAdoptionRepo) ListCompleted(_ context.Context, _, _ int) ([]model.Adoption, int64, error) {
	out := []model.Adoption{}
	for _, a := range r.store.adoptions {
		if pet, ok := r.store.pets[a.PetID]; ok {
			p := pet
			if shelter, ok := r.store.users[p.ShelterID]; ok {
				u := shelter
				p.Shelter = &u
			}
			a.Pet = &p
		}
		if adopter, ok := r.store.users[a.AdopterID]; ok {
			u := adopter
			a.Adopter = &u
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AdoptionDate.After(out[j].AdoptionDate) })
	return out, int64(len(out)), nil
}

func (r *fakeAdoptionRepo) CountByPet(_ context.Context, petID int64) (int64, error) {
	var count int64
	for _, a := range r.store.adoptions {
		if a.PetID == petID {
			count++
		}
	}
	return count, nil
}

type fakeEventRepo struct {
	store *fakeStore
}

func (r *fakeEventRepo) Log(_ context.Context, event *model.AdoptionEvent) error {
	if r.store.eventLogErr != nil {
		return r.store.eventLogErr
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	r.store.events = append(r.store.events, *event)
	return nil
}

func (r *fakeEventRepo) List(_ context.Context, _, _ int) ([]model.AdoptionEvent, int64, error) {
	out := make([]model.AdoptionEvent, 0, len(r.store.events))
	for i := len(r.store.events) - 1; i >= 0; i-- {
		e := r.store.events[i]
		if e.ActorID != nil {
			if actor, ok := r.store.users[*e.ActorID]; ok {
				u := actor
				e.Actor = &u
			}
		}
		out = append(out, e)
	}
	return out, int64(len(r.store.events)), nil
}

func (r *fakeEventRepo) ListByEntity(_ context.Context, entityType string, entityID int64) ([]model.AdoptionEvent, error) {
	out := []model.AdoptionEvent{}
	for i := len(r.store.events) - 1; i >= 0; i-- {
		e := r.store.events[i]
		if e.EntityType != entityType || e.EntityID != entityID {
			continue
		}
		if e.ActorID != nil {
			if actor, ok := r.store.users[*e.ActorID]; ok {
				u := actor
				e.Actor = &u
			}
		}
		out = append(out, e)
	}
	return out, nil
}

// -------------------------
// Wiring helpers
// -------------------------

func newTestAdoptionService(store *fakeStore) AdoptionService {
	return NewAdoptionService(
		&fakePetRepo{store},
		&fakeApplicationRepo{store},
		&fakeAdoptionRepo{store},
		&fakeEventRepo{store},
		&fakeTxManager{store},
		NewCustodyGuard(NewShelterCustodians()),
		nil,
	)
}

func newTestPetService(store *fakeStore) PetService {
	return NewPetService(
		&fakePetRepo{store},
		&fakeEventRepo{store},
		&fakeTxManager{store},
		NewCustodyGuard(NewShelterCustodians()),
		nil,
	)
}

func assertKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := apperr.KindOf(err); got != kind {
		t.Fatalf("expected %s error, got %s: %v", kind, got, err)
	}
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"petadoption/internal/model"
	"petadoption/internal/repository"
	ws "petadoption/internal/websocket"
	"petadoption/pkg/apperr"

	"gorm.io/gorm"
)

// DTOs
type SubmitApplicationRequest struct {
	PetID                 int64  `json:"pet_id" binding:"required,gt=0"`
	ApplicationText       string `json:"application_text" binding:"required"`
	ReasonForAdoption     string `json:"reason_for_adoption"`
	HousingType           string `json:"housing_type"`
	HasYard               bool   `json:"has_yard"`
	HouseholdMembers      int    `json:"household_members"`
	PreviousPetExperience string `json:"previous_pet_experience"`
}

type FinalizeAdoptionRequest struct {
	PetID        int64  `json:"pet_id" binding:"required,gt=0"`
	DecisionDate string `json:"decision_date"` // YYYY-MM-DD, defaults to today
	Notes        string `json:"notes"`
}

type RejectApplicationRequest struct {
	Notes string `json:"notes" binding:"required"`
}

type ApplicationResponse struct {
	ID                    int64      `json:"id"`
	PetID                 int64      `json:"pet_id"`
	PetName               string     `json:"pet_name,omitempty"`
	AdopterID             int64      `json:"adopter_id"`
	AdopterName           string     `json:"adopter_name,omitempty"`
	Status                string     `json:"status"`
	ApplicationDate       time.Time  `json:"application_date"`
	ApplicationText       string     `json:"application_text"`
	ReasonForAdoption     string     `json:"reason_for_adoption,omitempty"`
	HousingType           string     `json:"housing_type,omitempty"`
	HasYard               bool       `json:"has_yard"`
	HouseholdMembers      int        `json:"household_members"`
	PreviousPetExperience string     `json:"previous_pet_experience,omitempty"`
	ReviewNotes           string     `json:"review_notes,omitempty"`
	ReviewedBy            *int64     `json:"reviewed_by,omitempty"`
	ReviewDate            *time.Time `json:"review_date,omitempty"`
}

type AdoptionResponse struct {
	ID             int64     `json:"id"`
	PetID          int64     `json:"pet_id"`
	PetName        string    `json:"pet_name,omitempty"`
	AdopterID      int64     `json:"adopter_id"`
	AdoptionDate   time.Time `json:"adoption_date"`
	ContractSigned bool      `json:"contract_signed"`
}

type HappyFamilyResponse struct {
	PetName      string    `json:"pet_name"`
	Species      string    `json:"species"`
	Breed        string    `json:"breed,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	AdopterName  string    `json:"adopter_name"`
	ShelterName  string    `json:"shelter_name,omitempty"`
	AdoptionDate time.Time `json:"adoption_date"`
}

type AdoptionService interface {
	SubmitApplication(ctx context.Context, adopterID int64, req SubmitApplicationRequest) (ApplicationResponse, error)
	WithdrawApplication(ctx context.Context, applicationID, adopterID int64) error
	RejectApplication(ctx context.Context, applicationID, reviewerID int64, notes string) (ApplicationResponse, error)
	FinalizeAdoption(ctx context.Context, petID, applicationID int64, decisionDate time.Time, notes string, reviewerID int64) (AdoptionResponse, error)
	ListMyApplications(ctx context.Context, adopterID int64) ([]ApplicationResponse, error)
	ListApplicationsForPet(ctx context.Context, petID, reviewerID int64) ([]ApplicationResponse, error)
	ListPendingForShelter(ctx context.Context, shelterID int64, page, limit int) ([]ApplicationResponse, int64, error)
	ListMyAdoptedPets(ctx context.Context, adopterID int64) ([]AdoptionResponse, error)
	ListHappyFamilies(ctx context.Context, page, limit int) ([]HappyFamilyResponse, int64, error)
}

type adoptionService struct {
	petRepo      repository.PetRepository
	appRepo      repository.ApplicationRepository
	adoptionRepo repository.AdoptionRepository
	eventRepo    repository.EventRepository
	txManager    repository.TransactionManager
	guard        *CustodyGuard
	hub          *ws.Hub
}

func NewAdoptionService(
	petRepo repository.PetRepository,
	appRepo repository.ApplicationRepository,
	adoptionRepo repository.AdoptionRepository,
	eventRepo repository.EventRepository,
	txManager repository.TransactionManager,
	guard *CustodyGuard,
	hub *ws.Hub,
) AdoptionService {
	return &adoptionService{
		petRepo:      petRepo,
		appRepo:      appRepo,
		adoptionRepo: adoptionRepo,
		eventRepo:    eventRepo,
		txManager:    txManager,
		guard:        guard,
		hub:          hub,
	}
}

func (s *adoptionService) SubmitApplication(ctx context.Context, adopterID int64, req SubmitApplicationRequest) (ApplicationResponse, error) {
	if req.PetID <= 0 {
		return ApplicationResponse{}, apperr.InvalidArgument("pet id must be positive, got %d", req.PetID)
	}
	if adopterID <= 0 {
		return ApplicationResponse{}, apperr.InvalidArgument("adopter id must be positive, got %d", adopterID)
	}

	pet, err := s.petRepo.GetByID(ctx, req.PetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ApplicationResponse{}, apperr.NotFound("pet %d not found", req.PetID)
		}
		return ApplicationResponse{}, apperr.StorageFailure("failed to load pet", err)
	}

	// Applications are only accepted while the pet is actually adoptable.
	if pet.Status != model.PetStatusAvailable {
		return ApplicationResponse{}, apperr.InvalidState("pet %d is not available for adoption (status %s)", pet.ID, pet.Status)
	}

	if req.HouseholdMembers < 1 {
		req.HouseholdMembers = 1
	}

	app := model.AdoptionApplication{
		PetID:                 req.PetID,
		AdopterID:             adopterID,
		Status:                model.ApplicationStatusPending,
		ApplicationDate:       time.Now(),
		ApplicationText:       req.ApplicationText,
		ReasonForAdoption:     req.ReasonForAdoption,
		HousingType:           req.HousingType,
		HasYard:               req.HasYard,
		HouseholdMembers:      req.HouseholdMembers,
		PreviousPetExperience: req.PreviousPetExperience,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.appRepo.Create(txCtx, &app); createErr != nil {
			if repository.IsDuplicateKey(createErr) {
				return apperr.InvalidState("user %d has already applied for pet %d", adopterID, req.PetID)
			}
			return apperr.StorageFailure("failed to create application", createErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"pet_id":     req.PetID,
			"adopter_id": adopterID,
		})
		event := &model.AdoptionEvent{
			ActorID:    &adopterID,
			Action:     model.ActionSubmitApplication,
			EntityType: model.EntityTypeApplication,
			EntityID:   app.ID,
			Details:    string(details),
		}
		if logErr := s.eventRepo.Log(txCtx, event); logErr != nil {
			return apperr.StorageFailure("failed to record application event", logErr)
		}

		return nil
	})
	if err != nil {
		if apperr.KindOf(err) == apperr.KindUnknown {
			return ApplicationResponse{}, apperr.StorageFailure("application submission did not commit", err)
		}
		return ApplicationResponse{}, err
	}

	// Dashboard payload carries the pet's pending queue depth; best effort,
	// a count failure only degrades the feed.
	pending, countErr := s.appRepo.CountPendingByPet(ctx, req.PetID)
	if countErr != nil {
		log.Printf("failed to count pending applications for pet %d: %v", req.PetID, countErr)
	}
	s.hub.BroadcastEvent("application_submitted", map[string]interface{}{
		"application_id":       app.ID,
		"pet_id":               pet.ID,
		"pet_name":             pet.Name,
		"pending_applications": pending,
	})

	res := toApplicationResponse(app)
	res.PetName = pet.Name
	return res, nil
}

func (s *adoptionService) WithdrawApplication(ctx context.Context, applicationID, adopterID int64) error {
	if applicationID <= 0 {
		return apperr.InvalidArgument("application id must be positive, got %d", applicationID)
	}

	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("application %d not found", applicationID)
		}
		return apperr.StorageFailure("failed to load application", err)
	}

	if app.AdopterID != adopterID {
		return apperr.AccessDenied("application %d does not belong to user %d", applicationID, adopterID)
	}
	if app.Status != model.ApplicationStatusPending {
		return apperr.InvalidState("application %d is already %s", applicationID, app.Status)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		rows, updateErr := s.appRepo.UpdateStatus(txCtx, applicationID, model.ApplicationStatusWithdrawn, model.WithdrawnNote)
		if updateErr != nil {
			return apperr.StorageFailure("failed to withdraw application", updateErr)
		}
		if rows != 1 {
			return apperr.StorageFailure("application withdrawal affected no rows", nil)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"pet_id": app.PetID,
		})
		event := &model.AdoptionEvent{
			ActorID:    &adopterID,
			Action:     model.ActionWithdrawApplication,
			EntityType: model.EntityTypeApplication,
			EntityID:   applicationID,
			Details:    string(details),
		}
		if logErr := s.eventRepo.Log(txCtx, event); logErr != nil {
			return apperr.StorageFailure("failed to record withdrawal event", logErr)
		}

		return nil
	})
	if err != nil && apperr.KindOf(err) == apperr.KindUnknown {
		return apperr.StorageFailure("application withdrawal did not commit", err)
	}
	return err
}

func (s *adoptionService) RejectApplication(ctx context.Context, applicationID, reviewerID int64, notes string) (ApplicationResponse, error) {
	if applicationID <= 0 {
		return ApplicationResponse{}, apperr.InvalidArgument("application id must be positive, got %d", applicationID)
	}

	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ApplicationResponse{}, apperr.NotFound("application %d not found", applicationID)
		}
		return ApplicationResponse{}, apperr.StorageFailure("failed to load application", err)
	}

	if app.Status != model.ApplicationStatusPending {
		return ApplicationResponse{}, apperr.InvalidState("application %d is already %s", applicationID, app.Status)
	}

	pet, err := s.petRepo.GetByID(ctx, app.PetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ApplicationResponse{}, apperr.NotFound("pet %d not found", app.PetID)
		}
		return ApplicationResponse{}, apperr.StorageFailure("failed to load pet", err)
	}

	if guardErr := s.guard.RequireCustodian(ctx, pet, reviewerID); guardErr != nil {
		log.Printf("denied application rejection: user %d attempted to reject application %d for pet %d", reviewerID, applicationID, pet.ID)
		return ApplicationResponse{}, guardErr
	}

	reviewDate := time.Now()
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		rows, updateErr := s.appRepo.UpdateDecision(txCtx, applicationID, model.ApplicationStatusRejected, notes, reviewerID, reviewDate)
		if updateErr != nil {
			return apperr.StorageFailure("failed to reject application", updateErr)
		}
		if rows != 1 {
			return apperr.StorageFailure("application rejection affected no rows", nil)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"pet_id": app.PetID,
			"notes":  notes,
		})
		event := &model.AdoptionEvent{
			ActorID:    &reviewerID,
			Action:     model.ActionRejectApplication,
			EntityType: model.EntityTypeApplication,
			EntityID:   applicationID,
			Details:    string(details),
		}
		if logErr := s.eventRepo.Log(txCtx, event); logErr != nil {
			return apperr.StorageFailure("failed to record rejection event", logErr)
		}

		return nil
	})
	if err != nil {
		if apperr.KindOf(err) == apperr.KindUnknown {
			return ApplicationResponse{}, apperr.StorageFailure("application rejection did not commit", err)
		}
		return ApplicationResponse{}, err
	}

	app.Status = model.ApplicationStatusRejected
	app.ReviewNotes = notes
	app.ReviewedBy = &reviewerID
	app.ReviewDate = &reviewDate

	res := toApplicationResponse(*app)
	res.PetName = pet.Name
	return res, nil
}

// FinalizeAdoption approves an application and completes the adoption in a
// single transaction. Preconditions are checked in a fixed order: argument
// validity, pet existence, reviewer custody, then application existence.
// Custody is checked before the application is loaded so that callers who
// are not the pet's custodian cannot probe which application ids exist.
func (s *adoptionService) FinalizeAdoption(ctx context.Context, petID, applicationID int64, decisionDate time.Time, notes string, reviewerID int64) (AdoptionResponse, error) {
	if petID <= 0 {
		return AdoptionResponse{}, apperr.InvalidArgument("pet id must be positive, got %d", petID)
	}
	if applicationID <= 0 {
		return AdoptionResponse{}, apperr.InvalidArgument("application id must be positive, got %d", applicationID)
	}

	pet, err := s.petRepo.GetByID(ctx, petID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AdoptionResponse{}, apperr.NotFound("pet %d not found", petID)
		}
		return AdoptionResponse{}, apperr.StorageFailure("failed to load pet", err)
	}

	if guardErr := s.guard.RequireCustodian(ctx, pet, reviewerID); guardErr != nil {
		log.Printf("denied adoption finalization: user %d attempted to finalize pet %d", reviewerID, petID)
		s.recordDeniedFinalization(ctx, petID, applicationID, reviewerID, guardErr)
		return AdoptionResponse{}, guardErr
	}

	if _, err := s.appRepo.GetByID(ctx, applicationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AdoptionResponse{}, apperr.NotFound("application %d not found", applicationID)
		}
		return AdoptionResponse{}, apperr.StorageFailure("failed to load application", err)
	}

	if decisionDate.IsZero() {
		decisionDate = time.Now()
	}
	now := time.Now()
	adoptionAt := time.Date(decisionDate.Year(), decisionDate.Month(), decisionDate.Day(),
		now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), now.Location())

	var adoption model.Adoption
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		// Re-read both rows under row locks so concurrent finalizations of
		// the same pet serialize and the loser sees the committed state.
		lockedPet, lockErr := s.petRepo.GetByIDForUpdate(txCtx, petID)
		if lockErr != nil {
			if errors.Is(lockErr, gorm.ErrRecordNotFound) {
				return apperr.NotFound("pet %d not found", petID)
			}
			return apperr.StorageFailure("failed to lock pet", lockErr)
		}

		lockedApp, lockErr := s.appRepo.GetByIDForUpdate(txCtx, applicationID)
		if lockErr != nil {
			if errors.Is(lockErr, gorm.ErrRecordNotFound) {
				return apperr.NotFound("application %d not found", applicationID)
			}
			return apperr.StorageFailure("failed to lock application", lockErr)
		}

		if lockedApp.PetID != petID {
			return apperr.InvalidArgument("application %d does not belong to pet %d", applicationID, petID)
		}
		if lockedApp.Status != model.ApplicationStatusPending {
			return apperr.InvalidState("application %d is already %s", applicationID, lockedApp.Status)
		}
		if lockedPet.Status == model.PetStatusAdopted {
			return apperr.InvalidState("pet %d is already adopted", petID)
		}

		// Write 1: mark the pet adopted.
		rows, writeErr := s.petRepo.UpdateAdoptionStatus(txCtx, petID, model.PetStatusAdopted, &adoptionAt)
		if writeErr != nil {
			return apperr.StorageFailure("failed to update pet status", writeErr)
		}
		if rows != 1 {
			return apperr.StorageFailure("pet status update affected no rows", nil)
		}

		// Write 2: approve the application and record the decision.
		rows, writeErr = s.appRepo.UpdateDecision(txCtx, applicationID, model.ApplicationStatusApproved, notes, reviewerID, now)
		if writeErr != nil {
			return apperr.StorageFailure("failed to approve application", writeErr)
		}
		if rows != 1 {
			return apperr.StorageFailure("application approval affected no rows", nil)
		}

		// Write 3: create the adoption record.
		adoption = model.Adoption{
			PetID:          petID,
			AdopterID:      lockedApp.AdopterID,
			AdoptionDate:   adoptionAt,
			ContractSigned: true,
		}
		rows, writeErr = s.adoptionRepo.Create(txCtx, &adoption)
		if writeErr != nil {
			return apperr.StorageFailure("failed to create adoption record", writeErr)
		}
		if rows != 1 {
			return apperr.StorageFailure("adoption insert affected no rows", nil)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"pet_id":         petID,
			"application_id": applicationID,
			"adopter_id":     lockedApp.AdopterID,
			"adoption_date":  adoptionAt,
		})
		event := &model.AdoptionEvent{
			ActorID:    &reviewerID,
			Action:     model.ActionFinalizeAdoption,
			EntityType: model.EntityTypeAdoption,
			EntityID:   adoption.ID,
			Details:    string(details),
		}
		if logErr := s.eventRepo.Log(txCtx, event); logErr != nil {
			return apperr.StorageFailure("failed to record finalization event", logErr)
		}

		return nil
	})
	if err != nil {
		if apperr.KindOf(err) == apperr.KindUnknown {
			return AdoptionResponse{}, apperr.StorageFailure("adoption finalization did not commit", err)
		}
		return AdoptionResponse{}, err
	}

	s.hub.BroadcastEvent("adoption_finalized", map[string]interface{}{
		"adoption_id": adoption.ID,
		"pet_id":      petID,
		"pet_name":    pet.Name,
		"adopter_id":  adoption.AdopterID,
	})

	return AdoptionResponse{
		ID:             adoption.ID,
		PetID:          petID,
		PetName:        pet.Name,
		AdopterID:      adoption.AdopterID,
		AdoptionDate:   adoption.AdoptionDate,
		ContractSigned: adoption.ContractSigned,
	}, nil
}

func (s *adoptionService) ListMyApplications(ctx context.Context, adopterID int64) ([]ApplicationResponse, error) {
	apps, err := s.appRepo.ListByAdopter(ctx, adopterID)
	if err != nil {
		return nil, apperr.StorageFailure("failed to list applications", err)
	}

	res := make([]ApplicationResponse, 0, len(apps))
	for _, a := range apps {
		res = append(res, toApplicationResponse(a))
	}
	return res, nil
}

func (s *adoptionService) ListApplicationsForPet(ctx context.Context, petID, reviewerID int64) ([]ApplicationResponse, error) {
	if petID <= 0 {
		return nil, apperr.InvalidArgument("pet id must be positive, got %d", petID)
	}

	pet, err := s.petRepo.GetByID(ctx, petID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("pet %d not found", petID)
		}
		return nil, apperr.StorageFailure("failed to load pet", err)
	}

	if guardErr := s.guard.RequireCustodian(ctx, pet, reviewerID); guardErr != nil {
		return nil, guardErr
	}

	apps, err := s.appRepo.ListByPet(ctx, petID)
	if err != nil {
		return nil, apperr.StorageFailure("failed to list applications", err)
	}

	res := make([]ApplicationResponse, 0, len(apps))
	for _, a := range apps {
		res = append(res, toApplicationResponse(a))
	}
	return res, nil
}

func (s *adoptionService) ListPendingForShelter(ctx context.Context, shelterID int64, page, limit int) ([]ApplicationResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	apps, total, err := s.appRepo.ListPendingByShelter(ctx, shelterID, page, limit)
	if err != nil {
		return nil, 0, apperr.StorageFailure("failed to list pending applications", err)
	}

	res := make([]ApplicationResponse, 0, len(apps))
	for _, a := range apps {
		res = append(res, toApplicationResponse(a))
	}
	return res, total, nil
}

func (s *adoptionService) ListMyAdoptedPets(ctx context.Context, adopterID int64) ([]AdoptionResponse, error) {
	adoptions, err := s.adoptionRepo.ListByAdopter(ctx, adopterID)
	if err != nil {
		return nil, apperr.StorageFailure("failed to list adoptions", err)
	}

	res := make([]AdoptionResponse, 0, len(adoptions))
	for _, a := range adoptions {
		r := AdoptionResponse{
			ID:             a.ID,
			PetID:          a.PetID,
			AdopterID:      a.AdopterID,
			AdoptionDate:   a.AdoptionDate,
			ContractSigned: a.ContractSigned,
		}
		if a.Pet != nil {
			r.PetName = a.Pet.Name
		}
		res = append(res, r)
	}
	return res, nil
}

func (s *adoptionService) ListHappyFamilies(ctx context.Context, page, limit int) ([]HappyFamilyResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	adoptions, total, err := s.adoptionRepo.ListCompleted(ctx, page, limit)
	if err != nil {
		return nil, 0, apperr.StorageFailure("failed to list adoptions", err)
	}

	res := make([]HappyFamilyResponse, 0, len(adoptions))
	for _, a := range adoptions {
		r := HappyFamilyResponse{AdoptionDate: a.AdoptionDate}
		if a.Pet != nil {
			r.PetName = a.Pet.Name
			r.Species = a.Pet.Species
			r.Breed = a.Pet.Breed
			r.ImageURL = a.Pet.ImageURL
			if a.Pet.Shelter != nil {
				r.ShelterName = a.Pet.Shelter.ShelterName
			}
		}
		if a.Adopter != nil {
			r.AdopterName = a.Adopter.FullName
		}
		res = append(res, r)
	}
	return res, total, nil
}

// recordDeniedFinalization writes the denied attempt to the event trail
// outside any transaction. Best effort; a failure here must not change the
// error returned to the caller.
func (s *adoptionService) recordDeniedFinalization(ctx context.Context, petID, applicationID, reviewerID int64, cause error) {
	details, _ := json.Marshal(map[string]interface{}{
		"pet_id":         petID,
		"application_id": applicationID,
		"reason":         cause.Error(),
	})
	event := &model.AdoptionEvent{
		ActorID:    &reviewerID,
		Action:     model.ActionFinalizeDenied,
		EntityType: model.EntityTypePet,
		EntityID:   petID,
		Details:    string(details),
	}
	if err := s.eventRepo.Log(ctx, event); err != nil {
		log.Printf("failed to record denied finalization attempt: %v", err)
	}
}

func toApplicationResponse(a model.AdoptionApplication) ApplicationResponse {
	res := ApplicationResponse{
		ID:                    a.ID,
		PetID:                 a.PetID,
		AdopterID:             a.AdopterID,
		Status:                a.Status,
		ApplicationDate:       a.ApplicationDate,
		ApplicationText:       a.ApplicationText,
		ReasonForAdoption:     a.ReasonForAdoption,
		HousingType:           a.HousingType,
		HasYard:               a.HasYard,
		HouseholdMembers:      a.HouseholdMembers,
		PreviousPetExperience: a.PreviousPetExperience,
		ReviewNotes:           a.ReviewNotes,
		ReviewedBy:            a.ReviewedBy,
		ReviewDate:            a.ReviewDate,
	}
	if a.Pet != nil {
		res.PetName = a.Pet.Name
	}
	if a.Adopter != nil {
		res.AdopterName = a.Adopter.FullName
	}
	return res
}

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

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DTOs
type CreatePetRequest struct {
	Name              string `json:"name" binding:"required"`
	Species           string `json:"species" binding:"required"`
	Breed             string `json:"breed"`
	Gender            string `json:"gender" binding:"omitempty,oneof=MALE FEMALE UNKNOWN"`
	AgeYears          int    `json:"age_years" binding:"min=0"`
	AgeMonths         int    `json:"age_months" binding:"min=0,max=11"`
	WeightKg          string `json:"weight_kg"`
	Description       string `json:"description"`
	SpecialNeeds      string `json:"special_needs"`
	VaccinationStatus string `json:"vaccination_status" binding:"omitempty,oneof=NOT_VACCINATED PARTIALLY_VACCINATED FULLY_VACCINATED"`
	MicrochipNumber   string `json:"microchip_number"`
	AdoptionFee       string `json:"adoption_fee"`
	ImageURL          string `json:"image_url"`
}

type PetResponse struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	Species           string     `json:"species"`
	Breed             string     `json:"breed,omitempty"`
	Gender            string     `json:"gender"`
	AgeYears          int        `json:"age_years"`
	AgeMonths         int        `json:"age_months"`
	WeightKg          string     `json:"weight_kg"`
	Description       string     `json:"description,omitempty"`
	SpecialNeeds      string     `json:"special_needs,omitempty"`
	VaccinationStatus string     `json:"vaccination_status"`
	MicrochipNumber   string     `json:"microchip_number,omitempty"`
	AdoptionFee       string     `json:"adoption_fee"`
	ImageURL          string     `json:"image_url,omitempty"`
	Status            string     `json:"status"`
	ShelterID         int64      `json:"shelter_id"`
	ShelterName       string     `json:"shelter_name,omitempty"`
	IntakeDate        *time.Time `json:"intake_date,omitempty"`
	AdoptionDate      *time.Time `json:"adoption_date,omitempty"`
}

type PetService interface {
	CreatePet(ctx context.Context, shelterID int64, req CreatePetRequest) (PetResponse, error)
	GetPet(ctx context.Context, id int64) (PetResponse, error)
	ListAvailablePets(ctx context.Context, page, limit int) ([]PetResponse, int64, error)
	ListShelterPets(ctx context.Context, shelterID int64, page, limit int) ([]PetResponse, int64, error)
	ArchivePet(ctx context.Context, petID, shelterID int64) error
}

type petService struct {
	petRepo   repository.PetRepository
	eventRepo repository.EventRepository
	txManager repository.TransactionManager
	guard     *CustodyGuard
	hub       *ws.Hub
}

func NewPetService(
	petRepo repository.PetRepository,
	eventRepo repository.EventRepository,
	txManager repository.TransactionManager,
	guard *CustodyGuard,
	hub *ws.Hub,
) PetService {
	return &petService{
		petRepo:   petRepo,
		eventRepo: eventRepo,
		txManager: txManager,
		guard:     guard,
		hub:       hub,
	}
}

func (s *petService) CreatePet(ctx context.Context, shelterID int64, req CreatePetRequest) (PetResponse, error) {
	fee := decimal.Zero
	if req.AdoptionFee != "" {
		parsed, err := decimal.NewFromString(req.AdoptionFee)
		if err != nil {
			return PetResponse{}, apperr.InvalidArgument("invalid adoption fee %q", req.AdoptionFee)
		}
		if parsed.IsNegative() {
			return PetResponse{}, apperr.InvalidArgument("adoption fee must not be negative")
		}
		fee = parsed
	}

	weight := decimal.Zero
	if req.WeightKg != "" {
		parsed, err := decimal.NewFromString(req.WeightKg)
		if err != nil {
			return PetResponse{}, apperr.InvalidArgument("invalid weight %q", req.WeightKg)
		}
		weight = parsed
	}

	gender := req.Gender
	if gender == "" {
		gender = model.PetGenderUnknown
	}
	vaccination := req.VaccinationStatus
	if vaccination == "" {
		vaccination = model.VaccinationNone
	}

	intake := time.Now()
	pet := model.Pet{
		Name:              req.Name,
		Species:           req.Species,
		Breed:             req.Breed,
		Gender:            gender,
		AgeYears:          req.AgeYears,
		AgeMonths:         req.AgeMonths,
		WeightKg:          weight,
		Description:       req.Description,
		SpecialNeeds:      req.SpecialNeeds,
		VaccinationStatus: vaccination,
		MicrochipNumber:   req.MicrochipNumber,
		AdoptionFee:       fee,
		ImageURL:          req.ImageURL,
		Status:            model.PetStatusAvailable,
		ShelterID:         shelterID,
		IntakeDate:        &intake,
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.petRepo.Create(txCtx, &pet); createErr != nil {
			return apperr.StorageFailure("failed to create pet", createErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"name":    pet.Name,
			"species": pet.Species,
		})
		event := &model.AdoptionEvent{
			ActorID:    &shelterID,
			Action:     model.ActionCreatePet,
			EntityType: model.EntityTypePet,
			EntityID:   pet.ID,
			Details:    string(details),
		}
		if logErr := s.eventRepo.Log(txCtx, event); logErr != nil {
			return apperr.StorageFailure("failed to record pet event", logErr)
		}

		return nil
	})
	if err != nil {
		if apperr.KindOf(err) == apperr.KindUnknown {
			return PetResponse{}, apperr.StorageFailure("pet creation did not commit", err)
		}
		return PetResponse{}, err
	}

	s.hub.BroadcastEvent("pet_registered", map[string]interface{}{
		"pet_id":  pet.ID,
		"name":    pet.Name,
		"species": pet.Species,
	})

	return toPetResponse(pet), nil
}

func (s *petService) GetPet(ctx context.Context, id int64) (PetResponse, error) {
	if id <= 0 {
		return PetResponse{}, apperr.InvalidArgument("pet id must be positive, got %d", id)
	}

	pet, err := s.petRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PetResponse{}, apperr.NotFound("pet %d not found", id)
		}
		return PetResponse{}, apperr.StorageFailure("failed to load pet", err)
	}

	return toPetResponse(*pet), nil
}

func (s *petService) ListAvailablePets(ctx context.Context, page, limit int) ([]PetResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	pets, total, err := s.petRepo.ListAvailable(ctx, page, limit)
	if err != nil {
		return nil, 0, apperr.StorageFailure("failed to list pets", err)
	}

	res := make([]PetResponse, 0, len(pets))
	for _, p := range pets {
		res = append(res, toPetResponse(p))
	}
	return res, total, nil
}

func (s *petService) ListShelterPets(ctx context.Context, shelterID int64, page, limit int) ([]PetResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	pets, total, err := s.petRepo.ListByShelter(ctx, shelterID, page, limit)
	if err != nil {
		return nil, 0, apperr.StorageFailure("failed to list pets", err)
	}

	res := make([]PetResponse, 0, len(pets))
	for _, p := range pets {
		res = append(res, toPetResponse(p))
	}
	return res, total, nil
}

// ArchivePet takes a pet off the adoptable listing without deleting its
// history. Adopted pets cannot be archived.
func (s *petService) ArchivePet(ctx context.Context, petID, shelterID int64) error {
	if petID <= 0 {
		return apperr.InvalidArgument("pet id must be positive, got %d", petID)
	}

	pet, err := s.petRepo.GetByID(ctx, petID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("pet %d not found", petID)
		}
		return apperr.StorageFailure("failed to load pet", err)
	}

	if guardErr := s.guard.RequireCustodian(ctx, pet, shelterID); guardErr != nil {
		return guardErr
	}

	if pet.Status == model.PetStatusAdopted {
		return apperr.InvalidState("pet %d is already adopted", petID)
	}
	if pet.Status == model.PetStatusArchived {
		return apperr.InvalidState("pet %d is already archived", petID)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		rows, updateErr := s.petRepo.UpdateStatus(txCtx, petID, model.PetStatusArchived)
		if updateErr != nil {
			return apperr.StorageFailure("failed to archive pet", updateErr)
		}
		if rows != 1 {
			return apperr.StorageFailure("pet archive affected no rows", nil)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"name": pet.Name,
		})
		event := &model.AdoptionEvent{
			ActorID:    &shelterID,
			Action:     model.ActionArchivePet,
			EntityType: model.EntityTypePet,
			EntityID:   petID,
			Details:    string(details),
		}
		if logErr := s.eventRepo.Log(txCtx, event); logErr != nil {
			return apperr.StorageFailure("failed to record archive event", logErr)
		}

		return nil
	})
	if err != nil {
		if apperr.KindOf(err) == apperr.KindUnknown {
			return apperr.StorageFailure("pet archive did not commit", err)
		}
		return err
	}

	// Best effort; the remaining-available count only feeds the dashboard.
	available, countErr := s.petRepo.CountByShelterAndStatus(ctx, shelterID, model.PetStatusAvailable)
	if countErr != nil {
		log.Printf("failed to count available pets for shelter %d: %v", shelterID, countErr)
	}
	s.hub.BroadcastEvent("pet_archived", map[string]interface{}{
		"pet_id":         petID,
		"name":           pet.Name,
		"available_pets": available,
	})

	return nil
}

// --- Mapping ---

func toPetResponse(p model.Pet) PetResponse {
	res := PetResponse{
		ID:                p.ID,
		Name:              p.Name,
		Species:           p.Species,
		Breed:             p.Breed,
		Gender:            p.Gender,
		AgeYears:          p.AgeYears,
		AgeMonths:         p.AgeMonths,
		WeightKg:          p.WeightKg.StringFixed(2),
		Description:       p.Description,
		SpecialNeeds:      p.SpecialNeeds,
		VaccinationStatus: p.VaccinationStatus,
		MicrochipNumber:   p.MicrochipNumber,
		AdoptionFee:       p.AdoptionFee.StringFixed(2),
		ImageURL:          p.ImageURL,
		Status:            p.Status,
		ShelterID:         p.ShelterID,
		IntakeDate:        p.IntakeDate,
		AdoptionDate:      p.AdoptionDate,
	}
	if p.Shelter != nil {
		res.ShelterName = p.Shelter.ShelterName
	}
	return res
}

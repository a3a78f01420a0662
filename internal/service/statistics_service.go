package service

import (
	"context"

	"petadoption/internal/model"

	"gorm.io/gorm"
)

type StatisticsService interface {
	GetShelterStatistics(ctx context.Context, shelterID int64) (model.ShelterStatisticsResponse, error)
}

type statisticsService struct {
	db *gorm.DB
}

func NewStatisticsService(db *gorm.DB) StatisticsService {
	return &statisticsService{db: db}
}

// GetShelterStatistics aggregates pipeline counts for one shelter's dashboard
func (s *statisticsService) GetShelterStatistics(ctx context.Context, shelterID int64) (model.ShelterStatisticsResponse, error) {
	var response model.ShelterStatisticsResponse
	response.ShelterID = shelterID

	// Pet counts by status
	type statusCount struct {
		Status string
		Count  int64
	}
	var statusCounts []statusCount
	if err := s.db.WithContext(ctx).Table("pets").
		Select("status, COUNT(*) as count").
		Where("shelter_id = ?", shelterID).
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return response, err
	}
	for _, sc := range statusCounts {
		switch sc.Status {
		case model.PetStatusAvailable:
			response.AvailablePets = sc.Count
		case model.PetStatusArchived:
			response.ArchivedPets = sc.Count
		case model.PetStatusAdopted:
			response.AdoptedPets = sc.Count
		}
	}

	// Applications still waiting for a decision
	if err := s.db.WithContext(ctx).Table("adoption_applications").
		Joins("JOIN pets ON pets.id = adoption_applications.pet_id").
		Where("pets.shelter_id = ? AND adoption_applications.status = ?", shelterID, model.ApplicationStatusPending).
		Count(&response.PendingApplications).Error; err != nil {
		return response, err
	}

	// Finalized adoptions
	if err := s.db.WithContext(ctx).Table("adoptions").
		Joins("JOIN pets ON pets.id = adoptions.pet_id").
		Where("pets.shelter_id = ?", shelterID).
		Count(&response.CompletedAdoptions).Error; err != nil {
		return response, err
	}

	// Most adopted species for this shelter
	var topSpecies []model.SpeciesCount
	if err := s.db.WithContext(ctx).Table("adoptions").
		Select("pets.species as species, COUNT(*) as count").
		Joins("JOIN pets ON pets.id = adoptions.pet_id").
		Where("pets.shelter_id = ?", shelterID).
		Group("pets.species").
		Order("count DESC").
		Limit(5).
		Scan(&topSpecies).Error; err != nil {
		return response, err
	}
	response.TopSpecies = topSpecies

	return response, nil
}

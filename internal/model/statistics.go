package model

// ShelterStatisticsResponse aggregates a shelter's adoption pipeline counts
type ShelterStatisticsResponse struct {
	ShelterID           int64          `json:"shelter_id"`
	AvailablePets       int64          `json:"available_pets"`
	ArchivedPets        int64          `json:"archived_pets"`
	AdoptedPets         int64          `json:"adopted_pets"`
	PendingApplications int64          `json:"pending_applications"`
	CompletedAdoptions  int64          `json:"completed_adoptions"`
	TopSpecies          []SpeciesCount `json:"top_species"`
}

// SpeciesCount represents a ranked species based on accumulated adoptions
type SpeciesCount struct {
	Species string `json:"species"`
	Count   int64  `json:"count"`
}

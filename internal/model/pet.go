package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PetStatus enum constants
const (
	PetStatusAvailable = "AVAILABLE"
	PetStatusPending   = "PENDING"
	PetStatusAdopted   = "ADOPTED"
	PetStatusArchived  = "ARCHIVED"
)

// PetGender enum constants
const (
	PetGenderMale    = "MALE"
	PetGenderFemale  = "FEMALE"
	PetGenderUnknown = "UNKNOWN"
)

// VaccinationStatus enum constants
const (
	VaccinationNone    = "NOT_VACCINATED"
	VaccinationPartial = "PARTIALLY_VACCINATED"
	VaccinationFull    = "FULLY_VACCINATED"
)

// Pet represents an adoptable animal in the custody of a shelter.
// Status moves AVAILABLE -> ADOPTED only through adoption finalization;
// AdoptionDate is written in the same step.
type Pet struct {
	ID                int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name              string          `gorm:"type:varchar(100);not null" json:"name"`
	Species           string          `gorm:"type:varchar(50);not null" json:"species"`
	Breed             string          `gorm:"type:varchar(100)" json:"breed"`
	Gender            string          `gorm:"type:varchar(10);not null;default:'UNKNOWN'" json:"gender"` // MALE, FEMALE, UNKNOWN
	AgeYears          int             `gorm:"default:0" json:"age_years"`
	AgeMonths         int             `gorm:"default:0" json:"age_months"` // remainder months, 0-11
	WeightKg          decimal.Decimal `gorm:"type:decimal(6,2);default:0" json:"weight_kg"`
	Description       string          `gorm:"type:text" json:"description"`
	SpecialNeeds      string          `gorm:"type:text" json:"special_needs"`
	VaccinationStatus string          `gorm:"type:varchar(30);not null;default:'NOT_VACCINATED'" json:"vaccination_status"`
	MicrochipNumber   string          `gorm:"type:varchar(50)" json:"microchip_number"`
	AdoptionFee       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"adoption_fee"`
	ImageURL          string          `gorm:"type:varchar(500)" json:"image_url"`
	Status            string          `gorm:"type:varchar(20);not null;default:'AVAILABLE';index" json:"status"`
	ShelterID         int64           `gorm:"not null;index" json:"shelter_id"`
	Shelter           *User           `gorm:"foreignKey:ShelterID" json:"shelter,omitempty"`
	IntakeDate        *time.Time      `json:"intake_date"`
	AdoptionDate      *time.Time      `json:"adoption_date"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

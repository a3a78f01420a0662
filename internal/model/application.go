package model

import "time"

// ApplicationStatus enum constants. PENDING is the only non-terminal status.
const (
	ApplicationStatusPending   = "PENDING"
	ApplicationStatusApproved  = "APPROVED"
	ApplicationStatusRejected  = "REJECTED"
	ApplicationStatusWithdrawn = "WITHDRAWN"
)

// WithdrawnNote is recorded on applications the applicant withdrew themselves
const WithdrawnNote = "Withdrawn by applicant"

// AdoptionApplication represents one adopter's request for one pet. The
// composite unique index keeps an adopter from filing twice for the same pet.
// ReviewedBy and ReviewDate are set only when the status moves to APPROVED or
// REJECTED; a withdrawal records neither.
type AdoptionApplication struct {
	ID                    int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	PetID                 int64      `gorm:"not null;index;uniqueIndex:idx_applications_pet_adopter" json:"pet_id"`
	Pet                   *Pet       `gorm:"foreignKey:PetID" json:"pet,omitempty"`
	AdopterID             int64      `gorm:"not null;index;uniqueIndex:idx_applications_pet_adopter" json:"adopter_id"`
	Adopter               *User      `gorm:"foreignKey:AdopterID" json:"adopter,omitempty"`
	Status                string     `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	ApplicationDate       time.Time  `gorm:"not null" json:"application_date"`
	ApplicationText       string     `gorm:"type:text" json:"application_text"`
	ReasonForAdoption     string     `gorm:"type:text" json:"reason_for_adoption"`
	HousingType           string     `gorm:"type:varchar(50)" json:"housing_type"`
	HasYard               bool       `gorm:"default:false" json:"has_yard"`
	HouseholdMembers      int        `gorm:"default:1" json:"household_members"`
	PreviousPetExperience string     `gorm:"type:text" json:"previous_pet_experience"`
	ReviewNotes           string     `gorm:"type:text" json:"review_notes"`
	ReviewedBy            *int64     `gorm:"index" json:"reviewed_by"`
	Reviewer              *User      `gorm:"foreignKey:ReviewedBy" json:"reviewer,omitempty"`
	ReviewDate            *time.Time `json:"review_date"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

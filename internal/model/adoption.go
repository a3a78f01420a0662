package model

import "time"

// Adoption is the permanent record of a completed adoption. A row is written
// exactly once, as the last step of finalization, and never updated or
// deleted afterwards.
type Adoption struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PetID          int64     `gorm:"not null;index" json:"pet_id"`
	Pet            *Pet      `gorm:"foreignKey:PetID" json:"pet,omitempty"`
	AdopterID      int64     `gorm:"not null;index" json:"adopter_id"`
	Adopter        *User     `gorm:"foreignKey:AdopterID" json:"adopter,omitempty"`
	AdoptionDate   time.Time `gorm:"not null" json:"adoption_date"`
	ContractSigned bool      `gorm:"not null;default:false" json:"contract_signed"`
	CreatedAt      time.Time `json:"created_at"`
}

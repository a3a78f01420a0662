package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Adoption lifecycle actions recorded in the event trail
const (
	ActionCreatePet           = "CREATE_PET"
	ActionArchivePet          = "ARCHIVE_PET"
	ActionSubmitApplication   = "SUBMIT_APPLICATION"
	ActionWithdrawApplication = "WITHDRAW_APPLICATION"
	ActionRejectApplication   = "REJECT_APPLICATION"
	ActionFinalizeAdoption    = "FINALIZE_ADOPTION"
	ActionFinalizeDenied      = "FINALIZE_DENIED"
)

// EntityType enum constants for AdoptionEvent
const (
	EntityTypePet         = "PET"
	EntityTypeApplication = "APPLICATION"
	EntityTypeAdoption    = "ADOPTION"
)

// AdoptionEvent tracks Who, What, and When for adoption-critical changes.
// Finalization writes its event inside the same transaction as the three
// entity writes; denied attempts are recorded outside any transaction.
type AdoptionEvent struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ActorID    *int64    `gorm:"index" json:"actor_id"` // Nullable for system-initiated entries
	Actor      *User     `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	Action     string    `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityType string    `gorm:"type:varchar(30);not null" json:"entity_type"` // PET, APPLICATION, ADOPTION
	EntityID   int64     `gorm:"index" json:"entity_id"`
	Details    string    `gorm:"type:text" json:"details"` // Serialized JSON payload of the action
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// BeforeCreate assigns the id application-side so the model works the same
// against Postgres and the sqlite test database.
func (e *AdoptionEvent) BeforeCreate(_ *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

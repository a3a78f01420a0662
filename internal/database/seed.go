package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"petadoption/internal/model"
	"petadoption/internal/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedDemoData populates an empty database with demo shelters, an adopter and
// adoptable pets. Safe to call on every startup: it is a no-op once shelter
// accounts exist.
func SeedDemoData(db *gorm.DB, users repository.UserRepository) error {
	shelterCount, err := users.CountByRole(context.Background(), model.RoleShelter)
	if err != nil {
		return fmt.Errorf("failed to count shelter accounts: %w", err)
	}
	if shelterCount > 0 {
		return nil
	}

	log.Println("No shelter accounts found, seeding demo data...")

	password, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	shelters := []model.User{
		{Username: "shelter_paws", Email: "shelter1@paws.com", FullName: "Paws & Claws Shelter", ShelterName: "Paws & Claws Shelter", Role: model.RoleShelter, Password: string(password)},
		{Username: "shelter_haven", Email: "shelter2@haven.com", FullName: "Safe Haven Rescue", ShelterName: "Safe Haven Rescue", Role: model.RoleShelter, Password: string(password)},
		{Username: "shelter_tails", Email: "shelter3@tails.com", FullName: "Happy Tails Sanctuary", ShelterName: "Happy Tails Sanctuary", Role: model.RoleShelter, Password: string(password)},
	}
	adopter := model.User{
		Username: "happy_family",
		Email:    "happy@family.com",
		FullName: "The Smiths",
		Role:     model.RoleAdopter,
		Password: string(password),
	}
	admin := model.User{
		Username: "admin",
		Email:    "admin@petadoption.local",
		FullName: "Platform Admin",
		Role:     model.RoleAdmin,
		Password: string(password),
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for i := range shelters {
			if err := tx.Create(&shelters[i]).Error; err != nil {
				return fmt.Errorf("failed to seed shelter %s: %w", shelters[i].Username, err)
			}
		}
		if err := tx.Create(&adopter).Error; err != nil {
			return fmt.Errorf("failed to seed adopter: %w", err)
		}
		if err := tx.Create(&admin).Error; err != nil {
			return fmt.Errorf("failed to seed admin: %w", err)
		}

		intake := time.Now().AddDate(0, -2, 0)
		pets := []model.Pet{
			{Name: "Buddy", Species: "Dog", Breed: "Golden Retriever", Gender: model.PetGenderMale, AgeYears: 3, WeightKg: decimal.NewFromFloat(28.5), VaccinationStatus: model.VaccinationFull, AdoptionFee: decimal.NewFromInt(150), ShelterID: shelters[0].ID, Status: model.PetStatusAvailable, IntakeDate: &intake, Description: "Friendly and great with kids."},
			{Name: "Luna", Species: "Cat", Breed: "Siamese", Gender: model.PetGenderFemale, AgeYears: 2, AgeMonths: 4, WeightKg: decimal.NewFromFloat(4.2), VaccinationStatus: model.VaccinationFull, AdoptionFee: decimal.NewFromInt(80), ShelterID: shelters[0].ID, Status: model.PetStatusAvailable, IntakeDate: &intake},
			{Name: "Rocky", Species: "Dog", Breed: "German Shepherd", Gender: model.PetGenderMale, AgeYears: 5, WeightKg: decimal.NewFromFloat(34), VaccinationStatus: model.VaccinationPartial, AdoptionFee: decimal.NewFromInt(120), ShelterID: shelters[1].ID, Status: model.PetStatusAvailable, IntakeDate: &intake, SpecialNeeds: "Needs an experienced owner."},
			{Name: "Milo", Species: "Cat", Breed: "Tabby", Gender: model.PetGenderMale, AgeMonths: 8, WeightKg: decimal.NewFromFloat(2.1), VaccinationStatus: model.VaccinationPartial, AdoptionFee: decimal.NewFromInt(60), ShelterID: shelters[1].ID, Status: model.PetStatusAvailable, IntakeDate: &intake},
			{Name: "Daisy", Species: "Rabbit", Breed: "Holland Lop", Gender: model.PetGenderFemale, AgeYears: 1, WeightKg: decimal.NewFromFloat(1.6), VaccinationStatus: model.VaccinationNone, AdoptionFee: decimal.NewFromInt(40), ShelterID: shelters[2].ID, Status: model.PetStatusAvailable, IntakeDate: &intake},
			{Name: "Shadow", Species: "Dog", Breed: "Border Collie", Gender: model.PetGenderUnknown, AgeYears: 4, WeightKg: decimal.NewFromFloat(19.8), VaccinationStatus: model.VaccinationFull, AdoptionFee: decimal.NewFromInt(140), ShelterID: shelters[2].ID, Status: model.PetStatusAvailable, IntakeDate: &intake},
		}
		for i := range pets {
			if err := tx.Create(&pets[i]).Error; err != nil {
				return fmt.Errorf("failed to seed pet %s: %w", pets[i].Name, err)
			}
		}

		log.Printf("Seeded %d shelters and %d pets", len(shelters), len(pets))
		return nil
	})
}

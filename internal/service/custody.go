package service

import (
	"context"

	"petadoption/internal/model"
	"petadoption/pkg/apperr"
)

// CustodianResolver answers who is authorized to decide the fate of a pet.
// The current policy is that the shelter account that registered the pet is
// its custodian, but the mapping is kept behind an interface so it can be
// replaced (e.g. per-staff assignments) without touching the services.
type CustodianResolver interface {
	CustodianOf(ctx context.Context, pet *model.Pet) (int64, error)
}

type shelterCustodians struct{}

// NewShelterCustodians returns the resolver that maps each pet to the
// shelter account it belongs to.
func NewShelterCustodians() CustodianResolver {
	return shelterCustodians{}
}

func (shelterCustodians) CustodianOf(_ context.Context, pet *model.Pet) (int64, error) {
	return pet.ShelterID, nil
}

// CustodyGuard enforces the custodian rule for decision operations.
type CustodyGuard struct {
	resolver CustodianResolver
}

func NewCustodyGuard(resolver CustodianResolver) *CustodyGuard {
	return &CustodyGuard{resolver: resolver}
}

// RequireCustodian returns nil when userID is the custodian of pet and an
// access-denied error otherwise. Only the exact custodian passes; there is
// no admin override for adoption decisions.
func (g *CustodyGuard) RequireCustodian(ctx context.Context, pet *model.Pet, userID int64) error {
	custodian, err := g.resolver.CustodianOf(ctx, pet)
	if err != nil {
		return apperr.StorageFailure("failed to resolve pet custodian", err)
	}
	if custodian != userID {
		return apperr.AccessDenied("user %d is not the custodian of pet %d", userID, pet.ID)
	}
	return nil
}

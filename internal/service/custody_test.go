package service

import (
	"context"
	"errors"
	"testing"

	"petadoption/internal/model"
	"petadoption/pkg/apperr"
)

func TestShelterCustodians_ResolvesToShelter(t *testing.T) {
	resolver := NewShelterCustodians()
	pet := &model.Pet{ID: 7, ShelterID: 3}

	custodian, err := resolver.CustodianOf(context.Background(), pet)
	if err != nil {
		t.Fatalf("CustodianOf: %v", err)
	}
	if custodian != 3 {
		t.Fatalf("expected custodian 3, got %d", custodian)
	}
}

func TestCustodyGuard_AllowsCustodian(t *testing.T) {
	guard := NewCustodyGuard(NewShelterCustodians())
	pet := &model.Pet{ID: 7, ShelterID: 3}

	if err := guard.RequireCustodian(context.Background(), pet, 3); err != nil {
		t.Fatalf("expected the custodian to pass, got %v", err)
	}
}

func TestCustodyGuard_DeniesEveryoneElse(t *testing.T) {
	guard := NewCustodyGuard(NewShelterCustodians())
	pet := &model.Pet{ID: 7, ShelterID: 3}

	for _, userID := range []int64{5, 9, 0} {
		err := guard.RequireCustodian(context.Background(), pet, userID)
		assertKind(t, err, apperr.KindAccessDenied)
	}
}

type failingResolver struct {
	err error
}

func (r failingResolver) CustodianOf(context.Context, *model.Pet) (int64, error) {
	return 0, r.err
}

func TestCustodyGuard_ResolverFailure(t *testing.T) {
	guard := NewCustodyGuard(failingResolver{err: errors.New("directory unavailable")})
	pet := &model.Pet{ID: 7, ShelterID: 3}

	err := guard.RequireCustodian(context.Background(), pet, 3)
	assertKind(t, err, apperr.KindStorageFailure)
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"pawmatch/contract"
	"pawmatch/domain"
	"pawmatch/errors"
	"pawmatch/repositories"
	"strings"
	"time"

	"github.com/google/uuid"
)

type IPetService interface {
	CreatePet(ctx context.Context, ownerID domain.UserID, name, species, city string) (domain.Pet, error)
	ListMine(ctx context.Context, ownerID domain.UserID) ([]domain.Pet, error)
	GetPet(ctx context.Context, id domain.PetID) (domain.Pet, error)
}

type PetService struct {
	log   *slog.Logger
	pets  repositories.IPetRepository
	quota contract.QuotaService
	now   func() time.Time
}

func NewPetService(log *slog.Logger, pets repositories.IPetRepository, quota contract.QuotaService) *PetService {
	return &PetService{log: log, pets: pets, quota: quota, now: time.Now}
}

// CreatePet registers a pet for ownerID as long as the owner's plan allows one more.
func (s *PetService) CreatePet(ctx context.Context, ownerID domain.UserID, name, species, city string) (domain.Pet, error) {
	name, species = strings.TrimSpace(name), strings.TrimSpace(species)
	if name == "" || species == "" {
		return domain.Pet{}, fmt.Errorf("name and species are required: %w", errors.ErrInvalidArgument)
	}

	owned, err := s.pets.ListPetsByOwner(ctx, ownerID)
	if err != nil {
		return domain.Pet{}, err
	}
	if err = s.quota.CheckPetQuota(ctx, ownerID, len(owned)); err != nil {
		return domain.Pet{}, err
	}

	pet := domain.Pet{
		ID:        domain.PetID(uuid.NewString()),
		OwnerID:   ownerID,
		Name:      name,
		Species:   species,
		City:      strings.TrimSpace(city),
		CreatedAt: s.now().UTC(),
	}
	if err = s.pets.CreatePet(ctx, pet); err != nil {
		return domain.Pet{}, err
	}
	s.log.Info("Pet created", "pet_id", pet.ID, "owner_id", ownerID)
	return pet, nil
}

func (s *PetService) ListMine(ctx context.Context, ownerID domain.UserID) ([]domain.Pet, error) {
	return s.pets.ListPetsByOwner(ctx, ownerID)
}

func (s *PetService) GetPet(ctx context.Context, id domain.PetID) (domain.Pet, error) {
	return s.pets.GetPet(ctx, id)
}

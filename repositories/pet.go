//go:generate go run go.uber.org/mock/mockgen -source=pet.go -destination=../mocks/mock_pet_repository.go -package=mocks
package repositories

import (
	"context"
	"fmt"
	"pawmatch/domain"
	"pawmatch/errors"

	"github.com/dgraph-io/badger/v4"
)

type IPetRepository interface {
	CreatePet(ctx context.Context, pet domain.Pet) error
	GetPet(ctx context.Context, id domain.PetID) (domain.Pet, error)
	ListPetsByOwner(ctx context.Context, owner domain.UserID) ([]domain.Pet, error)
	// ListPets walks every pet in id order, starting strictly after the given id.
	ListPets(ctx context.Context, after domain.PetID, limit int) ([]domain.Pet, error)
}

type PetRepository struct {
	db *badger.DB
}

func NewPetRepository(db *badger.DB) PetRepository {
	return PetRepository{db: db}
}

func (r PetRepository) CreatePet(_ context.Context, pet domain.Pet) error {
	return r.db.Update(func(txn *badger.Txn) error {
		exists, err := has(txn, petKey(pet.ID))
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("pet %s already exists: %w", pet.ID, errors.ErrInvalidArgument)
		}
		if err = setValue(txn, petKey(pet.ID), pet); err != nil {
			return err
		}
		return txn.Set(petOwnerKey(pet.OwnerID, pet.ID), nil)
	})
}

func (r PetRepository) GetPet(_ context.Context, id domain.PetID) (domain.Pet, error) {
	var pet domain.Pet
	err := r.db.View(func(txn *badger.Txn) error {
		return getValue(txn, petKey(id), &pet)
	})
	if err != nil {
		return domain.Pet{}, fmt.Errorf("pet %s: %w", id, err)
	}
	return pet, nil
}

func (r PetRepository) ListPetsByOwner(_ context.Context, owner domain.UserID) ([]domain.Pet, error) {
	var pets []domain.Pet
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := petOwnerPrefix(owner)
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			id := domain.PetID(it.Item().Key()[len(prefix):])
			var pet domain.Pet
			if err := getValue(txn, petKey(id), &pet); err != nil {
				return err
			}
			pets = append(pets, pet)
		}
		return nil
	})
	return pets, err
}

func (r PetRepository) ListPets(_ context.Context, after domain.PetID, limit int) ([]domain.Pet, error) {
	var pets []domain.Pet
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte("pet:id:")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		seek := prefix
		if after != "" {
			seek = petKey(after)
		}
		it.Seek(seek)
		if after != "" && it.ValidForPrefix(prefix) && string(it.Item().Key()) == string(seek) {
			it.Next()
		}
		for ; it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(pets) == limit {
				break
			}
			var pet domain.Pet
			err := it.Item().Value(func(val []byte) error {
				return decode(val, &pet)
			})
			if err != nil {
				return err
			}
			pets = append(pets, pet)
		}
		return nil
	})
	return pets, err
}

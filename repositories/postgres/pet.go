package postgres

import (
	"context"
	"pawmatch/domain"
)

type PetRepository struct {
	db *DB
}

func NewPetRepository(db *DB) *PetRepository {
	return &PetRepository{db: db}
}

const petColumns = `id, owner_id, name, species, city, created_at`

func (r *PetRepository) CreatePet(ctx context.Context, pet domain.Pet) error {
	query := `INSERT INTO pets (` + petColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Exec(ctx, query, pet.ID, pet.OwnerID, pet.Name, pet.Species, pet.City, pet.CreatedAt)
	return mapError(err, "create pet %s", pet.ID)
}

func (r *PetRepository) GetPet(ctx context.Context, id domain.PetID) (domain.Pet, error) {
	query := `SELECT ` + petColumns + ` FROM pets WHERE id = $1`
	var pet domain.Pet
	err := r.db.QueryRow(ctx, query, id).Scan(
		&pet.ID, &pet.OwnerID, &pet.Name, &pet.Species, &pet.City, &pet.CreatedAt,
	)
	if err != nil {
		return domain.Pet{}, mapError(err, "get pet %s", id)
	}
	pet.CreatedAt = pet.CreatedAt.UTC()
	return pet, nil
}

func (r *PetRepository) ListPetsByOwner(ctx context.Context, owner domain.UserID) ([]domain.Pet, error) {
	query := `SELECT ` + petColumns + ` FROM pets WHERE owner_id = $1 ORDER BY id`
	return r.list(ctx, query, owner)
}

func (r *PetRepository) ListPets(ctx context.Context, after domain.PetID, limit int) ([]domain.Pet, error) {
	query := `SELECT ` + petColumns + ` FROM pets WHERE id > $1 ORDER BY id LIMIT NULLIF($2::int, 0)`
	return r.list(ctx, query, after, limit)
}

func (r *PetRepository) list(ctx context.Context, query string, args ...any) ([]domain.Pet, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "list pets")
	}
	defer rows.Close()

	var pets []domain.Pet
	for rows.Next() {
		var pet domain.Pet
		if err = rows.Scan(&pet.ID, &pet.OwnerID, &pet.Name, &pet.Species, &pet.City, &pet.CreatedAt); err != nil {
			return nil, mapError(err, "scan pet")
		}
		pet.CreatedAt = pet.CreatedAt.UTC()
		pets = append(pets, pet)
	}
	return pets, mapError(rows.Err(), "list pets")
}

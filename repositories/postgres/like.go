package postgres

import (
	"context"
	"fmt"
	"pawmatch/domain"
	"pawmatch/errors"
	"pawmatch/repositories"

	"github.com/jackc/pgx/v5"
)

// LikeRepository serialises writers of the same unordered pair with a
// transaction scoped advisory lock; the unique (pet_a_id, pet_b_id) constraint
// is the last line that keeps a pair to a single match.
type LikeRepository struct {
	db *DB
}

func NewLikeRepository(db *DB) *LikeRepository {
	return &LikeRepository{db: db}
}

const matchColumns = `id, pet_a_id, pet_b_id, user_a_id, user_b_id, created_at`

func (r *LikeRepository) GetLike(ctx context.Context, from, to domain.PetID) (domain.Like, error) {
	query := `SELECT from_pet_id, to_pet_id, created_at FROM likes WHERE from_pet_id = $1 AND to_pet_id = $2`
	var like domain.Like
	err := r.db.QueryRow(ctx, query, from, to).Scan(&like.FromPetID, &like.ToPetID, &like.CreatedAt)
	if err != nil {
		return domain.Like{}, mapError(err, "get like %s->%s", from, to)
	}
	like.CreatedAt = like.CreatedAt.UTC()
	return like, nil
}

func (r *LikeRepository) RecordLike(ctx context.Context, like domain.Like, candidate domain.Match) (outcome repositories.LikeOutcome, err error) {
	a, b := domain.PairKey(like.FromPetID, like.ToPetID)
	if candidate.PetAID != a || candidate.PetBID != b {
		return outcome, fmt.Errorf("match candidate %s/%s for pair %s/%s: %w",
			candidate.PetAID, candidate.PetBID, a, b, errors.ErrInvalidArgument)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return outcome, mapError(err, "begin like transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, fmt.Sprintf("%s:%s", a, b)); err != nil {
		return outcome, mapError(err, "lock pair %s/%s", a, b)
	}
	tag, err := tx.Exec(ctx,
		`INSERT INTO likes (from_pet_id, to_pet_id, created_at) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
		like.FromPetID, like.ToPetID, like.CreatedAt)
	if err != nil {
		return outcome, mapError(err, "insert like %s->%s", like.FromPetID, like.ToPetID)
	}
	inserted := tag.RowsAffected() == 1

	var reciprocal bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM likes WHERE from_pet_id = $1 AND to_pet_id = $2)`,
		like.ToPetID, like.FromPetID).Scan(&reciprocal)
	if err != nil {
		return outcome, mapError(err, "read like %s->%s", like.ToPetID, like.FromPetID)
	}

	if reciprocal {
		outcome, err = insertMatch(ctx, tx, candidate)
		if err != nil {
			return repositories.LikeOutcome{}, err
		}
	}
	if err = tx.Commit(ctx); err != nil {
		return repositories.LikeOutcome{}, mapError(err, "commit like %s->%s", like.FromPetID, like.ToPetID)
	}
	outcome.Inserted = inserted
	return outcome, nil
}

func insertMatch(ctx context.Context, tx pgx.Tx, candidate domain.Match) (repositories.LikeOutcome, error) {
	var id domain.MatchID
	err := tx.QueryRow(ctx,
		`INSERT INTO matches (`+matchColumns+`) VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (pet_a_id, pet_b_id) DO NOTHING RETURNING id`,
		candidate.ID, candidate.PetAID, candidate.PetBID, candidate.UserAID, candidate.UserBID, candidate.CreatedAt,
	).Scan(&id)
	switch {
	case err == nil:
		match := candidate
		return repositories.LikeOutcome{Match: &match, Created: true}, nil
	case !errors.Is(err, pgx.ErrNoRows):
		return repositories.LikeOutcome{}, mapError(err, "insert match %s", candidate.ID)
	}

	existing, err := scanMatch(tx.QueryRow(ctx,
		`SELECT `+matchColumns+` FROM matches WHERE pet_a_id = $1 AND pet_b_id = $2`,
		candidate.PetAID, candidate.PetBID))
	if err != nil {
		return repositories.LikeOutcome{}, mapError(err, "read match %s/%s", candidate.PetAID, candidate.PetBID)
	}
	return repositories.LikeOutcome{Match: &existing}, nil
}

func (r *LikeRepository) RecordPass(ctx context.Context, pass domain.Pass) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO passes (from_pet_id, to_pet_id, created_at) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
		pass.FromPetID, pass.ToPetID, pass.CreatedAt)
	return mapError(err, "record pass %s->%s", pass.FromPetID, pass.ToPetID)
}

func (r *LikeRepository) SwipedPets(ctx context.Context, from domain.PetID) (map[domain.PetID]struct{}, error) {
	rows, err := r.db.Query(ctx,
		`SELECT to_pet_id FROM likes WHERE from_pet_id = $1
		 UNION SELECT to_pet_id FROM passes WHERE from_pet_id = $1`, from)
	if err != nil {
		return nil, mapError(err, "swiped pets of %s", from)
	}
	defer rows.Close()

	swiped := make(map[domain.PetID]struct{})
	for rows.Next() {
		var id domain.PetID
		if err = rows.Scan(&id); err != nil {
			return nil, mapError(err, "scan swiped pet")
		}
		swiped[id] = struct{}{}
	}
	return swiped, mapError(rows.Err(), "swiped pets of %s", from)
}

func (r *LikeRepository) GetMatch(ctx context.Context, id domain.MatchID) (domain.Match, error) {
	match, err := scanMatch(r.db.QueryRow(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, id))
	if err != nil {
		return domain.Match{}, mapError(err, "match %s", id)
	}
	return match, nil
}

func (r *LikeRepository) GetMatchByPair(ctx context.Context, p, q domain.PetID) (domain.Match, error) {
	a, b := domain.PairKey(p, q)
	match, err := scanMatch(r.db.QueryRow(ctx,
		`SELECT `+matchColumns+` FROM matches WHERE pet_a_id = $1 AND pet_b_id = $2`, a, b))
	if err != nil {
		return domain.Match{}, mapError(err, "match for pair %s/%s", a, b)
	}
	return match, nil
}

func (r *LikeRepository) ListMatchesByUser(ctx context.Context, userID domain.UserID) ([]domain.Match, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+matchColumns+` FROM matches WHERE user_a_id = $1 OR user_b_id = $1 ORDER BY created_at DESC, id DESC`,
		userID)
	if err != nil {
		return nil, mapError(err, "matches of %s", userID)
	}
	defer rows.Close()

	var matches []domain.Match
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, mapError(err, "scan match")
		}
		matches = append(matches, match)
	}
	return matches, mapError(rows.Err(), "matches of %s", userID)
}

func scanMatch(row pgx.Row) (domain.Match, error) {
	var match domain.Match
	err := row.Scan(&match.ID, &match.PetAID, &match.PetBID, &match.UserAID, &match.UserBID, &match.CreatedAt)
	match.CreatedAt = match.CreatedAt.UTC()
	return match, err
}

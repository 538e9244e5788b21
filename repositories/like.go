//go:generate go run go.uber.org/mock/mockgen -source=like.go -destination=../mocks/mock_like_repository.go -package=mocks
package repositories

import (
	"context"
	"fmt"
	"pawmatch/domain"
	"pawmatch/errors"

	"github.com/dgraph-io/badger/v4"
)

// ILikeStore records swipe decisions. RecordLike is the only write path for
// matches: the like, the reciprocal check and the match insert happen in one
// storage transaction.
type ILikeStore interface {
	GetLike(ctx context.Context, from, to domain.PetID) (domain.Like, error)
	RecordLike(ctx context.Context, like domain.Like, candidate domain.Match) (LikeOutcome, error)
	RecordPass(ctx context.Context, pass domain.Pass) error
	SwipedPets(ctx context.Context, from domain.PetID) (map[domain.PetID]struct{}, error)
}

type IMatchRepository interface {
	GetMatch(ctx context.Context, id domain.MatchID) (domain.Match, error)
	GetMatchByPair(ctx context.Context, p, q domain.PetID) (domain.Match, error)
	// ListMatchesByUser returns matches newest first.
	ListMatchesByUser(ctx context.Context, userID domain.UserID) ([]domain.Match, error)
}

// LikeOutcome is what the store observed after a like was recorded.
// Match is nil while the like is one-sided. Inserted is false when the same
// like was already stored. Created is true only for the transaction that
// inserted the match.
type LikeOutcome struct {
	Match    *domain.Match
	Inserted bool
	Created  bool
}

// LikeRepository keeps likes, passes and matches in the same badger keyspace
// so that a single transaction can touch all three.
type LikeRepository struct {
	db *badger.DB
}

func NewLikeRepository(db *badger.DB) LikeRepository {
	return LikeRepository{db: db}
}

func (r LikeRepository) GetLike(_ context.Context, from, to domain.PetID) (domain.Like, error) {
	var like domain.Like
	err := r.db.View(func(txn *badger.Txn) error {
		return getValue(txn, likeKey(from, to), &like)
	})
	return like, err
}

// RecordLike stores like if absent, then creates candidate when the reciprocal
// like exists and the pair has no match yet. Two transactions racing on the same
// pair read each other's like key, so badger aborts one of them with ErrConflict.
func (r LikeRepository) RecordLike(_ context.Context, like domain.Like, candidate domain.Match) (LikeOutcome, error) {
	a, b := domain.PairKey(like.FromPetID, like.ToPetID)
	if candidate.PetAID != a || candidate.PetBID != b {
		return LikeOutcome{}, fmt.Errorf("match candidate %s/%s for pair %s/%s: %w",
			candidate.PetAID, candidate.PetBID, a, b, errors.ErrInvalidArgument)
	}

	var outcome LikeOutcome
	err := r.db.Update(func(txn *badger.Txn) error {
		outcome = LikeOutcome{}
		key := likeKey(like.FromPetID, like.ToPetID)
		exists, err := has(txn, key)
		if err != nil {
			return err
		}
		if !exists {
			outcome.Inserted = true
			if err = setValue(txn, key, like); err != nil {
				return err
			}
			if err = txn.Set(swipeKey(like.FromPetID, like.ToPetID), nil); err != nil {
				return err
			}
		}

		reciprocal, err := has(txn, likeKey(like.ToPetID, like.FromPetID))
		if err != nil || !reciprocal {
			return err
		}

		existing, err := matchByPair(txn, a, b)
		switch {
		case err == nil:
			outcome.Match = &existing
			return nil
		case !errors.Is(err, errors.ErrNotFound):
			return err
		}

		match := candidate
		if err = setValue(txn, matchKey(match.ID), match); err != nil {
			return err
		}
		if err = txn.Set(matchPairKey(a, b), []byte(match.ID)); err != nil {
			return err
		}
		for _, user := range match.Participants() {
			if err = txn.Set(matchUserKey(user, match.CreatedAt, match.ID), nil); err != nil {
				return err
			}
		}
		outcome.Match = &match
		outcome.Created = true
		return nil
	})
	if err != nil {
		return LikeOutcome{}, fmt.Errorf("record like %s->%s: %w", like.FromPetID, like.ToPetID, mapConflict(err))
	}
	return outcome, nil
}

func (r LikeRepository) RecordPass(_ context.Context, pass domain.Pass) error {
	return r.db.Update(func(txn *badger.Txn) error {
		if err := setValue(txn, passKey(pass.FromPetID, pass.ToPetID), pass); err != nil {
			return err
		}
		return txn.Set(swipeKey(pass.FromPetID, pass.ToPetID), nil)
	})
}

func (r LikeRepository) SwipedPets(_ context.Context, from domain.PetID) (map[domain.PetID]struct{}, error) {
	swiped := make(map[domain.PetID]struct{})
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := swipePrefix(from)
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			swiped[domain.PetID(it.Item().Key()[len(prefix):])] = struct{}{}
		}
		return nil
	})
	return swiped, err
}

func (r LikeRepository) GetMatch(_ context.Context, id domain.MatchID) (domain.Match, error) {
	var match domain.Match
	err := r.db.View(func(txn *badger.Txn) error {
		return getValue(txn, matchKey(id), &match)
	})
	if err != nil {
		return domain.Match{}, fmt.Errorf("match %s: %w", id, err)
	}
	return match, nil
}

func (r LikeRepository) GetMatchByPair(_ context.Context, p, q domain.PetID) (domain.Match, error) {
	var match domain.Match
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		match, err = matchByPair(txn, p, q)
		return err
	})
	return match, err
}

func (r LikeRepository) ListMatchesByUser(_ context.Context, userID domain.UserID) ([]domain.Match, error) {
	var matches []domain.Match
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := matchUserPrefix(userID)
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// 0xFF sorts after every digit so a reverse seek lands on the newest entry.
		for it.Seek(append(prefix, 0xFF)); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key()[len(prefix):])
			// {nanos:19}:{match}
			if len(key) < 21 {
				continue
			}
			var match domain.Match
			if err := getValue(txn, matchKey(domain.MatchID(key[20:])), &match); err != nil {
				return err
			}
			matches = append(matches, match)
		}
		return nil
	})
	return matches, err
}

func matchByPair(txn *badger.Txn, p, q domain.PetID) (domain.Match, error) {
	item, err := txn.Get(matchPairKey(p, q))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Match{}, fmt.Errorf("match for pair %s/%s: %w", p, q, errors.ErrNotFound)
	}
	if err != nil {
		return domain.Match{}, err
	}
	id, err := item.ValueCopy(nil)
	if err != nil {
		return domain.Match{}, err
	}
	var match domain.Match
	if err = getValue(txn, matchKey(domain.MatchID(id)), &match); err != nil {
		return domain.Match{}, err
	}
	return match, nil
}

var (
	_ ILikeStore       = LikeRepository{}
	_ IMatchRepository = LikeRepository{}
)

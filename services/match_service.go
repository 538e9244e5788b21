package services

import (
	"context"
	"fmt"
	"log/slog"
	"pawmatch/contract"
	"pawmatch/domain"
	"pawmatch/domain/event"
	"pawmatch/errors"
	"pawmatch/repositories"
	"time"

	"github.com/google/uuid"
)

const (
	maxLikeAttempts   = 3
	candidatePageSize = 100
)

type IMatchService interface {
	RecordLike(ctx context.Context, callerID domain.UserID, fromPetID, toPetID domain.PetID) (domain.LikeResult, error)
	Pass(ctx context.Context, callerID domain.UserID, fromPetID, toPetID domain.PetID) error
	ListMatches(ctx context.Context, userID domain.UserID) ([]domain.Match, error)
	Candidates(ctx context.Context, callerID domain.UserID, petID domain.PetID, limit int) ([]domain.Pet, error)
}

// MatchService turns swipes into matches. Atomicity of like + match lives in
// the like store; the service validates, charges the quota and retries on
// storage conflicts.
type MatchService struct {
	log       *slog.Logger
	pets      repositories.IPetRepository
	likes     repositories.ILikeStore
	matches   repositories.IMatchRepository
	quota     contract.QuotaService
	publisher contract.EventPublisher
	now       func() time.Time
	newID     func() domain.MatchID
}

func NewMatchService(log *slog.Logger, pets repositories.IPetRepository, likes repositories.ILikeStore,
	matches repositories.IMatchRepository, quota contract.QuotaService, publisher contract.EventPublisher) *MatchService {
	return &MatchService{
		log:       log,
		pets:      pets,
		likes:     likes,
		matches:   matches,
		quota:     quota,
		publisher: publisher,
		now:       time.Now,
		newID:     func() domain.MatchID { return domain.MatchID(uuid.NewString()) },
	}
}

// RecordLike records fromPetID liking toPetID on behalf of callerID. Liking
// twice returns the outcome of the first like without charging the quota again.
func (s *MatchService) RecordLike(ctx context.Context, callerID domain.UserID, fromPetID, toPetID domain.PetID) (domain.LikeResult, error) {
	from, to, err := s.swipePets(ctx, callerID, fromPetID, toPetID)
	if err != nil {
		return domain.LikeResult{}, err
	}

	_, err = s.likes.GetLike(ctx, fromPetID, toPetID)
	switch {
	case err == nil:
		return s.currentResult(ctx, fromPetID, toPetID)
	case !errors.Is(err, errors.ErrNotFound):
		return domain.LikeResult{}, err
	}

	if err = s.quota.ConsumeSwipe(ctx, callerID); err != nil {
		return domain.LikeResult{}, err
	}
	// The swipe only pays for a like this call stored.
	inserted := false
	defer func() {
		if !inserted {
			s.refundSwipe(ctx, callerID, fromPetID, toPetID)
		}
	}()

	now := s.now().UTC()
	like := domain.Like{FromPetID: fromPetID, ToPetID: toPetID, CreatedAt: now}
	candidate := domain.NewMatch(s.newID(), from, to, now)
	for attempt := 1; attempt <= maxLikeAttempts; attempt++ {
		outcome, err := s.likes.RecordLike(ctx, like, candidate)
		if err == nil {
			inserted = outcome.Inserted
			if outcome.Created {
				s.log.Info("Match created", "match_id", outcome.Match.ID, "pet_a", outcome.Match.PetAID, "pet_b", outcome.Match.PetBID)
				s.publisher.Publish(ctx, event.MatchCreated{Match: *outcome.Match})
			}
			return domain.LikeResult{IsMatch: outcome.Match != nil, Match: outcome.Match}, nil
		}
		if !errors.Is(err, errors.ErrConflict) {
			return domain.LikeResult{}, err
		}

		// A concurrent swipe on the same pair won; its match may already be there.
		s.log.Debug("Like conflicted", "from", fromPetID, "to", toPetID, "attempt", attempt)
		match, err := s.matches.GetMatchByPair(ctx, fromPetID, toPetID)
		if err == nil {
			return domain.LikeResult{IsMatch: true, Match: &match}, nil
		}
		if !errors.Is(err, errors.ErrNotFound) {
			return domain.LikeResult{}, err
		}
	}
	return domain.LikeResult{}, fmt.Errorf("like %s->%s after %d attempts: %w", fromPetID, toPetID, maxLikeAttempts, errors.ErrConflict)
}

func (s *MatchService) refundSwipe(ctx context.Context, callerID domain.UserID, fromPetID, toPetID domain.PetID) {
	if err := s.quota.RefundSwipe(context.WithoutCancel(ctx), callerID); err != nil {
		s.log.Warn("Swipe refund failed", "user_id", callerID, "from", fromPetID, "to", toPetID, "error", err)
		return
	}
	s.log.Debug("Swipe refunded", "user_id", callerID, "from", fromPetID, "to", toPetID)
}

func (s *MatchService) currentResult(ctx context.Context, fromPetID, toPetID domain.PetID) (domain.LikeResult, error) {
	match, err := s.matches.GetMatchByPair(ctx, fromPetID, toPetID)
	switch {
	case err == nil:
		return domain.LikeResult{IsMatch: true, Match: &match}, nil
	case errors.Is(err, errors.ErrNotFound):
		return domain.LikeResult{IsMatch: false}, nil
	default:
		return domain.LikeResult{}, err
	}
}

// Pass hides toPetID from the feed of fromPetID. It costs a swipe like a like does.
func (s *MatchService) Pass(ctx context.Context, callerID domain.UserID, fromPetID, toPetID domain.PetID) error {
	if _, _, err := s.swipePets(ctx, callerID, fromPetID, toPetID); err != nil {
		return err
	}
	if err := s.quota.ConsumeSwipe(ctx, callerID); err != nil {
		return err
	}
	return s.likes.RecordPass(ctx, domain.Pass{FromPetID: fromPetID, ToPetID: toPetID, CreatedAt: s.now().UTC()})
}

// swipePets loads both pets and checks that callerID may swipe from one to the other.
func (s *MatchService) swipePets(ctx context.Context, callerID domain.UserID, fromPetID, toPetID domain.PetID) (domain.Pet, domain.Pet, error) {
	if fromPetID == "" || toPetID == "" {
		return domain.Pet{}, domain.Pet{}, fmt.Errorf("both pets are required: %w", errors.ErrInvalidArgument)
	}
	if fromPetID == toPetID {
		return domain.Pet{}, domain.Pet{}, fmt.Errorf("pet %s swiping itself: %w", fromPetID, errors.ErrInvalidOperation)
	}
	from, err := s.pets.GetPet(ctx, fromPetID)
	if err != nil {
		return domain.Pet{}, domain.Pet{}, err
	}
	to, err := s.pets.GetPet(ctx, toPetID)
	if err != nil {
		return domain.Pet{}, domain.Pet{}, err
	}
	if from.OwnerID != callerID {
		return domain.Pet{}, domain.Pet{}, fmt.Errorf("pet %s is not owned by %s: %w", fromPetID, callerID, errors.ErrForbidden)
	}
	if to.OwnerID == from.OwnerID {
		return domain.Pet{}, domain.Pet{}, fmt.Errorf("pets %s and %s share an owner: %w", fromPetID, toPetID, errors.ErrInvalidOperation)
	}
	return from, to, nil
}

func (s *MatchService) ListMatches(ctx context.Context, userID domain.UserID) ([]domain.Match, error) {
	return s.matches.ListMatchesByUser(ctx, userID)
}

// Candidates lists up to limit pets of other owners that petID has not swiped yet.
func (s *MatchService) Candidates(ctx context.Context, callerID domain.UserID, petID domain.PetID, limit int) ([]domain.Pet, error) {
	pet, err := s.pets.GetPet(ctx, petID)
	if err != nil {
		return nil, err
	}
	if pet.OwnerID != callerID {
		return nil, fmt.Errorf("pet %s is not owned by %s: %w", petID, callerID, errors.ErrForbidden)
	}
	swiped, err := s.likes.SwipedPets(ctx, petID)
	if err != nil {
		return nil, err
	}

	candidates := make([]domain.Pet, 0, limit)
	var after domain.PetID
	for len(candidates) < limit {
		page, err := s.pets.ListPets(ctx, after, candidatePageSize)
		if err != nil {
			return nil, err
		}
		for _, other := range page {
			if _, ok := swiped[other.ID]; ok || other.OwnerID == callerID {
				continue
			}
			candidates = append(candidates, other)
			if len(candidates) == limit {
				break
			}
		}
		if len(page) < candidatePageSize {
			break
		}
		after = page[len(page)-1].ID
	}
	return candidates, nil
}

package quota

import (
	"context"
	"fmt"
	"log/slog"
	"pawmatch/domain"
	"pawmatch/errors"
	"pawmatch/repositories"
	"time"
)

// Service resolves a user's plan and applies its limits.
type Service struct {
	users   repositories.IUserRepository
	limiter Limiter
	log     *slog.Logger
	now     func() time.Time
}

func NewService(users repositories.IUserRepository, limiter Limiter, log *slog.Logger) *Service {
	return &Service{users: users, limiter: limiter, log: log, now: time.Now}
}

// ConsumeSwipe takes one swipe from today's allowance, ErrQuotaExceeded once it is spent.
// Days are UTC days.
func (s *Service) ConsumeSwipe(ctx context.Context, userID domain.UserID) error {
	limits, err := s.limits(ctx, userID)
	if err != nil {
		return err
	}
	if limits.DailySwipes == Unlimited {
		return nil
	}
	now := s.now().UTC()
	resetAt := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	result, err := s.limiter.Take(ctx, swipeKey(userID, now), int64(limits.DailySwipes), resetAt)
	if err != nil {
		return err
	}
	if !result.Allowed {
		return fmt.Errorf("%d swipes used today, resets at %s: %w", result.Count, result.ResetAt.Format(time.RFC3339), errors.ErrQuotaExceeded)
	}
	s.log.Debug("Swipe consumed", "user_id", userID, "count", result.Count, "limit", result.Limit)
	return nil
}

// RefundSwipe gives back a swipe taken today for a like that was not recorded.
func (s *Service) RefundSwipe(ctx context.Context, userID domain.UserID) error {
	limits, err := s.limits(ctx, userID)
	if err != nil {
		return err
	}
	if limits.DailySwipes == Unlimited {
		return nil
	}
	if err = s.limiter.Give(ctx, swipeKey(userID, s.now().UTC())); err != nil {
		return err
	}
	s.log.Debug("Swipe refunded", "user_id", userID)
	return nil
}

func swipeKey(userID domain.UserID, now time.Time) string {
	return fmt.Sprintf("quota:swipes:%s:%s", userID, now.Format(time.DateOnly))
}

// CheckPetQuota fails when current pets already reach the plan's maximum.
func (s *Service) CheckPetQuota(ctx context.Context, userID domain.UserID, current int) error {
	limits, err := s.limits(ctx, userID)
	if err != nil {
		return err
	}
	if limits.MaxPets != Unlimited && current >= limits.MaxPets {
		return fmt.Errorf("%d pets allowed: %w", limits.MaxPets, errors.ErrQuotaExceeded)
	}
	return nil
}

func (s *Service) limits(ctx context.Context, userID domain.UserID) (Limits, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return Limits{}, fmt.Errorf("plan of %s: %w", userID, err)
	}
	return LimitsFor(user.Plan), nil
}

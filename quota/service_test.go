package quota_test

import (
	"context"
	"log/slog"
	"os"
	"pawmatch/domain"
	"pawmatch/errors"
	"pawmatch/mocks"
	"pawmatch/quota"
	"pawmatch/repositories"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func Test_Free_Plan_Runs_Out_Of_Swipes(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	ctx := context.Background()
	users := mocks.NewMockIUserRepository(ctrl)
	users.EXPECT().GetUser(gomock.Any(), domain.UserID("user-1")).
		Return(repositories.User{ID: "user-1", Plan: domain.PlanFree}, nil).AnyTimes()
	service := quota.NewService(users, quota.NewMemoryLimiter(), logs.GetLoggerFromLevel(slog.LevelDebug))

	// Given the whole daily allowance is spent
	for i := 0; i < quota.Plans[domain.PlanFree].DailySwipes; i++ {
		req.NoError(service.ConsumeSwipe(ctx, "user-1"))
	}

	// Then the next swipe is refused
	req.ErrorIs(service.ConsumeSwipe(ctx, "user-1"), errors.ErrQuotaExceeded)
}

func Test_Premium_Plan_Never_Touches_The_Limiter(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	users := mocks.NewMockIUserRepository(ctrl)
	limiter := mocks.NewMockLimiter(ctrl)
	users.EXPECT().GetUser(gomock.Any(), domain.UserID("user-1")).
		Return(repositories.User{ID: "user-1", Plan: domain.PlanPremium}, nil)
	limiter.EXPECT().Take(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	service := quota.NewService(users, limiter, logs.GetLoggerFromLevel(slog.LevelDebug))

	req.NoError(service.ConsumeSwipe(context.Background(), "user-1"))
}

func Test_Swipe_Counter_Is_Keyed_Per_User_And_Day(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	users := mocks.NewMockIUserRepository(ctrl)
	limiter := mocks.NewMockLimiter(ctrl)
	users.EXPECT().GetUser(gomock.Any(), domain.UserID("user-1")).
		Return(repositories.User{ID: "user-1", Plan: domain.PlanFree}, nil)
	day := time.Now().UTC().Format(time.DateOnly)
	limiter.EXPECT().
		Take(gomock.Any(), "quota:swipes:user-1:"+day, int64(quota.Plans[domain.PlanFree].DailySwipes), gomock.Any()).
		Return(quota.Result{Allowed: false, Count: 50, Limit: 50}, nil)
	service := quota.NewService(users, limiter, logs.GetLoggerFromLevel(slog.LevelDebug))

	req.ErrorIs(service.ConsumeSwipe(context.Background(), "user-1"), errors.ErrQuotaExceeded)
}

func Test_Refunded_Swipe_Can_Be_Used_Again(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	ctx := context.Background()
	users := mocks.NewMockIUserRepository(ctrl)
	users.EXPECT().GetUser(gomock.Any(), domain.UserID("user-1")).
		Return(repositories.User{ID: "user-1", Plan: domain.PlanFree}, nil).AnyTimes()
	service := quota.NewService(users, quota.NewMemoryLimiter(), logs.GetLoggerFromLevel(slog.LevelDebug))

	// Given the whole daily allowance is spent
	for i := 0; i < quota.Plans[domain.PlanFree].DailySwipes; i++ {
		req.NoError(service.ConsumeSwipe(ctx, "user-1"))
	}

	// When one swipe is refunded
	req.NoError(service.RefundSwipe(ctx, "user-1"))

	// Then exactly one more swipe goes through
	req.NoError(service.ConsumeSwipe(ctx, "user-1"))
	req.ErrorIs(service.ConsumeSwipe(ctx, "user-1"), errors.ErrQuotaExceeded)
}

func Test_Premium_Refund_Never_Touches_The_Limiter(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	users := mocks.NewMockIUserRepository(ctrl)
	limiter := mocks.NewMockLimiter(ctrl)
	users.EXPECT().GetUser(gomock.Any(), domain.UserID("user-1")).
		Return(repositories.User{ID: "user-1", Plan: domain.PlanPremium}, nil)
	limiter.EXPECT().Give(gomock.Any(), gomock.Any()).Times(0)
	service := quota.NewService(users, limiter, logs.GetLoggerFromLevel(slog.LevelDebug))

	req.NoError(service.RefundSwipe(context.Background(), "user-1"))
}

func Test_Pet_Quota(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	ctx := context.Background()
	users := mocks.NewMockIUserRepository(ctrl)
	users.EXPECT().GetUser(gomock.Any(), domain.UserID("user-1")).
		Return(repositories.User{ID: "user-1", Plan: domain.PlanFree}, nil).AnyTimes()
	users.EXPECT().GetUser(gomock.Any(), domain.UserID("ghost")).
		Return(repositories.User{}, errors.ErrNotFound)
	service := quota.NewService(users, quota.NewMemoryLimiter(), logs.GetLoggerFromLevel(slog.LevelDebug))
	maxPets := quota.Plans[domain.PlanFree].MaxPets

	req.NoError(service.CheckPetQuota(ctx, "user-1", maxPets-1))
	req.ErrorIs(service.CheckPetQuota(ctx, "user-1", maxPets), errors.ErrQuotaExceeded)
	req.ErrorIs(service.CheckPetQuota(ctx, "ghost", 0), errors.ErrNotFound)
}

func Test_Unknown_Plan_Falls_Back_To_Free(t *testing.T) {
	require.Equal(t, quota.Plans[domain.PlanFree], quota.LimitsFor("gold"))
}

func Test_Memory_Limiter_Resets_After_Deadline(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	limiter := quota.NewMemoryLimiter()

	result, err := limiter.Take(ctx, "k", 1, time.Now().Add(-time.Second))
	req.NoError(err)
	req.True(result.Allowed)

	// The previous window already ended, so the counter starts over
	result, err = limiter.Take(ctx, "k", 1, time.Now().Add(time.Hour))
	req.NoError(err)
	req.True(result.Allowed)
	result, err = limiter.Take(ctx, "k", 1, time.Now().Add(time.Hour))
	req.NoError(err)
	req.False(result.Allowed)
	req.Equal(int64(1), result.Count)
}

func Test_Memory_Limiter_Give_Never_Goes_Negative(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	limiter := quota.NewMemoryLimiter()

	// Giving back on an unknown key does nothing
	req.NoError(limiter.Give(ctx, "k"))

	result, err := limiter.Take(ctx, "k", 1, time.Now().Add(time.Hour))
	req.NoError(err)
	req.True(result.Allowed)
	req.NoError(limiter.Give(ctx, "k"))
	req.NoError(limiter.Give(ctx, "k"))

	// Two gives after one take only free a single unit
	result, err = limiter.Take(ctx, "k", 1, time.Now().Add(time.Hour))
	req.NoError(err)
	req.True(result.Allowed)
	req.Equal(int64(1), result.Count)
	result, err = limiter.Take(ctx, "k", 1, time.Now().Add(time.Hour))
	req.NoError(err)
	req.False(result.Allowed)
}

func Test_Redis_Limiter(t *testing.T) {
	url := os.Getenv("PAWMATCH_REDIS_URL")
	if url == "" {
		t.Skip("PAWMATCH_REDIS_URL not set")
	}
	req := require.New(t)
	ctx := context.Background()
	options, err := redis.ParseURL(url)
	req.NoError(err)
	client := redis.NewClient(options)
	defer client.Close()
	key := "quota:test:" + time.Now().Format(time.RFC3339Nano)
	defer client.Del(ctx, key)
	limiter := quota.NewRedisLimiter(client, logs.GetLoggerFromLevel(slog.LevelDebug))

	for i := 1; i <= 2; i++ {
		result, err := limiter.Take(ctx, key, 2, time.Now().Add(time.Minute))
		req.NoError(err)
		req.True(result.Allowed)
		req.Equal(int64(i), result.Count)
	}
	result, err := limiter.Take(ctx, key, 2, time.Now().Add(time.Minute))
	req.NoError(err)
	req.False(result.Allowed)

	req.NoError(limiter.Give(ctx, key))
	result, err = limiter.Take(ctx, key, 2, time.Now().Add(time.Minute))
	req.NoError(err)
	req.True(result.Allowed)
	req.Equal(int64(2), result.Count)
}

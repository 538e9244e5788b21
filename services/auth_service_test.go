package services

import (
	"context"
	"pawmatch/auth"
	"pawmatch/domain"
	"pawmatch/errors"
	"pawmatch/mocks"
	"pawmatch/repositories"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAuthService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	mockRepo := mocks.NewMockIUserRepository(ctrl)
	tokens := auth.NewTokenService("test-secret", 24*time.Hour)
	svc := NewAuthService(mockRepo, tokens)

	t.Run("should register a free account when input is valid", func(t *testing.T) {
		req := require.New(t)
		email := "test@example.com"
		password := "ComplexPass123!"

		// The repository receives a hash, never the plain password
		mockRepo.EXPECT().
			CreateUser(ctx, email, gomock.Not(password), domain.PlanFree).
			Return(repositories.User{ID: "user-uuid", Email: email, Roles: []string{"user"}, Plan: domain.PlanFree}, nil).
			Times(1)

		token, err := svc.Register(ctx, email, password)

		req.NoError(err)
		claims, err := tokens.Validate(string(token))
		req.NoError(err)
		req.Equal(domain.UserID("user-uuid"), claims.UserID)
	})

	t.Run("should fail when password complexity is not met", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().CreateUser(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		token, err := svc.Register(ctx, "test@example.com", "simple")

		req.ErrorIs(err, errors.ErrInvalidPassword)
		req.Empty(token)
	})

	t.Run("should store the email in lowercase without surrounding spaces", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().
			CreateUser(ctx, "owner@pawmatch.dev", gomock.Any(), domain.PlanFree).
			Return(repositories.User{ID: "user-2", Email: "owner@pawmatch.dev", Plan: domain.PlanFree}, nil).
			Times(1)

		_, err := svc.Register(ctx, " Owner@PawMatch.dev ", "ComplexPass123!")

		req.NoError(err)
	})

	t.Run("should reject an invalid email as an invalid argument", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().CreateUser(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.Register(ctx, "not-an-email", "ComplexPass123!")

		req.ErrorIs(err, errors.ErrInvalidArgument)
		req.NotErrorIs(err, errors.ErrInvalidPassword)
	})

	t.Run("should fail when user already exists in repository", func(t *testing.T) {
		req := require.New(t)
		email := "duplicate@example.com"

		mockRepo.EXPECT().
			CreateUser(ctx, email, gomock.Any(), domain.PlanFree).
			Return(repositories.User{}, errors.ErrUserAlreadyExists).
			Times(1)

		_, err := svc.Register(ctx, email, "ComplexPass123!")

		req.ErrorIs(err, errors.ErrUserAlreadyExists)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	mockRepo := mocks.NewMockIUserRepository(ctrl)
	tokens := auth.NewTokenService("test-secret", 24*time.Hour)
	svc := NewAuthService(mockRepo, tokens)

	t.Run("should login successfully with correct credentials", func(t *testing.T) {
		req := require.New(t)
		email := "user@example.com"
		password := "Secret123456!"

		hashedPassword, err := auth.HashPassword(password)
		req.NoError(err)
		storedUser := repositories.User{
			ID:           "uuid-123",
			Email:        email,
			PasswordHash: hashedPassword,
			Roles:        []string{"user"},
		}

		mockRepo.EXPECT().
			GetUserByEmail(ctx, email).
			Return(storedUser, nil).
			Times(1)

		token, err := svc.Login(ctx, email, password)

		req.NoError(err)
		claims, err := tokens.Validate(string(token))
		req.NoError(err)
		req.Equal(storedUser.ID, claims.UserID)
	})

	t.Run("should return invalid credentials when password matches nothing", func(t *testing.T) {
		req := require.New(t)
		email := "user@example.com"

		hashedPassword, err := auth.HashPassword("CorrectPassword123!")
		req.NoError(err)

		mockRepo.EXPECT().
			GetUserByEmail(ctx, email).
			Return(repositories.User{Email: email, PasswordHash: hashedPassword}, nil).
			Times(1)

		_, err = svc.Login(ctx, email, "WrongPassword123!")

		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})

	t.Run("should return invalid credentials when user is not found", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().
			GetUserByEmail(ctx, "unknown@example.com").
			Return(repositories.User{}, errors.ErrNotFound).
			Times(1)

		_, err := svc.Login(ctx, "unknown@example.com", "anyPassword")

		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})
}

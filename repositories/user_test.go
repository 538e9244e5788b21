package repositories

import (
	"context"
	"pawmatch/domain"
	"pawmatch/errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Create_User_Then_Lookup(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewUserRepository(openDB(t))

	user, err := repository.CreateUser(ctx, "rex@pawmatch.io", "hash", domain.PlanFree)
	req.NoError(err)
	req.NotEmpty(user.ID)

	_, err = repository.CreateUser(ctx, "rex@pawmatch.io", "other", domain.PlanPremium)
	req.ErrorIs(err, errors.ErrUserAlreadyExists)

	byEmail, err := repository.GetUserByEmail(ctx, "rex@pawmatch.io")
	req.NoError(err)
	byID, err := repository.GetUser(ctx, user.ID)
	req.NoError(err)
	req.Equal(user, byEmail)
	req.Equal(user, byID)
	req.Equal(domain.PlanFree, byID.Plan)

	_, err = repository.GetUser(ctx, "ghost")
	req.ErrorIs(err, errors.ErrNotFound)
}

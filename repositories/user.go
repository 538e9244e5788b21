//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"context"
	"fmt"
	"pawmatch/domain"
	"pawmatch/errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IUserRepository interface {
	CreateUser(ctx context.Context, email, hashedPassword string, plan domain.Plan) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUser(ctx context.Context, id domain.UserID) (User, error)
}

// User is the account record behind a domain.UserID.
type User struct {
	ID           domain.UserID
	Email        string
	PasswordHash string
	Roles        []string
	Plan         domain.Plan
	CreatedAt    time.Time
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) UserRepository {
	return UserRepository{db: db}
}

func (u UserRepository) CreateUser(_ context.Context, email, hashedPassword string, plan domain.Plan) (User, error) {
	user := User{
		ID:           domain.UserID(uuid.New().String()),
		Email:        email,
		PasswordHash: hashedPassword,
		Roles:        []string{"user"},
		Plan:         plan,
		CreatedAt:    time.Now().UTC(),
	}
	err := u.db.Update(func(txn *badger.Txn) error {
		exists, err := has(txn, userEmailKey(email))
		if err != nil {
			return err
		}
		if exists {
			return errors.ErrUserAlreadyExists
		}
		if err = setValue(txn, userEmailKey(email), user); err != nil {
			return err
		}
		return txn.Set(userIDKey(user.ID), []byte(email))
	})
	if err != nil {
		return User{}, mapConflict(err)
	}
	return user, nil
}

func (u UserRepository) GetUserByEmail(_ context.Context, email string) (User, error) {
	var user User
	err := u.db.View(func(txn *badger.Txn) error {
		return getValue(txn, userEmailKey(email), &user)
	})
	return user, err
}

func (u UserRepository) GetUser(_ context.Context, id domain.UserID) (User, error) {
	var user User
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userIDKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("user %s: %w", id, errors.ErrNotFound)
		}
		if err != nil {
			return err
		}
		email, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return getValue(txn, userEmailKey(string(email)), &user)
	})
	return user, err
}

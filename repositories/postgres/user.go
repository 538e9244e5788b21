package postgres

import (
	"context"
	"pawmatch/domain"
	"pawmatch/errors"
	"pawmatch/repositories"
	"time"

	"github.com/google/uuid"
)

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password_hash, roles, plan, created_at`

func (r *UserRepository) CreateUser(ctx context.Context, email, hashedPassword string, plan domain.Plan) (repositories.User, error) {
	user := repositories.User{
		ID:           domain.UserID(uuid.New().String()),
		Email:        email,
		PasswordHash: hashedPassword,
		Roles:        []string{"user"},
		Plan:         plan,
		CreatedAt:    time.Now().UTC(),
	}
	_, err := r.db.Exec(ctx, `INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Email, user.PasswordHash, user.Roles, user.Plan, user.CreatedAt)
	if err != nil {
		err = mapError(err, "create user")
		if errors.Is(err, errors.ErrConflict) {
			return repositories.User{}, errors.ErrUserAlreadyExists
		}
		return repositories.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (repositories.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) GetUser(ctx context.Context, id domain.UserID) (repositories.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) get(ctx context.Context, query string, arg any) (repositories.User, error) {
	var user repositories.User
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Roles, &user.Plan, &user.CreatedAt,
	)
	if err != nil {
		return repositories.User{}, mapError(err, "get user %v", arg)
	}
	user.CreatedAt = user.CreatedAt.UTC()
	return user, nil
}

var (
	_ repositories.IUserRepository    = (*UserRepository)(nil)
	_ repositories.IPetRepository     = (*PetRepository)(nil)
	_ repositories.ILikeStore         = (*LikeRepository)(nil)
	_ repositories.IMatchRepository   = (*LikeRepository)(nil)
	_ repositories.IMessageRepository = (*MessageRepository)(nil)
)

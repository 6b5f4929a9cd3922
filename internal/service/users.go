package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aptiprep/backend/internal/domain/list"
	"github.com/aptiprep/backend/internal/domain/user"
	"github.com/aptiprep/backend/internal/store"
)

type UserStore interface {
	SaveUser(ctx context.Context, u *user.User) error
	GetUser(ctx context.Context, id string) (*user.User, error)
	GetUserByUsername(ctx context.Context, username string) (*user.User, error)
}

// FavoritesProvisioner creates a user's favorites list if it is missing.
type FavoritesProvisioner interface {
	EnsureFavorites(ctx context.Context, userID string) (*list.List, error)
}

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	IssueJWT(userID, role string) (string, error)
}

type UserService struct {
	users     UserStore
	favorites FavoritesProvisioner
	tokens    TokenIssuer
	logger    *slog.Logger
}

func NewUserService(u UserStore, f FavoritesProvisioner, t TokenIssuer, logger *slog.Logger) *UserService {
	return &UserService{users: u, favorites: f, tokens: t, logger: logger}
}

// Register creates a regular user and provisions their favorites list.
func (us *UserService) Register(ctx context.Context, username, email, password string) (*user.User, error) {
	return us.create(ctx, username, email, password, user.RoleUser)
}

func (us *UserService) create(ctx context.Context, username, email, password string, role user.Role) (*user.User, error) {
	u, err := user.New(username, email, password, role)
	if err != nil {
		if errors.Is(err, user.ErrInvalidUsername) || errors.Is(err, user.ErrWeakPassword) {
			return nil, invalid(err)
		}
		return nil, err
	}
	if err := us.users.SaveUser(ctx, u); err != nil {
		return nil, err
	}
	if _, err := us.favorites.EnsureFavorites(ctx, u.ID); err != nil {
		// Favorites is provisioned lazily on first use as well.
		us.logger.Error("failed to provision favorites", "user_id", u.ID, "error", err)
	}
	return u, nil
}

// Login checks credentials and returns a signed token.
func (us *UserService) Login(ctx context.Context, username, password string) (string, *user.User, error) {
	u, err := us.users.GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil, fmt.Errorf("%w: %w", ErrUnauthorized, user.ErrBadCredentials)
	}
	if err != nil {
		return "", nil, err
	}
	if err := u.CheckPassword(password); err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	tok, err := us.tokens.IssueJWT(u.ID, string(u.Role))
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return tok, u, nil
}

func (us *UserService) Get(ctx context.Context, id string) (*user.User, error) {
	return us.users.GetUser(ctx, id)
}

// EnsureAdmin creates the bootstrap admin account unless the username is taken.
func (us *UserService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	_, err := us.users.GetUserByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}
	_, err = us.create(ctx, username, "", password, user.RoleAdmin)
	if errors.Is(err, store.ErrConflict) {
		return nil
	}
	if err == nil {
		us.logger.Info("bootstrap admin created", "username", username)
	}
	return err
}

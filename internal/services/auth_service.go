package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/thereayou/roomboard/internal/apperr"
	"github.com/thereayou/roomboard/internal/database"
	"github.com/thereayou/roomboard/internal/models"
	"github.com/thereayou/roomboard/pkg/auth"
)

const (
	minPasswordLen = 8
	maxUsernameLen = 150
)

type AuthResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type AuthService struct {
	db         *database.Database
	jwtManager *auth.JWTManager
	blacklist  auth.Blacklist
	settings
}

func NewAuthService(db *database.Database, jwtManager *auth.JWTManager, blacklist auth.Blacklist, opts ...Option) *AuthService {
	return &AuthService{db: db, jwtManager: jwtManager, blacklist: blacklist, settings: newSettings(opts)}
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*AuthResponse, error) {
	username, err := requireText("Username", normalizeUsername(username), maxUsernameLen)
	if err != nil {
		return nil, err
	}
	if len(password) < minPasswordLen {
		return nil, apperr.Validation(fmt.Sprintf("Password must be at least %d characters", minPasswordLen))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Username: username, PasswordHash: string(hash), LastSeenAt: s.now()}
	err = s.db.Transaction(ctx, func(tx *database.Database) error {
		_, err := tx.FindUserByUsername(ctx, username)
		switch {
		case err == nil:
			return apperr.ErrUsernameTaken
		case apperr.KindOf(err) != apperr.KindNotFound:
			return fmt.Errorf("find user: %w", err)
		}
		return tx.SaveUser(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	token, err := s.jwtManager.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &AuthResponse{User: user, Token: token}, nil
}

// Login never tells an unknown username apart from a wrong password.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	user, err := s.db.FindUserByUsername(ctx, normalizeUsername(username))
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.ErrInvalidCredential
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.ErrInvalidCredential
	}

	if err := s.db.UpdateLastSeen(ctx, user.ID, s.now()); err != nil {
		return nil, fmt.Errorf("update last seen: %w", err)
	}

	token, err := s.jwtManager.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &AuthResponse{User: user, Token: token}, nil
}

// Logout revokes the token for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	exp, err := s.jwtManager.Expiry(token)
	if err != nil {
		return apperr.ErrUnauthenticated
	}
	return s.blacklist.Revoke(ctx, token, time.Until(exp))
}

// Authenticate resolves a bearer token to a user id.
func (s *AuthService) Authenticate(ctx context.Context, token string) (uuid.UUID, error) {
	revoked, err := s.blacklist.IsRevoked(ctx, token)
	if err != nil {
		return uuid.Nil, fmt.Errorf("check blacklist: %w", err)
	}
	if revoked {
		return uuid.Nil, apperr.ErrUnauthenticated
	}
	id, err := s.jwtManager.UserID(token)
	if err != nil {
		return uuid.Nil, apperr.ErrUnauthenticated
	}
	return id, nil
}

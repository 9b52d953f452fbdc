// Package services contains server-side business logic. This file
// implements UserService, which handles registration, credential
// verification, token issuance, and profile updates.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/server/auth"
	"github.com/dmitrijs2005/taskboard/internal/server/config"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/users"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// hashCost is the bcrypt work factor for new password hashes.
const hashCost = 10

// UserService provides identity operations:
//   - Register: create users with hashed credentials
//   - Login: verify credentials and mint a token
//   - GetProfile / UpdateProfile: read and patch the caller's record
type UserService struct {
	db            *sql.DB
	repos         repomanager.Manager
	jwtSecret     []byte
	tokenValidity time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.Manager, cfg *config.Config) *UserService {
	return &UserService{
		db:            db,
		repos:         m,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
	}
}

// normalizeEmail lower-cases and trims an address so lookups and the
// unique index agree on a single representation.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user. The plaintext password is replaced with a
// salted bcrypt hash before anything is persisted. A username or email
// already in use yields common.ErrorConflict; the check-then-insert
// sequence is not transactional, so the unique indexes settle concurrent
// registrations and the loser surfaces the same Conflict.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {

	email = normalizeEmail(email)
	repo := s.repos.Users(s.db)

	exists, err := repo.Exists(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("error checking user existence: %w", err)
	}
	if exists {
		return nil, common.ErrorConflict
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	created, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return created, nil
}

// Login verifies the email/password pair and returns a signed token plus
// the user record. An unknown email and a wrong password are
// indistinguishable to the caller: both yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {

	user, err := s.repos.Users(s.db).GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil, common.ErrorUnauthorized
		}
		return "", nil, common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return "", nil, common.ErrorInternal
	}

	return token, user, nil
}

// GetProfile returns the user record for userID.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repos.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

// UpdateProfile applies the supplied username/email changes. The password
// hash is untouched by profile updates. Colliding identities yield
// common.ErrorConflict, a vanished user yields common.ErrorNotFound.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, patch users.Patch) (*models.User, error) {

	if patch.Email != nil {
		normalized := normalizeEmail(*patch.Email)
		patch.Email = &normalized
	}

	user, err := s.repos.Users(s.db).Update(ctx, userID, patch)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorConflict) {
			return nil, err
		}
		return nil, common.ErrorInternal
	}

	return user, nil
}

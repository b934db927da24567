package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/filehost/internal/common"
	"github.com/dmitrijs2005/filehost/internal/server/auth"
	"github.com/dmitrijs2005/filehost/internal/server/config"
	"github.com/dmitrijs2005/filehost/internal/server/models"
	"github.com/dmitrijs2005/filehost/internal/server/repositories/repomanager"
)

// UserService owns accounts and sessions: registration, password login,
// token issuing and resolving a bearer token back to its user.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenService
	hasher      *auth.BcryptHasher
	now         func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		tokens:      auth.NewTokenService([]byte(cfg.SecretKey), cfg.TokenMaxAge),
		hasher:      auth.NewBcryptHasher(0),
		now:         time.Now,
	}
}

// Register creates an account. Username and email must be unused; the
// password is stored only as a bcrypt hash.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", common.ErrValidation)
	}

	repo := s.repomanager.Users(s.db)

	exists, err := repo.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		return nil, fmt.Errorf("error checking user: %w", err)
	}
	if exists {
		return nil, common.ErrUserAlreadyExists
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user, err := repo.Create(ctx, &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, common.ErrUserAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Authenticate checks an email/password pair. Unknown email and wrong
// password produce the same error.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// keep the response time close to a real comparison
			_, _ = s.hasher.Verify(s.dummy(), password)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	ok, err := s.hasher.Verify(user.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	return user, nil
}

// Login authenticates and issues a session token for the user.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(user.ID, s.now())
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// Resolve maps a session token to the user it was issued for.
func (s *UserService) Resolve(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Verify(token, s.now())
	if err != nil {
		return nil, err
	}

	id, err := claims.UserID()
	if err != nil {
		return nil, fmt.Errorf("token subject: %w", err)
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	return user, nil
}

func (s *UserService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("filehost-dummy-password")
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}

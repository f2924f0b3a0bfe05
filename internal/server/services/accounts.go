package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vyacheslafka/cloudstorage-server/internal/common"
	"github.com/vyacheslafka/cloudstorage-server/internal/logging"
	"github.com/vyacheslafka/cloudstorage-server/internal/server/auth"
	"github.com/vyacheslafka/cloudstorage-server/internal/server/config"
	"github.com/vyacheslafka/cloudstorage-server/internal/server/models"
	"github.com/vyacheslafka/cloudstorage-server/internal/server/repositories/repomanager"
)

// Seams for tests.
var (
	hashPassword = func(password []byte) ([]byte, error) {
		return bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	}
	comparePassword = bcrypt.CompareHashAndPassword
)

// AccountService handles registration, login, account settings, and account
// deletion. Password changes trigger bulk re-encryption of the account's
// files through FileService.
type AccountService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	files         *FileService
	sessions      *auth.SessionStore
	logger        logging.Logger
	jwtSecret     []byte
	tokenValidity time.Duration
}

// NewAccountService constructs an AccountService using repositories and
// server config.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, files *FileService,
	sessions *auth.SessionStore, logger logging.Logger, cfg *config.Config) *AccountService {
	return &AccountService{
		db:            db,
		repomanager:   m,
		files:         files,
		sessions:      sessions,
		logger:        logger,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.AccessTokenValidityDuration,
	}
}

// Register creates a new account with the default role. Name and email must
// both be unused; otherwise common.ErrAlreadyExists is returned.
func (s *AccountService) Register(ctx context.Context, name, email, password string) (*models.Account, error) {
	repo := s.repomanager.Accounts(s.db)

	if _, err := repo.FindByName(ctx, name); err == nil {
		return nil, common.ErrAlreadyExists
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}
	if _, err := repo.FindByEmail(ctx, email); err == nil {
		return nil, common.ErrAlreadyExists
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	hash, err := hashPassword([]byte(password))
	if err != nil {
		return nil, common.ErrInternal
	}

	account, err := repo.Create(ctx, &models.Account{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	s.logger.Info(ctx, "account registered", "id", account.ID, "name", account.Name)
	return account, nil
}

// Login verifies credentials, mints an access token, and opens a session
// holding the vault secret (the raw password) for file encryption.
func (s *AccountService) Login(ctx context.Context, name, password string) (string, *models.Account, error) {
	account, err := s.repomanager.Accounts(s.db).FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", nil, common.ErrUnauthorized
		}
		return "", nil, common.ErrInternal
	}

	if comparePassword(account.PasswordHash, []byte(password)) != nil {
		return "", nil, common.ErrUnauthorized
	}

	tokenID := uuid.NewString()
	token, err := auth.GenerateToken(account.ID, tokenID, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return "", nil, common.ErrInternal
	}
	s.sessions.Put(tokenID, account.ID, []byte(password), s.tokenValidity)

	s.logger.Info(ctx, "account logged in", "id", account.ID)
	return token, account, nil
}

// Logout drops the session behind tokenID.
func (s *AccountService) Logout(tokenID string) {
	s.sessions.Delete(tokenID)
}

// Get returns the account by id.
func (s *AccountService) Get(ctx context.Context, id int64) (*models.Account, error) {
	return s.repomanager.Accounts(s.db).FindByID(ctx, id)
}

// UpdateName changes the display name; the new name must be unused.
func (s *AccountService) UpdateName(ctx context.Context, accountID int64, name string) error {
	repo := s.repomanager.Accounts(s.db)

	if other, err := repo.FindByName(ctx, name); err == nil && other.ID != accountID {
		return common.ErrAlreadyExists
	} else if err != nil && !errors.Is(err, common.ErrNotFound) {
		return err
	}

	return repo.UpdateName(ctx, accountID, name)
}

// UpdateEmail changes the contact email; the new email must be unused.
func (s *AccountService) UpdateEmail(ctx context.Context, accountID int64, email string) error {
	repo := s.repomanager.Accounts(s.db)

	if other, err := repo.FindByEmail(ctx, email); err == nil && other.ID != accountID {
		return common.ErrAlreadyExists
	} else if err != nil && !errors.Is(err, common.ErrNotFound) {
		return err
	}

	return repo.UpdateEmail(ctx, accountID, email)
}

// UpdatePassword verifies the current password, stores the new hash, then
// re-encrypts the account's files from the old secret to the new one. The
// old secret is the verified current password, captured before the hash
// update; getting that ordering wrong would corrupt every stored file.
// Open sessions are switched to the new secret afterwards.
func (s *AccountService) UpdatePassword(ctx context.Context, accountID int64, currentPassword, newPassword string) (*RotationSummary, error) {
	repo := s.repomanager.Accounts(s.db)

	account, err := repo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if comparePassword(account.PasswordHash, []byte(currentPassword)) != nil {
		return nil, common.ErrUnauthorized
	}

	hash, err := hashPassword([]byte(newPassword))
	if err != nil {
		return nil, common.ErrInternal
	}
	if err := repo.UpdatePasswordHash(ctx, accountID, hash); err != nil {
		return nil, err
	}

	summary, err := s.files.RotateSecret(ctx, accountID, []byte(currentPassword), []byte(newPassword))
	if err != nil {
		return nil, err
	}
	if !summary.Ok() {
		s.logger.Warn(ctx, "password changed but some files were not rotated",
			"id", accountID, "failed", len(summary.Failures))
	}

	s.sessions.UpdateSecret(accountID, []byte(newPassword))

	s.logger.Info(ctx, "password updated", "id", accountID)
	return summary, nil
}

// Delete verifies the password, removes all of the account's files and its
// blob directory, drops the account row, and closes its sessions.
func (s *AccountService) Delete(ctx context.Context, accountID int64, password string) error {
	repo := s.repomanager.Accounts(s.db)

	account, err := repo.FindByID(ctx, accountID)
	if err != nil {
		return err
	}
	if comparePassword(account.PasswordHash, []byte(password)) != nil {
		return common.ErrUnauthorized
	}

	if err := s.files.DeleteAllForOwner(ctx, Owner{ID: accountID, Secret: []byte(password)}); err != nil {
		return err
	}

	if err := repo.Delete(ctx, accountID); err != nil {
		return err
	}

	s.sessions.DeleteByAccount(accountID)

	s.logger.Info(ctx, "account deleted", "id", accountID)
	return nil
}

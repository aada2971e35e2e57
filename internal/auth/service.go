// Package auth gates the data room behind local accounts. Passwords are
// stored as argon2id hashes; a successful login yields an HS256 session
// token that is persisted in the metadata table so the session survives
// restarts until it expires.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/dmitrijs2005/dataroom/internal/common"
	"github.com/dmitrijs2005/dataroom/internal/cryptox"
	"github.com/dmitrijs2005/dataroom/internal/dbx"
	"github.com/dmitrijs2005/dataroom/internal/logging"
	"github.com/dmitrijs2005/dataroom/internal/models"
	"github.com/dmitrijs2005/dataroom/internal/repositories/repomanager"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

const (
	DefaultTTL = 24 * time.Hour

	metadataSecret = "session_secret"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

type Options struct {
	// Secret signs session tokens. When empty a random secret is generated
	// once and kept in the metadata table.
	Secret string
	TTL    time.Duration
}

type Service struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	opts   Options
	secret []byte
	logger logging.Logger
	now    func() time.Time
}

func NewService(db *sql.DB, repos repomanager.RepositoryManager, opts Options, logger logging.Logger) *Service {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{db: db, repos: repos, opts: opts, logger: logger, now: time.Now}
}

func (s *Service) signingKey(ctx context.Context) ([]byte, error) {
	if s.secret != nil {
		return s.secret, nil
	}
	if s.opts.Secret != "" {
		s.secret = []byte(s.opts.Secret)
		return s.secret, nil
	}

	repo := s.repos.Metadata(s.db)
	stored, err := repo.Get(ctx, metadataSecret)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		generated, err := common.MakeRandHexString(32)
		if err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
		stored = []byte(generated)
		if err := repo.Set(ctx, metadataSecret, stored); err != nil {
			return nil, err
		}
	}
	s.secret = stored
	return s.secret, nil
}

func validateCredentials(username string, password []byte) error {
	err := validation.Errors{
		"username": validation.Validate(username,
			validation.Required,
			validation.RuneLength(3, 64),
			validation.Match(usernamePattern).Error("may contain letters, digits, '.', '_' and '-' only"),
		),
		"password": validation.Validate(string(password),
			validation.Required,
			validation.RuneLength(8, 256),
		),
	}.Filter()
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	return nil
}

// Register creates a local account. Duplicate usernames fail with
// common.ErrAlreadyExists.
func (s *Service) Register(ctx context.Context, username string, password []byte) (*models.User, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	salt := cryptox.NewSalt()
	u := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: cryptox.HashPassword(password, salt),
		Salt:         salt,
		CreatedAt:    s.now().UTC().Truncate(time.Microsecond),
	}

	if err := s.repos.Users(s.db).Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user registered", "username", username)
	return u, nil
}

// Login verifies the password and persists a new session.
func (s *Service) Login(ctx context.Context, username string, password []byte) (*models.Session, error) {
	u, err := s.repos.Users(s.db).GetByUsername(ctx, username)
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !cryptox.VerifyPassword(password, u.Salt, u.PasswordHash) {
		s.logger.Warn(ctx, "login failed", "username", username)
		return nil, common.ErrInvalidCredentials
	}

	sess, err := s.issue(ctx, u.ID, u.Username, true)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user logged in", "username", username)
	return sess, nil
}

func (s *Service) issue(ctx context.Context, userID, username string, touch bool) (*models.Session, error) {
	secret, err := s.signingKey(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	token, expires, err := generateToken(userID, username, secret, now, s.opts.TTL)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if touch {
			if err := s.repos.Users(tx).TouchLogin(ctx, userID, now.UTC().Truncate(time.Microsecond)); err != nil {
				return err
			}
		}
		md := s.repos.Metadata(tx)
		if err := md.Set(ctx, common.MetadataSessionToken, []byte(token)); err != nil {
			return err
		}
		return md.Set(ctx, common.MetadataSessionUser, []byte(username))
	})
	if err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	return &models.Session{UserID: userID, Username: username, Token: token, ExpiresAt: expires}, nil
}

// Session returns the persisted session. Without one it fails with
// common.ErrUnauthorized; an expired or tampered token is cleared and
// reported as common.ErrSessionExpired or common.ErrInvalidToken.
func (s *Service) Session(ctx context.Context) (*models.Session, error) {
	raw, err := s.repos.Metadata(s.db).Get(ctx, common.MetadataSessionToken)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, common.ErrUnauthorized
	}

	secret, err := s.signingKey(ctx)
	if err != nil {
		return nil, err
	}

	claims, err := parseToken(string(raw), secret, s.now)
	if err != nil {
		if clearErr := s.clear(ctx); clearErr != nil {
			s.logger.Error(ctx, "failed to clear session", "error", clearErr)
		}
		return nil, err
	}

	return &models.Session{
		UserID:    claims.UserID,
		Username:  claims.Username,
		Token:     string(raw),
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *Service) IsAuthenticated(ctx context.Context) bool {
	_, err := s.Session(ctx)
	return err == nil
}

// Refresh extends a valid session by the configured TTL from now.
func (s *Service) Refresh(ctx context.Context) (*models.Session, error) {
	cur, err := s.Session(ctx)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, cur.UserID, cur.Username, false)
}

func (s *Service) Logout(ctx context.Context) error {
	if err := s.clear(ctx); err != nil {
		return err
	}
	s.logger.Info(ctx, "user logged out")
	return nil
}

func (s *Service) clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		md := s.repos.Metadata(tx)
		if err := md.Delete(ctx, common.MetadataSessionToken); err != nil {
			return err
		}
		return md.Delete(ctx, common.MetadataSessionUser)
	})
}

// ChangePassword replaces the password after verifying the current one.
// The active session stays valid.
func (s *Service) ChangePassword(ctx context.Context, username string, current, next []byte) error {
	repo := s.repos.Users(s.db)

	u, err := repo.GetByUsername(ctx, username)
	if errors.Is(err, common.ErrNotFound) {
		return common.ErrInvalidCredentials
	}
	if err != nil {
		return err
	}
	if !cryptox.VerifyPassword(current, u.Salt, u.PasswordHash) {
		return common.ErrInvalidCredentials
	}
	if err := validateCredentials(username, next); err != nil {
		return err
	}

	salt := cryptox.NewSalt()
	if err := repo.UpdatePassword(ctx, u.ID, cryptox.HashPassword(next, salt), salt); err != nil {
		return err
	}

	s.logger.Info(ctx, "password changed", "username", username)
	return nil
}

package application

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/secureweb/auth-service/internal/domain/autherr"
	"github.com/secureweb/auth-service/internal/domain/entity"
	repo "github.com/secureweb/auth-service/internal/domain/repository"
	"github.com/secureweb/auth-service/pkg/helpers"
	"github.com/secureweb/auth-service/pkg/mailer"
)

// emailShape mirrors the address grammar the frontend validates against:
// dotted local part or a quoted string, at a dotted domain or a bracketed IPv4.
var emailShape = regexp.MustCompile(`^(([^<>()\[\]\\.,;:\s@"]+(\.[^<>()\[\]\\.,;:\s@"]+)*)|(".+"))@((\[[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\])|(([a-zA-Z\-0-9]+\.)+[a-zA-Z]{2,}))$`)

const resetPasswordLen = 12

// ResetMailer delivers the password-reset email. Exactly one outbound
// email per successful call.
type ResetMailer interface {
	SendPasswordReset(ctx context.Context, to, newPassword string) error
}

type Service struct {
	Repo   repo.UserRepository
	Mailer ResetMailer
	JWT    *helpers.JWTManager
	Redis  *redis.Client
	Pub    *helpers.RabbitPublisher
	Logger *logrus.Logger
}

func NewService(r repo.UserRepository, m ResetMailer, jwt *helpers.JWTManager, rdb *redis.Client, pub *helpers.RabbitPublisher, logger *logrus.Logger) *Service {
	return &Service{Repo: r, Mailer: m, JWT: jwt, Redis: rdb, Pub: pub, Logger: logger}
}

type RegisterInput struct {
	Username string
	Password string
	Confirm  string
	Email    string
	Phone    string
	Address  string
}

// Register creates a new account. Checks run in a fixed order and the
// first failure wins: confirm match, password strength, email shape,
// duplicate (username, email) pair. The unique index on username is the
// authoritative duplicate signal; the pair lookup just reports earlier.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if in.Password != in.Confirm {
		return nil, autherr.ErrPasswordMismatch
	}
	if !strongPassword(in.Password) {
		return nil, autherr.ErrWeakPassword
	}
	if !emailShape.MatchString(in.Email) {
		return nil, autherr.ErrInvalidEmail
	}

	username := entity.Canonical(in.Username)
	email := entity.Canonical(in.Email)

	if existing, err := s.Repo.GetByUsernameAndEmail(username, email); err == nil && existing != nil {
		return nil, autherr.ErrUserExists
	} else if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &entity.User{
		Username: username,
		Email:    email,
		Password: hash,
		Phone:    strings.TrimSpace(in.Phone),
		Address:  strings.TrimSpace(in.Address),
	}
	if err := s.Repo.Create(u); err != nil {
		if errors.Is(err, repo.ErrDuplicateUsername) {
			return nil, autherr.ErrUserExists
		}
		return nil, err
	}

	s.enqueueWelcome(ctx, u)

	return u.Sanitized(), nil
}

// Login verifies credentials and returns the account without its hash.
// Unknown user and wrong password stay distinct failures; deployments
// wanting enumeration resistance can collapse the codes at the edge.
func (s *Service) Login(ctx context.Context, username, password string) (*entity.User, error) {
	u, err := s.Repo.GetByUsername(entity.Canonical(username))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, autherr.ErrUserNotFound
		}
		return nil, err
	}
	if !helpers.CheckPassword(u.Password, password) {
		return nil, autherr.ErrInvalidCredentials
	}
	return u.Sanitized(), nil
}

// ForgotPassword rotates the credential to a random password and emails
// it to the account address. Delivery happens before the new hash is
// persisted: if the email cannot be sent the stored credential is left
// untouched and the failure is reported to the caller.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.Repo.GetByEmail(entity.Canonical(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return autherr.ErrUserNotFound
		}
		return err
	}

	plain, err := helpers.GenPassword(resetPasswordLen)
	if err != nil {
		return err
	}
	hash, err := helpers.HashPassword(plain)
	if err != nil {
		return err
	}

	if err := s.Mailer.SendPasswordReset(ctx, u.Email, plain); err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("reset email delivery failed")
		}
		return fmt.Errorf("%w: %v", autherr.ErrDeliveryFailed, err)
	}

	u.Password = hash
	if err := s.Repo.Update(u); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("password reset delivered")
	}
	return nil
}

// ChangePassword replaces the credential after verifying the old one.
func (s *Service) ChangePassword(ctx context.Context, username, oldPassword, newPassword, confirm string) (*entity.User, error) {
	if newPassword != confirm {
		return nil, autherr.ErrPasswordMismatch
	}
	u, err := s.Repo.GetByUsername(entity.Canonical(username))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, autherr.ErrUserNotFound
		}
		return nil, err
	}
	if !helpers.CheckPassword(u.Password, oldPassword) {
		return nil, autherr.ErrInvalidCredentials
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}
	u.Password = hash
	if err := s.Repo.Update(u); err != nil {
		return nil, err
	}
	return u.Sanitized(), nil
}

// GetProfile returns the account for an authenticated session.
func (s *Service) GetProfile(username string) (*entity.User, error) {
	u, err := s.Repo.GetByUsername(entity.Canonical(username))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, autherr.ErrUserNotFound
		}
		return nil, err
	}
	return u.Sanitized(), nil
}

// strongPassword enforces the registration policy: length >= 8 with at
// least one digit, one lowercase and one uppercase letter.
func strongPassword(p string) bool {
	return len(p) >= 8 &&
		strings.ContainsAny(p, "0123456789") &&
		strings.ContainsAny(p, "abcdefghijklmnopqrstuvwxyz") &&
		strings.ContainsAny(p, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
}

// enqueueWelcome fires the post-registration email through the queue.
// Best effort: the email carries no credential, so a lost message costs
// nothing but a greeting.
func (s *Service) enqueueWelcome(ctx context.Context, u *entity.User) {
	if s.Pub == nil {
		return
	}
	job := mailer.WelcomeJob(u.Email, u.Username)
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("welcome email enqueue failed")
	}
}

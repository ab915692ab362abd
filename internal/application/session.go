package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/secureweb/auth-service/internal/domain/entity"
)

const sessionTTL = 24 * time.Hour

var errInvalidSession = errors.New("invalid session")

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func sessionKey(username string) string {
	return "user:session:" + username
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// IssueTokens generates an access/refresh pair and records the session
// in Redis. The session id is rotated on every issue.
func (s *Service) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.Username, sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.Username, sid)
	if err != nil {
		return TokenPair{}, err
	}

	if s.Redis != nil {
		key := sessionKey(u.Username)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"username":   u.Username,
			"email":      u.Email,
			"sid":        sid,
			"created_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, sessionTTL)
		if _, err := pipe.Exec(ctx); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Refresh validates a refresh token against the stored session and
// rotates both tokens and the session id.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	u, err := s.Repo.GetByUsername(claims.Username)
	if err != nil {
		return TokenPair{}, err
	}
	if s.Redis != nil {
		data, err := s.Redis.HGetAll(ctx, sessionKey(u.Username)).Result()
		if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, errInvalidSession
		}
	}
	return s.IssueTokens(ctx, u)
}

package service

import (
	"context"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"

	"files_manager/server/files/domain"
)

const (
	sessionKeyPrefix = "auth_"
	sessionTTL       = 24 * time.Hour
)

type sessionStore interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key string) error
}

type userDirectory interface {
	GetByCredentials(ctx context.Context, email, passwordHash string) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
}

// AuthService owns the session token lifecycle: absent -> Connect ->
// active (TTL 86400s) -> Disconnect or expiry -> absent. Every successful
// Connect issues an independent token, so one user may hold several
// concurrent sessions.
type AuthService struct {
	users    userDirectory
	sessions sessionStore
}

func NewAuthService(users userDirectory, sessions sessionStore) *AuthService {
	return &AuthService{users: users, sessions: sessions}
}

// Connect exchanges a Basic authorization header for an opaque session token.
func (s *AuthService) Connect(ctx context.Context, authorization string) (string, error) {
	email, password, ok := decodeBasicAuth(authorization)
	if !ok {
		return "", domain.ErrUnauthorized
	}

	user, err := s.users.GetByCredentials(ctx, email, hashPassword(password))
	if err != nil {
		return "", domain.ErrUnauthorized
	}

	token := uuid.NewString()
	if err := s.sessions.Set(ctx, sessionKeyPrefix+token, user.ID, sessionTTL); err != nil {
		return "", err
	}
	return token, nil
}

// Disconnect drops the session. Deleting an absent key is not an error.
func (s *AuthService) Disconnect(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrUnauthorized
	}
	return s.sessions.Del(ctx, sessionKeyPrefix+token)
}

// ResolveUser maps a token to its user id. It issues no cache writes, so it
// is safe to call repeatedly within one request.
func (s *AuthService) ResolveUser(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", domain.ErrUnauthorized
	}
	userID, err := s.sessions.Get(ctx, sessionKeyPrefix+token)
	if err != nil || userID == "" {
		return "", domain.ErrUnauthorized
	}
	return userID, nil
}

// WhoAmI resolves the token and loads the user behind it. A session whose
// user record no longer exists is treated as unauthorized.
func (s *AuthService) WhoAmI(ctx context.Context, token string) (domain.User, error) {
	userID, err := s.ResolveUser(ctx, token)
	if err != nil {
		return domain.User{}, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.User{}, domain.ErrUnauthorized
	}
	return user, nil
}

func decodeBasicAuth(header string) (email, password string, ok bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", "", false
	}
	return strings.Cut(string(decoded), ":")
}

// hashPassword computes the deterministic digest credentials are stored and
// looked up under.
func hashPassword(password string) string {
	sum := sha1.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}

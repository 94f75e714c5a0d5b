package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/frahmantamala/garments-tracker/internal"
	"github.com/frahmantamala/garments-tracker/internal/user"
)

// Claims represents JWT token claims
type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() internal.Identity {
	return internal.Identity{UserID: c.UserID, Email: c.Email, Role: c.Role}
}

// TokenCodec issues and verifies session tokens.
type TokenCodec interface {
	Issue(identity internal.Identity, ttl time.Duration) (token string, expiresAt time.Time, err error)
	Verify(token string) (*Claims, error)
}

type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

// AccountLookup loads the live account record. Both the user service and its
// repository adapter satisfy it.
type AccountLookup interface {
	FindByEmail(ctx context.Context, email string) (*user.User, error)
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *user.User
}

type LoginResponse struct {
	User user.Profile `json:"user"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/frahmantamala/leave-approval/internal"
)

// Credentials is what the store returns for a login attempt.
type Credentials struct {
	ID           int64
	Name         string
	Email        string
	Role         string
	PasswordHash string
}

type CredentialRepository interface {
	GetCredentialsByEmail(ctx context.Context, email string) (*Credentials, error)
}

// TokenGenerator issues and verifies access tokens.
type TokenGenerator interface {
	GenerateAccessToken(p *internal.Principal) (token string, expiresAt time.Time, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Claims are the JWT claims carried by an access token.
type Claims struct {
	EmployeeID int64  `json:"employee_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	Secret         []byte
	Issuer         string
	Audience       string
	AccessTokenTTL time.Duration
	Leeway         time.Duration
	// Now is overridable in tests.
	Now func() time.Time
}

type UserSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type LoginResult struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      UserSummary `json:"user"`
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/leave-approval/internal"
	"github.com/frahmantamala/leave-approval/internal/core/role"
)

// Service is the main auth service with dependencies
type Service struct {
	repo           CredentialRepository
	tokenGenerator TokenGenerator
	bcryptCost     int
	logger         *slog.Logger

	// compare is bcrypt.CompareHashAndPassword outside tests.
	compare       func(hash, password []byte) error
	dummyHashOnce sync.Once
	dummyHash     []byte
}

func NewService(repo CredentialRepository, tokenGen TokenGenerator, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
		logger:         logger,
		compare:        bcrypt.CompareHashAndPassword,
	}
}

// unknownEmailHash is compared against when no account matches, so that an
// unknown email costs the same bcrypt work as a wrong password.
func (s *Service) unknownEmailHash() []byte {
	s.dummyHashOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("leave-approval/no-such-account"), s.bcryptCost)
		if err != nil {
			s.logger.Error("failed to build placeholder hash", "error", err)
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func NewJWTTokenGenerator(secret, issuer, audience string, ttl time.Duration) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		Secret:         []byte(secret),
		Issuer:         issuer,
		Audience:       audience,
		AccessTokenTTL: ttl,
		Leeway:         time.Minute,
		Now:            time.Now,
	}
}

// Authenticate validates credentials and issues an access token. Unknown
// emails and wrong passwords produce the same error.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (*LoginResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(dto.Email))
	creds, err := s.repo.GetCredentialsByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, internal.ErrEmployeeNotFound) {
			_ = s.compare(s.unknownEmailHash(), []byte(dto.Password))
			s.logger.Info("login rejected", "reason", "unknown email")
			return nil, internal.ErrInvalidCredentials
		}
		return nil, internal.NewInternalError("failed to load credentials", err)
	}

	if err := s.compare([]byte(creds.PasswordHash), []byte(dto.Password)); err != nil {
		s.logger.Info("login rejected", "reason", "password mismatch", "employee_id", creds.ID)
		return nil, internal.ErrInvalidCredentials
	}

	r, err := role.Parse(creds.Role)
	if err != nil {
		return nil, internal.NewInvariantViolation(fmt.Sprintf("employee %d has unknown role %q", creds.ID, creds.Role))
	}
	p := &internal.Principal{ID: creds.ID, Name: creds.Name, Email: creds.Email, Role: r}

	token, expiresAt, err := s.tokenGenerator.GenerateAccessToken(p)
	if err != nil {
		return nil, internal.NewInternalError("failed to issue token", err)
	}

	s.logger.Info("login succeeded", "employee_id", p.ID, "role", p.Role)
	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User: UserSummary{
			ID:    p.ID,
			Name:  p.Name,
			Email: p.Email,
			Role:  string(p.Role),
		},
	}, nil
}

// ValidateAccessToken verifies the token and returns the principal it names.
// No store lookup happens here.
func (s *Service) ValidateAccessToken(tokenString string) (*internal.Principal, error) {
	claims, err := s.tokenGenerator.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	r, err := role.Parse(claims.Role)
	if err != nil || claims.EmployeeID <= 0 {
		return nil, internal.ErrInvalidToken
	}
	return &internal.Principal{
		ID:    claims.EmployeeID,
		Name:  claims.Name,
		Email: claims.Email,
		Role:  r,
	}, nil
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (j *JWTTokenGenerator) now() time.Time {
	if j.Now == nil {
		return time.Now()
	}
	return j.Now()
}

// GenerateAccessToken signs an HS256 token for p.
func (j *JWTTokenGenerator) GenerateAccessToken(p *internal.Principal) (string, time.Time, error) {
	issuedAt := j.now()
	expiresAt := issuedAt.Add(j.AccessTokenTTL)

	claims := &Claims{
		EmployeeID: p.ID,
		Name:       p.Name,
		Email:      p.Email,
		Role:       string(p.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(p.ID, 10),
			Issuer:    j.Issuer,
			Audience:  jwt.ClaimStrings{j.Audience},
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ValidateToken validates a JWT token and returns claims
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.Issuer),
		jwt.WithAudience(j.Audience),
		jwt.WithLeeway(j.Leeway),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, internal.ErrInvalidToken
}

// Package authtoken issues and validates the stateless bearer tokens used for
// sessions. Tokens are HS256 JWTs carrying the user id (sub) and email.
package authtoken

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/mealplanner-backend/internal/platform/apierr"
)

const (
	DefaultTTL          = 7 * 24 * time.Hour
	DefaultExtendedTTL  = 30 * 24 * time.Hour
	DefaultRotateWindow = 2880 * time.Minute
)

type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

type Identity struct {
	UserID uuid.UUID
	Email  string
}

type Config struct {
	Secret       string
	TTL          time.Duration
	ExtendedTTL  time.Duration
	RotateWindow time.Duration
}

type Codec struct {
	secret       []byte
	ttl          time.Duration
	extendedTTL  time.Duration
	rotateWindow time.Duration
	now          func() time.Time
}

// NewCodec fails with apierr.ErrConfiguration when no secret is configured.
func NewCodec(cfg Config) (*Codec, error) {
	secret := strings.TrimSpace(cfg.Secret)
	if secret == "" {
		return nil, fmt.Errorf("%w: JWT_SECRET is not set", apierr.ErrConfiguration)
	}
	c := &Codec{
		secret:       []byte(secret),
		ttl:          cfg.TTL,
		extendedTTL:  cfg.ExtendedTTL,
		rotateWindow: cfg.RotateWindow,
		now:          time.Now,
	}
	if c.ttl <= 0 {
		c.ttl = DefaultTTL
	}
	if c.extendedTTL <= 0 {
		c.extendedTTL = DefaultExtendedTTL
	}
	if c.rotateWindow <= 0 {
		c.rotateWindow = DefaultRotateWindow
	}
	return c, nil
}

func (c *Codec) RotateWindow() time.Duration { return c.rotateWindow }

func (c *Codec) TTL(extended bool) time.Duration {
	if extended {
		return c.extendedTTL
	}
	return c.ttl
}

// Issue signs a token for the user. extended selects the longer lifetime used
// when a token is rotated.
func (c *Codec) Issue(userID uuid.UUID, email string, extended bool) (string, error) {
	if c == nil || len(c.secret) == 0 {
		return "", fmt.Errorf("%w: token signing secret missing", apierr.ErrConfiguration)
	}
	if userID == uuid.Nil {
		return "", errors.New("issue token: user id required")
	}
	now := c.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.TTL(extended))),
		},
		Email: email,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Validate verifies signature and expiry. Every failure is reported as
// apierr.ErrInvalidCredential.
func (c *Codec) Validate(tokenString string) (Identity, error) {
	if c == nil || len(c.secret) == 0 {
		return Identity{}, fmt.Errorf("%w: token signing secret missing", apierr.ErrConfiguration)
	}
	if strings.TrimSpace(tokenString) == "" {
		return Identity{}, apierr.ErrInvalidCredential
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	},
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
	)
	if err != nil || !parsed.Valid {
		return Identity{}, fmt.Errorf("%w: %v", apierr.ErrInvalidCredential, err)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: bad subject", apierr.ErrInvalidCredential)
	}
	return Identity{UserID: userID, Email: claims.Email}, nil
}

// TimeUntilExpiry decodes the claims without checking the signature. It is
// only meant for rotation heuristics; ok is false when the claims can't be read.
func (c *Codec) TimeUntilExpiry(tokenString string) (time.Duration, bool) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return 0, false
	}
	if claims.ExpiresAt == nil {
		return 0, false
	}
	return claims.ExpiresAt.Time.Sub(c.now()), true
}

// ShouldRotate is true when the remaining validity is known and at or below
// window. A non-positive window falls back to the configured one.
func (c *Codec) ShouldRotate(tokenString string, window time.Duration) bool {
	if window <= 0 {
		window = c.rotateWindow
	}
	remaining, ok := c.TimeUntilExpiry(tokenString)
	if !ok {
		return false
	}
	return remaining <= window
}

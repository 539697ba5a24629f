package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"fuel-delivery-service/internal/apperr"
	"fuel-delivery-service/internal/domain"
)

// Claims is the identity carried by a session token.
type Claims struct {
	Subject   string
	Role      domain.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Issued is a freshly signed token together with the claims it encodes.
type Issued struct {
	Token  string
	Claims Claims
}

type jwtClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Signer issues and verifies HS256 session tokens with a process-wide secret.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option configures a Signer.
type Option func(*Signer)

// WithClock overrides the time source used for iat/exp and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Signer) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSigner returns a Signer. An empty secret or non-positive ttl is a ConfigError.
func NewSigner(secret string, ttl time.Duration, opts ...Option) (*Signer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, apperr.Config("JWT_SECRET", "is required")
	}
	if ttl <= 0 {
		return nil, apperr.Config("JWT_TTL", "must be positive")
	}
	s := &Signer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TTL returns the lifetime of issued tokens.
func (s *Signer) TTL() time.Duration { return s.ttl }

// Issue signs c.Subject and c.Role; IssuedAt and ExpiresAt are set by the signer.
func (s *Signer) Issue(c Claims) (Issued, error) {
	if strings.TrimSpace(c.Subject) == "" {
		return Issued{}, fmt.Errorf("token subject is empty: %w", apperr.ErrInvalidInput)
	}

	// NumericDate has second precision.
	iat := s.now().UTC().Truncate(time.Second)
	exp := iat.Add(s.ttl)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		Role: string(c.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.Subject,
			IssuedAt:  jwt.NewNumericDate(iat),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return Issued{}, fmt.Errorf("sign token: %w", err)
	}

	return Issued{
		Token: signed,
		Claims: Claims{
			Subject:   c.Subject,
			Role:      c.Role,
			IssuedAt:  iat,
			ExpiresAt: exp,
		},
	}, nil
}

// Verify checks the signature and expiry of raw and returns its claims.
// Expired tokens yield AuthError{Expired}; anything else that fails is AuthError{Malformed}.
func (s *Signer) Verify(raw string) (Claims, error) {
	parsed := &jwtClaims{}
	_, err := jwt.ParseWithClaims(raw, parsed, s.key,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(s.now),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return Claims{}, apperr.Expired(err)
	default:
		return Claims{}, apperr.Malformed(err)
	}

	if strings.TrimSpace(parsed.Subject) == "" {
		return Claims{}, apperr.Malformed(errors.New("token has no subject"))
	}
	return toClaims(parsed), nil
}

// Decode extracts claims WITHOUT checking the signature or expiry.
// The result is for log context only and must never drive authorization.
func Decode(raw string) (Claims, bool) {
	parsed := &jwtClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, parsed); err != nil {
		return Claims{}, false
	}
	return toClaims(parsed), true
}

func (s *Signer) key(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
	}
	return s.secret, nil
}

func toClaims(c *jwtClaims) Claims {
	out := Claims{
		Subject: c.Subject,
		Role:    domain.Role(c.Role),
	}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time.UTC()
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time.UTC()
	}
	return out
}

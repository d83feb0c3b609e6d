package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned for tampered, expired, or malformed tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrMissingSigningKey is returned when the issuer is built without a secret.
	ErrMissingSigningKey = errors.New("jwt signing key is not configured")
)

// TokenConfig holds the signing parameters of a TokenIssuer.
type TokenConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// Token is a signed, time-bounded proof of identity.
type Token struct {
	Value     string    `json:"token"`
	Subject   string    `json:"-"`
	IssuedAt  time.Time `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// TokenIssuer signs and verifies HS256 tokens bound to a username.
type TokenIssuer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// NewTokenIssuer builds an issuer from cfg. The secret is required.
func NewTokenIssuer(cfg TokenConfig) (*TokenIssuer, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSigningKey
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	return &TokenIssuer{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      cfg.TTL,
		now:      time.Now,
	}, nil
}

// WithClock replaces the time source, mainly for tests.
func (i *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	i.now = now
	return i
}

// Issue produces a signed token for subject that expires after the configured TTL.
func (i *TokenIssuer) Issue(subject string) (Token, error) {
	now := i.now()
	expiresAt := now.Add(i.ttl)

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    i.issuer,
		Audience:  jwt.ClaimStrings{i.audience},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return Token{}, err
	}

	return Token{
		Value:     signed,
		Subject:   subject,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify checks signature, expiry, issuer and audience and returns the subject.
func (i *TokenIssuer) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return i.secret, nil
	},
		jwt.WithTimeFunc(i.now),
		jwt.WithIssuer(i.issuer),
		jwt.WithAudience(i.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

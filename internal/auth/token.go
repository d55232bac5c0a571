// Package auth issues and verifies session tokens and hashes passwords.
package auth

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/config"
)

// TokenIssuer creates signed, time-limited session tokens carrying a user ID.
type TokenIssuer interface {
	// Issue returns a token for userID.
	Issue(userID string) (string, error)
	// Verify returns the user ID of a valid token and apperrors.ErrUnauthorized otherwise.
	Verify(token string) (string, error)
}

// NewIssuer returns the issuer selected by cfg.TokenFormat.
func NewIssuer(cfg config.AuthConfig) (TokenIssuer, error) {
	if cfg.Secret == "" {
		return nil, errors.New("auth secret is required")
	}

	switch cfg.TokenFormat {
	case config.TokenFormatFernet, "":
		return NewFernetIssuer(cfg.Secret, cfg.TokenTTL), nil
	case config.TokenFormatJWT:
		return NewJWTIssuer(cfg.Secret, cfg.TokenTTL), nil
	default:
		return nil, fmt.Errorf("unsupported token format %q", cfg.TokenFormat)
	}
}

// FernetIssuer encrypts the user ID into a Fernet token. Fernet tokens carry their creation
// time, so expiry is checked against ttl on verification.
type FernetIssuer struct {
	key *fernet.Key
	ttl time.Duration
}

// NewFernetIssuer derives the 32-byte Fernet key from secret.
func NewFernetIssuer(secret string, ttl time.Duration) *FernetIssuer {
	key := fernet.Key(sha256.Sum256([]byte(secret)))
	return &FernetIssuer{key: &key, ttl: ttl}
}

func (i *FernetIssuer) Issue(userID string) (string, error) {
	tok, err := fernet.EncryptAndSign([]byte(userID), i.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return string(tok), nil
}

func (i *FernetIssuer) Verify(token string) (string, error) {
	msg := fernet.VerifyAndDecrypt([]byte(token), i.ttl, []*fernet.Key{i.key})
	if len(msg) == 0 {
		return "", apperrors.ErrUnauthorized
	}
	return string(msg), nil
}

// JWTIssuer signs HS256 JSON Web Tokens with the user ID as subject.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTIssuer creates a JWT issuer.
func NewJWTIssuer(secret string, ttl time.Duration) *JWTIssuer {
	return &JWTIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (i *JWTIssuer) Issue(userID string) (string, error) {
	now := i.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (i *JWTIssuer) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return "", apperrors.ErrUnauthorized
	}
	return claims.Subject, nil
}

package helpers

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrUnsupportedMethod = errors.New("unsupported signing method")
)

// JWTManager signs and verifies access tokens with a single HMAC algorithm.
type JWTManager struct {
	secret    []byte
	method    jwt.SigningMethod
	AccessTTL time.Duration
}

// NewJWTManager accepts HS256, HS384 or HS512.
func NewJWTManager(secret, algorithm string, accessTTL time.Duration) (*JWTManager, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, algorithm)
	}
	if accessTTL <= 0 {
		return nil, errors.New("jwt access ttl must be positive")
	}
	return &JWTManager{secret: []byte(secret), method: method, AccessTTL: accessTTL}, nil
}

// Claims identifies the user by id (sub) and email.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (m *JWTManager) GenerateAccessToken(userID, email string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(m.AccessTTL)
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	s, err := jwt.NewWithClaims(m.method, claims).SignedString(m.secret)
	return s, exp, err
}

// ParseAccessToken verifies signature, algorithm and expiry. Tokens missing the
// subject or email claim are rejected.
func (m *JWTManager) ParseAccessToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tkn.Valid || claims.Subject == "" || claims.Email == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

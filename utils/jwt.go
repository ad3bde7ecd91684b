package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	purposeAccess        = "access"
	purposePasswordReset = "password_reset"

	PasswordResetTTL = time.Hour
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	UserID      uint   `json:"user_id"`
	Purpose     string `json:"purpose"`
	Fingerprint string `json:"fp,omitempty"`
	jwt.RegisteredClaims
}

// JWTManager issues and validates HS256 tokens. Access tokens and password
// reset tokens share the secret but are told apart by their purpose claim.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (m *JWTManager) GenerateJWT(userID uint) (string, error) {
	return m.sign(&Claims{UserID: userID, Purpose: purposeAccess}, m.ttl)
}

func (m *JWTManager) ValidateJWT(tokenString string) (uint, error) {
	claims, err := m.parse(tokenString, purposeAccess)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

// GeneratePasswordResetToken binds the token to the user's current password
// fingerprint so it cannot be replayed after the password changes.
func (m *JWTManager) GeneratePasswordResetToken(userID uint, fingerprint string) (string, error) {
	return m.sign(&Claims{
		UserID:      userID,
		Purpose:     purposePasswordReset,
		Fingerprint: fingerprint,
	}, PasswordResetTTL)
}

func (m *JWTManager) ValidatePasswordResetToken(tokenString string) (uint, string, error) {
	claims, err := m.parse(tokenString, purposePasswordReset)
	if err != nil {
		return 0, "", err
	}
	return claims.UserID, claims.Fingerprint, nil
}

func (m *JWTManager) sign(claims *Claims, ttl time.Duration) (string, error) {
	now := m.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *JWTManager) parse(tokenString, purpose string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, err
	}

	if !token.Valid || claims.Purpose != purpose {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

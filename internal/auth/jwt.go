package auth

import (
	"errors"
	"time"

	"rentacloud-backend/internal/config"
	"rentacloud-backend/internal/models"
	"rentacloud-backend/internal/timeutil"

	"github.com/golang-jwt/jwt/v5"
)

// ScopeTwoFactorPending marks a token issued after the password check but
// before the TOTP code. It is only good for completing the 2FA handshake.
const ScopeTwoFactorPending = "2fa_pending"

// pendingTokenTTL keeps the 2FA window short.
const pendingTokenTTL = 5 * time.Minute

type Claims struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Scope  string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

type JWTManager struct {
	cfg *config.Config
}

func NewJWTManager(cfg *config.Config) *JWTManager {
	return &JWTManager{cfg: cfg}
}

// GenerateToken creates a new JWT token for a user
func (j *JWTManager) GenerateToken(user *models.User) (string, error) {
	now := timeutil.Now()
	expirationTime := now.Add(time.Duration(j.cfg.JWT.ExpirationHours) * time.Hour)

	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    j.cfg.JWT.Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.cfg.JWT.Secret))
}

// GeneratePendingToken creates a short-lived token that only proves the
// password check passed; the 2FA code exchange turns it into a real session.
func (j *JWTManager) GeneratePendingToken(user *models.User) (string, error) {
	now := timeutil.Now()

	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		Scope:  ScopeTwoFactorPending,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(pendingTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    j.cfg.JWT.Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.cfg.JWT.Secret))
}

// ValidateToken verifies a session JWT and returns the claims. Pending 2FA
// tokens are rejected here so they cannot authenticate API calls.
func (j *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	claims, err := j.parseClaims(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Scope != "" {
		return nil, errors.New("token not valid for authentication")
	}
	return claims, nil
}

// ValidatePendingToken verifies a token issued for the 2FA handshake.
func (j *JWTManager) ValidatePendingToken(tokenString string) (*Claims, error) {
	claims, err := j.parseClaims(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Scope != ScopeTwoFactorPending {
		return nil, errors.New("not a pending 2fa token")
	}
	return claims, nil
}

func (j *JWTManager) parseClaims(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(j.cfg.JWT.Secret), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

package auth

import (
	"CourseMarket/internal/app_errors"
	"CourseMarket/internal/models"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	AccessTokenType  = "access"
	RefreshTokenType = "refresh"
)

var signingMethod = jwt.SigningMethodHS256

type JWTManager struct {
	secretKey  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	issuer     string
}

func NewJWTManager(secretKey, issuer string, accessTTL, refreshTTL time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:  []byte(secretKey),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		issuer:     issuer,
	}
}

// Claims is the payload of both token kinds. Roles is only set on access
// tokens; refresh tokens re-read roles from the user on rotation.
type Claims struct {
	TokenType string    `json:"token_type"`
	UserID    uuid.UUID `json:"user_id"`
	Roles     []string  `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

func (j *JWTManager) key(token *jwt.Token) (interface{}, error) {
	if token.Method != signingMethod {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return j.secretKey, nil
}

func parseError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return app_errors.ErrTokenExpired
	}
	return fmt.Errorf("%w: %w", app_errors.ErrInvalidToken, err)
}

// AccessClaims validates an access token and returns its claims. Refresh
// tokens and tokens naming a role the marketplace does not grant are rejected.
func (j *JWTManager) AccessClaims(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	if _, err := jwt.ParseWithClaims(tokenStr, claims, j.key); err != nil {
		return nil, parseError(err)
	}
	if claims.TokenType != AccessTokenType {
		return nil, fmt.Errorf("%w: expected %s token, got %q", app_errors.ErrInvalidToken, AccessTokenType, claims.TokenType)
	}
	for _, r := range claims.Roles {
		if !models.KnownRole(r) {
			return nil, fmt.Errorf("%w: unknown role %q", app_errors.ErrInvalidToken, r)
		}
	}
	return claims, nil
}

func (j *JWTManager) Parse(token string) (*jwt.Token, error) {
	jwtToken, err := jwt.Parse(token, j.key)
	if err != nil {
		return nil, parseError(err)
	}
	return jwtToken, nil
}

func (j *JWTManager) TokenType(token *jwt.Token, t string) bool {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}
	tokenType, _ := claims["token_type"].(string)
	return tokenType == t
}

func (j *JWTManager) GenerateTokenPair(userID uuid.UUID, roles []string) (*models.TokenPair, error) {
	now := time.Now()
	access, err := j.issue(Claims{TokenType: AccessTokenType, UserID: userID, Roles: roles}, now, j.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := j.issue(Claims{TokenType: RefreshTokenType, UserID: userID}, now, j.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// issue signs claims and parses the result back, so the returned token carries
// Raw and the same claim types a client-presented token would.
func (j *JWTManager) issue(claims Claims, now time.Time, ttl time.Duration) (*jwt.Token, error) {
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   claims.UserID.String(),
		Issuer:    j.issuer,
		ID:        uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString(j.secretKey)
	if err != nil {
		return nil, fmt.Errorf("sign: %w", err)
	}
	return j.Parse(signed)
}

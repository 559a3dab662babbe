// Package middleware holds the gin middleware of the HTTP API: bearer token
// authentication and per-client rate limiting.
package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
)

const (
	issuer       = "central-do-consumidor"
	userIDKey    = "user_id"
	defaultTTL   = 72 * time.Hour
	bearerScheme = "bearer"
)

// Localizer translates error keys for the caller's language.
type Localizer interface {
	GetString(lang, key string) string
	Language(acceptLanguage string) string
}

// AbortWithError stops the chain with a localized error body.
func AbortWithError(c *gin.Context, loc Localizer, status int, key string) {
	lang := loc.Language(c.GetHeader("Accept-Language"))
	c.AbortWithStatusJSON(status, gin.H{"error": loc.GetString(lang, key), "code": key})
}

// Claims are the JWT claims issued to portal users.
type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 user tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// GenerateToken signs a token for userID.
func (s *TokenService) GenerateToken(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("user id is required")
	}
	now := s.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseToken verifies a token and returns its user ID.
func (s *TokenService) ParseToken(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == "" {
		return "", errors.New("invalid token")
	}
	return claims.UserID, nil
}

// RequireUser rejects requests without a valid bearer token and stores the
// user ID for UserID.
func RequireUser(tokens *TokenService, loc Localizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
		if !ok || strings.ToLower(scheme) != bearerScheme || strings.TrimSpace(token) == "" {
			AbortWithError(c, loc, http.StatusUnauthorized, "error.unauthorized")
			return
		}
		userID, err := tokens.ParseToken(strings.TrimSpace(token))
		if err != nil {
			AbortWithError(c, loc, http.StatusUnauthorized, "error.unauthorized")
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated user, or "" outside RequireUser.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

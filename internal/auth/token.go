package auth

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"quickscan/internal/model"
)

var ErrInvalidToken = errors.New("invalid token")

// defaultSecret is a non-production convenience only. Its use is logged
// loudly at startup; deployments must set JWT_SECRET.
const defaultSecret = "quickscan-dev-secret-change-in-production"

// staticTokens is the fixed allow-list for service/demo callers. These map
// to a fabricated identity that never enters the credential store.
var staticTokens = map[string]struct{}{
	"quickscan-api-token-2024": {},
	"demo-token-12345":         {},
	"test-api-key-abcdef":      {},
}

// Claims carried inside a signed bearer token. Subject is the user id.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// TokenService issues and validates HS256-signed bearer tokens.
type TokenService struct {
	secret   []byte
	lifetime time.Duration
}

// NewTokenService builds a token service from the configured secret and
// lifetime in hours. An empty secret falls back to the documented default
// and emits a warning.
func NewTokenService(secret string, expirationHours int) *TokenService {
	if secret == "" {
		secret = defaultSecret
		logWarn("jwt_secret_default", "JWT_SECRET not set, using insecure default; do not run this in production")
	}
	if expirationHours <= 0 {
		expirationHours = 24
	}
	return &TokenService{
		secret:   []byte(secret),
		lifetime: time.Duration(expirationHours) * time.Hour,
	}
}

// Issue signs a token for the user and returns it with its expiry time.
func (t *TokenService) Issue(user model.UserInfo) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(t.lifetime)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email: user.Email,
	})

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Validate checks signature and expiry and returns the embedded claims.
func (t *TokenService) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(tok *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// AuthenticateStatic checks membership in the static allow-list and, on
// success, fabricates a non-persisted service identity.
func (t *TokenService) AuthenticateStatic(token string) (model.UserInfo, error) {
	if _, ok := staticTokens[token]; !ok {
		return model.UserInfo{}, ErrInvalidToken
	}
	return model.UserInfo{
		ID:        uuid.NewString(),
		Email:     "token-user@quickscan.app",
		CreatedAt: time.Now().UTC(),
		IsActive:  true,
	}, nil
}

func logWarn(msg, detail string) {
	entry := map[string]any{
		"ts":     time.Now().Format(time.RFC3339Nano),
		"level":  "warn",
		"msg":    msg,
		"detail": detail,
	}
	if b, err := json.Marshal(entry); err == nil {
		log.SetFlags(0)
		log.SetOutput(os.Stdout)
		log.Println(string(b))
	}
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shaj13/go-guardian/auth"
	"github.com/shaj13/go-guardian/auth/strategies/bearer"
	"github.com/shaj13/go-guardian/store"
	"go.uber.org/zap"

	"github.com/trailtales/trailtales-api/databases"
	"github.com/trailtales/trailtales-api/models"
)

// TokenCacheTTL bounds how long a verified token is trusted without
// re-checking its signature and expiry.
const TokenCacheTTL = 5 * time.Minute

// ErrInvalidToken is returned for tokens that fail signature or claim checks
var ErrInvalidToken = errors.New("invalid token")

// Claims are the JWT claims issued by the account service
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// MiddlewareDB authenticates bearer tokens and resolves the caller's user record
type MiddlewareDB struct {
	DB     databases.UserDatabase
	Secret []byte

	authenticator auth.Authenticator
	cache         store.Cache
}

// NewMiddleware returns an authenticator that accepts HS256 tokens signed with secret
func NewMiddleware(db databases.UserDatabase, secret string) *MiddlewareDB {
	m := &MiddlewareDB{DB: db, Secret: []byte(secret)}
	m.SetupGoGuardian(context.Background())
	return m
}

// SetupGoGuardian sets up the go-guardian bearer strategy with a token cache
func (m *MiddlewareDB) SetupGoGuardian(ctx context.Context) {
	m.authenticator = auth.New()
	m.cache = store.NewFIFO(ctx, TokenCacheTTL)
	tokenStrategy := bearer.New(m.VerifyToken, m.cache)
	m.authenticator.EnableStrategy(bearer.CachedStrategyKey, tokenStrategy)
}

// VerifyToken checks the token signature and expiry and returns the subject
func (m *MiddlewareDB) VerifyToken(_ context.Context, _ *http.Request, token string) (auth.Info, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return auth.NewDefaultUser(claims.Username, claims.Subject, nil, nil), nil
}

// Middleware rejects requests without a valid bearer token and stores the
// caller's identity on the request context.
func (m *MiddlewareDB) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := m.identify(r)
		if err != nil {
			zap.S().Debugw("unauthorized",
				"url", r.URL.Path,
				"error", err)
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

// OptionalMiddleware lets anonymous requests through. A token that is present
// but invalid is still rejected.
func (m *MiddlewareDB) OptionalMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if bearerToken(r) == "" {
			next.ServeHTTP(w, r)
			return
		}
		m.Middleware(next).ServeHTTP(w, r)
	})
}

// RequireRole authenticates the caller and then requires role
func (m *MiddlewareDB) RequireRole(role string, next http.Handler) http.Handler {
	return m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok || !identity.HasRole(role) {
			zap.S().Infow("forbidden",
				"url", r.URL.Path,
				"role", role)
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// RevokeToken drops the caller's token from the verification cache
func (m *MiddlewareDB) RevokeToken(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusBadRequest, "missing bearer token")
		return
	}
	tokenStrategy := m.authenticator.Strategy(bearer.CachedStrategyKey)
	if err := auth.Revoke(tokenStrategy, token, r); err != nil {
		zap.S().Warnw("failed to revoke token", "error", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNoContent)
}

func (m *MiddlewareDB) identify(r *http.Request) (*models.Identity, error) {
	info, err := m.authenticator.Authenticate(r)
	if err != nil {
		return nil, err
	}

	ctx, cancel := WithQueryTimeout(r.Context())
	defer cancel()
	user, err := m.DB.FindByID(ctx, info.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", info.ID(), err)
	}

	username := user.Details.Username
	if username == "" {
		username = info.UserName()
	}
	return &models.Identity{
		UserID:     user.ID.Hex(),
		Username:   username,
		CreatedAt:  user.Details.CreatedAt,
		Verified:   user.Details.IsVerified,
		Roles:      user.Details.Roles,
		Credential: bearerToken(r),
	}, nil
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.ErrorResponse{Success: false, Error: message})
}

package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"weconnect/cmd/back/internal/app"
	"weconnect/internal/logger"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v4"
)

type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	ClaimsKey contextKey = "claims"
)

// TokenRevoker - список отозванных токенов (по jti) до истечения их срока
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// TokenIssuer выпускает и проверяет bearer-токены (HS256)
type TokenIssuer struct {
	Secret string
	TTL    time.Duration
}

func (ti TokenIssuer) Issue(u app.User) (string, error) {
	jti, err := uuid.NewV4()
	if err != nil {
		return "", fmt.Errorf("token id: %w", err)
	}
	now := time.Now()
	claims := Claims{
		UserID: u.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti.String(),
			Subject:   u.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(ti.Secret))
}

// ValidateToken проверяет и расшифровывает JWT токен
func ValidateToken(tokenString, secretKey string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// AuthMiddleware пропускает дальше только запросы с валидным Bearer токеном
func AuthMiddleware(jwtSecret string, revoked TokenRevoker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := logger.FromContext(ctx)

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeError(ctx, w, app.Unauthorized("Not authenticated"))
				return
			}

			claims, err := ValidateToken(token, jwtSecret)
			if err != nil || claims.UserID == 0 {
				log.Debug("invalid token", "err", err)
				writeError(ctx, w, app.Unauthorized("Could not validate credentials"))
				return
			}

			if revoked != nil && claims.ID != "" {
				isRevoked, err := revoked.IsRevoked(ctx, claims.ID)
				if err != nil {
					// кэш недоступен - токен считаем действующим
					log.Warn("revocation check failed", "err", err)
				}
				if isRevoked {
					writeError(ctx, w, app.Unauthorized("Token has been revoked"))
					return
				}
			}

			ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserIDFromContext извлекает user_id из контекста
func GetUserIDFromContext(ctx context.Context) (int64, error) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	if !ok {
		return 0, fmt.Errorf("user_id not found in context")
	}
	return userID, nil
}

func claimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(ClaimsKey).(*Claims)
	return c, ok
}

// auth - обработчик маршрута с обязательной авторизацией, получает id текущего пользователя
func (s *Server) auth(h func(w http.ResponseWriter, r *http.Request, actorID int64)) http.Handler {
	return AuthMiddleware(s.Tokens.Secret, s.Revoked)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actorID, err := GetUserIDFromContext(r.Context())
		if err != nil {
			writeError(r.Context(), w, app.Unauthorized("Not authenticated"))
			return
		}
		h(w, r, actorID)
	}))
}

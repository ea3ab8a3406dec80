package rest

import (
	"context"
	"net/http"

	"plot-service/internal/core/domain"

	"github.com/google/uuid"
)

// Определяем кастомный тип для ключа контекста, чтобы избежать коллизий.
type contextKey string

const (
	userIDKey = contextKey("userID")
	roleKey   = contextKey("role")
)

// IdentityMiddleware извлекает X-User-ID и X-User-Role, проставленные
// вышестоящим шлюзом, и кладет их в контекст. Анонимные запросы проходят:
// userID тогда отсутствует, роль по умолчанию - обычный пользователь.
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if userIDStr := r.Header.Get("X-User-ID"); userIDStr != "" {
			userID, err := uuid.Parse(userIDStr)
			if err != nil {
				WriteJSONError(w, http.StatusUnauthorized, "Invalid X-User-ID header format")
				return
			}
			ctx = context.WithValue(ctx, userIDKey, userID)
		}

		role := r.Header.Get("X-User-Role")
		if role == "" {
			role = domain.RoleUser
		}
		ctx = context.WithValue(ctx, roleKey, role)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUserMiddleware пускает дальше только запросы с распознанным userID.
func RequireUserMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Context().Value(userIDKey).(uuid.UUID); !ok {
			WriteJSONError(w, http.StatusUnauthorized, "X-User-ID header is missing")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// userIDFromContext - userID запроса, если шлюз его проставил.
func userIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDKey).(uuid.UUID)
	return userID, ok
}

// roleFromContext - роль запроса; по умолчанию обычный пользователь.
func roleFromContext(ctx context.Context) string {
	if role, ok := ctx.Value(roleKey).(string); ok {
		return role
	}
	return domain.RoleUser
}

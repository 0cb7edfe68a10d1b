package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

// RoleAdmin роль, открывающая административные маршруты
const RoleAdmin = "admin"

type contextKey string

const subjectKey contextKey = "subject"

// Claims полезная нагрузка токена администратора
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AdminAuth проверяет Bearer токен HS256 и роль admin.
// Выпуск токенов находится вне этого сервиса.
func AdminAuth(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				handlers.RespondUnauthorized(w, "missing or invalid authorization header")
				return
			}

			var claims Claims
			token, err := parser.ParseWithClaims(parts[1], &claims, func(*jwt.Token) (any, error) {
				return key, nil
			})
			if err != nil || !token.Valid {
				handlers.RespondUnauthorized(w, "invalid token")
				return
			}

			if claims.Role != RoleAdmin {
				handlers.RespondForbidden(w, "admin role required")
				return
			}

			ctx := context.WithValue(r.Context(), subjectKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SubjectFromContext возвращает sub токена администратора
func SubjectFromContext(ctx context.Context) string {
	sub, _ := ctx.Value(subjectKey).(string)
	return sub
}

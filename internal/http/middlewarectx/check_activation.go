package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/growvest/growvest/internal/http/response"
	"github.com/growvest/growvest/internal/lib/sl"
	"github.com/growvest/growvest/internal/models"
)

// UserServiceInterface определяет интерфейс для чтения пользователя.
type UserServiceInterface interface {
	Get(ctx context.Context, userUID string) (*models.User, error)
}

// ActivationMiddleware создает middleware, который допускает к денежным
// операциям только активированные аккаунты с действующим сроком активации.
func ActivationMiddleware(log *slog.Logger, userService UserServiceInterface, isActivated func(*models.User) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userUID, ok := r.Context().Value(UserUID).(string)
			if !ok || userUID == "" {
				log.Error("user identification missing")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			user, err := userService.Get(r.Context(), userUID)
			if err != nil {
				log.Error("failed to get user", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}

			if !isActivated(user) {
				log.Error("account is not activated, access denied")
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("account is not activated, access denied"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

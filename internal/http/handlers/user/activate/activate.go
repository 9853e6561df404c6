// Package activate реализует HTTP-обработчик активации аккаунта.
//
// Активация списывает единоразовый взнос из кошелька и открывает доступ
// к денежным операциям на год.
package activate

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/growvest/growvest/internal/http/middlewarectx"
	"github.com/growvest/growvest/internal/http/response"
	"github.com/growvest/growvest/internal/lib/sl"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики активации.
type Service interface {
	Activate(ctx context.Context, userUID string) (int64, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Активировать аккаунт
// @Description Списывает активационный взнос и активирует аккаунт на год.
// @Tags Users
// @Produce  json
// @Success 200 {object} map[string]any "Кошелёк после списания"
// @Failure 400 {object} response.ErrorResponse "Профиль не заполнен"
// @Failure 402 {object} response.ErrorResponse "Недостаточно средств"
// @Failure 409 {object} response.ErrorResponse "Аккаунт уже активирован"
// @Router /users/activate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.activate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	wallet, err := h.service.Activate(r.Context(), userUID)
	if err != nil {
		log.Error("failed to activate account", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.Error("could not activate account"))
		return
	}

	log.Info("account activated", slog.String("user_uid", userUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"wallet_balance": wallet,
		"message":        "account activated",
	}))
}

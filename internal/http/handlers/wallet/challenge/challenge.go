// Package challenge реализует HTTP-обработчик запроса одноразового кода
// подтверждения вывода средств.
package challenge

import (
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

// Service выдаёт одноразовые коды подтверждения.
type Service interface {
	Request(userUID string) (string, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Запросить код подтверждения вывода
// @Tags Wallet
// @Produce  json
// @Success 200 {object} map[string]any "Код выдан"
// @Router /wallet/withdraw/challenge [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.wallet.challenge"
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

	// Код уходит пользователю внеполосным каналом; в ответе его нет.
	if _, err := h.service.Request(userUID); err != nil {
		log.Error("failed to issue challenge code", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not issue challenge code"))
		return
	}

	log.Info("challenge code issued")
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "confirmation code sent",
	}))
}

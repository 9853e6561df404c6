// Package read реализует HTTP-обработчик чтения одного взноса
// вместе с его историей платежей.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/growvest/growvest/internal/http/middlewarectx"
	"github.com/growvest/growvest/internal/http/response"
	"github.com/growvest/growvest/internal/lib/sl"
	"github.com/growvest/growvest/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения взноса.
type Service interface {
	Get(ctx context.Context, userUID, contributionID string) (*models.Contribution, error)
	History(ctx context.Context, userUID, contributionID string) ([]*models.PaymentRecord, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить взнос
// @Description Возвращает взнос пользователя и его историю платежей.
// @Tags Contributions
// @Produce  json
// @Param id path string true "ID взноса"
// @Success 200 {object} map[string]any "Взнос с историей"
// @Failure 403 {object} response.ErrorResponse "Чужой взнос"
// @Failure 404 {object} response.ErrorResponse "Взнос не найден"
// @Router /contributions/entry/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.contribution.read"
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

	contributionID := chi.URLParam(r, "id")

	c, err := h.service.Get(r.Context(), userUID, contributionID)
	if err != nil {
		log.Error("failed to read contribution", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.Error("could not read contribution"))
		return
	}
	history, err := h.service.History(r.Context(), userUID, contributionID)
	if err != nil {
		log.Error("failed to read payment history", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.Error("could not read payment history"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"contribution":    c,
		"payment_history": history,
	}))
}

// Package read реализует HTTP-обработчик чтения одной записи журнала
// вместе со сведениями о владельце.
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

// Service описывает интерфейс отчётного слоя.
type Service interface {
	Get(ctx context.Context, userUID, role, id string) (*models.Transaction, *models.TransactionOwner, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить запись журнала
// @Tags Transactions
// @Produce  json
// @Param id path string true "ID транзакции"
// @Success 200 {object} map[string]any "Транзакция с владельцем"
// @Failure 403 {object} response.ErrorResponse "Чужая транзакция"
// @Failure 404 {object} response.ErrorResponse "Транзакция не найдена"
// @Router /transactions/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.transaction.read"
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
	role, _ := r.Context().Value(middlewarectx.Role).(string)

	id := chi.URLParam(r, "id")

	txn, owner, err := h.service.Get(r.Context(), userUID, role, id)
	if err != nil {
		log.Error("failed to read transaction", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.Error("could not read transaction"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"transaction": txn,
		"owner":       owner,
	}))
}

// Package register реализует HTTP-обработчик регистрации инвестиции.
package register

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/growvest/growvest/internal/http/middlewarectx"
	"github.com/growvest/growvest/internal/http/response"
	"github.com/growvest/growvest/internal/lib/sl"
	"github.com/growvest/growvest/internal/models"
)

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики инвестиций.
type Service interface {
	Register(ctx context.Context, userUID, packageID string, req models.DummyInvestment) (*models.Investment, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Зарегистрировать инвестицию
// @Description Списывает сумму из кошелька, зачисляет доход по ставке пакета.
// @Tags Investments
// @Accept  json
// @Produce  json
// @Param id path string true "ID инвестиционного пакета"
// @Param request body models.DummyInvestment true "Сумма инвестиции"
// @Success 200 {object} map[string]any "Созданная инвестиция"
// @Failure 402 {object} response.ErrorResponse "Недостаточно средств"
// @Router /investments/{id} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.investment.register"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyInvestment
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	packageID := chi.URLParam(r, "id")

	inv, err := h.service.Register(r.Context(), userUID, packageID, req)
	if err != nil {
		log.Error("failed to register investment", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.Error("could not register investment"))
		return
	}

	log.Info("investment registered", slog.String("id", inv.ID))
	render.JSON(w, r, response.StatusOKWithData(inv))
}

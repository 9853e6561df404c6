// Package pay реализует HTTP-обработчик кооперативного взноса.
//
// Сумма платежа должна в точности равняться зафиксированному размеру взноса;
// досрочные и частичные платежи отклоняются сервисом.
package pay

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

// Request — сумма кооперативного взноса.
type Request struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики кооперативных платежей.
type Service interface {
	Pay(ctx context.Context, userUID, packageID string, amount int64) (*models.CooperativeReceipt, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Внести кооперативный взнос
// @Description Списывает взнос из кошелька в кооперативную корзину и пул пакета.
// @Tags Cooperative
// @Accept  json
// @Produce  json
// @Param id path string true "ID кооперативного пакета"
// @Param request body Request true "Сумма взноса"
// @Success 200 {object} map[string]any "Квитанция платежа"
// @Failure 400 {object} response.ErrorResponse "Неверная сумма или платёж ещё не наступил"
// @Failure 402 {object} response.ErrorResponse "Недостаточно средств"
// @Router /cooperative/{id}/pay [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cooperative.pay"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
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

	receipt, err := h.service.Pay(r.Context(), userUID, packageID, req.Amount)
	if err != nil {
		log.Error("failed to apply cooperative payment", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.Error("could not apply cooperative payment"))
		return
	}

	log.Info("cooperative payment applied", slog.String("package_id", packageID))
	render.JSON(w, r, response.StatusOKWithData(receipt))
}

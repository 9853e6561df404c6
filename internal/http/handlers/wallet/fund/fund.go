// Package fund реализует HTTP-обработчик пополнения кошелька.
//
// Клиент передаёт только reference платежа; сумма и статус запрашиваются
// у шлюза на сервере. Повторная отправка того же reference безопасна.
package fund

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/growvest/growvest/internal/http/middlewarectx"
	"github.com/growvest/growvest/internal/http/response"
	"github.com/growvest/growvest/internal/lib/sl"
	"github.com/growvest/growvest/internal/models"
)

// Request — reference подтверждаемого платежа.
type Request struct {
	Reference string `json:"reference" validate:"required"`
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики пополнения кошелька.
type Service interface {
	Fund(ctx context.Context, userUID, reference string) (*models.Balances, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Пополнить кошелёк
// @Description Проверяет платёж у шлюза и зачисляет его сумму в кошелёк.
// @Tags Wallet
// @Accept  json
// @Produce  json
// @Param request body Request true "Reference платежа"
// @Success 200 {object} map[string]any "Корзины после зачисления"
// @Failure 400 {object} response.ErrorResponse "Платёж не подтверждён шлюзом"
// @Router /wallet/fund [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.wallet.fund"
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

	balances, err := h.service.Fund(r.Context(), userUID, req.Reference)
	if err != nil {
		log.Error("failed to fund wallet", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.Error("could not fund wallet"))
		return
	}

	log.Info("wallet funded", slog.String("reference", req.Reference))
	render.JSON(w, r, response.StatusOKWithData(balances))
}

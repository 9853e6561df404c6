// Package withdraw реализует HTTP-обработчик вывода средств.
//
// Вывод требует одноразового кода подтверждения, запрошенного заранее.
package withdraw

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

// Request — параметры вывода средств.
type Request struct {
	Amount        int64  `json:"amount" validate:"required,gt=0"`
	RecipientCode string `json:"recipient_code" validate:"required"`
	Code          string `json:"code" validate:"required,len=6,numeric"`
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики вывода средств.
type Service interface {
	Withdraw(ctx context.Context, userUID, code string, req models.DummyWithdraw) (*models.Payout, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Вывести средства
// @Description Списывает сумму из withdrawable и инициирует внешний перевод.
// @Tags Wallet
// @Accept  json
// @Produce  json
// @Param request body Request true "Параметры вывода"
// @Success 200 {object} map[string]any "Созданная выплата"
// @Failure 400 {object} response.ErrorResponse "Неверный или просроченный код"
// @Failure 402 {object} response.ErrorResponse "Недостаточно средств"
// @Router /wallet/withdraw [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.wallet.withdraw"
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

	payout, err := h.service.Withdraw(r.Context(), userUID, req.Code, models.DummyWithdraw{
		Amount:        req.Amount,
		RecipientCode: req.RecipientCode,
	})
	if err != nil {
		log.Error("failed to withdraw", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.Error("could not withdraw"))
		return
	}

	log.Info("withdrawal initiated", slog.String("reference", payout.Reference))
	render.JSON(w, r, response.StatusOKWithData(payout))
}

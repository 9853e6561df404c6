// Package pay реализует HTTP-обработчик очередного платежа по взносу.
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

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики платежей по взносам.
type Service interface {
	Pay(ctx context.Context, userUID, contributionID string, req models.DummyPayment) (*models.PurchaseResult, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Внести очередной платёж по взносу
// @Description Списывает платёж из кошелька и двигает график рассрочки.
// @Tags Contributions
// @Accept  json
// @Produce  json
// @Param id path string true "ID взноса"
// @Param request body models.DummyPayment true "Сумма платежа"
// @Success 200 {object} map[string]any "Взнос после платежа"
// @Failure 402 {object} response.ErrorResponse "Недостаточно средств"
// @Failure 409 {object} response.ErrorResponse "Взнос уже завершён"
// @Router /contributions/{id}/pay [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.contribution.pay"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyPayment
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

	contributionID := chi.URLParam(r, "id")

	result, err := h.service.Pay(r.Context(), userUID, contributionID, req)
	if err != nil {
		log.Error("failed to apply payment", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.Error("could not apply payment"))
		return
	}

	log.Info("payment applied",
		slog.String("contribution_id", contributionID),
		slog.Bool("completed", result.Contribution.IsCompleted))
	render.JSON(w, r, response.StatusOKWithData(result))
}

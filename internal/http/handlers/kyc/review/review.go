// Package review реализует HTTP-обработчик решения по заявке KYC.
// Доступен только администратору.
package review

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/growvest/growvest/internal/http/response"
	"github.com/growvest/growvest/internal/lib/sl"
)

// Request — решение по заявке.
type Request struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики решения заявок KYC.
type Service interface {
	ReviewKYC(ctx context.Context, userUID string, approve bool) error
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Решить заявку KYC
// @Tags KYC
// @Accept  json
// @Produce  json
// @Param uid path string true "UID пользователя"
// @Param request body Request true "Решение"
// @Success 200 {object} map[string]any "Заявка решена"
// @Router /kyc/{uid}/review [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.kyc.review"
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

	targetUID := chi.URLParam(r, "uid")

	if err := h.service.ReviewKYC(r.Context(), targetUID, req.Decision == "approve"); err != nil {
		log.Error("failed to review kyc", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.Error("could not review kyc"))
		return
	}

	log.Info("kyc reviewed",
		slog.String("target_uid", targetUID),
		slog.String("decision", req.Decision))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "kyc reviewed",
	}))
}

// Package purchase реализует HTTP-обработчик покупки пакета в рассрочку.
//
// Handler принимает JSON-запрос с параметрами рассрочки, валидирует их,
// извлекает uid пользователя из контекста и семейство с ID пакета из URL,
// вызывает бизнес-логику покупки и возвращает созданный взнос с кошельком
// после списания.
package purchase

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

// Handler управляет HTTP-запросами на покупку пакетов в рассрочку.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики покупки.
type Service interface {
	Purchase(ctx context.Context, userUID, family, packageID string, req models.DummyPurchase) (*models.PurchaseResult, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Купить пакет в рассрочку
// @Description Создает взнос по пакету и списывает первый платёж из кошелька.
// @Tags Contributions
// @Accept  json
// @Produce  json
// @Param family path string true "Семейство пакета"
// @Param id path string true "ID пакета"
// @Param request body models.DummyPurchase true "Параметры рассрочки"
// @Success 200 {object} map[string]any "Созданный взнос"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или срок"
// @Failure 402 {object} response.ErrorResponse "Недостаточно средств"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /packages/{family}/{id}/purchase [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.contribution.purchase"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyPurchase
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

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

	family := chi.URLParam(r, "family")
	packageID := chi.URLParam(r, "id")

	result, err := h.service.Purchase(r.Context(), userUID, family, packageID, req)
	if err != nil {
		log.Error("failed to purchase package", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.Error("could not purchase package"))
		return
	}

	log.Info("package purchased", slog.String("contribution_id", result.Contribution.ID))
	render.JSON(w, r, response.StatusOKWithData(result))
}

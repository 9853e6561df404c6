// Package join реализует HTTP-обработчик вступления в кооперативный пакет.
package join

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

// Service описывает интерфейс бизнес-логики вступления в кооператив.
type Service interface {
	Join(ctx context.Context, userUID, packageID string) (*models.CooperativeMember, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Вступить в кооперативный пакет
// @Description Создает членство с зафиксированным размером взноса.
// @Tags Cooperative
// @Produce  json
// @Param id path string true "ID кооперативного пакета"
// @Success 200 {object} map[string]any "Созданное членство"
// @Failure 404 {object} response.ErrorResponse "Пакет не найден"
// @Failure 409 {object} response.ErrorResponse "Уже член пакета"
// @Router /cooperative/{id}/join [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cooperative.join"
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

	packageID := chi.URLParam(r, "id")

	member, err := h.service.Join(r.Context(), userUID, packageID)
	if err != nil {
		log.Error("failed to join cooperative", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.Error("could not join cooperative"))
		return
	}

	log.Info("joined cooperative", slog.String("package_id", packageID))
	render.JSON(w, r, response.StatusOKWithData(member))
}

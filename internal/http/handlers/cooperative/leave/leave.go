// Package leave реализует HTTP-обработчик выхода из кооперативного пакета.
package leave

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
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выхода из кооператива.
type Service interface {
	Leave(ctx context.Context, userUID, packageID string) error
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Выйти из кооперативного пакета
// @Description Помечает членство неактивным. Сделанные взносы остаются в пуле.
// @Tags Cooperative
// @Produce  json
// @Param id path string true "ID кооперативного пакета"
// @Success 200 {object} map[string]any "Подтверждение выхода"
// @Failure 403 {object} response.ErrorResponse "Нет активного членства"
// @Router /cooperative/{id}/leave [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cooperative.leave"
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

	if err := h.service.Leave(r.Context(), userUID, packageID); err != nil {
		log.Error("failed to leave cooperative", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.Error("could not leave cooperative"))
		return
	}

	log.Info("left cooperative", slog.String("package_id", packageID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"package_id": packageID,
		"message":    "left cooperative",
	}))
}

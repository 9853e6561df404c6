// Package list реализует HTTP-обработчик списка пакетов каталога.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/growvest/growvest/internal/http/response"
	"github.com/growvest/growvest/internal/lib/sl"
	"github.com/growvest/growvest/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики каталога.
type Service interface {
	List(ctx context.Context, family string) ([]*models.Package, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список пакетов каталога
// @Description Возвращает активные пакеты; query-параметр family сужает выборку.
// @Tags Catalog
// @Produce  json
// @Param family query string false "Семейство пакета"
// @Success 200 {object} map[string]any "Список пакетов"
// @Router /packages [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	family := r.URL.Query().Get("family")

	result, err := h.service.List(r.Context(), family)
	if err != nil {
		log.Error("failed to list packages", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.Error("could not list packages"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(result))
}

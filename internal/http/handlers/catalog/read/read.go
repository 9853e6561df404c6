// Package read реализует HTTP-обработчик чтения одного пакета каталога.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
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

// Service описывает интерфейс бизнес-логики чтения пакета.
type Service interface {
	Get(ctx context.Context, id string) (*models.Package, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить пакет каталога
// @Tags Catalog
// @Produce  json
// @Param id path string true "ID пакета"
// @Success 200 {object} map[string]any "Пакет"
// @Failure 404 {object} response.ErrorResponse "Пакет не найден"
// @Router /packages/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	pkg, err := h.service.Get(r.Context(), id)
	if err != nil {
		log.Error("failed to read package", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.Error("could not read package"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(pkg))
}

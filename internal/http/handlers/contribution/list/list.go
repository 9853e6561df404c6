// Package list реализует HTTP-обработчик списка взносов пользователя
// внутри одного семейства пакетов.
package list

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

// Service описывает интерфейс бизнес-логики списков взносов.
type Service interface {
	List(ctx context.Context, userUID, family string) ([]*models.Contribution, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список взносов семейства
// @Description Возвращает взносы текущего пользователя внутри одного семейства.
// @Tags Contributions
// @Produce  json
// @Param family path string true "Семейство пакета"
// @Success 200 {object} map[string]any "Список взносов"
// @Router /contributions/{family} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.contribution.list"
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

	family := chi.URLParam(r, "family")

	result, err := h.service.List(r.Context(), userUID, family)
	if err != nil {
		log.Error("failed to list contributions", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.Error("could not list contributions"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(result))
}

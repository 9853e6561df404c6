// Package memberships реализует HTTP-обработчик сводки взносов
// пользователя по всем семействам.
package memberships

import (
	"context"
	"log/slog"
	"net/http"

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

// Service описывает интерфейс бизнес-логики сводки взносов.
type Service interface {
	Memberships(ctx context.Context, userUID string) ([]*models.MembershipSummary, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Сводка взносов пользователя
// @Description Возвращает сводку всех взносов текущего пользователя.
// @Tags Contributions
// @Produce  json
// @Success 200 {object} map[string]any "Сводка взносов"
// @Router /contributions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.contribution.memberships"
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

	result, err := h.service.Memberships(r.Context(), userUID)
	if err != nil {
		log.Error("failed to list memberships", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.Error("could not list memberships"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(result))
}

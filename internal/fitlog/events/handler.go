package events

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fitlog/internal/fitlog/calendar"
	"github.com/2beens/fitlog/internal/telemetry/tracing"
	"github.com/2beens/fitlog/pkg"
)

const maxPageSize = 200

type ListResponse struct {
	Events []*LogEvent `json:"events"`
	Total  int         `json:"total"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) HandleListForDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.events.listforday")
	defer span.End()

	vars := mux.Vars(r)
	userID := vars["userId"]
	day, err := calendar.Parse(vars["date"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	list, err := h.service.ListForDay(ctx, userID, day)
	if err != nil {
		log.Errorf("list events for [%s] on %s: %s", userID, vars["date"], err)
		http.Error(w, "failed to list events", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, ListResponse{Events: list, Total: len(list)}, http.StatusOK)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.events.list")
	defer span.End()

	vars := mux.Vars(r)
	userID := vars["userId"]
	page, err := strconv.Atoi(vars["page"])
	if err != nil || page < 0 {
		http.Error(w, "invalid page", http.StatusBadRequest)
		return
	}
	size, err := strconv.Atoi(vars["size"])
	if err != nil || size <= 0 || size > maxPageSize {
		http.Error(w, "invalid size", http.StatusBadRequest)
		return
	}

	list, total, err := h.service.List(ctx, ListParams{
		UserID: userID,
		Page:   page,
		Size:   size,
	})
	if err != nil {
		log.Errorf("list events for [%s]: %s", userID, err)
		http.Error(w, "failed to list events", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, ListResponse{Events: list, Total: total}, http.StatusOK)
}

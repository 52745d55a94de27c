package summaries

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fitlog/internal/fitlog/calendar"
	"github.com/2beens/fitlog/internal/telemetry/tracing"
	"github.com/2beens/fitlog/pkg"
)

type ListResponse struct {
	From      string          `json:"from"`
	To        string          `json:"to"`
	Summaries []*DailySummary `json:"summaries"`
}

type Handler struct {
	service *Service
	today   func() time.Time
}

// NewHandler takes today so open ranges end on the user's current day.
func NewHandler(service *Service, today func() time.Time) *Handler {
	return &Handler{
		service: service,
		today:   today,
	}
}

// HandleList serves GET /summaries/{userId}?from=&to=. Missing bounds default
// to the last DefaultRangeDays days.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.summaries.list")
	defer span.End()

	userID := mux.Vars(r)["userId"]

	to := h.today()
	if v := r.URL.Query().Get("to"); v != "" {
		day, err := calendar.Parse(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		to = day
	}
	from := to.AddDate(0, 0, -(DefaultRangeDays - 1))
	if v := r.URL.Query().Get("from"); v != "" {
		day, err := calendar.Parse(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		from = day
	}

	list, err := h.service.List(ctx, userID, from, to)
	if err != nil {
		if errors.Is(err, ErrInvalidRange) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("list summaries [%s]: %s", userID, err)
		http.Error(w, "failed to list summaries", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, ListResponse{
		From:      calendar.Format(from),
		To:        calendar.Format(to),
		Summaries: list,
	}, http.StatusOK)
}

func (h *Handler) HandleDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.summaries.day")
	defer span.End()

	vars := mux.Vars(r)
	userID := vars["userId"]
	day, err := calendar.Parse(vars["date"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	view, err := h.service.Day(ctx, userID, day)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "no summary for that day", http.StatusNotFound)
			return
		}
		log.Errorf("get summary [%s] %s: %s", userID, vars["date"], err)
		http.Error(w, "failed to get summary", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, view, http.StatusOK)
}

package stats

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fitlog/internal/telemetry/tracing"
	"github.com/2beens/fitlog/pkg"
)

type Handler struct {
	analyzer *Analyzer
	today    func() time.Time
}

func NewHandler(analyzer *Analyzer, today func() time.Time) *Handler {
	return &Handler{
		analyzer: analyzer,
		today:    today,
	}
}

func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.report")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	days := DefaultDays
	if v := r.URL.Query().Get("days"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "invalid days", http.StatusBadRequest)
			return
		}
		days = d
	}

	report, err := h.analyzer.Report(ctx, userID, h.today(), days)
	if err != nil {
		if errors.Is(err, ErrInvalidWindow) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("stats report [%s]: %s", userID, err)
		http.Error(w, "failed to compute stats", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, report, http.StatusOK)
}

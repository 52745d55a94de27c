package insights

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fitlog/internal/telemetry/tracing"
	"github.com/2beens/fitlog/pkg"
)

type Handler struct {
	coach *Coach
	today func() time.Time
}

func NewHandler(coach *Coach, today func() time.Time) *Handler {
	return &Handler{
		coach: coach,
		today: today,
	}
}

func (h *Handler) HandleInsight(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.insights.get")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	insight, err := h.coach.Insight(ctx, userID, h.today())
	if err != nil {
		log.Errorf("insight [%s]: %s", userID, err)
		http.Error(w, "failed to generate insight", http.StatusBadGateway)
		return
	}

	pkg.WriteJSON(w, insight, http.StatusOK)
}

package reconciler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fitlog/internal/fitlog/energy"
	"github.com/2beens/fitlog/internal/fitlog/entry"
	"github.com/2beens/fitlog/internal/fitlog/events"
	"github.com/2beens/fitlog/internal/fitlog/summaries"
	"github.com/2beens/fitlog/internal/telemetry/tracing"
	"github.com/2beens/fitlog/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=reconciler_test

type service interface {
	LogText(ctx context.Context, userID, text string, source events.Source) (*ApplyResult, error)
	LogWorkout(ctx context.Context, userID string, wc WorkoutCompletion) (*ApplyResult, error)
	RemoveEntry(ctx context.Context, userID string, eventID uuid.UUID) (*RemoveResult, error)
}

type LogRequest struct {
	UserID string `json:"userId"`
	Text   string `json:"text"`
	Source string `json:"source"`
}

type LogWorkoutRequest struct {
	UserID string `json:"userId"`
	WorkoutCompletion
}

type LogResponse struct {
	Success        bool                    `json:"success"`
	NewTDEE        int                     `json:"new_tdee"`
	BurnedCalories int                     `json:"burned_calories"`
	Data           entry.Guess             `json:"data"`
	Summary        *summaries.DailySummary `json:"summary"`
	Breakdown      energy.Breakdown        `json:"breakdown"`
	EventID        *uuid.UUID              `json:"eventId"`
}

type RemoveResponse struct {
	Success        bool                    `json:"success"`
	NewTDEE        *int                    `json:"new_tdee"`
	BurnedCalories int                     `json:"burned_calories"`
	Summary        *summaries.DailySummary `json:"summary"`
	RemovedEventID uuid.UUID               `json:"removedEventId"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type Handler struct {
	service service
}

func NewHandler(service service) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) HandleLog(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.reconciler.log")
	defer span.End()

	if r.Method != http.MethodPost {
		writeError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req LogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("log entry, unmarshal json params: %s", err)
		writeError(w, "invalid request json", http.StatusBadRequest)
		return
	}

	source, err := events.ParseSource(req.Source)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.service.LogText(ctx, req.UserID, req.Text, source)
	if err != nil {
		writeServiceError(w, "log entry", err)
		return
	}

	pkg.WriteJSON(w, newLogResponse(res), http.StatusOK)
}

func (h *Handler) HandleLogWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.reconciler.logworkout")
	defer span.End()

	if r.Method != http.MethodPost {
		writeError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req LogWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("log workout, unmarshal json params: %s", err)
		writeError(w, "invalid request json", http.StatusBadRequest)
		return
	}

	res, err := h.service.LogWorkout(ctx, req.UserID, req.WorkoutCompletion)
	if err != nil {
		writeServiceError(w, "log workout", err)
		return
	}

	pkg.WriteJSON(w, newLogResponse(res), http.StatusOK)
}

func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.reconciler.remove")
	defer span.End()

	eventID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, "invalid event id", http.StatusBadRequest)
		return
	}
	userID := r.URL.Query().Get("userId")

	res, err := h.service.RemoveEntry(ctx, userID, eventID)
	if err != nil {
		writeServiceError(w, "remove entry", err)
		return
	}

	resp := RemoveResponse{
		Success:        true,
		BurnedCalories: res.BurnedCalories,
		Summary:        res.Summary,
		RemovedEventID: res.RemovedEventID,
	}
	if res.Summary != nil {
		resp.NewTDEE = &res.Summary.TDEE
	}
	pkg.WriteJSON(w, resp, http.StatusOK)
}

func newLogResponse(res *ApplyResult) LogResponse {
	resp := LogResponse{
		Success:        true,
		NewTDEE:        res.Summary.TDEE,
		BurnedCalories: res.BurnedCalories,
		Data:           res.Guess,
		Summary:        res.Summary,
		Breakdown:      res.Breakdown,
	}
	if res.Event != nil {
		resp.EventID = &res.Event.ID
	}
	return resp
}

func writeServiceError(w http.ResponseWriter, op string, err error) {
	var extractionErr *ExtractionError
	switch {
	case errors.Is(err, ErrInvalidInput):
		writeError(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &extractionErr):
		log.Warnf("%s: %s", op, err)
		writeError(w, err.Error(), http.StatusBadGateway)
	case errors.Is(err, events.ErrNotFound):
		writeError(w, "log event not found", http.StatusNotFound)
	default:
		log.Errorf("%s: %s", op, err)
		writeError(w, op+" failed: storage error", http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, message string, statusCode int) {
	pkg.WriteJSON(w, ErrorResponse{Success: false, Error: message}, statusCode)
}

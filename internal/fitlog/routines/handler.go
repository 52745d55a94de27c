package routines

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fitlog/internal/telemetry/tracing"
	"github.com/2beens/fitlog/pkg"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.list")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	list, err := h.service.List(ctx, userID)
	if err != nil {
		log.Errorf("list routines [%s]: %s", userID, err)
		http.Error(w, "failed to list routines", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, list, http.StatusOK)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.create")
	defer span.End()

	userID := mux.Vars(r)["userId"]

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("create routine, unmarshal json params: %s", err)
		http.Error(w, "invalid routine json", http.StatusBadRequest)
		return
	}

	routine, err := h.service.Create(ctx, userID, req)
	if err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
			http.Error(w, "invalid field: "+validationErrs[0].Namespace(), http.StatusBadRequest)
			return
		}
		log.Errorf("create routine [%s]: %s", userID, err)
		http.Error(w, "failed to save routine", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, routine, http.StatusCreated)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.delete")
	defer span.End()

	vars := mux.Vars(r)
	userID := vars["userId"]
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "invalid routine id", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "routine not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete routine [%s/%d]: %s", userID, id, err)
		http.Error(w, "failed to delete routine", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.Text, []byte("deleted"), http.StatusOK)
}

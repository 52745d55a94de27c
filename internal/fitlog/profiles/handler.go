package profiles

import (
	"encoding/json"
	"errors"
	"net/http"

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

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profiles.get")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	p, err := h.service.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}
		log.Errorf("get profile [%s]: %s", userID, err)
		http.Error(w, "failed to get profile", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, p, http.StatusOK)
}

func (h *Handler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profiles.upsert")
	defer span.End()

	userID := mux.Vars(r)["userId"]

	var req UpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("upsert profile, unmarshal json params: %s", err)
		http.Error(w, "invalid profile json", http.StatusBadRequest)
		return
	}

	p, err := h.service.Upsert(ctx, userID, req)
	if err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			http.Error(w, validationMessage(validationErrs), http.StatusBadRequest)
			return
		}
		log.Errorf("upsert profile [%s]: %s", userID, err)
		http.Error(w, "failed to save profile", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, p, http.StatusOK)
}

func validationMessage(errs validator.ValidationErrors) string {
	if len(errs) == 0 {
		return "invalid profile"
	}
	fe := errs[0]
	if fe.Tag() == "required" {
		return "missing field: " + fe.Field()
	}
	return "invalid field: " + fe.Field()
}

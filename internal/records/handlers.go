package records

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/anushahashmi071/CareGroup-sub003/internal/auth"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/interfaces"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/logger"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/types"
)

// Handler exposes the patient records viewer over HTTP
type Handler struct {
	service interfaces.RecordsService
	logger  *logger.Logger
}

// NewHandler creates a new records HTTP handler
func NewHandler(service interfaces.RecordsService, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes configures the patient record routes
func (h *Handler) RegisterRoutes(api *mux.Router) {
	api.HandleFunc("/patients/{id}/profile", h.profileHandler).Methods("GET")
	api.HandleFunc("/patients/{id}/history", h.historyHandler).Methods("GET")
}

// profileHandler handles patient profile retrieval
func (h *Handler) profileHandler(w http.ResponseWriter, r *http.Request) {
	patientID := mux.Vars(r)["id"]
	doctorID := auth.DoctorIDFromContext(r.Context())

	profile, err := h.service.GetPatientProfile(patientID, doctorID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, profile)
}

// historyHandler handles merged medical history retrieval
func (h *Handler) historyHandler(w http.ResponseWriter, r *http.Request) {
	patientID := mux.Vars(r)["id"]
	doctorID := auth.DoctorIDFromContext(r.Context())

	history, err := h.service.GetMedicalHistory(patientID, doctorID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, history)
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Errorf("Failed to encode JSON response: %v", err)
	}
}

// writeError writes an error response, mapping portal errors to their
// HTTP status
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	var pe *types.PortalError
	if errors.As(err, &pe) {
		status = pe.HTTPStatus()
		message = pe.Message
	}

	if status >= 500 {
		h.logger.Errorf("Request failed: %v", err)
	}

	h.writeJSON(w, status, map[string]interface{}{
		"error":  message,
		"status": status,
	})
}

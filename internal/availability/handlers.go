package availability

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

// Handler exposes the availability manager over HTTP
type Handler struct {
	service interfaces.AvailabilityService
	logger  *logger.Logger
}

// NewHandler creates a new availability HTTP handler
func NewHandler(service interfaces.AvailabilityService, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes configures the availability routes
func (h *Handler) RegisterRoutes(api *mux.Router) {
	api.HandleFunc("/availability", h.addHandler).Methods("POST")
	api.HandleFunc("/availability", h.listHandler).Methods("GET")
	api.HandleFunc("/availability/stats", h.statsHandler).Methods("GET")
	api.HandleFunc("/availability/{id}", h.updateHandler).Methods("PUT")
	api.HandleFunc("/availability/{id}", h.deleteHandler).Methods("DELETE")
}

// addHandler handles slot creation
func (h *Handler) addHandler(w http.ResponseWriter, r *http.Request) {
	var slot types.AvailabilitySlot
	if err := json.NewDecoder(r.Body).Decode(&slot); err != nil {
		h.writeError(w, types.NewValidationError(types.ErrCodeInvalidInput, "invalid request body", nil))
		return
	}

	doctorID := auth.DoctorIDFromContext(r.Context())
	created, err := h.service.AddSlot(doctorID, &slot)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, created)
}

// listHandler handles slot listing
func (h *Handler) listHandler(w http.ResponseWriter, r *http.Request) {
	doctorID := auth.DoctorIDFromContext(r.Context())

	slots, err := h.service.ListSlots(doctorID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, slots)
}

// statsHandler handles the availability stat panel
func (h *Handler) statsHandler(w http.ResponseWriter, r *http.Request) {
	doctorID := auth.DoctorIDFromContext(r.Context())

	stats, err := h.service.ComputeStats(doctorID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, stats)
}

// updateHandler handles slot updates
func (h *Handler) updateHandler(w http.ResponseWriter, r *http.Request) {
	slotID := mux.Vars(r)["id"]

	var upd types.SlotUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		h.writeError(w, types.NewValidationError(types.ErrCodeInvalidInput, "invalid request body", nil))
		return
	}

	doctorID := auth.DoctorIDFromContext(r.Context())
	if err := h.service.UpdateSlot(slotID, doctorID, &upd); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Availability slot updated successfully"})
}

// deleteHandler handles slot deletion
func (h *Handler) deleteHandler(w http.ResponseWriter, r *http.Request) {
	slotID := mux.Vars(r)["id"]
	doctorID := auth.DoctorIDFromContext(r.Context())

	if err := h.service.DeleteSlot(slotID, doctorID); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Availability slot deleted successfully"})
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

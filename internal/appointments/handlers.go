package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/anushahashmi071/CareGroup-sub003/internal/auth"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/interfaces"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/logger"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/types"
)

// Handler exposes the appointment manager over HTTP
type Handler struct {
	service interfaces.AppointmentService
	logger  *logger.Logger
}

// NewHandler creates a new appointment HTTP handler
func NewHandler(service interfaces.AppointmentService, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes configures the appointment routes
func (h *Handler) RegisterRoutes(api *mux.Router) {
	api.HandleFunc("/appointments", h.createHandler).Methods("POST")
	api.HandleFunc("/appointments", h.listHandler).Methods("GET")
	api.HandleFunc("/appointments/{id}", h.getHandler).Methods("GET")
	api.HandleFunc("/appointments/{id}/complete", h.completeHandler).Methods("POST")
	api.HandleFunc("/appointments/{id}/cancel", h.cancelHandler).Methods("POST")
	api.HandleFunc("/appointments/{id}/missed", h.markMissedHandler).Methods("POST")
	api.HandleFunc("/appointments/{id}/medical", h.updateMedicalHandler).Methods("PUT")
}

// createHandler handles appointment booking
func (h *Handler) createHandler(w http.ResponseWriter, r *http.Request) {
	var req types.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, types.NewValidationError(types.ErrCodeInvalidInput, "invalid request body", nil))
		return
	}

	doctorID := auth.DoctorIDFromContext(r.Context())
	apt, err := h.service.Create(doctorID, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, apt)
}

// getHandler handles appointment retrieval
func (h *Handler) getHandler(w http.ResponseWriter, r *http.Request) {
	aptID := mux.Vars(r)["id"]
	doctorID := auth.DoctorIDFromContext(r.Context())

	apt, err := h.service.Get(aptID, doctorID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, apt)
}

// listHandler handles appointment listing with filters
func (h *Handler) listHandler(w http.ResponseWriter, r *http.Request) {
	doctorID := auth.DoctorIDFromContext(r.Context())
	filters := parseFilters(r)

	appointments, err := h.service.List(doctorID, filters)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, appointments)
}

// completeHandler handles consultation completion
func (h *Handler) completeHandler(w http.ResponseWriter, r *http.Request) {
	aptID := mux.Vars(r)["id"]

	var req types.CompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, types.NewValidationError(types.ErrCodeInvalidInput, "invalid request body", nil))
		return
	}

	doctorID := auth.DoctorIDFromContext(r.Context())
	if err := h.service.Complete(aptID, doctorID, &req); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Appointment completed successfully"})
}

// cancelHandler handles appointment cancellation
func (h *Handler) cancelHandler(w http.ResponseWriter, r *http.Request) {
	aptID := mux.Vars(r)["id"]
	doctorID := auth.DoctorIDFromContext(r.Context())

	if err := h.service.Cancel(aptID, doctorID); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Appointment cancelled successfully"})
}

// markMissedHandler handles marking an appointment as missed
func (h *Handler) markMissedHandler(w http.ResponseWriter, r *http.Request) {
	aptID := mux.Vars(r)["id"]
	doctorID := auth.DoctorIDFromContext(r.Context())

	if err := h.service.MarkMissed(aptID, doctorID); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Appointment marked as missed"})
}

// updateMedicalHandler handles clinical field updates
func (h *Handler) updateMedicalHandler(w http.ResponseWriter, r *http.Request) {
	aptID := mux.Vars(r)["id"]

	var upd types.MedicalFieldsUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		h.writeError(w, types.NewValidationError(types.ErrCodeInvalidInput, "invalid request body", nil))
		return
	}

	doctorID := auth.DoctorIDFromContext(r.Context())
	if err := h.service.UpdateMedicalFields(aptID, doctorID, &upd); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Medical fields updated successfully"})
}

// parseFilters parses query parameters into appointment filters
func parseFilters(r *http.Request) *types.AppointmentFilters {
	filters := &types.AppointmentFilters{}

	if status := r.URL.Query().Get("status"); status != "" {
		filters.Status = types.AppointmentStatus(status)
	}
	if fromDate := r.URL.Query().Get("from_date"); fromDate != "" {
		filters.FromDate = fromDate
	}
	if toDate := r.URL.Query().Get("to_date"); toDate != "" {
		filters.ToDate = toDate
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		if parsed, err := strconv.Atoi(limit); err == nil {
			filters.Limit = parsed
		}
	}
	if offset := r.URL.Query().Get("offset"); offset != "" {
		if parsed, err := strconv.Atoi(offset); err == nil {
			filters.Offset = parsed
		}
	}

	return filters
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

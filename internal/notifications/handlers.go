package notifications

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

// Handler exposes the notification center over HTTP
type Handler struct {
	service interfaces.NotificationService
	logger  *logger.Logger
}

// NewHandler creates a new notification HTTP handler
func NewHandler(service interfaces.NotificationService, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes configures the notification routes
func (h *Handler) RegisterRoutes(api *mux.Router) {
	api.HandleFunc("/notifications", h.listHandler).Methods("GET")
	api.HandleFunc("/notifications/read-all", h.markAllReadHandler).Methods("POST")
	api.HandleFunc("/notifications/clear-read", h.clearReadHandler).Methods("POST")
	api.HandleFunc("/notifications/{id}/read", h.markReadHandler).Methods("POST")
	api.HandleFunc("/notifications/{id}", h.deleteHandler).Methods("DELETE")
}

// listHandler handles the notification feed
func (h *Handler) listHandler(w http.ResponseWriter, r *http.Request) {
	userID := auth.DoctorIDFromContext(r.Context())

	filters := &types.NotificationFilters{
		Type: r.URL.Query().Get("type"),
	}

	// filter = all|unread|read; "all" and absence mean no status filter
	if filter := r.URL.Query().Get("filter"); filter != "" && filter != "all" {
		filters.Status = filter
	}
	if page := r.URL.Query().Get("page"); page != "" {
		if parsed, err := strconv.Atoi(page); err == nil {
			filters.Page = parsed
		}
	}

	feed, err := h.service.List(userID, filters)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, feed)
}

// markReadHandler handles marking one notification read
func (h *Handler) markReadHandler(w http.ResponseWriter, r *http.Request) {
	notificationID := mux.Vars(r)["id"]
	userID := auth.DoctorIDFromContext(r.Context())

	if err := h.service.MarkRead(notificationID, userID); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Notification marked as read"})
}

// markAllReadHandler handles marking the whole feed read
func (h *Handler) markAllReadHandler(w http.ResponseWriter, r *http.Request) {
	userID := auth.DoctorIDFromContext(r.Context())

	if err := h.service.MarkAllRead(userID); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "All notifications marked as read"})
}

// deleteHandler handles deleting one notification
func (h *Handler) deleteHandler(w http.ResponseWriter, r *http.Request) {
	notificationID := mux.Vars(r)["id"]
	userID := auth.DoctorIDFromContext(r.Context())

	if err := h.service.Delete(notificationID, userID); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Notification deleted"})
}

// clearReadHandler handles bulk deletion of read notifications
func (h *Handler) clearReadHandler(w http.ResponseWriter, r *http.Request) {
	userID := auth.DoctorIDFromContext(r.Context())

	if err := h.service.ClearRead(userID); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Read notifications cleared"})
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

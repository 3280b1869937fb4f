package reviews

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

// Handler exposes the reviews aggregator over HTTP
type Handler struct {
	service interfaces.ReviewService
	logger  *logger.Logger
}

// NewHandler creates a new review HTTP handler
func NewHandler(service interfaces.ReviewService, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes configures the review routes
func (h *Handler) RegisterRoutes(api *mux.Router) {
	api.HandleFunc("/reviews", h.listHandler).Methods("GET")
	api.HandleFunc("/reviews/summary", h.summaryHandler).Methods("GET")
}

// listHandler handles the review list with search and paging
func (h *Handler) listHandler(w http.ResponseWriter, r *http.Request) {
	doctorID := auth.DoctorIDFromContext(r.Context())

	filters := &types.ReviewFilters{
		Search: r.URL.Query().Get("search"),
	}
	if page := r.URL.Query().Get("page"); page != "" {
		if parsed, err := strconv.Atoi(page); err == nil {
			filters.Page = parsed
		}
	}

	reviews, err := h.service.ListReviews(doctorID, filters)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, reviews)
}

// summaryHandler handles the aggregate rating panel
func (h *Handler) summaryHandler(w http.ResponseWriter, r *http.Request) {
	doctorID := auth.DoctorIDFromContext(r.Context())

	summary, err := h.service.ComputeAverageRating(doctorID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, summary)
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

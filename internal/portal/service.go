package portal

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/anushahashmi071/CareGroup-sub003/internal/appointments"
	"github.com/anushahashmi071/CareGroup-sub003/internal/auth"
	"github.com/anushahashmi071/CareGroup-sub003/internal/availability"
	"github.com/anushahashmi071/CareGroup-sub003/internal/notifications"
	"github.com/anushahashmi071/CareGroup-sub003/internal/records"
	"github.com/anushahashmi071/CareGroup-sub003/internal/reviews"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/config"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/database"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/logger"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/monitoring"
)

// Service composes the doctor portal: database, component services and the
// HTTP server that fronts them
type Service struct {
	config  *config.Config
	logger  *logger.Logger
	db      *database.DB
	metrics *monitoring.MetricsCollector
	guard   *auth.Guard
	server  *http.Server

	appointmentHandler  *appointments.Handler
	availabilityHandler *availability.Handler
	recordsHandler      *records.Handler
	notificationHandler *notifications.Handler
	reviewHandler       *reviews.Handler
}

// New creates and wires the doctor portal service
func New(cfg *config.Config, log *logger.Logger) (*Service, error) {
	db, err := database.NewConnection(&cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.CreateSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	metrics := monitoring.NewMetricsCollector("doctor-portal")
	db.SetMetrics(metrics)
	guard := auth.NewGuard(auth.NewTokenValidator(&cfg.JWT), metrics, log)

	notificationRepo := notifications.NewRepository(db, log)

	appointmentService := appointments.NewService(appointments.NewRepository(db, log), notificationRepo, log)
	availabilityService := availability.NewService(availability.NewRepository(db, log), log)
	recordsService := records.NewService(records.NewRepository(db, log), log)
	notificationService := notifications.NewService(notificationRepo, log)
	reviewService := reviews.NewService(reviews.NewRepository(db, log), log)

	return &Service{
		config:              cfg,
		logger:              log,
		db:                  db,
		metrics:             metrics,
		guard:               guard,
		appointmentHandler:  appointments.NewHandler(appointmentService, log),
		availabilityHandler: availability.NewHandler(availabilityService, log),
		recordsHandler:      records.NewHandler(recordsService, log),
		notificationHandler: notifications.NewHandler(notificationService, log),
		reviewHandler:       reviews.NewHandler(reviewService, log),
	}, nil
}

// Start runs the HTTP server until it is stopped
func (s *Service) Start() error {
	router := s.buildRouter()

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(s.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.config.Server.IdleTimeout) * time.Second,
	}

	s.logger.Infof("Starting doctor portal on %s", addr)
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the HTTP server and closes the database
func (s *Service) Stop(ctx context.Context) error {
	if s.server != nil {
		s.logger.Info("Stopping doctor portal")
		if err := s.server.Shutdown(ctx); err != nil {
			return err
		}
	}
	return s.db.Close()
}

// buildRouter assembles the route tree. Health and metrics sit outside the
// auth guard; everything under /api/v1 requires an authenticated doctor.
func (s *Service) buildRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(s.metrics.HTTPMiddleware)
	router.Use(s.loggingMiddleware)

	router.Handle("/health", monitoring.HealthHandler("doctor-portal", s.db)).Methods("GET")
	router.Handle("/metrics", s.metrics.Handler()).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(s.guard.Middleware)

	s.appointmentHandler.RegisterRoutes(api)
	s.availabilityHandler.RegisterRoutes(api)
	s.recordsHandler.RegisterRoutes(api)
	s.notificationHandler.RegisterRoutes(api)
	s.reviewHandler.RegisterRoutes(api)

	return router
}

// loggingMiddleware logs every request with its status and duration
func (s *Service) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		s.logger.HTTPRequest(r.Method, r.URL.Path, r.RemoteAddr, recorder.status, time.Since(start).Milliseconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

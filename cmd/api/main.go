package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/medibook/booking-api/internal/config"
	"github.com/medibook/booking-api/internal/email"
	appointmentHandler "github.com/medibook/booking-api/internal/handler/appointment"
	doctorHandler "github.com/medibook/booking-api/internal/handler/doctor"
	patientHandler "github.com/medibook/booking-api/internal/handler/patient"
	reviewHandler "github.com/medibook/booking-api/internal/handler/review"
	scheduleHandler "github.com/medibook/booking-api/internal/handler/schedule"
	"github.com/medibook/booking-api/internal/middleware"
	"github.com/medibook/booking-api/internal/repository/postgres"
	"github.com/medibook/booking-api/internal/router"
	bookingService "github.com/medibook/booking-api/internal/service/booking"
	doctorService "github.com/medibook/booking-api/internal/service/doctor"
	patientService "github.com/medibook/booking-api/internal/service/patient"
	reviewService "github.com/medibook/booking-api/internal/service/review"
	scheduleService "github.com/medibook/booking-api/internal/service/schedule"
	"github.com/medibook/booking-api/pkg/auth"
	"github.com/medibook/booking-api/pkg/metrics"
	"github.com/medibook/booking-api/pkg/validator"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if err := validator.RegisterCustomValidations(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validations")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	doctorRepo := postgres.NewDoctorRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	scheduleRepo := postgres.NewScheduleRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	mailer := email.NewService(cfg.Email)
	appMetrics := metrics.NewMetrics("medibook", "api")

	// Services
	bookingSvc := bookingService.NewService(appointmentRepo, scheduleRepo, doctorRepo, patientRepo, outboxRepo, mailer, appMetrics)
	scheduleSvc := scheduleService.NewService(scheduleRepo, doctorRepo)
	doctorSvc := doctorService.NewService(doctorRepo, patientRepo, reviewRepo, appointmentRepo)
	patientSvc := patientService.NewService(patientRepo)
	reviewSvc := reviewService.NewService(reviewRepo, doctorRepo)

	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)

	r := router.NewRouter(
		authMiddleware,
		doctorHandler.NewHandler(doctorSvc),
		scheduleHandler.NewHandler(scheduleSvc),
		appointmentHandler.NewHandler(bookingSvc),
		patientHandler.NewHandler(patientSvc),
		reviewHandler.NewHandler(reviewSvc),
		db,
		router.Config{
			RateLimit:     rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:     cfg.RateLimit.Burst,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: "medibook_http",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

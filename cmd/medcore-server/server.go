package main

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/medcore/medcore/internal/config"
	"github.com/medcore/medcore/internal/domain/appointment"
	"github.com/medcore/medcore/internal/domain/doctor"
	"github.com/medcore/medcore/internal/domain/medicalrecord"
	"github.com/medcore/medcore/internal/domain/notification"
	"github.com/medcore/medcore/internal/domain/patient"
	"github.com/medcore/medcore/internal/domain/prescription"
	"github.com/medcore/medcore/internal/domain/receptionist"
	"github.com/medcore/medcore/internal/domain/user"
	"github.com/medcore/medcore/internal/platform/auth"
	"github.com/medcore/medcore/internal/platform/credential"
	"github.com/medcore/medcore/internal/platform/db"
	"github.com/medcore/medcore/internal/platform/envelope"
	"github.com/medcore/medcore/internal/platform/loginguard"
	"github.com/medcore/medcore/internal/platform/middleware"
)

const (
	bodyLimit          = "1M"
	revocationInterval = 10 * time.Minute
)

// server is the wired HTTP application plus the pieces runServer needs to
// schedule jobs and shut down.
type server struct {
	echo          *echo.Echo
	revocations   *auth.RevocationStore
	notifications *notification.Service
}

func newServer(cfg *config.Config, logger zerolog.Logger, m *db.Manager, store loginguard.Store) *server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = envelope.ErrorHandler(logger, cfg.IsProduction())

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)
	revocations := auth.NewRevocationStore(revocationInterval)
	sessions := &auth.Sessions{Issuer: issuer, Revocations: revocations, Secure: cfg.IsProduction()}
	hasher := credential.NewHasher(cfg.BcryptCost)
	guard := loginguard.New(store, cfg.LoginMaxAttempts, cfg.LoginLockout, logger)

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	e.Use(middleware.BodyLimit(bodyLimit))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}))

	rateLimitCfg := middleware.DefaultRateLimitConfig()
	if cfg.RateLimitRPS > 0 {
		rateLimitCfg.RequestsPerSecond = cfg.RateLimitRPS
		rateLimitCfg.BurstSize = cfg.RateLimitBurst
	}
	e.Use(middleware.RateLimit(rateLimitCfg))
	e.Use(middleware.RequestTimeout(cfg.DBRequestTimeout))

	// Auth middleware
	e.Use(auth.Authenticate(auth.Config{
		Issuer:      issuer,
		Revocations: revocations,
		Skipper:     auth.AuthSkipper,
		Logger:      logger,
	}))

	// Audit middleware
	e.Use(middleware.Audit(logger))

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(m))

	api := e.Group("/api")

	userSvc := user.NewService(user.NewRepo(m), hasher, issuer, guard, logger)
	user.NewHandler(userSvc, sessions).RegisterRoutes(api)

	receptionistSvc := receptionist.NewService(receptionist.NewRepo(m), hasher, issuer, guard, logger)
	receptionist.NewHandler(receptionistSvc, sessions).RegisterRoutes(api)

	doctorSvc := doctor.NewService(doctor.NewRepo(m), m)
	doctor.NewHandler(doctorSvc).RegisterRoutes(api)

	patientSvc := patient.NewService(patient.NewRepo(m))
	patient.NewHandler(patientSvc).RegisterRoutes(api)

	appointmentSvc := appointment.NewService(appointment.NewRepo(m))
	appointment.NewHandler(appointmentSvc).RegisterRoutes(api)

	prescriptionSvc := prescription.NewService(prescription.NewRepo(m))
	prescription.NewHandler(prescriptionSvc).RegisterRoutes(api)

	recordSvc := medicalrecord.NewService(medicalrecord.NewRepo(m))
	medicalrecord.NewHandler(recordSvc).RegisterRoutes(api)

	notificationSvc := notification.NewService(notification.NewRepo(m), logger)
	notification.NewHandler(notificationSvc).RegisterRoutes(api)

	return &server{echo: e, revocations: revocations, notifications: notificationSvc}
}

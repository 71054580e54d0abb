// Entry point for the attendance REST API. This binary also hosts the report
// worker pool and the ledger janitor: the report queue and job ledger live
// in this process.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"attendance.service/internal/api"
	"attendance.service/internal/config"
	"attendance.service/internal/core"
	"attendance.service/internal/ports/messaging"
	"attendance.service/internal/ports/repository"
	"attendance.service/internal/render"
	"attendance.service/internal/worker"
	"attendance.service/internal/worker/report"
	"attendance.service/pkg/aws"
	"attendance.service/pkg/database"
	"attendance.service/pkg/logger"
	"attendance.service/pkg/telemetry"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load configuration")
	}

	// Configure structured logging
	logger.Setup(cfg.IsLocalDev)

	// Configure OpenTelemetry Tracing
	shutdownTracer, err := telemetry.InitTracer("attendance-api", cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to init tracer")
	}
	defer func() {
		_ = shutdownTracer(context.Background())
	}()

	// DB connection
	db, err := database.NewInstrumentedConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening database")
	}
	defer db.Close()
	log.Info().Msg("Successfully connected to the database.")

	// AWS SDK Config
	awsCfg, err := aws.NewAWSConfig(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to load SDK config")
	}

	// Initialize dependencies
	sqsClient := sqs.NewFromConfig(awsCfg)
	attendanceRepo := repository.NewPostgresAttendanceRepository(db)
	userRepo := repository.NewPostgresUserRepository(db)
	dispatcher := messaging.NewSQSProducer(sqsClient, cfg.NotifySQSQueueURL, cfg.PublicBaseURL)
	attendanceService := core.NewAttendanceService(attendanceRepo, dispatcher)

	// Report pipeline: ledger + queue + worker pool, all in-process
	ledger := core.NewLedger(time.Duration(cfg.ReportTTLMinutes) * time.Minute)
	queue := worker.NewQueue(cfg.ReportQueueSize)
	reportService := core.NewReportService(ledger, queue)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	pool := worker.NewPool(queue, report.NewProcessor(attendanceRepo, render.NewDocumentRenderer(), ledger))
	if cfg.ReportWorkerCount > 0 {
		pool.Concurrency = cfg.ReportWorkerCount
	}
	go pool.Start(workerCtx)
	go ledger.StartJanitor(workerCtx, 5*time.Minute)

	// Setup router and server
	router := api.NewRouter(attendanceService, reportService, userRepo)

	// Middleware to inject logger with trace ID
	loggerMiddleware := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ctx = logger.EnrichContextWithLogger(ctx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}

	// Wrap the router with OpenTelemetry middleware to create spans for each request
	handler := otelhttp.NewHandler(loggerMiddleware(router), "api")

	serverAddr := ":" + cfg.ServerPort
	srv := &http.Server{
		Addr:    serverAddr,
		Handler: handler,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.ServerPort).Msg("Attendance API starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	// Stop accepting report jobs, then give the server 5 seconds to finish
	// the requests it is currently handling.
	queue.Close()
	stopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}

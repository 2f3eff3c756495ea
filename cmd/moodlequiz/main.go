package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"moodlequiz/internal/api/v1/handler"
	"moodlequiz/internal/api/v1/router"
	"moodlequiz/internal/attempt"
	"moodlequiz/internal/config"
	"moodlequiz/internal/debug"
	"moodlequiz/internal/log"
	"moodlequiz/internal/moodle"
	"moodlequiz/internal/quiz"
	"moodlequiz/internal/service"
)

func init() {
	log.InitLogger(false)
	config.LoadEnv()
	if config.AppConfig.IsDev {
		log.InitLogger(true)
	}
}

func main() {
	defer log.Sync()

	cfg := config.AppConfig

	extractor, err := quiz.NewExtractor(cfg.ExtractorMode)
	if err != nil {
		log.Logger.Fatal("Invalid extractor mode", zap.Error(err))
	}
	courseIDs, err := cfg.Courses()
	if err != nil {
		log.Logger.Fatal("Invalid course ids", zap.Error(err))
	}

	client := moodle.New(moodle.Config{
		HostURL:   cfg.MoodleHostURL,
		Timeout:   cfg.MoodleTimeout,
		RateLimit: cfg.MoodleRateLimit,
		Burst:     cfg.MoodleRateBurst,
	})
	quizzes := service.NewQuizService(client, extractor, attempt.NewTracker(cfg.AttemptStateTTL))
	h := handler.New(quizzes, cfg.MoodleToken, courseIDs)

	done := make(chan struct{})

	server := &http.Server{
		Addr:              cfg.AppAddr,
		Handler:           router.New(h, cfg, done),
		ReadHeaderTimeout: 5 * time.Second,
	}

	metricsServer := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           router.NewMetricsRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Channel to listen for interrupt or terminate signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Logger.Info("Server started",
			zap.String("addr", cfg.AppAddr),
			zap.String("moodle", cfg.MoodleHostURL),
			zap.String("extractor", cfg.ExtractorMode),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Pprof only enabled in dev env
	var pprofServer *http.Server
	if cfg.IsDev {
		pprofServer = debug.StartPprof(cfg.PprofAddr)
	}

	go func() {
		log.Logger.Info("Metrics server started", zap.String("addr", cfg.MetricsAddr))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Logger.Fatal("Metrics server failed", zap.Error(err))
		}
	}()

	<-stop
	log.Logger.Info("Shutting down server gracefully")
	close(done)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, s := range []*http.Server{metricsServer, pprofServer} {
		if s == nil {
			continue
		}
		if err := s.Shutdown(ctx); err != nil {
			log.Logger.Warn("Auxiliary server shutdown failed", zap.String("addr", s.Addr), zap.Error(err))
		}
	}
	if err := server.Shutdown(ctx); err != nil {
		log.Logger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	log.Logger.Info("Server exited successfully")
}

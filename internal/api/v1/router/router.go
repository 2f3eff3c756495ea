package router

import (
	"net/http"

	"go.uber.org/zap"
	"moodlequiz/internal/api/v1/handler"
	"moodlequiz/internal/api/v1/middleware"
	"moodlequiz/internal/config"
	"moodlequiz/internal/log"
	"moodlequiz/pkg/response"
)

const (
	appName    = "moodlequiz"
	apiVersion = "v1"
	BasePath   = "/" + appName + "/api/" + apiVersion
)

// New mounts the quiz API under BasePath. The rate limiter sweep stops when done is closed.
func New(h *handler.Handler, cfg *config.Config, done <-chan struct{}) http.Handler {
	mux := http.NewServeMux()

	register := func(method, path string, fn http.HandlerFunc) {
		mux.HandleFunc(method+" "+BasePath+path, fn)
	}

	register(http.MethodGet, "/health", handler.HealthCheckHandler)
	register(http.MethodGet, "/courses/quizzes", h.ListQuizzes)
	register(http.MethodPost, "/quizzes/{quizID}/attempts", h.StartAttempt)
	register(http.MethodGet, "/quizzes/{quizID}/attempts", h.ListAttempts)
	register(http.MethodGet, "/attempts/{attemptID}/pages/{page}", h.LoadPage)
	register(http.MethodPost, "/attempts/{attemptID}/answers", h.SubmitAnswer)
	register(http.MethodPost, "/attempts/{attemptID}/finish", h.FinishAttempt)
	register(http.MethodGet, "/attempts/{attemptID}/state", h.AttemptState)

	var next http.Handler = middleware.Metrics(mux)
	proxies, err := cfg.Proxies()
	if err != nil {
		log.Logger.Warn("ignoring invalid trusted proxies", zap.Error(err))
	}
	next = middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst, proxies, done).Middleware(next)
	if cfg.BasicAuthEnabled() {
		next = middleware.BasicAuth(cfg.BasicAuthUser, cfg.BasicAuthPass)(next)
	}
	next = middleware.CORS(cfg.Origins(), handler.TokenHeader)(next)
	next = middleware.Logging(next)

	return middleware.RecoverPanic(
		log.Logger,
		func(w http.ResponseWriter, r *http.Request, err error) {
			response.ErrorWithData(w, http.StatusInternalServerError, "internal", "Internal Server Error", nil)
		},
		next,
	)
}

func NewMetricsRouter() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", handler.MetricsHandler())
	return mux
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"moodlequiz/internal/attempt"
	"moodlequiz/internal/model"
	"moodlequiz/internal/moodle"
	"moodlequiz/internal/quiz"
	"moodlequiz/internal/service"
	"moodlequiz/internal/util"
	"moodlequiz/pkg/response"
)

// TokenHeader carries the caller's Moodle web service token.
const TokenHeader = "X-Moodle-Token"

const maxBodyBytes = 1 << 20

type Handler struct {
	quizzes      *service.QuizService
	defaultToken string
	courseIDs    []int
}

func New(quizzes *service.QuizService, defaultToken string, courseIDs []int) *Handler {
	return &Handler{quizzes: quizzes, defaultToken: defaultToken, courseIDs: courseIDs}
}

func HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]string{"status": "ok"}, "")
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

func (h *Handler) token(r *http.Request) string {
	if t := strings.TrimSpace(r.Header.Get(TokenHeader)); t != "" {
		return t
	}
	return h.defaultToken
}

func (h *Handler) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	courseIDs := h.courseIDs
	if raw := r.URL.Query().Get("courseids"); raw != "" {
		ids, err := util.ParseIDs(raw)
		if err != nil {
			response.ErrorWithData(w, http.StatusBadRequest, "invalid_argument", err.Error(), nil)
			return
		}
		courseIDs = ids
	}

	quizzes, err := h.quizzes.ListQuizzes(r.Context(), h.token(r), courseIDs)
	if err != nil {
		writeError(w, err, nil)
		return
	}
	response.Success(w, quizzes, "")
}

func (h *Handler) StartAttempt(w http.ResponseWriter, r *http.Request) {
	quizID, ok := pathInt(w, r, "quizID")
	if !ok {
		return
	}
	forceNew := false
	if raw := r.URL.Query().Get("forcenew"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.ErrorWithData(w, http.StatusBadRequest, "invalid_argument", "invalid 'forcenew' value", nil)
			return
		}
		forceNew = v
	}

	a, err := h.quizzes.StartAttempt(r.Context(), h.token(r), quizID, forceNew)
	if err != nil {
		writeError(w, err, nil)
		return
	}
	response.JSON(w, http.StatusCreated, a, "")
}

func (h *Handler) ListAttempts(w http.ResponseWriter, r *http.Request) {
	quizID, ok := pathInt(w, r, "quizID")
	if !ok {
		return
	}

	attempts, err := h.quizzes.ListAttempts(r.Context(), h.token(r), quizID, r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, err, nil)
		return
	}
	response.Success(w, attempts, "")
}

func (h *Handler) LoadPage(w http.ResponseWriter, r *http.Request) {
	attemptID, ok := pathInt(w, r, "attemptID")
	if !ok {
		return
	}
	page, ok := pathInt(w, r, "page")
	if !ok {
		return
	}

	result, err := h.quizzes.LoadPage(r.Context(), h.token(r), attemptID, page)
	if err != nil {
		writeError(w, err, result.Skipped)
		return
	}
	response.Success(w, result, "")
}

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	attemptID, ok := pathInt(w, r, "attemptID")
	if !ok {
		return
	}

	var sel service.AnswerSelection
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&sel); err != nil {
		response.ErrorWithData(w, http.StatusBadRequest, "invalid_argument", fmt.Sprintf("invalid answer body: %v", err), nil)
		return
	}

	result, err := h.quizzes.SubmitAnswer(r.Context(), h.token(r), attemptID, sel)
	if err != nil {
		writeError(w, err, nil)
		return
	}
	response.Success(w, result, "answer saved")
}

func (h *Handler) FinishAttempt(w http.ResponseWriter, r *http.Request) {
	attemptID, ok := pathInt(w, r, "attemptID")
	if !ok {
		return
	}

	result, err := h.quizzes.FinishAttempt(r.Context(), h.token(r), attemptID)
	if err != nil {
		writeError(w, err, nil)
		return
	}
	response.Success(w, result, "attempt submitted")
}

func (h *Handler) AttemptState(w http.ResponseWriter, r *http.Request) {
	attemptID, ok := pathInt(w, r, "attemptID")
	if !ok {
		return
	}
	response.Success(w, map[string]any{
		"attempt_id": attemptID,
		"state":      h.quizzes.AttemptState(attemptID),
	}, "")
}

func pathInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.PathValue(name)
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		response.ErrorWithData(w, http.StatusBadRequest, "invalid_argument", fmt.Sprintf("invalid '%s' path value %q", name, raw), nil)
		return 0, false
	}
	return v, true
}

func writeError(w http.ResponseWriter, err error, skipped []model.SkippedItem) {
	var (
		moodleErr *moodle.Error
		urlErr    *url.Error
	)

	statusCode, code := http.StatusInternalServerError, "internal"
	switch {
	case errors.Is(err, quiz.ErrNoQuestions):
		statusCode, code = http.StatusUnprocessableEntity, "no_questions"
	case errors.Is(err, quiz.ErrUnsupportedQuizType):
		statusCode, code = http.StatusUnprocessableEntity, "unsupported_quiz_type"
	case errors.Is(err, quiz.ErrMalformedMarkup):
		statusCode, code = http.StatusUnprocessableEntity, "malformed_markup"
	case errors.Is(err, attempt.ErrAttemptSubmitted):
		statusCode, code = http.StatusConflict, "attempt_submitted"
	case errors.Is(err, quiz.ErrInvalidExportCode), errors.Is(err, service.ErrInvalidArgument):
		statusCode, code = http.StatusBadRequest, "invalid_argument"
	case errors.As(err, &moodleErr) && moodleErr.ErrorCode == "invalidtoken":
		statusCode, code = http.StatusUnauthorized, "invalid_token"
	case errors.Is(err, service.ErrSubmissionFailed):
		statusCode, code = http.StatusBadGateway, "submission_failed"
	case errors.Is(err, context.DeadlineExceeded):
		statusCode, code = http.StatusGatewayTimeout, "timeout"
	case errors.As(err, &moodleErr):
		statusCode, code = http.StatusBadGateway, "moodle_"+moodleErr.ErrorCode
	case errors.Is(err, moodle.ErrUnexpectedStatus), errors.As(err, &urlErr):
		statusCode, code = http.StatusBadGateway, "moodle_unavailable"
	}

	var data any
	if len(skipped) > 0 {
		data = map[string]any{"skipped": skipped}
	}
	response.ErrorWithData(w, statusCode, code, err.Error(), data)
}

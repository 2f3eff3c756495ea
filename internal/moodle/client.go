package moodle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"moodlequiz/internal/log"
	"moodlequiz/internal/model"
)

const (
	restPath     = "/webservice/rest/server.php"
	maxBodyBytes = 4 << 20
)

const (
	fnGetAttemptData      = "mod_quiz_get_attempt_data"
	fnProcessAttempt      = "mod_quiz_process_attempt"
	fnStartAttempt        = "mod_quiz_start_attempt"
	fnGetUserAttempts     = "mod_quiz_get_user_attempts"
	fnGetQuizzesByCourses = "mod_quiz_get_quizzes_by_courses"
)

var ErrUnexpectedStatus = errors.New("unexpected status code")

// Error is an exception reported by the Moodle web service in a 200 response.
type Error struct {
	Function  string
	Exception string `json:"exception"`
	ErrorCode string `json:"errorcode"`
	Message   string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("moodle %s: %s (%s)", e.Function, e.Message, e.ErrorCode)
}

type Config struct {
	HostURL   string
	Timeout   time.Duration
	RateLimit float64
	Burst     int
}

// Client calls the Moodle REST web service. The user token is passed per call.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	limit := rate.Limit(cfg.RateLimit)
	if cfg.RateLimit <= 0 {
		limit = rate.Inf
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.HostURL, "/"),
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, burst),
	}
}

func (c *Client) GetAttemptData(ctx context.Context, token string, attemptID, page int) (model.AttemptData, error) {
	params := url.Values{}
	params.Set("attemptid", strconv.Itoa(attemptID))
	params.Set("page", strconv.Itoa(page))

	var out model.AttemptData
	err := c.call(ctx, token, fnGetAttemptData, params, &out)
	return out, err
}

func (c *Client) ProcessAttempt(ctx context.Context, token string, req model.ProcessAttemptRequest) (model.ProcessAttemptResult, error) {
	params := url.Values{}
	params.Set("attemptid", strconv.Itoa(req.AttemptID))
	for i, field := range req.Data {
		params.Set(fmt.Sprintf("data[%d][name]", i), field.Name)
		params.Set(fmt.Sprintf("data[%d][value]", i), field.Value)
	}
	params.Set("finishattempt", boolParam(req.FinishAttempt))
	params.Set("timeup", "0")

	var out model.ProcessAttemptResult
	err := c.call(ctx, token, fnProcessAttempt, params, &out)
	return out, err
}

func (c *Client) StartAttempt(ctx context.Context, token string, quizID int, forceNew bool) (model.Attempt, error) {
	params := url.Values{}
	params.Set("quizid", strconv.Itoa(quizID))
	params.Set("forcenew", boolParam(forceNew))

	var out struct {
		Attempt  model.Attempt   `json:"attempt"`
		Warnings []model.Warning `json:"warnings"`
	}
	if err := c.call(ctx, token, fnStartAttempt, params, &out); err != nil {
		return model.Attempt{}, err
	}
	return out.Attempt, nil
}

func (c *Client) GetUserAttempts(ctx context.Context, token string, quizID int, status string) ([]model.Attempt, error) {
	if status == "" {
		status = "all"
	}
	params := url.Values{}
	params.Set("quizid", strconv.Itoa(quizID))
	params.Set("status", status)

	var out struct {
		Attempts []model.Attempt `json:"attempts"`
	}
	if err := c.call(ctx, token, fnGetUserAttempts, params, &out); err != nil {
		return nil, err
	}
	return out.Attempts, nil
}

func (c *Client) GetQuizzesByCourses(ctx context.Context, token string, courseIDs []int) ([]model.Quiz, error) {
	params := url.Values{}
	for i, id := range courseIDs {
		params.Set(fmt.Sprintf("courseids[%d]", i), strconv.Itoa(id))
	}

	var out struct {
		Quizzes []model.Quiz `json:"quizzes"`
	}
	if err := c.call(ctx, token, fnGetQuizzesByCourses, params, &out); err != nil {
		return nil, err
	}
	return out.Quizzes, nil
}

// call posts one web service function and decodes its JSON result into out.
func (c *Client) call(ctx context.Context, token, function string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("moodle %s: rate limit: %w", function, err)
	}

	form := url.Values{}
	for k, v := range params {
		form[k] = v
	}
	form.Set("wstoken", token)
	form.Set("wsfunction", function)
	form.Set("moodlewsrestformat", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+restPath, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("moodle %s: build request: %w", function, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Logger.Error("moodle call failed",
			zap.String("function", function),
			zap.Error(err),
		)
		return fmt.Errorf("moodle %s: %w", function, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			log.Logger.Warn("failed to close response body", zap.Error(cerr))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		log.Logger.Warn("unexpected status code",
			zap.String("function", function),
			zap.Int("status_code", resp.StatusCode),
		)
		return fmt.Errorf("moodle %s: %w: %d", function, ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("moodle %s: read response body: %w", function, err)
	}

	// Exceptions come back with status 200 and an object body.
	if len(body) > 0 && body[0] == '{' {
		var exc Error
		if err := json.Unmarshal(body, &exc); err == nil && exc.Exception != "" {
			exc.Function = function
			log.Logger.Warn("moodle exception",
				zap.String("function", function),
				zap.String("errorcode", exc.ErrorCode),
				zap.String("message", exc.Message),
			)
			return &exc
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("moodle %s: decode response: %w", function, err)
	}

	log.Logger.Debug("moodle call",
		zap.String("function", function),
		zap.Int("content_length", len(body)),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

func boolParam(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

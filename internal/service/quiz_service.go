package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"moodlequiz/internal/attempt"
	"moodlequiz/internal/log"
	"moodlequiz/internal/metrics"
	"moodlequiz/internal/model"
	"moodlequiz/internal/quiz"
)

var (
	ErrSubmissionFailed = errors.New("submission failed")
	ErrInvalidArgument  = errors.New("invalid argument")
)

// MoodleClient is the subset of the Moodle web service the quiz flow needs.
type MoodleClient interface {
	GetAttemptData(ctx context.Context, token string, attemptID, page int) (model.AttemptData, error)
	ProcessAttempt(ctx context.Context, token string, req model.ProcessAttemptRequest) (model.ProcessAttemptResult, error)
	StartAttempt(ctx context.Context, token string, quizID int, forceNew bool) (model.Attempt, error)
	GetUserAttempts(ctx context.Context, token string, quizID int, status string) ([]model.Attempt, error)
	GetQuizzesByCourses(ctx context.Context, token string, courseIDs []int) ([]model.Quiz, error)
}

// AnswerSelection is what a client sends back for one question.
type AnswerSelection struct {
	ExportCode    string `json:"export_code"`
	SequenceCheck int    `json:"sequence_check"`
	Value         int    `json:"value"`
}

type QuizService struct {
	client    MoodleClient
	extractor quiz.Extractor
	tracker   *attempt.Tracker
}

func NewQuizService(client MoodleClient, extractor quiz.Extractor, tracker *attempt.Tracker) *QuizService {
	return &QuizService{client: client, extractor: extractor, tracker: tracker}
}

// LoadPage fetches one attempt page and extracts its questions.
func (s *QuizService) LoadPage(ctx context.Context, token string, attemptID, page int) (model.AttemptPage, error) {
	if attemptID <= 0 || page < 0 {
		return model.AttemptPage{}, fmt.Errorf("%w: attempt %d page %d", ErrInvalidArgument, attemptID, page)
	}

	prev, err := s.tracker.Begin(attemptID)
	if err != nil {
		return model.AttemptPage{}, err
	}

	data, err := s.client.GetAttemptData(ctx, token, attemptID, page)
	if err != nil {
		s.tracker.Restore(attemptID, prev)
		return model.AttemptPage{}, fmt.Errorf("failed to load attempt %d page %d: %w", attemptID, page, err)
	}

	result, err := quiz.ExtractPage(s.extractor, attemptID, page, data)
	metrics.QuestionsExtracted.Add(float64(len(result.Questions)))
	for _, skipped := range result.Skipped {
		metrics.ItemsSkipped.WithLabelValues(skipped.Kind).Inc()
	}
	if err != nil {
		s.tracker.Restore(attemptID, prev)
		return result, err
	}

	s.tracker.Loaded(attemptID)
	log.Logger.Info("attempt page loaded",
		zap.Int("attempt_id", attemptID),
		zap.Int("page", page),
		zap.Int("questions", len(result.Questions)),
		zap.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}

// SubmitAnswer saves one answer. A failed submission leaves the attempt answerable.
func (s *QuizService) SubmitAnswer(ctx context.Context, token string, attemptID int, sel AnswerSelection) (model.ProcessAttemptResult, error) {
	if err := s.tracker.CanAnswer(attemptID); err != nil {
		return model.ProcessAttemptResult{}, err
	}

	data, err := quiz.EncodeAnswer(sel.Value, sel.ExportCode, sel.SequenceCheck)
	if err != nil {
		return model.ProcessAttemptResult{}, err
	}

	result, err := s.client.ProcessAttempt(ctx, token, model.ProcessAttemptRequest{AttemptID: attemptID, Data: data})
	if err != nil {
		metrics.Submissions.WithLabelValues("answer", "failure").Inc()
		log.Logger.Warn("answer submission failed",
			zap.Int("attempt_id", attemptID),
			zap.String("export_code", sel.ExportCode),
			zap.Error(err),
		)
		return result, fmt.Errorf("%w: attempt %d: %w", ErrSubmissionFailed, attemptID, err)
	}

	metrics.Submissions.WithLabelValues("answer", "success").Inc()
	log.Logger.Info("answer submitted",
		zap.Int("attempt_id", attemptID),
		zap.String("export_code", sel.ExportCode),
		zap.String("state", result.State),
	)
	return result, nil
}

// FinishAttempt finalises the attempt. Once it succeeds the attempt is Submitted for good.
func (s *QuizService) FinishAttempt(ctx context.Context, token string, attemptID int) (model.ProcessAttemptResult, error) {
	if err := s.tracker.CanAnswer(attemptID); err != nil {
		return model.ProcessAttemptResult{}, err
	}

	result, err := s.client.ProcessAttempt(ctx, token, quiz.NewFinish(attemptID))
	if err != nil {
		metrics.Submissions.WithLabelValues("finish", "failure").Inc()
		log.Logger.Warn("finish attempt failed", zap.Int("attempt_id", attemptID), zap.Error(err))
		return result, fmt.Errorf("%w: finish attempt %d: %w", ErrSubmissionFailed, attemptID, err)
	}

	s.tracker.Finish(attemptID)
	metrics.Submissions.WithLabelValues("finish", "success").Inc()
	log.Logger.Info("attempt finished", zap.Int("attempt_id", attemptID), zap.String("state", result.State))
	return result, nil
}

func (s *QuizService) AttemptState(attemptID int) attempt.State {
	return s.tracker.State(attemptID)
}

func (s *QuizService) StartAttempt(ctx context.Context, token string, quizID int, forceNew bool) (model.Attempt, error) {
	if quizID <= 0 {
		return model.Attempt{}, fmt.Errorf("%w: quiz %d", ErrInvalidArgument, quizID)
	}
	a, err := s.client.StartAttempt(ctx, token, quizID, forceNew)
	if err != nil {
		return model.Attempt{}, fmt.Errorf("failed to start attempt for quiz %d: %w", quizID, err)
	}
	log.Logger.Info("attempt started", zap.Int("quiz_id", quizID), zap.Int("attempt_id", a.ID))
	return a, nil
}

func (s *QuizService) ListAttempts(ctx context.Context, token string, quizID int, status string) ([]model.Attempt, error) {
	switch status {
	case "", "all", "finished", "unfinished":
	default:
		return nil, fmt.Errorf("%w: status %q", ErrInvalidArgument, status)
	}
	if quizID <= 0 {
		return nil, fmt.Errorf("%w: quiz %d", ErrInvalidArgument, quizID)
	}
	attempts, err := s.client.GetUserAttempts(ctx, token, quizID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts for quiz %d: %w", quizID, err)
	}
	return attempts, nil
}

func (s *QuizService) ListQuizzes(ctx context.Context, token string, courseIDs []int) ([]model.Quiz, error) {
	if len(courseIDs) == 0 {
		return nil, fmt.Errorf("%w: no course ids", ErrInvalidArgument)
	}
	quizzes, err := s.client.GetQuizzesByCourses(ctx, token, courseIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	return quizzes, nil
}

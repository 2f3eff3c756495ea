package quiz

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"moodlequiz/internal/log"
	"moodlequiz/internal/model"
)

const TypeMultichoice = "multichoice"

const (
	ModeDOM     = "dom"
	ModeSegment = "segment"
)

// Extractor turns one attempt item into questions.
//
// When some question blocks of the item fail to parse, Extract returns the
// questions that did parse together with an error joining one *SegmentError
// per failed block. When no question could be extracted the slice is nil.
type Extractor interface {
	Extract(item model.QuizItem) ([]model.MultichoiceQuestion, error)
}

// NewExtractor returns the extractor for a configured mode.
func NewExtractor(mode string) (Extractor, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", ModeDOM:
		return DOMExtractor{}, nil
	case ModeSegment:
		return SegmentExtractor{}, nil
	default:
		return nil, fmt.Errorf("unknown extractor mode %q", mode)
	}
}

// parsedQuestion is the strategy-independent result for one qtext block.
type parsedQuestion struct {
	title      string
	exportCode string
	answers    []model.MultichoiceAnswer
}

func extract(item model.QuizItem, parse func(string) ([]parsedQuestion, error)) ([]model.MultichoiceQuestion, error) {
	if item.Type != TypeMultichoice {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedQuizType, item.Type)
	}

	parsed, err := parse(item.HTML)
	if len(parsed) == 0 {
		if err == nil {
			err = fmt.Errorf("%w: no qtext block found", ErrMalformedMarkup)
		}
		return nil, err
	}

	questions := make([]model.MultichoiceQuestion, 0, len(parsed))
	for _, p := range parsed {
		questions = append(questions, model.MultichoiceQuestion{
			Title:         p.title,
			ExportCode:    p.exportCode,
			SequenceCheck: item.SequenceCheck,
			Slot:          item.Slot,
			Page:          item.Page,
			Answers:       p.answers,
		})
	}
	return questions, err
}

// ExtractPage extracts every item of an attempt page. Items that fail are
// reported in Skipped; ErrNoQuestions is returned only when nothing was extracted.
func ExtractPage(e Extractor, attemptID, page int, data model.AttemptData) (model.AttemptPage, error) {
	result := model.AttemptPage{
		AttemptID: attemptID,
		Page:      page,
		NextPage:  data.NextPage,
		Questions: []model.MultichoiceQuestion{},
	}

	var itemErrs []error
	for _, item := range data.Questions {
		questions, err := e.Extract(item)
		result.Questions = append(result.Questions, questions...)
		if err == nil {
			continue
		}

		itemErrs = append(itemErrs, fmt.Errorf("slot %d: %w", item.Slot, err))
		result.Skipped = append(result.Skipped, model.SkippedItem{
			Slot:   item.Slot,
			Type:   item.Type,
			Kind:   Reason(err),
			Reason: err.Error(),
		})
		log.Logger.Warn("quiz item not fully extracted",
			zap.Int("attempt_id", attemptID),
			zap.Int("page", page),
			zap.Int("slot", item.Slot),
			zap.String("type", item.Type),
			zap.Int("questions", len(questions)),
			zap.Error(err),
		)
	}

	if len(result.Questions) == 0 {
		err := fmt.Errorf("%w: attempt %d page %d, %d of %d items failed",
			ErrNoQuestions, attemptID, page, len(itemErrs), len(data.Questions))
		return result, errors.Join(append([]error{err}, itemErrs...)...)
	}
	return result, nil
}

// Reason classifies an extraction error for metrics and API responses.
func Reason(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrUnsupportedQuizType):
		return "unsupported_type"
	case errors.Is(err, ErrMalformedMarkup):
		return "malformed_markup"
	default:
		return "other"
	}
}

package quiz

import (
	"fmt"
	"strconv"
	"strings"

	"moodlequiz/internal/model"
)

const sequenceCheckSuffix = "_:sequencecheck"

// EncodeAnswer builds the two process_attempt fields for one selection: the
// chosen value under the export code, and the sequence check echoed back
// under the export code's prefix.
func EncodeAnswer(value int, exportCode string, sequenceCheck int) ([]model.SubmissionField, error) {
	prefix, _, found := strings.Cut(exportCode, "_")
	if !found || prefix == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidExportCode, exportCode)
	}

	return []model.SubmissionField{
		{Name: exportCode, Value: strconv.Itoa(value)},
		{Name: prefix + sequenceCheckSuffix, Value: strconv.Itoa(sequenceCheck)},
	}, nil
}

// NewSubmission encodes value for q after checking it is one of q's options.
func NewSubmission(attemptID int, q model.MultichoiceQuestion, value int) (model.ProcessAttemptRequest, error) {
	if !q.HasAnswer(value) {
		return model.ProcessAttemptRequest{}, fmt.Errorf("%w: %d for %q", ErrUnknownAnswer, value, q.ExportCode)
	}
	data, err := EncodeAnswer(value, q.ExportCode, q.SequenceCheck)
	if err != nil {
		return model.ProcessAttemptRequest{}, err
	}
	return model.ProcessAttemptRequest{AttemptID: attemptID, Data: data}, nil
}

func NewFinish(attemptID int) model.ProcessAttemptRequest {
	return model.ProcessAttemptRequest{AttemptID: attemptID, FinishAttempt: true}
}

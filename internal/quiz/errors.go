package quiz

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedQuizType = errors.New("unsupported quiz type")
	ErrMalformedMarkup     = errors.New("malformed quiz markup")
	ErrNoQuestions         = errors.New("no questions on attempt page")
	ErrInvalidExportCode   = errors.New("invalid export code")
	ErrUnknownAnswer       = errors.New("answer is not an option of the question")
)

// SegmentError reports a question block that could not be parsed.
// Index counts qtext blocks from zero in document order.
type SegmentError struct {
	Index int
	Err   error
}

func (e *SegmentError) Error() string {
	return fmt.Sprintf("question block %d: %v", e.Index, e.Err)
}

func (e *SegmentError) Unwrap() error {
	return e.Err
}

func malformed(index int, format string, args ...any) error {
	return &SegmentError{
		Index: index,
		Err:   fmt.Errorf("%w: %s", ErrMalformedMarkup, fmt.Sprintf(format, args...)),
	}
}

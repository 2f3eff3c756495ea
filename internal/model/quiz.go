package model

// MultichoiceAnswer is one selectable option of a question.
type MultichoiceAnswer struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// MultichoiceQuestion is one question extracted from an attempt page.
type MultichoiceQuestion struct {
	Title         string              `json:"title"`
	ExportCode    string              `json:"export_code"`
	SequenceCheck int                 `json:"sequence_check"`
	Slot          int                 `json:"slot"`
	Page          int                 `json:"page"`
	Answers       []MultichoiceAnswer `json:"answers"`
}

// HasAnswer reports whether value is one of the question's options.
func (q MultichoiceQuestion) HasAnswer(value int) bool {
	for _, a := range q.Answers {
		if a.Value == value {
			return true
		}
	}
	return false
}

// QuizItem is one entry of the questions array returned by mod_quiz_get_attempt_data.
type QuizItem struct {
	Slot              int     `json:"slot"`
	Type              string  `json:"type"`
	Page              int     `json:"page"`
	HTML              string  `json:"html"`
	SequenceCheck     int     `json:"sequencecheck"`
	LastActionTime    int64   `json:"lastactiontime"`
	HasAutosavedStep  bool    `json:"hasautosavedstep"`
	Flagged           bool    `json:"flagged"`
	Number            int     `json:"number"`
	Status            string  `json:"status"`
	BlockedByPrevious bool    `json:"blockedbyprevious"`
	MaxMark           float64 `json:"maxmark"`
}

// SkippedItem reports a quiz item left out of an extracted page.
type SkippedItem struct {
	Slot   int    `json:"slot"`
	Type   string `json:"type"`
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

// AttemptPage is one page of an attempt after extraction.
type AttemptPage struct {
	AttemptID int                   `json:"attempt_id"`
	Page      int                   `json:"page"`
	NextPage  int                   `json:"next_page"`
	Questions []MultichoiceQuestion `json:"questions"`
	Skipped   []SkippedItem         `json:"skipped,omitempty"`
}

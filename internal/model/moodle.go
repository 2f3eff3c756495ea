package model

// Warning is the warning entry Moodle attaches to most web service responses.
type Warning struct {
	Item        string `json:"item,omitempty"`
	ItemID      int    `json:"itemid,omitempty"`
	WarningCode string `json:"warningcode"`
	Message     string `json:"message"`
}

type Attempt struct {
	ID           int     `json:"id"`
	Quiz         int     `json:"quiz"`
	UserID       int     `json:"userid"`
	Attempt      int     `json:"attempt"`
	UniqueID     int     `json:"uniqueid"`
	Layout       string  `json:"layout"`
	CurrentPage  int     `json:"currentpage"`
	Preview      int     `json:"preview"`
	State        string  `json:"state"`
	TimeStart    int64   `json:"timestart"`
	TimeFinish   int64   `json:"timefinish"`
	TimeModified int64   `json:"timemodified"`
	SumGrades    float64 `json:"sumgrades"`
}

type AttemptData struct {
	Attempt   Attempt    `json:"attempt"`
	Messages  []string   `json:"messages"`
	NextPage  int        `json:"nextpage"`
	Questions []QuizItem `json:"questions"`
	Warnings  []Warning  `json:"warnings"`
}

type Quiz struct {
	ID           int    `json:"id"`
	Course       int    `json:"course"`
	CourseModule int    `json:"coursemodule"`
	Name         string `json:"name"`
	Intro        string `json:"intro"`
	TimeOpen     int64  `json:"timeopen"`
	TimeClose    int64  `json:"timeclose"`
	Attempts     int    `json:"attempts"`
}

// SubmissionField is one name/value pair of mod_quiz_process_attempt data.
type SubmissionField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type ProcessAttemptRequest struct {
	AttemptID     int               `json:"attemptid"`
	Data          []SubmissionField `json:"data,omitempty"`
	FinishAttempt bool              `json:"finishattempt,omitempty"`
}

type ProcessAttemptResult struct {
	State    string    `json:"state"`
	Warnings []Warning `json:"warnings,omitempty"`
}

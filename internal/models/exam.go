package models

// ExamQuestionType enumerates mock exam question formats.
type ExamQuestionType string

const (
	ExamMultipleChoice ExamQuestionType = "multiple-choice"
	ExamFillBlank      ExamQuestionType = "fill-in-the-blank"
	ExamOrdering       ExamQuestionType = "ordering"
	ExamWriting        ExamQuestionType = "writing"
)

// ExamQuestion is one question inside a mock exam section. Objective
// questions carry CorrectIndex or CorrectAnswer; writing questions carry
// neither and are excluded from automatic grading.
type ExamQuestion struct {
	ID            int              `json:"id"`
	Type          ExamQuestionType `json:"type"`
	Instructions  string           `json:"instructions,omitempty"`
	Options       []string         `json:"options,omitempty"`
	CorrectIndex  *int             `json:"correctIndex,omitempty"`
	CorrectAnswer string           `json:"correctAnswer,omitempty"`
	Image         string           `json:"image,omitempty"`
	AudioSegment  string           `json:"audioSegment,omitempty"`
}

// ExamSection groups questions under shared instructions.
type ExamSection struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Instructions string         `json:"instructions"`
	Questions    []ExamQuestion `json:"questions"`
}

// Exam is a full mock exam paper, e.g. H51327.
type Exam struct {
	ID        string        `json:"id"`
	Level     int           `json:"level"`
	TotalTime int           `json:"totalTime"`
	AudioURL  string        `json:"audioUrl,omitempty"`
	Sections  []ExamSection `json:"sections"`
}

// ExamAnswer is one submitted answer keyed by question ID.
type ExamAnswer struct {
	QuestionID    int    `json:"questionId"`
	SelectedIndex *int   `json:"selectedIndex,omitempty"`
	Text          string `json:"text,omitempty"`
}

// ExamGrade is the result of grading a submission against the exam key.
type ExamGrade struct {
	ExamID    string  `json:"examId"`
	Correct   int     `json:"correct"`
	Total     int     `json:"total"`
	Skipped   int     `json:"skipped"`
	Ungraded  int     `json:"ungraded"`
	Percent   float64 `json:"percent"`
	Passed    bool    `json:"passed"`
	PerResult []bool  `json:"perResult"`
}

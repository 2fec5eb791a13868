package models

import (
	"encoding/json"
	"time"
)

// Mode selects the analysis pipeline for a request.
type Mode string

const (
	ModeWriting  Mode = "writing"
	ModeReading  Mode = "reading"
	ModeExercise Mode = "exercise"
)

func (m Mode) Valid() bool {
	switch m {
	case ModeWriting, ModeReading, ModeExercise:
		return true
	}
	return false
}

// Plan is the user's subscription tier.
type Plan string

const (
	PlanFree    Plan = "FREE"
	PlanPremium Plan = "PREMIUM"
)

// Severity labels a writing error by how urgently it should be fixed.
type Severity string

const (
	SeverityMustFix   Severity = "must-fix"
	SeverityImportant Severity = "important"
	SeverityMinor     Severity = "minor"
)

// ErrorCategory classifies a writing error.
type ErrorCategory string

const (
	CategoryGrammar     ErrorCategory = "grammar"
	CategoryVocabulary  ErrorCategory = "vocabulary"
	CategoryCoherence   ErrorCategory = "coherence"
	CategoryMeasureWord ErrorCategory = "measure_word"
	CategoryWordOrder   ErrorCategory = "word_order"
)

// TextSpan locates an error inside the submitted essay, in runes.
type TextSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// WritingError is a single correction item from writing analysis.
type WritingError struct {
	ID             string        `json:"id"`
	Type           string        `json:"type"`
	Category       ErrorCategory `json:"category"`
	Severity       Severity      `json:"severity"`
	Original       string        `json:"original"`
	Suggestion     string        `json:"suggestion"`
	Explanation    string        `json:"explanation"`
	ThaiMistakeTip string        `json:"thaiMistakeTip,omitempty"`
	HSKRule        string        `json:"hskRule,omitempty"`
	Position       *TextSpan     `json:"position,omitempty"`
}

// ScoreBreakdown carries the four 0-25 scoring dimensions. Total is always
// the sum of the dimensions and Passed is derived from it.
type ScoreBreakdown struct {
	Total      int  `json:"total"`
	Grammar    int  `json:"grammar"`
	Vocabulary int  `json:"vocabulary"`
	Coherence  int  `json:"coherence"`
	Native     int  `json:"native"`
	Passed     bool `json:"passed"`
}

// FixPriority is one of up to three top issues the student should address
// first, ordered by impact.
type FixPriority struct {
	Issue      string `json:"issue"`
	Impact     string `json:"impact"`
	Suggestion string `json:"suggestion"`
}

// ExerciseType enumerates generated drill formats.
type ExerciseType string

const (
	ExerciseFillBlank       ExerciseType = "fill-blank"
	ExerciseMultipleChoice  ExerciseType = "multiple-choice"
	ExerciseErrorCorrection ExerciseType = "error-correction"
)

// Exercise is one generated practice item targeting a weak pattern.
type Exercise struct {
	ID            string       `json:"id"`
	Type          ExerciseType `json:"type"`
	Question      string       `json:"question"`
	Options       []string     `json:"options,omitempty"`
	Answer        string       `json:"answer"`
	Explanation   string       `json:"explanation"`
	TargetPattern string       `json:"targetPattern"`
}

// WritingResult is the full writing-mode analysis payload.
type WritingResult struct {
	Level         string         `json:"level"`
	Score         ScoreBreakdown `json:"score"`
	Errors        []WritingError `json:"errors"`
	Exercises     []Exercise     `json:"exercises,omitempty"`
	Summary       string         `json:"summary"`
	Feedback      string         `json:"feedback"`
	NativeTip     string         `json:"nativeTip,omitempty"`
	Rewrite       string         `json:"rewrite,omitempty"`
	NativeScore   *int           `json:"nativeScore,omitempty"`
	FixPriorities []FixPriority  `json:"fixPriorities,omitempty"`
}

// ReadingVocab is a vocabulary item surfaced from a reading passage.
type ReadingVocab struct {
	Word     string `json:"word"`
	Pinyin   string `json:"pinyin"`
	Meaning  string `json:"meaning"`
	ThaiTip  string `json:"thaiTip,omitempty"`
	Example  string `json:"example,omitempty"`
	HSKLevel int    `json:"hskLevel,omitempty"`
}

// ReadingQuestion is a generated comprehension question.
type ReadingQuestion struct {
	ID           string   `json:"id"`
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation"`
}

// DifficultWord flags a word Thai students commonly misread.
type DifficultWord struct {
	Word          string `json:"word"`
	CommonMistake string `json:"commonMistake"`
	Correct       string `json:"correct"`
}

// ReadingResult is the full reading-mode analysis payload.
type ReadingResult struct {
	Level          string            `json:"level"`
	Summary        string            `json:"summary"`
	Vocabulary     []ReadingVocab    `json:"vocabulary"`
	Questions      []ReadingQuestion `json:"questions"`
	DifficultWords []DifficultWord   `json:"difficultWords,omitempty"`
}

// AnalysisRecord is a stored analysis row, used for history listings.
type AnalysisRecord struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Mode      Mode            `json:"mode"`
	HSKLevel  int             `json:"hskLevel"`
	Input     string          `json:"input"`
	Result    json.RawMessage `json:"result"`
	Score     int             `json:"score"`
	Provider  string          `json:"provider"`
	Degraded  bool            `json:"degraded"`
	CreatedAt time.Time       `json:"createdAt"`
}

// WeakPattern aggregates a recurring error type for exercise generation.
type WeakPattern struct {
	Pattern string `json:"pattern"`
	Count   int    `json:"count"`
}

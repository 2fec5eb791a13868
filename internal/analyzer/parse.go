package analyzer

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/hskaicoach/backend/internal/hsk"
	"github.com/hskaicoach/backend/internal/models"
)

var codeFenceRe = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)```")

// ExtractJSON strips a surrounding markdown code fence, if any, and returns
// the JSON body. Models occasionally wrap output in fences despite being
// told not to.
func ExtractJSON(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if m := codeFenceRe.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}
	return trimmed
}

func normalizeSeverity(raw string) models.Severity {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "must-fix", "must_fix", "comprehension_breaking", "high":
		return models.SeverityMustFix
	case "important", "structural", "medium":
		return models.SeverityImportant
	default:
		return models.SeverityMinor
	}
}

func normalizeCategory(raw string) models.ErrorCategory {
	switch models.ErrorCategory(strings.ToLower(strings.TrimSpace(raw))) {
	case models.CategoryVocabulary:
		return models.CategoryVocabulary
	case models.CategoryCoherence:
		return models.CategoryCoherence
	case models.CategoryMeasureWord:
		return models.CategoryMeasureWord
	case models.CategoryWordOrder:
		return models.CategoryWordOrder
	default:
		return models.CategoryGrammar
	}
}

func clampDim(v float64) int {
	return int(math.Round(math.Min(25, math.Max(0, v))))
}

func clamp100(v float64) int {
	return int(math.Round(math.Min(100, math.Max(0, v))))
}

// rawWriting mirrors the JSON shape the writing prompt requests. Score is
// RawMessage because older prompt revisions returned a plain number.
type rawWriting struct {
	Score         json.RawMessage      `json:"score"`
	Level         string               `json:"level"`
	Errors        []rawWritingError    `json:"errors"`
	Exercises     []models.Exercise    `json:"exercises"`
	Summary       string               `json:"summary"`
	Feedback      string               `json:"feedback"`
	NativeTip     string               `json:"nativeTip"`
	Rewrite       string               `json:"rewrite"`
	NativeScore   *float64             `json:"nativeScore"`
	FixPriorities []models.FixPriority `json:"fixPriorities"`
}

type rawWritingError struct {
	ID             string           `json:"id"`
	Type           string           `json:"type"`
	Category       string           `json:"category"`
	Severity       string           `json:"severity"`
	Original       string           `json:"original"`
	Suggestion     string           `json:"suggestion"`
	Explanation    string           `json:"explanation"`
	ThaiMistakeTip string           `json:"thaiMistakeTip"`
	HSKRule        string           `json:"hskRule"`
	Position       *models.TextSpan `json:"position"`
}

type rawScoreBreakdown struct {
	Grammar    float64 `json:"grammar"`
	Vocabulary float64 `json:"vocabulary"`
	Coherence  float64 `json:"coherence"`
	Native     float64 `json:"native"`
}

// ParseWriting decodes and normalizes a writing-mode completion.
// requestedLevel fills in the level when the model omits it.
func ParseWriting(raw string, requestedLevel int) (*models.WritingResult, error) {
	var parsed rawWriting
	if err := json.Unmarshal([]byte(ExtractJSON(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("decode writing result: %w", err)
	}
	if parsed.Errors == nil {
		return nil, fmt.Errorf("writing result missing errors array")
	}

	result := &models.WritingResult{
		Level:     parsed.Level,
		Score:     parseScore(parsed.Score),
		Summary:   parsed.Summary,
		Feedback:  parsed.Feedback,
		NativeTip: parsed.NativeTip,
		Rewrite:   parsed.Rewrite,
	}
	if result.Level == "" {
		result.Level = hsk.LevelName(requestedLevel)
	}
	if parsed.NativeScore != nil {
		n := clamp100(*parsed.NativeScore)
		result.NativeScore = &n
	}
	if len(parsed.FixPriorities) > 3 {
		parsed.FixPriorities = parsed.FixPriorities[:3]
	}
	result.FixPriorities = parsed.FixPriorities
	result.Exercises = parsed.Exercises

	result.Errors = make([]models.WritingError, len(parsed.Errors))
	for i, e := range parsed.Errors {
		id := e.ID
		if id == "" {
			id = fmt.Sprintf("err-%d", i)
		}
		errType := e.Type
		if errType == "" {
			errType = "อื่นๆ"
		}
		result.Errors[i] = models.WritingError{
			ID:             id,
			Type:           errType,
			Category:       normalizeCategory(e.Category),
			Severity:       normalizeSeverity(e.Severity),
			Original:       e.Original,
			Suggestion:     e.Suggestion,
			Explanation:    e.Explanation,
			ThaiMistakeTip: e.ThaiMistakeTip,
			HSKRule:        e.HSKRule,
			Position:       e.Position,
		}
	}

	return result, nil
}

// parseScore accepts both the 4D breakdown object and the legacy plain
// number. The legacy number is split 30/25/25/20 across the dimensions.
func parseScore(raw json.RawMessage) models.ScoreBreakdown {
	if len(raw) == 0 {
		return models.ScoreBreakdown{}
	}

	var dims rawScoreBreakdown
	if err := json.Unmarshal(raw, &dims); err == nil && strings.HasPrefix(strings.TrimSpace(string(raw)), "{") {
		grammar := clampDim(dims.Grammar)
		vocabulary := clampDim(dims.Vocabulary)
		coherence := clampDim(dims.Coherence)
		native := clampDim(dims.Native)
		total := grammar + vocabulary + coherence + native
		return models.ScoreBreakdown{
			Total:      total,
			Grammar:    grammar,
			Vocabulary: vocabulary,
			Coherence:  coherence,
			Native:     native,
			Passed:     total >= 60,
		}
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err != nil {
		return models.ScoreBreakdown{}
	}
	total := clamp100(num)
	return models.ScoreBreakdown{
		Total:      total,
		Grammar:    int(math.Round(float64(total) * 0.3)),
		Vocabulary: int(math.Round(float64(total) * 0.25)),
		Coherence:  int(math.Round(float64(total) * 0.25)),
		Native:     int(math.Round(float64(total) * 0.2)),
		Passed:     total >= 60,
	}
}

type rawReading struct {
	Level          string                   `json:"level"`
	Summary        string                   `json:"summary"`
	Vocabulary     []models.ReadingVocab    `json:"vocabulary"`
	Questions      []models.ReadingQuestion `json:"questions"`
	DifficultWords []models.DifficultWord   `json:"difficultWords"`
}

// WordLeveler resolves a word's HSK level; 0 means unlisted.
type WordLeveler interface {
	WordLevel(word string) int
}

// ParseReading decodes and normalizes a reading-mode completion. When vocab
// is non-nil, vocabulary levels are cross-referenced against the official
// word list, which wins over whatever the model claimed.
func ParseReading(raw string, requestedLevel int, vocab WordLeveler) (*models.ReadingResult, error) {
	var parsed rawReading
	if err := json.Unmarshal([]byte(ExtractJSON(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("decode reading result: %w", err)
	}
	if parsed.Vocabulary == nil || parsed.Questions == nil {
		return nil, fmt.Errorf("reading result missing vocabulary or questions")
	}

	result := &models.ReadingResult{
		Level:          parsed.Level,
		Summary:        parsed.Summary,
		Vocabulary:     parsed.Vocabulary,
		Questions:      parsed.Questions,
		DifficultWords: parsed.DifficultWords,
	}
	if result.Level == "" {
		result.Level = hsk.LevelName(requestedLevel)
	}

	for i := range result.Vocabulary {
		if vocab != nil {
			if level := vocab.WordLevel(result.Vocabulary[i].Word); level > 0 {
				result.Vocabulary[i].HSKLevel = level
			}
		}
	}
	for i := range result.Questions {
		if result.Questions[i].ID == "" {
			result.Questions[i].ID = fmt.Sprintf("q-%d", i)
		}
		if result.Questions[i].Options == nil {
			result.Questions[i].Options = []string{}
		}
	}

	return result, nil
}

type rawExercises struct {
	Exercises []models.Exercise `json:"exercises"`
}

// ParseExercises decodes an exercise-generation completion.
func ParseExercises(raw string) ([]models.Exercise, error) {
	var parsed rawExercises
	if err := json.Unmarshal([]byte(ExtractJSON(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("decode exercises: %w", err)
	}
	if parsed.Exercises == nil {
		return nil, fmt.Errorf("exercise result missing exercises array")
	}
	for i := range parsed.Exercises {
		if parsed.Exercises[i].ID == "" {
			parsed.Exercises[i].ID = fmt.Sprintf("ex-%d", i)
		}
	}
	return parsed.Exercises, nil
}

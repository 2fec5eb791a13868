// Package exam holds the digitized mock exam bank and the grading logic for
// submissions. Papers are keyed by their official exam code.
package exam

import (
	"errors"
	"sort"

	"github.com/hskaicoach/backend/internal/models"
)

var ErrExamNotFound = errors.New("exam not found")

// Summary is the listing view of a paper, without answer keys.
type Summary struct {
	ID        string `json:"id"`
	Level     int    `json:"level"`
	TotalTime int    `json:"totalTime"`
	Sections  int    `json:"sections"`
	Questions int    `json:"questions"`
}

// Bank serves exam papers. Papers are registered at construction and never
// mutated afterwards, so the bank is safe for concurrent reads.
type Bank struct {
	exams map[string]*models.Exam
}

func NewBank() *Bank {
	bank := &Bank{exams: map[string]*models.Exam{}}
	bank.register(examH51327())
	return bank
}

func (b *Bank) register(exam *models.Exam) {
	b.exams[exam.ID] = exam
}

// Get returns a paper by ID.
func (b *Bank) Get(id string) (*models.Exam, error) {
	exam, ok := b.exams[id]
	if !ok {
		return nil, ErrExamNotFound
	}
	return exam, nil
}

// List returns summaries of every paper, sorted by ID.
func (b *Bank) List() []Summary {
	summaries := make([]Summary, 0, len(b.exams))
	for _, exam := range b.exams {
		total := 0
		for _, section := range exam.Sections {
			total += len(section.Questions)
		}
		summaries = append(summaries, Summary{
			ID:        exam.ID,
			Level:     exam.Level,
			TotalTime: exam.TotalTime,
			Sections:  len(exam.Sections),
			Questions: total,
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })
	return summaries
}

// Redacted returns a copy of the paper with answer keys removed, for
// serving to the exam player.
func Redacted(exam *models.Exam) *models.Exam {
	out := *exam
	out.Sections = make([]models.ExamSection, len(exam.Sections))
	for i, section := range exam.Sections {
		out.Sections[i] = section
		out.Sections[i].Questions = make([]models.ExamQuestion, len(section.Questions))
		for j, q := range section.Questions {
			q.CorrectIndex = nil
			q.CorrectAnswer = ""
			out.Sections[i].Questions[j] = q
		}
	}
	return &out
}

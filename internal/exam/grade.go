package exam

import (
	"strings"

	"github.com/hskaicoach/backend/internal/models"
)

// The official pass mark is 60% of the objective sections.
const passPercent = 60.0

// Grade scores a submission against the paper's answer key. Writing
// questions have no key and count as ungraded; unanswered objective
// questions count as skipped and wrong.
func Grade(exam *models.Exam, answers []models.ExamAnswer) models.ExamGrade {
	byQuestion := make(map[int]models.ExamAnswer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}

	grade := models.ExamGrade{ExamID: exam.ID}
	for _, section := range exam.Sections {
		for _, q := range section.Questions {
			if q.Type == models.ExamWriting {
				grade.Ungraded++
				continue
			}
			grade.Total++

			answer, answered := byQuestion[q.ID]
			if !answered {
				grade.Skipped++
				grade.PerResult = append(grade.PerResult, false)
				continue
			}

			correct := isCorrect(q, answer)
			if correct {
				grade.Correct++
			}
			grade.PerResult = append(grade.PerResult, correct)
		}
	}

	if grade.Total > 0 {
		grade.Percent = float64(grade.Correct) / float64(grade.Total) * 100
	}
	grade.Passed = grade.Percent >= passPercent
	return grade
}

func isCorrect(q models.ExamQuestion, answer models.ExamAnswer) bool {
	if q.CorrectIndex != nil {
		return answer.SelectedIndex != nil && *answer.SelectedIndex == *q.CorrectIndex
	}
	if q.CorrectAnswer != "" {
		return normalizeAnswer(answer.Text) == normalizeAnswer(q.CorrectAnswer)
	}
	return false
}

// normalizeAnswer strips whitespace and the trailing full stop so ordering
// answers are not marked wrong over punctuation.
func normalizeAnswer(s string) string {
	s = strings.Join(strings.Fields(s), "")
	return strings.TrimRight(s, "。.")
}

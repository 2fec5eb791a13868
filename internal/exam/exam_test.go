package exam

import (
	"testing"

	"github.com/hskaicoach/backend/internal/models"
)

func TestBankServesH51327(t *testing.T) {
	bank := NewBank()

	exam, err := bank.Get("H51327")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if exam.Level != 5 || exam.TotalTime != 125 {
		t.Fatalf("unexpected exam header: %+v", exam)
	}

	total := 0
	for _, section := range exam.Sections {
		total += len(section.Questions)
	}
	if total != 100 {
		t.Fatalf("expected 100 questions, got %d", total)
	}

	if _, err := bank.Get("H00000"); err != ErrExamNotFound {
		t.Fatalf("expected ErrExamNotFound, got %v", err)
	}

	list := bank.List()
	if len(list) != 1 || list[0].ID != "H51327" || list[0].Questions != 100 {
		t.Fatalf("unexpected listing: %+v", list)
	}
}

func TestRedactedStripsAnswerKeys(t *testing.T) {
	bank := NewBank()
	exam, _ := bank.Get("H51327")

	redacted := Redacted(exam)
	for _, section := range redacted.Sections {
		for _, q := range section.Questions {
			if q.CorrectIndex != nil || q.CorrectAnswer != "" {
				t.Fatalf("question %d leaks its key", q.ID)
			}
		}
	}

	// The original must stay intact.
	if exam.Sections[0].Questions[0].CorrectIndex == nil {
		t.Fatal("redaction mutated the bank copy")
	}
}

func idx(i int) *int { return &i }

func TestGradeCountsObjectiveQuestions(t *testing.T) {
	exam := &models.Exam{
		ID: "T1",
		Sections: []models.ExamSection{
			{
				ID: "s1",
				Questions: []models.ExamQuestion{
					{ID: 1, Type: models.ExamMultipleChoice, CorrectIndex: idx(2)},
					{ID: 2, Type: models.ExamMultipleChoice, CorrectIndex: idx(0)},
					{ID: 3, Type: models.ExamOrdering, CorrectAnswer: "他承认自己缺乏自信。"},
					{ID: 4, Type: models.ExamWriting},
				},
			},
		},
	}

	grade := Grade(exam, []models.ExamAnswer{
		{QuestionID: 1, SelectedIndex: idx(2)},
		{QuestionID: 2, SelectedIndex: idx(1)},
		{QuestionID: 3, Text: "他承认自己缺乏自信"},
	})

	if grade.Total != 3 || grade.Correct != 2 || grade.Ungraded != 1 || grade.Skipped != 0 {
		t.Fatalf("unexpected grade: %+v", grade)
	}
	if grade.Percent < 66 || grade.Percent > 67 {
		t.Fatalf("unexpected percent: %v", grade.Percent)
	}
	if !grade.Passed {
		t.Fatal("66% should pass")
	}
}

func TestGradeSkippedQuestionsCountAgainst(t *testing.T) {
	exam := &models.Exam{
		ID: "T2",
		Sections: []models.ExamSection{
			{
				ID: "s1",
				Questions: []models.ExamQuestion{
					{ID: 1, Type: models.ExamMultipleChoice, CorrectIndex: idx(0)},
					{ID: 2, Type: models.ExamMultipleChoice, CorrectIndex: idx(0)},
				},
			},
		},
	}

	grade := Grade(exam, []models.ExamAnswer{{QuestionID: 1, SelectedIndex: idx(0)}})
	if grade.Skipped != 1 || grade.Correct != 1 || grade.Total != 2 {
		t.Fatalf("unexpected grade: %+v", grade)
	}
	if grade.Percent != 50 || grade.Passed {
		t.Fatalf("50%% should not pass: %+v", grade)
	}
}

func TestOrderingAnswerToleratesPunctuation(t *testing.T) {
	q := models.ExamQuestion{Type: models.ExamOrdering, CorrectAnswer: "汽油的价格又上涨了。"}
	cases := []string{
		"汽油的价格又上涨了。",
		"汽油的价格又上涨了",
		" 汽油的价格又上涨了 ",
	}
	for _, text := range cases {
		if !isCorrect(q, models.ExamAnswer{Text: text}) {
			t.Errorf("answer %q should be accepted", text)
		}
	}
	if isCorrect(q, models.ExamAnswer{Text: "价格汽油的又上涨了"}) {
		t.Error("wrong order should be rejected")
	}
}

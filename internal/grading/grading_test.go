package grading

import (
	"errors"
	"fmt"
	"testing"

	"github.com/abhisek/quizgate/internal/answerkey"
	"github.com/abhisek/quizgate/internal/catalog"
	"github.com/abhisek/quizgate/internal/domain"
)

// fifteen builds a 15-question key where every answer is "a".
func fifteen() answerkey.Key {
	key := make(answerkey.Key, 15)
	for i := range key {
		key[i] = answerkey.Entry{QuestionID: fmt.Sprintf("q%d", i+1), Answer: "a"}
	}
	return key
}

// answers returns a submission with the first n questions correct and the
// rest wrong.
func answers(n int) map[string]string {
	m := make(map[string]string, 15)
	for i := 1; i <= 15; i++ {
		if i <= n {
			m[fmt.Sprintf("q%d", i)] = "a"
		} else {
			m[fmt.Sprintf("q%d", i)] = "b"
		}
	}
	return m
}

func TestScore_Rounding(t *testing.T) {
	tests := []struct {
		correct    int
		wantScore  int
		wantPassed bool
	}{
		{0, 0, false},
		{7, 47, false},
		{8, 53, true},
		{13, 87, true},
		{15, 100, true},
	}
	for _, tt := range tests {
		rec := Score(fifteen(), answers(tt.correct), DefaultPassThreshold)
		if rec.Score != tt.wantScore {
			t.Errorf("%d/15: got score %d, want %d", tt.correct, rec.Score, tt.wantScore)
		}
		if rec.Passed != tt.wantPassed {
			t.Errorf("%d/15: got passed %v, want %v", tt.correct, rec.Passed, tt.wantPassed)
		}
		if rec.Correct != tt.correct || rec.Total != 15 {
			t.Errorf("%d/15: got %d/%d", tt.correct, rec.Correct, rec.Total)
		}
	}
}

func TestScore_HalfRoundsUp(t *testing.T) {
	key := make(answerkey.Key, 8)
	for i := range key {
		key[i] = answerkey.Entry{QuestionID: fmt.Sprintf("q%d", i), Answer: "c"}
	}
	rec := Score(key, map[string]string{"q0": "c"}, DefaultPassThreshold)
	if rec.Score != 13 {
		t.Errorf("1/8: got %d, want 13", rec.Score)
	}
}

func TestScore_MissingAnswersIncorrect(t *testing.T) {
	rec := Score(fifteen(), map[string]string{"q1": "a"}, DefaultPassThreshold)
	if rec.Correct != 1 {
		t.Errorf("got %d correct, want 1", rec.Correct)
	}
	if len(rec.Results) != 15 {
		t.Fatalf("got %d results, want 15", len(rec.Results))
	}
	if rec.Results[1].Selected != "" || rec.Results[1].IsCorrect {
		t.Errorf("unanswered q2 = %+v", rec.Results[1])
	}
}

func TestScore_CaseAndWhitespace(t *testing.T) {
	key := answerkey.Key{{QuestionID: "q1", Answer: "b"}, {QuestionID: "q2", Answer: "D"}}
	rec := Score(key, map[string]string{"q1": " B ", "q2": "d"}, DefaultPassThreshold)
	if rec.Correct != 2 {
		t.Errorf("got %d correct, want 2", rec.Correct)
	}
}

func TestScore_EmptyKey(t *testing.T) {
	rec := Score(nil, nil, DefaultPassThreshold)
	if rec.Score != 0 || rec.Passed {
		t.Errorf("empty key: got %+v", rec)
	}
}

func TestScore_Deterministic(t *testing.T) {
	a := Score(fifteen(), answers(9), DefaultPassThreshold)
	b := Score(fifteen(), answers(9), DefaultPassThreshold)
	if a.Score != b.Score || a.Passed != b.Passed || a.Correct != b.Correct {
		t.Errorf("non-deterministic: %+v vs %+v", a, b)
	}
	for i := range a.Results {
		if a.Results[i] != b.Results[i] {
			t.Errorf("result %d differs: %+v vs %+v", i, a.Results[i], b.Results[i])
		}
	}
}

func TestGrade_UnknownQuiz(t *testing.T) {
	g := New(answerkey.FromCatalog(catalog.Default()), 0)
	_, err := g.Grade("nope", nil)
	if !errors.Is(err, domain.ErrUnknownQuiz) {
		t.Fatalf("got %v, want ErrUnknownQuiz", err)
	}
}

func TestGrade_Quiz1AllCorrect(t *testing.T) {
	c := catalog.Default()
	g := New(answerkey.FromCatalog(c), DefaultPassThreshold)
	q, _ := c.Quiz("quiz1")
	sub := make(map[string]string)
	for _, qq := range q.Questions {
		sub[qq.ID] = qq.Answer
	}
	rec, err := g.Grade("quiz1", sub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.QuizID != "quiz1" || rec.Score != 100 || !rec.Passed {
		t.Errorf("got %+v", rec)
	}
}

func TestNew_ThresholdFallback(t *testing.T) {
	if got := New(nil, 150).Threshold(); got != DefaultPassThreshold {
		t.Errorf("got %d, want %d", got, DefaultPassThreshold)
	}
	if got := New(nil, 70).Threshold(); got != 70 {
		t.Errorf("got %d, want 70", got)
	}
}

func TestPerformanceLevel(t *testing.T) {
	tests := []struct {
		correct, total int
		want           Level
	}{
		{15, 15, LevelExcellent},
		{13, 15, LevelGood},
		{9, 15, LevelGood},
		{5, 15, LevelAverage},
		{4, 15, LevelNeedsImprovement},
		{0, 0, LevelNeedsImprovement},
	}
	for _, tt := range tests {
		if got := PerformanceLevel(tt.correct, tt.total); got != tt.want {
			t.Errorf("PerformanceLevel(%d, %d) = %q, want %q", tt.correct, tt.total, got, tt.want)
		}
	}
}

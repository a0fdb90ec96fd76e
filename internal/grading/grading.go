// Package grading scores a submitted answer set against a quiz answer key.
package grading

import (
	"fmt"
	"math"
	"strings"

	"github.com/abhisek/quizgate/internal/answerkey"
)

// DefaultPassThreshold is the minimum percentage that passes a quiz.
const DefaultPassThreshold = 50

// Result is the outcome for a single question.
type Result struct {
	QuestionID string `json:"question_id"`
	Selected   string `json:"selected"`
	Correct    string `json:"correct"`
	IsCorrect  bool   `json:"is_correct"`
}

// Record is the graded result of one submission.
type Record struct {
	QuizID  string   `json:"quiz_id"`
	Score   int      `json:"score"`
	Passed  bool     `json:"passed"`
	Correct int      `json:"correct"`
	Total   int      `json:"total"`
	Results []Result `json:"results"`
}

// Grader grades submissions using a fixed answer key store.
type Grader struct {
	keys      *answerkey.Store
	threshold int
}

// New returns a Grader. A threshold outside 1..100 falls back to the default.
func New(keys *answerkey.Store, threshold int) *Grader {
	if threshold < 1 || threshold > 100 {
		threshold = DefaultPassThreshold
	}
	return &Grader{keys: keys, threshold: threshold}
}

// Threshold returns the pass threshold in percent.
func (g *Grader) Threshold() int { return g.threshold }

// Grade scores submitted (question id -> option letter) for quizID.
// Returns domain.ErrUnknownQuiz when no key is registered.
func (g *Grader) Grade(quizID string, submitted map[string]string) (Record, error) {
	key, err := g.keys.Lookup(quizID)
	if err != nil {
		return Record{}, fmt.Errorf("grade: %w", err)
	}
	rec := Score(key, submitted, g.threshold)
	rec.QuizID = quizID
	return rec, nil
}

// Score is the pure grading core. It walks the key in order; questions with no
// submitted answer count as incorrect. An empty key scores 0.
func Score(key answerkey.Key, submitted map[string]string, threshold int) Record {
	rec := Record{
		Total:   len(key),
		Results: make([]Result, 0, len(key)),
	}
	for _, e := range key {
		selected := submitted[e.QuestionID]
		ok := normalize(selected) != "" && normalize(selected) == normalize(e.Answer)
		if ok {
			rec.Correct++
		}
		rec.Results = append(rec.Results, Result{
			QuestionID: e.QuestionID,
			Selected:   selected,
			Correct:    e.Answer,
			IsCorrect:  ok,
		})
	}
	rec.Score = percent(rec.Correct, rec.Total)
	rec.Passed = rec.Total > 0 && rec.Score >= threshold
	return rec
}

func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(n) / float64(total)))
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Level is a coarse feedback band for a score.
type Level string

const (
	LevelExcellent        Level = "excellent"
	LevelGood             Level = "good"
	LevelAverage          Level = "average"
	LevelNeedsImprovement Level = "needs-improvement"
)

// PerformanceLevel maps a raw result to its feedback band. Bands use the
// unrounded ratio, so 13/15 (86.7%) is good rather than excellent.
func PerformanceLevel(correct, total int) Level {
	if total == 0 {
		return LevelNeedsImprovement
	}
	pct := 100 * float64(correct) / float64(total)
	switch {
	case pct >= 87:
		return LevelExcellent
	case pct >= 60:
		return LevelGood
	case pct >= 33:
		return LevelAverage
	default:
		return LevelNeedsImprovement
	}
}

// Level returns the feedback band of the record.
func (r Record) Level() Level { return PerformanceLevel(r.Correct, r.Total) }

// Message returns the learner-facing text for a band.
func (l Level) Message() string {
	switch l {
	case LevelExcellent:
		return "Excellent - You're a Cyber Safety Champion!"
	case LevelGood:
		return "Good - You're aware but can improve."
	case LevelAverage:
		return "Average - Review key topics again."
	default:
		return "Needs Improvement - Take the course again."
	}
}

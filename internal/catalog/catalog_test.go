package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault_Shape(t *testing.T) {
	c := Default()
	if len(c.Courses) != 12 {
		t.Fatalf("got %d courses, want 12", len(c.Courses))
	}
	if len(c.Quizzes) != 12 {
		t.Fatalf("got %d quizzes, want 12", len(c.Quizzes))
	}
	for _, q := range c.Quizzes {
		if len(q.Questions) != 15 {
			t.Errorf("quiz %q: got %d questions, want 15", q.ID, len(q.Questions))
		}
	}
	first, ok := c.Course("course1")
	if !ok {
		t.Fatal("course1 missing")
	}
	if first.Required != "" {
		t.Errorf("course1 requires %q, want none", first.Required)
	}
	if first.Quiz != "quiz1" {
		t.Errorf("course1 quiz = %q, want quiz1", first.Quiz)
	}
	last, _ := c.Course("course12")
	if last.Next != "" {
		t.Errorf("course12 next = %q, want none", last.Next)
	}
}

func TestDefault_Quiz1Key(t *testing.T) {
	q, ok := Default().Quiz("quiz1")
	if !ok {
		t.Fatal("quiz1 missing")
	}
	if q.Questions[0].ID != "q1" {
		t.Errorf("first question = %q, want q1", q.Questions[0].ID)
	}
	if q.Questions[0].Answer != "b" {
		t.Errorf("quiz1 q1 answer = %q, want b", q.Questions[0].Answer)
	}
}

func TestParse_SchemaViolation(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{`},
		{"missing quizzes", `{"version":"v1.0.0","courses":[{"id":"c1","quiz":"q1"}]}`},
		{"bad answer letter", `{"version":"v1.0.0","courses":[{"id":"c1","quiz":"q1"}],"quizzes":[{"id":"q1","questions":[{"id":"a","answer":"z"}]}]}`},
		{"unknown field", `{"version":"v1.0.0","extra":1,"courses":[{"id":"c1","quiz":"q1"}],"quizzes":[{"id":"q1","questions":[{"id":"a","answer":"a"}]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.raw)); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestParse_UnsupportedMajor(t *testing.T) {
	raw := `{"version":"v2.0.0","courses":[{"id":"c1","quiz":"q1"}],"quizzes":[{"id":"q1","questions":[{"id":"a","answer":"a"}]}]}`
	_, err := Parse([]byte(raw))
	if err == nil {
		t.Fatal("expected error for v2 catalog")
	}
	if !strings.Contains(err.Error(), "unsupported catalog version") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_Duplicates(t *testing.T) {
	c := &Catalog{
		Version: "v1.0.0",
		Courses: []Course{{ID: "c1", Quiz: "q1"}, {ID: "c1", Quiz: "q9"}},
		Quizzes: []Quiz{
			{ID: "q1", Questions: []Question{{ID: "a", Answer: "a"}, {ID: "a", Answer: "b"}}},
			{ID: "q1"},
		},
	}
	err := c.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"duplicate quiz ID", "duplicate question ID", "duplicate course ID", "nonexistent quiz"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q: %v", want, err)
		}
	}
}

func TestLoad_YAML(t *testing.T) {
	doc := `version: v1.2.0
courses:
  - id: intro
    title: Intro
    quiz: intro-quiz
    next: advanced
  - id: advanced
    quiz: adv-quiz
    required: intro
quizzes:
  - id: intro-quiz
    questions:
      - {id: q1, answer: a}
      - {id: q2, answer: C}
  - id: adv-quiz
    questions:
      - {id: q1, answer: d}
`
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.Courses) != 2 || len(c.Quizzes) != 2 {
		t.Fatalf("got %d courses / %d quizzes, want 2 / 2", len(c.Courses), len(c.Quizzes))
	}
	adv, _ := c.Course("advanced")
	if adv.Required != "intro" {
		t.Errorf("advanced.Required = %q, want intro", adv.Required)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

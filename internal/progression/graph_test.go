package progression

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/abhisek/quizgate/internal/catalog"
	"github.com/abhisek/quizgate/internal/domain"
)

func defaultGraph(t *testing.T) *Graph {
	t.Helper()
	g, err := Build(catalog.Default().Courses)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func TestBuild_DefaultChain(t *testing.T) {
	g := defaultGraph(t)
	if g.Len() != 12 {
		t.Fatalf("got %d courses, want 12", g.Len())
	}
	courses := g.Courses()
	if courses[0].CourseID != "course1" {
		t.Errorf("first course = %q, want course1", courses[0].CourseID)
	}
	if courses[11].CourseID != "course12" {
		t.Errorf("last course = %q, want course12", courses[11].CourseID)
	}
	for i := 1; i < len(courses); i++ {
		if courses[i].Required != courses[i-1].CourseID {
			t.Errorf("course %q requires %q, want %q", courses[i].CourseID, courses[i].Required, courses[i-1].CourseID)
		}
	}
}

func TestAccessible_EntryAlwaysOpen(t *testing.T) {
	g := defaultGraph(t)
	ok, err := g.Accessible("course1", nil)
	if err != nil || !ok {
		t.Fatalf("Accessible(course1) = %v, %v; want true, nil", ok, err)
	}
}

func TestAccessible_RequiresPredecessor(t *testing.T) {
	g := defaultGraph(t)
	tests := []struct {
		name      string
		completed map[string]bool
		want      bool
	}{
		{"nothing done", map[string]bool{}, false},
		{"only course1", map[string]bool{"course1": true}, false},
		{"course2 done", map[string]bool{"course2": true}, true},
		{"course1 and course2", map[string]bool{"course1": true, "course2": true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := g.Accessible("course3", tt.completed)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Accessible(course3) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAccessible_UnknownCourse(t *testing.T) {
	g := defaultGraph(t)
	ok, err := g.Accessible("course13", map[string]bool{"course12": true})
	if ok {
		t.Error("unknown course reported accessible")
	}
	if !errors.Is(err, domain.ErrUnknownCourse) {
		t.Errorf("got %v, want ErrUnknownCourse", err)
	}
}

func TestQuizMapping(t *testing.T) {
	g := defaultGraph(t)
	for i := 1; i <= 12; i++ {
		courseID, err := g.CourseForQuiz(quizID(i))
		if err != nil {
			t.Fatalf("CourseForQuiz(%s): %v", quizID(i), err)
		}
		quiz, err := g.QuizForCourse(courseID)
		if err != nil {
			t.Fatalf("QuizForCourse(%s): %v", courseID, err)
		}
		if quiz != quizID(i) {
			t.Errorf("round trip %s -> %s -> %s", quizID(i), courseID, quiz)
		}
	}
	if _, err := g.CourseForQuiz("quiz0"); !errors.Is(err, domain.ErrUnknownQuiz) {
		t.Errorf("CourseForQuiz(quiz0) = %v, want ErrUnknownQuiz", err)
	}
}

func TestNextAndRequired(t *testing.T) {
	g := defaultGraph(t)
	next, _ := g.Next("course11")
	if next != "course12" {
		t.Errorf("Next(course11) = %q", next)
	}
	next, _ = g.Next("course12")
	if next != "" {
		t.Errorf("Next(course12) = %q, want empty", next)
	}
	req, _ := g.Required("course1")
	if req != "" {
		t.Errorf("Required(course1) = %q, want empty", req)
	}
}

func TestBuild_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		courses []catalog.Course
		want    string
	}{
		{
			name:    "empty",
			courses: nil,
			want:    "no courses",
		},
		{
			name: "two entries",
			courses: []catalog.Course{
				{ID: "a", Quiz: "qa"},
				{ID: "b", Quiz: "qb"},
			},
			want: "exactly one entry course",
		},
		{
			name: "dangling requirement",
			courses: []catalog.Course{
				{ID: "a", Quiz: "qa", Next: "b"},
				{ID: "b", Quiz: "qb", Required: "zz"},
			},
			want: "nonexistent course",
		},
		{
			name: "asymmetric link",
			courses: []catalog.Course{
				{ID: "a", Quiz: "qa", Next: "c"},
				{ID: "b", Quiz: "qb", Required: "a"},
				{ID: "c", Quiz: "qc", Required: "b"},
			},
			want: "continues to",
		},
		{
			name: "shared quiz",
			courses: []catalog.Course{
				{ID: "a", Quiz: "q", Next: "b"},
				{ID: "b", Quiz: "q", Required: "a"},
			},
			want: "mapped to both",
		},
		{
			name: "detached cycle",
			courses: []catalog.Course{
				{ID: "a", Quiz: "qa"},
				{ID: "b", Quiz: "qb", Required: "c", Next: "c"},
				{ID: "c", Quiz: "qc", Required: "b", Next: "b"},
			},
			want: "not reachable",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.courses)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func quizID(i int) string {
	return "quiz" + strconv.Itoa(i)
}

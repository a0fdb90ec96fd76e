// Package progression holds the linear prerequisite chain over courses and
// the quiz <-> course mapping. It is pure: completion state is passed in.
package progression

import (
	"fmt"

	"github.com/abhisek/quizgate/internal/catalog"
	"github.com/abhisek/quizgate/internal/domain"
)

// Node is one course in the chain.
type Node struct {
	CourseID string
	Title    string
	QuizID   string
	Required string
	Next     string
}

// Graph is a validated simple path of courses with precomputed indices.
type Graph struct {
	order        []Node
	byCourse     map[string]int
	courseByQuiz map[string]string
}

// Build validates the catalog course table and constructs the graph.
func Build(courses []catalog.Course) (*Graph, error) {
	nodes := make([]Node, 0, len(courses))
	for _, c := range courses {
		nodes = append(nodes, Node{
			CourseID: c.ID,
			Title:    c.Title,
			QuizID:   c.Quiz,
			Required: c.Required,
			Next:     c.Next,
		})
	}
	if err := validateChain(nodes); err != nil {
		return nil, err
	}

	byID := make(map[string]Node, len(nodes))
	var head string
	for _, n := range nodes {
		byID[n.CourseID] = n
		if n.Required == "" {
			head = n.CourseID
		}
	}

	g := &Graph{
		order:        make([]Node, 0, len(nodes)),
		byCourse:     make(map[string]int, len(nodes)),
		courseByQuiz: make(map[string]string, len(nodes)),
	}
	for id := head; id != ""; id = byID[id].Next {
		n := byID[id]
		g.byCourse[id] = len(g.order)
		g.courseByQuiz[n.QuizID] = id
		g.order = append(g.order, n)
	}
	return g, nil
}

// MustBuild is like Build but panics on an invalid table.
func MustBuild(courses []catalog.Course) *Graph {
	g, err := Build(courses)
	if err != nil {
		panic(err)
	}
	return g
}

// Len returns the number of courses in the chain.
func (g *Graph) Len() int { return len(g.order) }

// Courses returns the nodes in chain order.
func (g *Graph) Courses() []Node {
	out := make([]Node, len(g.order))
	copy(out, g.order)
	return out
}

// Course returns the node for courseID.
func (g *Graph) Course(courseID string) (Node, error) {
	i, ok := g.byCourse[courseID]
	if !ok {
		return Node{}, fmt.Errorf("course %q: %w", courseID, domain.ErrUnknownCourse)
	}
	return g.order[i], nil
}

// Required returns the predecessor of courseID, or "" for the entry course.
func (g *Graph) Required(courseID string) (string, error) {
	n, err := g.Course(courseID)
	if err != nil {
		return "", err
	}
	return n.Required, nil
}

// Next returns the successor of courseID, or "" for the terminal course.
func (g *Graph) Next(courseID string) (string, error) {
	n, err := g.Course(courseID)
	if err != nil {
		return "", err
	}
	return n.Next, nil
}

// QuizForCourse returns the quiz that completes courseID.
func (g *Graph) QuizForCourse(courseID string) (string, error) {
	n, err := g.Course(courseID)
	if err != nil {
		return "", err
	}
	return n.QuizID, nil
}

// CourseForQuiz returns the course a quiz belongs to.
func (g *Graph) CourseForQuiz(quizID string) (string, error) {
	id, ok := g.courseByQuiz[quizID]
	if !ok {
		return "", fmt.Errorf("quiz %q: %w", quizID, domain.ErrUnknownQuiz)
	}
	return id, nil
}

// Accessible reports whether courseID is unlocked given the set of completed
// courses. The entry course is always accessible; any other course requires
// its immediate predecessor to be completed.
func (g *Graph) Accessible(courseID string, completed map[string]bool) (bool, error) {
	n, err := g.Course(courseID)
	if err != nil {
		return false, err
	}
	if n.Required == "" {
		return true, nil
	}
	return completed[n.Required], nil
}

// QuizAccessible reports whether the course owning quizID is unlocked.
func (g *Graph) QuizAccessible(quizID string, completed map[string]bool) (bool, error) {
	courseID, err := g.CourseForQuiz(quizID)
	if err != nil {
		return false, err
	}
	return g.Accessible(courseID, completed)
}

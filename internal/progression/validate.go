package progression

import (
	"fmt"
	"strings"
)

// validateChain performs all structural checks on the course table.
// Returns a combined error describing all problems found, or nil if valid.
func validateChain(nodes []Node) error {
	if len(nodes) == 0 {
		return fmt.Errorf("progression graph: no courses")
	}

	var errs []string

	byID := make(map[string]Node, len(nodes))
	quizOwner := make(map[string]string, len(nodes))

	// Duplicate ids and quiz mapping must be one-to-one
	for _, n := range nodes {
		if _, dup := byID[n.CourseID]; dup {
			errs = append(errs, fmt.Sprintf("duplicate course ID: %q", n.CourseID))
		}
		byID[n.CourseID] = n
		if n.QuizID == "" {
			errs = append(errs, fmt.Sprintf("course %q has no quiz", n.CourseID))
			continue
		}
		if owner, dup := quizOwner[n.QuizID]; dup {
			errs = append(errs, fmt.Sprintf("quiz %q mapped to both %q and %q", n.QuizID, owner, n.CourseID))
		}
		quizOwner[n.QuizID] = n.CourseID
	}

	// Dangling references and link symmetry
	var heads []string
	for _, n := range nodes {
		if n.Required == "" {
			heads = append(heads, n.CourseID)
		} else if req, ok := byID[n.Required]; !ok {
			errs = append(errs, fmt.Sprintf("course %q requires nonexistent course %q", n.CourseID, n.Required))
		} else if req.Next != n.CourseID {
			errs = append(errs, fmt.Sprintf("course %q requires %q but %q continues to %q", n.CourseID, n.Required, n.Required, req.Next))
		}

		if n.Next == "" {
			continue
		}
		if next, ok := byID[n.Next]; !ok {
			errs = append(errs, fmt.Sprintf("course %q continues to nonexistent course %q", n.CourseID, n.Next))
		} else if next.Required != n.CourseID {
			errs = append(errs, fmt.Sprintf("course %q continues to %q but %q requires %q", n.CourseID, n.Next, n.Next, next.Required))
		}
	}

	if len(heads) != 1 {
		errs = append(errs, fmt.Sprintf("want exactly one entry course, found %d: %s", len(heads), strings.Join(heads, ", ")))
	}

	// Walk from the entry course; every node must be reached exactly once
	if len(heads) == 1 && len(errs) == 0 {
		seen := make(map[string]bool, len(nodes))
		for id := heads[0]; id != ""; id = byID[id].Next {
			if seen[id] {
				errs = append(errs, fmt.Sprintf("cycle detected at course %q", id))
				break
			}
			seen[id] = true
		}
		if len(seen) != len(nodes) {
			var unreached []string
			for _, n := range nodes {
				if !seen[n.CourseID] {
					unreached = append(unreached, n.CourseID)
				}
			}
			errs = append(errs, fmt.Sprintf("courses not reachable from %q: %s", heads[0], strings.Join(unreached, ", ")))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("progression graph validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// Package answerkey maps quiz ids to their ordered correct answers.
package answerkey

import (
	"fmt"

	"github.com/abhisek/quizgate/internal/catalog"
	"github.com/abhisek/quizgate/internal/domain"
)

// Entry is one question of an answer key.
type Entry struct {
	QuestionID string
	Answer     string
}

// Key is the ordered answer key of a single quiz.
type Key []Entry

// Store is a read-only answer key lookup.
type Store struct {
	keys map[string]Key
}

// FromCatalog builds a Store from every quiz in the catalog.
func FromCatalog(c *catalog.Catalog) *Store {
	s := &Store{keys: make(map[string]Key, len(c.Quizzes))}
	for _, q := range c.Quizzes {
		key := make(Key, 0, len(q.Questions))
		for _, qq := range q.Questions {
			key = append(key, Entry{QuestionID: qq.ID, Answer: qq.Answer})
		}
		s.keys[q.ID] = key
	}
	return s
}

// Lookup returns the answer key for quizID, or domain.ErrUnknownQuiz.
func (s *Store) Lookup(quizID string) (Key, error) {
	key, ok := s.keys[quizID]
	if !ok {
		return nil, fmt.Errorf("answer key %q: %w", quizID, domain.ErrUnknownQuiz)
	}
	return key, nil
}

// Has reports whether a key is registered for quizID.
func (s *Store) Has(quizID string) bool {
	_, ok := s.keys[quizID]
	return ok
}

// Len returns the number of questions in the key.
func (k Key) Len() int { return len(k) }

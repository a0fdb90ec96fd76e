// Package catalog loads the course table and quiz answer keys that drive the
// progression engine. The catalog is the single configuration source for the
// progression graph, the quiz <-> course mapping and the answer keys.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// SupportedMajor is the catalog format major version this build understands.
const SupportedMajor = "v1"

//go:embed default.json
var defaultCatalog []byte

// Catalog is the full course and quiz configuration.
type Catalog struct {
	Version string   `json:"version" yaml:"version"`
	Courses []Course `json:"courses" yaml:"courses"`
	Quizzes []Quiz   `json:"quizzes" yaml:"quizzes"`
}

// Course is one node of the linear progression chain.
type Course struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
	Quiz     string `json:"quiz" yaml:"quiz"`
	Required string `json:"required,omitempty" yaml:"required,omitempty"`
	Next     string `json:"next,omitempty" yaml:"next,omitempty"`
}

// Quiz holds the ordered questions of a single quiz.
type Quiz struct {
	ID        string     `json:"id" yaml:"id"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Question is a single multiple-choice question. Prompt and Options are
// optional display text; Answer is the correct option letter.
type Question struct {
	ID      string   `json:"id" yaml:"id"`
	Answer  string   `json:"answer" yaml:"answer"`
	Prompt  string   `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`
}

// Default returns the built-in twelve-course catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("catalog: built-in catalog is invalid: %v", err))
	}
	return c
}

// Load reads a catalog file. Files ending in .yaml or .yml are decoded as
// YAML; everything else is treated as JSON.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yamlToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("decode catalog %s: %w", path, err)
		}
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse validates raw JSON against the catalog schema and decodes it.
func Parse(data []byte) (*Catalog, error) {
	if err := validateSchema(data); err != nil {
		return nil, err
	}

	var c Catalog
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the catalog for problems the schema cannot express:
// version compatibility, duplicate ids and dangling quiz references.
// Chain shape is checked by the progression graph.
func (c *Catalog) Validate() error {
	var errs []string

	if !semver.IsValid(c.Version) {
		errs = append(errs, fmt.Sprintf("invalid version %q", c.Version))
	} else if semver.Major(c.Version) != SupportedMajor {
		errs = append(errs, fmt.Sprintf("unsupported catalog version %s (want %s.x.x)", c.Version, SupportedMajor))
	}

	quizIDs := make(map[string]bool, len(c.Quizzes))
	for _, q := range c.Quizzes {
		if quizIDs[q.ID] {
			errs = append(errs, fmt.Sprintf("duplicate quiz ID: %q", q.ID))
		}
		quizIDs[q.ID] = true

		questionIDs := make(map[string]bool, len(q.Questions))
		for _, qq := range q.Questions {
			if questionIDs[qq.ID] {
				errs = append(errs, fmt.Sprintf("quiz %q: duplicate question ID %q", q.ID, qq.ID))
			}
			questionIDs[qq.ID] = true
		}
	}

	courseIDs := make(map[string]bool, len(c.Courses))
	for _, course := range c.Courses {
		if courseIDs[course.ID] {
			errs = append(errs, fmt.Sprintf("duplicate course ID: %q", course.ID))
		}
		courseIDs[course.ID] = true
		if !quizIDs[course.Quiz] {
			errs = append(errs, fmt.Sprintf("course %q references nonexistent quiz %q", course.ID, course.Quiz))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// Course returns the course with the given id.
func (c *Catalog) Course(id string) (Course, bool) {
	for _, course := range c.Courses {
		if course.ID == id {
			return course, true
		}
	}
	return Course{}, false
}

// Quiz returns the quiz with the given id.
func (c *Catalog) Quiz(id string) (Quiz, bool) {
	for _, q := range c.Quizzes {
		if q.ID == id {
			return q, true
		}
	}
	return Quiz{}, false
}

// yamlToJSON re-encodes a YAML document as JSON so both formats share the
// same schema validation path.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

package quiz

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/quizgate/internal/answerkey"
	"github.com/abhisek/quizgate/internal/attempts"
	"github.com/abhisek/quizgate/internal/catalog"
	"github.com/abhisek/quizgate/internal/certificate"
	"github.com/abhisek/quizgate/internal/grading"
	"github.com/abhisek/quizgate/internal/journal"
	"github.com/abhisek/quizgate/internal/ledger"
	"github.com/abhisek/quizgate/internal/profile"
	"github.com/abhisek/quizgate/internal/progression"
)

// Settings are the inputs Assemble needs to wire a Service.
type Settings struct {
	Catalog *catalog.Catalog
	Store   profile.Store
	// Sink receives journal events; nil disables the journal.
	Sink journal.Sink

	MaxAttempts   int
	PassThreshold int
	// TotalCourses defaults to the number of courses in the catalog.
	TotalCourses int

	Logger *zap.Logger
}

// Assemble builds the progression graph from the catalog and wires every
// component over one profile updater.
func Assemble(st Settings) (*Service, error) {
	log := st.Logger
	if log == nil {
		log = zap.NewNop()
	}

	graph, err := progression.Build(st.Catalog.Courses)
	if err != nil {
		return nil, fmt.Errorf("build progression graph: %w", err)
	}

	maxAttempts := st.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = attempts.DefaultMaxAttempts
	}
	total := st.TotalCourses
	if total <= 0 {
		total = graph.Len()
	}
	if total > graph.Len() {
		return nil, fmt.Errorf("total_courses %d exceeds the %d courses in the catalog", total, graph.Len())
	}

	var j *journal.Journal
	if st.Sink != nil {
		j = journal.New(st.Sink, log.Named("journal"))
	}

	updater := profile.NewUpdater(st.Store)
	keys := answerkey.FromCatalog(st.Catalog)
	tracker := attempts.New(updater, keys, maxAttempts)
	issuer := certificate.NewIssuer(updater, total, log.Named("certificate"))

	return NewService(Options{
		Profiles: updater,
		Graph:    graph,
		Grader:   grading.New(keys, st.PassThreshold),
		Tracker:  tracker,
		Ledger:   ledger.New(updater, graph, tracker, issuer, j, log.Named("ledger")),
		Issuer:   issuer,
		Journal:  j,
		Logger:   log.Named("quiz"),
	}), nil
}

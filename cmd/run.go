package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/quizgate/internal/app"
	"github.com/abhisek/quizgate/internal/screen"
	"github.com/abhisek/quizgate/internal/session"
)

type runOptions struct {
	courseID string
	quizID   string
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command, ro runOptions) error {
	d, err := openDeps(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	env := &screen.Env{
		Backend: d.service,
		Catalog: d.catalog,
		Events:  d.store.EventRepo(),
		Auth:    d.auth,
		SaveSession: func(s *session.Session) error {
			return d.sessions.Save(s)
		},
		Session: d.sess,
		Log:     d.log.Named("tui"),
	}

	return app.Run(app.Options{
		Env:         env,
		StartCourse: ro.courseID,
		StartQuiz:   ro.quizID,
		SkipSplash:  ro.quizID != "",
	})
}

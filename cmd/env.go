package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/quizgate/internal/catalog"
	"github.com/abhisek/quizgate/internal/config"
	"github.com/abhisek/quizgate/internal/domain"
	"github.com/abhisek/quizgate/internal/identity"
	"github.com/abhisek/quizgate/internal/logging"
	"github.com/abhisek/quizgate/internal/quiz"
	"github.com/abhisek/quizgate/internal/session"
	"github.com/abhisek/quizgate/internal/store"
)

// deps holds everything a command needs. Close releases the store and
// flushes the logger.
type deps struct {
	cfg      *config.Config
	log      *zap.Logger
	store    *store.Store
	catalog  *catalog.Catalog
	service  *quiz.Service
	auth     *identity.LocalProvider
	sessions *session.FileStore
	sess     *session.Session
}

// openDeps loads config, opens the database and assembles the services.
func openDeps(cmd *cobra.Command) (*deps, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	logFile := cfg.Log.File
	if logFile == "" {
		if logFile, err = logging.DefaultFile(); err != nil {
			return nil, err
		}
	}
	log, err := logging.New(logging.Options{Level: cfg.Log.Level, File: logFile})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	cat := catalog.Default()
	if cfg.Catalog != "" {
		if cat, err = catalog.Load(cfg.Catalog); err != nil {
			return nil, err
		}
	}

	dbPath, err := resolveDBPath(cmd, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	svc, err := quiz.Assemble(quiz.Settings{
		Catalog:       cat,
		Store:         st.ProfileRepo(),
		Sink:          st.EventRepo(),
		MaxAttempts:   cfg.MaxAttempts,
		PassThreshold: cfg.PassThreshold,
		TotalCourses:  cfg.TotalCourses,
		Logger:        log,
	})
	if err != nil {
		st.Close()
		return nil, err
	}

	sessionPath := cfg.SessionFile
	if sessionPath == "" {
		if sessionPath, err = session.DefaultPath(); err != nil {
			st.Close()
			return nil, err
		}
	}
	sessions := session.NewFileStore(sessionPath)
	sess, err := sessions.Load()
	if err != nil {
		log.Warn("ignoring unreadable session", zap.String("path", sessionPath), zap.Error(err))
		sess = nil
	}

	log.Debug("quizgate started",
		zap.String("db", dbPath),
		zap.String("config", cfg.File),
		zap.String("catalog_version", cat.Version))

	return &deps{
		cfg:     cfg,
		log:     log,
		store:   st,
		catalog: cat,
		service: svc,
		auth: identity.NewLocalProvider(st.AccountRepo(), svc.Profiles(), identity.LocalOptions{
			SignUpDisabled: cfg.SignUpDisabled,
			Logger:         log.Named("identity"),
		}),
		sessions: sessions,
		sess:     sess,
	}, nil
}

func (d *deps) Close() {
	if err := d.store.Close(); err != nil {
		d.log.Warn("close store", zap.Error(err))
	}
	_ = d.log.Sync()
}

// session returns the signed-in learner's session.
func (d *deps) session() (*session.Session, error) {
	if d.sess == nil {
		return nil, domain.ErrNotAuthenticated
	}
	return d.sess, nil
}

// reportedError marks an error whose message was already shown.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

// userError prints the learner-facing message for err.
func userError(cmd *cobra.Command, err error) error {
	cmd.PrintErrln(quiz.UserMessage(err))
	return reportedError{err}
}

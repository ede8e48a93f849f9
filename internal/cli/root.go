// Package cli is the cyclr command tree. Every command shares one store,
// logger and tracker service, opened before it runs and closed after.
package cli

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/cyclr/internal/config"
	"github.com/sadopc/cyclr/internal/logger"
	"github.com/sadopc/cyclr/internal/store"
	"github.com/sadopc/cyclr/internal/tracker"
	"github.com/sadopc/cyclr/internal/tui"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// env is what a command needs once the persistent pre-run has opened
// everything.
type env struct {
	cfg     *config.Config
	store   *store.Store
	svc     *tracker.Service
	log     *logrus.Logger
	closers []io.Closer
}

func (e *env) close() error {
	var first error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	e.closers = nil
	return first
}

// Execute runs the command tree against os.Args and releases whatever the
// command opened, even when it failed.
func Execute() error {
	e := &env{}
	err := newRootCmd(e).Execute()
	if cerr := e.close(); err == nil {
		err = cerr
	}
	return err
}

// newRootCmd builds the full command tree. Running it without a subcommand
// starts the terminal UI.
func newRootCmd(e *env) *cobra.Command {
	var dbPath, userID string

	root := &cobra.Command{
		Use:   "cyclr",
		Short: "cyclr - menstrual cycle tracker",
		Long: `cyclr records periods and predicts the next cycle: the next period,
ovulation and fertile window, plus how regular recent cycles have been.

Run without arguments for the terminal UI.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cmd.Flags().Changed("db") {
				cfg.DBPath = dbPath
			}
			if cmd.Flags().Changed("user") {
				cfg.UserID = userID
			}
			return e.open(cmd, cfg)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return e.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			p := tea.NewProgram(tui.NewApp(e.svc, e.store), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}

	root.PersistentFlags().StringVar(&dbPath, "db", "", "path to the SQLite database (default $CYCLR_DB_PATH or the user config dir)")
	root.PersistentFlags().StringVar(&userID, "user", "", "user whose periods to use (default $CYCLR_USER or default_user)")

	root.AddCommand(periodCmd(e))
	root.AddCommand(predictCmd(e))
	root.AddCommand(calendarCmd(e))
	root.AddCommand(exportCmd(e))
	root.AddCommand(serveCmd(e))
	return root
}

func (e *env) open(cmd *cobra.Command, cfg *config.Config) error {
	e.cfg = cfg

	// The UI owns the terminal, so the bare root command logs to a file.
	if cmd == cmd.Root() {
		log, closer, err := logger.NewFile(cfg)
		if err != nil {
			return err
		}
		e.log = log
		e.closers = append(e.closers, closer)
	} else {
		e.log = logger.New(cfg, cmd.ErrOrStderr())
	}

	s, err := store.New(cfg.DBPath)
	if err != nil {
		e.close()
		return fmt.Errorf("open database: %w", err)
	}
	e.closers = append(e.closers, s)

	e.store = s.ForUser(cfg.UserID)
	e.svc = tracker.New(e.store, e.log.WithField("user", e.store.UserID()))
	e.log.WithFields(logrus.Fields{"db": cfg.DBPath, "user": e.store.UserID()}).Debug("store opened")
	return nil
}

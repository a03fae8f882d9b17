package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/choro0121/todo-tui/internal/app"
	"github.com/choro0121/todo-tui/internal/config"
	"github.com/choro0121/todo-tui/internal/logging"
	"github.com/choro0121/todo-tui/internal/screen"
	"github.com/choro0121/todo-tui/internal/storage"
	"github.com/choro0121/todo-tui/internal/task"
	"github.com/choro0121/todo-tui/internal/term"
	"github.com/choro0121/todo-tui/internal/tui"
	"github.com/choro0121/todo-tui/internal/ui"
)

type rootFlags struct {
	configPath string
	frontend   string
}

// env is what every command needs once the config is loaded.
type env struct {
	cfg    config.Config
	parser *task.Parser
	clock  task.Clock
	repo   storage.Repository
	log    *log.Logger
	closer io.Closer
}

func (e *env) Close() error {
	err := e.repo.Close()
	if e.closer != nil {
		err = errors.Join(err, e.closer.Close())
	}
	return err
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:           "todo",
		Short:         "Browse and edit a todo.txt style task list in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(flags)
			if err != nil {
				return err
			}
			defer e.Close()
			return runInteractive(cmd.Context(), e)
		},
	}
	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default $TODO_TUI_CONFIG or ~/.config/todo-tui/config.toml)")
	cmd.Flags().StringVar(&flags.frontend, "frontend", "", "terminal frontend: raw or bubbletea")

	cmd.AddCommand(newAddCmd(flags))
	cmd.AddCommand(newListCmd(flags))
	cmd.AddCommand(newDoneCmd(flags, true))
	cmd.AddCommand(newDoneCmd(flags, false))
	return cmd
}

func openEnv(flags *rootFlags) (*env, error) {
	path := flags.configPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if flags.frontend != "" {
		cfg.Frontend = flags.frontend
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	logger, closer, err := logging.Open(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	opts := []task.Option{}
	if !cfg.SeedComplete {
		opts = append(opts, task.WithCompletionPolicy(task.LeaveUnset))
	}
	parser := task.NewParser(opts...)

	var repo storage.Repository
	switch cfg.Storage {
	case config.StorageSQLite:
		repo, err = storage.OpenSQLite(cfg.DBPath, parser)
		if err != nil {
			closer.Close()
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
	default:
		repo = storage.OpenTextFile(cfg.TodoPath, parser)
	}

	return &env{
		cfg:    cfg,
		parser: parser,
		clock:  time.Now,
		repo:   repo,
		log:    logger,
		closer: closer,
	}, nil
}

func runInteractive(ctx context.Context, e *env) error {
	if ctx == nil {
		ctx = context.Background()
	}
	tasks, err := e.repo.Load()
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}
	e.log.Info("starting", "frontend", e.cfg.Frontend, "storage", e.cfg.Storage, "tasks", len(tasks))

	opts := app.Options{
		Parser:   e.parser,
		Clock:    e.clock,
		Logger:   e.log,
		Saver:    e.repo,
		WrapRows: !e.cfg.ClampCursor,
	}

	var ctrl *app.Controller
	switch e.cfg.Frontend {
	case config.FrontendBubbleTea:
		buf := screen.New(80, 24)
		ctrl = app.New(buf, tasks, opts)
		err = ui.Run(ctx, ctrl, buf, e.cfg.TickRate())
	default:
		ctrl, err = runRaw(ctx, tasks, opts, e.cfg.TickRate())
	}
	if err != nil {
		e.log.Error("terminal failed", "err", err)
		return err
	}

	if err := e.repo.Save(ctrl.Tasks()); err != nil {
		return fmt.Errorf("failed to save tasks: %w", err)
	}
	e.log.Info("saved on exit", "tasks", len(ctrl.Tasks()))
	return nil
}

func runRaw(ctx context.Context, tasks []task.Task, opts app.Options, tickRate time.Duration) (*app.Controller, error) {
	t, err := term.Open(os.Stdin, os.Stdout)
	if err != nil {
		return nil, err
	}
	defer t.Close()

	ctrl := app.New(t, tasks, opts)
	if err := ctrl.Start(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := tui.Run(ctx, tui.Events(ctx, t, tickRate), ctrl); err != nil {
		return nil, err
	}
	return ctrl, nil
}

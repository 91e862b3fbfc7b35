package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/timaru/internal/commands"
	"github.com/sandeepkv93/timaru/internal/config"
	"github.com/sandeepkv93/timaru/internal/logging"
	"github.com/sandeepkv93/timaru/internal/planner"
	"github.com/sandeepkv93/timaru/internal/scheduler"
	"github.com/sandeepkv93/timaru/internal/storage"
	"github.com/sandeepkv93/timaru/internal/update"
)

const logFileName = "timaru.log"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "timaru: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := config.Setup(cfg); err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	interactive := len(args) == 0
	logOut, closeLog, err := logWriter(cfg, interactive)
	if err != nil {
		return err
	}
	defer closeLog()
	logger, err := logging.New(logOut, logging.Options{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		Prefix:    config.AppName,
		Timestamp: interactive,
	})
	if err != nil {
		return err
	}

	store := storage.NewStore(cfg.DBDir, logger)
	cache, err := storage.NewCache(cfg.CacheSize)
	if err != nil {
		return err
	}
	store.Cache = cache
	if cfg.IndexPath != "" {
		index, err := storage.OpenSQLiteIndex(cfg.IndexPath)
		if err != nil {
			logger.Warn("task index unavailable; search is disabled", "path", cfg.IndexPath, "err", err)
		} else {
			store.Index = index
			defer index.Close()
		}
	}

	p := planner.New(store, logger, planner.WithLocation(loc))
	if interactive {
		return runTUI(p, cfg, logger)
	}
	return runCommand(p, args)
}

func runCommand(p *planner.Planner, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd, err := commands.ParseArgs(args)
	if err != nil {
		var ce *commands.CommandError
		if errors.As(err, &ce) && ce.Code != commands.ErrCodeHandlerMissing {
			return fmt.Errorf("%w\n\n%s", err, commands.Usage)
		}
		return err
	}
	svc := commands.NewService(ctx, p, os.Stdout)
	res, err := commands.Execute(cmd, svc.Handlers())
	if err != nil {
		return err
	}
	if res.Message != "" {
		msg := res.Message
		if !strings.HasSuffix(msg, "\n") {
			msg += "\n"
		}
		fmt.Fprint(os.Stdout, msg)
	}
	return nil
}

func runTUI(p *planner.Planner, cfg config.RuntimeConfig, logger *log.Logger) error {
	engine := scheduler.NewEngine(cfg.SchedulerBuffer)
	engine.Start()
	defer engine.Stop()

	opts := update.OptionsFromConfig(cfg)
	opts.Scheduler = engine
	opts.Logger = logger

	program := tea.NewProgram(update.NewModel(p, opts), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	if dropped := engine.Dropped(); dropped > 0 {
		logger.Warn("reminders dropped", "count", dropped)
	}
	return nil
}

// logWriter sends logs to a file next to the config while the TUI owns the
// terminal, and to stderr otherwise.
func logWriter(cfg config.RuntimeConfig, interactive bool) (io.Writer, func(), error) {
	if !interactive {
		return os.Stderr, func() {}, nil
	}
	f, err := os.OpenFile(filepath.Join(cfg.ConfigDir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

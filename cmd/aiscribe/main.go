package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/alexanderramin/aiscribe/internal/cli"
	"github.com/alexanderramin/aiscribe/internal/config"
	"github.com/alexanderramin/aiscribe/internal/db"
	"github.com/alexanderramin/aiscribe/internal/llm"
	"github.com/alexanderramin/aiscribe/internal/logger"
	"github.com/alexanderramin/aiscribe/internal/repository"
	"github.com/alexanderramin/aiscribe/internal/service"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A .env file in the working directory is optional.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	observer := llm.NewZapObserver(log, cfg.LLM.LogCalls)
	client, err := llm.NewClient(cfg.LLM, observer)
	if errors.Is(err, llm.ErrMissingAPIKey) {
		log.Warn("no completion backend configured, using offline fallbacks",
			zap.String("backend", string(cfg.LLM.Backend)))
		client, err = llm.OfflineClient{}, nil
	}
	if err != nil {
		return err
	}

	cat, err := cfg.LoadCatalog()
	if err != nil {
		return err
	}

	useCases := service.NewZapUseCaseObserver(log)
	app := &cli.App{Version: version}

	// Open the archive unless disabled.
	var uow db.UnitOfWork
	if !cfg.NoArchive {
		dbPath, err := cfg.ResolveDBPath()
		if err != nil {
			return err
		}
		database, err := db.OpenDB(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		uow = db.NewSQLiteUnitOfWork(database)
		app.History = service.NewHistoryService(repository.NewSQLiteRefinementRepo(database), uow, useCases)
	}

	app.Refine = service.NewRefinementService(client, observer, cat, uow, cfg.MaxQuestions, useCases)

	// Detect interactive terminal for forms and the history pager.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}

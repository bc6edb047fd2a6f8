package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/agentboard/agentboard/internal/api"
	"github.com/agentboard/agentboard/internal/auth"
	"github.com/agentboard/agentboard/internal/config"
	"github.com/agentboard/agentboard/internal/db"
	"github.com/agentboard/agentboard/internal/repository"
	"github.com/agentboard/agentboard/internal/services"
	"github.com/agentboard/agentboard/internal/storage"
	"github.com/agentboard/agentboard/internal/tools"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "serve" {
		serve()
		return
	}
	fmt.Println("agentboard v0.1.0")
	fmt.Println("Usage: agentboard serve")
}

func serve() {
	// .env is optional; environment variables override config.yaml.
	godotenv.Load()

	cfg, err := config.LoadDefault()
	if err != nil {
		slog.Error("config error", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()

	wfMem := repository.NewWorkflowMemory()
	execMem := repository.NewExecutionMemory()
	var (
		workflows  repository.WorkflowRepository  = wfMem
		executions repository.ExecutionRepository = execMem
	)
	if cfg.Database.URL != "" {
		database, err := db.New(ctx, cfg.Database.URL)
		if err != nil {
			slog.Error("database connect error", "err", err)
			os.Exit(1)
		}
		defer database.Close()
		if err := database.Migrate(ctx); err != nil {
			slog.Error("database migrate error", "err", err)
			os.Exit(1)
		}
		workflows = repository.NewWorkflowPersistent(wfMem, database)
		executions = repository.NewExecutionPersistent(execMem, database)
		slog.Info("persistence enabled")
	} else {
		slog.Info("no database configured, running in-memory")
	}

	store, err := storage.NewLocalStorage(cfg.Storage.Dir)
	if err != nil {
		slog.Error("storage error", "err", err, "dir", cfg.Storage.Dir)
		os.Exit(1)
	}

	registry := tools.NewRegistry()
	if err := tools.RegisterBuiltins(registry, cfg.Storage.WorkspaceDir); err != nil {
		slog.Error("tool registration error", "err", err)
		os.Exit(1)
	}

	runner := services.NewRunner(workflows, executions, cfg.Execution.MaxConcurrent)

	sweeper, err := services.NewSweeper(executions, cfg.Retention.Schedule, cfg.Retention.MaxAge)
	if err != nil {
		slog.Error("retention schedule error", "err", err)
		os.Exit(1)
	}
	sweeper.Start()
	defer sweeper.Stop()

	srv := api.NewServer(workflows, executions, registry)
	srv.SetRunner(runner)
	srv.SetStorage(store)
	srv.SetAuthenticator(auth.New(cfg.Auth.Secret, cfg.Auth.TokenExpiry))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	slog.Info("starting agentboard server", "addr", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		slog.Error("server error", "err", err)
		os.Exit(1)
	}
}

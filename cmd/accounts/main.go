package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/accounts/internal/api"
	"github.com/terraincognita07/accounts/internal/cli"
	"github.com/terraincognita07/accounts/internal/config"
	"github.com/terraincognita07/accounts/internal/db"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config init failed: %v", err)
	}
	time.Local = cfg.Location()

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}
	deps := api.NewDependencies(database, cfg)

	if len(os.Args) > 1 && cli.IsCommand(os.Args[1]) {
		if err := runCommand(os.Args[1:], deps, os.Stdin, os.Stdout); err != nil {
			log.Fatalf("%s failed: %v", os.Args[1], err)
		}
		return
	}

	if err := serve(cfg, deps); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func runCommand(args []string, deps *api.Dependencies, stdin *os.File, stdout io.Writer) error {
	commands := cli.NewCommands(deps.Auth, deps.Notifications, cli.TerminalPrompt(stdin, stdout), stdout)
	return commands.Run(context.Background(), args)
}

func serve(cfg config.Config, deps *api.Dependencies) error {
	handler := api.NewHandler(deps, cfg.CookieSecure, nil)
	app := newApp(handler)

	lifecycleCtx, cancelLifecycle := context.WithCancel(context.Background())
	defer cancelLifecycle()
	deps.Sessions.StartJanitor(lifecycleCtx, cfg.JanitorInterval())

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		cancelLifecycle()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	log.Printf("accounts listening on http://0.0.0.0:%s (db: %s, tz: %s, session ttl: %s)",
		cfg.Port, cfg.DBPath, cfg.Location(), cfg.SessionTTL())
	return app.Listen(listenAddress(cfg.Port))
}

func newApp(handler *api.Handler) *fiber.App {
	return api.NewApp(handler, api.AppOptions{AppName: "accounts", AccessLog: true})
}

func listenAddress(port string) string {
	return fmt.Sprintf(":%s", port)
}

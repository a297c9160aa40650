package main

import (
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"

	"github.com/loanwise/client/internal/devserver"
	"github.com/loanwise/client/internal/logging"
)

func main() {
	cfg := devserver.LoadConfig()
	logger := logging.NewTextLogger(os.Stderr, slog.LevelInfo)

	server := devserver.NewServer(cfg, logger)
	app := server.App()

	go gracefulShutdown(app)

	log.Printf("devserver listening on %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatalf("%v", err)
	}
}

func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	if err := app.Shutdown(); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

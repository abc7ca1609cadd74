package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/michaelschaepers/coolsulting-testing-area/cmd/quotectl/internal/command"
)

func main() {
	_ = godotenv.Load()

	if err := command.New().Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/fintrack-dev/fintrack/internal/commands"
	"github.com/fintrack-dev/fintrack/internal/logging"
)

func main() {
	logging.Init(os.Getenv("FINTRACK_LOG_LEVEL"))

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.Logger(logging.SourceApp).Warn("could not read .env", "error", err)
	}

	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

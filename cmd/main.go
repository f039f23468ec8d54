package main

import (
	"log/slog"
	"os"

	"touchtrack/cmd/touchtrack"
	"touchtrack/logging"
)

func main() {
	level := logging.ParseLevel(os.Getenv("TOUCHTRACK_LOG_LEVEL"))

	slog.SetDefault(slog.New(logging.ContextHandler{
		Handler: slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	}))

	touchtrack.Execute()
}

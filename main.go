package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/empl/cli"
	"github.com/ardnew/empl/log"
)

func main() {
	err := cli.Run(context.Background(), os.Exit, os.Args[1:]...)
	if err != nil {
		// *lang.Error implements slog.LogValuer.
		log.Error("run failed", slog.Any("error", err))
		os.Exit(1)
	}
}

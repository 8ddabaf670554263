// Command jobs runs one maintenance job and exits. It is meant to be invoked
// by a scheduler:
//
//	jobs cleanup-inactive-chats
//	jobs rotate-encryption-keys
//	jobs compact-rate-limits
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"chatguard/internal/app"
	"chatguard/internal/platform/config"
	"chatguard/internal/platform/logger"
	"chatguard/internal/platform/sentry"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		return 2
	}
	log := logger.New(cfg.Log)

	if err := sentry.Init(cfg.Sentry); err != nil {
		log.Warn("sentry disabled", "error", err)
	}
	defer sentry.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, log)
	if err != nil {
		log.Error("failed to build services", "error", err)
		return 1
	}
	defer func() {
		if err := a.Close(context.WithoutCancel(ctx)); err != nil {
			log.Error("failed to release backends", "error", err)
		}
	}()

	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: jobs <%s>\n", strings.Join(a.Jobs.Names(), "|"))
		return 2
	}

	result, err := a.Jobs.Run(ctx, os.Args[1])
	if err != nil {
		log.Error("job failed", "job", os.Args[1], "error", err)
		return 1
	}
	if err := json.NewEncoder(os.Stdout).Encode(result); err != nil {
		log.Error("failed to write job result", "error", err)
		return 1
	}
	return 0
}

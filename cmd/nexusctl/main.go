package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/cli"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/session"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "nexusctl: load .env:", err)
		return 1
	}

	path, err := session.DefaultPath()
	if err != nil {
		fmt.Fprintln(os.Stderr, "nexusctl:", err)
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app := &cli.App{
		Out:      os.Stdout,
		Sessions: session.NewFileStore(path),
		Server:   os.Getenv("NEXUS_SERVER"),
	}
	if err := app.Run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "nexusctl:", err)
		if errors.Is(err, cli.ErrUsage) {
			return 2
		}
		return 1
	}
	return 0
}
